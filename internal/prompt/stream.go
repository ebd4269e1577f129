package prompt

import "strings"

// Stream replays an already-complete response word by word. It is purely
// cosmetic: the network call has finished before the first Next. The
// sequence is finite and restartable; pacing is the consumer's business.
type Stream struct {
	words []string
	pos   int
}

// NewStream splits the response on spaces. Each yielded word keeps a
// trailing space so consumers can concatenate chunks verbatim.
func NewStream(response string) *Stream {
	return &Stream{words: strings.Fields(response)}
}

func (s *Stream) Next() (string, bool) {
	if s.pos >= len(s.words) {
		return "", false
	}
	w := s.words[s.pos]
	s.pos++
	if s.pos < len(s.words) {
		w += " "
	}
	return w, true
}

func (s *Stream) Reset() { s.pos = 0 }

func (s *Stream) Len() int { return len(s.words) }
