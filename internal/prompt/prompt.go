// Package prompt flattens an ordered message history plus instructions into
// the single string a one-shot completion call takes. Everything here is a
// pure function of its inputs.
package prompt

import (
	"strings"

	"cortex-labs/internal/domain/model"
)

// Cue is the trailing line that positions the model to answer.
const Cue = "Assistant:"

// RenderMessage renders one record as "<Role>: <content>" with the role
// capitalized.
func RenderMessage(m model.Message) string {
	return renderRole(m.Role) + ": " + m.Content
}

func renderRole(role string) string {
	if role == "" {
		return "User"
	}
	return strings.ToUpper(role[:1]) + strings.ToLower(role[1:])
}

// Assemble builds the full prompt: optional system block, the last `window`
// history records in append order (all of them when window <= 0), the new
// user message, and the trailing Assistant cue. Blocks are joined with blank
// lines. Byte-identical output for identical inputs.
func Assemble(history []model.Message, system, userMsg string, window int) string {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}

	blocks := make([]string, 0, len(history)+3)
	if system != "" {
		blocks = append(blocks, system)
	}
	for _, m := range history {
		blocks = append(blocks, RenderMessage(m))
	}
	blocks = append(blocks, renderRole(model.RoleUser)+": "+userMsg)
	blocks = append(blocks, Cue)
	return strings.Join(blocks, "\n\n")
}
