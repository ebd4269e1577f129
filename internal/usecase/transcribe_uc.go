// File: internal/usecase/transcribe_uc.go
package usecase

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/model"
	"cortex-labs/internal/domain/ports/adapter"
)

var _ TranscribeUseCase = (*transcribeUC)(nil)

type TranscribeUseCase interface {
	// Transcribe stages the audio bytes remotely, then runs transcription
	// over the staged reference.
	Transcribe(ctx context.Context, name string, audio io.Reader) (model.Transcript, error)
}

var supportedAudio = map[string]bool{
	".wav": true, ".mp3": true, ".flac": true, ".ogg": true, ".webm": true,
}

type transcribeUC struct {
	transcriber adapter.Transcriber
	stage       string
	log         *zerolog.Logger
}

func NewTranscribeUseCase(transcriber adapter.Transcriber, stage string, log *zerolog.Logger) *transcribeUC {
	return &transcribeUC{transcriber: transcriber, stage: stage, log: log}
}

func (t *transcribeUC) Transcribe(ctx context.Context, name string, audio io.Reader) (model.Transcript, error) {
	ext := strings.ToLower(path.Ext(name))
	if !supportedAudio[ext] {
		return model.Transcript{}, &domain.ValidationError{
			Field:  "file name",
			Reason: "supported audio formats: wav, mp3, flac, ogg, webm",
		}
	}

	staged, err := t.transcriber.Upload(ctx, t.stage, name, audio)
	if err != nil {
		return model.Transcript{}, err
	}
	t.log.Debug().Str("file", staged.Path()).Msg("audio staged")

	return t.transcriber.Transcribe(ctx, staged)
}
