package adapter

import (
	"context"
	"io"

	"cortex-labs/internal/domain/model"
)

// Transcriber is the port for the hosted transcription service. Audio bytes
// must be staged remotely first; Transcribe then operates on the reference.
type Transcriber interface {
	Upload(ctx context.Context, stage, name string, r io.Reader) (model.StagedFile, error)
	Transcribe(ctx context.Context, file model.StagedFile) (model.Transcript, error)
}
