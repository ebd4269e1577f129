package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/model"
)

type fakeTranscriber struct {
	uploads     int
	transcribes int
	lastStaged  model.StagedFile
	out         model.Transcript
	err         error
}

func (f *fakeTranscriber) Upload(ctx context.Context, stage, name string, r io.Reader) (model.StagedFile, error) {
	f.uploads++
	return model.StagedFile{Stage: stage, Name: name}, nil
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, file model.StagedFile) (model.Transcript, error) {
	f.transcribes++
	f.lastStaged = file
	return f.out, f.err
}

func TestTranscribeUploadsThenTranscribes(t *testing.T) {
	ft := &fakeTranscriber{out: model.Transcript{Text: "hello world", AudioDuration: 2.4}}
	uc := NewTranscribeUseCase(ft, "@audio_stage", testLogger())

	tr, err := uc.Transcribe(context.Background(), "memo.wav", strings.NewReader("RIFF"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if tr.Text != "hello world" || tr.AudioDuration != 2.4 {
		t.Fatalf("transcript = %+v", tr)
	}
	if ft.uploads != 1 || ft.transcribes != 1 {
		t.Fatalf("call counts = %d/%d", ft.uploads, ft.transcribes)
	}
	if ft.lastStaged.Name != "memo.wav" {
		t.Fatalf("staged name = %q", ft.lastStaged.Name)
	}
}

func TestTranscribeRejectsUnsupportedFormat(t *testing.T) {
	ft := &fakeTranscriber{}
	uc := NewTranscribeUseCase(ft, "@audio_stage", testLogger())

	_, err := uc.Transcribe(context.Background(), "notes.pdf", strings.NewReader("%PDF"))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if ft.uploads != 0 {
		t.Fatal("upload must be skipped for unsupported formats")
	}
}
