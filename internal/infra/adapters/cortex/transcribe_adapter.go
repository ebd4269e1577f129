package cortex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/model"
	"cortex-labs/internal/domain/ports/adapter"
	"cortex-labs/internal/infra/metrics"
)

var _ adapter.Transcriber = (*TranscribeAdapter)(nil)

// TranscribeAdapter stages audio bytes remotely and runs the hosted
// transcription function over the staged reference.
type TranscribeAdapter struct {
	source SessionSource
}

func NewTranscribeAdapter(source SessionSource) *TranscribeAdapter {
	return &TranscribeAdapter{source: source}
}

// Upload puts the audio bytes into the remote staging area. Transcription
// requires the reference, not the bytes, so this always runs first.
func (t *TranscribeAdapter) Upload(ctx context.Context, stage, name string, r io.Reader) (model.StagedFile, error) {
	sess, err := t.source.Resolve(ctx)
	if err != nil {
		return model.StagedFile{}, err
	}

	stage = strings.TrimPrefix(stage, "@")
	endpoint := fmt.Sprintf("%s/api/v2/stages/%s/files/%s", sess.Host, url.PathEscape(stage), url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, r)
	if err != nil {
		return model.StagedFile{}, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if sess.TokenType == "OAUTH" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
		req.Header.Set("X-Snowflake-Authorization-Token-Type", "OAUTH")
	} else {
		req.Header.Set("Authorization", `Snowflake Token="`+sess.Token+`"`)
	}

	start := time.Now()
	resp, err := (&http.Client{Timeout: 2 * time.Minute}).Do(req)
	success := err == nil && resp != nil && resp.StatusCode < 300
	metrics.ObserveRemoteCall("upload", "cortex", int(time.Since(start).Milliseconds()), success)
	if err != nil {
		return model.StagedFile{}, &domain.RemoteCallError{
			Provider:  "cortex",
			Operation: "transcribe",
			Hint:      "check that the stage exists and the session may write to it",
			Cause:     err,
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return model.StagedFile{}, &domain.RemoteCallError{
			Provider:  "cortex",
			Operation: "transcribe",
			Hint:      "check that the stage exists and the session may write to it",
			Cause:     fmt.Errorf("stage upload http %d", resp.StatusCode),
		}
	}

	return model.StagedFile{Stage: "@" + stage, Name: name}, nil
}

func (t *TranscribeAdapter) Transcribe(ctx context.Context, file model.StagedFile) (model.Transcript, error) {
	sess, err := t.source.Resolve(ctx)
	if err != nil {
		return model.Transcript{}, err
	}

	stmt := fmt.Sprintf("SELECT AI_TRANSCRIBE(TO_FILE('%s', '%s'))", file.Stage, file.Name)
	body := map[string]any{"statement": stmt, "warehouse": sess.Warehouse}

	var payload struct {
		Data [][]string `json:"data"`
	}

	start := time.Now()
	err = sess.Do(ctx, http.MethodPost, "/api/v2/statements", body, &payload)
	metrics.ObserveRemoteCall("transcribe", "cortex", int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return model.Transcript{}, &domain.RemoteCallError{
			Provider:  "cortex",
			Operation: "transcribe",
			Hint:      "supported formats are wav/mp3/flac/ogg/webm; check the staged file",
			Cause:     err,
		}
	}
	if len(payload.Data) == 0 || len(payload.Data[0]) == 0 {
		return model.Transcript{}, &domain.RemoteCallError{
			Provider:  "cortex",
			Operation: "transcribe",
			Hint:      "the service returned no rows",
			Cause:     fmt.Errorf("empty result for %s", file.Path()),
		}
	}

	var tr model.Transcript
	if err := json.Unmarshal([]byte(payload.Data[0][0]), &tr); err != nil {
		return model.Transcript{}, &domain.RemoteCallError{
			Provider:  "cortex",
			Operation: "transcribe",
			Hint:      "unexpected transcription payload shape",
			Cause:     err,
		}
	}
	return tr, nil
}
