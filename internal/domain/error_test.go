package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConnectionErrorNamesAttemptsAndUnwraps(t *testing.T) {
	cause := errors.New("no token file")
	err := &ConnectionError{
		Attempts:     []string{"ambient", "configured"},
		RequiredKeys: []string{"snowflake.connections.my_example_connection.account"},
		Cause:        cause,
	}

	if !strings.Contains(err.Error(), "ambient, configured") {
		t.Fatalf("message must list attempts in order: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause must unwrap")
	}
}

func TestRemoteCallErrorSurvivesWrapping(t *testing.T) {
	inner := &RemoteCallError{Provider: "cortex", Operation: "complete", Cause: errors.New("boom")}
	wrapped := fmt.Errorf("send turn: %w", inner)

	var rce *RemoteCallError
	if !errors.As(wrapped, &rce) {
		t.Fatalf("want RemoteCallError through the wrap, got %v", wrapped)
	}
	if rce.Provider != "cortex" {
		t.Fatalf("provider = %q", rce.Provider)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(&ValidationError{Field: "query", Reason: "empty"}) {
		t.Fatal("validation failures are terminal")
	}
	if IsRetryable(fmt.Errorf("outer: %w", &ValidationError{Field: "x", Reason: "y"})) {
		t.Fatal("wrapped validation failures are still terminal")
	}
	if !IsRetryable(&ConnectionError{Cause: errors.New("net down")}) {
		t.Fatal("connection failures may succeed on another strategy")
	}
	if !IsRetryable(&RemoteCallError{Provider: "cortex", Operation: "search", Cause: errors.New("503")}) {
		t.Fatal("remote failures are retryable")
	}
	if IsRetryable(nil) {
		t.Fatal("nil is not an error")
	}
}
