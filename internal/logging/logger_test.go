package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestFromContextAddsRequestScopedFields(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	SetGlobal(New(Config{Level: "debug", Format: "json", Output: &buf}))

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), 42)
	FromContext(ctx).Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["user_id"] != float64(42) {
		t.Errorf("user_id = %v", entry["user_id"])
	}
	if entry["service"] != "concertline" {
		t.Errorf("service = %v", entry["service"])
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "nonsense", Output: &buf})
	logger.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line should be filtered at info level, got %q", buf.String())
	}
}
