package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := std
	std = slog.New(contextAttrHandler{h: slog.NewJSONHandler(&buf, nil)})
	t.Cleanup(func() { std = prev })
	return &buf
}

func TestContextAttrs(t *testing.T) {
	buf := captureLogger(t)

	ctx := api_context.WithJobID(context.Background(), "job-1")
	ctx = context.WithValue(ctx, api_context.AuthSubjectKey, "core")
	Infof(ctx, "hello %s", "world")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	if rec["msg"] != "hello world" {
		t.Errorf("msg = %v; want %q", rec["msg"], "hello world")
	}
	if rec["job"] != "job-1" {
		t.Errorf("job = %v; want %q", rec["job"], "job-1")
	}
	if rec["sub"] != "core" {
		t.Errorf("sub = %v; want %q", rec["sub"], "core")
	}
}

func TestContextAttrs_SystemDefault(t *testing.T) {
	buf := captureLogger(t)

	Warn(context.Background(), "no caller")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	if rec["sub"] != "system" {
		t.Errorf("sub = %v; want %q", rec["sub"], "system")
	}
	if _, ok := rec["job"]; ok {
		t.Errorf("job attr should be absent, got %v", rec["job"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in).Level(); got != want {
			t.Errorf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}
