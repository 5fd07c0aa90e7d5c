package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerNamedComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("app").Named("predictor").Info(context.Background(), "predicted", Int("score", 171))

	out := buf.String()
	if !strings.Contains(out, "component=app.predictor") {
		t.Fatalf("expected dotted component name, got %q", out)
	}
	if !strings.Contains(out, "score=171") {
		t.Fatalf("expected score field, got %q", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Fatalf("expected caller to point at the test file, got %q", out)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if err := SetFormat(FormatJSON); err != nil {
		t.Fatalf("failed to switch to json: %v", err)
	}
	defer func() { _ = SetFormat(FormatText) }()

	Get().Warn(context.Background(), "substituted", String("field", "batting_team"), Error(errors.New("boom")))

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected a json line, got %q: %v", buf.String(), err)
	}
	if line["field"] != "batting_team" {
		t.Errorf("field = %v", line["field"])
	}
	if line["error"] != "boom" {
		t.Errorf("error = %v", line["error"])
	}
	if line["level"] != "WARN" {
		t.Errorf("level = %v", line["level"])
	}
}

func TestSetFormatRejectsUnknown(t *testing.T) {
	if err := SetFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = SetLevelString("info") }()

	for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("SetLevelString(%q) returned %v", lvl, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}

	_ = SetLevelString("error")
	buf.Reset()
	Get().Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at error level, got %q", buf.String())
	}
}
