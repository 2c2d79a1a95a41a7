package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger

	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger

	return buf.String()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if f, err := ParseFormat("Text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(Text) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) error = nil")
	}
}

func TestInitLogger(t *testing.T) {
	defer InitLogger(os.Stderr, LevelInfo, FormatText)

	t.Run("json respects level", func(t *testing.T) {
		var buf bytes.Buffer
		InitLogger(&buf, LevelWarn, FormatJSON)

		Info("hidden")
		Warn("shown", "record", 3)

		out := strings.TrimSpace(buf.String())
		if strings.Contains(out, "hidden") {
			t.Errorf("info message logged at warn level: %s", out)
		}

		var entry map[string]any
		if err := json.Unmarshal([]byte(out), &entry); err != nil {
			t.Fatalf("output is not one JSON line: %v: %s", err, out)
		}
		if entry["msg"] != "shown" {
			t.Errorf("msg = %v, want shown", entry["msg"])
		}
		ts, _ := entry["time"].(string)
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			t.Errorf("time %q is not RFC3339: %v", ts, err)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		InitLogger(&buf, LevelDebug, FormatText)

		Debug("parsing", "blocks", 2)
		if !strings.Contains(buf.String(), "msg=parsing") || !strings.Contains(buf.String(), "blocks=2") {
			t.Errorf("unexpected text output: %s", buf.String())
		}
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		InitLogger(&buf, Level(999), FormatJSON)

		Debug("hidden")
		Info("shown")
		if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})
}

func TestGetRunID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "Context with run ID",
			ctx:      WithRunID(context.Background(), "run-1"),
			expected: "run-1",
		},
		{
			name:     "Context without run ID",
			ctx:      context.Background(),
			expected: "",
		},
		{
			name:     "Context with wrong type value",
			ctx:      context.WithValue(context.Background(), RunIDKey, 12345),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetRunID(tt.ctx); got != tt.expected {
				t.Errorf("GetRunID() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainHelpers(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-42")

	output := captureLogOutput(func() {
		RecordSkipped(ctx, 3, errors.New("record 3: malformed id"))
		SortPass(ctx, 1, "Identifier", 12)
		RunSummary(ctx, "year", 12, 1, 1500*time.Millisecond)
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d log lines, want 3:\n%s", len(lines), output)
	}

	wantMsgs := []string{"record_skipped", "sort_pass", "run_complete"}
	for i, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d not JSON: %v", i, err)
		}
		if entry["msg"] != wantMsgs[i] {
			t.Errorf("line %d msg = %v, want %s", i, entry["msg"], wantMsgs[i])
		}
		if entry["run_id"] != "run-42" {
			t.Errorf("line %d run_id = %v, want run-42", i, entry["run_id"])
		}
	}

	if !strings.Contains(lines[0], `"error":"record 3: malformed id"`) {
		t.Errorf("record_skipped line missing error: %s", lines[0])
	}
	if !strings.Contains(lines[2], `"duration_ms":1500`) {
		t.Errorf("run_complete line missing duration: %s", lines[2])
	}
}
