package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedLogger(buf *bytes.Buffer, level Level) Logger {
	logger := New(buf, level).(*logfmtLogger)
	logger.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return logger
}

func TestLoggerWritesLogfmt(t *testing.T) {
	var buf bytes.Buffer
	logger := fixedLogger(&buf, Info).With(F("session_id", "s1"))
	logger.Info("stream open", F("cursor", "evt 9"), F("count", 3), Err(errors.New("boom")))

	want := `ts=2024-01-02T03:04:05Z level=info msg="stream open" session_id=s1 cursor="evt 9" count=3 error=boom` + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected line:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := fixedLogger(&buf, Warn)
	logger.Info("hidden")
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	if !logger.Enabled(Error) || logger.Enabled(Info) {
		t.Fatalf("unexpected enabled levels")
	}
	logger.Warn("shown", F("d", 2*time.Second))
	if !strings.Contains(buf.String(), "level=warn") || !strings.Contains(buf.String(), "d=2s") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNopDiscardsEverything(t *testing.T) {
	logger := Nop()
	if logger.Enabled(Error) {
		t.Fatalf("expected nop logger to be disabled")
	}
	logger.Error("ignored")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"":        Info,
		"verbose": Info,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ui.log")
	for i := 0; i < 2; i++ {
		logger, closer, err := OpenFile(path, Debug)
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		logger.Debug("line")
		if err := closer.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := strings.Count(string(data), "msg=line"); got != 2 {
		t.Fatalf("expected 2 lines, got %d", got)
	}
}

func TestNewRequestIDIsUnique(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	if a == "" || a == b {
		t.Fatalf("expected distinct ids, got %q %q", a, b)
	}
}

func TestLoggerMasksCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := fixedLogger(&buf, Debug).With(F("Authorization", "Bearer abc"))
	logger.Debug("request", F("token", "secret"), F("path", "/api/v1/sessions"))

	out := buf.String()
	if strings.Contains(out, "secret") || strings.Contains(out, "abc") {
		t.Fatalf("expected credentials to be masked, got %q", out)
	}
	if !strings.Contains(out, "Authorization=***") || !strings.Contains(out, "token=***") || !strings.Contains(out, "path=/api/v1/sessions") {
		t.Fatalf("unexpected output %q", out)
	}
}
