package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestStripANSI(t *testing.T) {
	t.Parallel()

	in := ansiBlue + "INFO" + ansiReset + " plain " + ansiRed + "ERR" + ansiReset
	got := stripANSI(in)
	want := "INFO plain ERR"
	if got != want {
		t.Fatalf("stripANSI()=%q want=%q", got, want)
	}
}

func TestPrettyHandler_PlainOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, false))

	log.Info("http.request", "method", "get", "path", "/api/auth/check", "status", 200, "duration_ms", int64(12))

	line := buf.String()
	for _, want := range []string{
		"lvl=[INFO]",
		"msg=http.request",
		"method=GET",
		"path=/api/auth/check",
		"status=200",
		"duration_ms=12ms",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("output missing %q: %q", want, line)
		}
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("color disabled but output has escapes: %q", line)
	}
}

func TestPrettyHandler_ColorRoundtrips(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, true))

	log.Error("server.fail", "err", "boom boom")

	line := buf.String()
	if !strings.Contains(line, ansiRed) {
		t.Fatalf("expected colored [ERROR] tag: %q", line)
	}
	plain := stripANSI(line)
	if !strings.Contains(plain, "lvl=[ERROR]") {
		t.Fatalf("stripped output missing level tag: %q", plain)
	}
	if !strings.Contains(plain, `err="boom boom"`) {
		t.Fatalf("value with spaces not quoted: %q", plain)
	}
}

func TestPrettyHandler_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}, false))

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info record emitted below min level: %q", buf.String())
	}

	log.Warn("kept")
	if !strings.Contains(buf.String(), "msg=kept") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestPrettyHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, nil, false))

	log.WithGroup("db").With("pool", "main").Info("connected", "conns", 5)

	line := buf.String()
	if !strings.Contains(line, "db.pool=main") {
		t.Fatalf("grouped attr missing: %q", line)
	}
	if !strings.Contains(line, "db.conns=5") {
		t.Fatalf("grouped record attr missing: %q", line)
	}
}
