package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

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
		{"quiet", LevelQuiet, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelQuiet} {
		parsed, err := ParseLevel(l.String())
		if err != nil || parsed != l {
			t.Errorf("round trip of %v: got %v, %v", l, parsed, err)
		}
	}
	if Level(42).String() != "unknown" {
		t.Errorf("out of range level should be unknown, got %s", Level(42))
	}
}

func newTestConsole(level Level) (*Console, *bytes.Buffer) {
	var buf bytes.Buffer
	c := NewConsoleWriter(level, &buf)
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	return c, &buf
}

func TestConsole_Filtering(t *testing.T) {
	c, buf := newTestConsole(LevelWarn)

	c.Debug("debug message")
	c.Info("info message")
	c.Warn("warn message")
	c.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn should be dropped:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("warn and error should be written:\n%s", out)
	}
}

func TestConsole_Format(t *testing.T) {
	c, buf := newTestConsole(LevelDebug)

	c.WithComponent("server").Info("listening on %s", "stdio")

	want := "2024/05/01 12:30:00 info  [server] listening on stdio\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestConsole_NoArgsKeepsPercent(t *testing.T) {
	c, buf := newTestConsole(LevelDebug)

	msg := "100% done"
	c.Info(msg)
	if !strings.Contains(buf.String(), "100% done") {
		t.Errorf("message without args should be written verbatim, got %q", buf.String())
	}
}

func TestConsole_Quiet(t *testing.T) {
	c, buf := newTestConsole(LevelQuiet)

	c.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}
}

func TestNoop(t *testing.T) {
	var l Logger = NewNoop()
	l.Info("ignored")
	if l.WithComponent("x") != l {
		t.Error("WithComponent should return the same no-op logger")
	}
}
