package logger

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestStandardLogger_Prefixes(t *testing.T) {
	tests := []struct {
		name   string
		log    func(l *StandardLogger)
		prefix string
		msg    string
	}{
		{"info", func(l *StandardLogger) { l.Info("loaded %d cookies", 3) }, "[INFO]", "loaded 3 cookies"},
		{"warning", func(l *StandardLogger) { l.Warning("skipping %s", "line") }, "[WARNING]", "skipping line"},
		{"error", func(l *StandardLogger) { l.Error("save failed: %v", "denied") }, "[ERROR]", "save failed: denied"},
		{"debug", func(l *StandardLogger) { l.Debug("sent %s", "sid") }, "[DEBUG]", "sent sid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.log(NewStandardLogger(log.New(buf, "", 0), true))
			out := buf.String()
			if !strings.Contains(out, tt.prefix) {
				t.Errorf("expected %s prefix, got: %s", tt.prefix, out)
			}
			if !strings.Contains(out, tt.msg) {
				t.Errorf("expected message content, got: %s", out)
			}
		})
	}
}

func TestStandardLogger_DebugDisabled(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewStandardLogger(log.New(buf, "", 0), false)

	l.Debug("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no debug output, got: %s", buf.String())
	}
	if err := l.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

type closeBuffer struct {
	bytes.Buffer
	closed int
}

func (c *closeBuffer) Close() error {
	c.closed++
	return nil
}

func TestFileLogger_ClosesWriterOnce(t *testing.T) {
	w := &closeBuffer{}
	l := NewFileLogger(w, false)

	l.Info("saved %d cookies", 2)
	if !strings.Contains(w.String(), "[INFO] saved 2 cookies") {
		t.Errorf("unexpected output: %s", w.String())
	}
	if err := l.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.closed != 1 {
		t.Errorf("expected writer closed once, got %d", w.closed)
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Debug("test")
	l.Info("test")
	l.Warning("test")
	l.Error("test")
	if err := l.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestMockLogger_RecordsCalls(t *testing.T) {
	l := NewMockLogger()

	l.Debug("debug %d", 0)
	l.Info("info %d", 1)
	l.Info("info %d", 2)
	l.Warning("warn %s", "test")
	l.Error("err %v", "fail")

	if len(l.DebugCalls) != 1 || l.DebugCalls[0] != "debug 0" {
		t.Errorf("unexpected debug calls: %v", l.DebugCalls)
	}
	if len(l.InfoCalls) != 2 || l.InfoCalls[1] != "info 2" {
		t.Errorf("unexpected info calls: %v", l.InfoCalls)
	}
	if len(l.WarningCalls) != 1 || l.WarningCalls[0] != "warn test" {
		t.Errorf("unexpected warning calls: %v", l.WarningCalls)
	}
	if len(l.ErrorCalls) != 1 || l.ErrorCalls[0] != "err fail" {
		t.Errorf("unexpected error calls: %v", l.ErrorCalls)
	}
	if err := l.Close(); err != nil || !l.CloseCalled {
		t.Error("CloseCalled should be true after Close()")
	}
}

func TestMultiLogger_BroadcastsToAll(t *testing.T) {
	mock1 := NewMockLogger()
	mock2 := NewMockLogger()
	multi := NewMultiLogger(mock1, mock2)

	multi.Debug("debug msg")
	multi.Info("info msg")
	multi.Warning("warn msg")
	multi.Error("error msg")

	for i, m := range []*MockLogger{mock1, mock2} {
		if len(m.DebugCalls) != 1 || len(m.InfoCalls) != 1 || len(m.WarningCalls) != 1 || len(m.ErrorCalls) != 1 {
			t.Errorf("mock%d did not receive every message: %+v", i+1, m)
		}
	}
}

func TestMultiLogger_EmptyLoggers(t *testing.T) {
	multi := NewMultiLogger()
	multi.Info("test")
	if err := multi.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

// failingCloseLogger returns an error on Close.
type failingCloseLogger struct {
	NopLogger
	closeErr error
}

func (f *failingCloseLogger) Close() error {
	return f.closeErr
}

func TestMultiLogger_Close_ReturnsFirstError(t *testing.T) {
	err1 := errors.New("logger1 failed to close")
	err2 := errors.New("logger2 failed to close")
	mock := NewMockLogger()

	multi := NewMultiLogger(&failingCloseLogger{closeErr: err1}, mock, &failingCloseLogger{closeErr: err2})

	err := multi.Close()
	if !errors.Is(err, err1) {
		t.Errorf("expected first error %v, got %v", err1, err)
	}
	if !mock.CloseCalled {
		t.Error("expected mock logger to be closed even after first error")
	}
}
