package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf)

	logger.Info("loaded 3 rows")
	logger.Warning("column has not all numbers")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], "] INFO: loaded 3 rows") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "] WARNING: column has not all numbers") {
		t.Errorf("unexpected second line %q", lines[1])
	}
}

func TestSetLevelDropsLowerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf)
	logger.SetLevel(WARNING)

	logger.Debug("debug")
	logger.Info("info")
	logger.Error("error")

	if strings.Contains(buf.String(), "debug") || strings.Contains(buf.String(), "info") {
		t.Errorf("lower levels should be dropped: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "ERROR: error") {
		t.Errorf("error line missing: %q", buf.String())
	}
}

func TestSubscribe(t *testing.T) {
	logger := Discard()
	ch := logger.Subscribe()

	logger.Info("hello")

	select {
	case msg := <-ch:
		if !strings.Contains(msg, "INFO: hello") {
			t.Errorf("unexpected message %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the entry")
	}

	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-ch; ok {
		t.Error("subscriber channel should be closed after Close")
	}
}

func TestUnsubscribe(t *testing.T) {
	logger := Discard()
	a := logger.Subscribe()
	b := logger.Subscribe()

	logger.Unsubscribe(a)
	if _, ok := <-a; ok {
		t.Error("unsubscribed channel should be closed")
	}

	logger.Info("still delivered")
	if msg := <-b; !strings.Contains(msg, "still delivered") {
		t.Errorf("unexpected message %q", msg)
	}
	// 重复取消不会 panic
	logger.Unsubscribe(a)
	_ = logger.Close()
}

func TestCheckRotate(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "app.log")

	logger, err := NewLogger(name)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	rotated, err := logger.CheckRotate("1 * 1024")
	if err != nil {
		t.Fatal(err)
	}
	if rotated {
		t.Fatal("empty log must not rotate")
	}

	for i := 0; i < 50; i++ {
		logger.Info(strings.Repeat("x", 40))
	}

	rotated, err = logger.CheckRotate("1 * 1024")
	if err != nil {
		t.Fatal(err)
	}
	if !rotated {
		t.Fatal("expected rotation")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected current and rotated log, got %d files", len(entries))
	}

	logger.Info("after rotation")
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "after rotation") || strings.Contains(string(data), "xxxx") {
		t.Errorf("new log file has unexpected content %q", data)
	}
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	logger, err := NewLogger(first)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.Info("one")
	if err := logger.Reopen(second); err != nil {
		t.Fatal(err)
	}
	logger.Info("two")

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if !strings.Contains(string(a), "one") || strings.Contains(string(a), "two") {
		t.Errorf("first log content %q", a)
	}
	if !strings.Contains(string(b), "two") {
		t.Errorf("second log content %q", b)
	}

	if err := NewWriterLogger(&bytes.Buffer{}).Reopen(""); err == nil {
		t.Error("reopen of a writer logger should fail")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		expr    string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"1024", 1024, false},
		{"10 * 1024 * 1024", 10 * 1024 * 1024, false},
		{"10*1024", 10240, false},
		{"ten * 2", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.expr)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSize(%q) err = %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.expr, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != DEBUG || ParseLevel("warn") != WARNING || ParseLevel("?") != INFO {
		t.Error("ParseLevel mismatch")
	}
}
