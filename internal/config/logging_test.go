package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pacer/smartscript/internal/script/testutil"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		logging  LoggingConfig
		contains string
		silent   bool
	}{
		{"text", LoggingConfig{Level: "info", Format: "text"}, "msg=hello", false},
		{"json", LoggingConfig{Level: "info", Format: "json"}, `"msg":"hello"`, false},
		{"filtered by level", LoggingConfig{Level: "error", Format: "text"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger, err := tt.logging.NewLogger(&buf)
			testutil.AssertNoError(t, err)

			logger.Info("hello")

			if tt.silent {
				if buf.Len() != 0 {
					t.Errorf("Expected no output, got %q", buf.String())
				}
				return
			}

			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("Expected output containing %q, got %q", tt.contains, buf.String())
			}
		})
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := LoggingConfig{Level: "loud", Format: "text"}.NewLogger(&bytes.Buffer{})
	testutil.AssertErrorContains(t, err, "logging.level")

	_, err = LoggingConfig{Level: "info", Format: "xml"}.NewLogger(&bytes.Buffer{})
	testutil.AssertErrorContains(t, err, "logging.format")
}

func TestOpenLogFile(t *testing.T) {
	dir := testutil.TempDir(t, nil)
	path := filepath.Join(dir, "nested", "server.log")

	file, err := OpenLogFile(path)
	testutil.AssertNoError(t, err)

	if _, err := file.WriteString("first\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_ = file.Close()

	file, err = OpenLogFile(path)
	testutil.AssertNoError(t, err)

	if _, err := file.WriteString("second\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_ = file.Close()

	content, err := os.ReadFile(path)
	testutil.AssertNoError(t, err)

	if string(content) != "first\nsecond\n" {
		t.Errorf("Expected appended content, got %q", content)
	}
}

func TestOpenLogFile_TruncatesLargeFile(t *testing.T) {
	dir := testutil.TempDir(t, nil)
	path := filepath.Join(dir, "server.log")

	testutil.WriteFile(t, path, strings.Repeat("x", MaxLogFileSize))

	file, err := OpenLogFile(path)
	testutil.AssertNoError(t, err)

	if _, err := file.WriteString("fresh\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_ = file.Close()

	content, err := os.ReadFile(path)
	testutil.AssertNoError(t, err)

	if string(content) != "fresh\n" {
		t.Errorf("Expected truncated file, got %d bytes", len(content))
	}
}
