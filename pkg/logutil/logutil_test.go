package logutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetOutput(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	logger := GetLogger("[test] ")
	var buf bytes.Buffer
	SetOutput(&buf)
	logger.Println("hello")
	GetLogger("[late] ").Println("world")

	got := buf.String()
	if !strings.Contains(got, "[test] ") || !strings.Contains(got, "hello") {
		t.Errorf("output %q does not contain the first log", got)
	}
	if !strings.Contains(got, "[late] ") || !strings.Contains(got, "world") {
		t.Errorf("output %q does not contain the second log", got)
	}
}

func TestSetOutputFile(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	fname := filepath.Join(t.TempDir(), "log")
	if err := SetOutputFile(fname); err != nil {
		t.Fatal(err)
	}
	GetLogger("[file] ").Println("to file")
	SetOutput(io.Discard)

	bs, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bs), "[file] ") {
		t.Errorf("log file has %q", bs)
	}
}

func TestSetOutputFile_BadPath(t *testing.T) {
	err := SetOutputFile(filepath.Join(t.TempDir(), "no", "such", "dir", "log"))
	if err == nil {
		t.Errorf("want error for a path in a missing directory")
	}
}
