package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteSplitsLinesAndStamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work", "metamorpheus.log")
	logger, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	var seen []string
	logger.OnLine(func(line string) { seen = append(seen, line) })

	fmt.Fprint(logger, "Loading proteins")
	fmt.Fprint(logger, "...\r\nSearching\n")
	fmt.Fprint(logger, "Done")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[2024-05-01T12:00:00Z] Loading proteins...\n" +
		"[2024-05-01T12:00:00Z] Searching\n" +
		"[2024-05-01T12:00:00Z] Done\n"
	if string(data) != want {
		t.Fatalf("log =\n%s\nwant\n%s", data, want)
	}
	if strings.Join(seen, "|") != "Loading proteins...|Searching|Done" {
		t.Fatalf("listener saw %q", seen)
	}
}

func TestPrintfAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")
	for i := 0; i < 2; i++ {
		logger, err := New(path)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		logger.Printf("run %d\n", i)
		_ = logger.Close()
	}
	data, _ := os.ReadFile(path)
	if strings.Count(string(data), "\n") != 2 || !strings.Contains(string(data), "] run 1") {
		t.Fatalf("log = %q", data)
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var logger *Logger
	if n, err := logger.Write([]byte("x\n")); n != 2 || err != nil {
		t.Fatalf("write = %d, %v", n, err)
	}
	logger.Printf("ignored")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
