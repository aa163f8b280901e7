package atop

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScript creates an executable shell script standing in for the replay
// tool.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-atop")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestExecReplayerArgs(t *testing.T) {
	t.Parallel()

	got := ExecReplayer{}.Args("/var/log/atop/atop_20240101", []string{"CPU", "MEM"})
	want := []string{"-r", "/var/log/atop/atop_20240101", "-P", "CPU,MEM"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Args() = %v, want %v", got, want)
	}
}

// TestExecReplayerStream runs a real child process end to end and checks the
// requested types reach the command line.
func TestExecReplayerStream(t *testing.T) {
	t.Parallel()

	bin := writeScript(t, `echo RESET
echo "MEM host 1700000000 d t 600 $2 $4"
echo SEP`)

	s := Open(context.Background(), []string{"log1"}, Options{Binary: bin, Types: []string{"MEM"}})
	defer s.Close()

	r, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got := r.Fields(); len(got) != 2 || got[0] != "log1" || got[1] != "MEM" {
		t.Fatalf("fields = %v, want [log1 MEM]", got)
	}
	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("Next() = %v, want io.EOF", err)
	}
}

func TestExecReplayerExitStatus(t *testing.T) {
	t.Parallel()

	bin := writeScript(t, `echo RESET
echo "cannot open raw file" >&2
exit 3`)

	s := Open(context.Background(), []string{"bad"}, Options{Binary: bin})
	_, err := s.Next()
	var rErr *ReplayError
	if !errors.As(err, &rErr) {
		t.Fatalf("Next() error = %v, want *ReplayError", err)
	}
	if !strings.Contains(rErr.Stderr, "cannot open raw file") {
		t.Fatalf("Stderr = %q", rErr.Stderr)
	}
}

func TestExecReplayerMissingBinary(t *testing.T) {
	t.Parallel()

	bin := filepath.Join(t.TempDir(), "no-such-atop")
	_, err := ExecReplayer{Binary: bin}.Replay(context.Background(), "x", []string{"ALL"})
	var rErr *ReplayError
	if !errors.As(err, &rErr) || rErr.Path != "x" {
		t.Fatalf("Replay() error = %v, want *ReplayError for x", err)
	}
}

// TestExecReplayerEarlyClose stops consuming while the child still runs;
// Close must terminate and reap it promptly.
func TestExecReplayerEarlyClose(t *testing.T) {
	t.Parallel()

	bin := writeScript(t, `echo RESET
echo "CPU host 1700000000 d t 600 100 4"
exec sleep 30`)

	s := Open(context.Background(), []string{"slow"}, Options{Binary: bin})
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Close() error = %v, want nil for an early stop", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Close() did not terminate the replay process")
	}
}
