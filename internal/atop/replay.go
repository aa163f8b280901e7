package atop

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultBinary is the replay tool looked up on PATH when none is configured.
const DefaultBinary = "atop"

const waitDelay = 2 * time.Second

// Replayer starts the replay of one log file. The returned ReadCloser yields
// the replay's line-oriented output; Close must release the underlying
// process on every path, whether or not the output was drained.
type Replayer interface {
	Replay(ctx context.Context, path string, types []string) (io.ReadCloser, error)
}

// ExecReplayer runs the replay tool as a child process:
//
//	<Binary> -r <path> -P <TYPE,TYPE,...>
type ExecReplayer struct {
	Binary string
}

// Args returns the command line arguments for replaying path.
func (r ExecReplayer) Args(path string, types []string) []string {
	return []string{"-r", path, "-P", strings.Join(types, ",")}
}

// Replay spawns the process. A spawn failure is returned immediately as a
// *ReplayError.
func (r ExecReplayer) Replay(ctx context.Context, path string, types []string) (io.ReadCloser, error) {
	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, bin, r.Args(path, types)...)
	// Bounds Wait when an orphaned grandchild keeps stderr open.
	cmd.WaitDelay = waitDelay
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &ReplayError{Path: path, Err: err}
	}
	p := &process{cmd: cmd, stdout: stdout, path: path}
	cmd.Stderr = &p.stderr

	if err := cmd.Start(); err != nil {
		return nil, &ReplayError{Path: path, Err: err}
	}
	return p, nil
}

// process owns one running replay. Close kills the child if its output was
// not drained, then always waits for it.
type process struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	path   string

	drained   bool
	closeOnce sync.Once
	closeErr  error
}

func (p *process) Read(b []byte) (int, error) {
	n, err := p.stdout.Read(b)
	if errors.Is(err, io.EOF) {
		p.drained = true
	}
	return n, err
}

func (p *process) Close() error {
	p.closeOnce.Do(func() {
		if !p.drained {
			// Early stop: the exit status of a killed replay is meaningless.
			_ = p.cmd.Process.Kill()
			_ = p.cmd.Wait()
			return
		}
		if err := p.cmd.Wait(); err != nil {
			p.closeErr = &ReplayError{Path: p.path, Err: err, Stderr: p.stderr.String()}
		}
	})
	return p.closeErr
}
