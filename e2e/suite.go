package e2e

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
)

// lockedBuffer is a thread-safe bytes.Buffer for capturing process output
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer with mutex protection
func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

// String returns the buffer contents with mutex protection
func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// Runner manages a logviewer process for e2e tests
type Runner struct {
	t       *testing.T
	bin     string
	cmd     *exec.Cmd
	stdout  *lockedBuffer
	stderr  *lockedBuffer
	workDir string
}

// NewRunner creates a runner for a test case directory; the test is skipped when no binary is available
func NewRunner(t *testing.T, dir string) *Runner {
	t.Helper()

	bin := os.Getenv("LOGVIEWER_BIN")
	if bin == "" {
		bin = "logviewer"
	}

	path, err := exec.LookPath(bin)
	if err != nil {
		t.Skipf("logviewer binary not found (set LOGVIEWER_BIN): %v", err)
	}

	workDir, err := filepath.Abs(dir)
	if err != nil {
		t.Fatalf("failed to get absolute path: %v", err)
	}

	return &Runner{
		t:       t,
		bin:     path,
		workDir: workDir,
		stdout:  &lockedBuffer{},
		stderr:  &lockedBuffer{},
	}
}

func (r *Runner) command(args ...string) *exec.Cmd {
	cmd := exec.Command(r.bin, args...)
	cmd.Dir = r.workDir
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Env = append(os.Environ(), "LOGVIEWER_LOGGING_LEVEL=debug")

	return cmd
}

// Run executes logviewer to completion and returns its exit code
func (r *Runner) Run(args ...string) (int, error) {
	r.cmd = r.command(args...)

	err := r.cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	if err != nil {
		return -1, fmt.Errorf("failed to run logviewer: %w", err)
	}

	return 0, nil
}

// Start launches a long-running logviewer command such as apply --watch
func (r *Runner) Start(args ...string) error {
	r.cmd = r.command(args...)

	if err := r.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start logviewer: %w", err)
	}

	return nil
}

// Stop sends SIGTERM and waits for graceful shutdown
func (r *Runner) Stop() error {
	if r.cmd == nil || r.cmd.Process == nil || r.cmd.ProcessState != nil {
		return nil
	}

	if err := r.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}

	done := make(chan error, 1)

	go func() {
		done <- r.cmd.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-time.After(10 * time.Second):
		r.cmd.Process.Kill()
		<-done

		return fmt.Errorf("process did not exit gracefully, killed")
	}
}

// WaitForOutput blocks until pattern appears in stdout or timeout
func (r *Runner) WaitForOutput(pattern string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for output %q\nOutput:\n%s\nStderr:\n%s", pattern, r.Output(), r.Stderr())
		case <-ticker.C:
			if strings.Contains(r.Output(), pattern) {
				return nil
			}
		}
	}
}

// CopyFile replaces dst in the working directory with the contents of src
func (r *Runner) CopyFile(src, dst string) error {
	content, err := os.ReadFile(filepath.Join(r.workDir, src))
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return os.WriteFile(filepath.Join(r.workDir, dst), content, 0644)
}

// Output returns current stdout content
func (r *Runner) Output() string {
	return r.stdout.String()
}

// Stderr returns current stderr content
func (r *Runner) Stderr() string {
	return r.stderr.String()
}

// copyDir copies a flat testdata directory so tests can modify it
func copyDir(t *testing.T, src string) string {
	t.Helper()

	dst := t.TempDir()

	entries, err := os.ReadDir(src)
	if err != nil {
		t.Fatalf("failed to read %s: %v", src, err)
	}

	for _, e := range entries {
		content, err := os.ReadFile(filepath.Join(src, e.Name()))
		if err != nil {
			t.Fatalf("failed to read %s: %v", e.Name(), err)
		}

		if err := os.WriteFile(filepath.Join(dst, e.Name()), content, 0644); err != nil {
			t.Fatalf("failed to write %s: %v", e.Name(), err)
		}
	}

	return dst
}
