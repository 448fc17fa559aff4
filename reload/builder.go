package reload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDPlaceholder is replaced by the job ID in ExecBuilder arguments.
const IDPlaceholder = "{id}"

// maxOutputTail bounds the build output kept for the failure message.
const maxOutputTail = 2048

// Builder starts out-of-process builds of the module artifact.
type Builder interface {
	Start(ctx context.Context) (*BuildJob, error)
}

// BuildJob is one running or finished build.
//
// The build reports into a 1-buffered channel, so the goroutine that
// waits on it never blocks and Poll never waits.
type BuildJob struct {
	ID      string
	Started time.Time

	done chan error

	mu       sync.Mutex
	finished bool
	err      error
}

// NewBuildJob returns an unfinished job with a fresh ID.
func NewBuildJob() *BuildJob {
	return &BuildJob{
		ID:      uuid.NewString(),
		Started: time.Now(),
		done:    make(chan error, 1),
	}
}

// Finish records the outcome of the build. Only the first call counts.
func (j *BuildJob) Finish(err error) {
	select {
	case j.done <- err:
	default:
	}
}

// Poll reports whether the build has finished and, if so, its error.
func (j *BuildJob) Poll() (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finished {
		return true, j.err
	}
	select {
	case err := <-j.done:
		j.finished = true
		j.err = err
		return true, err
	default:
		return false, nil
	}
}

// Wait blocks until the build finishes or ctx is done.
func (j *BuildJob) Wait(ctx context.Context) error {
	for {
		if done, err := j.Poll(); done {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// BuilderFunc runs fn in its own goroutine as the build.
type BuilderFunc func(ctx context.Context, id string) error

// Start implements Builder.
func (f BuilderFunc) Start(ctx context.Context) (*BuildJob, error) {
	job := NewBuildJob()
	go func() {
		job.Finish(f(ctx, job.ID))
	}()
	return job, nil
}

// ExecBuilder runs a command to build the module, for example
// "go run ./cmd/fractal-app -o build/app.so". Arguments equal to or
// containing IDPlaceholder get the job ID substituted.
type ExecBuilder struct {
	Command []string
	Dir     string
	Env     []string
}

// NewExecBuilder returns a builder running name with args.
func NewExecBuilder(name string, args ...string) *ExecBuilder {
	return &ExecBuilder{Command: append([]string{name}, args...)}
}

// Start launches the command and returns without waiting for it.
func (b *ExecBuilder) Start(ctx context.Context) (*BuildJob, error) {
	if len(b.Command) == 0 {
		return nil, errors.New("reload: empty build command")
	}
	job := NewBuildJob()

	args := make([]string, len(b.Command))
	for i, a := range b.Command {
		args[i] = strings.ReplaceAll(a, IDPlaceholder, job.ID)
	}
	if err := startCommand(ctx, job, args, b.Dir, b.Env, nil); err != nil {
		return nil, err
	}
	return job, nil
}

// startCommand starts args and finishes job when the command exits. A
// non-nil after runs first with the command's outcome and decides the
// job's result.
func startCommand(ctx context.Context, job *BuildJob, args []string, dir string, env []string, after func(error) error) error {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // command comes from the host configuration
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(cmd.Environ(), env...)
	}
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("reload: start build: %w", err)
	}
	go func() {
		err := cmd.Wait()
		if err != nil {
			err = fmt.Errorf("%w: %v: %s", ErrBuildFailed, err, tail(out.Bytes(), maxOutputTail))
		}
		if after != nil {
			err = after(err)
		}
		job.Finish(err)
	}()
	return nil
}

// tail returns the last n bytes of b, trimmed.
func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return strings.TrimSpace(string(b))
}
