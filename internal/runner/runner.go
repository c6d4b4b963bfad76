package runner

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"eperf/internal/cli/command"
	appErr "eperf/pkg/errors"
)

const (
	// Shell conventions for a command that cannot be found or executed.
	StatusNotFound      = 127
	StatusNotExecutable = 126

	defaultGracePeriod = 5 * time.Second
	shellPath          = "/bin/sh"
)

// Runner executes an invocation and reports its exit status.
type Runner interface {
	Run(ctx context.Context, inv command.Invocation) (int, error)
}

// ExecRunner runs invocations as child processes sharing the caller's stdio.
type ExecRunner struct {
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	GracePeriod time.Duration
}

// NewExecRunner creates a runner wired to the process's standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		GracePeriod: defaultGracePeriod,
	}
}

// Run blocks until the child exits. A non-zero child status is not an error;
// the error return is reserved for children that could not be started.
// A script without an interpreter line is handed to /bin/sh, as a shell
// would do.
func (r *ExecRunner) Run(ctx context.Context, inv command.Invocation) (int, error) {
	if inv.Program == "" {
		return -1, appErr.Newf(appErr.ScriptStartFailed, "empty command")
	}

	// The terminal delivers ^C to the child as well; the dispatcher stays
	// alive to report how the child ended.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	status, err := r.run(ctx, inv.Program, inv.Args)
	if errors.Is(err, syscall.ENOEXEC) {
		return r.run(ctx, shellPath, inv.Argv())
	}
	return status, err
}

func (r *ExecRunner) run(ctx context.Context, program string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	// Give the script a chance to clean up before it is killed.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.GracePeriod
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = defaultGracePeriod
	}

	err := cmd.Run()
	return exitCodeFromErr(err, cmd.ProcessState)
}

func exitCodeFromErr(err error, state *os.ProcessState) (int, error) {
	if state != nil {
		return state.ExitCode(), nil
	}
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return StatusNotFound, nil
	}
	if errors.Is(err, fs.ErrPermission) {
		return StatusNotExecutable, nil
	}
	return -1, appErr.Wrapf(err, appErr.ScriptStartFailed, "start script failed: %v", err)
}
