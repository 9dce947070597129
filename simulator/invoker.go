// Package simulator drives the external game simulator, one blocking
// invocation per candidate move.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/shlex"
	"github.com/rs/zerolog/log"
)

// Sentinel outputs substituted for genuine simulator text. Both must
// fail win-rate extraction cleanly instead of crashing the run.
const (
	// TimeoutOutput replaces the output of an invocation that exceeded
	// its time budget.
	TimeoutOutput = "SIMULATOR_TIMEOUT"
	// errorPrefix starts the output substituted for any other
	// invocation failure; the failure description follows it.
	errorPrefix = "SIMULATOR_ERROR: "
)

// DefaultMoveFile is the fixed side-channel path where the selected
// move index is written before each index-mode invocation, for
// simulators that read their move from a file instead of the command
// line.
const DefaultMoveFile = "agents/move.txt"

// ErrorOutput builds the failure sentinel for an invocation error.
func ErrorOutput(err error) string {
	return errorPrefix + err.Error()
}

// Invoker runs the external simulator from a command template. The
// template carries a `{move}` placeholder in index mode or an `{input}`
// placeholder in file mode.
type Invoker struct {
	// Template is the simulator command line with its placeholder.
	Template string
	// Timeout bounds each invocation; the child process is killed when
	// the deadline passes. Zero means unbounded.
	Timeout time.Duration
	// Delay, when non-zero, is slept after every invocation to
	// throttle load on the simulator.
	Delay time.Duration
	// MoveFile overrides DefaultMoveFile as the index-mode side
	// channel.
	MoveFile string
}

// RunMove invokes the simulator for one catalog index: the index is
// substituted for `{move}` and also written as plain decimal text to
// the side-channel move file before the call.
func (inv *Invoker) RunMove(ctx context.Context, idx int) string {
	if err := inv.writeMoveFile(idx); err != nil {
		inv.pace()
		return ErrorOutput(err)
	}
	cmdline := strings.ReplaceAll(inv.Template, "{move}", strconv.Itoa(idx))
	return inv.run(ctx, cmdline)
}

// RunBoard invokes the simulator against a materialized board artifact,
// whose path is substituted for `{input}`.
func (inv *Invoker) RunBoard(ctx context.Context, path string) string {
	return inv.run(ctx, strings.ReplaceAll(inv.Template, "{input}", path))
}

func (inv *Invoker) writeMoveFile(idx int) error {
	path := inv.MoveFile
	if path == "" {
		path = DefaultMoveFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create move file directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(idx)), 0644); err != nil {
		return fmt.Errorf("failed to write move file: %w", err)
	}
	return nil
}

// run executes one command line and returns its combined stdout/stderr,
// or a sentinel on timeout or spawn failure. A non-zero exit is not a
// failure: whatever the simulator printed is still worth scraping.
func (inv *Invoker) run(ctx context.Context, cmdline string) string {
	defer inv.pace()

	args, err := shlex.Split(cmdline)
	if err != nil {
		return ErrorOutput(fmt.Errorf("bad command %q: %w", cmdline, err))
	}
	if len(args) == 0 {
		return ErrorOutput(fmt.Errorf("empty command template"))
	}

	runCtx := ctx
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	// Kill the whole process group at the deadline so a simulator that
	// shells out does not leave orphans holding the output pipes.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	out, err := cmd.CombinedOutput()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		log.Warn().Str("cmd", args[0]).Dur("timeout", inv.Timeout).
			Msg("simulator timed out")
		return TimeoutOutput
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return ErrorOutput(err)
		}
	}
	// Drop bytes that do not form valid UTF-8 rather than failing the
	// whole invocation over a garbled byte.
	return strings.ToValidUTF8(string(out), "")
}

func (inv *Invoker) pace() {
	if inv.Delay > 0 {
		time.Sleep(inv.Delay)
	}
}
