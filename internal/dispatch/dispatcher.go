package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"eperf/internal/cli/command"
	"eperf/internal/cli/prompt"
	"eperf/internal/runner"
	"eperf/internal/target"
	appErr "eperf/pkg/errors"
	"eperf/pkg/utils/contextkey"
	"eperf/pkg/utils/logger"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const menuHeader = "Choose the shell script to execute: "

// Options tunes a Dispatcher.
type Options struct {
	Invocation command.InvocationOptions
	// Timeout bounds a script run; zero waits indefinitely.
	Timeout time.Duration
	// StrictExit makes a failing script fail the dispatcher too.
	StrictExit bool
	Color      bool
}

// Dispatcher asks which subsystem to measure and runs the matching script.
type Dispatcher struct {
	prompter  prompt.Prompter
	out       io.Writer
	runner    runner.Runner
	describer target.Describer
	opts      Options
	alert     *color.Color
}

func New(p prompt.Prompter, out io.Writer, r runner.Runner, opts Options) *Dispatcher {
	alert := color.New(color.FgRed)
	if opts.Color {
		alert.EnableColor()
	} else {
		alert.DisableColor()
	}
	return &Dispatcher{
		prompter: p,
		out:      out,
		runner:   r,
		opts:     opts,
		alert:    alert,
	}
}

// WithDescriber enables target process lookups for log enrichment.
func (d *Dispatcher) WithDescriber(t target.Describer) *Dispatcher {
	d.describer = t
	return d
}

// Run shows the menu, reads a choice and dispatches it. It returns the
// dispatcher's own exit status.
func (d *Dispatcher) Run(ctx context.Context) int {
	ctx = withRunID(ctx)
	d.printMenu()

	raw, err := d.prompter.Prompt("")
	if appErr.Is(err, appErr.InputInterrupted) {
		return d.fail(ctx, err)
	}
	if err != nil {
		// Unreadable input is treated like any other unknown answer.
		logger.Debug(ctx, "read menu choice failed", zap.Error(err))
		raw = ""
	}
	sel, err := command.ParseSelection(raw)
	if err != nil {
		return d.fail(ctx, err)
	}
	sub, _ := command.ForSelection(sel)
	return d.RunSubsystem(ctx, sub, command.Params{})
}

// RunSubsystem prompts for any field missing from params, runs the script
// and reports its status.
func (d *Dispatcher) RunSubsystem(ctx context.Context, sub command.Subsystem, params command.Params) int {
	ctx = withRunID(ctx)
	ctx = context.WithValue(ctx, contextkey.Subsystem, sub.Name)
	if params == nil {
		params = command.Params{}
	}
	if err := d.collect(ctx, sub, params); err != nil {
		return d.fail(ctx, err)
	}

	p := command.ParseParameters(sub, params)
	inv, err := command.BuildInvocation(sub, p, d.opts.Invocation)
	if err != nil {
		return d.fail(ctx, err)
	}
	d.describeTarget(ctx, p)

	status, err := d.execute(ctx, inv)
	return d.report(ctx, status, err)
}

// collect asks for each field not already in params. Once an answer is
// missing or is not a number where one is expected, the remaining prompts
// are still shown but nothing more is read and those fields stay empty.
// Only an interrupt stops the dialogue.
func (d *Dispatcher) collect(ctx context.Context, sub command.Subsystem, params command.Params) error {
	exhausted := false
	for _, field := range sub.Fields {
		if params.Has(field.Name) {
			continue
		}
		if exhausted {
			_, _ = io.WriteString(d.out, field.Prompt)
			continue
		}
		value, err := d.prompter.Prompt(field.Prompt)
		if appErr.Is(err, appErr.InputInterrupted) {
			return err
		}
		if err != nil {
			logger.Debug(ctx, "read answer failed", zap.String("field", field.Name), zap.Error(err))
			exhausted = true
			continue
		}
		if field.Type == command.FieldInt {
			if _, err := command.ParseInt(value); err != nil {
				logger.Warn(ctx, "answer is not a number, using 0",
					zap.String("field", field.Name),
					zap.String("value", value),
				)
				exhausted = true
			}
		}
		params.Set(field.Name, value)
	}
	return nil
}

func (d *Dispatcher) execute(ctx context.Context, inv command.Invocation) (int, error) {
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}
	logger.Info(ctx, "running script", zap.String("command", inv.String()))
	start := time.Now()
	status, err := d.runner.Run(ctx, inv)
	logger.Info(ctx, "script finished",
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(start)),
	)
	return status, err
}

func (d *Dispatcher) report(ctx context.Context, status int, runErr error) int {
	d.printLine("%d", status)
	if status == 0 && runErr == nil {
		return appErr.Success.ExitStatus()
	}

	code := appErr.ScriptFailed
	if runErr != nil {
		code = appErr.ScriptStartFailed
		logger.Error(ctx, "script could not be started", zap.Error(runErr))
	} else {
		logger.Warn(ctx, "script exited with non-zero status", zap.Int("status", status))
	}
	d.printAlert(code.Message())
	return d.exitStatus(code)
}

func (d *Dispatcher) fail(ctx context.Context, err error) int {
	code := appErr.GetCode(err)
	logger.Warn(ctx, "dispatch aborted", zap.Int("code", int(code)), zap.Error(err))
	var e *appErr.Error
	if errors.As(err, &e) {
		logger.Debug(ctx, "dispatch aborted details",
			zap.Any("details", e.Details),
			zap.String("stack", e.Stack),
		)
	}
	d.printAlert(err.Error())
	return d.exitStatus(code)
}

func (d *Dispatcher) exitStatus(code appErr.ErrorCode) int {
	if d.opts.StrictExit {
		return code.StrictExitStatus()
	}
	return code.ExitStatus()
}

func (d *Dispatcher) describeTarget(ctx context.Context, p command.Parameters) {
	if d.describer == nil {
		return
	}
	pp, ok := p.(command.ProcessParams)
	if !ok {
		return
	}
	proc, err := d.describer.Describe(pp.PID)
	if err != nil {
		logger.Warn(ctx, "target process not found", zap.Int("pid", pp.PID), zap.Error(err))
		return
	}
	logger.Info(ctx, "target process",
		zap.Int("pid", proc.PID),
		zap.String("name", proc.Name),
		zap.String("cmdline", proc.Cmdline),
	)
}

func (d *Dispatcher) printMenu() {
	d.printLine("%s\n", menuHeader)
	for _, sub := range command.Registry() {
		d.printLine("%d. %s", sub.Selection, sub.Label)
	}
	d.printLine("")
}

func (d *Dispatcher) printAlert(msg string) {
	_, _ = d.alert.Fprintln(d.out, msg)
}

func (d *Dispatcher) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(d.out, format+"\n", args...)
}

func withRunID(ctx context.Context) context.Context {
	if ctx.Value(contextkey.RunID) != nil {
		return ctx
	}
	return context.WithValue(ctx, contextkey.RunID, uuid.NewString())
}
