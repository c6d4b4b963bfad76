package main

import (
	"fmt"
	"os"

	"eperf/internal/cli/command"
	"eperf/internal/cli/config"
	"eperf/internal/cli/prompt"
	"eperf/internal/dispatch"
	"eperf/internal/runner"
	"eperf/internal/target"
	"eperf/pkg/utils/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/eperf.yaml"

type rootOptions struct {
	configPath string
	scriptDir  string
	logLevel   string
	noColor    bool
	strictExit bool
}

func newRootCmd(status *int) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "eperf",
		Short: "Run an ePerf measurement script for a hardware subsystem",
		Long: `eperf asks which subsystem to measure (NIC, RAM, CPU or disk),
collects the target and duration, and runs the matching ePerf script.

Without a subcommand the interactive menu is shown. The nic, ram, cpu and
disk subcommands skip the menu and only prompt for values not given as flags.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, cleanup, err := opts.dispatcher()
			if err != nil {
				return err
			}
			defer cleanup()
			*status = d.Run(cmd.Context())
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	flags.StringVar(&opts.scriptDir, "script-dir", "", "Directory holding the ePerf scripts")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&opts.strictExit, "strict-exit", false, "Exit non-zero when the script fails")

	for _, sub := range command.Registry() {
		rootCmd.AddCommand(newSubsystemCmd(sub, opts, status))
	}
	return rootCmd
}

func newSubsystemCmd(sub command.Subsystem, opts *rootOptions, status *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   sub.Name,
		Short: fmt.Sprintf("Measure %s with %s", sub.Label, sub.Script),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, cleanup, err := opts.dispatcher()
			if err != nil {
				return err
			}
			defer cleanup()
			*status = d.RunSubsystem(cmd.Context(), sub, flagParams(cmd, sub))
			return nil
		},
	}
	for _, field := range sub.Fields {
		if field.Type == command.FieldInt {
			cmd.Flags().Int(field.Name, 0, field.Usage)
		} else {
			cmd.Flags().String(field.Name, "", field.Usage)
		}
	}
	return cmd
}

// flagParams collects the fields given on the command line, including ones
// set to an empty value, so only the rest are prompted for.
func flagParams(cmd *cobra.Command, sub command.Subsystem) command.Params {
	params := command.Params{}
	for _, field := range sub.Fields {
		if cmd.Flags().Changed(field.Name) {
			params.Set(field.Name, cmd.Flags().Lookup(field.Name).Value.String())
		}
	}
	return params
}

// dispatcher loads configuration, applies flag overrides and wires the
// dispatcher to the real terminal, process runner and process table.
func (o *rootOptions) dispatcher() (*dispatch.Dispatcher, func(), error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.scriptDir != "" {
		cfg.ScriptDir = o.scriptDir
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.noColor {
		disabled := false
		cfg.Color = &disabled
	}
	if o.strictExit {
		cfg.StrictExit = true
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, nil, fmt.Errorf("init logger failed: %w", err)
	}
	elevate, err := cfg.ElevateTokens()
	if err != nil {
		return nil, nil, err
	}
	p, err := prompt.New(os.Stdin, os.Stdout)
	if err != nil {
		return nil, nil, err
	}

	d := dispatch.New(p, os.Stdout, runner.NewExecRunner(), dispatch.Options{
		Invocation: command.InvocationOptions{
			ScriptDir: cfg.ScriptDir,
			Elevate:   elevate,
		},
		Timeout:    cfg.Timeout,
		StrictExit: cfg.StrictExit,
		Color:      cfg.ColorEnabled() && !color.NoColor,
	}).WithDescriber(target.Procfs{})

	cleanup := func() {
		_ = p.Close()
		_ = logger.Sync()
	}
	return d, cleanup, nil
}
