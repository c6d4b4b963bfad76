package command

import (
	"fmt"
	"path/filepath"
	"strings"

	appErr "eperf/pkg/errors"

	"github.com/google/shlex"
)

var processFields = []Field{
	{Name: "pid", Prompt: "Enter the PID of the process: ", Usage: "PID of the process to measure", Type: FieldInt},
	{Name: "time", Prompt: "Enter the time (in ms): ", Usage: "measurement time in milliseconds", Type: FieldInt},
}

var diskFields = []Field{
	{Name: "device", Prompt: "Enter the disk device name: ", Usage: "disk device name (e.g. sda)", Type: FieldString},
	{Name: "time", Prompt: "Enter the time (in s): ", Usage: "measurement time in seconds", Type: FieldInt},
}

var subsystems = []Subsystem{
	{
		Selection: SelectionNIC,
		Name:      "nic",
		Label:     "Network Interface Card (NIC)",
		Script:    "ePerfNIC.sh",
		Elevated:  true,
		Fields:    processFields,
	},
	{
		Selection: SelectionRAM,
		Name:      "ram",
		Label:     "RAM",
		Script:    "ePerfRAM.sh",
		Fields:    processFields,
	},
	{
		Selection: SelectionCPU,
		Name:      "cpu",
		Label:     "CPU",
		Script:    "ePerfCPU.sh",
		Fields:    processFields,
	},
	{
		Selection: SelectionDisk,
		Name:      "disk",
		Label:     "Hard Disk",
		Script:    "ePerfDisk.sh",
		Fields:    diskFields,
	},
}

// Registry returns all subsystems in menu order.
func Registry() []Subsystem {
	result := make([]Subsystem, len(subsystems))
	copy(result, subsystems)
	return result
}

// ForSelection returns the subsystem bound to a menu number.
func ForSelection(sel Selection) (Subsystem, bool) {
	for _, sub := range subsystems {
		if sub.Selection == sel {
			return sub, true
		}
	}
	return Subsystem{}, false
}

// ParseParameters converts collected values into the typed parameters of sub.
// A missing or unparsable number reads as 0 and a missing device as empty;
// the script is left to judge what it was given.
func ParseParameters(sub Subsystem, params Params) Parameters {
	ints := make(map[string]int, len(sub.Fields))
	for _, field := range sub.Fields {
		if field.Type == FieldInt {
			ints[field.Name], _ = ParseInt(params.Get(field.Name))
		}
	}

	if sub.Selection == SelectionDisk {
		return DiskParams{
			Device:      strings.TrimSpace(params.Get("device")),
			DurationSec: ints["time"],
		}
	}
	return ProcessParams{
		PID:        ints["pid"],
		DurationMs: ints["time"],
	}
}

// InvocationOptions controls where scripts live and how elevation is done.
type InvocationOptions struct {
	ScriptDir string
	Elevate   []string
}

// BuildInvocation assembles the command line for sub with the given parameters.
func BuildInvocation(sub Subsystem, p Parameters, opts InvocationOptions) (Invocation, error) {
	if p == nil {
		return Invocation{}, appErr.Newf(appErr.InvalidParams, "missing parameters for %s", sub.Name)
	}
	argv := make([]string, 0, len(opts.Elevate)+5)
	if sub.Elevated {
		argv = append(argv, opts.Elevate...)
	}
	argv = append(argv, ScriptPath(opts.ScriptDir, sub.Script))
	argv = append(argv, p.Flags()...)
	return Invocation{Program: argv[0], Args: argv[1:]}, nil
}

// ScriptPath joins dir and script. Relative results keep an explicit "./"
// so they are never looked up through PATH.
func ScriptPath(dir, script string) string {
	path := filepath.Join(dir, script)
	if filepath.IsAbs(path) {
		return path
	}
	sep := string(filepath.Separator)
	if strings.HasPrefix(path, "."+sep) || strings.HasPrefix(path, ".."+sep) {
		return path
	}
	return "." + sep + path
}

// SplitCommand splits an elevation command such as "sudo -E" into tokens.
func SplitCommand(line string) ([]string, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse command failed: %w", err)
	}
	return tokens, nil
}
