package command

import (
	"strconv"
	"strings"

	appErr "eperf/pkg/errors"
)

// Selection identifies the hardware subsystem picked from the menu.
type Selection int

const (
	SelectionNIC Selection = iota + 1
	SelectionRAM
	SelectionCPU
	SelectionDisk
)

// Valid reports whether s names one of the menu entries.
func (s Selection) Valid() bool {
	return s >= SelectionNIC && s <= SelectionDisk
}

// ParseSelection converts a menu answer into a Selection.
// Anything that is not one of the listed numbers is an invalid choice.
func ParseSelection(raw string) (Selection, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !Selection(n).Valid() {
		return 0, appErr.InvalidSelectionError(raw)
	}
	return Selection(n), nil
}

// FieldType describes input type.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
)

// Field defines a follow-up value collected after selection.
type Field struct {
	Name   string
	Prompt string
	Usage  string
	Type   FieldType
}

// Subsystem binds a menu entry to its measurement script.
type Subsystem struct {
	Selection Selection
	Name      string
	Label     string
	Script    string
	Elevated  bool
	Fields    []Field
}

// Params holds collected input values keyed by field name.
type Params map[string]string

func (p Params) Get(key string) string {
	return p[strings.ToLower(key)]
}

func (p Params) Set(key, value string) {
	p[strings.ToLower(key)] = value
}

func (p Params) Has(key string) bool {
	_, ok := p[strings.ToLower(key)]
	return ok
}

// ParseInt reads a 32-bit integer answer. On failure it returns 0, which is
// the value the field takes.
func ParseInt(value string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Parameters is the selection-dependent part of an invocation.
type Parameters interface {
	Flags() []string
}

// ProcessParams targets a running process for NIC, RAM and CPU measurements.
type ProcessParams struct {
	PID        int
	DurationMs int
}

func (p ProcessParams) Flags() []string {
	return []string{"-p", strconv.Itoa(p.PID), "-t", strconv.Itoa(p.DurationMs)}
}

// DiskParams targets a block device.
type DiskParams struct {
	Device      string
	DurationSec int
}

func (p DiskParams) Flags() []string {
	return []string{"-d", p.Device, "-t", strconv.Itoa(p.DurationSec)}
}

// Invocation is a command line as discrete tokens. No shell is involved in
// running it, so values never need quoting.
type Invocation struct {
	Program string
	Args    []string
}

// Argv returns the program followed by its arguments.
func (i Invocation) Argv() []string {
	return append([]string{i.Program}, i.Args...)
}

// String renders the invocation for display, quoting tokens a shell would split.
func (i Invocation) String() string {
	argv := i.Argv()
	parts := make([]string, 0, len(argv))
	for _, token := range argv {
		parts = append(parts, quoteToken(token))
	}
	return strings.Join(parts, " ")
}

func quoteToken(token string) string {
	if token == "" {
		return "''"
	}
	safe := true
	for _, r := range token {
		if !isShellSafe(r) {
			safe = false
			break
		}
	}
	if safe {
		return token
	}
	return "'" + strings.ReplaceAll(token, "'", `'\''`) + "'"
}

func isShellSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_./:=+,@%", r)
}
