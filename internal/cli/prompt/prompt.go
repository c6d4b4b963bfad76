package prompt

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	appErr "eperf/pkg/errors"

	"github.com/chzyer/readline"
)

// Prompter hands out answers one whitespace-separated word at a time, so
// "3 1234 500" on a single line answers three prompts.
type Prompter interface {
	Prompt(label string) (string, error)
	Close() error
}

// Reader prompts over plain streams. It is used for pipes, files and tests.
type Reader struct {
	in  *bufio.Scanner
	out *bufio.Writer
}

func NewReader(in io.Reader, out io.Writer) *Reader {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &Reader{
		in:  scanner,
		out: bufio.NewWriter(out),
	}
}

// Prompt writes label without a newline and returns the next word, reading
// across as many lines as it takes.
func (r *Reader) Prompt(label string) (string, error) {
	if label != "" {
		_, _ = r.out.WriteString(label)
		_ = r.out.Flush()
	}
	if !r.in.Scan() {
		err := r.in.Err()
		if err == nil {
			err = io.EOF
		}
		return "", appErr.Wrapf(err, appErr.InputReadFailed, "read input failed: %v", err)
	}
	return r.in.Text(), nil
}

func (r *Reader) Close() error {
	return r.out.Flush()
}

// Terminal prompts through readline so the user gets line editing.
type Terminal struct {
	rl      *readline.Instance
	pending []string
}

func NewTerminal() (*Terminal, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
		Stdin:                  os.Stdin,
		Stdout:                 os.Stdout,
		Stderr:                 os.Stderr,
	})
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.InputReadFailed, "open terminal failed: %v", err)
	}
	return &Terminal{rl: rl}, nil
}

// Prompt returns a word left over from an earlier line when there is one.
// Blank lines are skipped without repeating the label.
func (t *Terminal) Prompt(label string) (string, error) {
	if len(t.pending) > 0 {
		_, _ = io.WriteString(t.rl.Stdout(), label)
	}
	for len(t.pending) == 0 {
		t.rl.SetPrompt(label)
		line, err := t.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				return "", appErr.Wrapf(err, appErr.InputInterrupted, "input interrupted")
			}
			return "", appErr.Wrapf(err, appErr.InputReadFailed, "read input failed: %v", err)
		}
		t.pending = strings.Fields(line)
		label = ""
	}
	word := t.pending[0]
	t.pending = t.pending[1:]
	return word, nil
}

func (t *Terminal) Close() error {
	return t.rl.Close()
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return readline.IsTerminal(int(f.Fd()))
}

// New picks a Terminal prompter when both stdin and stdout are terminals,
// otherwise a Reader over the given streams.
func New(in *os.File, out *os.File) (Prompter, error) {
	if IsTerminal(in) && IsTerminal(out) {
		return NewTerminal()
	}
	return NewReader(in, out), nil
}
