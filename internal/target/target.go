package target

import (
	"fmt"

	"github.com/shirou/gopsutil/process"
)

// Process is what is known about the process a measurement is aimed at.
type Process struct {
	PID     int
	Name    string
	Cmdline string
}

// Describer looks up a process by PID.
type Describer interface {
	Describe(pid int) (Process, error)
}

// Procfs resolves processes through gopsutil.
type Procfs struct{}

func (Procfs) Describe(pid int) (Process, error) {
	if pid <= 0 {
		return Process{}, fmt.Errorf("pid %d is not a process id", pid)
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return Process{}, fmt.Errorf("lookup process %d failed: %w", pid, err)
	}
	name, err := p.Name()
	if err != nil {
		return Process{}, fmt.Errorf("read process %d name failed: %w", pid, err)
	}
	// Not every process exposes a command line (kernel threads, zombies).
	cmdline, _ := p.Cmdline()
	return Process{PID: pid, Name: name, Cmdline: cmdline}, nil
}
