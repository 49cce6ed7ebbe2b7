package kernel

import (
	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/fs"
	"github.com/vyPal/WebOS/pkg/slots"
)

const MaxProcesses = 32

type Process struct {
	Pid   abi.Pid
	Files *fs.FdTable
}

// ProcessTable maps pids to processes. A process is created the first time
// its pid makes a syscall and its slot is never released, so once
// MaxProcesses distinct pids have been seen every new pid is refused.
type ProcessTable struct {
	slots [MaxProcesses]*Process
	index map[abi.Pid]int
	used  slots.Bitmap
}

func NewProcessTable() *ProcessTable {
	return &ProcessTable{
		index: make(map[abi.Pid]int),
		used:  slots.New(MaxProcesses),
	}
}

func (t *ProcessTable) Lookup(pid abi.Pid) (*Process, bool) {
	i, ok := t.index[pid]
	if !ok {
		return nil, false
	}

	return t.slots[i], true
}

// GetOrCreate returns the process for pid, creating it in the first free
// slot when needed. It reports false when the table is full.
func (t *ProcessTable) GetOrCreate(pid abi.Pid) (*Process, bool) {
	if proc, ok := t.Lookup(pid); ok {
		return proc, true
	}

	i, ok := t.used.FirstFree()
	if !ok {
		return nil, false
	}

	proc := &Process{
		Pid:   pid,
		Files: fs.NewFdTable(),
	}

	t.slots[i] = proc
	t.index[pid] = i
	t.used.Set(i)

	return proc, true
}

func (t *ProcessTable) Len() int {
	return t.used.Len()
}
