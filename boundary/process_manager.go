package boundary

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero/api"

	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/kernel"
)

var (
	ErrUnknownProcess = errors.New("unknown process")
	ErrNoMemory       = errors.New("process has no memory")
)

// ProcessManager tracks the module instance behind every live pid and moves
// bytes in and out of their memories on the kernel's behalf.
type ProcessManager struct {
	mu        sync.RWMutex
	highWater abi.Pid
	processes map[abi.Pid]api.Module
	names     map[string]abi.Pid
}

var _ kernel.Host = &ProcessManager{}

func NewProcessManager() *ProcessManager {
	return &ProcessManager{
		highWater: abi.KernelPid,
		processes: make(map[abi.Pid]api.Module),
		names:     make(map[string]abi.Pid),
	}
}

// AssignPid reserves the next pid. Pids are never reused: the kernel keeps
// a process's descriptors for the lifetime of the kernel.
func (p *ProcessManager) AssignPid() abi.Pid {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.highWater++
	return p.highWater
}

func (p *ProcessManager) Attach(pid abi.Pid, mod api.Module) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processes[pid] = mod
	p.names[mod.Name()] = pid
}

func (p *ProcessManager) RemoveProc(pid abi.Pid) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mod, ok := p.processes[pid]; ok {
		delete(p.names, mod.Name())
	}

	delete(p.processes, pid)
}

func (p *ProcessManager) PidOf(name string) (abi.Pid, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	pid, ok := p.names[name]
	return pid, ok
}

func (p *ProcessManager) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.processes)
}

func (p *ProcessManager) memory(pid abi.Pid) (api.Memory, error) {
	p.mu.RLock()
	mod, ok := p.processes[pid]
	p.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrUnknownProcess, "pid=%d", pid)
	}

	mem := mod.Memory()
	if mem == nil {
		return nil, errors.Wrapf(ErrNoMemory, "pid=%d", pid)
	}

	return mem, nil
}

func (p *ProcessManager) CopyIn(pid abi.Pid, src uint32, dst []byte) error {
	mem, err := p.memory(pid)
	if err != nil {
		return err
	}

	b, ok := mem.Read(src, uint32(len(dst)))
	if !ok {
		return errors.Wrapf(kernel.ErrFault, "pid=%d addr=%#x size=%d mem=%d", pid, src, len(dst), mem.Size())
	}

	copy(dst, b)
	return nil
}

func (p *ProcessManager) CopyOut(pid abi.Pid, dst uint32, src []byte) error {
	mem, err := p.memory(pid)
	if err != nil {
		return err
	}

	if !mem.Write(dst, src) {
		return errors.Wrapf(kernel.ErrFault, "pid=%d addr=%#x size=%d mem=%d", pid, dst, len(src), mem.Size())
	}

	return nil
}
