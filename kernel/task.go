package kernel

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/fs"
)

type prockey struct{}

func GetTask(ctx context.Context) (*Task, bool) {
	if v := ctx.Value(prockey{}); v != nil {
		return v.(*Task), true
	}

	return nil, false
}

func SetTask(ctx context.Context, t *Task) context.Context {
	return context.WithValue(ctx, prockey{}, t)
}

// Task is the caller of the syscall currently being served.
type Task struct {
	Kernel *Kernel
	Pid    abi.Pid
}

func (k *Kernel) Task(pid abi.Pid) *Task {
	return &Task{Kernel: k, Pid: pid}
}

// Process resolves the calling process, creating it on first use.
func (t *Task) Process() (*Process, error) {
	proc, ok := t.Kernel.processes.GetOrCreate(t.Pid)
	if !ok {
		return nil, errors.Wrapf(ErrProcessTable, "pid=%d", t.Pid)
	}

	return proc, nil
}

func (t *Task) VFS() *fs.VFS {
	return t.Kernel.vfs
}

// Scratch allocates an n byte buffer that lives for the current syscall.
func (t *Task) Scratch(n uint32) ([]byte, error) {
	return t.Kernel.arena.Alloc(n, 8)
}

// CopyIn brings n bytes at ptr in the caller's memory into a scratch
// buffer.
func (t *Task) CopyIn(ptr, n uint32) ([]byte, error) {
	buf, err := t.Scratch(n)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return buf, nil
	}

	err = t.Kernel.host.CopyIn(t.Pid, ptr, buf)
	if err != nil {
		return nil, errors.Wrapf(err, "copy-in pid=%d ptr=%#x len=%d", t.Pid, ptr, n)
	}

	return buf, nil
}

// CopyOut writes b to ptr in the caller's memory.
func (t *Task) CopyOut(ptr uint32, b []byte) error {
	if len(b) == 0 {
		return nil
	}

	err := t.Kernel.host.CopyOut(t.Pid, ptr, b)
	if err != nil {
		return errors.Wrapf(err, "copy-out pid=%d ptr=%#x len=%d", t.Pid, ptr, len(b))
	}

	return nil
}
