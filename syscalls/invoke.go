package syscalls

import (
	"context"
	"sync"

	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/kernel"
)

// Invoker is the kernel's single syscall entry point. Calls are served one
// at a time.
type Invoker struct {
	Kernel *kernel.Kernel

	mu sync.Mutex
}

func (i *Invoker) InvokeSyscall(ctx context.Context, args SysArgs) int32 {
	f, ok := Lookup(args.Index)
	if !ok {
		i.Kernel.L.Debug("unknown-syscall", "pid", args.Pid, "index", int32(args.Index))
		return abi.ENOSYS
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	task := i.Kernel.Task(args.Pid)
	ctx = kernel.SetTask(ctx, task)

	l := i.Kernel.L.With("pid", args.Pid, "syscall", args.Index.String())

	ret := f(ctx, l, task, args)

	l.Trace("syscall-return", "ret", ret)

	return ret
}
