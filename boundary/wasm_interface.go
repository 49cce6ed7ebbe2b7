package boundary

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/loader"
	"github.com/vyPal/WebOS/syscalls"
)

type SyscallInvoker interface {
	InvokeSyscall(context.Context, syscalls.SysArgs) int32
}

type pidkey struct{}

func GetPid(ctx context.Context) (abi.Pid, bool) {
	if v := ctx.Value(pidkey{}); v != nil {
		return v.(abi.Pid), true
	}

	return 0, false
}

func SetPid(ctx context.Context, pid abi.Pid) context.Context {
	return context.WithValue(ctx, pidkey{}, pid)
}

// WasmInterface is the kernel's side of the process boundary: the host
// module every process imports its syscall entry point from.
type WasmInterface struct {
	L       hclog.Logger
	Invoker SyscallInvoker
	Procs   *ProcessManager
}

func (w *WasmInterface) callerPid(ctx context.Context, m api.Module) (abi.Pid, bool) {
	if pid, ok := GetPid(ctx); ok {
		return pid, true
	}

	if m == nil {
		return 0, false
	}

	return w.Procs.PidOf(m.Name())
}

func (w *WasmInterface) syscall(ctx context.Context, m api.Module, nr, a, b, c, d, e, f int32) int32 {
	pid, ok := w.callerPid(ctx, m)
	if !ok {
		w.L.Error("syscall from unknown process", "index", nr)
		return abi.ERR
	}

	idx := abi.Syscall(nr)

	w.L.Trace("syscall", "pid", pid, "index", nr, "name", idx.String(), "a", a, "b", b, "c", c, "d", d, "e", e, "f", f)

	return w.Invoker.InvokeSyscall(ctx, syscalls.SysArgs{
		Pid:   pid,
		Index: idx,
		Args:  syscalls.SyscallRequest{R0: a, R1: b, R2: c, R3: d, R4: e, R5: f},
	})
}

// Instantiate registers the kernel host module in rt.
func (w *WasmInterface) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	return rt.NewHostModuleBuilder(loader.ImportModule).
		NewFunctionBuilder().
		WithFunc(w.syscall).
		WithParameterNames("nr", "a0", "a1", "a2", "a3", "a4", "a5").
		Export(loader.ImportSyscall).
		Instantiate(ctx)
}
