package syscalls

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/kernel"
)

type SysArgs struct {
	Pid   abi.Pid
	Index abi.Syscall
	Args  SyscallRequest
}

// SyscallRequest is the fixed six word argument block every syscall
// carries, whatever its arity.
type SyscallRequest struct {
	R0, R1, R2, R3, R4, R5 int32
}

type Handler func(context.Context, hclog.Logger, *kernel.Task, SysArgs) int32

var Syscalls [64]Handler

// Lookup returns the handler for idx, if the kernel implements it.
func Lookup(idx abi.Syscall) (Handler, bool) {
	if idx < 0 || int(idx) >= len(Syscalls) {
		return nil, false
	}

	f := Syscalls[idx]
	return f, f != nil
}
