package syscalls

import (
	"context"

	"github.com/davecgh/go-spew/spew"
	hclog "github.com/hashicorp/go-hclog"

	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/fs"
	"github.com/vyPal/WebOS/kernel"
)

func resolveFile(l hclog.Logger, task *kernel.Task, fd abi.Fd) (*fs.FileDescriptor, bool) {
	proc, err := task.Process()
	if err != nil {
		l.Debug("unable to resolve process", "error", err)
		return nil, false
	}

	desc, ok := proc.Files.Get(fd)
	if !ok {
		l.Debug("bad file descriptor", "fd", fd)
		return nil, false
	}

	return desc, true
}

func sysWrite(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) int32 {
	var (
		fd  = abi.Fd(args.Args.R0)
		ptr = uint32(args.Args.R1)
		sz  = uint32(args.Args.R2)
	)

	desc, ok := resolveFile(l, task, fd)
	if !ok {
		return abi.ERR
	}

	data, err := task.CopyIn(ptr, sz)
	if err != nil {
		l.Error("error reading data from userspace", "error", err)
		return abi.ERR
	}

	if l.IsTrace() {
		l.Trace("write-data", "fd", fd, "dev", desc.Dev.String(), "data", spew.Sdump(data))
	}

	n, err := task.VFS().Write(desc, data)
	if err != nil {
		l.Debug("error writing data", "error", err, "fd", fd, "dev", desc.Dev.String())
		return abi.ERR
	}

	return int32(n)
}

func sysRead(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) int32 {
	var (
		fd  = abi.Fd(args.Args.R0)
		ptr = uint32(args.Args.R1)
		sz  = uint32(args.Args.R2)
	)

	desc, ok := resolveFile(l, task, fd)
	if !ok {
		return abi.ERR
	}

	tmp, err := task.Scratch(sz)
	if err != nil {
		l.Error("unable to allocate read buffer", "error", err, "size", sz)
		return abi.ERR
	}

	n, err := task.VFS().Read(desc, tmp)
	if err != nil {
		l.Debug("error reading", "error", err, "fd", fd, "dev", desc.Dev.String())
		return abi.ERR
	}

	if n < 0 || n > len(tmp) {
		l.Error("driver returned a bad count", "count", n, "size", sz, "dev", desc.Dev.String())
		return abi.ERR
	}

	if l.IsTrace() {
		l.Trace("read-data", "fd", fd, "data", spew.Sdump(tmp[:n]))
	}

	err = task.CopyOut(ptr, tmp[:n])
	if err != nil {
		l.Error("error copying data out", "error", err)
		return abi.ERR
	}

	return int32(n)
}

func sysIOCTL(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) int32 {
	var (
		fd  = abi.Fd(args.Args.R0)
		cmd = uint32(args.Args.R1)
		arg = uint32(args.Args.R2)
	)

	desc, ok := resolveFile(l, task, fd)
	if !ok {
		return abi.ERR
	}

	ret, err := task.VFS().Ioctl(*desc, cmd, arg)
	if err != nil {
		l.Debug("ioctl failed", "error", err, "fd", fd, "cmd", cmd)
		return abi.ERR
	}

	return ret
}

func init() {
	Syscalls[abi.SysRead] = sysRead
	Syscalls[abi.SysWrite] = sysWrite
	Syscalls[abi.SysIoctl] = sysIOCTL
}
