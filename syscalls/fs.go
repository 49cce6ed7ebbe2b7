package syscalls

import (
	"context"
	"unicode/utf8"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/fs"
	"github.com/vyPal/WebOS/kernel"
)

func sysOpen(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) int32 {
	var (
		ptr   = uint32(args.Args.R0)
		sz    = uint32(args.Args.R1)
		flags = abi.OpenFlags(args.Args.R2)
	)

	path, err := task.CopyIn(ptr, sz)
	if err != nil {
		l.Error("error copying path from userspace", "error", err)
		return abi.ERR
	}

	if !utf8.Valid(path) {
		l.Debug("open path is not valid utf-8")
		return abi.ERR
	}

	proc, err := task.Process()
	if err != nil {
		l.Debug("unable to resolve process", "error", err)
		return abi.ERR
	}

	l.Trace("open file", "path", string(path), "flags", uint32(flags))

	fd, err := task.VFS().Open(string(path), flags, proc.Files)
	if err != nil {
		switch errors.Cause(err) {
		case fs.ErrUnknownPath, fs.ErrTooManyFiles:
			l.Debug("open failed", "path", string(path), "error", err)
		default:
			l.Error("error opening file", "path", string(path), "error", err)
		}

		return abi.ERR
	}

	return int32(fd)
}

func sysClose(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) int32 {
	var (
		fd = abi.Fd(args.Args.R0)
	)

	proc, err := task.Process()
	if err != nil {
		l.Debug("unable to resolve process", "error", err)
		return abi.ERR
	}

	err = proc.Files.Close(fd)
	if err != nil {
		l.Debug("error closing fd", "error", err, "fd", fd)
		return abi.ERR
	}

	return abi.OK
}

func init() {
	Syscalls[abi.SysOpen] = sysOpen
	Syscalls[abi.SysClose] = sysClose
}
