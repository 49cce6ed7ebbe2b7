package abi

import (
	"fmt"
	"math"
)

// Syscall is a syscall number as passed by a user process.
type Syscall int32

func (call Syscall) String() string {
	name, ok := syscallNames[call]
	if ok {
		return name
	}
	return fmt.Sprintf("{Syscall %d}", int32(call))
}

// System calls. The numbers are part of the process ABI and never change.
const (
	SysRead  Syscall = 0
	SysWrite Syscall = 1
	SysOpen  Syscall = 2
	SysClose Syscall = 3
	SysIoctl Syscall = 16
)

var syscallNames = map[Syscall]string{
	SysRead:  "read",
	SysWrite: "write",
	SysOpen:  "open",
	SysClose: "close",
	SysIoctl: "ioctl",
}

type (
	Pid        int32
	Fd         int32
	ResultCode = int32
)

// KernelPid is held by the kernel itself. User processes are numbered from 1.
const KernelPid Pid = 0

const (
	OK  ResultCode = 0
	ERR ResultCode = -1

	// ENOSYS is returned only for syscall numbers the kernel does not know.
	ENOSYS ResultCode = math.MaxInt32
)

// OpenFlags are the mode bits passed to open. They are recorded on the
// descriptor; the current devices do not enforce them.
type OpenFlags uint32

const (
	O_RDONLY OpenFlags = 0x0
	O_WRONLY OpenFlags = 0x1
	O_RDWR   OpenFlags = 0x2
	O_CREAT  OpenFlags = 0x40
	O_TRUNC  OpenFlags = 0x200

	O_ACCMODE OpenFlags = 0x3
)

func (f OpenFlags) AccessMode() OpenFlags {
	return f & O_ACCMODE
}

func (f OpenFlags) Readable() bool {
	m := f.AccessMode()
	return m == O_RDONLY || m == O_RDWR
}

func (f OpenFlags) Writable() bool {
	m := f.AccessMode()
	return m == O_WRONLY || m == O_RDWR
}
