package fs

import (
	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/device"
	"github.com/vyPal/WebOS/pkg/slots"
)

const MaxFDs = 16

// FileDescriptor is one open device connection. Offset is kept for drivers
// that will track position; the current devices are stateless sinks and
// leave it at zero.
type FileDescriptor struct {
	Dev    device.ID
	Inode  uint32
	Offset int64
	Flags  abi.OpenFlags
}

// FdTable holds a process's descriptors. Descriptor numbers are slot
// indexes and the lowest free slot is always used first.
type FdTable struct {
	fds  [MaxFDs]*FileDescriptor
	used slots.Bitmap
}

func NewFdTable() *FdTable {
	return &FdTable{used: slots.New(MaxFDs)}
}

func validFd(fd abi.Fd) bool {
	return fd >= 0 && fd < MaxFDs
}

func (t *FdTable) Allocate(dev device.ID, inode uint32, flags abi.OpenFlags) (abi.Fd, error) {
	i, ok := t.used.FirstFree()
	if !ok {
		return -1, ErrTooManyFiles
	}

	t.fds[i] = &FileDescriptor{
		Dev:   dev,
		Inode: inode,
		Flags: flags,
	}
	t.used.Set(i)

	return abi.Fd(i), nil
}

// Get returns the descriptor in slot fd. Callers may update it in place.
func (t *FdTable) Get(fd abi.Fd) (*FileDescriptor, bool) {
	if !validFd(fd) {
		return nil, false
	}

	desc := t.fds[fd]
	if desc == nil {
		return nil, false
	}

	return desc, true
}

// Close clears slot fd. Closing a free slot is not an error; only numbers
// outside the table are.
func (t *FdTable) Close(fd abi.Fd) error {
	if !validFd(fd) {
		return ErrBadDescriptor
	}

	t.fds[fd] = nil
	t.used.Clear(int(fd))

	return nil
}

func (t *FdTable) Len() int {
	return t.used.Len()
}
