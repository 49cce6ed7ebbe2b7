package device

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ID names the driver that backs a descriptor. The set is closed: adding a
// device means a new ID here and a new case in the VFS dispatch.
type ID uint32

const (
	Null   ID = 0
	Serial ID = 1
)

func (id ID) String() string {
	switch id {
	case Null:
		return "null"
	case Serial:
		return "serial"
	default:
		return fmt.Sprintf("{Device %d}", uint32(id))
	}
}

var ErrUnsupported = errors.New("operation not supported by device")

type Driver interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Ioctl(cmd, arg uint32) (int32, error)
}

var (
	_ Driver = NullDevice{}
	_ Driver = &SerialDevice{}
)

// NullDevice discards writes and is always at EOF.
type NullDevice struct{}

func (NullDevice) Read(p []byte) (int, error) {
	return 0, nil
}

func (NullDevice) Write(p []byte) (int, error) {
	return len(p), nil
}

func (NullDevice) Ioctl(cmd, arg uint32) (int32, error) {
	return 0, ErrUnsupported
}

// SerialDevice forwards writes to the host's line output.
type SerialDevice struct {
	mu  sync.Mutex
	out io.Writer
}

func NewSerialDevice(out io.Writer) *SerialDevice {
	if out == nil {
		out = io.Discard
	}

	return &SerialDevice{out: out}
}

// Read needs input polling from the host, which does not exist yet.
func (s *SerialDevice) Read(p []byte) (int, error) {
	return 0, ErrUnsupported
}

func (s *SerialDevice) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.out.Write(p)
}

func (s *SerialDevice) Ioctl(cmd, arg uint32) (int32, error) {
	return 0, ErrUnsupported
}
