package fs

import (
	"io"

	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/device"
)

// VFS resolves paths to devices at open time and routes descriptor
// operations to the owning driver. It owns one instance of every driver.
type VFS struct {
	Names *Namespace

	null   device.NullDevice
	serial *device.SerialDevice
}

func NewVFS(serial io.Writer) *VFS {
	return &VFS{
		Names:  NewNamespace(),
		serial: device.NewSerialDevice(serial),
	}
}

func (v *VFS) Open(path string, flags abi.OpenFlags, files *FdTable) (abi.Fd, error) {
	dev, err := v.Names.Lookup(path)
	if err != nil {
		return -1, err
	}

	return files.Allocate(dev, 0, flags)
}

func (v *VFS) driver(id device.ID) (device.Driver, error) {
	switch id {
	case device.Null:
		return v.null, nil
	case device.Serial:
		return v.serial, nil
	default:
		return nil, ErrUnknownDevice
	}
}

func (v *VFS) Read(desc *FileDescriptor, buf []byte) (int, error) {
	drv, err := v.driver(desc.Dev)
	if err != nil {
		return 0, err
	}

	return drv.Read(buf)
}

func (v *VFS) Write(desc *FileDescriptor, buf []byte) (int, error) {
	drv, err := v.driver(desc.Dev)
	if err != nil {
		return 0, err
	}

	return drv.Write(buf)
}

func (v *VFS) Ioctl(desc FileDescriptor, cmd, arg uint32) (int32, error) {
	drv, err := v.driver(desc.Dev)
	if err != nil {
		return 0, err
	}

	return drv.Ioctl(cmd, arg)
}
