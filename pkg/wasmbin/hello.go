package wasmbin

import "github.com/vyPal/WebOS/abi"

const (
	HelloNullLine   = "Test write to /dev/null\n"
	HelloSerialLine = "Test write to /dev/serial\n"
)

// Hello opens /dev/null and /dev/serial, writes a line to each and closes
// them again.
func Hello() []byte {
	var p Program

	devices := []struct {
		path string
		line string
		base uint32
	}{
		{"/dev/null", HelloNullLine, 0x100},
		{"/dev/serial", HelloSerialLine, 0x200},
	}

	for _, dev := range devices {
		dev := dev

		p.Data(dev.base, []byte(dev.path))
		p.Data(dev.base+0x40, []byte(dev.line))

		p.SyscallTo(0, abi.SysOpen, Const(int32(dev.base)), Const(int32(len(dev.path))), Const(int32(abi.O_WRONLY)))
		p.IfValid(0, func() {
			p.Syscall(abi.SysWrite, Local(0), Const(int32(dev.base+0x40)), Const(int32(len(dev.line))))
			p.Syscall(abi.SysClose, Local(0))
		})
	}

	return p.Bytes()
}
