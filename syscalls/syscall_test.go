package syscalls

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektra/neko"

	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/fs"
	"github.com/vyPal/WebOS/kernel"
	"github.com/vyPal/WebOS/memory"
)

const memSize = 4096

type harness struct {
	inv    *Invoker
	host   *kernel.SliceHost
	serial *bytes.Buffer
}

func newHarness(t *testing.T, cfg kernel.Config) *harness {
	host := kernel.NewSliceHost()

	var serial bytes.Buffer

	k, err := kernel.NewKernel(cfg, host, &serial)
	require.NoError(t, err)

	return &harness{
		inv:    &Invoker{Kernel: k},
		host:   host,
		serial: &serial,
	}
}

func (h *harness) mem(pid abi.Pid) []byte {
	if mem, ok := h.host.Memory(pid); ok {
		return mem
	}

	return h.host.Attach(pid, memSize)
}

func (h *harness) call(pid abi.Pid, nr abi.Syscall, r ...int32) int32 {
	var req SyscallRequest

	regs := []*int32{&req.R0, &req.R1, &req.R2, &req.R3, &req.R4, &req.R5}
	for i, v := range r {
		*regs[i] = v
	}

	return h.inv.InvokeSyscall(context.Background(), SysArgs{Pid: pid, Index: nr, Args: req})
}

// open places path at offset 0x100 in pid's memory and opens it.
func (h *harness) open(pid abi.Pid, path string, flags abi.OpenFlags) int32 {
	mem := h.mem(pid)
	copy(mem[0x100:], path)

	return h.call(pid, abi.SysOpen, 0x100, int32(len(path)), int32(flags))
}

func (h *harness) write(pid abi.Pid, fd int32, data string) int32 {
	mem := h.mem(pid)
	copy(mem[0x200:], data)

	return h.call(pid, abi.SysWrite, fd, 0x200, int32(len(data)))
}

func TestScenarios(t *testing.T) {
	n := neko.Modern(t)

	n.It("writes to serial, closes, then fails on the stale fd", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		fd := h.open(1, "/dev/serial", abi.O_WRONLY)
		require.Equal(t, int32(0), fd)

		require.Equal(t, int32(2), h.write(1, fd, "hi"))
		require.Equal(t, "hi", h.serial.String())

		require.Equal(t, abi.OK, h.call(1, abi.SysClose, fd))

		require.Equal(t, abi.ERR, h.write(1, fd, "hi"))
		require.Equal(t, "hi", h.serial.String())
	})

	n.It("reads nothing from null and writes through it", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		fd := h.open(2, "/dev/null", abi.O_RDWR)
		require.Equal(t, int32(0), fd)

		mem := h.mem(2)
		copy(mem[0x300:], "0123456789")

		require.Equal(t, int32(0), h.call(2, abi.SysRead, fd, 0x300, 10))
		require.Equal(t, "0123456789", string(mem[0x300:0x30a]))

		require.Equal(t, int32(5), h.write(2, fd, "abcde"))
		require.Equal(t, "", h.serial.String())
	})

	n.Meow()
}

func TestDispatcher(t *testing.T) {
	n := neko.Modern(t)

	n.It("returns the full length for null writes of any size", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		fd := h.open(1, "/dev/null", abi.O_WRONLY)
		require.Equal(t, int32(0), fd)

		for _, sz := range []int32{0, 1, 17, 1024} {
			require.Equal(t, sz, h.call(1, abi.SysWrite, fd, 0x400, sz))
		}
	})

	n.It("fails open for paths outside the namespace", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		for _, path := range []string{"", "/dev/zero", "/dev/null\x00", "/tmp/x"} {
			require.Equal(t, abi.ERR, h.open(1, path, abi.O_RDONLY), "path %q", path)
		}
	})

	n.It("fails open for paths that are not utf-8", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		require.Equal(t, abi.ERR, h.open(1, "/dev/\xff\xfe", abi.O_RDONLY))
	})

	n.It("hands out descriptors first-fit until the table is full", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		for want := int32(0); want < fs.MaxFDs; want++ {
			require.Equal(t, want, h.open(1, "/dev/null", abi.O_WRONLY))
		}

		require.Equal(t, abi.ERR, h.open(1, "/dev/null", abi.O_WRONLY))
	})

	n.It("reuses the lowest closed descriptor", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		for i := 0; i < 4; i++ {
			h.open(1, "/dev/null", abi.O_WRONLY)
		}

		require.Equal(t, abi.OK, h.call(1, abi.SysClose, 2))
		require.Equal(t, int32(2), h.open(1, "/dev/serial", abi.O_WRONLY))
	})

	n.It("treats close on unopened in-range descriptors as success", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		require.Equal(t, abi.OK, h.call(1, abi.SysClose, 0))
		require.Equal(t, abi.OK, h.call(1, abi.SysClose, fs.MaxFDs-1))

		fd := h.open(1, "/dev/null", 0)
		require.Equal(t, abi.OK, h.call(1, abi.SysClose, fd))
		require.Equal(t, abi.OK, h.call(1, abi.SysClose, fd))
	})

	n.It("fails close on out of range descriptors", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		for _, fd := range []int32{-1, fs.MaxFDs, 1 << 20} {
			require.Equal(t, abi.ERR, h.call(1, abi.SysClose, fd))
		}
	})

	n.It("keeps descriptor tables separate per process", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		require.Equal(t, int32(0), h.open(1, "/dev/serial", abi.O_WRONLY))

		require.Equal(t, abi.ERR, h.write(2, 0, "nope"))
		require.Equal(t, int32(0), h.open(2, "/dev/null", abi.O_WRONLY))
		require.Equal(t, int32(4), h.write(2, 0, "null"))
		require.Equal(t, "", h.serial.String())

		require.Equal(t, int32(3), h.write(1, 0, "yes"))
		require.Equal(t, "yes", h.serial.String())
	})

	n.It("fails every syscall from a pid beyond the process table", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		for pid := abi.Pid(1); pid <= kernel.MaxProcesses; pid++ {
			require.Equal(t, int32(0), h.open(pid, "/dev/null", abi.O_WRONLY))
		}

		late := abi.Pid(kernel.MaxProcesses + 1)

		require.Equal(t, abi.ERR, h.open(late, "/dev/null", abi.O_WRONLY))
		require.Equal(t, abi.ERR, h.write(late, 0, "x"))
		require.Equal(t, abi.ERR, h.call(late, abi.SysRead, 0, 0x300, 1))
		require.Equal(t, abi.ERR, h.call(late, abi.SysClose, 0))
		require.Equal(t, abi.ERR, h.call(late, abi.SysIoctl, 0, 0, 0))

		require.Equal(t, int32(1), h.write(1, 0, "x"), "earlier processes are unaffected")
	})

	n.It("returns the unknown syscall sentinel for unknown numbers", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		for _, nr := range []abi.Syscall{4, 5, 15, 17, 63, 64, 1000, -1, -1 << 31} {
			ret := h.call(1, nr, 1, 2, 3, 4, 5, 6)
			require.Equal(t, abi.ENOSYS, ret, "syscall %d", int32(nr))
			require.NotEqual(t, abi.ERR, ret)
		}

		require.Equal(t, 0, h.inv.Kernel.Processes().Len(), "unknown syscalls never create processes")
	})

	n.It("returns the sentinel even for pids beyond the process table", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		for pid := abi.Pid(1); pid <= kernel.MaxProcesses; pid++ {
			h.call(pid, abi.SysClose, 0)
		}

		require.Equal(t, abi.ENOSYS, h.call(kernel.MaxProcesses+1, 99))
	})

	n.It("fails ioctl on null and serial for any command", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		null := h.open(1, "/dev/null", abi.O_RDWR)
		serial := h.open(1, "/dev/serial", abi.O_RDWR)

		for _, fd := range []int32{null, serial} {
			for _, cmd := range []int32{0, 1, 21523, -1} {
				require.Equal(t, abi.ERR, h.call(1, abi.SysIoctl, fd, cmd, 0x1234))
			}
		}
	})

	n.It("fails read on serial", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		fd := h.open(1, "/dev/serial", abi.O_RDWR)
		require.Equal(t, abi.ERR, h.call(1, abi.SysRead, fd, 0x300, 4))
	})

	n.It("fails on bad descriptors before touching caller memory", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})
		h.mem(1)

		used := h.inv.Kernel.Arena().Used()

		require.Equal(t, abi.ERR, h.call(1, abi.SysWrite, 5, -1, 100))
		require.Equal(t, abi.ERR, h.call(1, abi.SysRead, 5, -1, 100))
		require.Equal(t, abi.ERR, h.call(1, abi.SysIoctl, 5, 0, 0))

		require.Equal(t, used, h.inv.Kernel.Arena().Used())
	})

	n.It("fails when the caller's buffer is out of bounds", func(t *testing.T) {
		h := newHarness(t, kernel.Config{})

		fd := h.open(1, "/dev/serial", abi.O_WRONLY)
		require.Equal(t, abi.ERR, h.call(1, abi.SysWrite, fd, memSize-1, 2))
		require.Equal(t, abi.ERR, h.call(1, abi.SysOpen, memSize-2, 11, 0))
		require.Equal(t, "", h.serial.String())
	})

	n.It("fails when the scratch arena runs out", func(t *testing.T) {
		h := newHarness(t, kernel.Config{ArenaSize: memory.WasmPageSize})

		fd := h.open(1, "/dev/null", abi.O_WRONLY)
		require.Equal(t, int32(0), fd)

		require.Equal(t, abi.ERR, h.call(1, abi.SysRead, fd, 0, memory.WasmPageSize))
	})

	n.Meow()
}
