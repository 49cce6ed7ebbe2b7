package wasmbin

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyPal/WebOS/abi"
)

func TestLeb(t *testing.T) {
	uleb := []struct {
		v   uint32
		out []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
	}

	for _, tc := range uleb {
		assert.Equal(t, tc.out, appendUleb(nil, tc.v), "uleb %d", tc.v)
	}

	sleb := []struct {
		v   int32
		out []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x7f}},
		{63, []byte{0x3f}},
		{64, []byte{0xc0, 0x00}},
		{-64, []byte{0x40}},
		{-123456, []byte{0xc0, 0xbb, 0x78}},
	}

	for _, tc := range sleb {
		assert.Equal(t, tc.out, appendSleb(nil, tc.v), "sleb %d", tc.v)
	}
}

func TestProgram(t *testing.T) {
	t.Run("emits a module header", func(t *testing.T) {
		var p Program
		b := p.Bytes()

		require.True(t, bytes.HasPrefix(b, []byte("\x00asm\x01\x00\x00\x00")))
		require.True(t, bytes.Contains(b, []byte("kernel")))
		require.True(t, bytes.Contains(b, []byte("_start")))
	})

	t.Run("pads syscalls to six arguments", func(t *testing.T) {
		var p Program
		p.Syscall(abi.SysClose, Const(3))

		// nr, fd and five zero words, then call 0 and drop
		want := []byte{
			opI32Const, 3,
			opI32Const, 3,
			opI32Const, 0, opI32Const, 0, opI32Const, 0, opI32Const, 0, opI32Const, 0,
			opCall, 0, opDrop,
		}
		require.Equal(t, want, p.code)
		require.Equal(t, uint32(0), p.locals)
	})

	t.Run("tracks locals", func(t *testing.T) {
		var p Program
		p.SyscallTo(2, abi.SysOpen)
		p.Store(0x10, 2)

		require.Equal(t, uint32(3), p.locals)
	})

	t.Run("refuses too many arguments", func(t *testing.T) {
		var p Program
		require.Panics(t, func() {
			p.Syscall(abi.SysRead, Const(0), Const(0), Const(0), Const(0), Const(0), Const(0), Const(0))
		})
	})

	t.Run("embeds hello's data", func(t *testing.T) {
		b := Hello()

		for _, s := range []string{"/dev/null", "/dev/serial", HelloNullLine, HelloSerialLine} {
			require.True(t, bytes.Contains(b, []byte(s)), s)
		}
	})
}
