package slots

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektra/neko"
)

func TestBitmap(t *testing.T) {
	n := neko.Modern(t)

	n.It("hands out the lowest free slot", func(t *testing.T) {
		b := New(4)

		for want := 0; want < 4; want++ {
			i, ok := b.FirstFree()
			require.True(t, ok)
			require.Equal(t, want, i)
			b.Set(i)
		}

		_, ok := b.FirstFree()
		require.False(t, ok)
		require.True(t, b.Full())
	})

	n.It("reuses a cleared slot before higher ones", func(t *testing.T) {
		b := New(8)
		for i := 0; i < 5; i++ {
			b.Set(i)
		}

		b.Clear(3)
		b.Clear(1)

		i, ok := b.FirstFree()
		require.True(t, ok)
		require.Equal(t, 1, i)
		require.Equal(t, 3, b.Len())
	})

	n.It("handles a full 64 slot table", func(t *testing.T) {
		b := New(MaxCapacity)
		for i := 0; i < MaxCapacity; i++ {
			b.Set(i)
		}

		_, ok := b.FirstFree()
		require.False(t, ok)
		require.False(t, b.IsSet(MaxCapacity))
		require.False(t, b.IsSet(-1))
	})

	n.Meow()
}
