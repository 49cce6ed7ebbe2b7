package kernel

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vyPal/WebOS/abi"
)

// SliceHost is a Host whose process memories are plain byte slices.
type SliceHost struct {
	mu   sync.Mutex
	mems map[abi.Pid][]byte
}

func NewSliceHost() *SliceHost {
	return &SliceHost{mems: make(map[abi.Pid][]byte)}
}

// Attach gives pid a zeroed memory of size bytes and returns it.
func (s *SliceHost) Attach(pid abi.Pid, size int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	mem := make([]byte, size)
	s.mems[pid] = mem

	return mem
}

func (s *SliceHost) Memory(pid abi.Pid) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mem, ok := s.mems[pid]
	return mem, ok
}

func (s *SliceHost) project(pid abi.Pid, addr uint32, sz int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mem, ok := s.mems[pid]
	if !ok {
		return nil, errors.Wrapf(ErrFault, "no memory for pid %d", pid)
	}

	end := uint64(addr) + uint64(sz)
	if end > uint64(len(mem)) {
		return nil, errors.Wrapf(ErrFault, "pid=%d addr=%#x size=%d", pid, addr, sz)
	}

	return mem[addr:end], nil
}

func (s *SliceHost) CopyIn(pid abi.Pid, src uint32, dst []byte) error {
	mem, err := s.project(pid, src, len(dst))
	if err != nil {
		return err
	}

	copy(dst, mem)
	return nil
}

func (s *SliceHost) CopyOut(pid abi.Pid, dst uint32, src []byte) error {
	mem, err := s.project(pid, dst, len(src))
	if err != nil {
		return err
	}

	copy(mem, src)
	return nil
}
