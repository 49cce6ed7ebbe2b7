package kernel

import "github.com/vyPal/WebOS/abi"

// Host moves bytes between a process's isolated memory and kernel memory.
// The kernel never addresses process memory any other way.
type Host interface {
	// CopyIn fills dst from process memory starting at src.
	CopyIn(pid abi.Pid, src uint32, dst []byte) error

	// CopyOut writes src into process memory starting at dst.
	CopyOut(pid abi.Pid, dst uint32, src []byte) error
}
