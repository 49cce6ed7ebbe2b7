package kernel

import (
	"io"

	"github.com/google/uuid"
	hclog "github.com/hashicorp/go-hclog"

	"github.com/vyPal/WebOS/fs"
	"github.com/vyPal/WebOS/log"
	"github.com/vyPal/WebOS/memory"
)

type Config struct {
	// ArenaSize is the size of the kernel heap used for syscall scratch
	// buffers. Zero selects memory.DefaultArenaSize.
	ArenaSize int

	Logger hclog.Logger
}

// Kernel is the state shared by every syscall: the process table, the VFS
// and the scratch heap. It is not safe for concurrent syscalls; the caller
// serializes them.
type Kernel struct {
	ID uuid.UUID
	L  hclog.Logger

	host      Host
	arena     *memory.Arena
	vfs       *fs.VFS
	processes *ProcessTable
}

func NewKernel(cfg Config, host Host, serial io.Writer) (*Kernel, error) {
	if host == nil {
		return nil, ErrNoHost
	}

	l := cfg.Logger
	if l == nil {
		l = log.L
	}

	id := uuid.New()

	k := &Kernel{
		ID:        id,
		L:         l.Named("kernel").With("instance", id.String()),
		host:      host,
		arena:     memory.NewArena(cfg.ArenaSize),
		vfs:       fs.NewVFS(serial),
		processes: NewProcessTable(),
	}

	k.L.Debug("kernel-init", "arena", k.arena.Size(), "devices", k.vfs.Names.Paths())

	return k, nil
}

func (k *Kernel) VFS() *fs.VFS {
	return k.vfs
}

func (k *Kernel) Arena() *memory.Arena {
	return k.arena
}

func (k *Kernel) Processes() *ProcessTable {
	return k.processes
}

func (k *Kernel) Host() Host {
	return k.host
}
