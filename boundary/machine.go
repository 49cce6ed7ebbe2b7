package boundary

import (
	"context"
	"fmt"
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/vyPal/WebOS/abi"
	"github.com/vyPal/WebOS/loader"
	"github.com/vyPal/WebOS/log"
)

type Options struct {
	Logger hclog.Logger

	// CacheSize bounds the compiled module cache. Zero selects
	// loader.DefaultCacheSize.
	CacheSize int
}

// Machine hosts user processes. Every process is a separate module
// instance with its own linear memory; the only way out is kernel.syscall.
type Machine struct {
	L hclog.Logger

	rt     wazero.Runtime
	loader *loader.Loader
	procs  *ProcessManager
	wi     *WasmInterface
	host   api.Module
}

func NewMachine(ctx context.Context, inv SyscallInvoker, procs *ProcessManager, opts Options) (*Machine, error) {
	l := opts.Logger
	if l == nil {
		l = log.L
	}

	l = l.Named("boundary")

	rt := wazero.NewRuntime(ctx)

	wi := &WasmInterface{
		L:       l,
		Invoker: inv,
		Procs:   procs,
	}

	host, err := wi.Instantiate(ctx, rt)
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Wrap(err, "registering kernel host module")
	}

	ld := loader.NewLoader(rt, loader.NewLoaderCache(opts.CacheSize))
	ld.L = l.Named("loader")

	return &Machine{
		L:      l,
		rt:     rt,
		loader: ld,
		procs:  procs,
		wi:     wi,
		host:   host,
	}, nil
}

func (m *Machine) Close(ctx context.Context) error {
	return m.rt.Close(ctx)
}

// Proc is a process instantiated in a Machine.
type Proc struct {
	Pid  abi.Pid
	Name string

	m   *Machine
	mod api.Module
}

func (m *Machine) SpawnFile(ctx context.Context, name, path string) (*Proc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	return m.Spawn(ctx, name, f)
}

// Spawn compiles (or fetches from cache) a process binary, assigns it a pid
// and instantiates it without running it.
func (m *Machine) Spawn(ctx context.Context, name string, r io.ReadSeeker) (*Proc, error) {
	cm, err := m.loader.Load(ctx, r)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", name)
	}

	pid := m.procs.AssignPid()

	cfg := wazero.NewModuleConfig().
		WithName(fmt.Sprintf("%s.%d", name, pid)).
		WithStartFunctions()

	mod, err := m.rt.InstantiateModule(ctx, cm, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "instantiating %s", name)
	}

	m.procs.Attach(pid, mod)

	m.L.Debug("process-spawn", "pid", pid, "name", name, "module", mod.Name())

	return &Proc{
		Pid:  pid,
		Name: name,
		m:    m,
		mod:  mod,
	}, nil
}

// Run calls the process entry point and returns when it does.
func (p *Proc) Run(ctx context.Context) error {
	start := p.mod.ExportedFunction(loader.ExportStart)
	if start == nil {
		return loader.ErrNoStart
	}

	p.m.L.Trace("process-start", "pid", p.Pid, "name", p.Name)

	_, err := start.Call(SetPid(ctx, p.Pid))
	if err != nil {
		return errors.Wrapf(err, "running %s (pid %d)", p.Name, p.Pid)
	}

	p.m.L.Trace("process-exit", "pid", p.Pid, "name", p.Name)

	return nil
}

// Memory exposes the process's linear memory to the host.
func (p *Proc) Memory() api.Memory {
	return p.mod.Memory()
}

func (p *Proc) Close(ctx context.Context) error {
	p.m.procs.RemoveProc(p.Pid)
	return p.mod.Close(ctx)
}
