package main

import (
	"bytes"
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/vyPal/WebOS/boundary"
	"github.com/vyPal/WebOS/config"
	"github.com/vyPal/WebOS/kernel"
	clog "github.com/vyPal/WebOS/log"
	"github.com/vyPal/WebOS/pkg/wasmbin"
	"github.com/vyPal/WebOS/syscalls"
)

var ErrSelfTest = errors.New("self test produced unexpected serial output")

// boot brings up a kernel and runs every configured program to completion,
// one after another, in manifest order.
func boot(ctx context.Context, cfg *config.Config, serial io.Writer, selftest bool) error {
	l := clog.L

	l.Info("boot: loading kernel")

	var seen bytes.Buffer

	if selftest {
		serial = io.MultiWriter(serial, &seen)
	}

	procs := boundary.NewProcessManager()

	k, err := kernel.NewKernel(kernel.Config{ArenaSize: cfg.ArenaSize, Logger: l}, procs, serial)
	if err != nil {
		return err
	}

	m, err := boundary.NewMachine(ctx, &syscalls.Invoker{Kernel: k}, procs, boundary.Options{
		Logger:    l,
		CacheSize: cfg.CacheSize,
	})
	if err != nil {
		return err
	}

	defer m.Close(ctx)

	if selftest {
		l.Info("boot: loading hello (selftest)")

		proc, err := m.Spawn(ctx, "hello", bytes.NewReader(wasmbin.Hello()))
		if err != nil {
			return err
		}

		if err := proc.Run(ctx); err != nil {
			return err
		}

		if seen.String() != wasmbin.HelloSerialLine {
			return errors.Wrapf(ErrSelfTest, "got %q", seen.String())
		}

		l.Info("selftest: ok", "pid", proc.Pid)
	}

	for _, prog := range cfg.Programs {
		l.Info("boot: loading "+prog.Name, "path", prog.Path)

		proc, err := m.SpawnFile(ctx, prog.Name, prog.Path)
		if err != nil {
			return err
		}

		if err := proc.Run(ctx); err != nil {
			return err
		}
	}

	l.Info("boot: done", "processes", k.Processes().Len())

	return nil
}
