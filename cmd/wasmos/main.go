package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/spf13/pflag"

	"github.com/vyPal/WebOS/config"
	clog "github.com/vyPal/WebOS/log"
)

var (
	fConfig    = pflag.StringP("config", "c", "", "boot manifest to read")
	fArenaSize = pflag.Int("arena-size", 0, "size of the kernel heap in bytes")
	fCacheSize = pflag.Int("cache-size", 0, "number of compiled programs to keep")
	fLogLevel  = pflag.String("log-level", "", "log level (trace, debug, info, warn, error)")
	fSerial    = pflag.String("serial", "", "file receiving /dev/serial output (- for stdout)")
	fSelfTest  = pflag.Bool("selftest", false, "run the built-in hello program first and check its output")
)

func loadConfig() (*config.Config, error) {
	cfg := config.Default()

	if *fConfig != "" {
		c, err := config.Load(*fConfig)
		if err != nil {
			return nil, err
		}

		cfg = c
	}

	if pflag.CommandLine.Changed("arena-size") {
		cfg.ArenaSize = *fArenaSize
	}

	if pflag.CommandLine.Changed("cache-size") {
		cfg.CacheSize = *fCacheSize
	}

	if *fLogLevel != "" {
		cfg.LogLevel = *fLogLevel
	}

	if *fSerial != "" {
		cfg.Serial = *fSerial
	}

	cfg.AddPrograms(pflag.Args()...)

	return cfg, nil
}

func openSerial(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return closeProtect{os.Stdout}, nil
	}

	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
}

type closeProtect struct {
	*os.File
}

func (_ closeProtect) Close() error {
	return nil
}

func main() {
	cpuprofile := os.Getenv("CPUPROFILE")
	if cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		fmt.Printf("pprof: profiling started\n")
	}

	pflag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	if !clog.SetLevel(cfg.LogLevel) {
		log.Fatalf("unknown log level: %s", cfg.LogLevel)
	}

	if len(cfg.Programs) == 0 && !*fSelfTest {
		fmt.Fprintf(os.Stderr, "usage: wasmos [flags] program.wasm...\n")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	serial, err := openSerial(cfg.Serial)
	if err != nil {
		log.Fatal(err)
	}

	defer serial.Close()

	err = boot(context.Background(), cfg, serial, *fSelfTest)

	if cpuprofile != "" {
		pprof.StopCPUProfile()
		fmt.Printf("pprof: profiling finished\n")
	}

	if err != nil {
		log.Fatal(err)
	}
}
