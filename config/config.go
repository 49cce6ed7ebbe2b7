// Package config reads the boot manifest: which programs to start and how
// to size the kernel that runs them.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vyPal/WebOS/loader"
	"github.com/vyPal/WebOS/memory"
)

var ErrNoProgramPath = errors.New("program has no path")

type Program struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type Config struct {
	LogLevel  string `yaml:"log_level"`
	ArenaSize int    `yaml:"arena_size"`
	CacheSize int    `yaml:"cache_size"`

	// Serial names the file that receives /dev/serial output. Empty or "-"
	// means stdout.
	Serial string `yaml:"serial"`

	Programs []Program `yaml:"programs,omitempty"`
}

func Default() *Config {
	return &Config{
		LogLevel:  "info",
		ArenaSize: memory.DefaultArenaSize,
		CacheSize: loader.DefaultCacheSize,
		Serial:    "-",
	}
}

// Parse reads a manifest. Settings it omits keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decoding boot manifest")
	}

	for i := range cfg.Programs {
		prog := &cfg.Programs[i]

		if prog.Path == "" {
			return nil, errors.Wrapf(ErrNoProgramPath, "program %d", i)
		}

		if prog.Name == "" {
			prog.Name = ProgramName(prog.Path)
		}
	}

	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading boot manifest")
	}

	return Parse(data)
}

// AddPrograms appends programs given by path, named after their files.
func (c *Config) AddPrograms(paths ...string) {
	for _, path := range paths {
		c.Programs = append(c.Programs, Program{Name: ProgramName(path), Path: path})
	}
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
