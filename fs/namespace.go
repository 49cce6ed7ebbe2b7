package fs

import (
	"sort"

	"github.com/vyPal/WebOS/device"
)

// Namespace maps the fixed set of device paths to their drivers.
type Namespace struct {
	entries map[string]device.ID
}

func NewNamespace() *Namespace {
	return &Namespace{
		entries: map[string]device.ID{
			"/dev/null":   device.Null,
			"/dev/serial": device.Serial,
		},
	}
}

func (m *Namespace) Lookup(path string) (device.ID, error) {
	id, ok := m.entries[path]
	if !ok {
		return 0, ErrUnknownPath
	}

	return id, nil
}

func (m *Namespace) Paths() []string {
	paths := make([]string, 0, len(m.entries))
	for p := range m.entries {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}
