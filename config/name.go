package config

import (
	"path/filepath"
	"strings"
)

// ProgramName derives a process name from a binary's path: "apps/hello.wasm"
// is "hello".
func ProgramName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
