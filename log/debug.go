package log

import (
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

func EnableDebug() {
	if str := os.Getenv("TRACE"); str != "" {
		L.SetLevel(hclog.Trace)
		return
	}

	L.SetLevel(hclog.Debug)
}

// SetLevel applies a textual level ("trace", "debug", "info", ...). TRACE in
// the environment always wins. Unknown names leave the level untouched.
func SetLevel(name string) bool {
	if os.Getenv("TRACE") != "" {
		return true
	}

	lvl := hclog.LevelFromString(name)
	if lvl == hclog.NoLevel {
		return false
	}

	L.SetLevel(lvl)
	return true
}
