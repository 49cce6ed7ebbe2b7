package loader

import (
	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

const (
	// ImportModule and ImportSyscall name the single function a process
	// may import.
	ImportModule  = "kernel"
	ImportSyscall = "syscall"

	ExportStart  = "_start"
	ExportMemory = "memory"
)

var (
	ErrNoStart   = errors.New("no _start function defined")
	ErrNoMemory  = errors.New("no memory exported")
	ErrBadImport = errors.New("unsupported import")
)

// SyscallParams is the signature of kernel.syscall: the syscall number
// followed by six argument words.
var SyscallParams = []api.ValueType{
	api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32,
	api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32,
}

func sameTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Validate checks that a compiled module follows the process ABI.
func Validate(m wazero.CompiledModule) error {
	start, ok := m.ExportedFunctions()[ExportStart]
	if !ok || len(start.ParamTypes()) != 0 {
		return ErrNoStart
	}

	if _, ok := m.ExportedMemories()[ExportMemory]; !ok {
		return ErrNoMemory
	}

	if mems := m.ImportedMemories(); len(mems) > 0 {
		mod, name, _ := mems[0].Import()
		return errors.Wrapf(ErrBadImport, "memory %s.%s", mod, name)
	}

	for _, fn := range m.ImportedFunctions() {
		mod, name, _ := fn.Import()

		if mod != ImportModule || name != ImportSyscall {
			return errors.Wrapf(ErrBadImport, "function %s.%s", mod, name)
		}

		if !sameTypes(fn.ParamTypes(), SyscallParams) ||
			!sameTypes(fn.ResultTypes(), []api.ValueType{api.ValueTypeI32}) {
			return errors.Wrapf(ErrBadImport, "function %s.%s has the wrong signature", mod, name)
		}
	}

	return nil
}
