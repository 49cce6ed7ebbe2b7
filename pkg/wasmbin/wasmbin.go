// Package wasmbin assembles small process binaries that talk to the kernel
// through the kernel.syscall import. It covers exactly what the built-in
// programs need: constants, locals, data segments, syscalls, stores and a
// guard on non-negative results.
package wasmbin

import "github.com/vyPal/WebOS/abi"

const (
	secType     = 1
	secImport   = 2
	secFunction = 3
	secMemory   = 5
	secExport   = 7
	secCode     = 10
	secData     = 11

	valI32   = 0x7f
	funcForm = 0x60

	opIf       = 0x04
	opEnd      = 0x0b
	opCall     = 0x10
	opDrop     = 0x1a
	opLocalGet = 0x20
	opLocalSet = 0x21
	opI32Store = 0x36
	opI32Const = 0x41
	opI32GeS   = 0x4e

	blockEmpty = 0x40

	exportFunc = 0x00
	exportMem  = 0x02
)

// Operand is a syscall argument: a constant or a local variable.
type Operand struct {
	local bool
	v     int32
}

func Const(v int32) Operand {
	return Operand{v: v}
}

func Local(i uint32) Operand {
	return Operand{local: true, v: int32(i)}
}

type segment struct {
	offset uint32
	data   []byte
}

// Program is the body of a module's _start function plus its data.
type Program struct {
	data   []segment
	code   []byte
	locals uint32
}

// Data places b at offset in linear memory when the module is instantiated.
func (p *Program) Data(offset uint32, b []byte) {
	p.data = append(p.data, segment{offset: offset, data: b})
}

func (p *Program) useLocal(i uint32) {
	if i+1 > p.locals {
		p.locals = i + 1
	}
}

func (p *Program) push(op Operand) {
	if op.local {
		p.useLocal(uint32(op.v))
		p.code = append(p.code, opLocalGet)
		p.code = appendUleb(p.code, uint32(op.v))
		return
	}

	p.code = append(p.code, opI32Const)
	p.code = appendSleb(p.code, op.v)
}

func (p *Program) call(nr abi.Syscall, args []Operand) {
	if len(args) > 6 {
		panic("wasmbin: a syscall takes at most six arguments")
	}

	p.push(Const(int32(nr)))

	for _, a := range args {
		p.push(a)
	}

	for i := len(args); i < 6; i++ {
		p.push(Const(0))
	}

	p.code = append(p.code, opCall, 0)
}

// Syscall invokes nr and discards the result.
func (p *Program) Syscall(nr abi.Syscall, args ...Operand) {
	p.call(nr, args)
	p.code = append(p.code, opDrop)
}

// SyscallTo invokes nr and keeps the result in a local.
func (p *Program) SyscallTo(local uint32, nr abi.Syscall, args ...Operand) {
	p.useLocal(local)
	p.call(nr, args)
	p.code = append(p.code, opLocalSet)
	p.code = appendUleb(p.code, local)
}

// Store writes a local to memory as a little-endian i32.
func (p *Program) Store(addr uint32, local uint32) {
	p.push(Const(int32(addr)))
	p.push(Local(local))
	p.code = append(p.code, opI32Store, 2, 0)
}

// IfValid runs body only when the local holds a non-negative result.
func (p *Program) IfValid(local uint32, body func()) {
	p.push(Local(local))
	p.push(Const(0))
	p.code = append(p.code, opI32GeS, opIf, blockEmpty)
	body()
	p.code = append(p.code, opEnd)
}

// Bytes assembles the module: it imports kernel.syscall and exports one
// page of memory and _start.
func (p *Program) Bytes() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	var types []byte
	types = appendUleb(types, 2)
	types = append(types, funcForm, 7, valI32, valI32, valI32, valI32, valI32, valI32, valI32, 1, valI32)
	types = append(types, funcForm, 0, 0)
	out = appendSection(out, secType, types)

	var imports []byte
	imports = appendUleb(imports, 1)
	imports = appendName(imports, "kernel")
	imports = appendName(imports, "syscall")
	imports = append(imports, exportFunc, 0)
	out = appendSection(out, secImport, imports)

	out = appendSection(out, secFunction, []byte{1, 1})

	out = appendSection(out, secMemory, []byte{1, 0, 1})

	var exports []byte
	exports = appendUleb(exports, 2)
	exports = appendName(exports, "memory")
	exports = append(exports, exportMem, 0)
	exports = appendName(exports, "_start")
	exports = append(exports, exportFunc, 1)
	out = appendSection(out, secExport, exports)

	var body []byte
	if p.locals > 0 {
		body = appendUleb(body, 1)
		body = appendUleb(body, p.locals)
		body = append(body, valI32)
	} else {
		body = appendUleb(body, 0)
	}
	body = append(body, p.code...)
	body = append(body, opEnd)

	var code []byte
	code = appendUleb(code, 1)
	code = appendUleb(code, uint32(len(body)))
	code = append(code, body...)
	out = appendSection(out, secCode, code)

	if len(p.data) > 0 {
		var data []byte
		data = appendUleb(data, uint32(len(p.data)))
		for _, seg := range p.data {
			data = append(data, 0, opI32Const)
			data = appendSleb(data, int32(seg.offset))
			data = append(data, opEnd)
			data = appendUleb(data, uint32(len(seg.data)))
			data = append(data, seg.data...)
		}
		out = appendSection(out, secData, data)
	}

	return out
}

func appendSection(out []byte, id byte, payload []byte) []byte {
	out = append(out, id)
	out = appendUleb(out, uint32(len(payload)))
	return append(out, payload...)
}

func appendName(out []byte, name string) []byte {
	out = appendUleb(out, uint32(len(name)))
	return append(out, name...)
}

func appendUleb(out []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func appendSleb(out []byte, v int32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
