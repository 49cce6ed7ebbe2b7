package kernel

import "errors"

var (
	ErrNoHost       = errors.New("kernel requires a host")
	ErrProcessTable = errors.New("process table full")
	ErrFault        = errors.New("bad address")
)
