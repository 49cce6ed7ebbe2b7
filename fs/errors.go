package fs

import "errors"

var (
	ErrUnknownPath   = errors.New("unknown path")
	ErrBadDescriptor = errors.New("bad file descriptor")
	ErrTooManyFiles  = errors.New("too many open files")
	ErrUnknownDevice = errors.New("unknown device")
)
