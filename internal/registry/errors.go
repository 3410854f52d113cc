package registry

import "errors"

var (
	ErrUnknownSubsystem  = errors.New("unknown subsystem id")
	ErrIllegalTransition = errors.New("illegal state transition")
)
