package flight

import "errors"

var (
	ErrCapacityExceeded  = errors.New("flight capacity exceeded")
	ErrIllegalTransition = errors.New("illegal flight status transition")
)
