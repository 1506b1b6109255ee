package airfield

import "errors"

var (
	ErrResourceBusy = errors.New("resource is occupied")
	ErrNotAvailable = errors.New("resource is not free")
)
