package models

import "errors"

// ErrNotFound is wrapped by stores when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")
