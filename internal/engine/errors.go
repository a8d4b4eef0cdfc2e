package engine

import "errors"

// ErrInvalidArgument is returned for malformed ranges, counts and empty category sets.
var ErrInvalidArgument = errors.New("invalid argument")
