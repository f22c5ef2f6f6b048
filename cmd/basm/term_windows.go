package main

import "github.com/pkg/errors"

// setRawIO attempts to set stdin to raw IO and returns a function to restore
// IO settings as they were before. Raw IO is not supported on Windows.
func setRawIO() (func(), error) {
	return nil, errors.New("raw IO not supported")
}
