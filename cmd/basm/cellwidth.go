package main

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// cellWidth is a pflag.Value validating the -cell-bits flag the way retro's
// cellSizeBits validated -ibits/-obits: only widths that actually make sense
// for a byte-oriented bf tape are accepted.
type cellWidth uint

var _ pflag.Value = (*cellWidth)(nil)

func (w *cellWidth) String() string { return strconv.Itoa(int(*w)) }
func (w *cellWidth) Type() string   { return "uint" }

func (w *cellWidth) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.Wrap(err, "integer conversion failed")
	}
	switch n {
	case 8, 16, 32, 64:
		*w = cellWidth(n)
		return nil
	default:
		return errors.Errorf("%d-bit cells not supported", n)
	}
}
