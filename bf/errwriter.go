// This file is part of basm.
//
// Adapted from ngaro's internal/ngi.ErrWriter: once a write to the
// underlying writer fails, every subsequent write short-circuits and
// returns the same error instead of retrying against a broken sink (a
// closed stdout, a disconnected pipe, ...).
package bf

import (
	"io"

	"github.com/pkg/errors"
)

type errWriter struct {
	w   io.Writer
	err error
}

func newErrWriter(w io.Writer) *errWriter {
	return &errWriter{w: w}
}

func (w *errWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	if err != nil {
		w.err = errors.Wrap(err, "bf: output write failed")
	}
	return n, w.err
}
