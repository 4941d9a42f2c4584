// Package frame owns the two concerns spec.md deliberately leaves as
// "external collaborators specified only by their interfaces": the 4-byte
// length prefix and the MSB-first bit loop that feeds internal/ppm and
// internal/rc. It is grounded on the teacher's reader.go, the one place the
// teacher already wires a model and a coder together behind an io.Reader.
package frame

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/valdmann/crook/internal/config"
	"github.com/valdmann/crook/internal/ppm"
	"github.com/valdmann/crook/internal/rc"
)

// Writer compresses bytes written to it and writes the coded stream to the
// underlying io.Writer. The uncompressed length must be known up front
// (spec.md §1's non-goal: no streaming over non-seekable input).
type Writer struct {
	w       io.Writer
	model   *ppm.Model
	encoder *rc.Encoder
}

// NewWriter writes the 4-byte big-endian length prefix immediately and
// returns a Writer ready to accept exactly length bytes of uncompressed
// input.
func NewWriter(w io.Writer, cfg config.Config, length uint32) (*Writer, error) {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], length)
	if _, err := w.Write(prefix[:]); err != nil {
		return nil, errors.Wrap(err, "frame: write length prefix")
	}

	return &Writer{
		w:       w,
		model:   ppm.NewModel(cfg.NodesLimit(), cfg.OrderLimitBits()),
		encoder: rc.NewEncoder(w),
	}, nil
}

// Write feeds each byte of p through the model and coder, MSB-first.
func (fw *Writer) Write(p []byte) (int, error) {
	for i, b := range p {
		for shift := 7; shift >= 0; shift-- {
			bit := int((b >> uint(shift)) & 1)
			p1 := fw.model.Predict()
			fw.encoder.Encode(bit, p1)
			fw.model.Update(bit)
			if err := fw.encoder.Normalize(); err != nil {
				return i, errors.Wrap(err, "frame: normalize during write")
			}
		}
	}
	return len(p), nil
}

// Close flushes the range coder's remaining state. It must be called
// exactly once, after every input byte has been written.
func (fw *Writer) Close() error {
	return errors.Wrap(fw.encoder.Flush(), "frame: flush encoder")
}

// UsedMemory reports the model's current arena footprint in MiB, for a
// progress reporter to display; it has no bearing on the coded output.
func (fw *Writer) UsedMemory() uint32 {
	return fw.model.GetUsedMemory()
}
