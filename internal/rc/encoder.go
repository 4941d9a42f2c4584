// Package rc implements the carry-aware binary range coder that converts a
// stream of (prediction, observed-bit) pairs — as produced by
// internal/ppm.Model — into a near-entropy byte stream, and back.
package rc

import (
	"io"

	"github.com/pkg/errors"
)

const (
	pScale   = 1 << 12 // matches ppm.AriPScale; kept local so rc stays usable without internal/ppm
	topValue = 0x00FFFFFF
)

// Encoder is a 64-bit-low, carry-propagating binary arithmetic coder. It
// holds one buffered byte (fluxFst) plus an undetermined run of deferred
// 0xFF bytes (fluxLen-1) whose final value depends on whether a future
// carry arrives — the classic deferred-carry scheme, shaped here after
// other_examples/flanglet-kanzi-go__BinaryEntropyCodec.go's
// BinaryEntropyEncoder (Predictor-driven EncodeBit, periodic flush) with
// spec's exact fluxLen/fluxFst bookkeeping in place of kanzi's 56-bit
// low/high pair.
type Encoder struct {
	w   io.Writer
	buf []byte

	low     uint64
	rng     uint32
	fluxLen uint32
	fluxFst byte
}

// NewEncoder returns an Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:       w,
		rng:     0xFFFFFFFF,
		fluxLen: 1,
	}
}

// Encode narrows the coder's [low, low+range) interval according to bit and
// the probability p1 (in (0, 4096)) that the bit is 1.
func (e *Encoder) Encode(bit int, p1 uint32) {
	mid := (e.rng / pScale) * p1
	if bit == 1 {
		e.rng = mid
	} else {
		e.low += uint64(mid)
		e.rng -= mid
	}
}

// Normalize shifts out finished top bytes of the coder's window while range
// has fallen to or below 24 bits of precision, emitting bytes (through the
// deferred-carry buffer) as it goes.
func (e *Encoder) Normalize() error {
	for e.rng <= topValue {
		lo32 := uint32(e.low)
		hi32 := byte(e.low >> 32)

		if lo32 < 0xFF000000 || hi32 != 0 {
			if err := e.flushRun(hi32); err != nil {
				return err
			}
			e.fluxFst = byte(lo32 >> 24)
			e.fluxLen = 1
		} else {
			e.fluxLen++
		}

		e.low = uint64(lo32 << 8)
		e.rng <<= 8
	}
	return nil
}

// flushRun emits fluxFst+hi32 followed by fluxLen-1 copies of 0xFF+hi32
// (0xFF if no carry arrived, 0x00 if one did).
func (e *Encoder) flushRun(hi32 byte) error {
	if err := e.writeByte(e.fluxFst + hi32); err != nil {
		return err
	}
	run := byte(0xFF + hi32)
	for i := uint32(1); i < e.fluxLen; i++ {
		if err := e.writeByte(run); err != nil {
			return err
		}
	}
	return nil
}

// Flush emits the final deferred-carry run and the low register's
// remaining four bytes. It must be called exactly once, after the last bit
// of the input has been encoded.
func (e *Encoder) Flush() error {
	lo32 := uint32(e.low)
	hi32 := byte(e.low >> 32)

	if err := e.flushRun(hi32); err != nil {
		return err
	}
	for shift := 24; shift >= 0; shift -= 8 {
		if err := e.writeByte(byte(lo32 >> uint(shift))); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeByte(b byte) error {
	e.buf = append(e.buf[:0], b)
	if _, err := e.w.Write(e.buf); err != nil {
		return errors.Wrap(err, "rc: write coded byte")
	}
	return nil
}
