package rc

import (
	"io"

	"github.com/pkg/errors"
)

// Decoder mirrors Encoder. It is grounded directly on the teacher's
// internal/h7z/decoder.go: a sticky-error single-byte reader wrapping an
// io.Reader, primed by reading a fixed number of bytes up front, with a
// range/code-minus-low pair narrowed one bit at a time. The exact
// renormalization threshold and register names follow spec.md §4.5
// (`range`/`cml`) rather than the teacher's PPMd-specific `rng`/`code`.
type Decoder struct {
	r   io.Reader
	buf []byte
	err error

	rng uint32
	cml uint32
}

// NewDecoder returns a Decoder reading from r. Fill must be called once
// before the first Decode.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, 1),
		rng: 0xFFFFFFFF,
	}
}

// Fill primes cml with the first five bytes of the coded stream: the
// encoder's always-meaningless leading byte plus the first four real
// bytes.
func (d *Decoder) Fill() error {
	for i := 0; i < 5; i++ {
		b, err := d.readByte()
		if err != nil {
			return err
		}
		d.cml = (d.cml << 8) | uint32(b)
	}
	return nil
}

// Decode returns the bit implied by the current window and the probability
// p1 (in (0, 4096)) that the bit is 1.
func (d *Decoder) Decode(p1 uint32) int {
	mid := (d.rng / pScale) * p1
	if d.cml < mid {
		d.rng = mid
		return 1
	}
	d.cml -= mid
	d.rng -= mid
	return 0
}

// Normalize consumes one byte from the stream each time range has fallen to
// or below 24 bits of precision.
func (d *Decoder) Normalize() error {
	for d.rng <= topValue {
		b, err := d.readByte()
		if err != nil {
			return err
		}
		d.cml = (d.cml << 8) | uint32(b)
		d.rng <<= 8
	}
	return nil
}

func (d *Decoder) readByte() (byte, error) {
	if d.err != nil {
		return 0, d.err
	}
	n, err := d.r.Read(d.buf)
	if err != nil {
		d.err = errors.Wrap(err, "rc: read coded byte")
		if n == 0 {
			return 0, d.err
		}
	}
	return d.buf[0], nil
}
