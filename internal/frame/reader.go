package frame

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/valdmann/crook/internal/config"
	"github.com/valdmann/crook/internal/ppm"
	"github.com/valdmann/crook/internal/rc"
)

// Reader decompresses bytes from the underlying io.Reader. It mirrors the
// teacher's Reader (NewH7zReader/Read), generalized to the binary model
// and range coder this repo implements.
type Reader struct {
	r       io.Reader
	model   *ppm.Model
	decoder *rc.Decoder

	length uint32
	done   uint32
}

// NewReader reads the 4-byte length prefix and primes the range decoder.
// cfg must match the Config used to compress, or the output silently
// decodes to garbage of the correct length (spec.md §7).
func NewReader(r io.Reader, cfg config.Config) (*Reader, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, errors.Wrap(err, "frame: read length prefix")
	}

	decoder := rc.NewDecoder(r)
	if err := decoder.Fill(); err != nil {
		return nil, errors.Wrap(err, "frame: prime decoder")
	}

	return &Reader{
		r:       r,
		model:   ppm.NewModel(cfg.NodesLimit(), cfg.OrderLimitBits()),
		decoder: decoder,
		length:  binary.BigEndian.Uint32(prefix[:]),
	}, nil
}

// Len returns the uncompressed length recorded in the stream.
func (fr *Reader) Len() uint32 {
	return fr.length
}

// Read decodes up to len(buf) bytes, stopping early (and returning io.EOF
// on the next call) once Len() bytes have been produced. There is no
// explicit end-of-stream marker in the coded data; the reader stops
// because it already knows the output length (spec.md §9).
func (fr *Reader) Read(buf []byte) (int, error) {
	if fr.done >= fr.length {
		return 0, io.EOF
	}

	n := len(buf)
	if remain := fr.length - fr.done; uint32(n) > remain {
		n = int(remain)
	}

	for i := 0; i < n; i++ {
		var b byte
		for shift := 7; shift >= 0; shift-- {
			p1 := fr.model.Predict()
			bit := fr.decoder.Decode(p1)
			fr.model.Update(bit)
			if err := fr.decoder.Normalize(); err != nil {
				return i, errors.Wrap(err, "frame: normalize during read")
			}
			b |= byte(bit) << uint(shift)
		}
		buf[i] = b
		fr.done++
	}
	return n, nil
}

// UsedMemory reports the model's current arena footprint in MiB.
func (fr *Reader) UsedMemory() uint32 {
	return fr.model.GetUsedMemory()
}
