package entropy

import (
	"crypto/rand"
	"io"

	"github.com/leachain/vm-shim/errors"
)

// Source returns n cryptographically strong random bytes.
type Source func(n int) ([]byte, error)

// Process reads from the operating system's entropy source.
func Process(n int) ([]byte, error) {
	return FromReader(rand.Reader)(n)
}

// FromReader adapts r into a Source. Reads that come up short are errors.
func FromReader(r io.Reader) Source {
	return func(n int) ([]byte, error) {
		if n < 0 {
			return nil, errors.InvalidInput(errors.PhaseEntropy, "negative byte count")
		}
		buf := make([]byte, n)
		got, err := io.ReadFull(r, buf)
		if err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				return nil, errors.ShortRead(errors.PhaseEntropy, n, got)
			}
			return nil, errors.Wrap(errors.PhaseEntropy, errors.KindUnavailable, err, "read entropy")
		}
		return buf, nil
	}
}

// Fixed returns a Source that replays data in order. It is deterministic and
// must never back a production shim.
func Fixed(data []byte) Source {
	var off int
	return func(n int) ([]byte, error) {
		if n < 0 {
			return nil, errors.InvalidInput(errors.PhaseEntropy, "negative byte count")
		}
		if off+n > len(data) {
			return nil, errors.ShortRead(errors.PhaseEntropy, n, len(data)-off)
		}
		out := make([]byte, n)
		copy(out, data[off:off+n])
		off += n
		return out, nil
	}
}
