// Package randsrc supplies the random byte streams that drive barcode synthesis.
package randsrc

import (
	crand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand/v2"
)

// Seeded derives one reproducible ChaCha8 stream per worker from Seed.
type Seeded struct {
	Seed uint64
}

// Stream returns the i-th stream for the seed.
func (s Seeded) Stream(i int) io.Reader {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[0:8], s.Seed)
	binary.LittleEndian.PutUint64(key[8:16], uint64(i))
	return rand.NewChaCha8(key)
}

// Crypto draws every stream from crypto/rand.
type Crypto struct{}

// Stream returns crypto/rand.Reader, which is safe for concurrent use.
func (Crypto) Stream(int) io.Reader { return crand.Reader }

// Fixed replays one reader. It only supports a single worker.
type Fixed struct {
	R io.Reader
}

// Stream returns the wrapped reader regardless of i.
func (f Fixed) Stream(int) io.Reader { return f.R }
