// Package rand produces the short random strings used for record ids and
// RPC request ids. It is not suitable for anything security related.
package rand

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"
)

const (
	bytesInUint64 = 8
	charset       = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// RecordSuffixLength is the number of random characters appended to the
	// timestamp part of a record id.
	RecordSuffixLength = 9
)

var charsetLen = len(charset)

var defaultSource = newSource()

func newSource() *source {
	seed := make([]byte, bytesInUint64*2)

	if _, err := cryptorand.Read(seed); err != nil {
		panic("unreachable")
	}

	return &source{
		//nolint:gosec // no security required
		rng: rand.New(rand.NewPCG(
			binary.LittleEndian.Uint64(seed[:8]),
			binary.LittleEndian.Uint64(seed[8:]),
		)),
	}
}

type source struct {
	mut sync.Mutex
	rng *rand.Rand
}

func (s *source) base62(length int) string {
	buf := make([]byte, length)

	s.mut.Lock()
	for i := range buf {
		buf[i] = charset[s.rng.IntN(charsetLen)]
	}
	s.mut.Unlock()

	return string(buf)
}

// NewRequestID returns a random base62 string of the given length.
func NewRequestID(length int) string {
	return defaultSource.base62(length)
}

// NewRecordID returns an id made of the millisecond timestamp in base36
// followed by RecordSuffixLength random characters. Ids created later sort
// after earlier ones as long as the timestamp width does not change.
func NewRecordID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + defaultSource.base62(RecordSuffixLength)
}
