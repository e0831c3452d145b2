package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Dependency-free ULID generator: 26-character Crockford Base32 strings
// with a 48-bit millisecond timestamp prefix and 80 random bits, with a
// sequence embedded so IDs stay unique within one millisecond.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

// NewULID returns a fresh, lexically sortable identifier.
func NewULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	// 128 bits, 26 Base32 digits: the first digit carries the top 3 bits,
	// every following digit the next 5.
	var out [26]byte
	out[0] = crockford[b[0]>>5]
	for i := 1; i < 26; i++ {
		out[i] = crockford[bitsAt(b, 3+(i-1)*5)]
	}
	return string(out[:])
}

// bitsAt extracts the 5 bits starting at bit position pos (MSB-first).
func bitsAt(b [16]byte, pos int) int {
	idx, shift := pos/8, pos%8
	v := uint16(b[idx]) << 8
	if idx+1 < len(b) {
		v |= uint16(b[idx+1])
	}
	return int(v >> (11 - shift) & 31)
}
