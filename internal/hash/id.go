// Package hash provides the small fingerprinting helpers the entry-index
// verifier uses for its bounded dedup set.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// TagID fingerprints a header tag number for dedup-set membership: a
// fixed 8-byte key regardless of how many entries a crafted header packs
// in.
func TagID(tag uint32) uint64 {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], tag)

	return xxhash.Sum64(b[:])
}
