// Package keystash tracks recently seen signer key ids so that repeated
// warnings about the same untrusted or missing key can be downgraded after
// the first occurrence. Memory is bounded: the stash is a fixed-capacity
// ring that overwrites its oldest entry once full.
package keystash

import (
	"sync"

	"github.com/kslabs/pkgreader/internal/options"
)

// DefaultCapacity is the number of distinct key ids retained before the
// oldest is overwritten.
const DefaultCapacity = 256

// Stash is a bounded set of 32-bit signer key ids, safe for concurrent use
// from many reader calls. The zero value is not usable; construct with New.
//
// Embedding applications typically hold one Stash per process and hand it
// to the disposition mapper; the core never requires a global.
type Stash struct {
	mu       sync.Mutex
	keyids   []uint32
	nextIdx  int
	capacity int
}

// Option configures a Stash.
type Option = options.Option[*Stash]

// WithCapacity overrides the number of key ids retained. Values below 1
// are ignored.
func WithCapacity(n int) Option {
	return options.NoError[*Stash](func(s *Stash) {
		if n >= 1 {
			s.capacity = n
		}
	})
}

// New builds an empty Stash with DefaultCapacity, then applies opts.
func New(opts ...Option) *Stash {
	s := &Stash{capacity: DefaultCapacity}
	_ = options.Apply(s, opts...)
	s.keyids = make([]uint32, 0, s.capacity)

	return s
}

// Observe records keyid and reports whether it had been seen before.
//
// id 0 means "no key id" and always reports false without touching state,
// so unsigned packages never consume a slot. Lookup is a linear scan; the
// stash is small enough that this stays cheap under the lock.
func (s *Stash) Observe(keyid uint32) bool {
	if keyid == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.keyids {
		if id == keyid {
			return true
		}
	}

	if len(s.keyids) < s.capacity {
		s.keyids = append(s.keyids, keyid)
	} else {
		s.keyids[s.nextIdx] = keyid
	}
	s.nextIdx = (s.nextIdx + 1) % s.capacity

	return false
}

// Len reports the number of key ids currently retained.
func (s *Stash) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.keyids)
}
