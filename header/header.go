package header

import (
	"encoding/binary"
	"sort"
)

// Value is one entry's decoded payload: its wire type, element count, and
// the raw bytes that encode it (for strings, N NUL-terminated C strings
// concatenated; for fixed types, Count*elemSize bytes).
type Value struct {
	Type  uint32
	Count uint32
	Data  []byte
}

// Header is the final, mutable metadata header entries are merged into
// and retrofits are applied to. Unlike Blob (an immutable view over one
// wire-format buffer), Header decouples entries from their on-disk
// offsets, so Put/Convert never need to rewrite surrounding entries.
type Header struct {
	entries map[uint32]Value
	order   []uint32 // tags in ascending order, matching the wire-format invariant

	// regionTag is nonzero when the header is backed by an immutable
	// region; Bytes regenerates the region trailer fresh over the
	// header's current entry set rather than trusting a stored one,
	// matching how a header reload forces full region regeneration.
	regionTag uint32
}

// New returns an empty Header ready for Put.
func New() *Header {
	return &Header{
		entries: make(map[uint32]Value),
		order:   make([]uint32, 0, 8),
	}
}

// SealRegion wraps the header's current and future entries in an immutable
// region under tag: a bookkeeping entry is added and Bytes will synthesize
// the matching trailer so the serialized form round-trips through Locate.
func (h *Header) SealRegion(tag uint32) {
	h.Put(tag, Value{Type: TypeBin, Count: EntrySize, Data: make([]byte, EntrySize)})
	h.regionTag = tag
}

// NewHeaderFromBlob decodes every entry in a verified Blob into a Header,
// copying each payload out of the blob's data segment. The Header does not
// take over or retain the blob's buffer, which stays with the caller.
func NewHeaderFromBlob(b *Blob) (*Header, error) {
	h := &Header{
		entries: make(map[uint32]Value, b.IL()),
		order:   make([]uint32, 0, b.IL()),
	}

	for i := 0; i < b.IL(); i++ {
		e := b.EntryAt(i)
		size, err := entryPayloadRange(e, b.DataStart())
		if err != nil {
			return nil, err
		}

		data := make([]byte, size)
		copy(data, b.DataStart()[int(e.Offset):int(e.Offset)+size])

		h.entries[e.Tag] = Value{Type: e.Type, Count: e.Count, Data: data}
		h.order = append(h.order, e.Tag)
	}
	// Tags appended past a region need not be in ascending order on the
	// wire.
	sort.Slice(h.order, func(i, j int) bool { return h.order[i] < h.order[j] })

	if b.RIL() > 0 {
		h.regionTag = b.regionTag
	}

	return h, nil
}

// SetRegion marks the header as backed by an immutable region under tag,
// causing Bytes to synthesize a fresh region trailer over the current
// entry set.
func (h *Header) SetRegion(tag uint32) { h.regionTag = tag }

// HasRegion reports whether the header is backed by an immutable region.
func (h *Header) HasRegion() bool { return h.regionTag != 0 }

// IsEntry reports whether tag is present.
func (h *Header) IsEntry(tag uint32) bool {
	_, ok := h.entries[tag]

	return ok
}

// Get returns the value stored under tag.
func (h *Header) Get(tag uint32) (Value, bool) {
	v, ok := h.entries[tag]

	return v, ok
}

// Put adds tag if absent, keeping h.order sorted. It is a no-op if tag is
// already present: merge and retrofit steps must never clobber an existing
// entry, and nothing in this reader needs overwrite semantics.
func (h *Header) Put(tag uint32, v Value) {
	if h.IsEntry(tag) {
		return
	}

	h.entries[tag] = v
	idx := sort.Search(len(h.order), func(i int) bool { return h.order[i] >= tag })
	h.order = append(h.order, 0)
	copy(h.order[idx+1:], h.order[idx:])
	h.order[idx] = tag
}

// PutUint32 is a convenience wrapper for single-scalar INT32 entries.
func (h *Header) PutUint32(tag uint32, val uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], val)
	h.Put(tag, Value{Type: TypeInt32, Count: 1, Data: b[:]})
}

// PutString is a convenience wrapper for single STRING entries.
func (h *Header) PutString(tag uint32, s string) {
	h.Put(tag, Value{Type: TypeString, Count: 1, Data: append([]byte(s), 0)})
}

// IsSourcePackage reports whether the header describes a source package.
// Binary headers always record the source package they were built from;
// absence of that tag is what marks a source header, which is why the
// reader later plants "(none)" on binary headers missing it.
func (h *Header) IsSourcePackage() bool {
	return !h.IsEntry(TagSourceRPM)
}

// Pair is one (tag, Value) entry returned by Entries, in ascending tag
// order.
type Pair struct {
	Tag uint32
	Val Value
}

// Entries returns (tag, Value) pairs in ascending tag order.
func (h *Header) Entries() []Pair {
	out := make([]Pair, len(h.order))
	for i, tag := range h.order {
		out[i] = Pair{Tag: tag, Val: h.entries[tag]}
	}

	return out
}

// Bytes re-serializes the header to wire format: 8-byte intro, entry
// index, data segment. When the header is backed by an immutable region
// (HasRegion), the region entry's data (the 16-byte trailer) is placed
// last in the data segment and its offset recomputed fresh, so RIL==IL
// and RDL==DL hold for the result -- i.e. Locate with exactSize=true
// succeeds again on round-trip.
func (h *Header) Bytes() []byte {
	entries := h.Entries()

	data := make([]byte, 0)
	idx := make([]byte, 0, len(entries)*EntrySize)
	offsets := make([]uint32, len(entries))

	for i, e := range entries {
		if h.regionTag != 0 && e.Tag == h.regionTag {
			continue // placed last, below
		}
		if pad := len(data) % typeAlign(e.Val.Type); pad != 0 {
			data = append(data, make([]byte, typeAlign(e.Val.Type)-pad)...)
		}
		offsets[i] = uint32(len(data)) //nolint: gosec
		data = append(data, e.Val.Data...)
	}

	if h.regionTag != 0 {
		for i, e := range entries {
			if e.Tag != h.regionTag {
				continue
			}
			offsets[i] = uint32(len(data)) //nolint: gosec

			var trailer [EntrySize]byte
			encodeEntry(trailer[:], Entry{
				Tag: h.regionTag, Type: TypeBin,
				Offset: uint32(-int32(len(entries) * EntrySize)), //nolint: gosec
				Count:  EntrySize,
			})
			data = append(data, trailer[:]...)

			break
		}
	}

	for i, e := range entries {
		var rec [EntrySize]byte
		typ, count := e.Val.Type, e.Val.Count
		if h.regionTag != 0 && e.Tag == h.regionTag {
			typ, count = TypeBin, EntrySize
		}
		encodeEntry(rec[:], Entry{Tag: e.Tag, Type: typ, Offset: offsets[i], Count: count})
		idx = append(idx, rec[:]...)
	}

	out := make([]byte, 8, 8+len(idx)+len(data))
	binary.BigEndian.PutUint32(out[0:4], uint32(len(entries))) //nolint: gosec
	binary.BigEndian.PutUint32(out[4:8], uint32(len(data)))    //nolint: gosec
	out = append(out, idx...)
	out = append(out, data...)

	return out
}
