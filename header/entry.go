package header

import "encoding/binary"

// Entry is one fixed-width 16-byte record from a header's entry index:
// tag, type, offset into the data segment, and element count.
type Entry struct {
	Tag    uint32
	Type   uint32
	Offset uint32
	Count  uint32
}

// decodeEntry reads one 16-byte big-endian entry record from b.
func decodeEntry(b []byte) Entry {
	return Entry{
		Tag:    binary.BigEndian.Uint32(b[0:4]),
		Type:   binary.BigEndian.Uint32(b[4:8]),
		Offset: binary.BigEndian.Uint32(b[8:12]),
		Count:  binary.BigEndian.Uint32(b[12:16]),
	}
}

// encodeEntry writes e as a 16-byte big-endian entry record into b, which
// must be at least EntrySize bytes.
func encodeEntry(b []byte, e Entry) {
	binary.BigEndian.PutUint32(b[0:4], e.Tag)
	binary.BigEndian.PutUint32(b[4:8], e.Type)
	binary.BigEndian.PutUint32(b[8:12], e.Offset)
	binary.BigEndian.PutUint32(b[12:16], e.Count)
}

// payloadSize returns the byte length of the value described by the entry,
// given its type and count. Variable-length types must have been validated
// by the caller (their size is the distance to the last element's NUL plus
// one, not count*elemSize); this helper handles only the fixed-size types.
func (e Entry) payloadSize() (size int, fixed bool) {
	elemSize, ok := typeSize(e.Type)
	if !ok {
		return 0, false
	}

	return elemSize * int(e.Count), true
}
