package header

import (
	"fmt"

	"github.com/kslabs/pkgreader/errs"
	"github.com/kslabs/pkgreader/internal/hash"
)

// tagMin is the smallest legal entry tag. Everything below it is reserved
// for region bookkeeping, which only ever appears as entry 0.
const tagMin = 100

// typeAlign returns the alignment the data segment owes an entry of typ.
func typeAlign(typ uint32) int {
	switch typ {
	case TypeInt16:
		return 2
	case TypeInt32:
		return 4
	case TypeInt64:
		return 8
	default:
		return 1
	}
}

// Verify runs tag-by-tag sanity over the entry index: tag and type codes,
// offset alignment, payload ranges within the data segment, offset
// ordering without overlap, string NUL-termination, and tag uniqueness.
//
// When the blob carries an immutable region, entry 0 is the region
// bookkeeping entry -- its offset points at the trailer near the end of
// the region data, so it is excluded from the ordering walk (Locate has
// already validated it and its trailer).
func (b *Blob) Verify() error {
	seen := make(map[uint64]struct{}, b.il)

	start := 0
	if b.hasRegion {
		start = 1
		if err := dedupeCheck(seen, b.EntryAt(0).Tag); err != nil {
			return fmt.Errorf("entry 0: %w", err)
		}
	}

	prevEnd := 0

	for i := start; i < b.il; i++ {
		e := b.EntryAt(i)

		if e.Tag < tagMin {
			return fmt.Errorf("entry %d: %w: tag %d below minimum", i, errs.ErrBadHeaderEntry, e.Tag)
		}

		if err := dedupeCheck(seen, e.Tag); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}

		if int(e.Offset)%typeAlign(e.Type) != 0 {
			return fmt.Errorf("entry %d (tag %d): %w: offset %d misaligned for type %d",
				i, e.Tag, errs.ErrBadHeaderEntry, e.Offset, e.Type)
		}

		size, err := entryPayloadRange(e, b.dataStart)
		if err != nil {
			return fmt.Errorf("entry %d (tag %d): %w", i, e.Tag, err)
		}

		if int(e.Offset) < prevEnd {
			return fmt.Errorf("entry %d: %w: offset %d overlaps previous entry ending at %d",
				i, errs.ErrEntryOutOfOrder, e.Offset, prevEnd)
		}
		prevEnd = int(e.Offset) + size
	}

	return nil
}

// dedupeCheck flags a header entry that repeats a tag already seen, which
// would let a naive last-wins merge silently accept a second, conflicting
// value under the same tag.
func dedupeCheck(seen map[uint64]struct{}, tag uint32) error {
	h := hash.TagID(tag)

	if _, ok := seen[h]; ok {
		return fmt.Errorf("%w: tag %d", errs.ErrDuplicateTag, tag)
	}
	seen[h] = struct{}{}

	return nil
}

// EntryPayloadSize reports the byte size of e's payload inside data,
// validating bounds and NUL termination the same way Verify does. Callers
// that need a single entry's payload after verification use this instead
// of re-walking the whole index.
func EntryPayloadSize(e Entry, data []byte) (int, error) {
	return entryPayloadRange(e, data)
}

// entryPayloadRange validates that e's payload lies wholly inside data and
// (for string-like types) is properly NUL-terminated, returning its byte
// size.
func entryPayloadRange(e Entry, data []byte) (int, error) {
	dl := len(data)

	if fixedSize, fixed := e.payloadSize(); fixed {
		end := int(e.Offset) + fixedSize
		if int(e.Offset) < 0 || end < 0 || end > dl {
			return 0, fmt.Errorf("%w: offset %d count %d exceeds data(%d)", errs.ErrBadHeaderEntry, e.Offset, e.Count, dl)
		}

		return fixedSize, nil
	}

	switch e.Type {
	case TypeString:
		if e.Count != 1 {
			return 0, fmt.Errorf("%w: STRING count %d", errs.ErrBadHeaderEntry, e.Count)
		}

		return verifyStringEntry(e, data, 1)
	case TypeBin:
		end := int(e.Offset) + int(e.Count)
		if int(e.Offset) < 0 || end < 0 || end > dl {
			return 0, fmt.Errorf("%w: BIN offset %d count %d exceeds data(%d)", errs.ErrBadHeaderEntry, e.Offset, e.Count, dl)
		}

		return int(e.Count), nil
	case TypeStringArray, TypeI18NString:
		if e.Count < 1 {
			return 0, fmt.Errorf("%w: string array count %d", errs.ErrBadHeaderEntry, e.Count)
		}

		return verifyStringEntry(e, data, int(e.Count))
	default:
		return 0, fmt.Errorf("%w: unknown type %d", errs.ErrBadHeaderEntry, e.Type)
	}
}

// verifyStringEntry walks data starting at e.Offset counting NUL bytes,
// requiring exactly wantNUL of them, the last lying inside the data
// segment.
func verifyStringEntry(e Entry, data []byte, wantNUL int) (int, error) {
	start := int(e.Offset)
	if start < 0 || start > len(data) {
		return 0, fmt.Errorf("%w: string offset %d exceeds data(%d)", errs.ErrBadHeaderEntry, e.Offset, len(data))
	}

	nuls := 0
	end := start

	for i := start; i < len(data); i++ {
		if data[i] == 0 {
			nuls++
			end = i + 1
			if nuls == wantNUL {
				break
			}
		}
	}

	if nuls != wantNUL {
		return 0, fmt.Errorf("%w: expected %d NUL terminator(s), found %d", errs.ErrStringNotTerminated, wantNUL, nuls)
	}

	return end - start, nil
}
