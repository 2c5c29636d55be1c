// Package header implements the binary header-blob parser at the core of
// the package reader: construction and structural validation of a single
// tagged-entry header (HeaderBlob / RegionVerifier / StructureVerifier),
// the final mutable Header type entries are merged into, and the legacy
// retrofit transforms applied to upgrade old header encodings.
package header

import (
	"encoding/binary"
	"fmt"

	"github.com/kslabs/pkgreader/errs"
)

// Blob is a raw, validated view over one serialized header: counts,
// entry-index slice, data slice, and (once RegionVerifier has run) the
// immutable-region sub-range. A Blob views its backing buffer (ei) without
// copying it; a Header built from the Blob copies the payloads out and
// does not take over the buffer.
type Blob struct {
	ei []byte // backing buffer: [il_be, dl_be, entry_index, data]

	il int // number of entries, 0 <= il <= ILMax
	dl int // size in bytes of the data segment, 0 <= dl <= DLMax

	peRaw     []byte // raw entry-index bytes, il*EntrySize long
	dataStart []byte // raw data-segment bytes, dl long

	pvlen int // total ei length, == 8 + 16*il + dl

	regionTag uint32
	hasRegion bool
	ril       int // entry-count of the immutable sub-region, ril <= il
	rdl       int // data-size of the immutable sub-region, rdl <= dl
}

// NewBlob constructs a Blob over raw ei bytes [il_be, dl_be, entry_index,
// data], validating the intro counts against their limits and the buffer
// length against the counts. It does not locate the region or verify
// structure; callers run Locate and Verify afterward. regionTag names the
// immutable region this blob is expected to carry (metadata-immutable or
// signature-immutable).
func NewBlob(uh []byte, regionTag uint32) (*Blob, error) {
	if len(uh) < 8 {
		return nil, fmt.Errorf("hdr size(%d): %w, read returned %d", 8, errs.ErrShortRead, len(uh))
	}

	il := int(binary.BigEndian.Uint32(uh[0:4]))
	dl := int(binary.BigEndian.Uint32(uh[4:8]))

	if il < 0 || il > ILMax {
		return nil, fmt.Errorf("hdr tags: %w, no. of tags(%d) out of range", errs.ErrBadHeaderTags, il)
	}
	if dl < 0 || dl > DLMax {
		return nil, fmt.Errorf("hdr data: %w, no. of bytes(%d) out of range", errs.ErrBadHeaderData, dl)
	}

	uc := len(uh)
	pvlen := 8 + EntrySize*il + dl
	if uc != pvlen {
		return nil, fmt.Errorf("blob size(%d): %w, 8 + 16 * il(%d) + dl(%d)", uc, errs.ErrBadBlobSize, il, dl)
	}

	b := &Blob{
		ei:        uh,
		il:        il,
		dl:        dl,
		peRaw:     uh[8 : 8+EntrySize*il],
		dataStart: uh[8+EntrySize*il : uc],
		pvlen:     pvlen,
		regionTag: regionTag,
	}

	return b, nil
}

// IL returns the number of entries.
func (b *Blob) IL() int { return b.il }

// DL returns the size in bytes of the data segment.
func (b *Blob) DL() int { return b.dl }

// RIL returns the entry-count of the immutable sub-region (0 until Locate
// has run successfully).
func (b *Blob) RIL() int { return b.ril }

// RDL returns the data-size of the immutable sub-region (0 until Locate
// has run successfully).
func (b *Blob) RDL() int { return b.rdl }

// Bytes returns the backing buffer the Blob views.
func (b *Blob) Bytes() []byte { return b.ei }

// DataStart returns the raw data-segment bytes.
func (b *Blob) DataStart() []byte { return b.dataStart }

// EntryAt decodes the i-th entry-index record.
func (b *Blob) EntryAt(i int) Entry {
	return decodeEntry(b.peRaw[i*EntrySize : (i+1)*EntrySize])
}

// Entries decodes every entry-index record in order.
func (b *Blob) Entries() []Entry {
	out := make([]Entry, b.il)
	for i := range out {
		out[i] = b.EntryAt(i)
	}

	return out
}

// RegionEntryIndexBytes returns the raw, network-byte-order bytes of the
// first RIL entries -- exactly the slice the header-only and package-level
// signature digests are computed over.
func (b *Blob) RegionEntryIndexBytes() []byte {
	return b.peRaw[:b.ril*EntrySize]
}

// RegionDataBytes returns the raw bytes of the first RDL data-segment
// bytes -- the other half of the canonical digest input.
func (b *Blob) RegionDataBytes() []byte {
	return b.dataStart[:b.rdl]
}

// ImmutableRegionBlob returns be32(ril) || be32(rdl) || region-entry-index
// || region-data: the metadata header's immutable region re-serialized as
// a standalone blob. A package-level signature digest is computed over
// HeaderMagic followed by exactly these bytes. Locate must have succeeded
// first.
func (b *Blob) ImmutableRegionBlob() []byte {
	out := make([]byte, 0, 8+len(b.RegionEntryIndexBytes())+len(b.RegionDataBytes()))

	var counts [8]byte
	binary.BigEndian.PutUint32(counts[0:4], uint32(b.ril))
	binary.BigEndian.PutUint32(counts[4:8], uint32(b.rdl))
	out = append(out, counts[:]...)

	out = append(out, b.RegionEntryIndexBytes()...)
	out = append(out, b.RegionDataBytes()...)

	return out
}
