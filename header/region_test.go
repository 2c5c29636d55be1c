package header

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kslabs/pkgreader/errs"
)

// trailerBytes encodes a region trailer record with its offset field
// stored negated, the way it lives inside the data segment.
func trailerBytes(tag uint32, typ uint32, regionIndexSize int, cnt uint32) []byte {
	var rec [EntrySize]byte
	binary.BigEndian.PutUint32(rec[0:4], tag)
	binary.BigEndian.PutUint32(rec[4:8], typ)
	binary.BigEndian.PutUint32(rec[8:12], uint32(-int32(regionIndexSize))) //nolint: gosec
	binary.BigEndian.PutUint32(rec[12:16], cnt)

	return rec[:]
}

// trailingFixture builds a blob whose region covers only entry 0's
// trailer, with one string entry dribbled on after the region was sealed.
func trailingFixture(t *testing.T) *Blob {
	t.Helper()

	data := trailerBytes(TagHeaderImmutable, TypeBin, EntrySize, EntrySize)
	data = append(data, []byte("abc\x00")...)

	raw := buildRaw([]rawEntry{
		{tag: TagHeaderImmutable, typ: TypeBin, off: 0, cnt: EntrySize},
		{tag: TagSHA1Header, typ: TypeString, off: EntrySize, cnt: 1},
	}, data)

	b, err := NewBlob(raw, TagHeaderImmutable)
	require.NoError(t, err)

	return b
}

func TestLocateNoTags(t *testing.T) {
	b, err := NewBlob(buildRaw(nil, nil), TagHeaderImmutable)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Locate(true), errs.ErrRegionMissing)
}

func TestLocateNotFoundIsLegacySignal(t *testing.T) {
	raw := buildRaw([]rawEntry{{tag: 1000, typ: TypeString, off: 0, cnt: 1}}, []byte("x\x00"))

	b, err := NewBlob(raw, TagHeaderImmutable)
	require.NoError(t, err)

	err = b.Locate(true)
	assert.True(t, IsRegionNotFound(err))
	assert.Equal(t, 0, b.RIL())
}

func TestLocateBadRegionTag(t *testing.T) {
	raw := buildRaw([]rawEntry{
		{tag: TagHeaderImmutable, typ: TypeInt32, off: 0, cnt: 1},
	}, make([]byte, 4))

	b, err := NewBlob(raw, TagHeaderImmutable)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Locate(true), errs.ErrBadRegionTag)
}

func TestLocateBadRegionOffset(t *testing.T) {
	// Trailer would extend one byte past the data segment.
	raw := buildRaw([]rawEntry{
		{tag: TagHeaderImmutable, typ: TypeBin, off: 1, cnt: EntrySize},
	}, make([]byte, EntrySize))

	b, err := NewBlob(raw, TagHeaderImmutable)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Locate(true), errs.ErrBadRegionOffset)
}

func TestLocateBadTrailer(t *testing.T) {
	// Trailer bytes carry the wrong tag.
	data := trailerBytes(TagHeaderSignatures, TypeBin, EntrySize, EntrySize)

	raw := buildRaw([]rawEntry{
		{tag: TagHeaderImmutable, typ: TypeBin, off: 0, cnt: EntrySize},
	}, data)

	b, err := NewBlob(raw, TagHeaderImmutable)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Locate(true), errs.ErrBadRegionTrailer)
}

func TestLocateTrailerOffsetNotMultiple(t *testing.T) {
	data := trailerBytes(TagHeaderImmutable, TypeBin, EntrySize+3, EntrySize)

	raw := buildRaw([]rawEntry{
		{tag: TagHeaderImmutable, typ: TypeBin, off: 0, cnt: EntrySize},
	}, data)

	b, err := NewBlob(raw, TagHeaderImmutable)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Locate(true), errs.ErrBadRegionSize)
}

func TestLocateRegionLargerThanIndex(t *testing.T) {
	// Trailer claims five entries; the blob has one.
	data := trailerBytes(TagHeaderImmutable, TypeBin, 5*EntrySize, EntrySize)

	raw := buildRaw([]rawEntry{
		{tag: TagHeaderImmutable, typ: TypeBin, off: 0, cnt: EntrySize},
	}, data)

	b, err := NewBlob(raw, TagHeaderImmutable)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Locate(true), errs.ErrBadRegionSize)
}

func TestLocateExactSize(t *testing.T) {
	b := trailingFixture(t)

	// Package files must have the region span the whole header.
	assert.ErrorIs(t, b.Locate(true), errs.ErrRegionSizeMismatch)

	// Database blobs accumulate trailing tags; same bytes are fine there.
	b = trailingFixture(t)
	require.NoError(t, b.Locate(false))
	assert.Equal(t, 1, b.RIL())
	assert.Equal(t, EntrySize, b.RDL())
	assert.True(t, b.HasTrailingTags())
	require.NoError(t, b.Verify())
}
