package header

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutKeepsOrderAndNeverClobbers(t *testing.T) {
	h := New()
	h.Put(1004, Value{Type: TypeString, Count: 1, Data: []byte("summary\x00")})
	h.Put(1000, Value{Type: TypeString, Count: 1, Data: []byte("alpha\x00")})
	h.Put(1001, Value{Type: TypeString, Count: 1, Data: []byte("1.0\x00")})

	var tags []uint32
	for _, p := range h.Entries() {
		tags = append(tags, p.Tag)
	}
	assert.Equal(t, []uint32{1000, 1001, 1004}, tags)

	// A second Put under an existing tag is a no-op.
	h.Put(1000, Value{Type: TypeString, Count: 1, Data: []byte("beta\x00")})
	v, ok := h.Get(1000)
	require.True(t, ok)
	assert.Equal(t, []byte("alpha\x00"), v.Data)
}

func TestPutScalarHelpers(t *testing.T) {
	h := New()
	h.PutUint32(TagSourcePackage, 1)
	h.PutString(TagSourceRPM, "(none)")

	v, ok := h.Get(TagSourcePackage)
	require.True(t, ok)
	assert.Equal(t, TypeInt32, v.Type)
	assert.Equal(t, uint32(1), binary.BigEndian.Uint32(v.Data))

	s, ok := h.Get(TagSourceRPM)
	require.True(t, ok)
	assert.Equal(t, TypeString, s.Type)
	assert.Equal(t, []byte("(none)\x00"), s.Data)
}

func TestIsSourcePackage(t *testing.T) {
	h := New()
	assert.True(t, h.IsSourcePackage(), "no source-rpm reference means a source header")

	h.PutString(TagSourceRPM, "pkg-1.0-1.src.rpm")
	assert.False(t, h.IsSourcePackage())
}

func TestBytesRoundTrip(t *testing.T) {
	h := New()
	h.Put(1000, Value{Type: TypeString, Count: 1, Data: []byte("alpha\x00")})
	h.Put(1003, Value{Type: TypeInt16, Count: 1, Data: []byte{0x00, 0x07}})
	h.Put(1009, Value{Type: TypeInt32, Count: 2, Data: []byte{0, 0, 0, 1, 0, 0, 0, 2}})
	h.SealRegion(TagHeaderImmutable)

	raw := h.Bytes()

	b, err := NewBlob(raw, TagHeaderImmutable)
	require.NoError(t, err)
	require.NoError(t, b.Locate(true))
	require.NoError(t, b.Verify())

	h2, err := NewHeaderFromBlob(b)
	require.NoError(t, err)
	assert.True(t, h2.HasRegion())

	for _, p := range h.Entries() {
		if p.Tag == TagHeaderImmutable {
			continue // trailer bytes are synthesized fresh on each serialization
		}
		v, ok := h2.Get(p.Tag)
		require.True(t, ok, "tag %d survives the round trip", p.Tag)
		assert.Equal(t, p.Val.Type, v.Type)
		assert.Equal(t, p.Val.Count, v.Count)
		assert.Equal(t, p.Val.Data, v.Data)
	}

	// Serializing the reconstructed header reproduces the wire bytes.
	assert.Equal(t, raw, h2.Bytes())
}

func TestBytesAlignsFixedTypes(t *testing.T) {
	h := New()
	h.Put(1000, Value{Type: TypeString, Count: 1, Data: []byte("abc\x00")}) // 4 bytes, leaves offset 4
	h.Put(1003, Value{Type: TypeInt64, Count: 1, Data: make([]byte, 8)})
	h.Put(1005, Value{Type: TypeString, Count: 1, Data: []byte("z\x00")})
	h.Put(1006, Value{Type: TypeInt32, Count: 1, Data: make([]byte, 4)})

	raw := h.Bytes()

	b, err := NewBlob(raw, TagHeaderImmutable)
	require.NoError(t, err)
	require.NoError(t, b.Verify(), "serialized offsets must satisfy alignment checks")

	for _, e := range b.Entries() {
		assert.Zero(t, int(e.Offset)%typeAlign(e.Type), "tag %d type %d offset %d", e.Tag, e.Type, e.Offset)
	}
}
