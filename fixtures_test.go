package pkgreader

import (
	"bytes"
	"crypto/sha1" //nolint: gosec
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kslabs/pkgreader/header"
	"github.com/kslabs/pkgreader/lead"
	"github.com/kslabs/pkgreader/sig"
)

// leadBytes builds a well-formed 96-byte lead of the given type.
func leadBytes(typ lead.Type) []byte {
	buf := make([]byte, lead.Size)
	copy(buf, lead.Magic[:])
	buf[4] = 3
	binary.BigEndian.PutUint16(buf[6:8], uint16(int16(typ))) //nolint: gosec
	copy(buf[10:], "fixture-1.0-1")

	return buf
}

// metaFixture builds a region-sealed metadata header with a few plausible
// tags. extra mutates the header before sealing.
func metaFixture(extra func(*header.Header)) []byte {
	h := header.New()
	h.Put(1000, header.Value{Type: header.TypeString, Count: 1, Data: []byte("fixture\x00")})
	h.Put(1001, header.Value{Type: header.TypeString, Count: 1, Data: []byte("1.0\x00")})
	h.Put(1002, header.Value{Type: header.TypeString, Count: 1, Data: []byte("1\x00")})
	if extra != nil {
		extra(h)
	}
	h.SealRegion(header.TagHeaderImmutable)

	return h.Bytes()
}

// v3MetaFixture builds a legacy metadata header with no immutable region.
func v3MetaFixture() []byte {
	h := header.New()
	h.Put(1000, header.Value{Type: header.TypeString, Count: 1, Data: []byte("ancient\x00")})
	h.Put(1001, header.Value{Type: header.TypeString, Count: 1, Data: []byte("0.1\x00")})

	return h.Bytes()
}

// sha1PackageDigest computes the package-level SHA1 digest covering meta's
// immutable region (which spans the whole sealed header).
func sha1PackageDigest(meta []byte) string {
	ctx := sha1.New() //nolint: gosec
	ctx.Write(header.HeaderMagic[:])
	ctx.Write(meta)

	return hex.EncodeToString(ctx.Sum(nil))
}

// sigFixture builds a signature header from tag/value pairs. Signature
// headers in the wild are regionless more often than not; so are these.
// When put is nil the header still carries a size tag, since a signature
// header with no tags at all is itself malformed.
func sigFixture(put func(*header.Header)) []byte {
	h := header.New()
	if put == nil {
		put = func(h *header.Header) {
			h.Put(header.SigTagSize, header.Value{Type: header.TypeInt32, Count: 1, Data: []byte{0, 0, 0x10, 0}})
		}
	}
	put(h)

	return h.Bytes()
}

// assemble splices lead, signature header, alignment padding, metadata
// header, and trailing payload bytes into one package file image.
func assemble(leadBuf, sigh, meta []byte) []byte {
	var buf bytes.Buffer
	buf.Write(leadBuf)
	buf.Write(header.HeaderMagic[:])
	buf.Write(sigh)

	dl := int(binary.BigEndian.Uint32(sigh[4:8]))
	buf.Write(make([]byte, sigPadding(dl)))

	buf.Write(header.HeaderMagic[:])
	buf.Write(meta)
	buf.WriteString("payload bytes the reader never touches")

	return buf.Bytes()
}

// sha1SignedPackage builds a complete package image whose signature header
// carries a valid package-level SHA1 digest over the metadata region.
func sha1SignedPackage(t *testing.T, extra func(*header.Header)) []byte {
	t.Helper()

	meta := metaFixture(extra)
	digest := sha1PackageDigest(meta)
	sigh := sigFixture(func(h *header.Header) {
		h.Put(header.SigTagSHA1, header.Value{Type: header.TypeString, Count: 1, Data: append([]byte(digest), 0)})
		h.Put(header.SigTagSize, header.Value{Type: header.TypeInt32, Count: 1, Data: []byte{0, 0, 0x10, 0}})
	})

	return assemble(leadBytes(lead.TypeBinary), sigh, meta)
}

// pgpV3RSA builds a v3 OpenPGP RSA signature packet with the given signer
// id and opaque signature material.
func pgpV3RSA(signer, mpis []byte) []byte {
	body := []byte{3, 5, 0x00}
	body = append(body, 0, 0, 0, 0)
	body = append(body, signer...)
	body = append(body, byte(sig.KeyAlgoRSA), byte(sig.HashSHA256))
	body = append(body, 0xaa, 0xbb)
	body = append(body, mpis...)

	out := []byte{0x89, byte(len(body) >> 8), byte(len(body))}

	return append(out, body...)
}

// appendTrailingSHA1 appends a header-only SHA1 digest tag past raw's
// immutable region, the way an on-disk header store accumulates dribbles.
// corrupt flips one digest character after computing it.
func appendTrailingSHA1(t *testing.T, raw []byte, corrupt bool) []byte {
	t.Helper()

	il := int(binary.BigEndian.Uint32(raw[0:4]))
	dl := int(binary.BigEndian.Uint32(raw[4:8]))
	index := raw[8 : 8+header.EntrySize*il]
	data := raw[8+header.EntrySize*il:]
	require.Len(t, data, dl)

	ctx := sha1.New() //nolint: gosec
	ctx.Write(header.HeaderMagic[:])
	var ildl [8]byte
	binary.BigEndian.PutUint32(ildl[0:4], uint32(il)) //nolint: gosec
	binary.BigEndian.PutUint32(ildl[4:8], uint32(dl)) //nolint: gosec
	ctx.Write(ildl[:])
	ctx.Write(index)
	ctx.Write(data)

	digest := []byte(hex.EncodeToString(ctx.Sum(nil)))
	if corrupt {
		if digest[0] == '0' {
			digest[0] = '1'
		} else {
			digest[0] = '0'
		}
	}

	entry := make([]byte, header.EntrySize)
	binary.BigEndian.PutUint32(entry[0:4], header.TagSHA1Header)
	binary.BigEndian.PutUint32(entry[4:8], header.TypeString)
	binary.BigEndian.PutUint32(entry[8:12], uint32(dl)) //nolint: gosec
	binary.BigEndian.PutUint32(entry[12:16], 1)

	out := make([]byte, 8, len(raw)+header.EntrySize+len(digest)+1)
	binary.BigEndian.PutUint32(out[0:4], uint32(il+1))             //nolint: gosec
	binary.BigEndian.PutUint32(out[4:8], uint32(dl+len(digest)+1)) //nolint: gosec
	out = append(out, index...)
	out = append(out, entry...)
	out = append(out, data...)
	out = append(out, digest...)
	out = append(out, 0)

	return out
}
