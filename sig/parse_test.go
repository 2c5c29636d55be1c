package sig

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kslabs/pkgreader/errs"
	"github.com/kslabs/pkgreader/header"
)

func withOldFraming(body []byte) []byte {
	// Old format, packet tag 2 (signature), 2-octet length.
	out := []byte{0x89, byte(len(body) >> 8), byte(len(body))}

	return append(out, body...)
}

func pgpV3(keyAlgo KeyAlgo, hashAlgo HashAlgo, signer, mpis []byte) []byte {
	body := []byte{3, 5, 0x00}
	body = append(body, 0, 0, 0, 0) // creation time
	body = append(body, signer...)
	body = append(body, byte(keyAlgo), byte(hashAlgo))
	body = append(body, 0xaa, 0xbb) // left16
	body = append(body, mpis...)

	return withOldFraming(body)
}

func pgpV4(keyAlgo KeyAlgo, hashAlgo HashAlgo, signer, mpis []byte) []byte {
	body := []byte{4, 0x00, byte(keyAlgo), byte(hashAlgo)}
	body = append(body, 0, 0)  // hashed subpackets: none
	body = append(body, 0, 10) // unhashed subpackets: one issuer
	body = append(body, 9, 16) // length 9, type issuer
	body = append(body, signer...)
	body = append(body, 0xaa, 0xbb) // left16
	body = append(body, mpis...)

	return withOldFraming(body)
}

func binValue(data []byte) header.Value {
	return header.Value{Type: header.TypeBin, Count: uint32(len(data)), Data: data} //nolint: gosec
}

var testSigner = []byte{0x01, 0x02, 0x03, 0x04, 0xde, 0xad, 0xbe, 0xef}

func TestParseV3Signature(t *testing.T) {
	pkt := pgpV3(KeyAlgoRSA, HashSHA256, testSigner, []byte{9, 9, 9, 9})

	info, err := ParseSigInfo(header.TagRSAHeader, binValue(pkt), "header")
	require.NoError(t, err)

	assert.Equal(t, KindSignature, info.Kind)
	assert.Equal(t, KeyAlgoRSA, info.KeyAlgo)
	assert.Equal(t, HashSHA256, info.HashAlgo)
	assert.Equal(t, testSigner, info.SignerID)
	assert.Equal(t, []byte{9, 9, 9, 9}, info.Signature)
	assert.Equal(t, uint32(0xdeadbeef), info.KeyID())
}

func TestParseV4Signature(t *testing.T) {
	pkt := pgpV4(KeyAlgoDSA, HashSHA1, testSigner, []byte{7, 7})

	info, err := ParseSigInfo(header.TagDSAHeader, binValue(pkt), "package")
	require.NoError(t, err)

	assert.Equal(t, KeyAlgoDSA, info.KeyAlgo)
	assert.Equal(t, HashSHA1, info.HashAlgo)
	assert.Equal(t, testSigner, info.SignerID)
	assert.Equal(t, []byte{7, 7}, info.Signature)
}

func TestParseNewFormatFraming(t *testing.T) {
	body := []byte{3, 5, 0x00}
	body = append(body, 0, 0, 0, 0)
	body = append(body, testSigner...)
	body = append(body, byte(KeyAlgoRSA), byte(HashSHA256))
	body = append(body, 0xaa, 0xbb)
	body = append(body, 1, 2, 3)

	pkt := append([]byte{0xc2, byte(len(body))}, body...) // new format, tag 2

	info, err := ParseSigInfo(header.TagRSAHeader, binValue(pkt), "header")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, info.Signature)
}

func TestParseSHA1Digest(t *testing.T) {
	digest := "0123456789abcdef0123456789abcdef01234567"

	info, err := ParseSigInfo(header.TagSHA1Header,
		header.Value{Type: header.TypeString, Count: 1, Data: append([]byte(digest), 0)}, "header")
	require.NoError(t, err)

	assert.Equal(t, KindDigest, info.Kind)
	assert.Equal(t, HashSHA1, info.HashAlgo)

	want, _ := hex.DecodeString(digest)
	assert.Equal(t, want, info.Digest)
	assert.Equal(t, uint32(0), info.KeyID(), "digests carry no signer")
}

func TestParseMD5Digest(t *testing.T) {
	raw := make([]byte, 16)

	info, err := ParseSigInfo(header.SigTagMD5, header.Value{Type: header.TypeBin, Count: 16, Data: raw}, "package")
	require.NoError(t, err)
	assert.Equal(t, HashMD5, info.HashAlgo)
}

func TestParseRejects(t *testing.T) {
	valid := pgpV3(KeyAlgoRSA, HashSHA256, testSigner, []byte{1})

	tests := []struct {
		name string
		tag  Tag
		v    header.Value
	}{
		{"unexpected tag", 4242, binValue(valid)},
		{"bad digest hex", header.TagSHA1Header,
			header.Value{Type: header.TypeString, Count: 1, Data: append([]byte("zz"), 0)}},
		{"digest wrong type", header.TagSHA1Header, binValue([]byte("0123"))},
		{"signature wrong type", header.TagRSAHeader,
			header.Value{Type: header.TypeString, Count: 1, Data: append([]byte("sig"), 0)}},
		{"truncated packet", header.TagRSAHeader, binValue(valid[:6])},
		{"bad framing bit", header.TagRSAHeader, binValue(append([]byte{0x09, 0x01}, valid[3:]...))},
		{"not a signature packet", header.TagRSAHeader, binValue(append([]byte{0x99}, valid[1:]...))},
		{"unsupported version", header.TagRSAHeader,
			binValue(withOldFraming([]byte{5, 0, 0, 0, 0, 0}))},
		{"key algorithm mismatch", header.TagRSAHeader,
			binValue(pgpV3(KeyAlgoDSA, HashSHA1, testSigner, []byte{1}))},
		{"empty signature material", header.TagRSAHeader,
			binValue(pgpV3(KeyAlgoRSA, HashSHA256, testSigner, nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSigInfo(tt.tag, tt.v, "header")
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrBadSignaturePacket)
		})
	}
}

func TestKeyIDShortSigner(t *testing.T) {
	info := Info{SignerID: []byte{1, 2, 3}}
	assert.Equal(t, uint32(0), info.KeyID())
}
