package sig

import (
	"crypto/sha1" //nolint: gosec
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kslabs/pkgreader/errs"
	"github.com/kslabs/pkgreader/header"
)

func TestHashAlgoNew(t *testing.T) {
	sizes := map[HashAlgo]int{
		HashMD5:    16,
		HashSHA1:   20,
		HashSHA256: 32,
		HashSHA384: 48,
		HashSHA512: 64,
	}

	for algo, size := range sizes {
		h, err := algo.New()
		require.NoError(t, err, algo)
		assert.Equal(t, size, h.Size(), algo)
	}

	_, err := HashUnknown.New()
	assert.ErrorIs(t, err, errs.ErrUnknownHashAlgo)
}

func TestHeaderOnlyDigestCanonicalOrder(t *testing.T) {
	b := trailingBlob(t, header.TagSHA1Header)

	ctx, err := HeaderOnlyDigest(HashSHA1, b)
	require.NoError(t, err)

	// Recompute by hand: magic, network-order counts, region index bytes,
	// region data bytes.
	manual := sha1.New() //nolint: gosec
	manual.Write(header.HeaderMagic[:])

	var ildl [8]byte
	binary.BigEndian.PutUint32(ildl[0:4], uint32(b.RIL())) //nolint: gosec
	binary.BigEndian.PutUint32(ildl[4:8], uint32(b.RDL())) //nolint: gosec
	manual.Write(ildl[:])
	manual.Write(b.RegionEntryIndexBytes())
	manual.Write(b.RegionDataBytes())

	assert.Equal(t, manual.Sum(nil), ctx.Sum(nil))
}

func TestPackageDigestPrefixesMagic(t *testing.T) {
	region := []byte{1, 2, 3, 4}

	ctx, err := PackageDigest(HashSHA1, region)
	require.NoError(t, err)

	manual := sha1.New() //nolint: gosec
	manual.Write(header.HeaderMagic[:])
	manual.Write(region)

	assert.Equal(t, manual.Sum(nil), ctx.Sum(nil))
}

func TestDigestUnknownAlgoPropagates(t *testing.T) {
	b := trailingBlob(t, header.TagSHA1Header)

	_, err := HeaderOnlyDigest(HashUnknown, b)
	assert.ErrorIs(t, err, errs.ErrUnknownHashAlgo)

	_, err = PackageDigest(HashAlgo(99), nil)
	assert.ErrorIs(t, err, errs.ErrUnknownHashAlgo)
}
