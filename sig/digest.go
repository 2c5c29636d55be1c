package sig

import (
	"crypto/md5"  //nolint: gosec
	"crypto/sha1" //nolint: gosec
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/kslabs/pkgreader/errs"
	"github.com/kslabs/pkgreader/header"
)

// New returns a fresh digest context for the algorithm. MD5 and SHA1 stay
// available because legacy signed packages use them; policy decisions about
// whether to trust them belong to the caller, not the hash registry.
func (a HashAlgo) New() (hash.Hash, error) {
	switch a {
	case HashMD5:
		return md5.New(), nil //nolint: gosec
	case HashSHA1:
		return sha1.New(), nil //nolint: gosec
	case HashSHA256:
		return sha256.New(), nil
	case HashSHA384:
		return sha512.New384(), nil
	case HashSHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownHashAlgo, a)
	}
}

func (a HashAlgo) String() string {
	switch a {
	case HashMD5:
		return "MD5"
	case HashSHA1:
		return "SHA1"
	case HashSHA256:
		return "SHA256"
	case HashSHA384:
		return "SHA384"
	case HashSHA512:
		return "SHA512"
	default:
		return fmt.Sprintf("hash(%d)", uint8(a))
	}
}

// HeaderOnlyDigest computes the canonical digest a header-only signature or
// digest tag covers: magic, the region's entry and data counts in network
// byte order, the region's raw entry index, and the region's raw data.
// Feeding these in any other order or form breaks bit-compatibility with
// existing signed packages.
func HeaderOnlyDigest(a HashAlgo, b *header.Blob) (hash.Hash, error) {
	ctx, err := a.New()
	if err != nil {
		return nil, err
	}

	var ildl [8]byte
	binary.BigEndian.PutUint32(ildl[0:4], uint32(b.RIL())) //nolint: gosec
	binary.BigEndian.PutUint32(ildl[4:8], uint32(b.RDL())) //nolint: gosec

	ctx.Write(header.HeaderMagic[:])
	ctx.Write(ildl[:])
	ctx.Write(b.RegionEntryIndexBytes())
	ctx.Write(b.RegionDataBytes())

	return ctx, nil
}

// PackageDigest computes the canonical digest a package-level signature
// covers: magic followed by the metadata header's immutable-region blob
// (counts, entry index, data).
func PackageDigest(a HashAlgo, regionBlob []byte) (hash.Hash, error) {
	ctx, err := a.New()
	if err != nil {
		return nil, err
	}

	ctx.Write(header.HeaderMagic[:])
	ctx.Write(regionBlob)

	return ctx, nil
}
