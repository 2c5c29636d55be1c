package header

// Type codes for entry values, fixed per-element size except String, Bin,
// StringArray and I18NString which are variable-length.
const (
	TypeNull        uint32 = 0
	TypeChar        uint32 = 1
	TypeInt8        uint32 = 2
	TypeInt16       uint32 = 3
	TypeInt32       uint32 = 4
	TypeInt64       uint32 = 5
	TypeString      uint32 = 6
	TypeBin         uint32 = 7
	TypeStringArray uint32 = 8
	TypeI18NString  uint32 = 9
)

// typeSize returns the fixed per-element size for typ, or 0 for variable
// length types (String, Bin, StringArray, I18NString) where size must be
// derived from the data itself.
func typeSize(typ uint32) (size int, fixed bool) {
	switch typ {
	case TypeNull:
		return 0, true
	case TypeChar, TypeInt8:
		return 1, true
	case TypeInt16:
		return 2, true
	case TypeInt32:
		return 4, true
	case TypeInt64:
		return 8, true
	default:
		return 0, false
	}
}

// EntrySize is the on-disk size of one entry-index record: tag, type,
// offset, count, each a 4-byte big-endian word.
const EntrySize = 16

// Limits on the entry count and data size of a single header blob.
const (
	ILMax = 0x10000         // ~2^16 entries
	DLMax = 256 * 1024 * 1024 // 256 MiB
)

// HeaderMagic is the fixed 8-byte constant prefixing both the signature
// header and the metadata header on disk, and fed as the first bytes of
// every canonical digest computed over a header's immutable region.
var HeaderMagic = [8]byte{0x8e, 0xad, 0xe8, 0x01, 0x00, 0x00, 0x00, 0x00}

// Region tags. HEADERIMMUTABLE delimits the metadata header's signed
// region; HEADERSIGNATURES plays the analogous role inside the signature
// header (when the signature header itself carries a region).
const (
	TagHeaderImage      uint32 = 61
	TagHeaderSignatures uint32 = 62
	TagHeaderImmutable  uint32 = 63
	TagHeaderRegions    uint32 = 64
)

// Legacy / modern metadata tags touched by the v3 and compressed-filelist
// retrofits, and by the source-package disambiguation retrofit.
const (
	TagOldFilenames  uint32 = 1027
	TagFilenames     uint32 = 5000
	TagDirnames      uint32 = 5006
	TagDirIndexes    uint32 = 5008
	TagBaseNames     uint32 = 5009
	TagSourcePackage uint32 = 1106
	TagSourceRPM     uint32 = 1044 // absent on source packages; "(none)" marks a binary header lacking it
)

// Signature-header tags, legacy numbering (left of the arrow) and their
// modern metadata-header counterparts (right of the arrow). Package-level
// digest/signature tags (DSA/RSA/SHA1) keep the same numeric value whether
// they appear in the signature header or, appended outside the region, as
// header-only tags in the metadata header -- the two namespaces never
// collide because a given header blob only ever carries one or the other.
const (
	SigBase uint32 = 256
	TagBase uint32 = 1000

	SigTagSize        uint32 = 1000
	SigTagDSA         uint32 = 267
	SigTagRSA         uint32 = 268
	SigTagSHA1        uint32 = 269
	SigTagPGP         uint32 = 1002
	SigTagMD5         uint32 = 1004
	SigTagGPG         uint32 = 1005
	SigTagPGP5        uint32 = 1006
	SigTagPayloadSize uint32 = 1007

	TagSigSize     uint32 = 257
	TagSigPGP      uint32 = 259
	TagSigMD5      uint32 = 261
	TagSigGPG      uint32 = 262
	TagSigPGP5     uint32 = 263
	TagArchiveSize uint32 = 1046

	// Header-only digest/signature tags appended past a metadata header's
	// immutable region. Numerically identical to the SigTagDSA/RSA/SHA1
	// signature-header tags.
	TagDSAHeader  uint32 = 267
	TagRSAHeader  uint32 = 268
	TagSHA1Header uint32 = 269
)

// legacyTagRemap maps legacy signature tags to their modern metadata-header
// equivalent. Entries not present here but inside [SigBase, TagBase) are
// kept as-is by MergeLegacySigs; entries outside that range are discarded.
var legacyTagRemap = map[uint32]uint32{
	SigTagSize:        TagSigSize,
	SigTagPGP:         TagSigPGP,
	SigTagMD5:         TagSigMD5,
	SigTagGPG:         TagSigGPG,
	SigTagPGP5:        TagSigPGP5,
	SigTagPayloadSize: TagArchiveSize,
}
