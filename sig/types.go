// Package sig selects, parses, and verifies the digest/signature tags
// carried by a package's signature header and the header-only tags
// appended to a metadata header's trailing index. It treats the actual
// RSA/DSA/ed25519 cryptographic primitive as an external collaborator
// (Verifier) -- this package's job is tag selection, packet parsing, and
// feeding the canonicalized digest, not implementing the math.
package sig

// Tag identifies a signature/digest tag by its wire-format number. The
// same numeric tags are used whether the entry lives in the signature
// header (a package-level signature covering the whole metadata header's
// immutable region) or, appended past a metadata header's own region, as
// a header-only signature covering just that region.
type Tag = uint32

// Kind distinguishes a plain digest tag from a full signature tag.
type Kind uint8

const (
	KindDigest Kind = iota
	KindSignature
)

// HashAlgo identifies the hash algorithm a signature or digest tag uses,
// numbered the same way OpenPGP packet headers do (RFC 4880 §9.4) since
// that's the wire encoding the header signature payload itself uses.
type HashAlgo uint8

const (
	HashUnknown HashAlgo = 0
	HashMD5     HashAlgo = 1
	HashSHA1    HashAlgo = 2
	HashSHA256  HashAlgo = 8
	HashSHA384  HashAlgo = 9
	HashSHA512  HashAlgo = 10
)

// KeyAlgo identifies the public-key algorithm a signature tag uses,
// numbered per OpenPGP (RFC 4880 §9.1).
type KeyAlgo uint8

const (
	KeyAlgoUnknown KeyAlgo = 0
	KeyAlgoRSA     KeyAlgo = 1
	KeyAlgoDSA     KeyAlgo = 17
	KeyAlgoEd25519 KeyAlgo = 22
)

// Info is the parsed descriptor of a signature tag's payload: enough to
// pick a hash algorithm, drive the verification primitive, and (for
// signatures) report the signer's key id.
type Info struct {
	Kind     Kind
	HashAlgo HashAlgo
	KeyAlgo  KeyAlgo
	// SignerID is the raw 8-byte signer-id field from the signature
	// packet; nil for digests and for v4 packets without an issuer
	// subpacket. KeyID extracts [4:8) of it.
	SignerID []byte
	// Signature is the raw signature-blob bytes (MPI-encoded in real
	// OpenPGP, opaque to this package), present only for KindSignature.
	Signature []byte
	// Digest is the expected digest value carried by a KindDigest tag,
	// decoded to raw bytes.
	Digest []byte
}

// KeyID returns the big-endian 32-bit key id, bytes [4:8) of SignerID,
// or 0 if SignerID is too short.
func (i Info) KeyID() uint32 {
	if len(i.SignerID) < 8 {
		return 0
	}

	return uint32(i.SignerID[4])<<24 | uint32(i.SignerID[5])<<16 | uint32(i.SignerID[6])<<8 | uint32(i.SignerID[7])
}

// Verdict is the outcome of a verification attempt.
type Verdict uint8

const (
	VerdictOk Verdict = iota
	VerdictNoKey
	VerdictNotTrusted
	VerdictNotFound
	VerdictFail
)

func (v Verdict) String() string {
	switch v {
	case VerdictOk:
		return "OK"
	case VerdictNoKey:
		return "NOKEY"
	case VerdictNotTrusted:
		return "NOTTRUSTED"
	case VerdictNotFound:
		return "NOTFOUND"
	default:
		return "FAIL"
	}
}
