package sig

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"hash"
)

// Keyring is the opaque key-store handle threaded through to the Verifier.
// The core never inspects it; key management belongs to the embedding
// application.
type Keyring interface{}

// Verifier is the verification primitive: given the keyring, a parsed
// signature descriptor, and a digest context already fed with the
// canonical bytes the tag covers, it returns a verdict and a diagnostic
// message. Implementations supply the actual RSA/DSA math.
type Verifier interface {
	Verify(keyring Keyring, info *Info, digest hash.Hash) (Verdict, string)
}

// DigestVerifier is the built-in Verifier used when no cryptographic
// collaborator is wired in. Plain digest tags need no keys, so it checks
// those fully; for real signatures it reports VerdictNoKey, leaving the
// header usable and the policy decision to the caller.
type DigestVerifier struct{}

var _ Verifier = DigestVerifier{}

func (DigestVerifier) Verify(_ Keyring, info *Info, digest hash.Hash) (Verdict, string) {
	switch info.Kind {
	case KindDigest:
		got := digest.Sum(nil)
		if !bytes.Equal(got, info.Digest) {
			return VerdictFail, fmt.Sprintf("%s digest: BAD Expected(%s) != (%s)",
				info.HashAlgo, hex.EncodeToString(info.Digest), hex.EncodeToString(got))
		}

		return VerdictOk, fmt.Sprintf("%s digest: OK", info.HashAlgo)
	case KindSignature:
		return VerdictNoKey, fmt.Sprintf("key ID %08x: no verifier for %s signature",
			info.KeyID(), info.HashAlgo)
	default:
		return VerdictFail, "unknown signature descriptor kind"
	}
}
