// Package pkgreader ingests a binary package file and produces a verified,
// canonicalized metadata header.
//
// A package file carries a fixed-size lead, a signature header, a metadata
// header, and a payload this package never touches. Reading one means:
//
//  1. Parse the lead (binary vs source discriminant; "not a package" for
//     text manifests).
//  2. Read and structurally validate the signature header.
//  3. Select the strongest enabled package-level signature/digest tag.
//  4. Read the metadata header, validate its immutable region and entry
//     index, and evaluate any header-only digest/signature appended past
//     the region.
//  5. Verify the selected package-level tag over the canonical region
//     bytes.
//  6. Upgrade legacy header encodings and merge legacy signature tags
//     into the metadata header.
//
// The cryptographic verification primitive and the keyring are external
// collaborators: wire them in with WithVerifier and WithKeyring. Without
// them the built-in digest-only verifier still checks plain digest tags
// and reports VerdictNoKey for real signatures.
//
// Quick start:
//
//	r := pkgreader.NewReader(
//	    pkgreader.WithKeyring(keyring),
//	    pkgreader.WithPolicy(sig.NewPolicy(sig.WithDisableSHA1())),
//	)
//	res := r.Read(f)
//	disp := pkgreader.NewMapper(keystash.New()).Map(res)
//	if !disp.OK {
//	    return fmt.Errorf("read %s: %s", name, disp.Message)
//	}
package pkgreader

import (
	"github.com/kslabs/pkgreader/header"
	"github.com/kslabs/pkgreader/sig"
)

// Header is the canonicalized metadata header returned by a successful
// read.
type Header = header.Header

// Verdict is the outcome of a read or verification attempt.
type Verdict = sig.Verdict

// Verdict values, re-exported for callers that never import sig directly.
const (
	VerdictOk         = sig.VerdictOk
	VerdictNoKey      = sig.VerdictNoKey
	VerdictNotTrusted = sig.VerdictNotTrusted
	VerdictNotFound   = sig.VerdictNotFound
	VerdictFail       = sig.VerdictFail
)
