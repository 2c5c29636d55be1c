package sig

import (
	"github.com/kslabs/pkgreader/header"
)

// Result is the outcome of evaluating one digest/signature tag: the
// verdict, a human-readable diagnostic, and the parsed descriptor (nil
// when no tag was evaluated).
type Result struct {
	Verdict Verdict
	Message string
	Info    *Info
}

// HeaderVerifier evaluates the header-only digest/signature a metadata
// header carries past its immutable region. Construct one per read; the
// zero value is not usable.
type HeaderVerifier struct {
	Keyring  Keyring
	Policy   *Policy
	Verifier Verifier
	Parse    InfoParser
}

// NewHeaderVerifier wires a HeaderVerifier with the default parser and,
// when verifier is nil, the built-in digest-only verifier.
func NewHeaderVerifier(keyring Keyring, policy *Policy, verifier Verifier) *HeaderVerifier {
	if verifier == nil {
		verifier = DigestVerifier{}
	}
	if policy == nil {
		policy = NewPolicy()
	}

	return &HeaderVerifier{
		Keyring:  keyring,
		Policy:   policy,
		Verifier: verifier,
		Parse:    ParseSigInfo,
	}
}

// Verify scans the blob's trailing entries for the strongest enabled
// header-only tag and evaluates it against the canonical region digest.
//
// VerdictNotFound means no enabled candidate exists; the caller accepts
// the blob's structural validity as sufficient.
func (hv *HeaderVerifier) Verify(b *header.Blob) Result {
	e, ok := SelectHeaderOnly(b, hv.Policy)
	if !ok {
		return Result{Verdict: VerdictNotFound}
	}

	v, err := entryValue(b, e)
	if err != nil {
		return Result{Verdict: VerdictFail, Message: err.Error()}
	}

	info, err := hv.Parse(e.Tag, v, "header")
	if err != nil {
		return Result{Verdict: VerdictFail, Message: err.Error()}
	}

	ctx, err := HeaderOnlyDigest(info.HashAlgo, b)
	if err != nil {
		return Result{Verdict: VerdictFail, Message: err.Error(), Info: info}
	}

	verdict, msg := hv.Verifier.Verify(hv.Keyring, info, ctx)

	return Result{Verdict: verdict, Message: msg, Info: info}
}

// entryValue extracts one trailing entry's payload from the blob's data
// segment. The blob has already passed structural verification, so the
// payload range is known to be in bounds.
func entryValue(b *header.Blob, e header.Entry) (header.Value, error) {
	size, err := header.EntryPayloadSize(e, b.DataStart())
	if err != nil {
		return header.Value{}, err
	}

	data := make([]byte, size)
	copy(data, b.DataStart()[int(e.Offset):int(e.Offset)+size])

	return header.Value{Type: e.Type, Count: e.Count, Data: data}, nil
}
