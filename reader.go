package pkgreader

import (
	"errors"
	"io"

	"github.com/kslabs/pkgreader/errs"
	"github.com/kslabs/pkgreader/header"
	"github.com/kslabs/pkgreader/internal/options"
	"github.com/kslabs/pkgreader/internal/pool"
	"github.com/kslabs/pkgreader/lead"
	"github.com/kslabs/pkgreader/sig"
)

// Result is what one read of a package file produces: the overall verdict,
// the canonicalized metadata header (present when the verdict is Ok, NoKey
// or NotTrusted), the signer key id (0 when no signature was evaluated),
// and a diagnostic message.
type Result struct {
	Verdict sig.Verdict
	Header  *header.Header
	KeyID   uint32
	Message string
}

// Reader reads package files. A Reader is immutable after construction and
// safe for concurrent use; each Read call owns its entire call stack, the
// only shared state being whatever stash the disposition mapper carries.
type Reader struct {
	keyring  sig.Keyring
	policy   *sig.Policy
	verifier sig.Verifier
	parse    sig.InfoParser
}

// Option configures a Reader.
type Option = options.Option[*Reader]

// WithKeyring supplies the opaque key-store handle passed through to the
// verification primitive.
func WithKeyring(k sig.Keyring) Option {
	return options.NoError[*Reader](func(r *Reader) { r.keyring = k })
}

// WithPolicy supplies the signature-selection policy (disable flags).
func WithPolicy(p *sig.Policy) Option {
	return options.NoError[*Reader](func(r *Reader) { r.policy = p })
}

// WithVerifier wires in the cryptographic verification primitive. Without
// it the built-in digest-only verifier is used.
func WithVerifier(v sig.Verifier) Option {
	return options.NoError[*Reader](func(r *Reader) { r.verifier = v })
}

// WithInfoParser overrides the signature-descriptor parser. Intended for
// embedding applications with their own packet decoder.
func WithInfoParser(p sig.InfoParser) Option {
	return options.NoError[*Reader](func(r *Reader) { r.parse = p })
}

// NewReader builds a Reader with an allow-everything policy and the
// digest-only verifier, then applies opts.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		policy:   sig.NewPolicy(),
		verifier: sig.DigestVerifier{},
		parse:    sig.ParseSigInfo,
	}
	_ = options.Apply(r, opts...)

	return r
}

// Read ingests one package file from f: lead, signature header, metadata
// header, digest/signature selection and verification, legacy conversion,
// and legacy signature-tag merge.
//
// The returned header is canonicalized: legacy v3 headers gain an
// immutable region, compressed file lists are split, and the surviving
// signature-header tags are remapped and merged in.
func (r *Reader) Read(f io.Reader) Result {
	leadType, err := lead.Read(f)
	if err != nil {
		if errors.Is(err, errs.ErrNotAPackage) {
			// Avoid message spew on manifests.
			return Result{Verdict: sig.VerdictNotFound}
		}

		return Result{Verdict: sig.VerdictFail, Message: err.Error()}
	}

	sigh, err := r.readSigHeader(f)
	if err != nil {
		return Result{Verdict: sig.VerdictFail, Message: err.Error()}
	}

	// Figure the most effective means of verification available before the
	// metadata is read. Signatures are preferred over digests; legacy
	// header+payload entries are not used.
	sigtag := sig.SelectPackageTag(sigh, r.policy)

	buf := pool.GetRegionBuffer()
	defer pool.PutRegionBuffer(buf)

	blob, err := readBlobInto(f, "hdr", header.TagHeaderImmutable, buf)
	if err != nil {
		return Result{Verdict: sig.VerdictFail, Message: err.Error()}
	}

	res := r.verifyBlob(blob, true)
	if res.Verdict == sig.VerdictFail {
		return res
	}

	h, err := header.NewHeaderFromBlob(blob)
	if err != nil {
		return Result{Verdict: sig.VerdictFail, Message: "hdr load: BAD"}
	}
	res.Header = h

	if sigtag != 0 {
		// Drop any previous "ok" message before the package-level check;
		// its outcome replaces the sanity-check result.
		res = r.verifyPackage(sigh, sigtag, blob, h)
	}

	if res.Verdict != sig.VerdictFail {
		r.canonicalize(res.Header, leadType)
		header.MergeLegacySigs(res.Header, sigh)
	} else {
		res.Header = nil
	}

	return res
}

// verifyPackage evaluates the selected package-level tag from the
// signature header against the metadata header's immutable region.
func (r *Reader) verifyPackage(sigh *header.Header, sigtag sig.Tag, blob *header.Blob, h *header.Header) Result {
	v, ok := sigh.Get(sigtag)
	if !ok {
		return Result{Verdict: sig.VerdictFail, Message: "sig tag retrieval: BAD", Header: h}
	}

	info, err := r.parse(sigtag, v, "package")
	if err != nil {
		return Result{Verdict: sig.VerdictFail, Message: err.Error(), Header: h}
	}

	ctx, err := sig.PackageDigest(info.HashAlgo, blob.ImmutableRegionBlob())
	if err != nil {
		return Result{Verdict: sig.VerdictFail, Message: err.Error(), Header: h}
	}

	verdict, msg := r.verifier.Verify(r.keyring, info, ctx)

	return Result{Verdict: verdict, Message: msg, Header: h, KeyID: info.KeyID()}
}

// canonicalize applies the legacy retrofits to a header that survived
// verification.
func (r *Reader) canonicalize(h *header.Header, leadType lead.Type) {
	// Retrofit the source-package marker to srpms for compatibility.
	if leadType == lead.TypeSource && h.IsSourcePackage() {
		if !h.IsEntry(header.TagSourcePackage) {
			h.PutUint32(header.TagSourcePackage, 1)
		}
	}

	// Make sure binary headers can be told apart downstream even when the
	// marker is missing.
	if !h.IsEntry(header.TagSourcePackage) && h.IsSourcePackage() {
		h.PutString(header.TagSourceRPM, "(none)")
	}

	// Convert legacy headers on the fly. No immutable region means a truly
	// ancient header, do the full retrofit; otherwise only the flat file
	// list may need splitting. Both transforms are best-effort, like the
	// conversions they replace.
	if !h.IsEntry(header.TagHeaderImmutable) {
		_ = h.ConvertRetrofitV3()
	} else if h.IsEntry(header.TagOldFilenames) {
		_ = h.ConvertCompressedFileList()
	}
}

// readSigHeader reads and validates the signature header, including the
// alignment padding that follows it. The blob's backing buffer is pooled;
// the returned Header owns copies of everything it keeps.
func (r *Reader) readSigHeader(f io.Reader) (*header.Header, error) {
	buf := pool.GetSigHeaderBuffer()
	defer pool.PutSigHeaderBuffer(buf)

	blob, err := readBlobInto(f, "sigh", header.TagHeaderSignatures, buf)
	if err != nil {
		return nil, err
	}

	// Signature headers accumulate tags outside their region, so the
	// region need not span the whole blob; legacy ones have no region at
	// all.
	if err := blob.Locate(false); err != nil && !header.IsRegionNotFound(err) {
		return nil, err
	}

	if err := blob.Verify(); err != nil {
		return nil, err
	}

	sigh, err := header.NewHeaderFromBlob(blob)
	if err != nil {
		return nil, err
	}

	if err := skipSigPadding(f, blob.DL()); err != nil {
		return nil, err
	}

	return sigh, nil
}

// verifyBlob runs region location, structural verification, and -- when
// trailing tags exist -- header-only signature evaluation over one
// metadata blob. exactSize distinguishes package files from database
// blobs.
func (r *Reader) verifyBlob(blob *header.Blob, exactSize bool) Result {
	if err := blob.Locate(exactSize); err != nil && !header.IsRegionNotFound(err) {
		return Result{Verdict: sig.VerdictFail, Message: err.Error()}
	}

	if err := blob.Verify(); err != nil {
		return Result{Verdict: sig.VerdictFail, Message: err.Error()}
	}

	res := Result{Verdict: sig.VerdictNotFound}
	if blob.HasTrailingTags() {
		hv := sig.HeaderVerifier{
			Keyring:  r.keyring,
			Policy:   r.policy,
			Verifier: r.verifier,
			Parse:    r.parse,
		}
		hr := hv.Verify(blob)
		res = Result{Verdict: hr.Verdict, Message: hr.Message}
		if hr.Info != nil {
			res.KeyID = hr.Info.KeyID()
		}
	}

	if res.Verdict == sig.VerdictNotFound && res.Message == "" {
		res.Verdict = sig.VerdictOk
		res.Message = "Header sanity check: OK"
	}

	return res
}
