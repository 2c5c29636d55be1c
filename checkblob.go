package pkgreader

import (
	"github.com/kslabs/pkgreader/header"
	"github.com/kslabs/pkgreader/sig"
)

// CheckBlob verifies an in-memory metadata header blob that did not come
// from a package file -- typically one loaded back from an on-disk header
// store. Such blobs accumulate trailing tags after their region was
// sealed, so the region is not required to span the whole blob the way it
// must in a package file.
//
// The verdict, diagnostic, and key id follow the same rules as Read; the
// header is populated unless the blob fails structurally or its
// header-only signature fails.
func (r *Reader) CheckBlob(data []byte) Result {
	blob, err := header.NewBlob(data, header.TagHeaderImmutable)
	if err != nil {
		return Result{Verdict: sig.VerdictFail, Message: err.Error()}
	}

	res := r.verifyBlob(blob, false)
	if res.Verdict == sig.VerdictFail {
		return res
	}

	h, err := header.NewHeaderFromBlob(blob)
	if err != nil {
		return Result{Verdict: sig.VerdictFail, Message: "hdr load: BAD"}
	}
	res.Header = h

	return res
}
