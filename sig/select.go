package sig

import "github.com/kslabs/pkgreader/header"

// SelectPackageTag scans the signature header for the strongest enabled
// package-level digest/signature tag. Signatures are preferred over
// digests, DSA over RSA because it is tested first; legacy header+payload
// entries are never used. Returns 0 when nothing enabled is present.
//
// Selection is a pure function of (signature header, policy): the same
// inputs always pick the same tag.
func SelectPackageTag(sigh *header.Header, p *Policy) Tag {
	switch {
	case !p.NoDSA && sigh.IsEntry(header.SigTagDSA):
		return header.SigTagDSA
	case !p.NoRSA && sigh.IsEntry(header.SigTagRSA):
		return header.SigTagRSA
	case !p.NoSHA1 && sigh.IsEntry(header.SigTagSHA1):
		return header.SigTagSHA1
	default:
		return 0
	}
}

// headerOnlyRank orders the header-only tags for selection: a real
// signature always beats the bare digest, RSA beats DSA.
func headerOnlyRank(tag Tag) int {
	switch tag {
	case header.TagRSAHeader:
		return 3
	case header.TagDSAHeader:
		return 2
	case header.TagSHA1Header:
		return 1
	default:
		return 0
	}
}

// SelectHeaderOnly walks the entries appended past the blob's immutable
// region and picks the strongest enabled header-only digest/signature tag.
// Among entries of equal strength the first in index order wins. The
// second return is false when no enabled candidate exists.
func SelectHeaderOnly(b *header.Blob, p *Policy) (header.Entry, bool) {
	var best header.Entry
	bestRank := 0

	for i := b.RIL(); i < b.IL(); i++ {
		e := b.EntryAt(i)

		switch e.Tag {
		case header.TagSHA1Header:
			if p.NoSHA1 {
				continue
			}
		case header.TagRSAHeader:
			if p.NoRSA {
				continue
			}
		case header.TagDSAHeader:
			if p.NoDSA {
				continue
			}
		default:
			continue
		}

		if r := headerOnlyRank(e.Tag); r > bestRank {
			best, bestRank = e, r
		}
	}

	return best, bestRank > 0
}
