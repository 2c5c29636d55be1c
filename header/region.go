package header

import (
	"errors"
	"fmt"

	"github.com/kslabs/pkgreader/errs"
)

// Locate finds the immutable region and computes its boundaries.
// exactSize requires il==ril && dl==rdl, the case for package files;
// on-disk database blobs (via CheckBlob) pass false since they may carry
// trailing tags appended after the region was sealed.
//
// A header with no region tag at entry 0 is not a failure: it returns
// errs.ErrRegionNotFound, signaling a legacy v3 header to the caller.
func (b *Blob) Locate(exactSize bool) error {
	if b.il < 1 {
		return errs.ErrRegionMissing
	}

	e0 := b.EntryAt(0)
	if e0.Tag != b.regionTag {
		return errs.ErrRegionNotFound
	}

	if e0.Type != TypeBin || e0.Count != EntrySize {
		return fmt.Errorf("region tag: %w, tag %d type %d offset %d count %d",
			errs.ErrBadRegionTag, e0.Tag, e0.Type, e0.Offset, e0.Count)
	}

	if int(e0.Offset)+EntrySize > b.dl || int64(e0.Offset)+EntrySize < 0 {
		return fmt.Errorf("region offset: %w, tag %d type %d offset %d count %d",
			errs.ErrBadRegionOffset, e0.Tag, e0.Type, e0.Offset, e0.Count)
	}

	trailerStart := int(e0.Offset)
	trailerRaw := b.dataStart[trailerStart : trailerStart+EntrySize]
	b.rdl = trailerStart + EntrySize

	trailer := decodeEntry(trailerRaw)
	// The trailer's offset field is stored negated; invert sign.
	trailerOffset := -int32(trailer.Offset) //nolint: gosec

	if trailer.Tag != b.regionTag || trailer.Type != TypeBin || trailer.Count != EntrySize {
		return fmt.Errorf("region trailer: %w, tag %d type %d offset %d count %d",
			errs.ErrBadRegionTrailer, trailer.Tag, trailer.Type, trailerOffset, trailer.Count)
	}

	if trailerOffset < 0 || int(trailerOffset)%EntrySize != 0 {
		return fmt.Errorf("region %d size: %w, ril computation, offset %d", b.regionTag, errs.ErrBadRegionSize, trailerOffset)
	}

	ril := int(trailerOffset) / EntrySize
	if ril > b.il || b.rdl > b.dl {
		return fmt.Errorf("region %d size: %w, ril %d il %d rdl %d dl %d",
			b.regionTag, errs.ErrBadRegionSize, ril, b.il, b.rdl, b.dl)
	}

	if exactSize && !(b.il == ril && b.dl == b.rdl) {
		return fmt.Errorf("region %d: %w, il %d ril %d dl %d rdl %d",
			b.regionTag, errs.ErrRegionSizeMismatch, b.il, ril, b.dl, b.rdl)
	}

	b.ril = ril
	b.hasRegion = true

	return nil
}

// HasTrailingTags reports whether entries were appended after the region
// was sealed (il > ril), i.e. header-only signature/digest candidates
// exist.
func (b *Blob) HasTrailingTags() bool {
	return b.il > b.ril
}

// IsRegionNotFound reports whether err is the "no immutable region" signal
// from Locate, distinguishing it from a genuine structural failure.
func IsRegionNotFound(err error) bool {
	return errors.Is(err, errs.ErrRegionNotFound)
}
