package pkgreader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kslabs/pkgreader/errs"
	"github.com/kslabs/pkgreader/header"
	"github.com/kslabs/pkgreader/internal/pool"
)

// introSize is the on-disk lead-in of every header: 8 magic bytes plus the
// two big-endian counts.
const introSize = 16

// readBlobInto reads one serialized header from r into buf: it consumes
// the 16-byte lead-in, validates magic and counts, sizes buf to the full
// ei layout [il_be, dl_be, entry_index, data], and reads the remainder
// exactly. label ("hdr" or "sigh") prefixes every diagnostic.
//
// The returned Blob views buf's bytes; it must not outlive them.
func readBlobInto(r io.Reader, label string, regionTag uint32, buf *pool.ByteBuffer) (*header.Blob, error) {
	var block [introSize]byte

	n, err := io.ReadFull(r, block[:])
	if err != nil {
		return nil, fmt.Errorf("%s size(%d): BAD, read returned %d: %w", label, introSize, n, errs.ErrShortRead)
	}

	if !bytes.Equal(block[0:8], header.HeaderMagic[:]) {
		return nil, fmt.Errorf("%s magic: BAD: %w", label, errs.ErrBadMagic)
	}

	il := int(binary.BigEndian.Uint32(block[8:12]))
	if il < 0 || il > header.ILMax {
		return nil, fmt.Errorf("%s tags: BAD, no. of tags(%d) out of range: %w", label, il, errs.ErrBadHeaderTags)
	}

	dl := int(binary.BigEndian.Uint32(block[12:16]))
	if dl < 0 || dl > header.DLMax {
		return nil, fmt.Errorf("%s data: BAD, no. of bytes(%d) out of range: %w", label, dl, errs.ErrBadHeaderData)
	}

	nb := header.EntrySize*il + dl
	uc := 8 + nb

	buf.Reset()
	buf.ExtendOrGrow(uc)
	ei := buf.Bytes()
	copy(ei[0:8], block[8:16])

	if n, err := io.ReadFull(r, ei[8:uc]); err != nil {
		return nil, fmt.Errorf("%s blob(%d): BAD, read returned %d: %w", label, nb, n, errs.ErrShortRead)
	}

	return header.NewBlob(ei, regionTag)
}

// sigPadding is the 0..7 byte gap after the signature header that aligns
// the metadata header to an 8-byte boundary.
func sigPadding(dl int) int {
	return (8 - (dl % 8)) % 8
}

// skipSigPadding consumes the alignment padding following a signature
// header's data segment.
func skipSigPadding(r io.Reader, dl int) error {
	pad := sigPadding(dl)
	if pad == 0 {
		return nil
	}

	var scratch [8]byte
	if n, err := io.ReadFull(r, scratch[:pad]); err != nil {
		return fmt.Errorf("sigh pad(%d): BAD, read %d bytes: %w", pad, n, errs.ErrShortRead)
	}

	return nil
}
