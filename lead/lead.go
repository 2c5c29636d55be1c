// Package lead reads the fixed 96-byte lead record at the start of a
// package file. The lead survives only as a file(1)-style marker: the
// reader core consumes just its type discriminant (binary vs source) and
// its ability to say "this is not a package at all" for text manifests.
package lead

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kslabs/pkgreader/errs"
)

// Size is the fixed on-disk size of the lead record.
const Size = 96

// Magic identifies a package file. Anything else at offset 0 is treated as
// "not a package" (probably a text manifest), not as corruption.
var Magic = [4]byte{0xed, 0xab, 0xee, 0xdb}

// Type discriminates binary from source packages.
type Type int16

const (
	// TypeUnknown is returned alongside errors.
	TypeUnknown Type = -1
	// TypeBinary marks a binary package lead.
	TypeBinary Type = 0
	// TypeSource marks a source package lead.
	TypeSource Type = 1
)

// supported lead format major versions.
const (
	majorMin = 3
	majorMax = 4
)

// Read consumes the 96-byte lead from r and returns its type discriminant.
//
// A wrong magic or an unsupported major version returns (a wrap of)
// errs.ErrNotAPackage so callers can distinguish manifests from damaged
// packages; a short read or an unknown type field is a hard error.
func Read(r io.Reader) (Type, error) {
	var buf [Size]byte

	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		return TypeUnknown, fmt.Errorf("lead size(%d): %w, read returned %d", Size, errs.ErrShortRead, n)
	}

	if buf[0] != Magic[0] || buf[1] != Magic[1] || buf[2] != Magic[2] || buf[3] != Magic[3] {
		return TypeUnknown, errs.ErrNotAPackage
	}

	major := buf[4]
	if major < majorMin || major > majorMax {
		return TypeUnknown, fmt.Errorf("lead version(%d): %w", major, errs.ErrNotAPackage)
	}

	typ := Type(int16(binary.BigEndian.Uint16(buf[6:8]))) //nolint: gosec
	if typ != TypeBinary && typ != TypeSource {
		return TypeUnknown, fmt.Errorf("lead type(%d): unsupported package type", typ)
	}

	return typ, nil
}
