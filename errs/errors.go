// Package errs collects the sentinel errors returned across pkgreader and
// its sub-packages. Call sites wrap these with fmt.Errorf("...: %w", ...)
// to attach dynamic detail (offsets, tag numbers, sizes); callers match on
// the sentinel with errors.Is.
package errs

import "errors"

// Stream / lead errors.
var (
	ErrShortRead   = errors.New("short read")
	ErrBadMagic    = errors.New("bad header magic")
	ErrNotAPackage = errors.New("not a package")
)

// Header blob construction errors.
var (
	ErrBadHeaderTags = errors.New("number of tags out of range")
	ErrBadHeaderData = errors.New("number of data bytes out of range")
	ErrBadBlobSize   = errors.New("blob size does not match header counts")
)

// Region location errors.
var (
	ErrRegionMissing      = errors.New("region: no tags")
	ErrRegionNotFound     = errors.New("region tag not found")
	ErrBadRegionTag       = errors.New("region tag: bad type or count")
	ErrBadRegionOffset    = errors.New("region offset: out of range")
	ErrBadRegionTrailer   = errors.New("region trailer: bad tag, type or count")
	ErrBadRegionSize      = errors.New("region size: bad ril/rdl")
	ErrRegionSizeMismatch = errors.New("region size does not match exact header size")
)

// Entry-index structure errors.
var (
	ErrBadHeaderEntry      = errors.New("header entry: bad tag, type, offset or count")
	ErrEntryOutOfOrder     = errors.New("header entry: offsets not non-decreasing")
	ErrStringNotTerminated = errors.New("header entry: string not NUL-terminated")
	ErrDuplicateTag        = errors.New("header entry: duplicate tag")
)

// Signature parsing errors.
var (
	ErrBadSignaturePacket = errors.New("malformed signature packet")
	ErrUnknownHashAlgo    = errors.New("unknown hash algorithm")
)

// Retrofit errors.
var (
	ErrRetrofitFailed = errors.New("legacy header retrofit failed")
)
