package header

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kslabs/pkgreader/compress"
	"github.com/kslabs/pkgreader/errs"
	"github.com/kslabs/pkgreader/format"
)

// TagFilelistCompressor is not part of the wire-format tag space consumed
// by real package readers; it is this module's own extension marking that
// the OLDFILENAMES data a particular writer produced was pre-compressed
// (large source packages can carry tens of thousands of paths). When
// present, ConvertCompressedFileList inflates it with the matching codec
// from the compress package before splitting paths, rather than assuming
// plain concatenated NUL-terminated strings.
const TagFilelistCompressor uint32 = 5100

// ConvertRetrofitV3 upgrades a legacy v3 header (no HEADERIMMUTABLE region)
// to the modern encoding in place: it wraps every existing entry inside a
// freshly synthesized immutable region, exactly as if the header had been
// written with a region tag from the start.
func (h *Header) ConvertRetrofitV3() error {
	if h.IsEntry(TagHeaderImmutable) {
		return nil
	}

	h.SealRegion(TagHeaderImmutable)

	return nil
}

// ConvertCompressedFileList applies the compressed-filelist transform:
// OLDFILENAMES (a flat STRING_ARRAY of full paths) is split into DIRNAMES
// (unique directory paths), BASENAMES (per-file basename) and DIRINDEXES
// (per-file index into DIRNAMES), then OLDFILENAMES is dropped.
func (h *Header) ConvertCompressedFileList() error {
	v, ok := h.Get(TagOldFilenames)
	if !ok {
		return nil
	}

	raw := v.Data
	if codecTag, ok := h.Get(TagFilelistCompressor); ok && len(codecTag.Data) == 1 {
		codec, err := compress.CreateCodec(format.CompressionType(codecTag.Data[0]), "filelist")
		if err != nil {
			return fmt.Errorf("%w: %w", errs.ErrRetrofitFailed, err)
		}
		raw, err = codec.Decompress(raw)
		if err != nil {
			return fmt.Errorf("%w: decompress filelist: %w", errs.ErrRetrofitFailed, err)
		}
	}

	paths := splitNULStrings(raw, int(v.Count))
	if len(paths) != int(v.Count) {
		return fmt.Errorf("%w: OLDFILENAMES count mismatch: got %d strings, want %d", errs.ErrRetrofitFailed, len(paths), v.Count)
	}

	dirIndex := make(map[string]int)
	var dirnames, basenames []string
	dirindexes := make([]uint32, len(paths))

	for i, p := range paths {
		dir, base := splitPath(p)
		idx, seen := dirIndex[dir]
		if !seen {
			idx = len(dirnames)
			dirIndex[dir] = idx
			dirnames = append(dirnames, dir)
		}
		dirindexes[i] = uint32(idx) //nolint: gosec
		basenames = append(basenames, base)
	}

	h.Put(TagDirnames, encodeStringArray(dirnames))
	h.Put(TagBaseNames, encodeStringArray(basenames))
	h.Put(TagDirIndexes, encodeInt32Array(dirindexes))

	delete(h.entries, TagOldFilenames)
	for i, tag := range h.order {
		if tag == TagOldFilenames {
			h.order = append(h.order[:i], h.order[i+1:]...)

			break
		}
	}

	return nil
}

func splitPath(p string) (dir, base string) {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return "", p
	}

	return p[:idx+1], p[idx+1:]
}

func splitNULStrings(data []byte, want int) []string {
	out := make([]string, 0, want)
	start := 0
	for i, b := range data {
		if b == 0 {
			out = append(out, string(data[start:i]))
			start = i + 1
		}
	}

	return out
}

func encodeStringArray(ss []string) Value {
	var buf bytes.Buffer
	for _, s := range ss {
		buf.WriteString(s)
		buf.WriteByte(0)
	}

	return Value{Type: TypeStringArray, Count: uint32(len(ss)), Data: buf.Bytes()} //nolint: gosec
}

func encodeInt32Array(vs []uint32) Value {
	buf := make([]byte, 4*len(vs))
	for i, v := range vs {
		buf[4*i] = byte(v >> 24)
		buf[4*i+1] = byte(v >> 16)
		buf[4*i+2] = byte(v >> 8)
		buf[4*i+3] = byte(v)
	}

	return Value{Type: TypeInt32, Count: uint32(len(vs)), Data: buf} //nolint: gosec
}
