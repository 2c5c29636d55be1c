package compress

// ZstdCompressor provides Zstandard compression for header payloads.
//
// Zstd gives the best ratio of the supported codecs on the payloads the
// retrofit path sees (long runs of NUL-terminated paths sharing common
// directory prefixes) and is the codec writers pick for large file lists.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
