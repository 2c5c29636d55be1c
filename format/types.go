// Package format defines the small enum shared by the header retrofit path:
// the compression codec a writer used for a pre-compressed file-list
// payload, which the compressed-filelist retrofit inflates before splitting
// it. Nothing is compressed again after the retrofit.
package format

// CompressionType identifies the codec of a pre-compressed payload that a
// header retrofit transform inflates.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
