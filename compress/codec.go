package compress

import (
	"fmt"

	"github.com/kslabs/pkgreader/format"
)

// Compressor compresses a header data payload.
//
// Inputs are the raw byte payloads of individual header entries -- most
// commonly a flat file list (tens of thousands of NUL-terminated paths for
// large source packages), which compresses extremely well. Payload sizes
// range from a few bytes to the header data-segment limit.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Compress(data []byte) ([]byte, error)
}

// Decompressor inflates a pre-compressed header data payload.
//
// This is the half the reader core actually exercises: the retrofit path
// inflates a compressed file list before splitting it into dirnames,
// basenames and dirindexes. Separate interfaces allow asymmetric
// implementations where decompression has different resource requirements
// than compression.
//
// Thread safety: implementations must be safe for concurrent use or
// document their requirements clearly.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original
	// payload bytes.
	//
	// The input must have been compressed with the same algorithm; the
	// decompressor validates the format and returns an error on corrupt
	// or incompatible data.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the
// specified compression type.
//
// target describes the payload being processed ("filelist", "data") and is
// used only in error messages.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
