// Package compress provides the decompression codecs used by the header
// retrofit path.
//
// Some writers store large header payloads -- chiefly the legacy flat file
// list of source packages -- pre-compressed, marked by a codec tag next to
// the payload. Before the compressed-filelist retrofit can split such a
// payload into dirnames, basenames and dirindexes it must be inflated with
// the matching codec; that dispatch lives here.
//
// The package defines three interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Supported algorithms, selected via format.CompressionType:
//
//   - None (format.CompressionNone): pass-through, for payloads stored raw
//   - Zstd (format.CompressionZstd): best ratio, the common choice for
//     file lists
//   - S2 (format.CompressionS2): balanced ratio and speed
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// Typical usage from the retrofit path:
//
//	codec, err := compress.CreateCodec(codecType, "filelist")
//	if err != nil {
//	    return err
//	}
//	raw, err := codec.Decompress(payload)
//
// All codecs are safe for concurrent use. The default Zstd implementation
// pools its encoders and decoders and LZ4 pools its block compressors, so
// repeated calls do not reallocate that state; the gozstd build and LZ4
// decompression keep no pooled state.
package compress
