package compress

import (
	"bytes"
	"fmt"

	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/section"
)

// Compressor compresses a complete serialized archive.
type Compressor interface {
	// Compress returns the framed, compressed form of data.
	//
	// The returned slice is newly allocated and owned by the caller; data is
	// not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores an archive from its compressed frame.
type Decompressor interface {
	// Decompress returns the original bytes of a frame produced by the
	// matching Compressor.
	//
	// Returns an error wrapping errs.ErrCorrupt if data is not a valid frame.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions for one compression type.
//
// Implementations are safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
	// Type returns the compression type implemented by the codec.
	Type() format.CompressionType
}

// Frame signatures of the self-describing formats written by the codecs.
var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	// s2 and snappy streams share the stream identifier chunk header
	s2Magic = []byte{0xff, 0x06, 0x00, 0x00}
)

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
//
// Returns an error wrapping errs.ErrInvalidCompression for unknown types.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (%d)", errs.ErrInvalidCompression, compressionType, uint8(compressionType))
}

// Detect identifies the compression of data from its leading bytes.
//
// A buffer starting with the Ogawa magic is uncompressed.
//
// Returns:
//   - format.CompressionType: the detected type
//   - bool: false if no known signature matches
func Detect(data []byte) (format.CompressionType, bool) {
	switch {
	case bytes.HasPrefix(data, []byte(section.Magic)):
		return format.CompressionNone, true
	case bytes.HasPrefix(data, zstdMagic):
		return format.CompressionZstd, true
	case bytes.HasPrefix(data, s2Magic):
		return format.CompressionS2, true
	case bytes.HasPrefix(data, lz4Magic):
		return format.CompressionLZ4, true
	default:
		return 0, false
	}
}

func corrupt(codec string, err error) error {
	return fmt.Errorf("%w: %s frame: %w", errs.ErrCorrupt, codec, err)
}
