// Package compress provides the codecs for compressed archive envelopes.
//
// An Ogawa archive is addressed by absolute byte offsets, so compression is
// only ever applied to a whole serialized archive. The codecs write
// self-describing frames and Detect recognizes them from their leading bytes:
//
//   - None: the archive as is, starting with the "Ogawa" magic
//   - Zstd: a Zstandard frame (klauspost/compress, or libzstd through
//     valyala/gozstd when built with cgo and the gozstd tag)
//   - S2: an S2 stream; Snappy framed streams decode too
//   - LZ4: an LZ4 frame
//
// Example:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(archiveBytes)
//
// All codecs are stateless values backed by pooled encoders and safe for
// concurrent use.
package compress
