// Package endian provides the byte order used by every Ogawa reader and writer.
//
// Ogawa archives are little-endian throughout: pointer words, record
// lengths, header fields, descriptor words and sample payloads. The package
// combines binary.ByteOrder and binary.AppendByteOrder so that decoders and
// the builder share a single value:
//
//	engine := endian.GetLittleEndianEngine()
//	n := engine.Uint64(buf[8:16])
//	buf = engine.AppendUint32(buf, 42)
//
// # Thread Safety
//
// The returned EndianEngine is immutable and safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the engine used for the Ogawa layout.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
