// Package hash computes the content digests written into archives.
//
// Stored samples open with a 16-byte digest and object header blobs close
// with a 32-byte trailer. Readers treat both as opaque; the builder fills them
// with xxHash64 sums so equal content yields equal digests.
package hash

import (
	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/ogawa/endian"
)

// DigestSize is the size of a sample digest.
const DigestSize = 16

// TrailerSize is the size of an object header trailer.
const TrailerSize = 2 * DigestSize

// Digest returns a 16-byte digest of data: the xxHash64 of data, followed by
// the xxHash64 of data extended with its length.
func Digest(data []byte) [DigestSize]byte {
	var out [DigestSize]byte
	engine := endian.GetLittleEndianEngine()

	d := xxhash.New()
	_, _ = d.Write(data)
	engine.PutUint64(out[:8], d.Sum64())

	_, _ = d.Write(engine.AppendUint64(nil, uint64(len(data))))
	engine.PutUint64(out[8:], d.Sum64())

	return out
}

// Trailer returns the 32-byte object header trailer: the digest of the
// object's property descriptors followed by the digest of its child headers.
func Trailer(properties, children []byte) [TrailerSize]byte {
	var out [TrailerSize]byte
	p := Digest(properties)
	c := Digest(children)
	copy(out[:DigestSize], p[:])
	copy(out[DigestSize:], c[:])

	return out
}
