package archive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ogawa/endian"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/node"
	"github.com/arloliu/ogawa/section"
)

const (
	alembicVersion   = "_ai_AlembicVersion=Alembic 1.8.8 (built May 30 2025 09:24:57)"
	identitySampling = "\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\xf0?\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"
)

// archiveTree wraps an object subtree into the six header slots.
func archiveTree(objects []any, indexed string) []any {
	return []any{
		"\x00\x00\x00\x00",
		"8*\x00\x00",
		objects,
		alembicVersion,
		identitySampling,
		indexed,
	}
}

// objectHeaders encodes child header records and appends the 32-byte trailer.
func objectHeaders(records ...string) []byte {
	var b []byte
	for _, r := range records {
		b = append(b, r...)
	}

	return append(b, make([]byte, section.ObjectHeaderTrailerSize)...)
}

// childHeader encodes one child header record with a metadata selector.
func childHeader(name string, selector uint8, inline string) string {
	b := endian.GetLittleEndianEngine().AppendUint32(nil, uint32(len(name)))
	b = append(b, name...)
	b = append(b, selector)

	return string(append(b, inline...))
}

// leafObject is the subtree of an object without children or properties.
func leafObject() []any {
	return []any{[]any{}, objectHeaders()}
}

// propertyRecord encodes one property record with 8-bit fields.
func propertyRecord(info section.PropertyInfo, name string, fields ...uint8) []byte {
	b := endian.GetLittleEndianEngine().AppendUint32(nil, uint32(info))
	b = append(b, fields...)
	b = append(b, uint8(len(name)))

	return append(b, name...)
}

func scalarInfo(pod format.PodType, extent uint8) section.PropertyInfo {
	return section.NewPropertyInfo(format.PropertyScalar, section.SizeHint8).
		WithPodType(pod).
		WithExtent(extent)
}

// storedSample frames payload with a zero digest.
func storedSample(payload ...byte) []byte {
	return append(make([]byte, section.SampleDigestSize), payload...)
}

// withProperties returns an object subtree whose root compound holds the
// given descriptors and subtrees.
func withProperties(descriptors []byte, subtrees ...any) []any {
	propTree := append(append([]any{}, subtrees...), descriptors)
	return []any{propTree, objectHeaders()}
}

// rootWithProperties builds an archive whose root object carries properties.
func rootWithProperties(descriptors []byte, subtrees ...any) []any {
	return archiveTree(withProperties(descriptors, subtrees...), "")
}

func openTree(t *testing.T, tree []any, opts ...Option) (*Archive, error) {
	t.Helper()

	store, err := node.FromTree(tree)
	require.NoError(t, err)

	return Open(store, opts...)
}

func mustOpenTree(t *testing.T, tree []any, opts ...Option) *Archive {
	t.Helper()

	a, err := openTree(t, tree, opts...)
	require.NoError(t, err)

	return a
}
