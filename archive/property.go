package archive

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/node"
	"github.com/arloliu/ogawa/section"
)

// Property is one node of an object's property tree: a *CompoundProperty,
// *ScalarProperty or *ArrayProperty.
type Property interface {
	// Name returns the property name, empty for an object's root compound.
	Name() string
	// Kind returns the stored property kind.
	Kind() format.PropertyKind
	// Metadata returns a copy of the property metadata.
	Metadata() map[string]string
	// Parent returns the enclosing compound, nil for an object's root compound.
	Parent() *CompoundProperty

	sealed()
}

var (
	_ Property = (*CompoundProperty)(nil)
	_ Property = (*ScalarProperty)(nil)
	_ Property = (*ArrayProperty)(nil)
)

type base struct {
	name     string
	metadata map[string]string
	parent   *CompoundProperty
}

func (b *base) Name() string                { return b.name }
func (b *base) Metadata() map[string]string { return maps.Clone(b.metadata) }
func (b *base) Parent() *CompoundProperty   { return b.parent }
func (b *base) sealed()                     {}

// CompoundProperty groups child properties. It has no samples of its own.
type CompoundProperty struct {
	base
	children []Property
}

// Kind returns format.PropertyCompound.
func (c *CompoundProperty) Kind() format.PropertyKind { return format.PropertyCompound }

// Len returns the number of child properties.
func (c *CompoundProperty) Len() int {
	return len(c.children)
}

// Properties returns the child properties in descriptor order.
func (c *CompoundProperty) Properties() []Property {
	return slices.Clone(c.children)
}

// PropertyAt returns the i-th child property, or ErrIndexOutOfRange.
func (c *CompoundProperty) PropertyAt(i int) (Property, error) {
	if i < 0 || i >= len(c.children) {
		return nil, fmt.Errorf("%w: property %d of compound %q with %d children", errs.ErrIndexOutOfRange, i, c.name, len(c.children))
	}

	return c.children[i], nil
}

// Property returns the first child property named name, or ErrPropertyNotFound.
func (c *CompoundProperty) Property(name string) (Property, error) {
	for _, child := range c.children {
		if child.Name() == name {
			return child, nil
		}
	}

	return nil, fmt.Errorf("%w: %q in compound %q", errs.ErrPropertyNotFound, name, c.name)
}

// Tree returns the compound as nested maps keyed by property name. Child
// compounds become map[string]any; other properties become fn(p), or p itself
// when fn is nil. A repeated name keeps the first property.
func (c *CompoundProperty) Tree(fn func(Property) any) map[string]any {
	tree := make(map[string]any, len(c.children))
	for _, child := range c.children {
		if _, seen := tree[child.Name()]; seen {
			continue
		}

		switch p := child.(type) {
		case *CompoundProperty:
			tree[p.name] = p.Tree(fn)
		default:
			if fn != nil {
				tree[p.Name()] = fn(p)
			} else {
				tree[p.Name()] = p
			}
		}
	}

	return tree
}

// sampled holds the fields shared by scalar and array properties.
type sampled struct {
	base
	info              section.PropertyInfo
	index             SampleIndex
	timeSamplingIndex uint32
	samples           []*node.Data
}

// PodType returns the element type of each sample.
func (s *sampled) PodType() format.PodType {
	return s.info.PodType()
}

// Extent returns the number of elements per value.
func (s *sampled) Extent() int {
	return int(s.info.Extent())
}

// PodSize returns the byte size of one value: element size times extent.
//
// Returns ErrUnsupportedType for string pods, which have no fixed size.
func (s *sampled) PodSize() (int, error) {
	pod := s.PodType()
	if pod.IsString() {
		return 0, fmt.Errorf("%w: %s has no fixed size", errs.ErrUnsupportedType, pod)
	}

	return pod.Size() * s.Extent(), nil
}

// Info returns the raw descriptor word.
func (s *sampled) Info() section.PropertyInfo {
	return s.info
}

// IsHomogeneous reports the homogeneous flag. It does not affect decoding.
func (s *sampled) IsHomogeneous() bool {
	return s.info.IsHomogeneous()
}

// TimeSamplingIndex returns the stored time-sampling index. The second result
// is false when the descriptor carries none. The index does not affect decoding.
func (s *sampled) TimeSamplingIndex() (uint32, bool) {
	return s.timeSamplingIndex, s.info.HasTimeSamplingIndex()
}

// SampleIndex returns the logical to stored sample mapping.
func (s *sampled) SampleIndex() SampleIndex {
	return s.index
}

// SampleCount returns the logical sample count.
func (s *sampled) SampleCount() int {
	return s.index.Next
}

// StoredSampleCount returns the number of samples physically stored.
func (s *sampled) StoredSampleCount() int {
	return len(s.samples)
}

// IsConstant reports whether every logical sample shares stored sample 0.
func (s *sampled) IsConstant() bool {
	return s.index.IsConstant()
}

// Sample returns the payload of logical sample i, without its digest.
//
// The second result is false when i is outside [0, SampleCount()).
// The returned slice aliases the archive buffer and must not be modified.
func (s *sampled) Sample(i int) ([]byte, bool, error) {
	data, ok, err := s.stored(i)
	if !ok || err != nil {
		return nil, ok, err
	}

	if data.Len() == 0 {
		return []byte{}, true, nil
	}

	return data.Bytes()[section.SampleDigestSize:], true, nil
}

// SampleDigest returns the content digest stored ahead of logical sample i.
// Digests are exposed as stored and never verified. An empty stored sample
// has a zero digest.
func (s *sampled) SampleDigest(i int) ([section.SampleDigestSize]byte, bool, error) {
	var digest [section.SampleDigestSize]byte

	data, ok, err := s.stored(i)
	if !ok || err != nil {
		return digest, ok, err
	}

	copy(digest[:], data.Bytes())

	return digest, true, nil
}

// All returns an iterator over (logical index, payload) pairs. Iteration stops
// early if a sample cannot be resolved; Sample reports the error.
func (s *sampled) All() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for i := range s.index.Next {
			payload, ok, err := s.Sample(i)
			if !ok || err != nil {
				return
			}

			if !yield(i, payload) {
				return
			}
		}
	}
}

func (s *sampled) stored(i int) (*node.Data, bool, error) {
	physical, ok := s.index.Physical(i)
	if !ok {
		return nil, false, nil
	}

	if physical >= len(s.samples) {
		return nil, false, fmt.Errorf("%w: property %q sample %d maps to stored sample %d of %d",
			errs.ErrSampleIndexOutOfBounds, s.name, i, physical, len(s.samples))
	}

	return s.samples[physical], true, nil
}

// ScalarProperty holds one fixed-size value per sample.
type ScalarProperty struct {
	sampled
}

// Kind returns format.PropertyScalar.
func (p *ScalarProperty) Kind() format.PropertyKind { return format.PropertyScalar }

// ArrayProperty holds a variable-length array per sample.
type ArrayProperty struct {
	sampled
	// dims holds one tuple per stored sample. A nil tuple marks an empty
	// dimension record on a string pod, whose length cannot be derived.
	dims [][]uint32
}

// Kind returns format.PropertyArray or format.PropertyScalarLikeArray.
func (p *ArrayProperty) Kind() format.PropertyKind { return p.info.Kind() }

// Dimensions returns the dimension tuple of logical sample i.
//
// Returns ErrUnsupportedType for a string sample stored without an explicit
// dimension record.
func (p *ArrayProperty) Dimensions(i int) ([]uint32, bool, error) {
	physical, ok := p.index.Physical(i)
	if !ok {
		return nil, false, nil
	}

	if physical >= len(p.dims) {
		return nil, false, fmt.Errorf("%w: property %q sample %d maps to stored sample %d of %d",
			errs.ErrSampleIndexOutOfBounds, p.name, i, physical, len(p.dims))
	}

	dims := p.dims[physical]
	if dims == nil {
		return nil, false, fmt.Errorf("%w: %s sample %d of %q has no dimension record",
			errs.ErrUnsupportedType, p.PodType(), i, p.name)
	}

	return slices.Clone(dims), true, nil
}

// NumElements returns the element count of logical sample i: the product of
// its dimensions.
func (p *ArrayProperty) NumElements(i int) (int, bool, error) {
	dims, ok, err := p.Dimensions(i)
	if !ok || err != nil {
		return 0, ok, err
	}

	n := 1
	for _, dim := range dims {
		n *= int(dim)
	}

	return n, true, nil
}
