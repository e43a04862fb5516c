package builder

import (
	"fmt"
	"maps"
	"slices"

	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
)

// property is implemented by *Compound, *Scalar and *Array.
type property interface {
	Name() string
	meta() map[string]string
}

type propertyBase struct {
	name     string
	metadata map[string]string
}

// Name returns the property name.
func (p *propertyBase) Name() string {
	return p.name
}

// SetMetadata replaces the property metadata.
func (p *propertyBase) SetMetadata(metadata map[string]string) {
	p.metadata = maps.Clone(metadata)
}

func (p *propertyBase) meta() map[string]string {
	return p.metadata
}

// Compound is a property holding child properties.
type Compound struct {
	propertyBase
	children []property
	names    map[string]struct{}
}

func newCompound(name string, metadata map[string]string) *Compound {
	return &Compound{
		propertyBase: propertyBase{name: name, metadata: maps.Clone(metadata)},
		names:        make(map[string]struct{}),
	}
}

// Len returns the number of child properties.
func (c *Compound) Len() int {
	return len(c.children)
}

// AddCompound appends a child compound property.
func (c *Compound) AddCompound(name string, metadata map[string]string) (*Compound, error) {
	child := newCompound(name, metadata)
	if err := c.add(child); err != nil {
		return nil, err
	}

	return child, nil
}

// AddScalar appends a scalar property holding extent elements of pod per sample.
func (c *Compound) AddScalar(name string, pod format.PodType, extent int) (*Scalar, error) {
	s, err := newSampled(name, pod, extent)
	if err != nil {
		return nil, err
	}

	child := &Scalar{sampled: s}
	if err := c.add(child); err != nil {
		return nil, err
	}

	return child, nil
}

// AddArray appends an array property whose samples hold any number of
// extent-element values of pod.
func (c *Compound) AddArray(name string, pod format.PodType, extent int) (*Array, error) {
	s, err := newSampled(name, pod, extent)
	if err != nil {
		return nil, err
	}

	child := &Array{sampled: s}
	if err := c.add(child); err != nil {
		return nil, err
	}

	return child, nil
}

func (c *Compound) add(p property) error {
	if _, dup := c.names[p.Name()]; dup {
		return fmt.Errorf("%w: property %q in compound %q", errs.ErrDuplicateName, p.Name(), c.name)
	}

	c.names[p.Name()] = struct{}{}
	c.children = append(c.children, p)

	return nil
}

// sampled holds the fields shared by scalar and array properties.
type sampled struct {
	propertyBase
	pod               format.PodType
	extent            int
	samples           []sample
	timeSamplingIndex uint32
	hasTimeSampling   bool
}

func newSampled(name string, pod format.PodType, extent int) (sampled, error) {
	if !pod.Valid() {
		return sampled{}, fmt.Errorf("%w: tag %d for %q", errs.ErrInvalidPodType, uint8(pod), name)
	}

	if extent < 1 || extent > 255 {
		return sampled{}, fmt.Errorf("%w: %d for %q", errs.ErrInvalidExtent, extent, name)
	}

	return sampled{
		propertyBase: propertyBase{name: name},
		pod:          pod,
		extent:       extent,
	}, nil
}

// Len returns the number of samples added so far.
func (s *sampled) Len() int {
	return len(s.samples)
}

// SetTimeSamplingIndex records the index of the time sampling the property
// follows. Readers store the index without interpreting it.
func (s *sampled) SetTimeSamplingIndex(index uint32) {
	s.timeSamplingIndex = index
	s.hasTimeSampling = true
}

// valueSize returns the byte size of one value, 0 for string pods.
func (s *sampled) valueSize() int {
	return s.pod.Size() * s.extent
}

// Scalar is a property with one fixed-size value per sample.
type Scalar struct {
	sampled
}

// AddSample appends the next sample. For fixed-size pods value must be
// exactly one value long. The bytes are retained, not copied.
func (s *Scalar) AddSample(value []byte) error {
	if size := s.valueSize(); size > 0 && len(value) != size {
		return fmt.Errorf("%w: %q takes %d bytes, got %d", errs.ErrSampleSize, s.name, size, len(value))
	}

	s.samples = append(s.samples, sample{payload: value})

	return nil
}

// Array is a property with a variable number of values per sample.
type Array struct {
	sampled
}

// AddSample appends the next sample.
//
// For fixed-size pods values must be a whole number of values. Without dims
// the reader derives a single dimension from the payload length; with dims
// their product must equal the value count. String pods need dims for the
// reader to report dimensions.
func (a *Array) AddSample(values []byte, dims ...uint32) error {
	if size := a.valueSize(); size > 0 {
		if len(values)%size != 0 {
			return fmt.Errorf("%w: %q takes multiples of %d bytes, got %d", errs.ErrSampleSize, a.name, size, len(values))
		}

		if len(dims) > 0 {
			n := 1
			for _, dim := range dims {
				n *= int(dim)
			}

			if n != len(values)/size {
				return fmt.Errorf("%w: %q dimensions %v hold %d values, got %d", errs.ErrSampleSize, a.name, dims, n, len(values)/size)
			}
		}
	}

	var d []uint32
	if len(dims) > 0 {
		d = append([]uint32(nil), dims...)
	}
	a.samples = append(a.samples, sample{payload: values, dims: d})

	return nil
}

// homogeneous reports whether every sample has the same value count.
func (a *Array) homogeneous() bool {
	for i := 1; i < len(a.samples); i++ {
		if len(a.samples[i].payload) != len(a.samples[0].payload) || !slices.Equal(a.samples[i].dims, a.samples[0].dims) {
			return false
		}
	}

	return true
}
