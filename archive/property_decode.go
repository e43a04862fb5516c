package archive

import (
	"fmt"

	"github.com/arloliu/ogawa/endian"
	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/node"
	"github.com/arloliu/ogawa/section"
)

// compound decodes a property tree group.
//
// Tree layout: the last child holds the packed descriptors and each preceding
// child is the subtree of the descriptor at the same position. The descriptor
// blob is consumed in full; there is no trailer.
func (d *decoder) compound(parent *CompoundProperty, name string, metadata map[string]string, tree *node.Group) (*CompoundProperty, error) {
	c := &CompoundProperty{
		base: base{name: name, metadata: metadata, parent: parent},
	}

	if tree.Len() == 0 {
		return c, nil
	}

	headers, err := tree.Data(-1)
	if err != nil {
		return nil, fmt.Errorf("compound %q descriptors: %w", name, err)
	}

	r, err := section.NewHeaderReader(headers.Bytes(), headers.Len())
	if err != nil {
		return nil, err
	}

	for r.More() {
		p, err := d.property(c, r, tree)
		if err != nil {
			return nil, fmt.Errorf("compound %q property %d: %w", name, len(c.children), err)
		}
		c.children = append(c.children, p)
	}

	return c, nil
}

// descriptor is one decoded property record.
type descriptor struct {
	info              section.PropertyInfo
	name              string
	index             SampleIndex
	timeSamplingIndex uint32
}

func (d *decoder) property(parent *CompoundProperty, r *section.HeaderReader, tree *node.Group) (Property, error) {
	desc, err := d.descriptor(r)
	if err != nil {
		return nil, err
	}

	slot := len(parent.children)
	if slot >= tree.Len()-1 {
		return nil, fmt.Errorf("%w: descriptor %q has no subtree, tree has %d slots",
			errs.ErrChildCountMismatch, desc.name, tree.Len())
	}

	subtree, err := tree.Group(slot)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", desc.name, err)
	}

	metadata, err := d.propertyMetadata(desc.info)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", desc.name, err)
	}

	kind := desc.info.Kind()
	if kind == format.PropertyCompound {
		return d.compound(parent, desc.name, metadata, subtree)
	}

	s := sampled{
		base:              base{name: desc.name, metadata: metadata, parent: parent},
		info:              desc.info,
		index:             desc.index,
		timeSamplingIndex: desc.timeSamplingIndex,
	}

	var p Property
	if kind.IsArray() {
		p, err = d.array(s, subtree)
	} else {
		p, err = d.scalar(s, subtree)
	}
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", desc.name, err)
	}

	d.cfg.logger.Debug("decoded property",
		"name", desc.name,
		"kind", kind,
		"pod", desc.info.PodType(),
		"extent", desc.info.Extent(),
		"samples", desc.index.Next,
		"stored", s.index.StoredCount())

	return p, nil
}

// descriptor reads one property record: the packed info word, the sample
// index fields selected by its flags, and the name.
func (d *decoder) descriptor(r *section.HeaderReader) (descriptor, error) {
	var desc descriptor

	info, err := r.PropertyInfo()
	if err != nil {
		return desc, err
	}
	desc.info = info

	hint := info.SizeHint()
	if !hint.Valid() {
		return desc, fmt.Errorf("%w: %d in descriptor %#08x", errs.ErrInvalidSizeHint, hint, uint32(info))
	}

	if info.Kind() != format.PropertyCompound {
		if desc.index, desc.timeSamplingIndex, err = d.sampleFields(r, info); err != nil {
			return desc, err
		}
	}

	nameLen, err := r.Sized(hint)
	if err != nil {
		return desc, err
	}

	desc.name, err = d.name(r, int(nameLen))

	return desc, err
}

func (d *decoder) sampleFields(r *section.HeaderReader, info section.PropertyInfo) (SampleIndex, uint32, error) {
	var index SampleIndex

	if pod := info.PodType(); !pod.Valid() {
		return index, 0, fmt.Errorf("%w: tag %d", errs.ErrInvalidPodType, uint8(pod))
	}

	if info.Extent() == 0 {
		return index, 0, errs.ErrZeroExtent
	}

	if info.MetadataIndex() == section.ReservedMetadataIndex {
		return index, 0, fmt.Errorf("%w: descriptor %#08x", errs.ErrReservedMetadataIndex, uint32(info))
	}

	hint := info.SizeHint()
	next, err := r.Sized(hint)
	if err != nil {
		return index, 0, err
	}
	index.Next = int(next)

	switch info.ChangedIndexLayout() {
	case section.ChangedIndexExplicit:
		first, err := r.Sized(hint)
		if err != nil {
			return index, 0, err
		}
		last, err := r.Sized(hint)
		if err != nil {
			return index, 0, err
		}
		index.FirstChanged, index.LastChanged = int(first), int(last)

		if !index.IsConstant() && (first > last || last > next) {
			return index, 0, fmt.Errorf("%w: first %d, last %d, next %d", errs.ErrInvalidChangedIndices, first, last, next)
		}
	case section.ChangedIndexZero:
		index.FirstChanged, index.LastChanged = 0, 0
	default:
		index.FirstChanged, index.LastChanged = 1, index.Next-1
	}

	var timeSamplingIndex uint32
	if info.HasTimeSamplingIndex() {
		if timeSamplingIndex, err = r.Sized(hint); err != nil {
			return index, 0, err
		}
	}

	return index, timeSamplingIndex, nil
}

// propertyMetadata resolves the descriptor's metadata index against the
// indexed table. An index past the end of the table yields empty metadata.
func (d *decoder) propertyMetadata(info section.PropertyInfo) (map[string]string, error) {
	idx := int(info.MetadataIndex())
	if idx == section.ReservedMetadataIndex || idx >= len(d.indexed) {
		return map[string]string{}, nil
	}

	return d.parseMetadata([]byte(d.indexed[idx]))
}

// scalar binds a scalar subtree: one Data child per stored sample.
func (d *decoder) scalar(s sampled, subtree *node.Group) (*ScalarProperty, error) {
	s.samples = make([]*node.Data, subtree.Len())
	for i := range s.samples {
		data, err := sampleData(subtree, i)
		if err != nil {
			return nil, err
		}
		s.samples[i] = data
	}

	if err := checkStored(s); err != nil {
		return nil, err
	}

	return &ScalarProperty{sampled: s}, nil
}

// array binds an array subtree: payload and dimension records alternate.
func (d *decoder) array(s sampled, subtree *node.Group) (*ArrayProperty, error) {
	if subtree.Len()%2 != 0 {
		return nil, fmt.Errorf("%w: array subtree has %d children, want payload and dimension pairs",
			errs.ErrChildCountMismatch, subtree.Len())
	}

	stored := subtree.Len() / 2
	p := &ArrayProperty{dims: make([][]uint32, stored)}
	s.samples = make([]*node.Data, stored)

	for i := range stored {
		data, err := sampleData(subtree, 2*i)
		if err != nil {
			return nil, err
		}
		s.samples[i] = data

		dimsData, err := subtree.Data(2*i + 1)
		if err != nil {
			return nil, fmt.Errorf("dimensions of stored sample %d: %w", i, err)
		}

		if p.dims[i], err = dimensions(s, data, dimsData); err != nil {
			return nil, fmt.Errorf("dimensions of stored sample %d: %w", i, err)
		}
	}

	if err := checkStored(s); err != nil {
		return nil, err
	}
	p.sampled = s

	return p, nil
}

// dimensions decodes a dimension record. An empty record on a fixed-size pod
// implies a single dimension derived from the payload length; on a string pod
// it yields nil.
func dimensions(s sampled, payload, record *node.Data) ([]uint32, error) {
	if record.Len() == 0 {
		pod := s.PodType()
		if pod.IsString() {
			return nil, nil
		}

		n := max(payload.Len()-section.SampleDigestSize, 0) / (pod.Size() * s.Extent())

		return []uint32{uint32(n)}, nil //nolint:gosec
	}

	if record.Len()%4 != 0 {
		return nil, fmt.Errorf("%w: %d-byte record", errs.ErrInvalidDimensions, record.Len())
	}

	engine := endian.GetLittleEndianEngine()
	b := record.Bytes()
	dims := make([]uint32, len(b)/4)
	for i := range dims {
		dims[i] = engine.Uint32(b[i*4:])
	}

	return dims, nil
}

func sampleData(subtree *node.Group, i int) (*node.Data, error) {
	data, err := subtree.Data(i)
	if err != nil {
		return nil, fmt.Errorf("stored sample %d: %w", i, err)
	}

	if data.Len() > 0 && data.Len() < section.SampleDigestSize {
		return nil, fmt.Errorf("%w: stored sample %d is %d bytes", errs.ErrShortSample, i, data.Len())
	}

	return data, nil
}

// checkStored verifies that every logical sample maps to a stored sample.
func checkStored(s sampled) error {
	if want := s.index.StoredCount(); want > len(s.samples) {
		return fmt.Errorf("%w: %d logical samples need %d stored, have %d",
			errs.ErrSampleIndexOutOfBounds, s.index.Next, want, len(s.samples))
	}

	return nil
}
