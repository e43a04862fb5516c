package builder

import (
	"fmt"
	"math"

	"github.com/arloliu/ogawa/endian"
	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/internal/collision"
	"github.com/arloliu/ogawa/internal/hash"
	"github.com/arloliu/ogawa/internal/pool"
	"github.com/arloliu/ogawa/node"
	"github.com/arloliu/ogawa/section"
)

// Archive assembles an object tree and encodes it as an archive node graph.
//
// Note: an Archive is NOT thread-safe. Build it from a single goroutine.
type Archive struct {
	cfg   *Config
	root  *Object
	stats Stats
}

// Stats describes the stored records written by the last Build.
type Stats struct {
	// SampleRecords is the number of distinct stored sample records.
	SampleRecords int
	// DimensionRecords is the number of distinct array dimension records.
	DimensionRecords int
	// HashCollision reports whether two distinct records shared a hash.
	// Such records are still stored apart.
	HashCollision bool
}

// New creates an empty archive builder.
//
// Parameters:
//   - opts: archive-level settings (WithArchiveVersion, WithFileVersion,
//     WithArchiveMetadata, WithTimeSampling)
//
// Returns:
//   - *Archive: builder with an empty root object
//   - error: an invalid option
func New(opts ...Option) (*Archive, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Archive{
		cfg:  cfg,
		root: newObject("ABC", cfg.metadata),
	}, nil
}

// Root returns the top-level object. Its metadata is the archive metadata.
func (a *Archive) Root() *Object {
	return a.root
}

// Build encodes the archive into a node graph ready for Serialize.
//
// Metadata blobs are interned into the indexed table in the order a
// streaming writer would emit them.
// Object metadata that does not fit the table is written inline; property
// metadata must fit. Sample sequences are compacted and identical stored
// samples share one node.
//
// Returns:
//   - *node.Store: the encoded graph
//   - error: ErrMetadataTooLong or ErrMetadataTableFull for metadata the format
//     cannot address, ErrValueTooLarge for a field beyond 32 bits
func (a *Archive) Build() (*node.Store, error) {
	table := newMetadataTable()
	internObject(table, a.root)

	e := &encoder{
		table:   table,
		samples: collision.NewTracker[*node.Data](),
		dims:    collision.NewTracker[*node.Data](),
		engine:  endian.GetLittleEndianEngine(),
	}

	objects, err := e.object(a.root)
	if err != nil {
		return nil, err
	}

	tableBytes, err := table.bytes()
	if err != nil {
		return nil, err
	}

	root := node.NewGroup(
		node.NewData(e.engine.AppendUint32(nil, a.cfg.archiveVersion)),
		node.NewData(e.engine.AppendUint32(nil, a.cfg.fileVersion)),
		objects,
		node.NewData([]byte(section.FormatMetadata(a.cfg.metadata))),
		node.NewData(section.AppendTimeSamplings(nil, a.cfg.timeSamplings)),
		node.NewData(tableBytes),
	)

	a.stats = Stats{
		SampleRecords:    e.samples.Count(),
		DimensionRecords: e.dims.Count(),
		HashCollision:    e.samples.HasCollision() || e.dims.HasCollision(),
	}

	return node.New(root), nil
}

// Stats returns the record counts of the last successful Build.
func (a *Archive) Stats() Stats {
	return a.stats
}

// internObject interns metadata in the order a streaming writer closes
// records: an object's properties, then each child subtree, then the child
// header entries naming those children.
func internObject(table *metadataTable, obj *Object) {
	internCompound(table, obj.properties)
	for _, child := range obj.children {
		internObject(table, child)
	}

	for _, child := range obj.children {
		table.intern(section.FormatMetadata(child.metadata))
	}
}

func internCompound(table *metadataTable, c *Compound) {
	for _, child := range c.children {
		table.intern(section.FormatMetadata(child.meta()))
		if sub, ok := child.(*Compound); ok {
			internCompound(table, sub)
		}
	}
}

type encoder struct {
	table *metadataTable
	// samples and dims share stored records with identical bytes.
	samples *collision.Tracker[*node.Data]
	dims    *collision.Tracker[*node.Data]
	engine  endian.EndianEngine
}

// object encodes obj as [property tree, child subtrees..., child headers].
func (e *encoder) object(obj *Object) (*node.Group, error) {
	propTree, descriptors, err := e.compound(obj.properties)
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", obj.name, err)
	}

	headers := pool.GetHeaderBuffer()
	defer pool.PutHeaderBuffer(headers)

	children := make([]node.Node, 0, len(obj.children)+2)
	children = append(children, propTree)

	for _, child := range obj.children {
		headers.B = e.engine.AppendUint32(headers.B, uint32(len(child.name))) //nolint:gosec
		headers.MustWrite([]byte(child.name))
		if headers.B, err = e.table.objectSelector(headers.B, section.FormatMetadata(child.metadata)); err != nil {
			return nil, fmt.Errorf("object %q: %w", child.name, err)
		}

		subtree, err := e.object(child)
		if err != nil {
			return nil, err
		}
		children = append(children, subtree)
	}

	trailer := hash.Trailer(descriptors, headers.Bytes())
	blob := make([]byte, 0, headers.Len()+len(trailer))
	blob = append(blob, headers.Bytes()...)
	blob = append(blob, trailer[:]...)
	children = append(children, node.NewData(blob))

	return node.NewGroup(children...), nil
}

// compound encodes c as [child subtrees..., descriptors]. A compound without
// children is an empty group.
func (e *encoder) compound(c *Compound) (*node.Group, []byte, error) {
	if len(c.children) == 0 {
		return node.NewGroup(), nil, nil
	}

	var descriptors []byte
	subtrees := make([]node.Node, 0, len(c.children)+1)

	for _, child := range c.children {
		mdIndex, err := e.table.propertyIndex(section.FormatMetadata(child.meta()))
		if err != nil {
			return nil, nil, fmt.Errorf("property %q: %w", child.Name(), err)
		}

		var subtree *node.Group
		switch p := child.(type) {
		case *Compound:
			if subtree, _, err = e.compound(p); err != nil {
				return nil, nil, err
			}
			descriptors, err = appendDescriptor(descriptors, descriptorFields{
				kind:          format.PropertyCompound,
				metadataIndex: mdIndex,
				name:          p.name,
			})
		case *Scalar:
			subtree, descriptors, err = e.scalar(p, mdIndex, descriptors)
		case *Array:
			subtree, descriptors, err = e.array(p, mdIndex, descriptors)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("property %q: %w", child.Name(), err)
		}

		subtrees = append(subtrees, subtree)
	}

	subtrees = append(subtrees, node.NewData(descriptors))

	return node.NewGroup(subtrees...), descriptors, nil
}

func (e *encoder) scalar(s *Scalar, mdIndex uint8, descriptors []byte) (*node.Group, []byte, error) {
	c := compact(s.samples)

	stored := make([]node.Node, len(c.stored))
	for i, pos := range c.stored {
		stored[i] = e.sampleRecord(s.samples[pos].payload)
	}

	descriptors, err := appendDescriptor(descriptors, s.fields(format.PropertyScalar, mdIndex, c, false))

	return node.NewGroup(stored...), descriptors, err
}

func (e *encoder) array(a *Array, mdIndex uint8, descriptors []byte) (*node.Group, []byte, error) {
	c := compact(a.samples)

	stored := make([]node.Node, 0, 2*len(c.stored))
	for _, pos := range c.stored {
		smp := a.samples[pos]
		stored = append(stored, e.sampleRecord(smp.payload), e.dimsRecord(smp.dims))
	}

	descriptors, err := appendDescriptor(descriptors, a.fields(format.PropertyArray, mdIndex, c, a.homogeneous()))

	return node.NewGroup(stored...), descriptors, err
}

// sampleRecord returns the [digest][payload] record for payload, reusing the
// node of an earlier identical sample.
func (e *encoder) sampleRecord(payload []byte) *node.Data {
	digest := hash.Digest(payload)
	record := make([]byte, 0, len(digest)+len(payload))
	record = append(record, digest[:]...)
	record = append(record, payload...)

	data, _ := e.samples.LoadOrStore(record, func() *node.Data {
		return node.NewData(record)
	})

	return data
}

// dimsRecord returns the dimension record for dims; nil dims give the empty
// record that implies the dimensions from the payload length.
func (e *encoder) dimsRecord(dims []uint32) *node.Data {
	record := make([]byte, 0, 4*len(dims))
	for _, dim := range dims {
		record = e.engine.AppendUint32(record, dim)
	}

	data, _ := e.dims.LoadOrStore(record, func() *node.Data {
		return node.NewData(record)
	})

	return data
}

func (s *sampled) fields(kind format.PropertyKind, mdIndex uint8, c compaction, homogeneous bool) descriptorFields {
	return descriptorFields{
		kind:              kind,
		pod:               s.pod,
		extent:            uint8(s.extent), //nolint:gosec
		metadataIndex:     mdIndex,
		homogeneous:       homogeneous,
		compaction:        c,
		hasTimeSampling:   s.hasTimeSampling,
		timeSamplingIndex: s.timeSamplingIndex,
		name:              s.name,
	}
}

// descriptorFields is the content of one property record.
type descriptorFields struct {
	kind              format.PropertyKind
	pod               format.PodType
	extent            uint8
	metadataIndex     uint8
	homogeneous       bool
	compaction        compaction
	hasTimeSampling   bool
	timeSamplingIndex uint32
	name              string
}

// appendDescriptor encodes f with the narrowest size hint able to hold every
// variable-width field.
func appendDescriptor(buf []byte, f descriptorFields) ([]byte, error) {
	values := []int{len(f.name)}
	if f.kind != format.PropertyCompound {
		values = append(values, f.compaction.next, f.compaction.first, f.compaction.last, int(f.timeSamplingIndex))
	}

	widest := 0
	for _, v := range values {
		widest = max(widest, v)
	}

	if uint64(widest) > math.MaxUint32 {
		return buf, fmt.Errorf("%w: %d", errs.ErrValueTooLarge, widest)
	}

	hint := section.SizeHintFor(uint32(widest)) //nolint:gosec
	info := section.NewPropertyInfo(f.kind, hint).WithMetadataIndex(f.metadataIndex)

	var fields []uint32
	if f.kind != format.PropertyCompound {
		info = info.
			WithPodType(f.pod).
			WithExtent(f.extent).
			WithHomogeneous(f.homogeneous).
			WithTimeSamplingIndex(f.hasTimeSampling).
			WithChangedIndexLayout(f.compaction.layout)

		fields = append(fields, uint32(f.compaction.next)) //nolint:gosec
		if f.compaction.layout == section.ChangedIndexExplicit {
			fields = append(fields, uint32(f.compaction.first), uint32(f.compaction.last)) //nolint:gosec
		}

		if f.hasTimeSampling {
			fields = append(fields, f.timeSamplingIndex)
		}
	}
	fields = append(fields, uint32(len(f.name))) //nolint:gosec

	buf = endian.GetLittleEndianEngine().AppendUint32(buf, uint32(info))

	var err error
	for _, v := range fields {
		if buf, err = hint.Append(buf, v); err != nil {
			return buf, err
		}
	}

	return append(buf, f.name...), nil
}
