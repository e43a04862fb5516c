package node

import (
	"fmt"

	"github.com/arloliu/ogawa/endian"
	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/section"
)

// decoder resolves pointer words into nodes.
//
// Records are memoized by offset so that a record referenced from several
// slots decodes to a single node, preserving sharing across a round trip.
type decoder struct {
	buf    []byte
	engine endian.EndianEngine
	groups map[uint64]*Group
	datas  map[uint64]*Data
	// open holds the offsets of groups whose children are being resolved.
	open map[uint64]struct{}
}

// Decode parses buf into a Store.
//
// The whole graph reachable from the root pointer is resolved eagerly. Data
// nodes are views into buf, which must not be modified afterwards.
//
// Returns:
//   - *Store: the decoded graph
//   - error: ErrInvalidMagic for a foreign buffer, ErrUnexpectedNodeKind if the
//     root pointer names a Data record, ErrInvalidPointer or ErrPointerCycle for
//     a corrupt pointer, ErrTruncated if a record runs past the end of buf
func Decode(buf []byte) (*Store, error) {
	header, err := section.ParseFileHeader(buf)
	if err != nil {
		return nil, err
	}

	if header.Root.IsData() {
		return nil, fmt.Errorf("%w: root pointer %s", errs.ErrUnexpectedNodeKind, header.Root)
	}

	d := &decoder{
		buf:    buf,
		engine: endian.GetLittleEndianEngine(),
		groups: make(map[uint64]*Group),
		datas:  make(map[uint64]*Data),
		open:   make(map[uint64]struct{}),
	}

	root, err := d.group(header.Root.Offset())
	if err != nil {
		return nil, err
	}

	return &Store{header: header, root: root}, nil
}

func (d *decoder) resolve(p section.Pointer) (Node, error) {
	if p.Kind() == format.KindData {
		return d.data(p.Offset())
	}

	return d.group(p.Offset())
}

func (d *decoder) group(offset uint64) (*Group, error) {
	if offset == 0 {
		return NewGroup(), nil
	}

	if g, ok := d.groups[offset]; ok {
		return g, nil
	}

	if _, ok := d.open[offset]; ok {
		return nil, fmt.Errorf("%w: group at offset %d references itself", errs.ErrPointerCycle, offset)
	}

	count, start, err := d.recordHeader(offset, "group")
	if err != nil {
		return nil, err
	}

	// each child is one pointer word
	if count > uint64(len(d.buf)-start)/section.PointerSize {
		return nil, fmt.Errorf("%w: group at offset %d declares %d children, %d bytes left",
			errs.ErrTruncated, offset, count, len(d.buf)-start)
	}

	d.open[offset] = struct{}{}
	defer delete(d.open, offset)

	children := make([]Node, count)
	for i := range children {
		pos := start + i*section.PointerSize
		child, err := d.resolve(section.Pointer(d.engine.Uint64(d.buf[pos:])))
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	g := &Group{children: children}
	d.groups[offset] = g

	return g, nil
}

func (d *decoder) data(offset uint64) (*Data, error) {
	if offset == 0 {
		return NewData(nil), nil
	}

	if dn, ok := d.datas[offset]; ok {
		return dn, nil
	}

	size, start, err := d.recordHeader(offset, "data")
	if err != nil {
		return nil, err
	}

	if size > uint64(len(d.buf)-start) {
		return nil, fmt.Errorf("%w: data at offset %d declares %d bytes, %d bytes left",
			errs.ErrTruncated, offset, size, len(d.buf)-start)
	}

	end := start + int(size) //nolint:gosec
	dn := NewData(d.buf[start:end:end])
	d.datas[offset] = dn

	return dn, nil
}

// recordHeader validates offset and reads the u64 that opens every record.
// It returns that value and the offset of the first byte after it.
func (d *decoder) recordHeader(offset uint64, what string) (uint64, int, error) {
	if offset < section.FileHeaderSize || offset > uint64(len(d.buf)) {
		return 0, 0, fmt.Errorf("%w: %s at offset %d, file length %d", errs.ErrInvalidPointer, what, offset, len(d.buf))
	}

	start := int(offset) + section.LengthSize //nolint:gosec
	if start > len(d.buf) {
		return 0, 0, fmt.Errorf("%w: %s header at offset %d, file length %d", errs.ErrTruncated, what, offset, len(d.buf))
	}

	return d.engine.Uint64(d.buf[offset:]), start, nil
}
