package node

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/arloliu/ogawa/endian"
	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
)

// Node is one record of the archive graph: a *Group or a *Data.
//
// The set of implementations is closed; callers switch on the concrete type.
type Node interface {
	// Kind reports which record type the node is.
	Kind() format.NodeKind

	sealed()
}

var (
	_ Node = (*Group)(nil)
	_ Node = (*Data)(nil)
)

// Group is an ordered list of child nodes. Child order is significant: most
// groups of an archive use fixed positions for specific slots.
//
// A Group is immutable once constructed and safe for concurrent reads. The same
// child may appear in several groups; serialization writes it once.
type Group struct {
	children []Node
}

// NewGroup creates a group holding children in order. The slice is copied.
func NewGroup(children ...Node) *Group {
	return &Group{children: slices.Clone(children)}
}

// Kind returns format.KindGroup.
func (g *Group) Kind() format.NodeKind { return format.KindGroup }

func (g *Group) sealed() {}

// Len returns the number of children.
func (g *Group) Len() int {
	return len(g.children)
}

// Child returns the child at index i.
//
// Negative indices count from the end, so Child(-1) is the last child.
func (g *Group) Child(i int) (Node, error) {
	idx := i
	if idx < 0 {
		idx += len(g.children)
	}

	if idx < 0 || idx >= len(g.children) {
		return nil, fmt.Errorf("%w: child %d of group with %d children", errs.ErrIndexOutOfRange, i, len(g.children))
	}

	return g.children[idx], nil
}

// Group returns the child at index i, which must be a *Group.
//
// Returns ErrUnexpectedNodeKind if the child is a *Data.
func (g *Group) Group(i int) (*Group, error) {
	child, err := g.Child(i)
	if err != nil {
		return nil, err
	}

	grp, ok := child.(*Group)
	if !ok {
		return nil, fmt.Errorf("%w: child %d is %s, want Group", errs.ErrUnexpectedNodeKind, i, child.Kind())
	}

	return grp, nil
}

// Data returns the child at index i, which must be a *Data.
//
// Returns ErrUnexpectedNodeKind if the child is a *Group.
func (g *Group) Data(i int) (*Data, error) {
	child, err := g.Child(i)
	if err != nil {
		return nil, err
	}

	data, ok := child.(*Data)
	if !ok {
		return nil, fmt.Errorf("%w: child %d is %s, want Data", errs.ErrUnexpectedNodeKind, i, child.Kind())
	}

	return data, nil
}

// Children returns a copy of the child list.
func (g *Group) Children() []Node {
	return slices.Clone(g.children)
}

// All returns an iterator over (index, child) pairs in order.
func (g *Group) All() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		for i, child := range g.children {
			if !yield(i, child) {
				return
			}
		}
	}
}

// Data is an immutable byte payload.
//
// A decoded Data is a view into the buffer passed to Decode; the bytes are not
// copied. Numeric readers are little-endian and take a byte offset into the
// payload.
type Data struct {
	b []byte
}

// NewData creates a data node over b. The slice is retained, not copied.
func NewData(b []byte) *Data {
	return &Data{b: b}
}

// Kind returns format.KindData.
func (d *Data) Kind() format.NodeKind { return format.KindData }

func (d *Data) sealed() {}

// Len returns the payload length in bytes.
func (d *Data) Len() int {
	return len(d.b)
}

// Bytes returns the payload. Callers must not modify it.
func (d *Data) Bytes() []byte {
	return d.b
}

// Uint8 reads one byte at offset.
func (d *Data) Uint8(offset int) (uint8, error) {
	if err := d.check(offset, 1); err != nil {
		return 0, err
	}

	return d.b[offset], nil
}

// Uint16 reads a little-endian u16 at offset.
func (d *Data) Uint16(offset int) (uint16, error) {
	if err := d.check(offset, 2); err != nil {
		return 0, err
	}

	return endian.GetLittleEndianEngine().Uint16(d.b[offset:]), nil
}

// Uint32 reads a little-endian u32 at offset.
func (d *Data) Uint32(offset int) (uint32, error) {
	if err := d.check(offset, 4); err != nil {
		return 0, err
	}

	return endian.GetLittleEndianEngine().Uint32(d.b[offset:]), nil
}

// Uint64 reads a little-endian u64 at offset.
func (d *Data) Uint64(offset int) (uint64, error) {
	if err := d.check(offset, 8); err != nil {
		return 0, err
	}

	return endian.GetLittleEndianEngine().Uint64(d.b[offset:]), nil
}

// Int8 reads one signed byte at offset.
func (d *Data) Int8(offset int) (int8, error) {
	v, err := d.Uint8(offset)
	return int8(v), err //nolint:gosec
}

// Int16 reads a little-endian i16 at offset.
func (d *Data) Int16(offset int) (int16, error) {
	v, err := d.Uint16(offset)
	return int16(v), err //nolint:gosec
}

// Int32 reads a little-endian i32 at offset.
func (d *Data) Int32(offset int) (int32, error) {
	v, err := d.Uint32(offset)
	return int32(v), err //nolint:gosec
}

// Int64 reads a little-endian i64 at offset.
func (d *Data) Int64(offset int) (int64, error) {
	v, err := d.Uint64(offset)
	return int64(v), err //nolint:gosec
}

// Float32 reads a little-endian IEEE 754 binary32 at offset.
func (d *Data) Float32(offset int) (float32, error) {
	v, err := d.Uint32(offset)
	return math.Float32frombits(v), err
}

// Float64 reads a little-endian IEEE 754 binary64 at offset.
func (d *Data) Float64(offset int) (float64, error) {
	v, err := d.Uint64(offset)
	return math.Float64frombits(v), err
}

func (d *Data) check(offset, size int) error {
	if offset < 0 || offset > len(d.b)-size {
		return fmt.Errorf("%w: %d-byte read at offset %d of %d-byte data", errs.ErrTruncated, size, offset, len(d.b))
	}

	return nil
}
