package node

import (
	"slices"

	"github.com/arloliu/ogawa/internal/pool"
	"github.com/arloliu/ogawa/section"
)

// Serialize writes the store as an Ogawa byte stream.
//
// Layout: the 16-byte file header with write flag 0xFF, then one length
// prefixed record per distinct Data node in depth-first order, then the groups
// bottom-up, each as a child count followed by its pointer words. The root
// group's offset is patched into bytes 8-15 last.
//
// Nodes are deduplicated by identity: a node linked from several parents is
// written once and every slot points at the same offset, while two separate
// nodes with equal bytes are written twice. The graph is not modified.
func (s *Store) Serialize() ([]byte, error) {
	buf := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(buf)

	header := section.FileHeader{
		WriteFlag: section.WriteFlagWritten,
		Version:   s.header.Version,
	}
	buf.MustWrite(header.Bytes())

	w := &serializer{
		buf:          buf,
		dataOffsets:  make(map[*Data]uint64),
		groupOffsets: make(map[*Group]uint64),
	}

	w.writeData(s.root, make(map[*Group]struct{}))
	rootOffset := w.writeGroup(s.root)
	buf.PutUint64(section.RootPointerOffset, uint64(section.GroupPointer(rootOffset)))

	return slices.Clone(buf.Bytes()), nil
}

type serializer struct {
	buf          *pool.ByteBuffer
	dataOffsets  map[*Data]uint64
	groupOffsets map[*Group]uint64
}

// writeData emits every Data node reachable from g that has not been written yet.
func (w *serializer) writeData(g *Group, visited map[*Group]struct{}) {
	if _, ok := visited[g]; ok {
		return
	}
	visited[g] = struct{}{}

	for _, child := range g.children {
		switch n := child.(type) {
		case *Data:
			if _, ok := w.dataOffsets[n]; ok {
				continue
			}
			w.dataOffsets[n] = uint64(w.buf.Len())
			w.buf.Grow(section.LengthSize + n.Len())
			w.buf.WriteUint64(uint64(n.Len()))
			w.buf.MustWrite(n.Bytes())
		case *Group:
			w.writeData(n, visited)
		}
	}
}

// writeGroup emits g after all of its descendant groups and returns its offset.
func (w *serializer) writeGroup(g *Group) uint64 {
	if offset, ok := w.groupOffsets[g]; ok {
		return offset
	}

	pointers := make([]section.Pointer, len(g.children))
	for i, child := range g.children {
		switch n := child.(type) {
		case *Data:
			pointers[i] = section.DataPointer(w.dataOffsets[n])
		case *Group:
			pointers[i] = section.GroupPointer(w.writeGroup(n))
		}
	}

	offset := uint64(w.buf.Len())
	w.buf.Grow(section.LengthSize + len(pointers)*section.PointerSize)
	w.buf.WriteUint64(uint64(len(pointers)))
	for _, p := range pointers {
		w.buf.WriteUint64(uint64(p))
	}
	w.groupOffsets[g] = offset

	return offset
}
