package section

import (
	"fmt"

	"github.com/arloliu/ogawa/format"
)

// Pointer is a tagged child reference as stored in a group's slot table.
//
// Bit 63 selects the record kind (0 = Group, 1 = Data); the remaining 63 bits
// are the record's byte offset in the file.
type Pointer uint64

// GroupPointer returns the pointer word for a Group record at offset.
func GroupPointer(offset uint64) Pointer {
	return Pointer(offset & OffsetMask)
}

// DataPointer returns the pointer word for a Data record at offset.
func DataPointer(offset uint64) Pointer {
	return Pointer((offset & OffsetMask) | DataPointerFlag)
}

// IsData reports whether p references a Data record.
func (p Pointer) IsData() bool {
	return uint64(p)&DataPointerFlag != 0
}

// Kind returns the kind of record p references.
func (p Pointer) Kind() format.NodeKind {
	if p.IsData() {
		return format.KindData
	}

	return format.KindGroup
}

// Offset returns the file offset with the kind bit cleared.
func (p Pointer) Offset() uint64 {
	return uint64(p) & OffsetMask
}

// IsEmpty reports whether p is the zero-offset sentinel for an empty record.
func (p Pointer) IsEmpty() bool {
	return p.Offset() == 0
}

func (p Pointer) String() string {
	return fmt.Sprintf("%s@%d", p.Kind(), p.Offset())
}
