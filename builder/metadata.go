package builder

import (
	"fmt"

	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/section"
)

// metadataTable interns metadata blobs into the indexed metadata table.
// Slot 0 is the empty string.
type metadataTable struct {
	entries []string
	index   map[string]uint8
}

func newMetadataTable() *metadataTable {
	return &metadataTable{
		entries: []string{""},
		index:   map[string]uint8{"": 0},
	}
}

// intern adds blob to the table if there is room and returns its index.
func (t *metadataTable) intern(blob string) (uint8, bool) {
	if idx, ok := t.index[blob]; ok {
		return idx, true
	}

	if len(blob) > section.MaxMetadataLength || len(t.entries) >= section.MaxIndexedMetadata {
		return 0, false
	}

	idx := uint8(len(t.entries)) //nolint:gosec
	t.entries = append(t.entries, blob)
	t.index[blob] = idx

	return idx, true
}

// lookup returns the index of an interned blob.
func (t *metadataTable) lookup(blob string) (uint8, bool) {
	idx, ok := t.index[blob]
	return idx, ok
}

// objectSelector returns the child header bytes that encode blob: an indexed
// selector, or an inline length followed by the blob. A blob can be inlined
// only if its length is not a valid index into the final table.
func (t *metadataTable) objectSelector(buf []byte, blob string) ([]byte, error) {
	if idx, ok := t.lookup(blob); ok {
		return append(buf, idx), nil
	}

	if len(blob) > section.MaxMetadataLength {
		return buf, fmt.Errorf("%w: %d bytes", errs.ErrMetadataTooLong, len(blob))
	}

	if len(blob) < len(t.entries) {
		return buf, fmt.Errorf("%w: %d-byte inline metadata would read as table index", errs.ErrMetadataTableFull, len(blob))
	}

	buf = append(buf, uint8(len(blob))) //nolint:gosec

	return append(buf, blob...), nil
}

// propertyIndex returns the table index for a property's metadata. Properties
// have no inline form.
func (t *metadataTable) propertyIndex(blob string) (uint8, error) {
	if idx, ok := t.lookup(blob); ok {
		return idx, nil
	}

	if len(blob) > section.MaxMetadataLength {
		return 0, fmt.Errorf("%w: %d bytes", errs.ErrMetadataTooLong, len(blob))
	}

	return 0, fmt.Errorf("%w: %d entries", errs.ErrMetadataTableFull, len(t.entries))
}

func (t *metadataTable) bytes() ([]byte, error) {
	return section.AppendIndexedMetadata(nil, t.entries)
}
