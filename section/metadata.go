package section

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arloliu/ogawa/errs"
)

const (
	metadataPairSeparator  = ";"
	metadataValueSeparator = "="
)

// ParseMetadata decodes a `;`-separated list of `key=value` pairs.
//
// An empty blob yields an empty map. Empty items (a trailing `;`) are skipped,
// the value extends from the first `=` to the end of the item, and a repeated
// key keeps its last value.
//
// Returns:
//   - map[string]string: decoded pairs, never nil
//   - error: ErrInvalidMetadata if an item has no `=`
func ParseMetadata(blob []byte) (map[string]string, error) {
	md := make(map[string]string)
	if len(blob) == 0 {
		return md, nil
	}

	for item := range strings.SplitSeq(string(blob), metadataPairSeparator) {
		if item == "" {
			continue
		}

		key, value, ok := strings.Cut(item, metadataValueSeparator)
		if !ok {
			return nil, fmt.Errorf("%w: item %q has no '='", errs.ErrInvalidMetadata, item)
		}

		md[key] = value
	}

	return md, nil
}

// FormatMetadata encodes md as `key=value` pairs joined by `;`, keys sorted so
// that equal maps always produce equal blobs.
func FormatMetadata(md map[string]string) string {
	if len(md) == 0 {
		return ""
	}

	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(metadataPairSeparator)
		}
		sb.WriteString(k)
		sb.WriteString(metadataValueSeparator)
		sb.WriteString(md[k])
	}

	return sb.String()
}

// ParseIndexedMetadata decodes the indexed metadata table.
//
// The table is a sequence of (u8 length, bytes) records. Index 0 of the result
// is always the empty string; record i of the table lands at index i+1.
//
// Returns ErrTruncated if a record's length runs past the end of table.
func ParseIndexedMetadata(table []byte) ([]string, error) {
	entries := []string{""}

	offset := 0
	for offset < len(table) {
		size := int(table[offset])
		offset++

		if offset+size > len(table) {
			return nil, fmt.Errorf("%w: indexed metadata record %d needs %d bytes at offset %d, table length %d",
				errs.ErrTruncated, len(entries), size, offset, len(table))
		}

		entries = append(entries, string(table[offset:offset+size]))
		offset += size
	}

	return entries, nil
}

// AppendIndexedMetadata encodes entries as a table, skipping the reserved
// slot 0. entries[0] must be the empty string.
func AppendIndexedMetadata(buf []byte, entries []string) ([]byte, error) {
	if len(entries) > MaxIndexedMetadata {
		return buf, fmt.Errorf("%w: %d entries", errs.ErrMetadataTableFull, len(entries))
	}

	for i, entry := range entries {
		if i == 0 {
			continue
		}

		if len(entry) > MaxMetadataLength {
			return buf, fmt.Errorf("%w: entry %d is %d bytes", errs.ErrMetadataTooLong, i, len(entry))
		}

		buf = append(buf, uint8(len(entry))) //nolint:gosec
		buf = append(buf, entry...)
	}

	return buf, nil
}
