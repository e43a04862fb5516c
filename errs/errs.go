// Package errs defines the sentinel errors returned by the ogawa packages.
//
// Errors fall into five kinds. Every specific error wraps exactly one kind,
// so callers can match either the precise condition or its kind:
//
//	if errors.Is(err, errs.ErrCorrupt) {
//	    // the buffer is not a valid archive
//	}
//
// ErrFormat, ErrTruncated and ErrCorrupt are fatal for the buffer being
// decoded. ErrNotFound is a normal negative result of a lookup.
// ErrUnsupportedType reports a pod type the accessor layer cannot split.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrFormat reports a wrong magic or an unsupported top-level layout.
	ErrFormat = errors.New("ogawa: format error")
	// ErrTruncated reports a read past the end of a buffer.
	ErrTruncated = errors.New("ogawa: truncated data")
	// ErrCorrupt reports a violated internal invariant.
	ErrCorrupt = errors.New("ogawa: corrupt data")
	// ErrNotFound reports a missing path segment, name, or index.
	ErrNotFound = errors.New("ogawa: not found")
	// ErrUnsupportedType reports a pod type that cannot be decoded here.
	ErrUnsupportedType = errors.New("ogawa: unsupported type")
)

// Format errors.
var (
	ErrInvalidMagic       = kind(ErrFormat, "invalid magic")
	ErrMissingHeaderSlot  = kind(ErrFormat, "missing archive header slot")
	ErrUnexpectedNodeKind = kind(ErrFormat, "unexpected node kind")
	ErrUnsupportedTree    = kind(ErrFormat, "unsupported tree element")
	ErrInvalidCompression = kind(ErrFormat, "invalid compression type")
)

// Corruption errors.
var (
	ErrInvalidPointer         = kind(ErrCorrupt, "pointer out of range")
	ErrPointerCycle           = kind(ErrCorrupt, "pointer cycle")
	ErrInvalidSizeHint        = kind(ErrCorrupt, "invalid size hint")
	ErrInvalidPodType         = kind(ErrCorrupt, "invalid pod type")
	ErrInvalidName            = kind(ErrCorrupt, "invalid utf-8 name")
	ErrInvalidMetadata        = kind(ErrCorrupt, "invalid metadata")
	ErrReservedMetadataIndex  = kind(ErrCorrupt, "reserved metadata index")
	ErrHeaderOutOfBounds      = kind(ErrCorrupt, "header record out of bounds")
	ErrChildCountMismatch     = kind(ErrCorrupt, "child count mismatch")
	ErrSampleIndexOutOfBounds = kind(ErrCorrupt, "stored sample index out of bounds")
	ErrInvalidDimensions      = kind(ErrCorrupt, "invalid dimension record")
	ErrInvalidChangedIndices  = kind(ErrCorrupt, "invalid first/last changed indices")
	ErrZeroExtent             = kind(ErrCorrupt, "extent is zero")
	ErrShortSample            = kind(ErrCorrupt, "stored sample shorter than its digest")
	ErrPayloadSize            = kind(ErrCorrupt, "sample payload is not a whole number of values")
)

// Lookup errors.
var (
	ErrInvalidPath       = kind(ErrNotFound, "object path must start with /")
	ErrObjectNotFound    = kind(ErrNotFound, "object not found")
	ErrPropertyNotFound  = kind(ErrNotFound, "property not found")
	ErrIndexOutOfRange   = kind(ErrNotFound, "index out of range")
	ErrSchemaNotFound    = kind(ErrNotFound, "schema not registered")
	ErrMetadataKeyAbsent = kind(ErrNotFound, "metadata key not present")
)

// Builder errors. They report caller input the format cannot represent.
var (
	ErrMetadataTooLong   = errors.New("ogawa: metadata longer than 255 bytes")
	ErrMetadataTableFull = errors.New("ogawa: indexed metadata table is full")
	ErrValueTooLarge     = errors.New("ogawa: value exceeds field width")
	ErrInvalidExtent     = errors.New("ogawa: extent must be between 1 and 255")
	ErrDuplicateName     = errors.New("ogawa: duplicate sibling name")
	ErrSampleSize        = errors.New("ogawa: sample size does not match pod type and extent")
	ErrInvalidObjectName = errors.New("ogawa: object name must be non-empty and free of '/'")
)

func kind(k error, msg string) error {
	return fmt.Errorf("%w: %s", k, msg)
}
