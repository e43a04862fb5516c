package section

import (
	"fmt"
	"unicode/utf8"

	"github.com/arloliu/ogawa/endian"
	"github.com/arloliu/ogawa/errs"
)

// HeaderReader walks the object and property header records stored in a
// Data node. It tracks the current offset and refuses to read past limit.
//
// Every out-of-bounds read returns ErrHeaderOutOfBounds: a header record that
// overruns its region is a malformed record, not a short file.
type HeaderReader struct {
	data   []byte
	offset int
	limit  int
	engine endian.EndianEngine
}

// NewHeaderReader returns a reader over data[:limit]. A limit larger than
// data or negative is an ErrHeaderOutOfBounds.
func NewHeaderReader(data []byte, limit int) (*HeaderReader, error) {
	if limit < 0 || limit > len(data) {
		return nil, fmt.Errorf("%w: header region of %d bytes in %d-byte blob", errs.ErrHeaderOutOfBounds, limit, len(data))
	}

	return &HeaderReader{
		data:   data,
		limit:  limit,
		engine: endian.GetLittleEndianEngine(),
	}, nil
}

// Offset returns the current read position.
func (r *HeaderReader) Offset() int {
	return r.offset
}

// More reports whether unread bytes remain in the region.
func (r *HeaderReader) More() bool {
	return r.offset < r.limit
}

// Uint8 reads one byte.
func (r *HeaderReader) Uint8() (uint8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	v := r.data[r.offset]
	r.offset++

	return v, nil
}

// Uint32 reads one little-endian u32.
func (r *HeaderReader) Uint32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := r.engine.Uint32(r.data[r.offset:])
	r.offset += 4

	return v, nil
}

// PropertyInfo reads one packed descriptor word.
func (r *HeaderReader) PropertyInfo() (PropertyInfo, error) {
	v, err := r.Uint32()

	return PropertyInfo(v), err
}

// Sized reads one integer whose width is selected by hint.
func (r *HeaderReader) Sized(hint SizeHint) (uint32, error) {
	if !hint.Valid() {
		return 0, fmt.Errorf("%w: %d at offset %d", errs.ErrInvalidSizeHint, hint, r.offset)
	}

	if err := r.require(hint.Width()); err != nil {
		return 0, err
	}

	v, err := hint.Read(r.data[:r.limit], r.offset)
	if err != nil {
		return 0, err
	}
	r.offset += hint.Width()

	return v, nil
}

// Bytes returns the next n bytes without copying.
func (r *HeaderReader) Bytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n

	return b, nil
}

// Name reads n bytes and validates them as UTF-8.
func (r *HeaderReader) Name(n int) (string, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %q at offset %d", errs.ErrInvalidName, b, r.offset-n)
	}

	return string(b), nil
}

func (r *HeaderReader) require(n int) error {
	if n < 0 || r.offset+n > r.limit {
		return fmt.Errorf("%w: %d bytes at offset %d, region ends at %d", errs.ErrHeaderOutOfBounds, n, r.offset, r.limit)
	}

	return nil
}
