package section

import (
	"fmt"
	"math"

	"github.com/arloliu/ogawa/endian"
	"github.com/arloliu/ogawa/errs"
)

// SizeHint is the 2-bit code selecting the width of variable-width header
// integers: 0 = u8, 1 = u16, 2 = u32. Code 3 is invalid.
type SizeHint uint8

const (
	SizeHint8  SizeHint = 0
	SizeHint16 SizeHint = 1
	SizeHint32 SizeHint = 2
)

var sizeHintWidths = [3]int{1, 2, 4}

// Valid reports whether h is one of the three defined codes.
func (h SizeHint) Valid() bool {
	return h <= SizeHint32
}

// Width returns the byte width selected by h, or 0 for an invalid code.
func (h SizeHint) Width() int {
	if !h.Valid() {
		return 0
	}

	return sizeHintWidths[h]
}

// Max returns the largest value representable in h's width.
func (h SizeHint) Max() uint32 {
	switch h {
	case SizeHint8:
		return math.MaxUint8
	case SizeHint16:
		return math.MaxUint16
	default:
		return math.MaxUint32
	}
}

// Read decodes one little-endian integer of h's width from data at offset.
//
// Returns:
//   - uint32: the decoded value, widened
//   - error: ErrInvalidSizeHint for code 3, ErrTruncated if data is too short
func (h SizeHint) Read(data []byte, offset int) (uint32, error) {
	width := h.Width()
	if width == 0 {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidSizeHint, h)
	}

	if offset < 0 || offset+width > len(data) {
		return 0, fmt.Errorf("%w: %d-byte field at offset %d, length %d", errs.ErrTruncated, width, offset, len(data))
	}

	engine := endian.GetLittleEndianEngine()
	switch h {
	case SizeHint8:
		return uint32(data[offset]), nil
	case SizeHint16:
		return uint32(engine.Uint16(data[offset:])), nil
	default:
		return engine.Uint32(data[offset:]), nil
	}
}

// Append encodes v in h's width and appends it to buf.
//
// Returns ErrValueTooLarge when v does not fit.
func (h SizeHint) Append(buf []byte, v uint32) ([]byte, error) {
	if !h.Valid() {
		return buf, fmt.Errorf("%w: %d", errs.ErrInvalidSizeHint, h)
	}

	if v > h.Max() {
		return buf, fmt.Errorf("%w: %d does not fit in %d bytes", errs.ErrValueTooLarge, v, h.Width())
	}

	engine := endian.GetLittleEndianEngine()
	switch h {
	case SizeHint8:
		return append(buf, uint8(v)), nil //nolint:gosec
	case SizeHint16:
		return engine.AppendUint16(buf, uint16(v)), nil //nolint:gosec
	default:
		return engine.AppendUint32(buf, v), nil
	}
}

// SizeHintFor returns the narrowest hint able to hold every value up to maxValue.
func SizeHintFor(maxValue uint32) SizeHint {
	switch {
	case maxValue <= math.MaxUint8:
		return SizeHint8
	case maxValue <= math.MaxUint16:
		return SizeHint16
	default:
		return SizeHint32
	}
}
