package section

import (
	"fmt"

	"github.com/arloliu/ogawa/endian"
	"github.com/arloliu/ogawa/errs"
)

// FileHeader represents the fixed 16-byte header at the start of an archive.
type FileHeader struct {
	// WriteFlag is 0xFF once the writer closed the archive.
	WriteFlag uint8 // byte offset 5
	// Version is the (major, minor) format version pair.
	Version [2]uint8 // byte offset 6-7
	// Root references the root group.
	Root Pointer // byte offset 8-15
}

// NewFileHeader creates a header for a finished archive with the default version.
func NewFileHeader() FileHeader {
	return FileHeader{
		WriteFlag: WriteFlagWritten,
		Version:   [2]uint8{VersionMajor, VersionMinor},
	}
}

// Parse parses the header from the first FileHeaderSize bytes of data.
//
// Returns:
//   - error: ErrInvalidMagic on a signature mismatch, ErrTruncated if data
//     ends before the root pointer
func (h *FileHeader) Parse(data []byte) error {
	if len(data) < MagicSize || string(data[:MagicSize]) != Magic {
		return fmt.Errorf("%w: %q", errs.ErrInvalidMagic, data[:min(len(data), MagicSize)])
	}

	if len(data) < FileHeaderSize {
		return fmt.Errorf("%w: file header needs %d bytes, have %d", errs.ErrTruncated, FileHeaderSize, len(data))
	}

	engine := endian.GetLittleEndianEngine()

	h.WriteFlag = data[WriteFlagOffset]
	h.Version = [2]uint8{data[VersionOffset], data[VersionOffset+1]}
	h.Root = Pointer(engine.Uint64(data[RootPointerOffset:FileHeaderSize]))

	return nil
}

// Bytes serializes the header into a new FileHeaderSize byte slice.
func (h FileHeader) Bytes() []byte {
	b := make([]byte, 0, FileHeaderSize)
	b = append(b, Magic...)
	b = append(b, h.WriteFlag, h.Version[0], h.Version[1])

	return endian.GetLittleEndianEngine().AppendUint64(b, uint64(h.Root))
}

// IsWritten reports whether the writer finished the archive.
func (h FileHeader) IsWritten() bool {
	return h.WriteFlag == WriteFlagWritten
}

// ParseFileHeader parses a FileHeader from the start of data.
func ParseFileHeader(data []byte) (FileHeader, error) {
	var h FileHeader
	if err := h.Parse(data); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
