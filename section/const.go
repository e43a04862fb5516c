package section

// File header layout.
const (
	Magic             = "Ogawa" // Magic is the 5-byte signature at offset 0.
	MagicSize         = 5       // byte length of Magic
	WriteFlagOffset   = 5       // byte offset of the write flag
	VersionOffset     = 6       // byte offset of the 2-byte version pair
	RootPointerOffset = 8       // byte offset of the root group pointer word
	FileHeaderSize    = 16      // magic + write flag + version + root pointer

	WriteFlagWritten = 0xFF // archive was closed after writing
	WriteFlagOpen    = 0x00 // archive is still being written

	VersionMajor = 0 // default major version written by Serialize
	VersionMinor = 1 // default minor version written by Serialize
)

// Node record layout.
const (
	PointerSize     = 8                   // every pointer word is a u64
	LengthSize      = 8                   // record length / child count prefix
	DataPointerFlag = uint64(1) << 63     // bit 63 set marks a Data record
	OffsetMask      = DataPointerFlag - 1 // low 63 bits carry the file offset
)

// Archive header slots in the root group.
const (
	SlotArchiveVersion  = 0
	SlotFileVersion     = 1
	SlotObjectRoot      = 2
	SlotArchiveMetadata = 3
	SlotTimeSamplings   = 4
	SlotIndexedMetadata = 5
	ArchiveSlotCount    = 6
)

// Object and property records.
const (
	// ObjectHeaderTrailerSize is the size of the hash trailer closing every
	// object child-header blob. It is not part of the header region.
	ObjectHeaderTrailerSize = 32
	// SampleDigestSize is the size of the content digest prefixing each
	// stored sample payload.
	SampleDigestSize = 16
	// ReservedMetadataIndex marks inline property metadata and is rejected.
	ReservedMetadataIndex = 0xFF
	// MaxIndexedMetadata is the largest indexed metadata table, slot 0 included.
	MaxIndexedMetadata = 255
	// MaxMetadataLength is the largest metadata blob addressable by a u8 length.
	MaxMetadataLength = 255
)
