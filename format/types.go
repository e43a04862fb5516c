package format

type (
	NodeKind        uint8
	PropertyKind    uint8
	PodType         uint8
	CompressionType uint8
)

const (
	KindGroup NodeKind = 0x0 // KindGroup is a node holding ordered child references.
	KindData  NodeKind = 0x1 // KindData is a node holding a byte payload.
)

const (
	PropertyCompound        PropertyKind = 0x0 // PropertyCompound groups child properties.
	PropertyScalar          PropertyKind = 0x1 // PropertyScalar holds one fixed-size value per sample.
	PropertyArray           PropertyKind = 0x2 // PropertyArray holds a variable-length array per sample.
	PropertyScalarLikeArray PropertyKind = 0x3 // PropertyScalarLikeArray is an array whose samples all hold one element.
)

const (
	PodBool    PodType = 0
	PodUint8   PodType = 1
	PodInt8    PodType = 2
	PodUint16  PodType = 3
	PodInt16   PodType = 4
	PodUint32  PodType = 5
	PodInt32   PodType = 6
	PodUint64  PodType = 7
	PodInt64   PodType = 8
	PodFloat16 PodType = 9
	PodFloat32 PodType = 10
	PodFloat64 PodType = 11
	PodString  PodType = 12
	PodWString PodType = 13

	podTypeCount = 14
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

var podSizes = [podTypeCount]int{1, 1, 1, 2, 2, 4, 4, 8, 8, 2, 4, 8, 0, 0}

var podNames = [podTypeCount]string{
	"bool", "uint8", "int8", "uint16", "int16", "uint32", "int32",
	"uint64", "int64", "float16", "float32", "float64", "string", "wstring",
}

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "Group"
	case KindData:
		return "Data"
	default:
		return "Unknown"
	}
}

// IsArray reports whether k stores per-sample dimensions.
// Kinds 2 and 3 are decoded identically.
func (k PropertyKind) IsArray() bool {
	return k == PropertyArray || k == PropertyScalarLikeArray
}

func (k PropertyKind) String() string {
	switch k {
	case PropertyCompound:
		return "Compound"
	case PropertyScalar:
		return "Scalar"
	case PropertyArray:
		return "Array"
	case PropertyScalarLikeArray:
		return "ScalarLikeArray"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is one of the fourteen defined pod types.
func (p PodType) Valid() bool {
	return p < podTypeCount
}

// Size returns the byte size of one element of p.
// Strings have no fixed size and report 0, as do invalid types.
func (p PodType) Size() int {
	if !p.Valid() {
		return 0
	}

	return podSizes[p]
}

// IsString reports whether p is one of the variable-length string types.
func (p PodType) IsString() bool {
	return p == PodString || p == PodWString
}

func (p PodType) String() string {
	if !p.Valid() {
		return "Unknown"
	}

	return podNames[p]
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a lower-case codec name to its CompressionType.
// The second result is false for unknown names.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
