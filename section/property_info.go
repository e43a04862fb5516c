package section

import "github.com/arloliu/ogawa/format"

// Bit layout of the packed property descriptor word (LSB first).
const (
	PropertyKindMask      = 0x00000003 // bits 0-1: property kind
	SizeHintShift         = 2          // bits 2-3: size hint
	SizeHintMask          = 0x0000000C
	PodTypeShift          = 4          // bits 4-7: pod type tag
	PodTypeMask           = 0x000000F0
	TimeSamplingIndexMask = 0x00000100 // bit 8: has time sampling index
	FirstLastChangedMask  = 0x00000200 // bit 9: has explicit first/last changed index
	HomogeneousMask       = 0x00000400 // bit 10: homogeneous (informational)
	ZeroFirstLastMask     = 0x00000800 // bit 11: first/last changed index are zero
	ExtentShift           = 12         // bits 12-19: extent
	ExtentMask            = 0x000FF000
	MetadataIndexShift    = 20         // bits 20-27: metadata index
	MetadataIndexMask     = 0x0FF00000
	PropertyInfoSize      = 4          // the descriptor word is a u32
)

// ChangedIndexLayout tells the property decoder where the first and last
// changed sample indices come from.
type ChangedIndexLayout uint8

const (
	// ChangedIndexDefault derives first=1, last=next_sample_index-1.
	ChangedIndexDefault ChangedIndexLayout = iota
	// ChangedIndexExplicit reads first and last as two size-hint fields.
	ChangedIndexExplicit
	// ChangedIndexZero sets first=last=0: the property is constant.
	ChangedIndexZero
)

// changedIndexLayouts is indexed by [has_first_last_changed][zero_first_last_changed].
// An explicit pair takes precedence over the zero flag.
var changedIndexLayouts = [2][2]ChangedIndexLayout{
	{ChangedIndexDefault, ChangedIndexZero},
	{ChangedIndexExplicit, ChangedIndexExplicit},
}

// PropertyInfo is the packed u32 descriptor word opening every property record.
//
// Bit layout:
//
//	bits 0-1   property kind (0 compound, 1 scalar, 2 array, 3 scalar-like array)
//	bits 2-3   size hint for the variable-width fields that follow
//	bits 4-7   pod type tag                      (scalar/array only)
//	bit  8     has time sampling index           (scalar/array only)
//	bit  9     has first/last changed index      (scalar/array only)
//	bit  10    homogeneous, informational        (scalar/array only)
//	bit  11    first/last changed index are zero (scalar/array only)
//	bits 12-19 extent                            (scalar/array only)
//	bits 20-27 metadata index
type PropertyInfo uint32

// Kind returns the property kind from bits 0-1.
func (p PropertyInfo) Kind() format.PropertyKind {
	return format.PropertyKind(p & PropertyKindMask)
}

// SizeHint returns the width code from bits 2-3.
func (p PropertyInfo) SizeHint() SizeHint {
	return SizeHint((p & SizeHintMask) >> SizeHintShift)
}

// PodType returns the pod type tag from bits 4-7.
func (p PropertyInfo) PodType() format.PodType {
	return format.PodType((p & PodTypeMask) >> PodTypeShift)
}

// HasTimeSamplingIndex reports bit 8.
func (p PropertyInfo) HasTimeSamplingIndex() bool {
	return p&TimeSamplingIndexMask != 0
}

// HasFirstLastChanged reports bit 9.
func (p PropertyInfo) HasFirstLastChanged() bool {
	return p&FirstLastChangedMask != 0
}

// IsHomogeneous reports bit 10.
func (p PropertyInfo) IsHomogeneous() bool {
	return p&HomogeneousMask != 0
}

// ZeroFirstLastChanged reports bit 11.
func (p PropertyInfo) ZeroFirstLastChanged() bool {
	return p&ZeroFirstLastMask != 0
}

// Extent returns the element count per sample from bits 12-19.
func (p PropertyInfo) Extent() uint8 {
	return uint8((p & ExtentMask) >> ExtentShift) //nolint:gosec
}

// MetadataIndex returns the indexed metadata slot from bits 20-27.
func (p PropertyInfo) MetadataIndex() uint8 {
	return uint8((p & MetadataIndexMask) >> MetadataIndexShift) //nolint:gosec
}

// ChangedIndexLayout resolves the three sample-index flags to a single layout.
func (p PropertyInfo) ChangedIndexLayout() ChangedIndexLayout {
	return changedIndexLayouts[b2i(p.HasFirstLastChanged())][b2i(p.ZeroFirstLastChanged())]
}

// NewPropertyInfo packs the kind and size hint. The remaining fields are set
// with the With* methods.
func NewPropertyInfo(kind format.PropertyKind, hint SizeHint) PropertyInfo {
	return PropertyInfo(uint32(kind)&PropertyKindMask | (uint32(hint)<<SizeHintShift)&SizeHintMask)
}

// WithPodType sets bits 4-7.
func (p PropertyInfo) WithPodType(pod format.PodType) PropertyInfo {
	return p&^PodTypeMask | PropertyInfo(uint32(pod)<<PodTypeShift)&PodTypeMask
}

// WithExtent sets bits 12-19.
func (p PropertyInfo) WithExtent(extent uint8) PropertyInfo {
	return p&^ExtentMask | PropertyInfo(uint32(extent)<<ExtentShift)
}

// WithMetadataIndex sets bits 20-27.
func (p PropertyInfo) WithMetadataIndex(index uint8) PropertyInfo {
	return p&^MetadataIndexMask | PropertyInfo(uint32(index)<<MetadataIndexShift)
}

// WithChangedIndexLayout sets bits 9 and 11 for layout.
func (p PropertyInfo) WithChangedIndexLayout(layout ChangedIndexLayout) PropertyInfo {
	p &^= FirstLastChangedMask | ZeroFirstLastMask
	switch layout {
	case ChangedIndexExplicit:
		p |= FirstLastChangedMask
	case ChangedIndexZero:
		p |= ZeroFirstLastMask
	}

	return p
}

// WithTimeSamplingIndex sets or clears bit 8.
func (p PropertyInfo) WithTimeSamplingIndex(enabled bool) PropertyInfo {
	return setBit(p, TimeSamplingIndexMask, enabled)
}

// WithHomogeneous sets or clears bit 10.
func (p PropertyInfo) WithHomogeneous(enabled bool) PropertyInfo {
	return setBit(p, HomogeneousMask, enabled)
}

func setBit(p PropertyInfo, mask PropertyInfo, enabled bool) PropertyInfo {
	if enabled {
		return p | mask
	}

	return p &^ mask
}

func b2i(b bool) int {
	if b {
		return 1
	}

	return 0
}
