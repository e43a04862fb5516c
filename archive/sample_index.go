package archive

// SampleIndex maps logical sample indices to stored sample positions.
//
// Writers store the initial value followed by the samples FirstChanged through
// LastChanged inclusive. Every logical sample before FirstChanged reuses stored
// sample 0 and every sample from LastChanged on reuses the final stored
// sample. FirstChanged and LastChanged both zero marks a property that is
// constant for all samples.
type SampleIndex struct {
	// Next is the logical sample count.
	Next int
	// FirstChanged is the first logical index whose value differs from sample 0.
	FirstChanged int
	// LastChanged is the last logical index whose value differs from its predecessor.
	LastChanged int
}

// IsConstant reports whether every logical sample maps to stored sample 0.
func (s SampleIndex) IsConstant() bool {
	return s.FirstChanged == 0 && s.LastChanged == 0
}

// Physical returns the stored sample position for logical index i.
// The second result is false when i is outside [0, Next).
func (s SampleIndex) Physical(i int) (int, bool) {
	if i < 0 || i >= s.Next {
		return 0, false
	}

	switch {
	case s.IsConstant() || i < s.FirstChanged:
		return 0, true
	case i >= s.LastChanged:
		return s.LastChanged - s.FirstChanged + 1, true
	default:
		return i - s.FirstChanged + 1, true
	}
}

// StoredCount returns how many stored samples the mapping addresses.
func (s SampleIndex) StoredCount() int {
	last, ok := s.Physical(s.Next - 1)
	if !ok {
		return 0
	}

	return last + 1
}
