package builder

import (
	"bytes"
	"slices"

	"github.com/arloliu/ogawa/section"
)

// compaction describes how a sample sequence is stored.
type compaction struct {
	next   int
	first  int
	last   int
	layout section.ChangedIndexLayout
	// stored lists the positions of the samples that are written.
	stored []int
}

// compact chooses the stored samples for values, comparing samples by bytes.
//
// Sample 0 is always stored. first is the first sample differing from sample
// 0 and last the final sample differing from its predecessor; samples first
// through last are stored as is. A sequence without changes is constant.
func compact(values []sample) compaction {
	c := compaction{next: len(values), layout: section.ChangedIndexZero}
	if len(values) == 0 {
		return c
	}

	c.stored = []int{0}

	first := -1
	for i := 1; i < len(values); i++ {
		if !values[i].equal(values[0]) {
			first = i
			break
		}
	}

	if first < 0 {
		return c
	}

	last := len(values) - 1
	for last > first && values[last].equal(values[last-1]) {
		last--
	}

	c.first, c.last = first, last
	for i := first; i <= last; i++ {
		c.stored = append(c.stored, i)
	}

	if first == 1 && last == len(values)-1 {
		c.layout = section.ChangedIndexDefault
	} else {
		c.layout = section.ChangedIndexExplicit
	}

	return c
}

// sample is one value written to a scalar or array property.
type sample struct {
	payload []byte
	// dims is the explicit dimension record of an array sample, nil when the
	// dimensions are implied by the payload length.
	dims []uint32
}

func (s sample) equal(other sample) bool {
	return bytes.Equal(s.payload, other.payload) && slices.Equal(s.dims, other.dims)
}
