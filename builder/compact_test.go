package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ogawa/section"
)

func samplesOf(values ...string) []sample {
	out := make([]sample, len(values))
	for i, v := range values {
		out[i] = sample{payload: []byte(v)}
	}

	return out
}

func TestCompact(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		first  int
		last   int
		layout section.ChangedIndexLayout
		stored []int
	}{
		{"no samples", nil, 0, 0, section.ChangedIndexZero, nil},
		{"single", []string{"a"}, 0, 0, section.ChangedIndexZero, []int{0}},
		{"constant", []string{"a", "a", "a"}, 0, 0, section.ChangedIndexZero, []int{0}},
		{"every sample changes", []string{"a", "b", "c"}, 1, 2, section.ChangedIndexDefault, []int{0, 1, 2}},
		{"change back", []string{"a", "b", "a"}, 1, 2, section.ChangedIndexDefault, []int{0, 1, 2}},
		{"late change", []string{"a", "a", "b", "b"}, 2, 2, section.ChangedIndexExplicit, []int{0, 2}},
		{"middle run", []string{"a", "a", "b", "c", "c", "c"}, 2, 3, section.ChangedIndexExplicit, []int{0, 2, 3}},
		{"repeat inside run", []string{"a", "b", "b", "c"}, 1, 3, section.ChangedIndexDefault, []int{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := compact(samplesOf(tt.values...))
			require.Equal(t, len(tt.values), c.next)
			require.Equal(t, tt.first, c.first)
			require.Equal(t, tt.last, c.last)
			require.Equal(t, tt.layout, c.layout)
			require.Equal(t, tt.stored, c.stored)
		})
	}
}

func TestCompact_DimsDistinguishSamples(t *testing.T) {
	values := []sample{
		{payload: []byte("abcd"), dims: []uint32{4}},
		{payload: []byte("abcd"), dims: []uint32{2, 2}},
	}

	c := compact(values)
	require.Equal(t, []int{0, 1}, c.stored)
	require.Equal(t, section.ChangedIndexDefault, c.layout)
}
