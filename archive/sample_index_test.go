package archive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleIndex_Physical(t *testing.T) {
	tests := []struct {
		name   string
		index  SampleIndex
		want   []int
		stored int
	}{
		{
			name:   "varying run",
			index:  SampleIndex{Next: 6, FirstChanged: 1, LastChanged: 5},
			want:   []int{0, 1, 2, 3, 4, 5},
			stored: 6,
		},
		{
			name:   "trailing run",
			index:  SampleIndex{Next: 6, FirstChanged: 1, LastChanged: 3},
			want:   []int{0, 1, 2, 3, 3, 3},
			stored: 4,
		},
		{
			name:   "constant",
			index:  SampleIndex{Next: 6},
			want:   []int{0, 0, 0, 0, 0, 0},
			stored: 1,
		},
		{
			name:   "default layout",
			index:  SampleIndex{Next: 4, FirstChanged: 1, LastChanged: 3},
			want:   []int{0, 1, 2, 3},
			stored: 4,
		},
		{
			name:   "initial and trailing runs",
			index:  SampleIndex{Next: 8, FirstChanged: 3, LastChanged: 5},
			want:   []int{0, 0, 0, 1, 2, 3, 3, 3},
			stored: 4,
		},
		{
			name:   "single sample default layout",
			index:  SampleIndex{Next: 1, FirstChanged: 1, LastChanged: 0},
			want:   []int{0},
			stored: 1,
		},
		{
			name:   "no samples",
			index:  SampleIndex{Next: 0, FirstChanged: 1, LastChanged: -1},
			want:   []int{},
			stored: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]int, 0, tt.index.Next)
			for i := range tt.index.Next {
				physical, ok := tt.index.Physical(i)
				require.True(t, ok)
				got = append(got, physical)
			}
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.stored, tt.index.StoredCount())

			_, ok := tt.index.Physical(-1)
			require.False(t, ok)
			_, ok = tt.index.Physical(tt.index.Next)
			require.False(t, ok)
		})
	}
}

func TestSampleIndex_IsConstant(t *testing.T) {
	require.True(t, SampleIndex{Next: 3}.IsConstant())
	require.False(t, SampleIndex{Next: 3, FirstChanged: 1, LastChanged: 2}.IsConstant())
	require.False(t, SampleIndex{Next: 3, FirstChanged: 0, LastChanged: 2}.IsConstant())
}
