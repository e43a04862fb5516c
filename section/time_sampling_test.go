package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ogawa/errs"
)

func TestParseTimeSamplings(t *testing.T) {
	t.Run("Default identity sampling", func(t *testing.T) {
		// slot 4 of an archive with no animation
		table := []byte("\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\xf0?\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")

		samplings, err := ParseTimeSamplings(table)
		require.NoError(t, err)
		require.Len(t, samplings, 1)
		require.Equal(t, uint32(0), samplings[0].MaxSample)
		require.InDelta(t, 1.0, samplings[0].TimePerCycle, 0)
		require.Equal(t, []float64{0}, samplings[0].Times)
	})

	t.Run("Repeated records", func(t *testing.T) {
		expected := []TimeSampling{
			{MaxSample: 1, TimePerCycle: 1, Times: []float64{0}},
			{MaxSample: 6, TimePerCycle: 1.0 / 24, Times: []float64{1.0 / 24}},
			{MaxSample: 2, TimePerCycle: 2, Times: []float64{0, 0.5}},
		}

		samplings, err := ParseTimeSamplings(AppendTimeSamplings(nil, expected))
		require.NoError(t, err)
		require.Equal(t, expected, samplings)
	})

	t.Run("Empty table", func(t *testing.T) {
		samplings, err := ParseTimeSamplings(nil)
		require.NoError(t, err)
		require.Empty(t, samplings)
	})

	t.Run("Truncated header", func(t *testing.T) {
		_, err := ParseTimeSamplings(make([]byte, 10))
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("Stray bytes after a record", func(t *testing.T) {
		// the bytes after the first record are read as a second record header
		table := AppendTimeSamplings(nil, []TimeSampling{{MaxSample: 1, TimePerCycle: 1, Times: []float64{0}}})
		table = append(table, 0, 0, 0)

		_, err := ParseTimeSamplings(table)
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("Truncated times", func(t *testing.T) {
		table := AppendTimeSamplings(nil, []TimeSampling{{MaxSample: 1, TimePerCycle: 1, Times: []float64{0, 1}}})

		_, err := ParseTimeSamplings(table[:len(table)-1])
		require.ErrorIs(t, err, errs.ErrTruncated)
	})
}
