package section

import (
	"fmt"
	"math"

	"github.com/arloliu/ogawa/endian"
	"github.com/arloliu/ogawa/errs"
)

// timeSamplingFixedSize covers max_sample, time_per_cycle and sample_count.
const timeSamplingFixedSize = 4 + 8 + 4

// TimeSampling is one record of the archive's time-sampling table.
type TimeSampling struct {
	// MaxSample is the highest sample count of any property using this sampling.
	MaxSample uint32
	// TimePerCycle is the duration of one cycle of Times.
	TimePerCycle float64
	// Times are the sample times within one cycle.
	Times []float64
}

// ParseTimeSamplings decodes every record of a time-sampling table.
//
// Each record is `u32 max_sample, f64 time_per_cycle, u32 sample_count`
// followed by sample_count f64 times. Records repeat until the table is
// exhausted; an empty table yields no records.
//
// Returns ErrTruncated if a record is cut short.
func ParseTimeSamplings(table []byte) ([]TimeSampling, error) {
	engine := endian.GetLittleEndianEngine()

	var samplings []TimeSampling
	offset := 0
	for offset < len(table) {
		if offset+timeSamplingFixedSize > len(table) {
			return nil, fmt.Errorf("%w: time sampling %d header at offset %d, table length %d",
				errs.ErrTruncated, len(samplings), offset, len(table))
		}

		ts := TimeSampling{
			MaxSample:    engine.Uint32(table[offset:]),
			TimePerCycle: math.Float64frombits(engine.Uint64(table[offset+4:])),
		}
		count := int(engine.Uint32(table[offset+12:]))
		offset += timeSamplingFixedSize

		if count > (len(table)-offset)/8 {
			return nil, fmt.Errorf("%w: time sampling %d declares %d times, %d bytes left",
				errs.ErrTruncated, len(samplings), count, len(table)-offset)
		}

		ts.Times = make([]float64, count)
		for i := range ts.Times {
			ts.Times[i] = math.Float64frombits(engine.Uint64(table[offset:]))
			offset += 8
		}

		samplings = append(samplings, ts)
	}

	return samplings, nil
}

// AppendTimeSamplings encodes samplings as a time-sampling table.
func AppendTimeSamplings(buf []byte, samplings []TimeSampling) []byte {
	engine := endian.GetLittleEndianEngine()
	for _, ts := range samplings {
		buf = engine.AppendUint32(buf, ts.MaxSample)
		buf = engine.AppendUint64(buf, math.Float64bits(ts.TimePerCycle))
		buf = engine.AppendUint32(buf, uint32(len(ts.Times))) //nolint:gosec
		for _, t := range ts.Times {
			buf = engine.AppendUint64(buf, math.Float64bits(t))
		}
	}

	return buf
}
