// Package sample converts raw sample payloads into Go values.
//
// A payload holds values laid out back to back, each value being extent
// little-endian elements of the property's pod type. Decode returns one entry
// per value: the element itself when extent is 1, otherwise a slice of the
// extent elements.
//
// Element types map as follows:
//
//	bool                       bool
//	uint8 .. int64             uint8 .. int64
//	float16                    float16.Float16
//	float32, float64           float32, float64
//	string                     string (NUL-terminated)
//
// Wide strings have a platform-dependent element width and are not decoded.
package sample

import (
	"bytes"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/arloliu/ogawa/archive"
	"github.com/arloliu/ogawa/endian"
	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
)

// Decode splits payload into values of extent elements of pod.
//
// Returns:
//   - []any: decoded values, empty for an empty payload
//   - error: ErrUnsupportedType for wide strings, ErrPayloadSize if the
//     payload length is not a multiple of the value size
func Decode(pod format.PodType, extent int, payload []byte) ([]any, error) {
	if !pod.Valid() {
		return nil, fmt.Errorf("%w: tag %d", errs.ErrInvalidPodType, uint8(pod))
	}

	if extent <= 0 {
		return nil, errs.ErrZeroExtent
	}

	switch pod {
	case format.PodString:
		return group(splitStrings(payload), extent), nil
	case format.PodWString:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, pod)
	}

	size := pod.Size()
	if len(payload)%(size*extent) != 0 {
		return nil, fmt.Errorf("%w: %d bytes of %s with extent %d", errs.ErrPayloadSize, len(payload), pod, extent)
	}

	elems := make([]any, len(payload)/size)
	for i := range elems {
		elems[i] = element(pod, payload[i*size:(i+1)*size])
	}

	return group(elems, extent), nil
}

// Scalar decodes logical sample i of p into a single value. The second
// result is false when i is out of range.
func Scalar(p *archive.ScalarProperty, i int) (any, bool, error) {
	payload, ok, err := p.Sample(i)
	if !ok || err != nil {
		return nil, ok, err
	}

	values, err := Decode(p.PodType(), p.Extent(), payload)
	if err != nil {
		return nil, true, fmt.Errorf("property %q sample %d: %w", p.Name(), i, err)
	}

	if len(values) != 1 {
		return nil, true, fmt.Errorf("%w: property %q sample %d holds %d values", errs.ErrPayloadSize, p.Name(), i, len(values))
	}

	return values[0], true, nil
}

// Array decodes logical sample i of p into its values. The second result is
// false when i is out of range.
func Array(p *archive.ArrayProperty, i int) ([]any, bool, error) {
	payload, ok, err := p.Sample(i)
	if !ok || err != nil {
		return nil, ok, err
	}

	values, err := Decode(p.PodType(), p.Extent(), payload)
	if err != nil {
		return nil, true, fmt.Errorf("property %q sample %d: %w", p.Name(), i, err)
	}

	return values, true, nil
}

// Values decodes every logical sample of a scalar or array property: one
// value per sample for scalars, one []any per sample for arrays.
func Values(p archive.Property) ([]any, error) {
	switch p := p.(type) {
	case *archive.ScalarProperty:
		out := make([]any, p.SampleCount())
		for i := range out {
			v, _, err := Scalar(p, i)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}

		return out, nil
	case *archive.ArrayProperty:
		out := make([]any, p.SampleCount())
		for i := range out {
			v, _, err := Array(p, i)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s property %q has no samples", errs.ErrUnsupportedType, p.Kind(), p.Name())
	}
}

func element(pod format.PodType, b []byte) any {
	engine := endian.GetLittleEndianEngine()

	switch pod {
	case format.PodBool:
		return b[0] != 0
	case format.PodUint8:
		return b[0]
	case format.PodInt8:
		return int8(b[0])
	case format.PodUint16:
		return engine.Uint16(b)
	case format.PodInt16:
		return int16(engine.Uint16(b))
	case format.PodUint32:
		return engine.Uint32(b)
	case format.PodInt32:
		return int32(engine.Uint32(b))
	case format.PodUint64:
		return engine.Uint64(b)
	case format.PodInt64:
		return int64(engine.Uint64(b))
	case format.PodFloat16:
		return float16.Frombits(engine.Uint16(b))
	case format.PodFloat32:
		return math.Float32frombits(engine.Uint32(b))
	default:
		return math.Float64frombits(engine.Uint64(b))
	}
}

// splitStrings splits NUL-terminated strings. A missing final terminator
// still yields the trailing string.
func splitStrings(payload []byte) []any {
	var out []any
	for len(payload) > 0 {
		end := bytes.IndexByte(payload, 0)
		if end < 0 {
			end = len(payload)
		}
		out = append(out, string(payload[:end]))
		payload = payload[min(end+1, len(payload)):]
	}

	return out
}

func group(elems []any, extent int) []any {
	if extent == 1 {
		if elems == nil {
			return []any{}
		}

		return elems
	}

	values := make([]any, 0, len(elems)/extent)
	for i := 0; i+extent <= len(elems); i += extent {
		values = append(values, elems[i:i+extent:i+extent])
	}

	return values
}
