package main

import (
	"github.com/x448/float16"

	"github.com/arloliu/ogawa/archive"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/sample"
)

type report struct {
	Version       uint32            `yaml:"version" cbor:"version"`
	FileVersion   uint32            `yaml:"file_version" cbor:"file_version"`
	Metadata      map[string]string `yaml:"metadata,omitempty" cbor:"metadata,omitempty"`
	TimeSamplings []timeSampling    `yaml:"time_samplings" cbor:"time_samplings"`
	Root          objectReport      `yaml:"root" cbor:"root"`
}

type timeSampling struct {
	MaxSample    uint32    `yaml:"max_sample" cbor:"max_sample"`
	TimePerCycle float64   `yaml:"time_per_cycle" cbor:"time_per_cycle"`
	Times        []float64 `yaml:"times" cbor:"times"`
}

type objectReport struct {
	Path       string            `yaml:"path" cbor:"path"`
	Schema     string            `yaml:"schema,omitempty" cbor:"schema,omitempty"`
	Metadata   map[string]string `yaml:"metadata,omitempty" cbor:"metadata,omitempty"`
	Properties []propertyReport  `yaml:"properties,omitempty" cbor:"properties,omitempty"`
	Children   []objectReport    `yaml:"children,omitempty" cbor:"children,omitempty"`
}

type propertyReport struct {
	Name              string            `yaml:"name" cbor:"name"`
	Kind              string            `yaml:"kind" cbor:"kind"`
	Pod               string            `yaml:"pod,omitempty" cbor:"pod,omitempty"`
	Extent            int               `yaml:"extent,omitempty" cbor:"extent,omitempty"`
	Samples           int               `yaml:"samples,omitempty" cbor:"samples,omitempty"`
	Stored            int               `yaml:"stored,omitempty" cbor:"stored,omitempty"`
	Constant          bool              `yaml:"constant,omitempty" cbor:"constant,omitempty"`
	TimeSamplingIndex *uint32           `yaml:"time_sampling_index,omitempty" cbor:"time_sampling_index,omitempty"`
	Metadata          map[string]string `yaml:"metadata,omitempty" cbor:"metadata,omitempty"`
	Values            []any             `yaml:"values,omitempty" cbor:"values,omitempty"`
	ValuesError       string            `yaml:"values_error,omitempty" cbor:"values_error,omitempty"`
	Properties        []propertyReport  `yaml:"properties,omitempty" cbor:"properties,omitempty"`
}

func newReport(a *archive.Archive, obj *archive.Object, samples bool) (*report, error) {
	rep := &report{
		Version:     a.Version(),
		FileVersion: a.FileVersion(),
		Metadata:    a.Metadata(),
	}

	for _, ts := range a.TimeSamplings() {
		rep.TimeSamplings = append(rep.TimeSamplings, timeSampling{
			MaxSample:    ts.MaxSample,
			TimePerCycle: ts.TimePerCycle,
			Times:        ts.Times,
		})
	}

	root, err := objectFor(obj, samples)
	if err != nil {
		return nil, err
	}
	rep.Root = root

	return rep, nil
}

// count returns the number of objects in the report.
func (r *report) count() int {
	var walk func(o objectReport) int
	walk = func(o objectReport) int {
		n := 1
		for _, child := range o.Children {
			n += walk(child)
		}

		return n
	}

	return walk(r.Root)
}

func objectFor(obj *archive.Object, samples bool) (objectReport, error) {
	rep := objectReport{
		Path:     obj.Path(),
		Schema:   obj.Schema(),
		Metadata: nonEmpty(obj.Metadata()),
	}

	props, err := propertiesFor(obj.Properties(), samples)
	if err != nil {
		return rep, err
	}
	rep.Properties = props

	for _, child := range obj.Children() {
		childRep, err := objectFor(child, samples)
		if err != nil {
			return rep, err
		}
		rep.Children = append(rep.Children, childRep)
	}

	return rep, nil
}

func propertiesFor(c *archive.CompoundProperty, samples bool) ([]propertyReport, error) {
	var out []propertyReport
	for _, p := range c.Properties() {
		rep := propertyReport{
			Name:     p.Name(),
			Kind:     p.Kind().String(),
			Metadata: nonEmpty(p.Metadata()),
		}

		switch p := p.(type) {
		case *archive.CompoundProperty:
			children, err := propertiesFor(p, samples)
			if err != nil {
				return nil, err
			}
			rep.Properties = children
		case *archive.ScalarProperty:
			describeSampled(&rep, p.PodType().String(), p.Extent(), p.SampleIndex(), p.StoredSampleCount())
			rep.TimeSamplingIndex = timeSamplingIndex(p.TimeSamplingIndex())
		case *archive.ArrayProperty:
			describeSampled(&rep, p.PodType().String(), p.Extent(), p.SampleIndex(), p.StoredSampleCount())
			rep.TimeSamplingIndex = timeSamplingIndex(p.TimeSamplingIndex())
		}

		if samples && p.Kind() != format.PropertyCompound {
			values, err := sample.Values(p)
			if err != nil {
				// undecodable pods are reported, not fatal
				rep.ValuesError = err.Error()
			} else {
				rep.Values = printable(values)
			}
		}

		out = append(out, rep)
	}

	return out, nil
}

func describeSampled(rep *propertyReport, pod string, extent int, index archive.SampleIndex, stored int) {
	rep.Pod = pod
	rep.Extent = extent
	rep.Samples = index.Next
	rep.Stored = stored
	rep.Constant = index.IsConstant()
}

func timeSamplingIndex(index uint32, ok bool) *uint32 {
	if !ok {
		return nil
	}

	return &index
}

// printable converts decoded values into types every renderer supports.
func printable(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case float16.Float16:
			out[i] = v.Float32()
		case []any:
			out[i] = printable(v)
		default:
			out[i] = v
		}
	}

	return out
}

func nonEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}

	return m
}
