package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

type renderer func(w io.Writer, rep *report) error

var renderers = map[string]renderer{
	"text": renderText,
	"yaml": renderYAML,
	"cbor": renderCBOR,
}

// cborMode encodes with Core Deterministic Encoding so equal archives dump to
// identical bytes.
var cborMode = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("abcdump: CBOR encoder initialization failed: " + err.Error())
	}

	return mode
}()

func renderCBOR(w io.Writer, rep *report) error {
	return cborMode.NewEncoder(w).Encode(rep)
}

func renderYAML(w io.Writer, rep *report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}

	return enc.Close()
}

func renderText(w io.Writer, rep *report) error {
	tw := &textWriter{w: w}

	tw.line(0, "archive version %d, file version %d", rep.Version, rep.FileVersion)
	if len(rep.Metadata) > 0 {
		tw.line(0, "metadata %s", formatMetadata(rep.Metadata))
	}
	for i, ts := range rep.TimeSamplings {
		tw.line(0, "time sampling %d: max sample %d, %g per cycle, times %v", i, ts.MaxSample, ts.TimePerCycle, ts.Times)
	}
	tw.object(rep.Root, 0)

	return tw.err
}

type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) line(depth int, format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (tw *textWriter) object(o objectReport, depth int) {
	header := o.Path
	if o.Schema != "" {
		header += " [" + o.Schema + "]"
	}
	tw.line(depth, "%s", header)
	if len(o.Metadata) > 0 {
		tw.line(depth+1, "metadata %s", formatMetadata(o.Metadata))
	}

	for _, p := range o.Properties {
		tw.property(p, depth+1)
	}
	for _, child := range o.Children {
		tw.object(child, depth+1)
	}
}

func (tw *textWriter) property(p propertyReport, depth int) {
	if p.Pod == "" {
		tw.line(depth, "%s: %s", p.Name, p.Kind)
	} else {
		desc := fmt.Sprintf("%s: %s %s[%d], %d samples, %d stored", p.Name, p.Kind, p.Pod, p.Extent, p.Samples, p.Stored)
		if p.Constant {
			desc += ", constant"
		}
		if p.TimeSamplingIndex != nil {
			desc += fmt.Sprintf(", time sampling %d", *p.TimeSamplingIndex)
		}
		tw.line(depth, "%s", desc)
	}

	if len(p.Metadata) > 0 {
		tw.line(depth+1, "metadata %s", formatMetadata(p.Metadata))
	}
	for i, v := range p.Values {
		tw.line(depth+1, "[%d] %v", i, v)
	}
	if p.ValuesError != "" {
		tw.line(depth+1, "values unavailable: %s", p.ValuesError)
	}

	for _, child := range p.Properties {
		tw.property(child, depth+1)
	}
}

func formatMetadata(md map[string]string) string {
	pairs := make([]string, 0, len(md))
	for _, k := range slices.Sorted(maps.Keys(md)) {
		pairs = append(pairs, k+"="+md[k])
	}

	return strings.Join(pairs, " ")
}
