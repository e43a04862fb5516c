// Package ogawa reads and writes Ogawa scene archives.
//
// An Ogawa archive is a hierarchical container of named objects, each holding
// typed, possibly time-varying properties. Records are addressed by absolute
// byte offsets, so the whole archive is decoded from a single in-memory
// buffer.
//
// # Basic Usage
//
// Reading an archive:
//
//	a, err := ogawa.OpenFile("scene.abc")
//	if err != nil {
//	    return err
//	}
//	for obj := range a.Objects() {
//	    fmt.Println(obj.Path(), obj.Schema())
//	}
//
// Writing an archive:
//
//	b, _ := builder.New()
//	xform, _ := b.Root().AddChild("xform", map[string]string{"schema": "AbcGeom_Xform_v3"})
//	ops, _ := xform.Properties().AddCompound(".xform", nil)
//	vis, _ := ops.AddScalar("visible", format.PodInt8, 1)
//	_ = vis.AddSample([]byte{1})
//	store, _ := b.Build()
//	data, _ := ogawa.Marshal(store, format.CompressionZstd)
//
// # Package Structure
//
// This package provides convenience wrappers around the node, archive,
// builder and compress packages. The node package exposes the raw group and
// data graph; archive decodes objects and properties on top of it.
package ogawa

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/ogawa/archive"
	"github.com/arloliu/ogawa/compress"
	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/node"
)

// Open decodes an archive held in data, decompressing it first if it is
// wrapped in a compressed envelope.
//
// Parameters:
//   - data: archive bytes; decoded nodes alias this buffer
//   - opts: WithCompression, WithLogger, WithStrictUTF8
//
// Returns:
//   - *archive.Archive: the decoded archive
//   - error: ErrInvalidMagic if no envelope or archive signature is found,
//     otherwise any decode error of node.Decode or archive.Open
func Open(data []byte, opts ...Option) (*archive.Archive, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	store, err := decode(data, cfg)
	if err != nil {
		return nil, err
	}

	return archive.Open(store, cfg.archiveOpts...)
}

// OpenReader reads r to the end and decodes the archive.
func OpenReader(r io.Reader, opts ...Option) (*archive.Archive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	return Open(data, opts...)
}

// OpenFile reads the named file and decodes the archive.
func OpenFile(name string, opts ...Option) (*archive.Archive, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	return Open(data, opts...)
}

// Decode unwraps the compressed envelope of data, if any, and decodes the
// node graph without interpreting the archive header slots.
func Decode(data []byte, opts ...Option) (*node.Store, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return decode(data, cfg)
}

func decode(data []byte, cfg *Config) (*node.Store, error) {
	compression := cfg.compression
	if compression == compressionAuto {
		detected, ok := compress.Detect(data)
		if !ok {
			return nil, fmt.Errorf("%w: no archive or compression signature in %d bytes", errs.ErrInvalidMagic, len(data))
		}
		compression = detected
	}

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("opening archive",
		"compression", compression,
		"size", len(data),
		"decompressed_size", len(raw))

	return node.Decode(raw)
}

// Marshal serializes store and wraps the result in the given compressed
// envelope. format.CompressionNone yields the plain archive bytes.
func Marshal(store *node.Store, compression format.CompressionType) ([]byte, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	data, err := store.Serialize()
	if err != nil {
		return nil, err
	}

	return codec.Compress(data)
}
