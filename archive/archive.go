package archive

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/node"
	"github.com/arloliu/ogawa/section"
)

// RootName is the name of the implicit top-level object.
const RootName = "ABC"

// Archive is a decoded scene archive: the header slots of the root group and
// the object tree they lead to.
//
// An Archive is immutable and safe for concurrent use.
type Archive struct {
	store           *node.Store
	version         uint32
	fileVersion     uint32
	metadata        map[string]string
	timeSamplings   []section.TimeSampling
	indexedMetadata []string
	root            *Object
}

// Open decodes the archive header from the root group of store and the whole
// object and property tree below it.
//
// Parameters:
//   - store: decoded node graph, usually from node.Decode
//   - opts: decode options (WithLogger, WithStrictUTF8)
//
// Returns:
//   - *Archive: the decoded archive
//   - error: ErrMissingHeaderSlot or ErrUnexpectedNodeKind for a root group that
//     does not carry the six header slots, or any corruption found in the
//     object and property records
func Open(store *node.Store, opts ...Option) (*Archive, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	if !store.IsWritten() {
		cfg.logger.Warn("archive write flag not set, the writer may not have finished", "flag", store.Header().WriteFlag)
	}

	d := &decoder{cfg: cfg}
	a := &Archive{store: store}
	if err := d.header(a, store.Root()); err != nil {
		return nil, err
	}

	objectRoot, err := store.Root().Group(section.SlotObjectRoot)
	if err != nil {
		return nil, fmt.Errorf("object root slot: %w", err)
	}

	d.indexed = a.indexedMetadata
	a.root, err = d.object(nil, RootName, a.metadata, objectRoot)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Store returns the node graph the archive was decoded from.
func (a *Archive) Store() *node.Store {
	return a.store
}

// Version returns the archive format version from slot 0.
func (a *Archive) Version() uint32 {
	return a.version
}

// FileVersion returns the file-format version from slot 1.
func (a *Archive) FileVersion() uint32 {
	return a.fileVersion
}

// Metadata returns a copy of the archive-level metadata from slot 3.
func (a *Archive) Metadata() map[string]string {
	return maps.Clone(a.metadata)
}

// TimeSamplings returns the records of the time-sampling table in slot 4.
func (a *Archive) TimeSamplings() []section.TimeSampling {
	return slices.Clone(a.timeSamplings)
}

// IndexedMetadata returns the indexed metadata table from slot 5. Index 0 is
// always the empty string.
func (a *Archive) IndexedMetadata() []string {
	return slices.Clone(a.indexedMetadata)
}

// Root returns the top-level object. Its metadata is the archive metadata.
func (a *Archive) Root() *Object {
	return a.root
}

// Lookup resolves a `/`-separated object path from the root.
//
// The path must start with `/`; "/" alone names the root. Segments match child
// names exactly and the first match wins.
//
// Returns ErrInvalidPath for a malformed path and ErrObjectNotFound for a
// missing segment. Both wrap errs.ErrNotFound.
func (a *Archive) Lookup(path string) (*Object, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidPath, path)
	}

	obj := a.root
	if path == "/" {
		return obj, nil
	}

	for segment := range strings.SplitSeq(path[1:], "/") {
		child, err := obj.Child(segment)
		if err != nil {
			return nil, fmt.Errorf("%w in path %q", err, path)
		}
		obj = child
	}

	return obj, nil
}

// Objects returns an iterator over every object, root first, in depth-first
// order.
func (a *Archive) Objects() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		walkObjects(a.root, yield)
	}
}

func walkObjects(obj *Object, yield func(*Object) bool) bool {
	if !yield(obj) {
		return false
	}

	for _, child := range obj.children {
		if !walkObjects(child, yield) {
			return false
		}
	}

	return true
}

// header decodes slots 0, 1, 3, 4 and 5 of the root group into a.
func (d *decoder) header(a *Archive, root *node.Group) error {
	if root.Len() < section.ArchiveSlotCount {
		return fmt.Errorf("%w: root group has %d children, want %d", errs.ErrMissingHeaderSlot, root.Len(), section.ArchiveSlotCount)
	}

	slot := func(i int, what string) (*node.Data, error) {
		data, err := root.Data(i)
		if err != nil {
			return nil, fmt.Errorf("%s slot: %w", what, err)
		}

		return data, nil
	}

	versionData, err := slot(section.SlotArchiveVersion, "archive version")
	if err != nil {
		return err
	}
	if a.version, err = versionData.Uint32(0); err != nil {
		return fmt.Errorf("archive version slot: %w", err)
	}

	fileVersionData, err := slot(section.SlotFileVersion, "file version")
	if err != nil {
		return err
	}
	if a.fileVersion, err = fileVersionData.Uint32(0); err != nil {
		return fmt.Errorf("file version slot: %w", err)
	}

	metadataData, err := slot(section.SlotArchiveMetadata, "archive metadata")
	if err != nil {
		return err
	}
	if a.metadata, err = d.parseMetadata(metadataData.Bytes()); err != nil {
		return fmt.Errorf("archive metadata slot: %w", err)
	}

	timeData, err := slot(section.SlotTimeSamplings, "time sampling")
	if err != nil {
		return err
	}
	if a.timeSamplings, err = section.ParseTimeSamplings(timeData.Bytes()); err != nil {
		return fmt.Errorf("time sampling slot: %w", err)
	}

	indexedData, err := slot(section.SlotIndexedMetadata, "indexed metadata")
	if err != nil {
		return err
	}
	if a.indexedMetadata, err = section.ParseIndexedMetadata(indexedData.Bytes()); err != nil {
		return fmt.Errorf("indexed metadata slot: %w", err)
	}

	d.cfg.logger.Debug("decoded archive header",
		"version", a.version,
		"file_version", a.fileVersion,
		"time_samplings", len(a.timeSamplings),
		"indexed_metadata", len(a.indexedMetadata))

	return nil
}

func (d *decoder) parseMetadata(blob []byte) (map[string]string, error) {
	if d.cfg.strictUTF8 && !utf8.Valid(blob) {
		return nil, fmt.Errorf("%w: malformed UTF-8 %q", errs.ErrInvalidMetadata, blob)
	}

	return section.ParseMetadata(blob)
}
