package archive

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/node"
	"github.com/arloliu/ogawa/section"
)

// SchemaKey is the metadata key naming an object's schema.
const SchemaKey = "schema"

// Object is one named node of the object tree.
//
// Parents own their children; the parent link is a back reference only.
type Object struct {
	name       string
	metadata   map[string]string
	parent     *Object
	children   []*Object
	properties *CompoundProperty
}

// Name returns the object name. The root object is named RootName.
func (o *Object) Name() string {
	return o.name
}

// Path returns the absolute path of the object, "/" for the root.
func (o *Object) Path() string {
	if o.parent == nil {
		return "/"
	}

	var segments []string
	for obj := o; obj.parent != nil; obj = obj.parent {
		segments = append(segments, obj.name)
	}
	slices.Reverse(segments)

	return "/" + strings.Join(segments, "/")
}

// Parent returns the parent object, or nil for the root.
func (o *Object) Parent() *Object {
	return o.parent
}

// Metadata returns a copy of the object metadata.
func (o *Object) Metadata() map[string]string {
	return maps.Clone(o.metadata)
}

// MetadataValue returns the metadata value for key, or ErrMetadataKeyAbsent.
func (o *Object) MetadataValue(key string) (string, error) {
	v, ok := o.metadata[key]
	if !ok {
		return "", fmt.Errorf("%w: %q on %s", errs.ErrMetadataKeyAbsent, key, o.Path())
	}

	return v, nil
}

// Schema returns the "schema" metadata value, or "" if the object has none.
func (o *Object) Schema() string {
	return o.metadata[SchemaKey]
}

// Properties returns the anonymous root compound property.
func (o *Object) Properties() *CompoundProperty {
	return o.properties
}

// NumChildren returns the number of child objects.
func (o *Object) NumChildren() int {
	return len(o.children)
}

// Children returns the child objects in header order.
func (o *Object) Children() []*Object {
	return slices.Clone(o.children)
}

// All returns an iterator over (index, child) pairs.
func (o *Object) All() iter.Seq2[int, *Object] {
	return slices.All(o.children)
}

// ChildAt returns the i-th child, or ErrIndexOutOfRange.
func (o *Object) ChildAt(i int) (*Object, error) {
	if i < 0 || i >= len(o.children) {
		return nil, fmt.Errorf("%w: child %d of %s with %d children", errs.ErrIndexOutOfRange, i, o.Path(), len(o.children))
	}

	return o.children[i], nil
}

// Child returns the first child named name, or ErrObjectNotFound.
func (o *Object) Child(name string) (*Object, error) {
	for _, child := range o.children {
		if child.name == name {
			return child, nil
		}
	}

	return nil, fmt.Errorf("%w: %q under %s", errs.ErrObjectNotFound, name, o.Path())
}

// decoder carries decode settings and the indexed metadata table through the
// object and property recursion.
type decoder struct {
	cfg     *Config
	indexed []string
}

// object decodes one object subtree.
//
// Subtree layout: children[0] is the property tree, children[1..n] are the
// child object subtrees and the last child is the child header blob. An empty
// group yields an object with no children and no properties.
func (d *decoder) object(parent *Object, name string, metadata map[string]string, subtree *node.Group) (*Object, error) {
	obj := &Object{
		name:     name,
		metadata: metadata,
		parent:   parent,
	}

	if subtree.Len() == 0 {
		obj.properties = &CompoundProperty{base: base{metadata: map[string]string{}}}
		return obj, nil
	}

	if subtree.Len() < 2 {
		return nil, fmt.Errorf("%w: object %s subtree has %d children, want property tree and header",
			errs.ErrChildCountMismatch, obj.Path(), subtree.Len())
	}

	propTree, err := subtree.Group(0)
	if err != nil {
		return nil, fmt.Errorf("object %s property tree: %w", obj.Path(), err)
	}

	obj.properties, err = d.compound(nil, "", map[string]string{}, propTree)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", obj.Path(), err)
	}

	headers, err := subtree.Data(-1)
	if err != nil {
		return nil, fmt.Errorf("object %s header blob: %w", obj.Path(), err)
	}

	if err := d.children(obj, headers, subtree); err != nil {
		return nil, err
	}

	d.cfg.logger.Debug("decoded object",
		"path", obj.Path(),
		"children", len(obj.children),
		"properties", obj.properties.Len())

	return obj, nil
}

// children walks the child header region of headers and decodes each child
// from the matching subtree slot.
func (d *decoder) children(obj *Object, headers *node.Data, subtree *node.Group) error {
	r, err := section.NewHeaderReader(headers.Bytes(), headers.Len()-section.ObjectHeaderTrailerSize)
	if err != nil {
		return fmt.Errorf("object %s: %w", obj.Path(), err)
	}

	for r.More() {
		nameLen, err := r.Uint32()
		if err != nil {
			return fmt.Errorf("object %s child %d: %w", obj.Path(), len(obj.children), err)
		}

		name, err := d.name(r, int(nameLen))
		if err != nil {
			return fmt.Errorf("object %s child %d: %w", obj.Path(), len(obj.children), err)
		}

		metadata, err := d.objectMetadata(r)
		if err != nil {
			return fmt.Errorf("object %s child %q: %w", obj.Path(), name, err)
		}

		// the last subtree slot holds the header blob itself
		slot := len(obj.children) + 1
		if slot >= subtree.Len()-1 {
			return fmt.Errorf("%w: object %s header names child %q but subtree has %d slots",
				errs.ErrChildCountMismatch, obj.Path(), name, subtree.Len())
		}

		childTree, err := subtree.Group(slot)
		if err != nil {
			return fmt.Errorf("object %s child %q: %w", obj.Path(), name, err)
		}

		child, err := d.object(obj, name, metadata, childTree)
		if err != nil {
			return err
		}
		obj.children = append(obj.children, child)
	}

	return nil
}

// objectMetadata reads the metadata selector of a child header. A selector
// below the indexed table size picks a table entry; anything else is the
// length of an inline metadata blob that follows.
func (d *decoder) objectMetadata(r *section.HeaderReader) (map[string]string, error) {
	selector, err := r.Uint8()
	if err != nil {
		return nil, err
	}

	if int(selector) < len(d.indexed) {
		return d.parseMetadata([]byte(d.indexed[selector]))
	}

	inline, err := r.Bytes(int(selector))
	if err != nil {
		return nil, err
	}

	return d.parseMetadata(inline)
}

func (d *decoder) name(r *section.HeaderReader, n int) (string, error) {
	if d.cfg.strictUTF8 {
		return r.Name(n)
	}

	b, err := r.Bytes(n)

	return string(b), err
}
