package builder

import (
	"fmt"
	"maps"
	"strings"

	"github.com/arloliu/ogawa/errs"
)

// Object is one node of the object tree under construction.
type Object struct {
	name       string
	metadata   map[string]string
	children   []*Object
	names      map[string]struct{}
	properties *Compound
}

func newObject(name string, metadata map[string]string) *Object {
	return &Object{
		name:       name,
		metadata:   maps.Clone(metadata),
		names:      make(map[string]struct{}),
		properties: newCompound("", nil),
	}
}

// Name returns the object name.
func (o *Object) Name() string {
	return o.name
}

// AddChild appends a child object. Names must be unique among siblings,
// non-empty and free of '/'.
func (o *Object) AddChild(name string, metadata map[string]string) (*Object, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidObjectName, name)
	}

	if _, dup := o.names[name]; dup {
		return nil, fmt.Errorf("%w: object %q under %q", errs.ErrDuplicateName, name, o.name)
	}

	child := newObject(name, metadata)
	o.names[name] = struct{}{}
	o.children = append(o.children, child)

	return child, nil
}

// Properties returns the object's anonymous root compound property.
func (o *Object) Properties() *Compound {
	return o.properties
}
