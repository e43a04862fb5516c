// Package schema dispatches decoded objects to typed accessors by their
// "schema" metadata value.
//
// A Registry is a plain value owned by the caller; there is no process-wide
// registry. Accessors receive the decoded *archive.Object and build whatever
// view of its properties they need:
//
//	reg := schema.Registry{}
//	reg.MustRegister("AbcGeom_Xform_v3", newXform)
//	view, err := reg.Bind(obj)
package schema

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/arloliu/ogawa/archive"
	"github.com/arloliu/ogawa/errs"
)

// TitleKey is the metadata key naming the schema and its root compound,
// formatted "<schema>:<compound>".
const TitleKey = "schemaObjTitle"

// ErrDuplicateSchema reports a second Register call for the same name.
var ErrDuplicateSchema = errors.New("ogawa: schema already registered")

// Constructor builds a typed accessor for obj.
type Constructor func(obj *archive.Object) (any, error)

// Registry maps schema names to accessor constructors.
type Registry map[string]Constructor

// Register adds fn under name.
func (r Registry) Register(name string, fn Constructor) error {
	if name == "" || fn == nil {
		return fmt.Errorf("schema: invalid registration for %q", name)
	}

	if _, ok := r[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSchema, name)
	}
	r[name] = fn

	return nil
}

// MustRegister is like Register but panics on error.
func (r Registry) MustRegister(name string, fn Constructor) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the constructor registered for obj's schema.
//
// Returns ErrSchemaNotFound if obj has no schema or it is not registered.
func (r Registry) Lookup(obj *archive.Object) (Constructor, error) {
	name := obj.Schema()
	if name == "" {
		return nil, fmt.Errorf("%w: object %s has no schema", errs.ErrSchemaNotFound, obj.Path())
	}

	fn, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q for object %s", errs.ErrSchemaNotFound, name, obj.Path())
	}

	return fn, nil
}

// Bind looks up obj's schema and runs its constructor.
func (r Registry) Bind(obj *archive.Object) (any, error) {
	fn, err := r.Lookup(obj)
	if err != nil {
		return nil, err
	}

	v, err := fn(obj)
	if err != nil {
		return nil, fmt.Errorf("schema %q on %s: %w", obj.Schema(), obj.Path(), err)
	}

	return v, nil
}

// Names returns the registered schema names in sorted order.
func (r Registry) Names() []string {
	return slices.Sorted(maps.Keys(r))
}
