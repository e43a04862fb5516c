package schema

import (
	"fmt"
	"strings"

	"github.com/arloliu/ogawa/archive"
	"github.com/arloliu/ogawa/errs"
)

// Title splits the schemaObjTitle metadata of obj into the schema name and
// the name of the compound property holding the schema's data. ok is false
// when the title is absent or has no ':' separator.
func Title(obj *archive.Object) (schema, compound string, ok bool) {
	title, err := obj.MetadataValue(TitleKey)
	if err != nil {
		return "", "", false
	}

	return strings.Cut(title, ":")
}

// SchemaCompound returns the compound property named by obj's schema title,
// or the root compound when obj has no title.
func SchemaCompound(obj *archive.Object) (*archive.CompoundProperty, error) {
	_, name, ok := Title(obj)
	if !ok {
		return obj.Properties(), nil
	}

	p, err := obj.Properties().Property(name)
	if err != nil {
		return nil, err
	}

	c, ok := p.(*archive.CompoundProperty)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a %s property, want compound", errs.ErrPropertyNotFound, name, p.Kind())
	}

	return c, nil
}
