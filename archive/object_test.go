package archive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ogawa/errs"
)

func TestObject_MetadataSelector(t *testing.T) {
	// table: ["", "a=1"]
	indexed := "\x03a=1"

	tests := []struct {
		name   string
		header string
		want   map[string]string
	}{
		{"Reserved empty slot", childHeader("X", 0, ""), map[string]string{}},
		{"Indexed", childHeader("X", 1, ""), map[string]string{"a": "1"}},
		{"Inline at table size", childHeader("X", 2, "b="), map[string]string{"b": ""}},
		{"Inline longer", childHeader("X", 7, "k=v;x=y"), map[string]string{"k": "v", "x": "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustOpenTree(t, archiveTree([]any{
				[]any{},
				leafObject(),
				objectHeaders(tt.header),
			}, indexed))

			obj, err := a.Lookup("/X")
			require.NoError(t, err)
			require.Equal(t, tt.want, obj.Metadata())
		})
	}
}

func TestObject_EmptySubtree(t *testing.T) {
	a := mustOpenTree(t, archiveTree([]any{
		[]any{},
		[]any{},
		objectHeaders(childHeader("Empty", 0, "")),
	}, ""))

	obj, err := a.Lookup("/Empty")
	require.NoError(t, err)
	require.Equal(t, 0, obj.NumChildren())
	require.Equal(t, 0, obj.Properties().Len())
	require.Empty(t, obj.Schema())
}

func TestObject_StrictUTF8(t *testing.T) {
	tree := archiveTree([]any{
		[]any{},
		leafObject(),
		objectHeaders(childHeader("\xff\xfe", 0, "")),
	}, "")

	_, err := openTree(t, tree)
	require.ErrorIs(t, err, errs.ErrInvalidName)
	require.ErrorIs(t, err, errs.ErrCorrupt)

	a, err := openTree(t, tree, WithStrictUTF8(false))
	require.NoError(t, err)

	obj, err := a.Root().ChildAt(0)
	require.NoError(t, err)
	require.Equal(t, "\xff\xfe", obj.Name())
}

func TestObject_DecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		objects []any
		indexed string
		want    error
	}{
		{
			name:    "header shorter than trailer",
			objects: []any{[]any{}, "short"},
			want:    errs.ErrHeaderOutOfBounds,
		},
		{
			name:    "more headers than subtrees",
			objects: []any{[]any{}, leafObject(), objectHeaders(childHeader("A", 0, ""), childHeader("B", 0, ""))},
			want:    errs.ErrChildCountMismatch,
		},
		{
			name:    "inline metadata past region",
			objects: []any{[]any{}, leafObject(), objectHeaders(childHeader("A", 50, "ab"))},
			want:    errs.ErrHeaderOutOfBounds,
		},
		{
			name:    "name past region",
			objects: []any{[]any{}, leafObject(), objectHeaders("\x64\x00\x00\x00abc")},
			want:    errs.ErrHeaderOutOfBounds,
		},
		{
			name:    "record cut before selector",
			objects: []any{[]any{}, leafObject(), objectHeaders("\x01\x00\x00\x00A")},
			want:    errs.ErrHeaderOutOfBounds,
		},
		{
			name:    "subtree without header",
			objects: []any{[]any{}},
			want:    errs.ErrChildCountMismatch,
		},
		{
			name:    "header slot is a group",
			objects: []any{[]any{}, []any{}},
			want:    errs.ErrUnexpectedNodeKind,
		},
		{
			name:    "property tree slot is data",
			objects: []any{"props", objectHeaders()},
			want:    errs.ErrUnexpectedNodeKind,
		},
		{
			name:    "child subtree is data",
			objects: []any{[]any{}, "child", objectHeaders(childHeader("A", 0, ""))},
			want:    errs.ErrUnexpectedNodeKind,
		},
		{
			name:    "indexed metadata entry malformed",
			objects: []any{[]any{}, leafObject(), objectHeaders(childHeader("A", 1, ""))},
			indexed: "\x03abc",
			want:    errs.ErrInvalidMetadata,
		},
		{
			name: "error deep in the tree",
			objects: []any{
				[]any{},
				[]any{[]any{}, []any{[]any{}, "bad"}, objectHeaders(childHeader("B", 0, ""))},
				objectHeaders(childHeader("A", 0, "")),
			},
			want: errs.ErrHeaderOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := openTree(t, archiveTree(tt.objects, tt.indexed))
			require.ErrorIs(t, err, tt.want)
		})
	}
}
