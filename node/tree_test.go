package node

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ogawa/errs"
)

func TestFromTree_ToTree(t *testing.T) {
	tests := []struct {
		name string
		tree []any
		want []any
	}{
		{
			name: "empty",
			tree: []any{},
			want: []any{},
		},
		{
			name: "flat",
			tree: []any{[]byte("hello"), []byte("world")},
			want: []any{[]byte("hello"), []byte("world")},
		},
		{
			name: "nested groups",
			tree: []any{[]any{[]any{[]byte("hello")}}, []any{[]any{[]byte("world")}}},
			want: []any{[]any{[]any{[]byte("hello")}}, []any{[]any{[]byte("world")}}},
		},
		{
			name: "strings and empty groups",
			tree: []any{
				[]any{[]any{[]byte("hello"), []any{[]byte("test"), []any{[]any{}, []any{[]byte("test001"), []byte("test002")}}}, "string"}},
				[]any{[]any{[]byte("world")}},
				"another string",
			},
			want: []any{
				[]any{[]any{[]byte("hello"), []any{[]byte("test"), []any{[]any{}, []any{[]byte("test001"), []byte("test002")}}}, []byte("string")}},
				[]any{[]any{[]byte("world")}},
				[]byte("another string"),
			},
		},
		{
			name: "empty data",
			tree: []any{[]byte(nil), ""},
			want: []any{[]byte{}, []byte{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := FromTree(tt.tree)
			require.NoError(t, err)
			require.Equal(t, tt.want, store.ToTree(nil))
		})
	}
}

func TestFromTree_EmbeddedNodes(t *testing.T) {
	shared := NewData([]byte("shared"))
	sub := NewGroup(shared)

	store, err := FromTree([]any{shared, []any{shared, sub}})
	require.NoError(t, err)

	first, err := store.Root().Data(0)
	require.NoError(t, err)
	require.Same(t, shared, first)

	inner, err := store.Root().Group(1)
	require.NoError(t, err)
	second, err := inner.Data(0)
	require.NoError(t, err)
	require.Same(t, shared, second)

	embedded, err := inner.Group(1)
	require.NoError(t, err)
	require.Same(t, sub, embedded)
}

func TestFromTree_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		tree []any
	}{
		{"int leaf", []any{42}},
		{"nil leaf", []any{nil}},
		{"nested map", []any{[]any{map[string]string{}}}},
		{"typed nil data", []any{(*Data)(nil)}},
		{"typed nil group", []any{[]any{(*Group)(nil)}}},
		{"string slice", []any{[]string{"a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromTree(tt.tree)
			require.ErrorIs(t, err, errs.ErrUnsupportedTree)
			require.ErrorIs(t, err, errs.ErrFormat)
		})
	}
}

func TestToTree_Transform(t *testing.T) {
	store, err := FromTree([]any{"a", []any{"bc"}})
	require.NoError(t, err)

	tree := store.ToTree(func(b []byte) any { return len(b) })
	require.Equal(t, []any{1, []any{2}}, tree)
}
