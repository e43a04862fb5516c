package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ogawa/errs"
)

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name     string
		blob     string
		expected map[string]string
	}{
		{"Empty", "", map[string]string{}},
		{"TwoPairs", "a=1;b=2", map[string]string{"a": "1", "b": "2"}},
		{"EmptyValue", "interpretation=", map[string]string{"interpretation": ""}},
		{"TrailingSeparator", "a=1;", map[string]string{"a": "1"}},
		{"ValueWithEquals", "expr=x=y", map[string]string{"expr": "x=y"}},
		{"RepeatedKey", "a=1;a=2", map[string]string{"a": "2"}},
		{
			"Schema",
			"schema=AbcGeom_Xform_v3;schemaObjTitle=AbcGeom_Xform_v3:.xform",
			map[string]string{"schema": "AbcGeom_Xform_v3", "schemaObjTitle": "AbcGeom_Xform_v3:.xform"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := ParseMetadata([]byte(tt.blob))
			require.NoError(t, err)
			require.Equal(t, tt.expected, md)
		})
	}

	t.Run("MissingSeparator", func(t *testing.T) {
		_, err := ParseMetadata([]byte("a=1;broken"))
		require.ErrorIs(t, err, errs.ErrInvalidMetadata)
		require.ErrorIs(t, err, errs.ErrCorrupt)
	})
}

func TestFormatMetadata(t *testing.T) {
	require.Empty(t, FormatMetadata(nil))
	require.Equal(t, "a=1;b=2", FormatMetadata(map[string]string{"b": "2", "a": "1"}))

	md, err := ParseMetadata([]byte(FormatMetadata(map[string]string{"k": "v", "x": ""})))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"k": "v", "x": ""}, md)
}

func TestParseIndexedMetadata(t *testing.T) {
	t.Run("Empty table", func(t *testing.T) {
		entries, err := ParseIndexedMetadata(nil)
		require.NoError(t, err)
		require.Equal(t, []string{""}, entries)
	})

	t.Run("One zero-length record", func(t *testing.T) {
		entries, err := ParseIndexedMetadata([]byte{0x00})
		require.NoError(t, err)
		require.Equal(t, []string{"", ""}, entries)
	})

	t.Run("Records in file order", func(t *testing.T) {
		table := append([]byte{0x17}, "schema=AbcGeom_Xform_v3"...)
		table = append(table, 0x12)
		table = append(table, "interpretation=box"...)

		entries, err := ParseIndexedMetadata(table)
		require.NoError(t, err)
		require.Equal(t, []string{"", "schema=AbcGeom_Xform_v3", "interpretation=box"}, entries)
	})

	t.Run("Truncated record", func(t *testing.T) {
		_, err := ParseIndexedMetadata([]byte{0x05, 'a', 'b'})
		require.ErrorIs(t, err, errs.ErrTruncated)
	})
}

func TestAppendIndexedMetadata(t *testing.T) {
	entries := []string{"", "a=1", "", "b=2"}

	table, err := AppendIndexedMetadata(nil, entries)
	require.NoError(t, err)
	require.Equal(t, []byte("\x03a=1\x00\x03b=2"), table)

	parsed, err := ParseIndexedMetadata(table)
	require.NoError(t, err)
	require.Equal(t, entries, parsed)

	_, err = AppendIndexedMetadata(nil, []string{"", string(make([]byte, 256))})
	require.ErrorIs(t, err, errs.ErrMetadataTooLong)

	_, err = AppendIndexedMetadata(nil, make([]string, MaxIndexedMetadata+1))
	require.ErrorIs(t, err, errs.ErrMetadataTableFull)
}
