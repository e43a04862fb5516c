package ogawa

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ogawa/archive"
	"github.com/arloliu/ogawa/builder"
	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/node"
)

var allCompressions = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

func buildScene(t *testing.T, childName string) *node.Store {
	t.Helper()

	b, err := builder.New(builder.WithArchiveMetadata(map[string]string{"app": "ogawa-test"}))
	require.NoError(t, err)

	xform, err := b.Root().AddChild(childName, map[string]string{"schema": "AbcGeom_Xform_v3"})
	require.NoError(t, err)

	ops, err := xform.Properties().AddCompound(".xform", nil)
	require.NoError(t, err)

	vis, err := ops.AddScalar("visible", format.PodInt8, 1)
	require.NoError(t, err)
	for _, v := range []byte{1, 1, 0, 0, 1} {
		require.NoError(t, vis.AddSample([]byte{v}))
	}

	store, err := b.Build()
	require.NoError(t, err)

	return store
}

func requireScene(t *testing.T, a *archive.Archive, childName string) {
	t.Helper()

	require.Equal(t, map[string]string{"app": "ogawa-test"}, a.Metadata())

	obj, err := a.Lookup("/" + childName)
	require.NoError(t, err)
	require.Equal(t, "AbcGeom_Xform_v3", obj.Schema())

	ops, err := obj.Properties().Property(".xform")
	require.NoError(t, err)

	vis, err := ops.(*archive.CompoundProperty).Property("visible")
	require.NoError(t, err)

	scalar := vis.(*archive.ScalarProperty)
	require.Equal(t, 5, scalar.SampleCount())

	var got []byte
	for _, payload := range scalar.All() {
		got = append(got, payload...)
	}
	require.Equal(t, []byte{1, 1, 0, 0, 1}, got)
}

func TestMarshalOpen(t *testing.T) {
	store := buildScene(t, "xform")

	for _, ct := range allCompressions {
		t.Run(ct.String(), func(t *testing.T) {
			data, err := Marshal(store, ct)
			require.NoError(t, err)

			a, err := Open(data)
			require.NoError(t, err)
			requireScene(t, a, "xform")

			a, err = Open(data, WithCompression(ct))
			require.NoError(t, err)
			requireScene(t, a, "xform")

			a, err = OpenReader(bytes.NewReader(data))
			require.NoError(t, err)
			requireScene(t, a, "xform")
		})
	}
}

func TestMarshal_PlainIsSerialize(t *testing.T) {
	store := buildScene(t, "xform")

	data, err := Marshal(store, format.CompressionNone)
	require.NoError(t, err)

	raw, err := store.Serialize()
	require.NoError(t, err)
	require.Equal(t, raw, data)
}

func TestOpenFile(t *testing.T) {
	data, err := Marshal(buildScene(t, "xform"), format.CompressionZstd)
	require.NoError(t, err)

	name := filepath.Join(t.TempDir(), "scene.abc.zst")
	require.NoError(t, os.WriteFile(name, data, 0o600))

	a, err := OpenFile(name)
	require.NoError(t, err)
	requireScene(t, a, "xform")

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.abc"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode(t *testing.T) {
	store := buildScene(t, "xform")

	data, err := Marshal(store, format.CompressionS2)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.True(t, decoded.IsWritten())
	require.Equal(t, store.ToTree(nil), decoded.ToTree(nil))
}

func TestOpen_Errors(t *testing.T) {
	store := buildScene(t, "xform")

	zstdData, err := Marshal(store, format.CompressionZstd)
	require.NoError(t, err)

	t.Run("Unknown signature", func(t *testing.T) {
		_, err := Open([]byte("PK\x03\x04 not an archive"))
		require.ErrorIs(t, err, errs.ErrInvalidMagic)
	})

	t.Run("Empty input", func(t *testing.T) {
		_, err := Open(nil)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("Wrong explicit compression", func(t *testing.T) {
		_, err := Open(zstdData, WithCompression(format.CompressionNone))
		require.ErrorIs(t, err, errs.ErrInvalidMagic)

		_, err = Open(zstdData, WithCompression(format.CompressionLZ4))
		require.ErrorIs(t, err, errs.ErrCorrupt)
	})

	t.Run("Invalid compression type", func(t *testing.T) {
		_, err := Open(zstdData, WithCompression(format.CompressionType(0x42)))
		require.ErrorIs(t, err, errs.ErrInvalidCompression)

		_, err = Marshal(store, format.CompressionType(0x42))
		require.ErrorIs(t, err, errs.ErrInvalidCompression)
	})

	t.Run("Truncated envelope", func(t *testing.T) {
		_, err := Open(zstdData[:len(zstdData)-8])
		require.ErrorIs(t, err, errs.ErrCorrupt)
	})

	t.Run("Nil logger", func(t *testing.T) {
		_, err := Open(zstdData, WithLogger(nil))
		require.Error(t, err)
	})
}

func TestOpen_StrictUTF8(t *testing.T) {
	data, err := Marshal(buildScene(t, "x\xffform"), format.CompressionNone)
	require.NoError(t, err)

	_, err = Open(data)
	require.ErrorIs(t, err, errs.ErrInvalidName)

	a, err := Open(data, WithStrictUTF8(false))
	require.NoError(t, err)
	requireScene(t, a, "x\xffform")
}

func TestOpen_WithLogger(t *testing.T) {
	data, err := Marshal(buildScene(t, "xform"), format.CompressionLZ4)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err = Open(data, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "opening archive")
	require.Contains(t, out, "compression=LZ4")
	require.Contains(t, out, "decoded object")
}
