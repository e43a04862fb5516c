package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ogawa/archive"
	"github.com/arloliu/ogawa/errs"
	"github.com/arloliu/ogawa/format"
	"github.com/arloliu/ogawa/internal/hash"
	"github.com/arloliu/ogawa/node"
	"github.com/arloliu/ogawa/section"
)

const xformSchema = "schema=AbcGeom_Xform_v3"

// buildXform reproduces a minimal transform archive: one child object with an
// empty ".xform" compound.
func buildXform(t *testing.T) *node.Store {
	t.Helper()

	b, err := New(WithArchiveMetadata(map[string]string{"_ai_AlembicVersion": "Alembic 1.8.8"}))
	require.NoError(t, err)

	obj, err := b.Root().AddChild("dummyXform", map[string]string{
		"schema":         "AbcGeom_Xform_v3",
		"schemaObjTitle": "AbcGeom_Xform_v3:.xform",
	})
	require.NoError(t, err)

	_, err = obj.Properties().AddCompound(".xform", map[string]string{"schema": "AbcGeom_Xform_v3"})
	require.NoError(t, err)

	store, err := b.Build()
	require.NoError(t, err)

	return store
}

func TestBuild_Layout(t *testing.T) {
	store := buildXform(t)

	descriptors := []byte("\x00\x00\x10\x00\x06.xform")
	childTrailer := hash.Trailer(descriptors, nil)
	rootHeaders := []byte("\x0a\x00\x00\x00dummyXform\x02")
	rootTrailer := hash.Trailer(nil, rootHeaders)

	want := []any{
		[]byte("\x00\x00\x00\x00"),
		[]byte("8*\x00\x00"),
		[]any{
			[]any{},
			[]any{
				[]any{[]any{}, descriptors},
				childTrailer[:],
			},
			append(rootHeaders, rootTrailer[:]...),
		},
		[]byte("_ai_AlembicVersion=Alembic 1.8.8"),
		[]byte("\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\xf0?\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"),
		[]byte("\x17" + xformSchema + ">" + xformSchema + ";schemaObjTitle=AbcGeom_Xform_v3:.xform"),
	}

	require.Equal(t, want, store.ToTree(nil))
}

func TestBuild_RoundTrip(t *testing.T) {
	b, err := New(
		WithFileVersion(10900),
		WithArchiveVersion(1),
		WithTimeSampling(
			section.TimeSampling{MaxSample: 3, TimePerCycle: 1.0 / 24, Times: []float64{0}},
		),
	)
	require.NoError(t, err)

	cube, err := b.Root().AddChild("Cube", map[string]string{"schema": "AbcGeom_PolyMesh_v1"})
	require.NoError(t, err)
	_, err = cube.AddChild("CubeShape", nil)
	require.NoError(t, err)

	geom, err := cube.Properties().AddCompound(".geom", nil)
	require.NoError(t, err)

	vis, err := geom.AddScalar("visible", format.PodInt8, 1)
	require.NoError(t, err)
	vis.SetMetadata(map[string]string{"interpretation": "visibility"})
	vis.SetTimeSamplingIndex(1)
	for _, v := range []byte{1, 1, 0} {
		require.NoError(t, vis.AddSample([]byte{v}))
	}

	pts, err := geom.AddArray("P", format.PodFloat32, 3)
	require.NoError(t, err)
	require.NoError(t, pts.AddSample(make([]byte, 24)))
	require.NoError(t, pts.AddSample(make([]byte, 24), 1, 2))

	store, err := b.Build()
	require.NoError(t, err)

	buf, err := store.Serialize()
	require.NoError(t, err)

	decoded, err := node.Decode(buf)
	require.NoError(t, err)

	a, err := archive.Open(decoded)
	require.NoError(t, err)
	require.Equal(t, uint32(1), a.Version())
	require.Equal(t, uint32(10900), a.FileVersion())
	require.Len(t, a.TimeSamplings(), 1)
	require.InDelta(t, 1.0/24, a.TimeSamplings()[0].TimePerCycle, 1e-12)

	obj, err := a.Lookup("/Cube")
	require.NoError(t, err)
	require.Equal(t, "AbcGeom_PolyMesh_v1", obj.Schema())

	shape, err := a.Lookup("/Cube/CubeShape")
	require.NoError(t, err)
	require.Empty(t, shape.Metadata())

	p, err := obj.Properties().Property(".geom")
	require.NoError(t, err)
	geomProp, ok := p.(*archive.CompoundProperty)
	require.True(t, ok)

	p, err = geomProp.Property("visible")
	require.NoError(t, err)
	visProp, ok := p.(*archive.ScalarProperty)
	require.True(t, ok)
	require.Equal(t, map[string]string{"interpretation": "visibility"}, visProp.Metadata())
	require.Equal(t, 3, visProp.SampleCount())
	require.Equal(t, 2, visProp.StoredSampleCount())

	tsIndex, hasTS := visProp.TimeSamplingIndex()
	require.True(t, hasTS)
	require.Equal(t, uint32(1), tsIndex)

	for i, want := range []byte{1, 1, 0} {
		got, ok, err := visProp.Sample(i)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte{want}, got)
	}

	digest, ok, err := visProp.SampleDigest(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, hash.Digest([]byte{1}), digest)

	p, err = geomProp.Property("P")
	require.NoError(t, err)
	ptsProp, ok := p.(*archive.ArrayProperty)
	require.True(t, ok)
	require.Equal(t, format.PropertyArray, ptsProp.Kind())
	require.False(t, ptsProp.IsHomogeneous())

	dims, ok, err := ptsProp.Dimensions(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []uint32{2}, dims)

	dims, ok, err = ptsProp.Dimensions(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []uint32{1, 2}, dims)

	n, ok, err := ptsProp.NumElements(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, n)
}

func TestBuild_SharesIdenticalSamples(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	props := b.Root().Properties()
	first, err := props.AddScalar("a", format.PodUint32, 1)
	require.NoError(t, err)
	second, err := props.AddScalar("b", format.PodUint32, 1)
	require.NoError(t, err)

	require.NoError(t, first.AddSample([]byte{7, 0, 0, 0}))
	require.NoError(t, second.AddSample([]byte{7, 0, 0, 0}))

	store, err := b.Build()
	require.NoError(t, err)

	objects, err := store.Root().Group(section.SlotObjectRoot)
	require.NoError(t, err)
	propTree, err := objects.Group(0)
	require.NoError(t, err)

	aTree, err := propTree.Group(0)
	require.NoError(t, err)
	bTree, err := propTree.Group(1)
	require.NoError(t, err)

	aSample, err := aTree.Data(0)
	require.NoError(t, err)
	bSample, err := bTree.Data(0)
	require.NoError(t, err)
	require.Same(t, aSample, bSample)
	require.Equal(t, Stats{SampleRecords: 1}, b.Stats())
}

func TestBuild_Stats(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	require.Equal(t, Stats{}, b.Stats())

	pts, err := b.Root().Properties().AddArray("P", format.PodFloat32, 3)
	require.NoError(t, err)
	require.NoError(t, pts.AddSample(make([]byte, 24)))
	require.NoError(t, pts.AddSample(make([]byte, 24), 2))
	require.NoError(t, pts.AddSample(make([]byte, 24), 2))

	_, err = b.Build()
	require.NoError(t, err)

	// both stored samples carry the same payload; the implied and the
	// explicit dimension records differ
	stats := b.Stats()
	require.Equal(t, 1, stats.SampleRecords)
	require.Equal(t, 2, stats.DimensionRecords)
	require.False(t, stats.HashCollision)
}

func TestBuild_Errors(t *testing.T) {
	t.Run("Duplicate object", func(t *testing.T) {
		b, err := New()
		require.NoError(t, err)
		_, err = b.Root().AddChild("a", nil)
		require.NoError(t, err)
		_, err = b.Root().AddChild("a", nil)
		require.ErrorIs(t, err, errs.ErrDuplicateName)
	})

	t.Run("Invalid object name", func(t *testing.T) {
		b, err := New()
		require.NoError(t, err)
		_, err = b.Root().AddChild("", nil)
		require.ErrorIs(t, err, errs.ErrInvalidObjectName)
		_, err = b.Root().AddChild("a/b", nil)
		require.ErrorIs(t, err, errs.ErrInvalidObjectName)
	})

	t.Run("Duplicate property", func(t *testing.T) {
		b, err := New()
		require.NoError(t, err)
		_, err = b.Root().Properties().AddScalar("p", format.PodBool, 1)
		require.NoError(t, err)
		_, err = b.Root().Properties().AddArray("p", format.PodBool, 1)
		require.ErrorIs(t, err, errs.ErrDuplicateName)
	})

	t.Run("Invalid extent and pod", func(t *testing.T) {
		b, err := New()
		require.NoError(t, err)
		_, err = b.Root().Properties().AddScalar("p", format.PodBool, 0)
		require.ErrorIs(t, err, errs.ErrInvalidExtent)
		_, err = b.Root().Properties().AddScalar("q", format.PodBool, 256)
		require.ErrorIs(t, err, errs.ErrInvalidExtent)
		_, err = b.Root().Properties().AddArray("r", format.PodType(14), 1)
		require.ErrorIs(t, err, errs.ErrInvalidPodType)
	})

	t.Run("Sample size", func(t *testing.T) {
		b, err := New()
		require.NoError(t, err)
		s, err := b.Root().Properties().AddScalar("s", format.PodFloat64, 2)
		require.NoError(t, err)
		require.ErrorIs(t, s.AddSample(make([]byte, 8)), errs.ErrSampleSize)
		require.NoError(t, s.AddSample(make([]byte, 16)))

		a, err := b.Root().Properties().AddArray("a", format.PodUint16, 1)
		require.NoError(t, err)
		require.ErrorIs(t, a.AddSample(make([]byte, 3)), errs.ErrSampleSize)
		require.ErrorIs(t, a.AddSample(make([]byte, 4), 3), errs.ErrSampleSize)
		require.NoError(t, a.AddSample(make([]byte, 4), 2, 1))
		require.Equal(t, 1, a.Len())
	})

	t.Run("Empty time sampling", func(t *testing.T) {
		_, err := New(WithTimeSampling())
		require.Error(t, err)
	})
}

func TestAppendDescriptor(t *testing.T) {
	t.Run("Compound", func(t *testing.T) {
		buf, err := appendDescriptor(nil, descriptorFields{
			kind:          format.PropertyCompound,
			metadataIndex: 1,
			name:          ".xform",
		})
		require.NoError(t, err)
		require.Equal(t, []byte("\x00\x00\x10\x00\x06.xform"), buf)
	})

	t.Run("Scalar with explicit indices and wide fields", func(t *testing.T) {
		buf, err := appendDescriptor(nil, descriptorFields{
			kind:       format.PropertyScalar,
			pod:        format.PodFloat32,
			extent:     3,
			compaction: compaction{next: 300, first: 2, last: 5, layout: section.ChangedIndexExplicit},
			name:       "p",
		})
		require.NoError(t, err)

		r, err := section.NewHeaderReader(buf, len(buf))
		require.NoError(t, err)

		info, err := r.PropertyInfo()
		require.NoError(t, err)
		require.Equal(t, format.PropertyScalar, info.Kind())
		require.Equal(t, section.SizeHint16, info.SizeHint())
		require.Equal(t, format.PodFloat32, info.PodType())
		require.Equal(t, uint8(3), info.Extent())
		require.Equal(t, section.ChangedIndexExplicit, info.ChangedIndexLayout())

		for _, want := range []uint32{300, 2, 5, 1} {
			v, err := r.Sized(info.SizeHint())
			require.NoError(t, err)
			require.Equal(t, want, v)
		}

		name, err := r.Name(1)
		require.NoError(t, err)
		require.Equal(t, "p", name)
		require.False(t, r.More())
	})
}
