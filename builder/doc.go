// Package builder constructs archives programmatically.
//
// A builder mirrors the decoded object model: objects own child objects and a
// root compound property, compounds hold scalar, array and compound
// properties, and scalar and array properties collect samples.
//
//	b, err := builder.New(builder.WithArchiveMetadata(map[string]string{"app": "demo"}))
//	cube, err := b.Root().AddChild("Cube", map[string]string{"schema": "AbcGeom_Xform_v3"})
//	xform, err := cube.Properties().AddCompound(".xform", nil)
//	vis, err := xform.AddScalar("visible", format.PodInt8, 1)
//	err = vis.AddSample([]byte{1})
//
//	store, err := b.Build()
//	buf, err := store.Serialize()
//
// Build interns metadata into the indexed table, writes object header blobs
// with digest trailers, picks the narrowest size hint for each property
// descriptor and compacts each sample sequence: only the first sample and the
// run between the first and last change are stored. Stored samples with
// identical bytes share one node and are serialized once.
package builder
