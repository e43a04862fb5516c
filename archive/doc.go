// Package archive decodes the object and property graphs of an Ogawa
// archive from a node.Store.
//
// The root group of a store carries six header slots: archive version, file
// version, the root object subtree, archive metadata, the time-sampling table
// and the indexed metadata table. Open decodes all of them eagerly; the
// resulting Archive, its Objects and Properties are immutable.
//
// # Objects
//
// Every object subtree is a group laid out as
//
//	[property tree, child subtree 1, ..., child subtree n, header blob]
//
// The header blob holds one record per child (u32 name length, name, u8
// metadata selector, optional inline metadata) followed by a 32-byte trailer
// that is not part of the header region.
//
// # Properties
//
// A property tree is a group whose last child is a packed descriptor blob and
// whose other children are the subtrees of the described properties in order.
// Scalar subtrees hold one Data record per stored sample; array subtrees hold
// (payload, dimensions) pairs. Every non-empty stored sample starts with a
// 16-byte digest that is exposed but never verified.
//
// Writers store only the samples that change. SampleIndex maps a logical
// sample index to its stored position:
//
//	a, err := archive.Open(store)
//	obj, err := a.Lookup("/xform/mesh")
//	p, err := obj.Properties().Property("P")
//	payload, ok, err := p.(*archive.ArrayProperty).Sample(3)
package archive
