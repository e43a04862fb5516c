// Package node implements the offset-addressed record graph underlying an
// Ogawa archive.
//
// An archive file is a 16-byte header followed by records of two kinds:
//
//	Group: u64 child_count, then child_count pointer words
//	Data:  u64 byte_length, then byte_length raw bytes
//
// A pointer word with bit 63 clear is the offset of a Group record; with bit
// 63 set, clearing the bit yields the offset of a Data record. Offset 0 stands
// for an empty group or empty data. The root pointer lives at bytes 8-15.
//
// # Decoding
//
//	store, err := node.Decode(buf)
//	root := store.Root()
//	version, err := root.Data(0)
//
// Decode resolves the whole graph up front. Records referenced from several
// slots decode to one node, so the sharing in a file survives a round trip.
//
// # Building
//
// Graphs are built either from nested values with FromTree or directly with
// NewGroup and NewData:
//
//	shared := node.NewData([]byte("payload"))
//	store := node.New(node.NewGroup(shared, node.NewGroup(shared)))
//	buf, err := store.Serialize()
//
// Serialize writes each distinct node once, keyed by identity rather than
// content.
//
// # Thread Safety
//
// Nodes and stores are immutable after construction and safe for concurrent
// reads. Serialize allocates its bookkeeping per call and may run concurrently.
package node
