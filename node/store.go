package node

import "github.com/arloliu/ogawa/section"

// Store is a decoded or programmatically built archive graph: the file header
// fields plus the root group.
//
// A Store is immutable and safe for concurrent use.
type Store struct {
	header section.FileHeader
	root   *Group
}

// New creates a store around root with a finished-archive header
// (write flag 0xFF, version 0.1).
//
// A nil root is treated as an empty group.
func New(root *Group) *Store {
	if root == nil {
		root = NewGroup()
	}

	return &Store{
		header: section.NewFileHeader(),
		root:   root,
	}
}

// Root returns the root group.
func (s *Store) Root() *Group {
	return s.root
}

// Header returns the file header. For a built store the root pointer is zero
// until the store is serialized and decoded again.
func (s *Store) Header() section.FileHeader {
	return s.header
}

// Version returns the (major, minor) format version pair.
func (s *Store) Version() [2]uint8 {
	return s.header.Version
}

// IsWritten reports whether the write flag marks the archive as finished.
func (s *Store) IsWritten() bool {
	return s.header.IsWritten()
}
