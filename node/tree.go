package node

import (
	"fmt"

	"github.com/arloliu/ogawa/errs"
)

// FromTree builds a store whose root group holds the elements of tree.
//
// Elements map to nodes by type:
//   - []byte becomes a Data node over the slice (not copied)
//   - string becomes a Data node over its UTF-8 bytes
//   - []any becomes a Group; an empty []any is an empty group
//   - an existing *Data or *Group is linked in as is, so one node can appear
//     under several parents
//
// Any other element, nil included, fails with ErrUnsupportedTree.
func FromTree(tree []any) (*Store, error) {
	root, err := groupFromTree(tree, "")
	if err != nil {
		return nil, err
	}

	return New(root), nil
}

func groupFromTree(elems []any, path string) (*Group, error) {
	children := make([]Node, len(elems))
	for i, elem := range elems {
		elemPath := fmt.Sprintf("%s[%d]", path, i)

		switch v := elem.(type) {
		case []byte:
			children[i] = NewData(v)
		case string:
			children[i] = NewData([]byte(v))
		case []any:
			g, err := groupFromTree(v, elemPath)
			if err != nil {
				return nil, err
			}
			children[i] = g
		case *Data:
			if v == nil {
				return nil, fmt.Errorf("%w: nil *Data at %s", errs.ErrUnsupportedTree, elemPath)
			}
			children[i] = v
		case *Group:
			if v == nil {
				return nil, fmt.Errorf("%w: nil *Group at %s", errs.ErrUnsupportedTree, elemPath)
			}
			children[i] = v
		default:
			return nil, fmt.Errorf("%w: %T at %s", errs.ErrUnsupportedTree, elem, elemPath)
		}
	}

	return &Group{children: children}, nil
}

// ToTree returns the root group's children as a nested structure: groups
// become []any and data nodes become the result of transform applied to
// their bytes. A nil transform yields the raw []byte, never nil.
func (s *Store) ToTree(transform func([]byte) any) []any {
	return groupToTree(s.root, transform)
}

func groupToTree(g *Group, transform func([]byte) any) []any {
	tree := make([]any, len(g.children))
	for i, child := range g.children {
		switch n := child.(type) {
		case *Group:
			tree[i] = groupToTree(n, transform)
		case *Data:
			b := n.Bytes()
			if b == nil {
				b = []byte{}
			}

			if transform != nil {
				tree[i] = transform(b)
			} else {
				tree[i] = b
			}
		}
	}

	return tree
}
