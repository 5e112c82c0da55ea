package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
)

// ErrEmptyTree is returned if a traversal is started at a stale or invalid node.
var ErrEmptyTree = errors.New("cannot walk empty tree")

// ErrSkipChildren may be returned by an Action to prevent descending into the
// children of the current node. It does not abort the traversal as a whole.
var ErrSkipChildren = errors.New("skip children")

// ----------------------------------------------------------------------

// Predicate is a function type to match against nodes of a tree.
// Is is used as an argument for various search functions to
// collect a selection of nodes.
type Predicate[T any] func(f *Forest[T], id ID) bool

// Whatever is a predicate to match anything (see type Predicate).
// It is useful to match the first node in a given direction.
func Whatever[T any]() Predicate[T] {
	return func(*Forest[T], ID) bool {
		return true
	}
}

// NodeIsLeaf is a predicate to match leafs of a tree.
func NodeIsLeaf[T any]() Predicate[T] {
	return func(f *Forest[T], id ID) bool {
		return f.ChildCount(id) == 0
	}
}

// Action is a function type to operate on tree nodes.
type Action[T any] func(id ID, payload *T) error

// ----------------------------------------------------------------------

// TopDown traverses a tree starting at (and including) node id.
// The traversal guarantees that parents are always processed before
// their children; children are visited in order (depth first).
//
// If the action function returns ErrSkipChildren for a node,
// descending the branch below this node is skipped. Any other error
// aborts the traversal and is returned.
func (f *Forest[T]) TopDown(id ID, action Action[T]) error {
	nd := f.get(id)
	if nd == nil {
		return ErrEmptyTree
	}
	if err := action(id, &nd.payload); err != nil {
		if err == ErrSkipChildren {
			return nil
		}
		return err
	}
	for _, ch := range f.Children(id) {
		if err := f.TopDown(ch, action); err != nil {
			return err
		}
	}
	return nil
}

// Walk traverses all trees of the forest, roots in sequence, with TopDown.
func (f *Forest[T]) Walk(action Action[T]) error {
	for _, r := range f.Roots() {
		if err := f.TopDown(r, action); err != nil {
			return err
		}
	}
	return nil
}

// DescendentsWith finds descendents matching a predicate.
// The search does not include the start node.
func (f *Forest[T]) DescendentsWith(id ID, predicate Predicate[T]) []ID {
	var selection []ID
	for _, ch := range f.Children(id) {
		if predicate(f, ch) {
			selection = append(selection, ch)
		}
		selection = append(selection, f.DescendentsWith(ch, predicate)...)
	}
	return selection
}

// AncestorWith finds the nearest ancestor matching the given predicate.
// The search does not include the start node.
func (f *Forest[T]) AncestorWith(id ID, predicate Predicate[T]) (ID, bool) {
	for p := f.Parent(id); p.Valid(); p = f.Parent(p) {
		if predicate(f, p) {
			return p, true
		}
	}
	return NoNode, false
}

// Top returns the root of the tree containing node id.
func (f *Forest[T]) Top(id ID) ID {
	if !f.Alive(id) {
		return NoNode
	}
	for p := f.Parent(id); p.Valid(); p = f.Parent(p) {
		id = p
	}
	return id
}
