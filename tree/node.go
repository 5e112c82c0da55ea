package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
)

/*
We manage a forest of mutable nodes. Each node carries a payload of type parameter T.
Nodes live in an arena and are addressed by IDs; a node maintains a slice of children IDs
and a back-reference to its parent.

Ownership is strict: a node is contained in at most one children slice (or in the slice
of roots), and deleting a node deletes its complete subtree.
*/

// ID is a stable address of a node within a forest. The zero value is an invalid ID.
// IDs of deleted nodes are detected as stale, even if the arena slot has been re-used.
type ID struct {
	slot uint32
	gen  uint32
}

// NoNode is the invalid ID.
var NoNode = ID{}

// Valid returns true if id has been handed out by a forest. It does not check
// whether the node is still alive (see Forest.Alive).
func (id ID) Valid() bool {
	return id.gen != 0
}

func (id ID) String() string {
	if !id.Valid() {
		return "#-"
	}
	return fmt.Sprintf("#%d.%d", id.slot, id.gen)
}

type node[T any] struct {
	payload  T
	parent   ID   // parent node of this node, NoNode for roots
	branch   int  // which field of the parent this node hangs under
	children []ID // ordered children
	gen      uint32
	alive    bool
}

// Forest is an arena of nodes, together with an ordered sequence of root nodes.
// The zero value is not usable, create forests with NewForest.
//
// Forests are not safe for concurrent use.
type Forest[T any] struct {
	nodes []node[T]
	free  []uint32
	roots []ID
	count int
}

// NewForest creates an empty forest.
func NewForest[T any]() *Forest[T] {
	return &Forest[T]{}
}

// NewNode creates a new, unattached node with a given payload.
func (f *Forest[T]) NewNode(payload T) ID {
	var slot uint32
	if n := len(f.free); n > 0 {
		slot = f.free[n-1]
		f.free = f.free[:n-1]
	} else {
		f.nodes = append(f.nodes, node[T]{})
		slot = uint32(len(f.nodes) - 1)
	}
	nd := &f.nodes[slot]
	nd.gen++
	nd.alive = true
	nd.payload = payload
	nd.parent = NoNode
	nd.branch = 0
	nd.children = nil
	f.count++
	return ID{slot: slot, gen: nd.gen}
}

func (f *Forest[T]) get(id ID) *node[T] {
	if !id.Valid() || int(id.slot) >= len(f.nodes) {
		return nil
	}
	nd := &f.nodes[id.slot]
	if !nd.alive || nd.gen != id.gen {
		return nil
	}
	return nd
}

func (f *Forest[T]) mustGet(id ID) *node[T] {
	nd := f.get(id)
	assertThat(nd != nil, "stale or invalid node %s", id)
	return nd
}

// Alive returns true if id addresses a node which has not been deleted.
func (f *Forest[T]) Alive(id ID) bool {
	return f.get(id) != nil
}

// Len returns the number of live nodes in the forest.
func (f *Forest[T]) Len() int {
	return f.count
}

// Payload returns a pointer to the payload of a node, or nil for stale IDs.
// The pointer is valid until the next call to NewNode.
func (f *Forest[T]) Payload(id ID) *T {
	if nd := f.get(id); nd != nil {
		return &nd.payload
	}
	return nil
}

// Parent returns the parent node or NoNode (for roots, unattached nodes and stale IDs).
func (f *Forest[T]) Parent(id ID) ID {
	if nd := f.get(id); nd != nil {
		return nd.parent
	}
	return NoNode
}

// Branch returns the branch index of a node, i.e. the field of its parent it is
// nested under.
func (f *Forest[T]) Branch(id ID) int {
	if nd := f.get(id); nd != nil {
		return nd.branch
	}
	return -1
}

// SetBranch changes the branch index of a node.
func (f *Forest[T]) SetBranch(id ID, branch int) {
	f.mustGet(id).branch = branch
}

// AddChild appends a child node to a parent node, nested under branch.
// The child is connected to the parent as its parent and must not be
// attached elsewhere.
// It returns the parent node to allow for chaining.
func (f *Forest[T]) AddChild(parent ID, ch ID, branch int) ID {
	return f.InsertChildAt(parent, f.ChildCount(parent), ch, branch)
}

// InsertChildAt inserts a child node at position i in relation to other children,
// shifting children at later positions. Positions beyond the end append.
// It returns the parent node to allow for chaining.
func (f *Forest[T]) InsertChildAt(parent ID, i int, ch ID, branch int) ID {
	p := f.mustGet(parent)
	c := f.mustGet(ch)
	assertThat(!c.parent.Valid() && f.IndexOfRoot(ch) < 0, "node %s is already attached", ch)
	if i < 0 {
		i = 0
	}
	if i >= len(p.children) {
		p.children = append(p.children, ch)
	} else {
		p.children = append(p.children, NoNode) // make room for one child
		copy(p.children[i+1:], p.children[i:])   // shift i+1..n
		p.children[i] = ch
	}
	c.parent = parent
	c.branch = branch
	return parent
}

// MoveChild relocates the child at position from to position to, within
// the children of parent. Positions refer to the sequence before the move.
func (f *Forest[T]) MoveChild(parent ID, from, to int) {
	p := f.mustGet(parent)
	n := len(p.children)
	assertThat(from >= 0 && from < n, "move source %d out of range [0,%d)", from, n)
	if to > n-1 {
		to = n - 1
	}
	if to < 0 {
		to = 0
	}
	if from == to {
		return
	}
	ch := p.children[from]
	if from < to {
		copy(p.children[from:to], p.children[from+1:to+1])
	} else {
		copy(p.children[to+1:from+1], p.children[to:from])
	}
	p.children[to] = ch
}

// Isolate removes a node from its parent (or from the sequence of roots).
// The node and its subtree stay alive.
// Isolate returns the isolated node.
func (f *Forest[T]) Isolate(id ID) ID {
	nd := f.get(id)
	if nd == nil {
		return id
	}
	if nd.parent.Valid() {
		p := f.mustGet(nd.parent)
		p.children = removeID(p.children, id)
		nd.parent = NoNode
	} else {
		f.roots = removeID(f.roots, id)
	}
	return id
}

// Delete isolates a node and then deletes it together with its complete
// subtree. visit is called (if non-nil) for every node of the subtree,
// parents before children, while the node is still alive.
func (f *Forest[T]) Delete(id ID, visit func(ID, *T)) {
	if f.get(id) == nil {
		return
	}
	f.Isolate(id)
	f.release(id, visit)
}

func (f *Forest[T]) release(id ID, visit func(ID, *T)) {
	nd := f.mustGet(id)
	if visit != nil {
		visit(id, &nd.payload)
	}
	children := nd.children
	nd.children = nil
	for _, ch := range children {
		f.release(ch, visit)
	}
	nd = f.mustGet(id)
	var zero T
	nd.payload = zero
	nd.parent = NoNode
	nd.alive = false
	f.free = append(f.free, id.slot)
	f.count--
}

// ChildCount returns the number of children-nodes for a node.
func (f *Forest[T]) ChildCount(id ID) int {
	if nd := f.get(id); nd != nil {
		return len(nd.children)
	}
	return 0
}

// Child returns the n-th child of a node.
func (f *Forest[T]) Child(id ID, n int) (ID, bool) {
	nd := f.get(id)
	if nd == nil || n < 0 || n >= len(nd.children) {
		return NoNode, false
	}
	return nd.children[n], true
}

// Children returns a copy of the slice of children of a node.
func (f *Forest[T]) Children(id ID) []ID {
	nd := f.get(id)
	if nd == nil {
		return nil
	}
	children := make([]ID, len(nd.children))
	copy(children, nd.children)
	return children
}

// IndexOfChild returns the index of a child within the list of children
// of parent, or -1.
func (f *Forest[T]) IndexOfChild(parent ID, ch ID) int {
	if nd := f.get(parent); nd != nil {
		return indexOf(nd.children, ch)
	}
	return -1
}

// --- Roots -----------------------------------------------------------------

// AppendRoot appends an unattached node to the sequence of roots.
func (f *Forest[T]) AppendRoot(id ID) {
	nd := f.mustGet(id)
	assertThat(!nd.parent.Valid() && f.IndexOfRoot(id) < 0, "node %s is already attached", id)
	f.roots = append(f.roots, id)
}

// RootCount returns the number of roots in the forest.
func (f *Forest[T]) RootCount() int {
	return len(f.roots)
}

// Root returns the n-th root of the forest.
func (f *Forest[T]) Root(n int) (ID, bool) {
	if n < 0 || n >= len(f.roots) {
		return NoNode, false
	}
	return f.roots[n], true
}

// Roots returns a copy of the sequence of roots.
func (f *Forest[T]) Roots() []ID {
	roots := make([]ID, len(f.roots))
	copy(roots, f.roots)
	return roots
}

// IndexOfRoot returns the position of a node within the sequence of roots, or -1.
func (f *Forest[T]) IndexOfRoot(id ID) int {
	return indexOf(f.roots, id)
}

// Clear deletes all nodes. All IDs handed out before will be stale afterwards.
func (f *Forest[T]) Clear() {
	for _, r := range f.Roots() {
		f.Delete(r, nil)
	}
	for i := range f.nodes { // unattached nodes
		if f.nodes[i].alive {
			f.Delete(ID{slot: uint32(i), gen: f.nodes[i].gen}, nil)
		}
	}
	f.roots = nil
}

// ---------------------------------------------------------------------------

func indexOf(ids []ID, id ID) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}

func removeID(ids []ID, id ID) []ID {
	if i := indexOf(ids, id); i >= 0 {
		copy(ids[i:], ids[i+1:])
		ids[len(ids)-1] = NoNode
		return ids[:len(ids)-1]
	}
	return ids
}
