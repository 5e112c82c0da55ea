package categorize

import (
	"github.com/npillmayer/categorizer/model"
	"github.com/npillmayer/categorizer/tree"
)

// populate fills an item node with the handles of source row r nested under
// sourceParent, registers them in the mapping table and mirrors the rows nested
// below them.
func (c *Categorizer) populate(item tree.ID, r int, sourceParent model.Handle) {
	n := c.source.FieldCount(sourceParent)
	positions := make([]model.Handle, 0, n)
	for j := 0; j < n; j++ {
		h := c.source.Handle(r, j, sourceParent)
		assertThat(h.Valid(), "source returned no handle for %d,%d under %s", r, j, sourceParent)
		positions = append(positions, h)
		c.mapping[h] = item
	}
	c.forest.Payload(item).positions = positions
	for j, h := range positions {
		if c.source.HasChildren(h) {
			c.mirrorChildren(h, item, j)
		}
	}
}

// mirrorChildren creates item nodes for all source rows nested under sourceParent.
// Nested rows are never filed into buckets.
func (c *Categorizer) mirrorChildren(sourceParent model.Handle, owner tree.ID, branch int) {
	rows := c.source.RowCount(sourceParent)
	for r := 0; r < rows; r++ {
		item := c.forest.NewNode(entry{})
		c.forest.AddChild(owner, item, branch)
		c.populate(item, r, sourceParent)
	}
}

// dropItem deletes an item node with its subtree and unregisters all of their
// handles from the mapping table.
func (c *Categorizer) dropItem(item tree.ID) {
	c.forest.Delete(item, func(_ tree.ID, e *entry) {
		for _, h := range e.positions {
			delete(c.mapping, h)
		}
	})
}

func (c *Categorizer) positions(id tree.ID) []model.Handle {
	if e := c.forest.Payload(id); e != nil {
		return e.positions
	}
	return nil
}

// fieldOf returns the field of an item node a handle belongs to, or -1.
func (c *Categorizer) fieldOf(item tree.ID, h model.Handle) int {
	for j, p := range c.positions(item) {
		if p == h {
			return j
		}
	}
	return -1
}

// sourceRow returns the current source row of an item node, or -1.
func (c *Categorizer) sourceRow(item tree.ID) int {
	positions := c.positions(item)
	if len(positions) == 0 {
		return -1
	}
	addr, ok := c.source.Locate(positions[0])
	if !ok {
		return -1
	}
	return addr.Row
}

func (c *Categorizer) isBucket(id tree.ID) bool {
	return c.forest.Alive(id) && !c.forest.Parent(id).Valid()
}

// insertionSlot finds the position of source row r among the children of a
// bucket: before the first child with a source row ≥ r.
func (c *Categorizer) insertionSlot(bucket tree.ID, r int) int {
	children := c.forest.Children(bucket)
	for j, ch := range children {
		if c.sourceRow(ch) >= r {
			return j
		}
	}
	return len(children)
}

// --- Branches --------------------------------------------------------------

// Items keep the rows nested under all of their fields in a single list of
// children; the branch of a child tells which field it is nested under.

func (c *Categorizer) countBranch(owner tree.ID, branch int) int {
	n := 0
	for _, ch := range c.forest.Children(owner) {
		if c.forest.Branch(ch) == branch {
			n++
		}
	}
	return n
}

// childAt returns the child at row r of a branch.
func (c *Categorizer) childAt(owner tree.ID, branch int, r int) tree.ID {
	k := 0
	for _, ch := range c.forest.Children(owner) {
		if c.forest.Branch(ch) == branch {
			if k == r {
				return ch
			}
			k++
		}
	}
	return tree.NoNode
}

// childSlot returns the position within the children of owner where a child
// for row r of a branch has to be inserted.
func (c *Categorizer) childSlot(owner tree.ID, branch int, r int) int {
	k := 0
	children := c.forest.Children(owner)
	for j, ch := range children {
		if c.forest.Branch(ch) == branch {
			if k == r {
				return j
			}
			k++
		}
	}
	return len(children)
}

// siblingRow returns the row of a node within its parent (within its branch), or
// within the buckets.
func (c *Categorizer) siblingRow(id tree.ID) int {
	parent := c.forest.Parent(id)
	if !parent.Valid() {
		return c.forest.IndexOfRoot(id)
	}
	branch := c.forest.Branch(id)
	k := 0
	for _, ch := range c.forest.Children(parent) {
		if ch == id {
			return k
		}
		if c.forest.Branch(ch) == branch {
			k++
		}
	}
	return -1
}

// indexFor creates a view index for a field of a node.
func (c *Categorizer) indexFor(id tree.ID, field int) Index {
	if !c.forest.Alive(id) || field < 0 {
		return Index{}
	}
	row := c.siblingRow(id)
	if row < 0 {
		return Index{}
	}
	return Index{row: row, field: field, node: id}
}
