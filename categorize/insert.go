package categorize

import (
	"github.com/npillmayer/categorizer/model"
	"github.com/npillmayer/categorizer/tree"
)

func (c *Categorizer) onRowsInserted(n model.Notification) {
	if !n.Parent.Valid() {
		c.insertTopLevel(n.First, n.Last)
		return
	}
	c.insertNested(n.Parent, n.First, n.Last)
}

// insertTopLevel files freshly inserted source rows into their buckets, one row
// at a time in ascending order. Every row gets its own bracket.
func (c *Categorizer) insertTopLevel(first, last int) {
	if c.source.FieldCount(model.NoHandle) == 0 {
		tracer().Infof("ignoring rows %d…%d of a source without fields", first, last)
		return
	}
	for r := first; r <= last; r++ {
		bucket := c.bucketOrNew(c.keyOf(r))
		slot := c.insertionSlot(bucket, r)
		c.notifier.begin(Event{
			Kind:   BeginInsertRows,
			Parent: c.indexFor(bucket, 0),
			First:  slot,
			Last:   slot,
		})
		item := c.forest.NewNode(entry{})
		c.forest.AddChild(bucket, item, 0)
		if end := c.forest.ChildCount(bucket) - 1; slot != end {
			c.forest.MoveChild(bucket, end, slot)
		}
		c.populate(item, r, model.NoHandle)
		c.notifier.end(EndInsertRows)
		tracer().Debugf("filed source row %d as row %d of bucket %v", r, slot, c.forest.Payload(bucket).category)
	}
}

// insertNested mirrors rows inserted below a nested source cell, one to one.
func (c *Categorizer) insertNested(sourceParent model.Handle, first, last int) {
	owner, ok := c.mapping[sourceParent]
	if !ok {
		tracer().Errorf("rows inserted under unknown source cell %s", sourceParent)
		return
	}
	branch := c.fieldOf(owner, sourceParent)
	c.notifier.begin(Event{
		Kind:   BeginInsertRows,
		Parent: c.indexFor(owner, branch),
		First:  first,
		Last:   last,
	})
	for r := first; r <= last; r++ {
		slot := c.childSlot(owner, branch, r)
		item := c.forest.NewNode(entry{})
		c.forest.AddChild(owner, item, branch)
		if end := c.forest.ChildCount(owner) - 1; slot != end {
			c.forest.MoveChild(owner, end, slot)
		}
		c.populate(item, r, sourceParent)
	}
	c.notifier.end(EndInsertRows)
}

// --- Fields ----------------------------------------------------------------

func (c *Categorizer) onFieldsAboutToBeInserted(n model.Notification) {
	if !n.Parent.Valid() {
		c.notifier.begin(Event{Kind: BeginInsertFields, First: n.First, Last: n.Last})
		return
	}
	owner, ok := c.mapping[n.Parent]
	if !ok {
		tracer().Errorf("fields inserted under unknown source cell %s", n.Parent)
		return
	}
	c.notifier.begin(Event{
		Kind:   BeginInsertFields,
		Parent: c.indexFor(owner, c.fieldOf(owner, n.Parent)),
		First:  n.First,
		Last:   n.Last,
	})
}

// onFieldsInserted extends the field positions of all items of the affected
// level. For the top level, the bracket opened at the top of the view is closed
// first, then every bucket receives a bracket of its own.
func (c *Categorizer) onFieldsInserted(n model.Notification) {
	if !c.notifier.isOpen(BeginInsertFields) {
		return // unknown parent, already reported
	}
	if !n.Parent.Valid() {
		if c.forest.Len() == 0 && c.source.RowCount(model.NoHandle) > 0 {
			c.notifier.end(EndInsertFields) // source had no fields before
			c.rebuild()
			return
		}
		for _, bucket := range c.forest.Roots() {
			for _, item := range c.forest.Children(bucket) {
				c.insertPositions(item, model.NoHandle, n.First, n.Last)
			}
		}
		c.notifier.end(EndInsertFields)
		for _, bucket := range c.forest.Roots() {
			c.notifier.begin(Event{
				Kind:   BeginInsertFields,
				Parent: c.indexFor(bucket, 0),
				First:  n.First,
				Last:   n.Last,
			})
			c.notifier.end(EndInsertFields)
		}
		count := n.Last - n.First + 1
		if n.First <= c.keyField && c.source.FieldCount(model.NoHandle) > count {
			// the key field moves along with its cells
			c.keyField += count
			c.notifier.signal(Event{Kind: KeyFieldChanged, KeyField: c.keyField, KeyRole: c.keyRole})
		}
		return
	}
	owner := c.mapping[n.Parent]
	branch := c.fieldOf(owner, n.Parent)
	for _, item := range c.forest.Children(owner) {
		if c.forest.Branch(item) == branch {
			c.insertPositions(item, n.Parent, n.First, n.Last)
		}
	}
	c.notifier.end(EndInsertFields)
}

// insertPositions inserts the handles of fields first…last into an item node.
// Rows nested under fields at or after first move along.
func (c *Categorizer) insertPositions(item tree.ID, sourceParent model.Handle, first, last int) {
	var r int
	if sourceParent.Valid() {
		r = c.siblingRow(item) // nested rows mirror their source level, possibly without fields
	} else {
		r = c.sourceRow(item)
	}
	assertThat(r >= 0, "cannot locate item %s in source", item)
	count := last - first + 1
	old := c.positions(item)
	positions := make([]model.Handle, 0, len(old)+count)
	positions = append(positions, old[:first]...)
	for j := first; j <= last; j++ {
		h := c.source.Handle(r, j, sourceParent)
		positions = append(positions, h)
		c.mapping[h] = item
	}
	positions = append(positions, old[first:]...)
	c.forest.Payload(item).positions = positions
	for _, ch := range c.forest.Children(item) {
		if b := c.forest.Branch(ch); b >= first {
			c.forest.SetBranch(ch, b+count)
		}
	}
}
