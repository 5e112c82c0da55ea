package categorize

import (
	"sort"

	"github.com/npillmayer/categorizer/model"
)

// RemoveRows asks the source to remove count rows of the view, starting at row,
// below parent. Buckets cannot be removed directly: they vanish with their last
// row. The view is not touched here; it follows the notifications the source
// sends while removing. Errors of the source are returned unchanged.
//
// The rows of a bucket are generally not adjacent in the source. They are
// removed in runs of adjacent source rows, starting with the highest one. If the
// source rejects a run, the runs removed before stay removed.
func (c *Categorizer) RemoveRows(row, count int, parent Index) error {
	if c.source == nil {
		return ErrNoSource
	}
	if !parent.IsValid() {
		return ErrUnsupportedEdit
	}
	if row < 0 || count <= 0 || !c.forest.Alive(parent.node) || row+count > c.RowCount(parent) {
		return ErrInvalidIndex
	}
	if !c.isBucket(parent.node) {
		return c.source.RemoveRows(row, count, c.MapToSource(parent))
	}
	children := c.forest.Children(parent.node)[row : row+count]
	rows := make([]int, 0, len(children))
	for _, ch := range children {
		rows = append(rows, c.sourceRow(ch))
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rows)))
	for len(rows) > 0 {
		n := 1
		for n < len(rows) && rows[n] == rows[n-1]-1 {
			n++
		}
		first := rows[n-1]
		tracer().Debugf("forwarding removal of source rows %d…%d", first, first+n-1)
		if err := c.source.RemoveRows(first, n, model.NoHandle); err != nil {
			return err
		}
		rows = rows[n:]
	}
	return nil
}

// onRowsAboutToBeRemoved prunes the items of source rows which are about to be
// removed, while their handles are still valid.
func (c *Categorizer) onRowsAboutToBeRemoved(n model.Notification) {
	if !n.Parent.Valid() {
		for r := n.Last; r >= n.First; r-- {
			c.removeTopLevel(r)
		}
		return
	}
	owner, ok := c.mapping[n.Parent]
	if !ok {
		tracer().Errorf("rows removed under unknown source cell %s", n.Parent)
		return
	}
	branch := c.fieldOf(owner, n.Parent)
	c.notifier.begin(Event{
		Kind:   BeginRemoveRows,
		Parent: c.indexFor(owner, branch),
		First:  n.First,
		Last:   n.Last,
	})
	for r := n.Last; r >= n.First; r-- {
		if item := c.childAt(owner, branch, r); item.Valid() {
			c.dropItem(item)
		}
	}
	c.notifier.end(EndRemoveRows)
}

func (c *Categorizer) removeTopLevel(r int) {
	item, ok := c.mapping[c.source.Handle(r, 0, model.NoHandle)]
	if !ok {
		return // source without fields
	}
	bucket := c.forest.Parent(item)
	at := c.forest.IndexOfChild(bucket, item)
	c.notifier.begin(Event{
		Kind:   BeginRemoveRows,
		Parent: c.indexFor(bucket, 0),
		First:  at,
		Last:   at,
	})
	c.dropItem(item)
	c.notifier.end(EndRemoveRows)
	tracer().Debugf("removed source row %d from bucket %v", r, c.forest.Payload(bucket).category)
	if c.forest.ChildCount(bucket) == 0 {
		c.pruneBucket(bucket)
	}
}
