package categorize

import (
	"github.com/npillmayer/categorizer/model"
)

// onDataChanged re-files top-level rows whose key may have changed, then
// announces the changed fields at their (possibly new) place in the view.
func (c *Categorizer) onDataChanged(n model.Notification) {
	if !n.Parent.Valid() && n.HasRole(c.keyRole) &&
		n.FirstField <= c.keyField && c.keyField <= n.LastField {
		//
		for r := n.First; r <= n.Last; r++ {
			c.rekey(r)
		}
	}
	c.forwardDataChanged(n)
}

// rekey moves the item of top-level source row r to the bucket for its current key,
// creating the bucket if necessary. A bucket left empty is dropped after the move.
func (c *Categorizer) rekey(r int) {
	item, ok := c.mapping[c.source.Handle(r, c.keyField, model.NoHandle)]
	if !ok {
		tracer().Errorf("data changed for unknown source row %d", r)
		return
	}
	from := c.forest.Parent(item)
	assertThat(c.isBucket(from), "item %s for row %d is not filed into a bucket", item, r)
	key := c.keyOf(r)
	if c.equal(c.forest.Payload(from).category, key) {
		return
	}
	to := c.bucketOrNew(key)
	slot := c.insertionSlot(to, r)
	fromRow := c.forest.IndexOfChild(from, item)
	c.notifier.begin(Event{
		Kind:           BeginMoveRows,
		Parent:         c.indexFor(from, 0),
		First:          fromRow,
		Last:           fromRow,
		Destination:    c.indexFor(to, 0),
		DestinationRow: slot,
	})
	c.forest.Isolate(item)
	c.forest.InsertChildAt(to, slot, item, 0)
	c.notifier.end(EndMoveRows)
	tracer().Debugf("moved source row %d to bucket %v, row %d", r, key, slot)
	if c.forest.ChildCount(from) == 0 {
		c.pruneBucket(from)
	}
}

func (c *Categorizer) forwardDataChanged(n model.Notification) {
	if n.First > n.Last || n.FirstField > n.LastField {
		return
	}
	span := func(r int) (Index, Index) {
		tl := c.MapFromSource(c.source.Handle(r, n.FirstField, n.Parent))
		br := c.MapFromSource(c.source.Handle(r, n.LastField, n.Parent))
		return tl, br
	}
	if n.Parent.Valid() { // nested rows are siblings in the view as well
		tl, _ := span(n.First)
		_, br := span(n.Last)
		if tl.IsValid() && br.IsValid() {
			c.notifier.signal(Event{Kind: DataChanged, TopLeft: tl, BottomRight: br, Roles: n.Roles})
		}
		return
	}
	for r := n.First; r <= n.Last; r++ {
		if tl, br := span(r); tl.IsValid() && br.IsValid() {
			c.notifier.signal(Event{Kind: DataChanged, TopLeft: tl, BottomRight: br, Roles: n.Roles})
		}
	}
}
