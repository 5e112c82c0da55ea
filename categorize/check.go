package categorize

import (
	"fmt"

	"github.com/npillmayer/categorizer/model"
	"github.com/npillmayer/categorizer/tree"
)

// Verify checks the invariants of the view against its source:
//
//   - buckets carry no field positions and have at least one row
//   - the rows of a bucket have keys equal to the bucket's key and ascend by
//     source row
//   - every item has as many field positions as its source level has fields,
//     each mapping back to the item and locating to the item's source row
//   - nested rows mirror the source rows one to one
//   - the mapping table holds no entries beyond the positions of live items
//
// A non-nil result indicates a defect and wraps ErrInconsistent.
func (c *Categorizer) Verify() error {
	if c.notifier.open != nil {
		return inconsistent("bracket %s still open", c.notifier.open)
	}
	if c.source == nil || c.source.FieldCount(model.NoHandle) == 0 {
		if c.forest.Len() != 0 || len(c.mapping) != 0 {
			return inconsistent("view of an empty source holds %d nodes, %d handles",
				c.forest.Len(), len(c.mapping))
		}
		return nil
	}
	registered, items := 0, 0
	for b, bucket := range c.forest.Roots() {
		e := c.forest.Payload(bucket)
		if len(e.positions) != 0 {
			return inconsistent("bucket #%d carries field positions", b)
		}
		if c.forest.ChildCount(bucket) == 0 {
			return inconsistent("bucket #%d (%v) is empty", b, e.category)
		}
		prev := -1
		for _, item := range c.forest.Children(bucket) {
			if c.forest.Parent(item) != bucket {
				return inconsistent("item %s in bucket #%d has parent %s", item, b, c.forest.Parent(item))
			}
			r := c.sourceRow(item)
			if r <= prev {
				return inconsistent("bucket #%d: source row %d follows row %d", b, r, prev)
			}
			prev = r
			if key := c.keyOf(r); !c.equal(e.category, key) {
				return inconsistent("source row %d with key %v filed into bucket %v", r, key, e.category)
			}
			n, err := c.verifyItem(item, model.NoHandle, r)
			if err != nil {
				return err
			}
			registered += n
			items++
		}
	}
	if rows := c.source.RowCount(model.NoHandle); items != rows {
		return inconsistent("view holds %d top-level items, source has %d rows", items, rows)
	}
	if registered != len(c.mapping) {
		return inconsistent("mapping table holds %d handles, items own %d", len(c.mapping), registered)
	}
	reachable := 0
	_ = c.forest.Walk(func(tree.ID, *entry) error {
		reachable++
		return nil
	})
	if reachable != c.forest.Len() {
		return inconsistent("forest holds %d nodes, %d of them reachable", c.forest.Len(), reachable)
	}
	return nil
}

// verifyItem checks an item and its nested rows. It returns the number of
// handles owned by the subtree.
func (c *Categorizer) verifyItem(item tree.ID, sourceParent model.Handle, r int) (int, error) {
	positions := c.positions(item)
	if n := c.source.FieldCount(sourceParent); len(positions) != n {
		return 0, inconsistent("item %s has %d field positions, source level has %d fields",
			item, len(positions), n)
	}
	for j, h := range positions {
		if owner, ok := c.mapping[h]; !ok || owner != item {
			return 0, inconsistent("handle %s of item %s maps to %s", h, item, owner)
		}
		addr, ok := c.source.Locate(h)
		if !ok || addr.Parent != sourceParent || addr.Row != r || addr.Field != j {
			return 0, inconsistent("handle %s of item %s locates to %s, expected %s[%d,%d]",
				h, item, addr, sourceParent, r, j)
		}
	}
	count, mirrored := len(positions), 0
	for j, h := range positions {
		rows := c.source.RowCount(h)
		if k := c.countBranch(item, j); k != rows {
			return 0, inconsistent("item %s mirrors %d rows under field %d, source has %d", item, k, j, rows)
		}
		for k := 0; k < rows; k++ {
			ch := c.childAt(item, j, k)
			if c.forest.Parent(ch) != item {
				return 0, inconsistent("nested item %s has parent %s, expected %s", ch, c.forest.Parent(ch), item)
			}
			n, err := c.verifyItem(ch, h, k)
			if err != nil {
				return 0, err
			}
			count += n
		}
		mirrored += rows
	}
	if mirrored != c.forest.ChildCount(item) {
		return 0, inconsistent("item %s has %d children, %d of them in valid branches",
			item, c.forest.ChildCount(item), mirrored)
	}
	return count, nil
}

func inconsistent(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...))
}
