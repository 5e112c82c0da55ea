package categorize

import (
	"fmt"

	"github.com/npillmayer/categorizer/model"
	"github.com/npillmayer/categorizer/tree"
)

// Index addresses a field of a row of the view.
//
// The zero Index is invalid; as a parent it denotes the top of the view, i.e.
// the level of the buckets. Indexes are values and do not follow structural
// changes of the view: the row of an index obtained before a change may be
// outdated afterwards. Indexes of deleted rows are detected as invalid.
type Index struct {
	row   int
	field int
	node  tree.ID
}

// IsValid returns true if idx has been produced by a categorizer.
func (idx Index) IsValid() bool {
	return idx.node.Valid()
}

// Row returns the row of idx among its siblings, or -1.
func (idx Index) Row() int {
	if !idx.IsValid() {
		return -1
	}
	return idx.row
}

// Field returns the field of idx, or -1.
func (idx Index) Field() int {
	if !idx.IsValid() {
		return -1
	}
	return idx.field
}

// Sibling returns the index of another field of the same row.
func (idx Index) Sibling(field int) Index {
	if !idx.IsValid() || field < 0 {
		return Index{}
	}
	return Index{row: idx.row, field: field, node: idx.node}
}

func (idx Index) String() string {
	if !idx.IsValid() {
		return "[top]"
	}
	return fmt.Sprintf("[%d,%d %s]", idx.row, idx.field, idx.node)
}

// entry is the payload of a view node. Buckets carry a category, items carry the
// source handles of their fields.
type entry struct {
	positions []model.Handle
	category  model.Value
}
