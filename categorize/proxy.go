package categorize

import (
	"github.com/npillmayer/categorizer/model"
	"github.com/npillmayer/categorizer/tree"
)

// node returns the node of an index, or tree.NoNode for invalid or stale indexes.
func (c *Categorizer) node(idx Index) tree.ID {
	if !idx.IsValid() || !c.forest.Alive(idx.node) {
		return tree.NoNode
	}
	return idx.node
}

// Index returns the index of a field of a child row of parent. The invalid Index
// as parent addresses the buckets. Out-of-range arguments result in an invalid
// Index.
func (c *Categorizer) Index(row, field int, parent Index) Index {
	if c.source == nil || row < 0 || field < 0 || field >= c.FieldCount(parent) {
		return Index{}
	}
	if !parent.IsValid() {
		if b, ok := c.forest.Root(row); ok {
			return Index{row: row, field: field, node: b}
		}
		return Index{}
	}
	owner := c.node(parent)
	if !owner.Valid() {
		return Index{}
	}
	if c.isBucket(owner) {
		if parent.field != 0 {
			return Index{}
		}
		if ch, ok := c.forest.Child(owner, row); ok {
			return Index{row: row, field: field, node: ch}
		}
		return Index{}
	}
	if ch := c.childAt(owner, parent.field, row); ch.Valid() {
		return Index{row: row, field: field, node: ch}
	}
	return Index{}
}

// Parent returns the index of the parent row of idx. For buckets and invalid
// indexes, the invalid Index is returned.
func (c *Categorizer) Parent(idx Index) Index {
	id := c.node(idx)
	if !id.Valid() {
		return Index{}
	}
	parent := c.forest.Parent(id)
	if !parent.Valid() {
		return Index{}
	}
	return c.indexFor(parent, c.forest.Branch(id))
}

// Depth returns 0 for buckets, 1 for the rows of buckets, 2 and more for nested
// rows, and -1 for invalid indexes.
func (c *Categorizer) Depth(idx Index) int {
	id := c.node(idx)
	if !id.Valid() {
		return -1
	}
	d := 0
	for p := c.forest.Parent(id); p.Valid(); p = c.forest.Parent(p) {
		d++
	}
	return d
}

// RowCount returns the number of child rows of parent.
func (c *Categorizer) RowCount(parent Index) int {
	if c.source == nil {
		return 0
	}
	if !parent.IsValid() {
		return c.forest.RootCount()
	}
	owner := c.node(parent)
	if !owner.Valid() {
		return 0
	}
	if c.isBucket(owner) {
		if parent.field != 0 {
			return 0
		}
		return c.forest.ChildCount(owner)
	}
	return c.countBranch(owner, parent.field)
}

// FieldCount returns the number of fields of the child rows of parent. Buckets
// and their rows share the field count of the top level of the source.
func (c *Categorizer) FieldCount(parent Index) int {
	if c.source == nil {
		return 0
	}
	if !parent.IsValid() || c.isBucket(c.node(parent)) {
		return c.source.FieldCount(model.NoHandle)
	}
	h := c.MapToSource(parent)
	if !h.Valid() {
		return 0
	}
	return c.source.FieldCount(h)
}

// HasChildren returns true if parent has at least one child row.
func (c *Categorizer) HasChildren(parent Index) bool {
	return c.RowCount(parent) > 0
}

// Category returns the key of a bucket.
func (c *Categorizer) Category(idx Index) (model.Value, bool) {
	id := c.node(idx)
	if !c.isBucket(id) {
		return nil, false
	}
	return c.forest.Payload(id).category, true
}

// Data reads a field of the view. Field 0 of a bucket yields its label, or its
// key for CategoryRole; all other bucket fields are empty. Fields of other rows
// are read from the source.
func (c *Categorizer) Data(idx Index, role model.Role) model.Value {
	id := c.node(idx)
	if c.source == nil || !id.Valid() {
		return nil
	}
	if c.isBucket(id) {
		if idx.field != 0 {
			return nil
		}
		key := c.forest.Payload(id).category
		if role == CategoryRole {
			return key
		}
		return c.label(key, role)
	}
	h := c.MapToSource(idx)
	if !h.Valid() {
		return nil
	}
	return c.source.Value(h, role)
}

// SetData writes a field of a row at depth ≥ 1 to the source.
func (c *Categorizer) SetData(idx Index, value model.Value, role model.Role) error {
	h, err := c.writable(idx)
	if err != nil {
		return err
	}
	return c.source.SetValue(h, value, role)
}

// SetItemData writes several roles of a field of a row at depth ≥ 1 to the source.
func (c *Categorizer) SetItemData(idx Index, values map[model.Role]model.Value) error {
	h, err := c.writable(idx)
	if err != nil {
		return err
	}
	return c.source.SetValues(h, values)
}

func (c *Categorizer) writable(idx Index) (model.Handle, error) {
	if c.source == nil {
		return model.NoHandle, ErrNoSource
	}
	id := c.node(idx)
	if !id.Valid() {
		return model.NoHandle, ErrInvalidIndex
	}
	if c.isBucket(id) {
		return model.NoHandle, ErrReadOnly
	}
	h := c.MapToSource(idx)
	if !h.Valid() {
		return model.NoHandle, ErrInvalidIndex
	}
	return h, nil
}

// Flags returns the flags of a field. Buckets are enabled, but neither selectable
// nor editable.
func (c *Categorizer) Flags(idx Index) model.Flags {
	id := c.node(idx)
	if c.source == nil || !id.Valid() || c.isBucket(id) {
		return model.FlagEnabled
	}
	return c.source.Flags(c.MapToSource(idx))
}

// Buddy returns the index to edit in place of idx, as decided by the source.
// Buckets have no buddy.
func (c *Categorizer) Buddy(idx Index) Index {
	if c.source == nil {
		return Index{}
	}
	h := c.MapToSource(idx)
	if !h.Valid() {
		return Index{}
	}
	return c.MapFromSource(c.source.Buddy(h))
}

// HeaderData reads a header of the source.
func (c *Categorizer) HeaderData(section int, orientation model.Orientation, role model.Role) model.Value {
	if c.source == nil {
		return nil
	}
	return c.source.HeaderValue(section, orientation, role)
}

// SetHeaderData writes a header of the source.
func (c *Categorizer) SetHeaderData(section int, orientation model.Orientation, value model.Value, role model.Role) error {
	if c.source == nil {
		return ErrNoSource
	}
	return c.source.SetHeaderValue(section, orientation, value, role)
}

// MapFromSource returns the view index of a source cell.
func (c *Categorizer) MapFromSource(h model.Handle) Index {
	if c.source == nil || !h.Valid() {
		return Index{}
	}
	item, ok := c.mapping[h]
	if !ok {
		return Index{}
	}
	return c.indexFor(item, c.fieldOf(item, h))
}

// MapToSource returns the source handle of a field of the view. Buckets have no
// counterpart in the source, they map to model.NoHandle.
func (c *Categorizer) MapToSource(idx Index) model.Handle {
	id := c.node(idx)
	if c.source == nil || !id.Valid() || c.isBucket(id) {
		return model.NoHandle
	}
	positions := c.positions(id)
	if idx.field >= len(positions) {
		return model.NoHandle
	}
	return positions[idx.field]
}

// --- Rejected structural edits ---------------------------------------------

// InsertRows is rejected: rows enter the view through the source only.
func (c *Categorizer) InsertRows(row, count int, parent Index) error {
	return ErrUnsupportedEdit
}

// MoveRows is rejected: the bucket of a row is derived from its key.
func (c *Categorizer) MoveRows(from Index, row, count int, to Index, destRow int) error {
	return ErrUnsupportedEdit
}

// InsertFields is rejected: fields enter the view through the source only.
func (c *Categorizer) InsertFields(field, count int, parent Index) error {
	return ErrUnsupportedEdit
}

// RemoveFields is rejected.
func (c *Categorizer) RemoveFields(field, count int, parent Index) error {
	return ErrUnsupportedEdit
}

// MoveFields is rejected.
func (c *Categorizer) MoveFields(from Index, field, count int, to Index, destField int) error {
	return ErrUnsupportedEdit
}
