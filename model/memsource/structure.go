package memsource

import (
	"github.com/npillmayer/categorizer/model"
)

func (t *Table) newRow(owner *cell, fields int, values []model.Value) *row {
	r := &row{owner: owner, cells: make([]*cell, fields)}
	for j := range r.cells {
		r.cells[j] = t.newCell(r)
		if j < len(values) {
			r.cells[j].values[model.DisplayRole] = values[j]
		}
	}
	return r
}

func (t *Table) newCell(r *row) *cell {
	c := &cell{
		handle: model.NewHandle(),
		row:    r,
		values: make(map[model.Role]model.Value),
	}
	t.cells[c.handle] = c
	return c
}

func (t *Table) dropRow(r *row) {
	for _, c := range r.cells {
		for _, ch := range c.children {
			t.dropRow(ch)
		}
		delete(t.cells, c.handle)
	}
}

// AppendRow appends a top-level row with display values for its first fields.
func (t *Table) AppendRow(values ...model.Value) error {
	return t.InsertRows(len(t.rows), model.NoHandle, values)
}

// InsertRow inserts a single row at position at, nested under parent.
func (t *Table) InsertRow(at int, parent model.Handle, values ...model.Value) error {
	return t.InsertRows(at, parent, values)
}

// InsertRows inserts consecutive rows at position at, nested under parent, and
// announces them with a single notification. Each row is given as a slice of
// display values for its first fields.
//
// The first rows nested under a cell fix the field count of that level to the
// length of the longest row.
func (t *Table) InsertRows(at int, parent model.Handle, rows ...[]model.Value) error {
	level, fields, owner, ok := t.level(parent)
	if !ok {
		return ErrUnknownHandle
	}
	if at < 0 || at > len(*level) {
		return ErrOutOfRange
	}
	if len(rows) == 0 {
		return nil
	}
	if owner != nil && len(*level) == 0 && *fields == 0 {
		for _, values := range rows {
			if len(values) > *fields {
				*fields = len(values)
			}
		}
	}
	for _, values := range rows {
		if len(values) > *fields {
			return ErrOutOfRange
		}
	}
	fresh := make([]*row, len(rows))
	for i, values := range rows {
		fresh[i] = t.newRow(owner, *fields, values)
	}
	*level = append((*level)[:at], append(fresh, (*level)[at:]...)...)
	tracer().Debugf("memsource: inserted rows %d…%d under %s", at, at+len(rows)-1, parent)
	t.notify(model.Notification{
		Kind:   model.RowsInserted,
		Parent: parent,
		First:  at,
		Last:   at + len(rows) - 1,
	})
	return nil
}

// RemoveRows is part of interface model.Source.
func (t *Table) RemoveRows(at, count int, parent model.Handle) error {
	level, _, _, ok := t.level(parent)
	if !ok {
		return ErrUnknownHandle
	}
	if at < 0 || count <= 0 || at+count > len(*level) {
		return ErrOutOfRange
	}
	if t.Veto != nil {
		if err := t.Veto(at, count, parent); err != nil {
			tracer().Infof("memsource: removal of rows %d…%d vetoed: %v", at, at+count-1, err)
			return err
		}
	}
	n := model.Notification{
		Kind:   model.RowsAboutToBeRemoved,
		Parent: parent,
		First:  at,
		Last:   at + count - 1,
	}
	t.notify(n)
	for _, r := range (*level)[at : at+count] {
		t.dropRow(r)
	}
	*level = append((*level)[:at], (*level)[at+count:]...)
	tracer().Debugf("memsource: removed rows %d…%d under %s", at, at+count-1, parent)
	n.Kind = model.RowsRemoved
	t.notify(n)
	return nil
}

// InsertFields inserts count empty fields at position at into every row of the
// level nested under parent.
func (t *Table) InsertFields(at, count int, parent model.Handle) error {
	level, fields, _, ok := t.level(parent)
	if !ok {
		return ErrUnknownHandle
	}
	if at < 0 || at > *fields || count <= 0 {
		return ErrOutOfRange
	}
	n := model.Notification{
		Kind:   model.FieldsAboutToBeInserted,
		Parent: parent,
		First:  at,
		Last:   at + count - 1,
	}
	t.notify(n)
	for _, r := range *level {
		fresh := make([]*cell, count)
		for j := range fresh {
			fresh[j] = t.newCell(r)
		}
		r.cells = append(r.cells[:at], append(fresh, r.cells[at:]...)...)
	}
	*fields += count
	n.Kind = model.FieldsInserted
	t.notify(n)
	return nil
}

// Load replaces the complete content of the table with top-level rows of display
// values. The field count is set to the length of the longest row, but never
// shrinks below the current count.
func (t *Table) Load(rows [][]model.Value) {
	t.notify(model.Notification{Kind: model.AboutToBeReset})
	for _, r := range t.rows {
		t.dropRow(r)
	}
	t.rows = nil
	for _, values := range rows {
		if len(values) > t.fields {
			t.fields = len(values)
		}
	}
	for _, values := range rows {
		t.rows = append(t.rows, t.newRow(nil, t.fields, values))
	}
	tracer().Debugf("memsource: loaded %d rows", len(rows))
	t.notify(model.Notification{Kind: model.Reset})
}
