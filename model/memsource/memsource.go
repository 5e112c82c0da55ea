/*
Package memsource implements an in-memory hierarchical table, usable as a source
for categorizers.

Every cell of a table gets a handle at creation, which stays valid until the
cell is removed. Each cell may carry nested rows; all rows nested under the
same cell share a field count, which is fixed by the first row inserted there
(or extended with InsertFields).

Tables announce every change to subscribed listeners, synchronously.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package memsource

import (
	"errors"
	"fmt"

	"github.com/npillmayer/categorizer/model"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'categorizer.memsource'.
func tracer() tracing.Trace {
	return tracing.Select("categorizer.memsource")
}

// Errors returned by table operations.
var (
	ErrOutOfRange    = errors.New("row or field out of range")
	ErrUnknownHandle = errors.New("handle does not address a cell of this table")
	ErrReadOnly      = errors.New("cell is read-only")
)

type row struct {
	owner *cell // nil for top-level rows
	cells []*cell
}

type cell struct {
	handle      model.Handle
	row         *row
	values      map[model.Role]model.Value
	children    []*row
	childFields int
	readOnly    bool
}

type headerKey struct {
	section     int
	orientation model.Orientation
	role        model.Role
}

type subscription struct {
	listener model.Listener
}

// Table is an in-memory hierarchical table. Create tables with New.
//
// Tables are not safe for concurrent use.
type Table struct {
	fields    int
	rows      []*row
	cells     map[model.Handle]*cell
	headers   map[headerKey]model.Value
	listeners []*subscription
	// Veto, if set, is consulted before rows are removed. A non-nil error
	// rejects the removal; the table stays unchanged.
	Veto func(row, count int, parent model.Handle) error
}

var _ model.Source = (*Table)(nil)

// New creates an empty table with a given number of top-level fields.
func New(fields int) *Table {
	if fields < 0 {
		fields = 0
	}
	return &Table{
		fields:  fields,
		cells:   make(map[model.Handle]*cell),
		headers: make(map[headerKey]model.Value),
	}
}

// --- Structure -------------------------------------------------------------

// level returns the rows and the field count of a hierarchy level.
func (t *Table) level(parent model.Handle) (*[]*row, *int, *cell, bool) {
	if !parent.Valid() {
		return &t.rows, &t.fields, nil, true
	}
	c, ok := t.cells[parent]
	if !ok {
		return nil, nil, nil, false
	}
	return &c.children, &c.childFields, c, true
}

// RowCount is part of interface model.Source.
func (t *Table) RowCount(parent model.Handle) int {
	if rows, _, _, ok := t.level(parent); ok {
		return len(*rows)
	}
	return 0
}

// FieldCount is part of interface model.Source.
func (t *Table) FieldCount(parent model.Handle) int {
	if _, fields, _, ok := t.level(parent); ok {
		return *fields
	}
	return 0
}

// Handle is part of interface model.Source.
func (t *Table) Handle(r, field int, parent model.Handle) model.Handle {
	rows, fields, _, ok := t.level(parent)
	if !ok || r < 0 || r >= len(*rows) || field < 0 || field >= *fields {
		return model.NoHandle
	}
	return (*rows)[r].cells[field].handle
}

// Locate is part of interface model.Source.
func (t *Table) Locate(h model.Handle) (model.Address, bool) {
	c, ok := t.cells[h]
	if !ok {
		return model.Address{}, false
	}
	addr := model.Address{Parent: model.NoHandle, Row: -1, Field: -1}
	rows := t.rows
	if c.row.owner != nil {
		addr.Parent = c.row.owner.handle
		rows = c.row.owner.children
	}
	for i, r := range rows {
		if r == c.row {
			addr.Row = i
			break
		}
	}
	for j, x := range c.row.cells {
		if x == c {
			addr.Field = j
			break
		}
	}
	return addr, addr.Row >= 0 && addr.Field >= 0
}

// HasChildren is part of interface model.Source.
func (t *Table) HasChildren(h model.Handle) bool {
	if c, ok := t.cells[h]; ok {
		return len(c.children) > 0
	}
	return false
}

// --- Content ---------------------------------------------------------------

// EditRole is an alias for DisplayRole in tables.
func canonical(role model.Role) model.Role {
	if role == model.EditRole {
		return model.DisplayRole
	}
	return role
}

// Value is part of interface model.Source.
func (t *Table) Value(h model.Handle, role model.Role) model.Value {
	if c, ok := t.cells[h]; ok {
		return c.values[canonical(role)]
	}
	return nil
}

// SetValue is part of interface model.Source.
func (t *Table) SetValue(h model.Handle, value model.Value, role model.Role) error {
	return t.SetValues(h, map[model.Role]model.Value{role: value})
}

// SetValues is part of interface model.Source.
func (t *Table) SetValues(h model.Handle, values map[model.Role]model.Value) error {
	c, ok := t.cells[h]
	if !ok {
		return ErrUnknownHandle
	}
	if c.readOnly {
		return ErrReadOnly
	}
	var roles []model.Role
	aliased := false
	for role, v := range values {
		c.values[canonical(role)] = v
		if canonical(role) == model.DisplayRole {
			aliased = true
			continue
		}
		roles = append(roles, role)
	}
	if aliased { // readers of either role see the change
		roles = append(roles, model.DisplayRole, model.EditRole)
	}
	addr, _ := t.Locate(h)
	tracer().Debugf("memsource: set %v at %s", values, addr)
	t.notify(model.Notification{
		Kind:       model.DataChanged,
		Parent:     addr.Parent,
		First:      addr.Row,
		Last:       addr.Row,
		FirstField: addr.Field,
		LastField:  addr.Field,
		Roles:      roles,
	})
	return nil
}

// SetRowValues sets the display values of consecutive fields of a row, starting at
// field 0, and announces the change with a single notification.
func (t *Table) SetRowValues(r int, parent model.Handle, values ...model.Value) error {
	return t.SetRows(r, parent, values)
}

// SetRows sets the display values of consecutive rows, starting at row at. Each
// row is given as a slice of values for its first fields. The change is announced
// with a single notification spanning all rows and the fields of the longest row.
func (t *Table) SetRows(at int, parent model.Handle, rows ...[]model.Value) error {
	level, fields, _, ok := t.level(parent)
	if !ok {
		return ErrUnknownHandle
	}
	if at < 0 || at+len(rows) > len(*level) {
		return ErrOutOfRange
	}
	width := 0
	for _, values := range rows {
		if len(values) > *fields {
			return ErrOutOfRange
		}
		if len(values) > width {
			width = len(values)
		}
	}
	if width == 0 {
		return nil
	}
	for i, values := range rows {
		for j, v := range values {
			(*level)[at+i].cells[j].values[model.DisplayRole] = v
		}
	}
	tracer().Debugf("memsource: set rows %d…%d under %s", at, at+len(rows)-1, parent)
	t.notify(model.Notification{
		Kind:       model.DataChanged,
		Parent:     parent,
		First:      at,
		Last:       at + len(rows) - 1,
		FirstField: 0,
		LastField:  width - 1,
	})
	return nil
}

// Buddy is part of interface model.Source. Cells of a table are edited in place.
func (t *Table) Buddy(h model.Handle) model.Handle {
	if _, ok := t.cells[h]; !ok {
		return model.NoHandle
	}
	return h
}

// Flags is part of interface model.Source.
func (t *Table) Flags(h model.Handle) model.Flags {
	c, ok := t.cells[h]
	if !ok {
		return model.FlagNone
	}
	if c.readOnly {
		return model.FlagEnabled | model.FlagSelectable
	}
	return model.FlagEnabled | model.FlagSelectable | model.FlagEditable
}

// SetReadOnly protects a cell from modification.
func (t *Table) SetReadOnly(h model.Handle, readOnly bool) error {
	c, ok := t.cells[h]
	if !ok {
		return ErrUnknownHandle
	}
	c.readOnly = readOnly
	return nil
}

// HeaderValue is part of interface model.Source.
func (t *Table) HeaderValue(section int, orientation model.Orientation, role model.Role) model.Value {
	return t.headers[headerKey{section, orientation, canonical(role)}]
}

// SetHeaderValue is part of interface model.Source.
func (t *Table) SetHeaderValue(section int, orientation model.Orientation, value model.Value, role model.Role) error {
	if section < 0 || (orientation == model.Horizontal && section >= t.fields) {
		return ErrOutOfRange
	}
	t.headers[headerKey{section, orientation, canonical(role)}] = value
	t.notify(model.Notification{
		Kind:        model.HeaderChanged,
		First:       section,
		Last:        section,
		Orientation: orientation,
	})
	return nil
}

// --- Subscriptions ---------------------------------------------------------

// Subscribe is part of interface model.Source.
func (t *Table) Subscribe(l model.Listener) func() {
	s := &subscription{listener: l}
	t.listeners = append(t.listeners, s)
	return func() {
		for i, x := range t.listeners {
			if x == s {
				t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (t *Table) Subscribers() int {
	return len(t.listeners)
}

func (t *Table) notify(n model.Notification) {
	listeners := make([]*subscription, len(t.listeners))
	copy(listeners, t.listeners)
	for _, s := range listeners {
		s.listener.SourceChanged(n)
	}
}

func (t *Table) String() string {
	return fmt.Sprintf("(Table #rows=%d #fields=%d #cells=%d)", len(t.rows), t.fields, len(t.cells))
}
