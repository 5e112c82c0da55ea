/*
Package model defines the contract between a hierarchical row/field data source
and the views derived from it.

A source is a table of rows and fields. Every cell of a row may carry nested rows,
forming a hierarchy. Cells are addressed through handles, which are stable: a handle
keeps referring to the same cell while unrelated rows or fields are inserted or
removed. Sources re-derive the current row and field of a handle with Locate.

Sources announce every change to their structure or content to subscribed
listeners, synchronously and in the order the changes happen.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Value is the content of a cell for a given role.
// A nil Value denotes an empty result.
type Value = interface{}

// Role selects how the content of a cell is interpreted.
type Role int

// Roles every source is expected to understand. Sources may define
// additional roles starting at UserRole.
const (
	DisplayRole Role = iota
	EditRole
	ToolTipRole
	UserRole Role = 256
)

// Flags describe what clients may do with a cell.
type Flags uint8

// Cell flags.
const (
	FlagEnabled Flags = 1 << iota
	FlagSelectable
	FlagEditable
	FlagNone Flags = 0
)

// Has returns true if all flags of g are set in f.
func (f Flags) Has(g Flags) bool {
	return f&g == g
}

// Orientation selects between field headers and row headers.
type Orientation uint8

// Header orientations.
const (
	Horizontal Orientation = iota
	Vertical
)

// Handle is a stable reference to one field of one row of a source.
// The zero value is NoHandle, which addresses the top level of a source
// when used as a parent.
type Handle struct {
	id uuid.UUID
}

// NoHandle is the invalid handle.
var NoHandle = Handle{}

// NewHandle creates a fresh, unique handle. Sources call NewHandle once
// for every cell they create.
func NewHandle() Handle {
	return Handle{id: uuid.New()}
}

// Valid returns true for handles created by NewHandle.
func (h Handle) Valid() bool {
	return h.id != uuid.Nil
}

func (h Handle) String() string {
	if !h.Valid() {
		return "<top>"
	}
	return "⟨" + h.id.String()[:8] + "⟩"
}

// Address is the current location of a cell within its source.
type Address struct {
	Parent Handle // cell the row is nested under, NoHandle for top-level rows
	Row    int
	Field  int
}

func (a Address) String() string {
	return fmt.Sprintf("%s[%d,%d]", a.Parent, a.Row, a.Field)
}

// Source is a hierarchical table of rows and fields.
//
// Parent handles select the level of the hierarchy: NoHandle denotes the
// top level, any other handle the rows nested under that cell.
// Out-of-range arguments result in empty values (0, NoHandle, nil), never in a
// panic.
type Source interface {
	RowCount(parent Handle) int
	FieldCount(parent Handle) int
	Handle(row, field int, parent Handle) Handle
	Locate(h Handle) (Address, bool)
	HasChildren(h Handle) bool
	Value(h Handle, role Role) Value
	SetValue(h Handle, value Value, role Role) error
	SetValues(h Handle, values map[Role]Value) error
	Flags(h Handle) Flags
	// Buddy returns the cell to edit in place of h, usually h itself.
	Buddy(h Handle) Handle
	HeaderValue(section int, orientation Orientation, role Role) Value
	SetHeaderValue(section int, orientation Orientation, value Value, role Role) error
	// RemoveRows removes count rows starting at row. Sources which reject a
	// removal must not change anything and return an error.
	RemoveRows(row, count int, parent Handle) error
	// Subscribe registers a listener for change notifications. Calling the
	// returned function cancels the subscription.
	Subscribe(l Listener) (cancel func())
}
