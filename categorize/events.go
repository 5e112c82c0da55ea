package categorize

import (
	"fmt"

	"github.com/npillmayer/categorizer/model"
)

// EventKind tells what is happening to the view.
type EventKind uint8

// Kinds of view events. Every Begin… kind is followed by its End… kind, which
// immediately succeeds it in this list. Brackets never nest.
const (
	BeginInsertRows EventKind = iota
	EndInsertRows
	BeginRemoveRows
	EndRemoveRows
	BeginMoveRows
	EndMoveRows
	BeginInsertFields
	EndInsertFields
	BeginReset
	EndReset
	DataChanged
	HeaderChanged
	KeyFieldChanged
	KeyRoleChanged
)

var eventNames = [...]string{
	"BeginInsertRows", "EndInsertRows", "BeginRemoveRows", "EndRemoveRows",
	"BeginMoveRows", "EndMoveRows", "BeginInsertFields", "EndInsertFields",
	"BeginReset", "EndReset", "DataChanged", "HeaderChanged",
	"KeyFieldChanged", "KeyRoleChanged",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// IsBegin is true for the opening kind of a bracket.
func (k EventKind) IsBegin() bool {
	return k < DataChanged && k%2 == 0
}

// IsEnd is true for the closing kind of a bracket.
func (k EventKind) IsEnd() bool {
	return k < DataChanged && k%2 == 1
}

// Event describes a change of the view.
//
// Row and field events address the children First…Last (inclusive) of Parent;
// the invalid Index as Parent denotes the buckets. Move events
// additionally name the Destination parent and the row DestinationRow the moved
// rows will be inserted before, counted before the move. End events repeat the
// data of their Begin event.
//
// DataChanged spans the fields TopLeft…BottomRight of sibling rows.
// HeaderChanged uses First/Last for sections.
type Event struct {
	Kind           EventKind
	Parent         Index
	First, Last    int
	Destination    Index
	DestinationRow int
	TopLeft        Index
	BottomRight    Index
	Roles          []model.Role
	Orientation    model.Orientation
	KeyField       int
	KeyRole        model.Role
}

func (e Event) String() string {
	switch e.Kind {
	case BeginMoveRows, EndMoveRows:
		return fmt.Sprintf("%s(%s %d…%d → %s@%d)", e.Kind, e.Parent, e.First, e.Last,
			e.Destination, e.DestinationRow)
	case DataChanged:
		return fmt.Sprintf("%s(%s…%s)", e.Kind, e.TopLeft, e.BottomRight)
	case BeginReset, EndReset:
		return e.Kind.String()
	case KeyFieldChanged:
		return fmt.Sprintf("%s(%d)", e.Kind, e.KeyField)
	case KeyRoleChanged:
		return fmt.Sprintf("%s(%d)", e.Kind, e.KeyRole)
	}
	return fmt.Sprintf("%s(%s %d…%d)", e.Kind, e.Parent, e.First, e.Last)
}

// Observer receives view events, synchronously.
type Observer interface {
	ViewChanged(e Event)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(e Event)

// ViewChanged calls f(e).
func (f ObserverFunc) ViewChanged(e Event) {
	f(e)
}

// --- Bracket discipline ----------------------------------------------------

type observerEntry struct {
	observer Observer
}

type notifier struct {
	observers []*observerEntry
	open      *Event // Begin event of the currently open bracket
}

func (nf *notifier) subscribe(o Observer) func() {
	entry := &observerEntry{observer: o}
	nf.observers = append(nf.observers, entry)
	return func() {
		for i, x := range nf.observers {
			if x == entry {
				nf.observers = append(nf.observers[:i], nf.observers[i+1:]...)
				return
			}
		}
	}
}

func (nf *notifier) isOpen(kind EventKind) bool {
	return nf.open != nil && nf.open.Kind == kind
}

func (nf *notifier) begin(e Event) {
	assertThat(e.Kind.IsBegin(), "%s does not open a bracket", e.Kind)
	assertThat(nf.open == nil, "%s opened while %s is open", e, nf.open)
	nf.open = &e
	nf.emit(e)
}

func (nf *notifier) end(kind EventKind) {
	assertThat(nf.open != nil, "%s without open bracket", kind)
	assertThat(nf.open.Kind+1 == kind, "%s does not close %s", kind, nf.open)
	e := *nf.open
	e.Kind = kind
	nf.open = nil
	nf.emit(e)
}

func (nf *notifier) signal(e Event) {
	assertThat(!e.Kind.IsBegin() && !e.Kind.IsEnd(), "%s must be bracketed", e.Kind)
	assertThat(nf.open == nil, "%s signalled inside bracket %s", e, nf.open)
	nf.emit(e)
}

func (nf *notifier) emit(e Event) {
	tracer().Debugf("view event %s", e)
	observers := make([]*observerEntry, len(nf.observers))
	copy(observers, nf.observers)
	for _, entry := range observers {
		entry.observer.ViewChanged(e)
	}
}
