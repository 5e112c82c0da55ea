package model

import "fmt"

// NotificationKind tells what has happened to a source.
type NotificationKind uint8

// Kinds of source notifications.
//
// RowsAboutToBeRemoved is sent while the rows to remove are still present,
// RowsRemoved after they are gone. FieldsAboutToBeInserted and FieldsInserted
// bracket the insertion of fields in the same way.
const (
	RowsInserted NotificationKind = iota
	RowsAboutToBeRemoved
	RowsRemoved
	FieldsAboutToBeInserted
	FieldsInserted
	DataChanged
	HeaderChanged
	AboutToBeReset
	Reset
)

var notificationNames = [...]string{
	"RowsInserted", "RowsAboutToBeRemoved", "RowsRemoved",
	"FieldsAboutToBeInserted", "FieldsInserted",
	"DataChanged", "HeaderChanged", "AboutToBeReset", "Reset",
}

func (k NotificationKind) String() string {
	if int(k) < len(notificationNames) {
		return notificationNames[k]
	}
	return fmt.Sprintf("NotificationKind(%d)", k)
}

// Notification describes a change of a source.
//
// For row notifications, First and Last span the affected rows (inclusive).
// For field notifications, they span the affected fields. DataChanged uses
// First/Last for rows and FirstField/LastField for fields; an empty Roles
// slice means "all roles may have changed". HeaderChanged uses First/Last
// for sections.
type Notification struct {
	Kind        NotificationKind
	Parent      Handle
	First       int
	Last        int
	FirstField  int
	LastField   int
	Roles       []Role
	Orientation Orientation
}

func (n Notification) String() string {
	switch n.Kind {
	case DataChanged:
		return fmt.Sprintf("%s(%s rows %d…%d fields %d…%d roles %v)", n.Kind, n.Parent,
			n.First, n.Last, n.FirstField, n.LastField, n.Roles)
	case AboutToBeReset, Reset:
		return n.Kind.String()
	}
	return fmt.Sprintf("%s(%s %d…%d)", n.Kind, n.Parent, n.First, n.Last)
}

// HasRole returns true if a DataChanged notification may affect role.
func (n Notification) HasRole(role Role) bool {
	if len(n.Roles) == 0 {
		return true
	}
	for _, r := range n.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Listener receives source notifications.
type Listener interface {
	SourceChanged(n Notification)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(n Notification)

// SourceChanged calls f(n).
func (f ListenerFunc) SourceChanged(n Notification) {
	f(n)
}
