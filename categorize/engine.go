package categorize

import (
	"github.com/npillmayer/categorizer/model"
	"github.com/npillmayer/categorizer/tree"
)

// Categorizer is a grouped view over a model.Source. Create categorizers with New.
//
// Categorizers are not safe for concurrent use; all changes happen inline while
// a source notification is delivered.
type Categorizer struct {
	source   model.Source
	cancel   func() // cancels the subscription to source
	keyField int
	keyRole  model.Role
	equal    func(a, b model.Value) bool
	label    func(key model.Value, role model.Role) model.Value
	checks   bool
	forest   *tree.Forest[entry]
	mapping  map[model.Handle]tree.ID // mapping table: source handle → item node
	notifier notifier
}

// New creates a categorizer without a source.
func New(opts ...Option) *Categorizer {
	c := &Categorizer{
		keyRole: model.DisplayRole,
		equal:   SameKey,
		label:   KeyLabel,
		forest:  tree.NewForest[entry](),
		mapping: make(map[model.Handle]tree.ID),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns the source of the view, or nil.
func (c *Categorizer) Source() model.Source {
	return c.source
}

// SetSource attaches the view to a new source (which may be nil). The subscription
// to the previous source is cancelled before the view is rebuilt.
func (c *Categorizer) SetSource(src model.Source) {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.source = src
	c.rebuild()
	if src != nil {
		c.cancel = src.Subscribe(model.ListenerFunc(c.sourceChanged))
	}
	c.verifyIfChecking("attach")
}

// Subscribe registers an observer for view events. Calling the returned function
// cancels the subscription.
func (c *Categorizer) Subscribe(o Observer) func() {
	return c.notifier.subscribe(o)
}

// KeyField returns the source field keys are read from.
func (c *Categorizer) KeyField() int {
	return c.keyField
}

// SetKeyField changes the source field keys are read from. Observers receive a
// KeyFieldChanged event, followed by a reset of the view.
func (c *Categorizer) SetKeyField(field int) {
	if field == c.keyField {
		return
	}
	c.keyField = field
	c.notifier.signal(Event{Kind: KeyFieldChanged, KeyField: field, KeyRole: c.keyRole})
	c.rebuild()
	c.verifyIfChecking("key field change")
}

// KeyRole returns the role keys are read with.
func (c *Categorizer) KeyRole() model.Role {
	return c.keyRole
}

// SetKeyRole changes the role keys are read with. Observers receive a
// KeyRoleChanged event, followed by a reset of the view.
func (c *Categorizer) SetKeyRole(role model.Role) {
	if role == c.keyRole {
		return
	}
	c.keyRole = role
	c.notifier.signal(Event{Kind: KeyRoleChanged, KeyField: c.keyField, KeyRole: role})
	c.rebuild()
	c.verifyIfChecking("key role change")
}

// --- Source notifications --------------------------------------------------

func (c *Categorizer) sourceChanged(n model.Notification) {
	tracer().Debugf("source notification %s", n)
	switch n.Kind {
	case model.RowsInserted:
		c.onRowsInserted(n)
	case model.RowsAboutToBeRemoved:
		c.onRowsAboutToBeRemoved(n)
	case model.RowsRemoved:
		// nodes have been pruned before the rows went away
	case model.FieldsAboutToBeInserted:
		c.onFieldsAboutToBeInserted(n)
	case model.FieldsInserted:
		c.onFieldsInserted(n)
	case model.DataChanged:
		c.onDataChanged(n)
	case model.HeaderChanged:
		c.notifier.signal(Event{
			Kind:        HeaderChanged,
			First:       n.First,
			Last:        n.Last,
			Orientation: n.Orientation,
		})
	case model.AboutToBeReset:
		if !c.notifier.isOpen(BeginReset) {
			c.notifier.begin(Event{Kind: BeginReset})
		}
	case model.Reset:
		c.rebuild()
	}
	switch n.Kind {
	case model.RowsAboutToBeRemoved, model.FieldsAboutToBeInserted, model.AboutToBeReset:
		// source and view differ until the matching notification arrives
	default:
		c.verifyIfChecking(n.Kind.String())
	}
}

func (c *Categorizer) verifyIfChecking(what string) {
	if !c.checks {
		return
	}
	err := c.Verify()
	assertThat(err == nil, "after %s: %v", what, err)
}

// --- Rebuild ---------------------------------------------------------------

// rebuild discards the complete view and builds it from scratch. It is bracketed
// by a reset, unless a reset has already been opened by the source.
func (c *Categorizer) rebuild() {
	if !c.notifier.isOpen(BeginReset) {
		c.notifier.begin(Event{Kind: BeginReset})
	}
	c.clear()
	if c.source != nil && c.source.FieldCount(model.NoHandle) > 0 {
		rows := c.source.RowCount(model.NoHandle)
		for r := 0; r < rows; r++ {
			key := c.keyOf(r)
			bucket := c.bucketFor(key)
			if !bucket.Valid() {
				bucket = c.forest.NewNode(entry{category: key})
				c.forest.AppendRoot(bucket)
			}
			item := c.forest.NewNode(entry{})
			c.forest.AddChild(bucket, item, 0)
			c.populate(item, r, model.NoHandle)
		}
		tracer().Debugf("rebuilt view: %d rows in %d buckets", rows, c.forest.RootCount())
	} else if c.source != nil {
		tracer().Infof("source has no fields, view stays empty")
	}
	c.notifier.end(EndReset)
}

func (c *Categorizer) clear() {
	c.forest.Clear()
	c.mapping = make(map[model.Handle]tree.ID)
}

// keyOf reads the key of a top-level source row.
func (c *Categorizer) keyOf(row int) model.Value {
	h := c.source.Handle(row, c.keyField, model.NoHandle)
	if !h.Valid() {
		return nil
	}
	return c.source.Value(h, c.keyRole)
}

// bucketFor finds the bucket for a key by linear search, or returns tree.NoNode.
func (c *Categorizer) bucketFor(key model.Value) tree.ID {
	for _, b := range c.forest.Roots() {
		if c.equal(c.forest.Payload(b).category, key) {
			return b
		}
	}
	return tree.NoNode
}

// bucketOrNew finds the bucket for a key. If there is none yet, a bucket is
// appended, bracketed by a row insertion at the top of the view.
func (c *Categorizer) bucketOrNew(key model.Value) tree.ID {
	if b := c.bucketFor(key); b.Valid() {
		return b
	}
	at := c.forest.RootCount()
	c.notifier.begin(Event{Kind: BeginInsertRows, First: at, Last: at})
	b := c.forest.NewNode(entry{category: key})
	c.forest.AppendRoot(b)
	c.notifier.end(EndInsertRows)
	tracer().Debugf("new bucket #%d for key %v", at, key)
	return b
}

// pruneBucket removes an empty bucket, bracketed by a row removal at the top of
// the view.
func (c *Categorizer) pruneBucket(b tree.ID) {
	assertThat(c.forest.ChildCount(b) == 0, "pruning non-empty bucket %s", b)
	at := c.forest.IndexOfRoot(b)
	c.notifier.begin(Event{Kind: BeginRemoveRows, First: at, Last: at})
	c.forest.Delete(b, nil)
	c.notifier.end(EndRemoveRows)
	tracer().Debugf("dropped empty bucket #%d", at)
}
