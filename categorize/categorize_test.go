package categorize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/categorizer/model"
	"github.com/npillmayer/categorizer/model/memsource"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects view events and checks that brackets never nest.
type recorder struct {
	events []Event
	open   *Event
	broken string
}

func (r *recorder) ViewChanged(e Event) {
	r.events = append(r.events, e)
	switch {
	case e.Kind.IsBegin():
		if r.open != nil && r.broken == "" {
			r.broken = fmt.Sprintf("%s inside %s", e, r.open)
		}
		r.open = &e
	case e.Kind.IsEnd():
		if (r.open == nil || r.open.Kind+1 != e.Kind) && r.broken == "" {
			r.broken = fmt.Sprintf("unmatched %s", e)
		}
		r.open = nil
	}
}

func (r *recorder) kinds() []EventKind {
	kinds := make([]EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.events = nil
}

func row(values ...model.Value) []model.Value {
	return values
}

func table(t *testing.T, fields int, rows ...[]model.Value) *memsource.Table {
	tbl := memsource.New(fields)
	for _, r := range rows {
		require.NoError(t, tbl.AppendRow(r...))
	}
	return tbl
}

func attach(t *testing.T, tbl *memsource.Table, opts ...Option) (*Categorizer, *recorder) {
	c := New(append([]Option{WithConsistencyChecks(true)}, opts...)...)
	c.SetSource(tbl)
	rec := &recorder{}
	c.Subscribe(rec)
	t.Cleanup(func() {
		assert.Empty(t, rec.broken, "bracket discipline")
		assert.NoError(t, c.Verify())
	})
	return c, rec
}

// layout renders the view as "key:tag,tag,…" per bucket, with tags read from
// field tag of the rows.
func layout(c *Categorizer, tag int) []string {
	var out []string
	for b := 0; b < c.RowCount(Index{}); b++ {
		bucket := c.Index(b, 0, Index{})
		var tags []string
		for r := 0; r < c.RowCount(bucket); r++ {
			tags = append(tags, fmt.Sprintf("%v", c.Data(c.Index(r, tag, bucket), model.DisplayRole)))
		}
		out = append(out, fmt.Sprintf("%v:%s", c.Data(bucket, CategoryRole), strings.Join(tags, ",")))
	}
	return out
}

func TestGroupsRowsByKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", "x0"), row("B", "x1"), row("A", "x2"))
	c, _ := attach(t, tbl)
	assert.Equal(t, []string{"A:x0,x2", "B:x1"}, layout(c, 1))
	bucket := c.Index(0, 0, Index{})
	assert.Equal(t, 0, c.Depth(bucket))
	assert.Equal(t, 2, c.FieldCount(bucket))
	item := c.Index(1, 1, bucket)
	assert.Equal(t, 1, c.Depth(item))
	assert.Equal(t, bucket, c.Parent(item))
	assert.Equal(t, tbl.Handle(2, 1, model.NoHandle), c.MapToSource(item))
}

func TestChangedKeyMovesRow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", "x0"), row("B", "x1"), row("A", "x2"))
	c, rec := attach(t, tbl)
	h := tbl.Handle(1, 0, model.NoHandle)
	require.NoError(t, tbl.SetValue(h, "A", model.DisplayRole))
	assert.Equal(t, []string{"A:x0,x1,x2"}, layout(c, 1))
	require.Equal(t, []EventKind{
		BeginMoveRows, EndMoveRows, BeginRemoveRows, EndRemoveRows, DataChanged,
	}, rec.kinds())
	move := rec.events[0]
	assert.Equal(t, 1, move.Parent.Row())
	assert.Equal(t, 0, move.First)
	assert.Equal(t, 0, move.Destination.Row())
	assert.Equal(t, 1, move.DestinationRow)
	prune := rec.events[2]
	assert.False(t, prune.Parent.IsValid())
	assert.Equal(t, 1, prune.First)
	changed := rec.events[4]
	assert.Equal(t, c.MapFromSource(h), changed.TopLeft)
	assert.Equal(t, 1, changed.TopLeft.Row())
}

func TestChangedKeyCreatesBucket(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", "x0"), row("A", "x1"))
	c, rec := attach(t, tbl)
	require.NoError(t, tbl.SetValue(tbl.Handle(0, 0, model.NoHandle), "Z", model.EditRole))
	assert.Equal(t, []string{"A:x1", "Z:x0"}, layout(c, 1))
	assert.Equal(t, []EventKind{
		BeginInsertRows, EndInsertRows, BeginMoveRows, EndMoveRows, DataChanged,
	}, rec.kinds())
}

func TestInsertedRowWithNewKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", "x0"), row("B", "x1"), row("A", "x2"))
	c, rec := attach(t, tbl)
	require.NoError(t, tbl.InsertRow(1, model.NoHandle, "C", "y"))
	assert.Equal(t, []string{"A:x0,x2", "B:x1", "C:y"}, layout(c, 1))
	require.Equal(t, []EventKind{
		BeginInsertRows, EndInsertRows, BeginInsertRows, EndInsertRows,
	}, rec.kinds())
	assert.False(t, rec.events[0].Parent.IsValid())
	assert.Equal(t, 2, rec.events[0].First)
	assert.Equal(t, 2, rec.events[2].Parent.Row())
	assert.Equal(t, 0, rec.events[2].First)
	bucket := c.Index(0, 0, Index{})
	assert.Equal(t, tbl.Handle(3, 1, model.NoHandle), c.MapToSource(c.Index(1, 1, bucket)))
}

func TestBatchInsertKeepsSourceOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", "r0"), row("B", "r1"), row("A", "r2"))
	c, rec := attach(t, tbl)
	require.NoError(t, tbl.InsertRows(1, model.NoHandle, row("B", "n1"), row("A", "n2"), row("C", "n3")))
	assert.Equal(t, []string{"A:r0,n2,r2", "B:n1,r1", "C:n3"}, layout(c, 1))
	assert.Equal(t, 4, rec.count(BeginInsertRows), "one bracket per row plus one for bucket C")
}

func TestRemovingLastRowDropsBucket(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", "x0"), row("B", "x1"))
	c, rec := attach(t, tbl)
	require.NoError(t, c.RemoveRows(0, 1, c.Index(0, 0, Index{})))
	assert.Equal(t, []string{"B:x1"}, layout(c, 1))
	assert.Equal(t, 1, tbl.RowCount(model.NoHandle))
	require.Equal(t, []EventKind{
		BeginRemoveRows, EndRemoveRows, BeginRemoveRows, EndRemoveRows,
	}, rec.kinds())
	assert.True(t, rec.events[0].Parent.IsValid())
	assert.False(t, rec.events[2].Parent.IsValid())
	assert.Equal(t, 0, rec.events[2].First)
}

func TestBucketsAreSynthetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", "x0"))
	c, _ := attach(t, tbl)
	bucket := c.Index(0, 0, Index{})
	assert.Equal(t, "A", c.Data(bucket, model.DisplayRole))
	assert.Nil(t, c.Data(bucket, model.ToolTipRole))
	assert.Nil(t, c.Data(bucket.Sibling(1), model.DisplayRole))
	assert.Equal(t, model.NoHandle, c.MapToSource(bucket))
	assert.Equal(t, model.FlagEnabled, c.Flags(bucket))
	assert.ErrorIs(t, c.SetData(bucket, "B", model.DisplayRole), ErrReadOnly)
	assert.Equal(t, 0, c.RowCount(bucket.Sibling(1)))
	key, ok := c.Category(bucket)
	assert.True(t, ok)
	assert.Equal(t, "A", key)
	_, ok = c.Category(c.Index(0, 0, bucket))
	assert.False(t, ok)
}

func TestMappingRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 3, row("A", 1, "a"), row("B", 2, "b"), row("A", 3, "c"), row("C", 4, "d"))
	c, _ := attach(t, tbl)
	for r := 0; r < tbl.RowCount(model.NoHandle); r++ {
		for f := 0; f < 3; f++ {
			h := tbl.Handle(r, f, model.NoHandle)
			idx := c.MapFromSource(h)
			require.True(t, idx.IsValid(), "row %d field %d", r, f)
			assert.Equal(t, h, c.MapToSource(idx))
			assert.Equal(t, f, idx.Field())
			assert.Equal(t, 1, c.Depth(idx))
			bucket := c.Parent(idx)
			assert.Equal(t, tbl.Value(tbl.Handle(r, 0, model.NoHandle), model.DisplayRole),
				c.Data(bucket, CategoryRole))
		}
	}
	assert.False(t, c.MapFromSource(model.NewHandle()).IsValid())
}

func TestRebuildIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("B", 0), row("A", 1), row("B", 2), row("C", 3), row("A", 4))
	c, rec := attach(t, tbl)
	snapshot := func() []string {
		var out []string
		for r := 0; r < tbl.RowCount(model.NoHandle); r++ {
			idx := c.MapFromSource(tbl.Handle(r, 1, model.NoHandle))
			out = append(out, fmt.Sprintf("%v/%d/%d", c.Data(c.Parent(idx), CategoryRole), idx.Row(), idx.Field()))
		}
		return out
	}
	first := snapshot()
	assert.Equal(t, []string{"B:0,2", "A:1,4", "C:3"}, layout(c, 1))
	assert.Equal(t, []string{"B/0/1", "A/0/1", "B/1/1", "C/0/1", "A/1/1"}, first)
	c.SetSource(nil)
	assert.Equal(t, 0, c.RowCount(Index{}))
	assert.Equal(t, 0, tbl.Subscribers())
	c.SetSource(tbl)
	assert.Equal(t, first, snapshot())
	assert.Equal(t, []string{"B:0,2", "A:1,4", "C:3"}, layout(c, 1))
	assert.Equal(t, []EventKind{BeginReset, EndReset, BeginReset, EndReset}, rec.kinds())
}

func TestKeyFieldChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", "x"), row("B", "x"), row("A", "y"))
	c, rec := attach(t, tbl)
	c.SetKeyField(1)
	assert.Equal(t, 1, c.KeyField())
	assert.Equal(t, []string{"x:A,B", "y:A"}, layout(c, 0))
	require.Equal(t, []EventKind{KeyFieldChanged, BeginReset, EndReset}, rec.kinds())
	assert.Equal(t, 1, rec.events[0].KeyField)
	rec.reset()
	c.SetKeyField(1)
	assert.Empty(t, rec.events)
}

func TestKeyRole(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	group := model.UserRole + 1
	tbl := table(t, 2, row("A", 1), row("B", 2), row("C", 3))
	require.NoError(t, tbl.SetValue(tbl.Handle(0, 0, model.NoHandle), "g1", group))
	require.NoError(t, tbl.SetValue(tbl.Handle(1, 0, model.NoHandle), "g1", group))
	c, rec := attach(t, tbl, WithKeyRole(group))
	assert.Equal(t, []string{"g1:1,2", "<nil>:3"}, layout(c, 1))
	require.NoError(t, tbl.SetValue(tbl.Handle(2, 0, model.NoHandle), "g1", model.DisplayRole))
	assert.Equal(t, []string{"g1:1,2", "<nil>:3"}, layout(c, 1), "display role is no key")
	require.NoError(t, tbl.SetValue(tbl.Handle(2, 0, model.NoHandle), "g1", group))
	assert.Equal(t, []string{"g1:1,2,3"}, layout(c, 1))
	rec.reset()
	c.SetKeyRole(model.DisplayRole)
	assert.Equal(t, model.DisplayRole, c.KeyRole())
	assert.Equal(t, []string{"A:1", "B:2", "g1:3"}, layout(c, 1))
	require.Equal(t, []EventKind{KeyRoleChanged, BeginReset, EndReset}, rec.kinds())
	assert.Equal(t, model.DisplayRole, rec.events[0].KeyRole)
}

func TestEqualityAndLabel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	foldCase := func(a, b model.Value) bool {
		sa, ok1 := a.(string)
		sb, ok2 := b.(string)
		return ok1 && ok2 && strings.EqualFold(sa, sb)
	}
	label := func(key model.Value, role model.Role) model.Value {
		if role == model.DisplayRole {
			return fmt.Sprintf("%v (group)", key)
		}
		return nil
	}
	tbl := table(t, 2, row("a", 1), row("A", 2), row("b", 3))
	c, _ := attach(t, tbl, WithEquality(foldCase), WithLabel(label))
	assert.Equal(t, []string{"a:1,2", "b:3"}, layout(c, 1))
	bucket := c.Index(0, 0, Index{})
	assert.Equal(t, "a (group)", c.Data(bucket, model.DisplayRole))
	require.NoError(t, tbl.SetValue(tbl.Handle(2, 0, model.NoHandle), "B", model.DisplayRole))
	assert.Equal(t, []string{"a:1,2", "b:3"}, layout(c, 1), "equal keys do not move rows")
}

func TestSameKey(t *testing.T) {
	assert.True(t, SameKey(nil, nil))
	assert.False(t, SameKey(nil, 0))
	assert.True(t, SameKey("a", "a"))
	assert.False(t, SameKey(1, 1.0))
	assert.True(t, SameKey([]int{1, 2}, []int{1, 2}))
	assert.False(t, SameKey([]int{1}, []int{2}))
}

func TestSourceReset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", 1))
	c, rec := attach(t, tbl)
	tbl.Load([][]model.Value{row("X", 1), row("Y", 2), row("X", 3)})
	assert.Equal(t, []string{"X:1,3", "Y:2"}, layout(c, 1))
	assert.Equal(t, []EventKind{BeginReset, EndReset}, rec.kinds())
}

func TestSwitchingSources(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	first := table(t, 1, row("A"))
	second := table(t, 2, row("B", 1), row("C", 2))
	c, rec := attach(t, first)
	c.SetSource(second)
	assert.Equal(t, model.Source(second), c.Source())
	assert.Equal(t, 0, first.Subscribers())
	assert.Equal(t, 1, second.Subscribers())
	rec.reset()
	require.NoError(t, first.AppendRow("D"))
	assert.Empty(t, rec.events)
	assert.Equal(t, []string{"B:1", "C:2"}, layout(c, 1))
}

func TestSourceWithoutFields(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := memsource.New(0)
	c, rec := attach(t, tbl)
	require.NoError(t, tbl.AppendRow())
	require.NoError(t, tbl.AppendRow())
	assert.Equal(t, 0, c.RowCount(Index{}))
	assert.Empty(t, rec.events)
	require.NoError(t, tbl.InsertFields(0, 1, model.NoHandle))
	assert.Equal(t, []string{"<nil>:<nil>,<nil>"}, layout(c, 0))
	assert.Equal(t, 0, c.KeyField())
	assert.Equal(t, []EventKind{BeginInsertFields, EndInsertFields, BeginReset, EndReset}, rec.kinds())
}

func TestObserverCancel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 1, row("A"))
	c, _ := attach(t, tbl)
	n := 0
	cancel := c.Subscribe(ObserverFunc(func(e Event) { n++ }))
	require.NoError(t, tbl.AppendRow("A"))
	assert.Equal(t, 2, n)
	cancel()
	require.NoError(t, tbl.AppendRow("A"))
	assert.Equal(t, 2, n)
}

func TestRowUpdateSpanningKeyField(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", "x0"), row("B", "x1"))
	c, rec := attach(t, tbl)
	require.NoError(t, tbl.SetRowValues(1, model.NoHandle, "A", "z"))
	assert.Equal(t, []string{"A:x0,z"}, layout(c, 1))
	require.Equal(t, []EventKind{
		BeginMoveRows, EndMoveRows, BeginRemoveRows, EndRemoveRows, DataChanged,
	}, rec.kinds())
	changed := rec.events[4]
	assert.Equal(t, c.MapFromSource(tbl.Handle(1, 0, model.NoHandle)), changed.TopLeft)
	assert.Equal(t, c.MapFromSource(tbl.Handle(1, 1, model.NoHandle)), changed.BottomRight)
}

func TestEditRoleAsKeyRole(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", 0), row("B", 1))
	c, rec := attach(t, tbl, WithKeyRole(model.EditRole))
	assert.Equal(t, []string{"A:0", "B:1"}, layout(c, 1))
	require.NoError(t, tbl.SetValue(tbl.Handle(1, 0, model.NoHandle), "A", model.DisplayRole))
	assert.Equal(t, []string{"A:0,1"}, layout(c, 1))
	assert.Equal(t, 1, rec.count(BeginMoveRows))
}

func TestRangeUpdateRekeysRowsInOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "categorizer.engine")
	defer teardown()
	//
	tbl := table(t, 2, row("A", 0), row("B", 1), row("A", 2), row("B", 3), row("C", 4))
	c, rec := attach(t, tbl)
	require.NoError(t, tbl.SetRows(1, model.NoHandle, row("A"), row("B"), row("A"), row("A")))
	assert.Equal(t, []string{"A:0,1,3,4", "B:2"}, layout(c, 1))
	require.Equal(t, []EventKind{
		BeginMoveRows, EndMoveRows, // 1: B → A
		BeginMoveRows, EndMoveRows, // 2: A → B
		BeginMoveRows, EndMoveRows, // 3: B → A
		BeginMoveRows, EndMoveRows, // 4: C → A
		BeginRemoveRows, EndRemoveRows,
		DataChanged, DataChanged, DataChanged, DataChanged,
	}, rec.kinds())
	moves := []struct{ from, first, to, destRow int }{
		{1, 0, 0, 1},
		{0, 2, 1, 0},
		{1, 1, 0, 2},
		{2, 0, 0, 3},
	}
	for i, m := range moves {
		e := rec.events[2*i]
		assert.Equal(t, m.from, e.Parent.Row(), "move #%d source bucket", i)
		assert.Equal(t, m.first, e.First, "move #%d source row", i)
		assert.Equal(t, m.to, e.Destination.Row(), "move #%d destination bucket", i)
		assert.Equal(t, m.destRow, e.DestinationRow, "move #%d destination row", i)
	}
	prune := rec.events[8]
	assert.False(t, prune.Parent.IsValid())
	assert.Equal(t, 2, prune.First)
	for i, e := range rec.events[10:] {
		assert.Equal(t, c.MapFromSource(tbl.Handle(i+1, 0, model.NoHandle)), e.TopLeft)
	}
}
