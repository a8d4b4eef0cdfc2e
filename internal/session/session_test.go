package session

import (
	"dashboard/internal/engine"
	"dashboard/internal/models"
	"io"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func newTestStore(seed uint64) *Store {
	return NewStore(Options{
		Params: engine.Params{
			Days:           30,
			InventoryCount: 40,
			Categories:     models.Categories,
			Seed:           seed,
		},
		TableRows:   5,
		TTL:         time.Hour,
		MaxSessions: 10,
	}, quietLogger())
}

func TestSession_DefaultView(t *testing.T) {
	sess, err := newTestStore(1).Create()
	require.NoError(t, err)

	f := sess.Filters()
	assert.Equal(t, "2024-01-01", f.Start.Format(models.DateLayout))
	assert.Equal(t, "2024-01-30", f.End.Format(models.DateLayout))
	assert.ElementsMatch(t, models.Categories, f.Categories)
	assert.ElementsMatch(t, models.Statuses, f.Statuses)

	view, err := sess.View()
	require.NoError(t, err)

	snap, err := sess.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, engine.ComputeKpis(snap.Series), view.Kpis.Kpis)
	assert.Equal(t, engine.CountByStatus(snap.Inventory, models.StatusLowStock), view.Kpis.LowStockAlerts)
	assert.Len(t, view.SalesChart.Points, 30)
	assert.Equal(t, []string{"Date", "Sales"}, view.SalesChart.Columns)
	assert.Len(t, view.RecentOrders, 5)
	assert.Equal(t, "2024-01-30", view.RecentOrders[0].Date.Format(models.DateLayout))
	assert.Len(t, view.Inventory, 40)
}

func TestSession_StableAcrossViews(t *testing.T) {
	sess, err := newTestStore(0).Create()
	require.NoError(t, err)

	a, err := sess.View()
	require.NoError(t, err)
	b, err := sess.View()
	require.NoError(t, err)
	assert.Equal(t, a.Kpis, b.Kpis)
}

func TestSession_Dispatch(t *testing.T) {
	sess, err := newTestStore(1).Create()
	require.NoError(t, err)

	view, err := sess.Dispatch(Event{Type: EventDateRangeChanged, Start: "2024-01-10", End: "2024-01-19"})
	require.NoError(t, err)
	assert.Len(t, view.SalesChart.Points, 10)
	assert.Equal(t, "2024-01-19", view.RecentOrders[0].Date.Format(models.DateLayout))

	view, err = sess.Dispatch(Event{Type: EventRowCountChanged, Rows: 3})
	require.NoError(t, err)
	assert.Len(t, view.RecentOrders, 3)

	view, err = sess.Dispatch(Event{Type: EventCategoriesChanged, Categories: []models.Category{models.CategoryBooks}})
	require.NoError(t, err)
	for _, it := range view.Inventory {
		assert.Equal(t, models.CategoryBooks, it.Category)
	}

	view, err = sess.Dispatch(Event{Type: EventStatusesChanged, Statuses: []models.Status{models.StatusInStock}})
	require.NoError(t, err)
	for _, it := range view.Inventory {
		assert.Equal(t, models.StatusInStock, it.Status)
	}

	// empty selection matches everything again
	view, err = sess.Dispatch(Event{Type: EventStatusesChanged})
	require.NoError(t, err)
	snap, _ := sess.Snapshot()
	assert.Len(t, view.Inventory, len(engine.FilterInventory(snap.Inventory, nil, []models.Category{models.CategoryBooks})))
}

func TestSession_DispatchRejected(t *testing.T) {
	sess, err := newTestStore(1).Create()
	require.NoError(t, err)
	before := sess.Filters()

	tests := []struct {
		name string
		ev   Event
	}{
		{"reversed range", Event{Type: EventDateRangeChanged, Start: "2024-01-20", End: "2024-01-10"}},
		{"bad date", Event{Type: EventDateRangeChanged, Start: "yesterday", End: "2024-01-10"}},
		{"unknown category", Event{Type: EventCategoriesChanged, Categories: []models.Category{"Toys"}}},
		{"unknown status", Event{Type: EventStatusesChanged, Statuses: []models.Status{"Gone"}}},
		{"negative rows", Event{Type: EventRowCountChanged, Rows: -1}},
		{"unknown type", Event{Type: "zoomed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sess.Dispatch(tt.ev)
			assert.ErrorIs(t, err, engine.ErrInvalidArgument)
			assert.Equal(t, before, sess.Filters())
		})
	}
}

func TestSession_Refresh(t *testing.T) {
	st := newTestStore(0)
	seeds := []uint64{100, 200}
	st.seed = func() uint64 {
		s := seeds[0]
		seeds = seeds[1:]
		return s
	}

	sess, err := st.Create()
	require.NoError(t, err)
	_, err = sess.Dispatch(Event{Type: EventCategoriesChanged, Categories: []models.Category{models.CategoryHome}})
	require.NoError(t, err)

	first, err := sess.Snapshot()
	require.NoError(t, err)
	assert.EqualValues(t, 100, first.Params.Seed)

	view, err := sess.Dispatch(Event{Type: EventRefreshed})
	require.NoError(t, err)

	second, err := sess.Snapshot()
	require.NoError(t, err)
	assert.EqualValues(t, 200, second.Params.Seed)
	assert.NotEqual(t, first.Series, second.Series)
	assert.Equal(t, []models.Category{models.CategoryHome}, view.Filters.Categories)
}

func TestSession_RefreshPinnedSeed(t *testing.T) {
	sess, err := newTestStore(9).Create()
	require.NoError(t, err)

	first, err := sess.Snapshot()
	require.NoError(t, err)
	require.NoError(t, sess.Refresh())
	second, err := sess.Snapshot()
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Series, second.Series)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-01-05", "2024-01-05T13:00:00Z", "2024-01-05 13:00:00"} {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, d.Equal(engine.Epoch.AddDate(0, 0, 4)), in)
	}
	_, err := ParseDate("05/01/2024")
	assert.ErrorIs(t, err, engine.ErrInvalidArgument)
}
