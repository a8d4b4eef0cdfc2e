package session

import (
	"dashboard/internal/engine"
	"dashboard/internal/models"
	"fmt"
	"time"
)

type EventType string

const (
	EventDateRangeChanged  EventType = "date_range_changed"
	EventCategoriesChanged EventType = "categories_changed"
	EventStatusesChanged   EventType = "statuses_changed"
	EventRowCountChanged   EventType = "row_count_changed"
	EventRefreshed         EventType = "refreshed"
)

// Event is one filter change coming from the UI shell.
// Only the fields relevant to Type are read.
type Event struct {
	Type       EventType         `json:"type"`
	Start      string            `json:"start,omitempty"`
	End        string            `json:"end,omitempty"`
	Categories []models.Category `json:"categories,omitempty"`
	Statuses   []models.Status   `json:"statuses,omitempty"`
	Rows       int               `json:"rows,omitempty"`
}

// apply returns the filter state after ev. f is not modified.
func (ev Event) apply(f models.FilterState) (models.FilterState, error) {
	switch ev.Type {
	case EventDateRangeChanged:
		start, err := ParseDate(ev.Start)
		if err != nil {
			return f, err
		}
		end, err := ParseDate(ev.End)
		if err != nil {
			return f, err
		}
		if start.After(end) {
			return f, fmt.Errorf("%w: start %s is after end %s", engine.ErrInvalidArgument, ev.Start, ev.End)
		}
		f.Start, f.End = start, end

	case EventCategoriesChanged:
		for _, c := range ev.Categories {
			if !c.Valid() {
				return f, fmt.Errorf("%w: unknown category %q", engine.ErrInvalidArgument, c)
			}
		}
		f.Categories = append([]models.Category(nil), ev.Categories...)

	case EventStatusesChanged:
		for _, s := range ev.Statuses {
			if !s.Valid() {
				return f, fmt.Errorf("%w: unknown status %q", engine.ErrInvalidArgument, s)
			}
		}
		f.Statuses = append([]models.Status(nil), ev.Statuses...)

	case EventRowCountChanged:
		if ev.Rows < 0 {
			return f, fmt.Errorf("%w: row count must not be negative, got %d", engine.ErrInvalidArgument, ev.Rows)
		}
		f.TableRows = ev.Rows

	default:
		return f, fmt.Errorf("%w: unknown event type %q", engine.ErrInvalidArgument, ev.Type)
	}
	return f, nil
}

var dateLayouts = []string{
	models.DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate accepts a calendar date and truncates any time part to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unable to parse date %q", engine.ErrInvalidArgument, s)
}
