package engine

import (
	"cmp"
	"dashboard/internal/models"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

var hundred = decimal.NewFromInt(100)

func sumBy[T any, N constraints.Integer](items []T, field func(T) N) N {
	var total N
	for _, it := range items {
		total += field(it)
	}
	return total
}

// ComputeKpis sums the series. An empty series yields zeros.
func ComputeKpis(series []models.SalesRecord) models.Kpis {
	return models.Kpis{
		TotalSales:    sumBy(series, func(r models.SalesRecord) int64 { return r.Sales }),
		TotalOrders:   sumBy(series, func(r models.SalesRecord) int64 { return r.Orders }),
		TotalVisitors: sumBy(series, func(r models.SalesRecord) int64 { return r.Visitors }),
	}
}

// ComputeKpiDeltas compares the second half of the series with the first half.
// With an odd length the middle day belongs to neither half.
func ComputeKpiDeltas(series []models.SalesRecord) models.KpiDeltas {
	half := len(series) / 2
	if half == 0 {
		zero := percentChange(0, 0)
		return models.KpiDeltas{Sales: zero, Orders: zero, Visitors: zero}
	}
	before := ComputeKpis(series[:half])
	after := ComputeKpis(series[len(series)-half:])
	return models.KpiDeltas{
		Sales:    percentChange(before.TotalSales, after.TotalSales),
		Orders:   percentChange(before.TotalOrders, after.TotalOrders),
		Visitors: percentChange(before.TotalVisitors, after.TotalVisitors),
	}
}

func percentChange(before, after int64) string {
	if before == 0 {
		return decimal.Zero.StringFixed(1)
	}
	return decimal.NewFromInt(after - before).
		Div(decimal.NewFromInt(before)).
		Mul(hundred).
		StringFixed(1)
}

func CountByStatus(inventory []models.InventoryItem, status models.Status) int {
	n := 0
	for _, it := range inventory {
		if it.Status == status {
			n++
		}
	}
	return n
}

// GroupRevenueByCategory sums item prices per category.
func GroupRevenueByCategory(inventory []models.InventoryItem) map[models.Category]int64 {
	groups := make(map[models.Category]int64)
	for _, it := range inventory {
		groups[it.Category] += it.Price
	}
	return groups
}

// CategoryShares turns grouped revenue into chart slices, largest first.
func CategoryShares(groups map[models.Category]int64) []models.CategoryShare {
	var total int64
	for _, v := range groups {
		total += v
	}

	shares := make([]models.CategoryShare, 0, len(groups))
	for cat, v := range groups {
		share := decimal.Zero
		if total > 0 {
			share = decimal.NewFromInt(v).Mul(hundred).Div(decimal.NewFromInt(total))
		}
		shares = append(shares, models.CategoryShare{Category: cat, Value: v, Share: share.StringFixed(1)})
	}
	slices.SortFunc(shares, func(a, b models.CategoryShare) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return shares
}

// FilterByDateRange keeps records with start <= date <= end, in input order.
func FilterByDateRange(series []models.SalesRecord, start, end time.Time) ([]models.SalesRecord, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidArgument,
			start.Format(models.DateLayout), end.Format(models.DateLayout))
	}
	out := make([]models.SalesRecord, 0, len(series))
	for _, r := range series {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// FilterInventory keeps items whose status and category are both selected.
// An empty selection for a dimension matches every value of it.
func FilterInventory(inventory []models.InventoryItem, statuses []models.Status, categories []models.Category) []models.InventoryItem {
	out := make([]models.InventoryItem, 0, len(inventory))
	for _, it := range inventory {
		if len(statuses) > 0 && !slices.Contains(statuses, it.Status) {
			continue
		}
		if len(categories) > 0 && !slices.Contains(categories, it.Category) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// TailSortedByDateDesc takes the last n records and orders them newest first.
func TailSortedByDateDesc(series []models.SalesRecord, n int) ([]models.SalesRecord, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: row count must not be negative, got %d", ErrInvalidArgument, n)
	}
	n = min(n, len(series))
	tail := slices.Clone(series[len(series)-n:])
	slices.SortStableFunc(tail, func(a, b models.SalesRecord) int {
		return b.Date.Compare(a.Date)
	})
	return tail, nil
}
