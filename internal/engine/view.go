package engine

import (
	"dashboard/internal/models"
	"slices"
)

var (
	seriesColumns   = []string{"Date", "Sales"}
	categoryColumns = []string{"Category", "Value"}
)

// BuildView runs every aggregation the dashboard shows for one filter state.
func BuildView(snap *Snapshot, f models.FilterState) (*models.DashboardView, error) {
	series, err := FilterByDateRange(snap.Series, f.Start, f.End)
	if err != nil {
		return nil, err
	}
	recent, err := TailSortedByDateDesc(series, f.TableRows)
	if err != nil {
		return nil, err
	}
	inventory := FilterInventory(snap.Inventory, f.Statuses, f.Categories)

	return &models.DashboardView{
		Filters: f,
		Kpis: models.KpiSummary{
			Kpis:           ComputeKpis(series),
			LowStockAlerts: CountByStatus(snap.Inventory, models.StatusLowStock),
			Deltas:         ComputeKpiDeltas(series),
		},
		SalesChart:    SalesChart(series),
		CategoryChart: CategoryChart(inventory),
		RecentOrders:  recent,
		Inventory:     inventory,
	}, nil
}

// SalesChart is the daily sales line: one point per record, dates as YYYY-MM-DD.
func SalesChart(series []models.SalesRecord) models.SeriesChart {
	points := make([]models.SalesPoint, len(series))
	for i, r := range series {
		points[i] = models.SalesPoint{Date: r.Date.Format(models.DateLayout), Sales: r.Sales}
	}
	return models.SeriesChart{
		Columns: slices.Clone(seriesColumns),
		Tooltip: slices.Clone(seriesColumns),
		Points:  points,
	}
}

// CategoryChart is the category share arc over the given items.
func CategoryChart(inventory []models.InventoryItem) models.CategoryChart {
	return models.CategoryChart{
		Columns: slices.Clone(categoryColumns),
		Slices:  CategoryShares(GroupRevenueByCategory(inventory)),
	}
}
