package models

import "time"

// DateLayout is how calendar dates travel over the API.
const DateLayout = "2006-01-02"

type SalesRecord struct {
	Date     time.Time `json:"date"`
	Sales    int64     `json:"sales"`
	Visitors int64     `json:"visitors"`
	Orders   int64     `json:"orders"`
}

type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryHome        Category = "Home"
	CategoryBooks       Category = "Books"
)

// Categories is the fixed category set, in display order.
var Categories = []Category{CategoryElectronics, CategoryClothing, CategoryHome, CategoryBooks}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusInStock    Status = "InStock"
	StatusLowStock   Status = "LowStock"
	StatusOutOfStock Status = "OutOfStock"
)

var Statuses = []Status{StatusInStock, StatusLowStock, StatusOutOfStock}

// LowStockThreshold is the stock level from which an item counts as InStock.
const LowStockThreshold = 10

func (s Status) Valid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}

// StatusForStock derives the stock status of an item.
func StatusForStock(stock int) Status {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock < LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

type InventoryItem struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Price     int64    `json:"price"`
	Stock     int      `json:"stock"`
	Status    Status   `json:"status"`
}

func NewInventoryItem(id, name string, category Category, price int64, stock int) InventoryItem {
	return InventoryItem{
		ProductID: id,
		Name:      name,
		Category:  category,
		Price:     price,
		Stock:     stock,
		Status:    StatusForStock(stock),
	}
}

// SetStock updates stock and keeps Status in sync with it.
func (i *InventoryItem) SetStock(stock int) {
	i.Stock = stock
	i.Status = StatusForStock(stock)
}

type Kpis struct {
	TotalSales    int64 `json:"total_sales"`
	TotalOrders   int64 `json:"total_orders"`
	TotalVisitors int64 `json:"total_visitors"`
}

func (k Kpis) Add(o Kpis) Kpis {
	return Kpis{
		TotalSales:    k.TotalSales + o.TotalSales,
		TotalOrders:   k.TotalOrders + o.TotalOrders,
		TotalVisitors: k.TotalVisitors + o.TotalVisitors,
	}
}

// KpiDeltas are percent changes, rendered as strings like "12.5" to keep precision.
type KpiDeltas struct {
	Sales    string `json:"sales"`
	Orders   string `json:"orders"`
	Visitors string `json:"visitors"`
}

type KpiSummary struct {
	Kpis
	LowStockAlerts int       `json:"low_stock_alerts"`
	Deltas         KpiDeltas `json:"deltas"`
}

// --- CHART CONTRACTS ---

type SalesPoint struct {
	Date  string `json:"Date"`
	Sales int64  `json:"Sales"`
}

type SeriesChart struct {
	Columns []string     `json:"columns"`
	Tooltip []string     `json:"tooltip"`
	Points  []SalesPoint `json:"points"`
}

type CategoryShare struct {
	Category Category `json:"Category"`
	Value    int64    `json:"Value"`
	Share    string   `json:"share"`
}

type CategoryChart struct {
	Columns []string        `json:"columns"`
	Slices  []CategoryShare `json:"slices"`
}

// FilterState is everything the UI shell can change on the dashboard.
type FilterState struct {
	Start      time.Time  `json:"start"`
	End        time.Time  `json:"end"`
	Categories []Category `json:"categories"`
	Statuses   []Status   `json:"statuses"`
	TableRows  int        `json:"table_rows"`
}

type DashboardView struct {
	Filters       FilterState     `json:"filters"`
	Kpis          KpiSummary      `json:"kpis"`
	SalesChart    SeriesChart     `json:"sales_chart"`
	CategoryChart CategoryChart   `json:"category_chart"`
	RecentOrders  []SalesRecord   `json:"recent_orders"`
	Inventory     []InventoryItem `json:"inventory"`
}
