package engine

import (
	"dashboard/internal/models"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

// Epoch is the first day of every generated sales series.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Value ranges, half-open [min, max).
const (
	salesMin, salesMax       = 100, 500
	salesUnit                = 10000
	visitorsMin, visitorsMax = 50, 300
	ordersMin, ordersMax     = 10, 80
	priceMin, priceMax       = 10, 500
	priceUnit                = 1000
	stockMax                 = 100
)

// stream tags keep the sales and inventory generators independent for one seed
const (
	salesStream     = 0x5a1e5
	inventoryStream = 0x1f7e7
)

var productAdjectives = []string{"Classic", "Smart", "Eco", "Premium", "Compact", "Deluxe", "Urban", "Vintage"}

var productNouns = map[models.Category][]string{
	models.CategoryElectronics: {"Headphones", "Speaker", "Charger", "Monitor", "Keyboard"},
	models.CategoryClothing:    {"Jacket", "Sneakers", "Hoodie", "Scarf", "Jeans"},
	models.CategoryHome:        {"Lamp", "Blanket", "Mug", "Chair", "Vase"},
	models.CategoryBooks:       {"Novel", "Cookbook", "Atlas", "Journal", "Guide"},
}

func between(r *rand.Rand, lo, hi int64) int64 {
	return lo + r.Int64N(hi-lo)
}

// GenerateSalesSeries returns one record per day starting at Epoch.
// The same seed always yields the same series.
func GenerateSalesSeries(days int, seed uint64) ([]models.SalesRecord, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", ErrInvalidArgument, days)
	}

	r := rand.New(rand.NewPCG(seed, salesStream))
	series := make([]models.SalesRecord, days)
	for i := range series {
		series[i] = models.SalesRecord{
			Date:     Epoch.AddDate(0, 0, i),
			Sales:    between(r, salesMin, salesMax) * salesUnit,
			Visitors: between(r, visitorsMin, visitorsMax),
			Orders:   between(r, ordersMin, ordersMax),
		}
	}
	return series, nil
}

// GenerateInventory returns count items with sequential product ids.
// Categories are treated as a set: duplicates are dropped and the rest sorted
// before drawing, so the result does not depend on the caller's ordering.
func GenerateInventory(count int, categories []models.Category, seed uint64) ([]models.InventoryItem, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: inventory count must be positive, got %d", ErrInvalidArgument, count)
	}
	set := normalizeCategories(categories)
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: at least one category is required", ErrInvalidArgument)
	}

	r := rand.New(rand.NewPCG(seed, inventoryStream))
	items := make([]models.InventoryItem, count)
	for i := range items {
		cat := set[r.IntN(len(set))]
		items[i] = models.NewInventoryItem(
			fmt.Sprintf("P%04d", i+1),
			productName(r, cat),
			cat,
			between(r, priceMin, priceMax)*priceUnit,
			r.IntN(stockMax),
		)
	}
	return items, nil
}

func productName(r *rand.Rand, cat models.Category) string {
	adj := productAdjectives[r.IntN(len(productAdjectives))]
	nouns, ok := productNouns[cat]
	if !ok {
		return fmt.Sprintf("%s %s Item", adj, cat)
	}
	return adj + " " + nouns[r.IntN(len(nouns))]
}

func normalizeCategories(categories []models.Category) []models.Category {
	set := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c != "" {
			set = append(set, c)
		}
	}
	slices.Sort(set)
	return slices.Compact(set)
}
