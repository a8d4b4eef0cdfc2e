package engine

import (
	"dashboard/internal/models"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// InventoryHeader follows InventoryItem's field order.
var InventoryHeader = []string{"ProductID", "Name", "Category", "Price", "Stock", "Status"}

// --- 1. EXPORT ---

// WriteInventoryCSV writes one row per item. Price and Stock are plain integers.
func WriteInventoryCSV(w io.Writer, inventory []models.InventoryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(InventoryHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(InventoryHeader))
	for _, it := range inventory {
		row[0] = it.ProductID
		row[1] = it.Name
		row[2] = string(it.Category)
		row[3] = strconv.FormatInt(it.Price, 10)
		row[4] = strconv.Itoa(it.Stock)
		row[5] = string(it.Status)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", it.ProductID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// --- 2. LOADER ---

// ReadInventoryCSV parses the format written by WriteInventoryCSV.
// Status is derived from Stock again and must agree with the Status column.
func ReadInventoryCSV(r io.Reader) ([]models.InventoryItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(InventoryHeader)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty inventory csv", ErrInvalidArgument)
	}
	if err != nil {
		return nil, csvError("read csv header", err)
	}
	if !slices.Equal(header, InventoryHeader) {
		return nil, fmt.Errorf("%w: unexpected csv header %v", ErrInvalidArgument, header)
	}

	var items []models.InventoryItem
	seen := make(map[string]struct{})
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(fmt.Sprintf("read csv line %d", line), err)
		}

		item, err := parseInventoryRow(rec)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if _, dup := seen[item.ProductID]; dup {
			return nil, fmt.Errorf("%w: csv line %d: duplicate product id %q", ErrInvalidArgument, line, item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}

// csvError marks malformed input as ErrInvalidArgument and leaves reader failures alone.
func csvError(op string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%w: %s: %v", ErrInvalidArgument, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func parseInventoryRow(rec []string) (models.InventoryItem, error) {
	price, err := strconv.ParseInt(rec[3], 10, 64)
	if err != nil || price <= 0 {
		return models.InventoryItem{}, fmt.Errorf("%w: bad price %q", ErrInvalidArgument, rec[3])
	}
	stock, err := strconv.Atoi(rec[4])
	if err != nil || stock < 0 {
		return models.InventoryItem{}, fmt.Errorf("%w: bad stock %q", ErrInvalidArgument, rec[4])
	}
	if rec[0] == "" {
		return models.InventoryItem{}, fmt.Errorf("%w: missing product id", ErrInvalidArgument)
	}

	item := models.NewInventoryItem(rec[0], rec[1], models.Category(rec[2]), price, stock)
	if string(item.Status) != rec[5] {
		return models.InventoryItem{}, fmt.Errorf("%w: status %q does not match stock %d", ErrInvalidArgument, rec[5], stock)
	}
	return item, nil
}
