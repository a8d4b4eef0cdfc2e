package engine

import (
	"dashboard/internal/models"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// SalesColumns holds a sales series in Struct-of-Arrays format,
// one flat column per field, ready to hand to Arrow.
type SalesColumns struct {
	Dates    []arrow.Date32
	Sales    []int64
	Visitors []int64
	Orders   []int64
}

var salesSchema = arrow.NewSchema([]arrow.Field{
	{Name: "Date", Type: arrow.FixedWidthTypes.Date32},
	{Name: "Sales", Type: arrow.PrimitiveTypes.Int64},
	{Name: "Visitors", Type: arrow.PrimitiveTypes.Int64},
	{Name: "Orders", Type: arrow.PrimitiveTypes.Int64},
}, nil)

func NewSalesColumns(series []models.SalesRecord) *SalesColumns {
	n := len(series)
	cs := &SalesColumns{
		Dates:    make([]arrow.Date32, n),
		Sales:    make([]int64, n),
		Visitors: make([]int64, n),
		Orders:   make([]int64, n),
	}
	for i, r := range series {
		cs.Dates[i] = arrow.Date32FromTime(r.Date)
		cs.Sales[i] = r.Sales
		cs.Visitors[i] = r.Visitors
		cs.Orders[i] = r.Orders
	}
	return cs
}

// Record builds an Arrow record from the columns. The caller releases it.
func (cs *SalesColumns) Record(mem memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(mem, salesSchema)
	defer b.Release()

	b.Field(0).(*array.Date32Builder).AppendValues(cs.Dates, nil)
	b.Field(1).(*array.Int64Builder).AppendValues(cs.Sales, nil)
	b.Field(2).(*array.Int64Builder).AppendValues(cs.Visitors, nil)
	b.Field(3).(*array.Int64Builder).AppendValues(cs.Orders, nil)
	return b.NewRecord()
}

// WriteSalesArrow writes the series as a single-record Arrow IPC stream.
func WriteSalesArrow(w io.Writer, series []models.SalesRecord) error {
	mem := memory.NewGoAllocator()
	rec := NewSalesColumns(series).Record(mem)
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(salesSchema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		iw.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return nil
}

// ReadSalesArrow reads back a stream written by WriteSalesArrow.
func ReadSalesArrow(r io.Reader) ([]models.SalesRecord, error) {
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("open arrow stream: %w", err)
	}
	defer rdr.Release()

	if !rdr.Schema().Equal(salesSchema) {
		return nil, fmt.Errorf("%w: unexpected arrow schema %s", ErrInvalidArgument, rdr.Schema())
	}

	var series []models.SalesRecord
	for rdr.Next() {
		rec := rdr.Record()
		dates := rec.Column(0).(*array.Date32)
		sales := rec.Column(1).(*array.Int64)
		visitors := rec.Column(2).(*array.Int64)
		orders := rec.Column(3).(*array.Int64)
		for i := 0; i < int(rec.NumRows()); i++ {
			series = append(series, models.SalesRecord{
				Date:     dates.Value(i).ToTime(),
				Sales:    sales.Value(i),
				Visitors: visitors.Value(i),
				Orders:   orders.Value(i),
			})
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("read arrow stream: %w", err)
	}
	return series, nil
}
