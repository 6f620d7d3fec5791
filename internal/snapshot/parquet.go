package snapshot

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/medstock/medstock/internal/inventory"
)

// stockRow is one supply in a stock snapshot file.
type stockRow struct {
	SupplyID         int64  `parquet:"supply_id"`
	Name             string `parquet:"name"`
	Type             string `parquet:"type"`
	StrengthOrVolume string `parquet:"strength_or_volume"`
	RouteOfUse       string `parquet:"route_of_use"`
	QuantityInPack   int64  `parquet:"quantity_in_pack"`
	Location         string `parquet:"location"`
	TotalQuantity    int64  `parquet:"total_quantity"`
	Packages         int64  `parquet:"packages"`
	TakenAtUnixMs    int64  `parquet:"taken_at_unix_ms"`
	CreatedBy        string `parquet:"created_by"`
}

type EncodeResult struct {
	Data          []byte
	RowCount      int
	TotalQuantity int64
}

// EncodeStock writes one row per item, ordered by supply id, with the stock
// rows aggregated per supply. Stock for unknown supplies is ignored.
func EncodeStock(items []inventory.Item, stock []inventory.StockEntry, takenAt time.Time, createdBy string) (EncodeResult, error) {
	summaries := inventory.SummarizeBySupply(stock)

	sorted := append([]inventory.Item(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	rows := make([]stockRow, 0, len(sorted))
	var total int64
	for _, item := range sorted {
		summary := summaries[item.ID]
		total += summary.Quantity
		rows = append(rows, stockRow{
			SupplyID:         item.ID,
			Name:             item.Name,
			Type:             item.Type,
			StrengthOrVolume: item.StrengthOrVolume,
			RouteOfUse:       item.RouteOfUse,
			QuantityInPack:   item.QuantityInPack,
			Location:         item.Location,
			TotalQuantity:    summary.Quantity,
			Packages:         int64(summary.Packages),
			TakenAtUnixMs:    takenAt.UTC().UnixMilli(),
			CreatedBy:        createdBy,
		})
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[stockRow](buf)
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			return EncodeResult{}, fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return EncodeResult{}, fmt.Errorf("close parquet writer: %w", err)
	}

	return EncodeResult{
		Data:          buf.Bytes(),
		RowCount:      len(rows),
		TotalQuantity: total,
	}, nil
}
