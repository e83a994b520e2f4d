package massjoin

import (
	"strings"

	"github.com/shopspring/decimal"

	"fab-weekly/pkg/models"
)

const (
	StatusCompleted = "Completed"
	FabricationFDM  = "3D Printing - FDM (Filament)"
)

var gramsPerKilogram = decimal.NewFromInt(1000)

// Stats describes what the join kept and dropped.
type Stats struct {
	Batches          int // print-batch rows read
	CompletedBatches int // of which status Completed
	QualifiedForms   int // form rows that passed the filters
	Matched          int // completed batches attributed to a form row
	Unmatched        int // completed batches whose order has no qualifying form row
	InvalidQuantity  int // completed batches whose quantity was read as 0
}

// Join attributes the material of completed print batches to the completed
// FDM form submissions sharing their Order ID and converts grams to kg.
// Every qualifying form row is returned, with 0 kg when nothing printed.
func Join(batches []models.PrintBatch, forms []models.FormResponse) ([]models.OrderRecord, Stats) {
	stats := Stats{Batches: len(batches)}

	qualified := make([]models.FormResponse, 0, len(forms))
	grams := make(map[string]decimal.Decimal)
	for _, f := range forms {
		if !qualifies(f) {
			continue
		}
		qualified = append(qualified, f)
		grams[strings.TrimSpace(f.OrderID)] = decimal.Zero
	}
	stats.QualifiedForms = len(qualified)

	for _, b := range batches {
		if strings.TrimSpace(b.Status) != StatusCompleted {
			continue
		}
		stats.CompletedBatches++

		qty, ok := parseQuantity(b.MaterialQty)
		if !ok {
			stats.InvalidQuantity++
		}
		id := strings.TrimSpace(b.OrderID)
		sum, found := grams[id]
		if !found {
			stats.Unmatched++
			continue
		}
		grams[id] = sum.Add(qty)
		stats.Matched++
	}

	out := make([]models.OrderRecord, 0, len(qualified))
	for _, f := range qualified {
		id := strings.TrimSpace(f.OrderID)
		out = append(out, models.OrderRecord{
			OrderID:   id,
			Timestamp: f.Timestamp,
			Course:    strings.TrimSpace(f.Course),
			MassKg:    grams[id].Div(gramsPerKilogram).InexactFloat64(),
		})
	}
	return out, stats
}

func qualifies(f models.FormResponse) bool {
	return strings.TrimSpace(f.FabricationType) == FabricationFDM &&
		strings.TrimSpace(f.Course) != "" &&
		strings.TrimSpace(f.OrderStatus) == StatusCompleted
}

// parseQuantity reads a gram amount. Blank, malformed and negative values
// count as zero.
func parseQuantity(s string) (decimal.Decimal, bool) {
	qty, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || qty.IsNegative() {
		return decimal.Zero, false
	}
	return qty, true
}
