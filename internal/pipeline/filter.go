package pipeline

import (
	"github.com/facbol/billing-intake/internal/entity"
	"github.com/facbol/billing-intake/internal/extract"
)

// DateRange is an optional inclusive [From, To] bound in ISO form.
// Either side may be empty.
type DateRange struct {
	From string
	To   string
}

// Active reports whether any bound was supplied.
func (d DateRange) Active() bool {
	return d.From != "" || d.To != ""
}

// Outcome is the classified row set plus the statistics folded while
// classifying it.
type Outcome struct {
	// Passing holds rows with a non-zero quantity that passed the date
	// filter, in source order.
	Passing []entity.FilteredRow
	Stats   entity.Statistics
}

// Filter classifies extracted rows and folds the running aggregates:
// zero-quantity rows are counted and excluded, the date range is applied to
// the rest, and unique-key/quantity-sum statistics accumulate over the rows
// that survive both.
type Filter struct {
	schema *extract.Schema
	dates  DateRange
}

func NewFilter(schema *extract.Schema, dates DateRange) *Filter {
	return &Filter{schema: schema, dates: dates}
}

// Run consumes the valid row stream. The date min/max range is tracked
// before the date filter so the response can report the file's full extent
// even when the filter excludes most of it.
func (f *Filter) Run(rows []extract.RawRow) *Outcome {
	qtyPos := f.schema.Position(f.schema.QuantityField)
	keyPos := f.schema.Position(f.schema.KeyField)

	out := &Outcome{}
	uniqueKeys := make(map[string]struct{})
	var totalQty float64
	var dateMin, dateMax string

	for _, row := range rows {
		var qty string
		if qtyPos >= 0 && qtyPos < len(row.Values) {
			qty = row.Values[qtyPos]
		}
		if extract.IsZeroQuantity(qty) {
			out.Stats.FilteredZeroQuantity++
			continue
		}

		out.Stats.TotalBeforeFilter++
		if row.DateCompare != "" {
			if dateMin == "" || row.DateCompare < dateMin {
				dateMin = row.DateCompare
			}
			if dateMax == "" || row.DateCompare > dateMax {
				dateMax = row.DateCompare
			}
		}

		passes := f.passesDateFilter(row.DateCompare)
		if !passes {
			out.Stats.FilteredByDate++
			continue
		}

		if keyPos >= 0 && keyPos < len(row.Values) && row.Values[keyPos] != "" {
			uniqueKeys[row.Values[keyPos]] = struct{}{}
		}
		totalQty += extract.ParseQuantity(qty)

		out.Passing = append(out.Passing, entity.FilteredRow{
			Values:           row.Values,
			PassesDateFilter: true,
			DateCompare:      row.DateCompare,
		})
	}

	out.Stats.TotalRows = len(out.Passing)
	out.Stats.UniqueKeys = len(uniqueKeys)
	out.Stats.TotalQuantity = extract.FormatTotal(totalQty)
	out.Stats.DateMin = extract.DisplayDate(dateMin)
	out.Stats.DateMax = extract.DisplayDate(dateMax)
	out.Stats.AppliedFilters = entity.AppliedFilters{
		FromDate: extract.DisplayDate(f.dates.From),
		ToDate:   extract.DisplayDate(f.dates.To),
	}
	return out
}

// passesDateFilter applies the inclusive range. A row with no comparison
// date fails an active filter: an ambiguous date is never assumed in-range.
func (f *Filter) passesDateFilter(compare string) bool {
	if !f.dates.Active() {
		return true
	}
	if compare == "" {
		return false
	}
	if f.dates.From != "" && compare < f.dates.From {
		return false
	}
	if f.dates.To != "" && compare > f.dates.To {
		return false
	}
	return true
}
