package extract

import (
	"strconv"
	"strings"
	"time"
)

// serialThreshold is the sanity floor for treating a numeric cell as a
// spreadsheet date serial (~year 2009 onward).
const serialThreshold = 40000

// excelEpoch is the OOXML serial-date epoch (the 1900 system, with its
// historical leap-year offset baked in).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	displayDateLayout = "02/01/2006"
	isoDateLayout     = "2006-01-02"
)

// Day-first formats are tried before month-first: the exports come from a
// Latin American WMS.
var textDateLayouts = []string{
	"02/01/06",
	"02/01/2006",
	"2006-01-02",
	"01/02/06",
	"01/02/2006",
}

// NormalizeDate converts a raw date cell to its display form (DD/MM/YYYY)
// and ISO compare form (YYYY-MM-DD). Only the date part is kept; any time
// component is discarded.
//
// On total parse failure the display form is the best-effort trimmed text
// (time portion split off when present) and compare is empty.
func NormalizeDate(raw string) (display, compare string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", ""
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial > serialThreshold {
			t := fromSerial(serial)
			return t.Format(displayDateLayout), t.Format(isoDateLayout)
		}
		return v, ""
	}

	datePart := v
	if i := strings.IndexByte(datePart, ' '); i >= 0 {
		datePart = datePart[:i]
	}
	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, datePart); err == nil {
			return t.Format(displayDateLayout), t.Format(isoDateLayout)
		}
	}
	return datePart, ""
}

// fromSerial converts a serial day count to a calendar date, truncating any
// fractional (time-of-day) part.
func fromSerial(serial float64) time.Time {
	return excelEpoch.AddDate(0, 0, int(serial))
}

// DisplayDate re-renders an ISO date in display format; empty in, empty out.
func DisplayDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(isoDateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format(displayDateLayout)
}
