// Public domain.

package calendar

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/goccy/go-json"
)

// WriteJSON writes nights as an array of records.
func WriteJSON(w io.Writer, nights []Night) error {
	if nights == nil {
		nights = []Night{}
	}
	return json.NewEncoder(w).Encode(nights)
}

var csvHeader = []string{
	"", "mjd", "moonPhase", "moonHours", "obsHours", "slotHours",
	"darkPercent", "brightPercent", "monthName", "monthInt", "year",
	"dayOfYear", "dayOfMonth", "nFields", "dateStr",
}

// WriteCSV writes nights as CSV with a leading row index column.
func WriteCSV(w io.Writer, nights []Night) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for i, n := range nights {
		rec := []string{
			strconv.Itoa(i),
			strconv.Itoa(n.MJD),
			f(n.MoonPhase),
			f(n.MoonHours),
			f(n.ObsHours),
			f(n.SlotHours),
			f(n.DarkPercent),
			f(n.BrightPercent),
			n.MonthName,
			strconv.Itoa(n.MonthInt),
			strconv.Itoa(n.Year),
			strconv.Itoa(n.DayOfYear),
			strconv.Itoa(n.DayOfMonth),
			strconv.Itoa(n.NFields),
			n.DateStr,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
