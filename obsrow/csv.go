// Public domain.

package obsrow

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// column binds a CSV column name to a Row field.
type column struct {
	name string
	get  func(*Row) string
	set  func(*Row, string) error
}

var columns = []column{
	{ColID, func(r *Row) string { return r.ID },
		func(r *Row, s string) error { r.ID = s; return nil }},
	{ColType, func(r *Row) string { return r.Type },
		func(r *Row, s string) error { r.Type = s; return nil }},
	floatCol(ColMJD, func(r *Row) *float64 { return &r.MJD }),
	floatCol(ColAlt, func(r *Row) *float64 { return &r.Alt }),
	floatCol(ColAz, func(r *Row) *float64 { return &r.Az }),
	floatCol(ColAirmass, func(r *Row) *float64 { return &r.Airmass }),
	floatCol(ColMoonRA, func(r *Row) *float64 { return &r.MoonRA }),
	floatCol(ColMoonDec, func(r *Row) *float64 { return &r.MoonDec }),
	floatCol(ColMoonAlt, func(r *Row) *float64 { return &r.MoonAlt }),
	floatCol(ColMoonAz, func(r *Row) *float64 { return &r.MoonAz }),
	floatCol(ColMoonSep, func(r *Row) *float64 { return &r.MoonSep }),
	floatCol(ColMoonPhase, func(r *Row) *float64 { return &r.MoonPhase }),
	floatCol(ColMag, func(r *Row) *float64 { return &r.Mag }),
	boolCol(ColRisen, func(r *Row) *bool { return &r.Risen }),
	boolCol(ColScheduled, func(r *Row) *bool { return &r.Scheduled }),
	boolCol(ColObservable, func(r *Row) *bool { return &r.Observable }),
	{ColPriority, func(r *Row) string { return strconv.Itoa(r.Priority) },
		func(r *Row, s string) error {
			// pandas writes integer columns holding NaN as floats
			f, err := parseFloat(s)
			if err != nil || math.IsNaN(f) {
				r.Priority = Unset
				return err
			}
			r.Priority = int(f)
			return nil
		}},
	floatCol(ColCompletion, func(r *Row) *float64 { return &r.Completion }),
}

func floatCol(name string, f func(*Row) *float64) column {
	return column{name,
		func(r *Row) string {
			if math.IsNaN(*f(r)) {
				return ""
			}
			return strconv.FormatFloat(*f(r), 'f', -1, 64)
		},
		func(r *Row, s string) (err error) {
			*f(r), err = parseFloat(s)
			return
		}}
}

// parseFloat reads a blank cell, as pandas writes NaN, as NaN.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func boolCol(name string, f func(*Row) *bool) column {
	return column{name,
		func(r *Row) string {
			if *f(r) {
				return "True"
			}
			return "False"
		},
		func(r *Row, s string) (err error) {
			// blank is false
			if s == "" {
				*f(r) = false
				return nil
			}
			*f(r), err = strconv.ParseBool(s)
			return
		}}
}

func lookupColumn(name string) (column, bool) {
	for _, c := range columns {
		if c.name == name {
			return c, true
		}
	}
	return column{}, false
}

// ReadFile reads an observation table from the CSV file fn.
func ReadFile(fn string) (*Table, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return t, nil
}

// Read reads an observation table in CSV form.
//
// The first line is a header.  A leading row index column, written by
// pandas with an empty name or read back as "Unnamed: 0", is dropped.
// Columns the package does not know are ignored.  Read does not require
// any particular column; see Table.CheckSchema.
//
// Priority and Completion default to Unset when their columns are absent.
// A blank cell, as pandas writes NaN, reads as NaN in a float column,
// false in a flag column and Unset for priority.  Field rows may leave
// magnitude blank.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		// no header at all.  every column is missing.
		return nil, &SchemaError{Missing: append([]string{}, Required...)}
	}
	if err != nil {
		return nil, err
	}
	skip := 0
	if len(header) > 0 && (header[0] == "" || header[0] == "Unnamed: 0") {
		skip = 1
	}
	t := &Table{}
	bind := make([]*column, len(header))
	for i := skip; i < len(header); i++ {
		c, ok := lookupColumn(header[i])
		if !ok || t.Has(c.name) {
			continue
		}
		bind[i] = &c
		t.Columns = append(t.Columns, c.name)
	}
	t.sortColumns()
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := Row{Priority: Unset, Completion: Unset}
		for i, c := range bind {
			if c == nil {
				continue
			}
			if err := c.set(&row, rec[i]); err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, c.name, err)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write writes t as CSV with a leading, unnamed row index column.  Only the
// columns listed in t.Columns are written.
func Write(w io.Writer, t *Table) error {
	cols := make([]column, 0, len(t.Columns))
	for _, name := range t.Columns {
		c, ok := lookupColumn(name)
		if !ok {
			return fmt.Errorf("obsrow: unknown column %q", name)
		}
		cols = append(cols, c)
	}
	cw := csv.NewWriter(w)
	rec := make([]string, len(cols)+1)
	for i, c := range cols {
		rec[i+1] = c.name
	}
	if err := cw.Write(rec); err != nil {
		return err
	}
	for x := range t.Rows {
		rec[0] = strconv.Itoa(x)
		for i, c := range cols {
			rec[i+1] = c.get(&t.Rows[x])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes t to the CSV file fn.
func WriteFile(fn string, t *Table) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err = Write(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
