// Public domain.

// Package obsrow defines the per-night observation table, one row per
// object per timestep, and reads and writes it in the CSV form produced by
// the schedule expansion scripts.
package obsrow

import (
	"sort"
	"strings"
)

// Object categories, as spelled in the objType column.
const (
	Field = "sdss field"
	Star  = "bright star"
)

// Column names as they appear in the CSV header.
const (
	ColID         = "fieldID"
	ColType       = "objType"
	ColMJD        = "mjdExpStart"
	ColAlt        = "alt"
	ColAz         = "az"
	ColAirmass    = "airmass"
	ColMoonRA     = "moonRA"
	ColMoonDec    = "moonDec"
	ColMoonAlt    = "moonAlt"
	ColMoonAz     = "moonAz"
	ColMoonSep    = "moonSep"
	ColMoonPhase  = "moonPhase"
	ColMag        = "magnitude"
	ColRisen      = "risen"
	ColScheduled  = "scheduled"
	ColObservable = "observable"
	ColPriority   = "priority"
	ColCompletion = "completion"
)

// Required lists the columns a table must carry to be shaped for display.
var Required = []string{
	ColID, ColType, ColMJD, ColAlt, ColAz,
	ColMoonAlt, ColMoonAz, ColMoonSep, ColMoonPhase,
	ColMag, ColScheduled,
}

// Unset is stored in Priority and Completion when a table has no such
// column, and for star rows, which are never prioritized.
const Unset = -1

// NoMag is the magnitude carried by field rows.  A blank magnitude, read
// as NaN, serves as well.
const NoMag = -999

// Row is a single object at a single timestep.  Angles are in degrees,
// MJD is the exposure start.
type Row struct {
	ID         string
	Type       string
	MJD        float64
	Alt, Az    float64
	Airmass    float64
	MoonRA     float64
	MoonDec    float64
	MoonAlt    float64
	MoonAz     float64
	MoonSep    float64
	MoonPhase  float64 // illuminated fraction, 0..1
	Mag        float64
	Risen      bool
	Scheduled  bool // observed at this timestep
	Observable bool
	Priority   int
	Completion float64
}

// Table holds rows together with the columns that were present in the
// source.  Columns is kept in canonical order.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table carrying the named columns.
func New(cols ...string) *Table {
	t := &Table{Columns: append([]string{}, cols...)}
	t.sortColumns()
	return t
}

// AllColumns returns every column name known to the package, in canonical
// order.
func AllColumns() []string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = c.name
	}
	return cols
}

// Has reports whether the table carries column col.
func (t *Table) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// AddColumn records col as present.  Adding a column already present is a
// no-op.
func (t *Table) AddColumn(col string) {
	if t.Has(col) {
		return
	}
	t.Columns = append(t.Columns, col)
	t.sortColumns()
}

// CheckSchema returns a *SchemaError if any of cols is absent.
func (t *Table) CheckSchema(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Clone returns a deep copy.  Rows are values so copying the slice is
// enough to detach the copy from t.
func (t *Table) Clone() *Table {
	return &Table{
		Columns: append([]string{}, t.Columns...),
		Rows:    append([]Row{}, t.Rows...),
	}
}

func (t *Table) sortColumns() {
	sort.SliceStable(t.Columns, func(i, j int) bool {
		return columnOrder(t.Columns[i]) < columnOrder(t.Columns[j])
	})
}

func columnOrder(name string) int {
	for i, c := range columns {
		if c.name == name {
			return i
		}
	}
	return len(columns)
}

// SchemaError reports required columns missing from an observation table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "obsrow: missing required columns: " + strings.Join(e.Missing, ", ")
}
