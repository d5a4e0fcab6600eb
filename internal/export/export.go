// Public domain.

// Package export writes shaped nights as the JSON record files loaded by
// the sky map, and builds the data-free chart base they are bound into.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/fieldviz/fieldviz/internal/shaper"
)

// Date units for the st column.
const (
	UnitMillis  = "ms"
	UnitSeconds = "s"
	UnitISO     = "iso"
)

// Output file names within a night directory.
const (
	FieldsFile = "fields.json"
	StarsFile  = "stars.json"
	MoonFile   = "moon.json"
)

// Options control the written records.
type Options struct {
	Precision int    `koanf:"precision"` // decimal places kept in floats
	DateUnit  string `koanf:"date_unit"`
}

// DefaultOptions matches what the sky map was first built against.
func DefaultOptions() Options {
	return Options{Precision: 10, DateUnit: UnitMillis}
}

func (o Options) validate() error {
	if o.Precision < 0 || o.Precision > 15 {
		return fmt.Errorf("export: precision %d out of range 0..15", o.Precision)
	}
	switch o.DateUnit {
	case UnitMillis, UnitSeconds, UnitISO:
		return nil
	}
	return fmt.Errorf("export: unknown date unit %q", o.DateUnit)
}

type fieldRec struct {
	Alt float64       `json:"alt"`
	Az  float64       `json:"az"`
	MS  float64       `json:"mS"`
	Fid string        `json:"fid"`
	FS  shaper.Status `json:"fS"`
	St  interface{}   `json:"st"`
	Tid int           `json:"tsid"`
	P   int           `json:"p"`
	C   float64       `json:"c"`
	Sch bool          `json:"sch"`
}

type starRec struct {
	Alt float64 `json:"alt"`
	Az  float64 `json:"az"`
	Tid int     `json:"tsid"`
	Mag float64 `json:"Stellar Magnitude"`
}

type moonRec struct {
	Alt   float64 `json:"mAlt"`
	Az    float64 `json:"mAz"`
	Tid   int     `json:"tsid"`
	Phase string  `json:"phase"`
}

// WriteNight writes fields.json and stars.json to dir, and moon.json if
// the result carries a moon table.  dir is created if needed.
func WriteNight(dir string, r *shaper.Result, o Options) error {
	if err := o.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	p := func(x float64) float64 { return round(x, o.Precision) }

	fields := make([]fieldRec, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = fieldRec{p(f.Alt), p(f.Az), p(f.MoonSep), f.ID, f.Status,
			o.date(f.Start), f.Step, f.Priority, p(f.Completion), f.Tonight}
	}
	if err := writeJSON(filepath.Join(dir, FieldsFile), fields); err != nil {
		return err
	}
	stars := make([]starRec, len(r.Stars))
	for i, s := range r.Stars {
		stars[i] = starRec{p(s.Alt), p(s.Az), s.Step, p(s.Mag)}
	}
	if err := writeJSON(filepath.Join(dir, StarsFile), stars); err != nil {
		return err
	}
	if r.Moon == nil {
		return nil
	}
	moon := make([]moonRec, len(r.Moon))
	for i, m := range r.Moon {
		moon[i] = moonRec{p(m.Alt), p(m.Az), m.Step, m.Phase}
	}
	return writeJSON(filepath.Join(dir, MoonFile), moon)
}

func (o Options) date(t time.Time) interface{} {
	switch o.DateUnit {
	case UnitSeconds:
		return t.Unix()
	case UnitISO:
		return t.UTC().Format("2006-01-02T15:04:05.000")
	}
	return t.UnixMilli()
}

func round(x float64, d int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow(10, float64(d))
	return math.Round(x*p) / p
}

func writeJSON(fn string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(fn, b, 0o644)
}
