// Public domain.

// Package shaper turns a night's observation table into the three tables
// drawn by the sky map: fields, bright stars, and the moon.
//
// Shaping is a pure function of the input table.  Nothing in the table
// passed to Shape is modified, and a Shaper holds no state beyond its
// configuration, so one Shaper may be used from several goroutines.
package shaper

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/fieldviz/fieldviz/ephem"
	"github.com/fieldviz/fieldviz/obsrow"
)

// Status is the display state of a field at one timestep.
type Status string

const (
	Available    Status = "Available"
	ScheduledNow Status = "Scheduled Now"
	Unavailable  Status = "Unavailable"
)

// Field is one field at one timestep.  JSON names are the short column
// names expected by the chart specification.
type Field struct {
	Alt        float64   `json:"alt"`
	Az         float64   `json:"az"`
	MoonSep    float64   `json:"mS"`
	ID         string    `json:"fid"`
	Status     Status    `json:"fS"`
	Start      time.Time `json:"st"`
	Step       int       `json:"tsid"`
	Priority   int       `json:"p"`
	Completion float64   `json:"c"`
	Tonight    bool      `json:"sch"` // scheduled at some step tonight
	MJD        float64   `json:"-"`
}

// Star is one bright star at one timestep.
type Star struct {
	Alt    float64 `json:"alt"`
	Az     float64 `json:"az"`
	Step   int     `json:"tsid"`
	Mag    float64 `json:"Stellar Magnitude"`
	ID     string  `json:"-"`
	RawMag float64 `json:"-"`
}

// Moon is the moon at one timestep.
type Moon struct {
	Alt   float64 `json:"mAlt"`
	Az    float64 `json:"mAz"`
	Step  int     `json:"tsid"`
	Phase string  `json:"phase"` // icon of the night's bucket
	MJD   float64 `json:"-"`
}

// Result holds the shaped tables for one night.
type Result struct {
	Fields []Field
	Stars  []Star
	Moon   []Moon // nil unless requested

	// Steps lists the distinct field timestamps, Steps[i] has time step i.
	Steps []float64

	// MeanPhase and Phase describe the night's moon.  Both are zero if the
	// moon was not requested or never rose above the horizon cutoff.
	MeanPhase float64
	Phase     Bucket
}

// LookupError reports a timestamp with no time step, that is, one not
// present among the field rows above the horizon.
type LookupError struct {
	Table string
	MJD   float64
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("shaper: %s timestamp %v has no field time step",
		e.Table, e.MJD)
}

// Shaper shapes observation tables according to a Config.
type Shaper struct {
	cfg Config
}

// New creates a Shaper.  The config is copied.
func New(cfg Config) (*Shaper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Buckets = append([]Bucket{}, cfg.Buckets...)
	return &Shaper{cfg}, nil
}

// Config returns a copy of the shaper configuration.
func (s *Shaper) Config() Config {
	c := s.cfg
	c.Buckets = append([]Bucket{}, s.cfg.Buckets...)
	return c
}

// Shape builds field, star, and, if withMoon is true, moon tables from t.
//
// t must carry the columns listed in obsrow.Required, otherwise a
// *obsrow.SchemaError is returned.  An empty table is not an error; the
// result then holds empty tables.
func (s *Shaper) Shape(t *obsrow.Table, withMoon bool) (*Result, error) {
	if err := t.CheckSchema(obsrow.Required...); err != nil {
		return nil, err
	}
	rows := s.round(t.Rows)

	var fields, stars []obsrow.Row
	tonight := map[string]bool{}
	for _, r := range rows {
		if r.Scheduled {
			tonight[r.ID] = true
		}
		if !(r.Alt > s.cfg.Horizon) {
			continue
		}
		switch r.Type {
		case obsrow.Field:
			fields = append(fields, r)
		case obsrow.Star:
			if r.Mag < s.cfg.MaxMag {
				stars = append(stars, r)
			}
		}
	}

	res := &Result{Steps: steps(fields)}
	index := make(map[float64]int, len(res.Steps))
	for i, mjd := range res.Steps {
		index[mjd] = i
	}

	res.Fields = make([]Field, len(fields))
	for i, r := range fields {
		res.Fields[i] = Field{
			Alt:        r.Alt,
			Az:         r.Az,
			MoonSep:    r.MoonSep,
			ID:         r.ID,
			Status:     s.status(&r),
			Start:      s.localTime(r.MJD),
			Step:       index[r.MJD],
			Priority:   r.Priority,
			Completion: r.Completion,
			Tonight:    tonight[r.ID],
			MJD:        r.MJD,
		}
	}

	res.Stars = make([]Star, len(stars))
	for i, r := range stars {
		x, ok := index[r.MJD]
		if !ok {
			return nil, &LookupError{Table: "star", MJD: r.MJD}
		}
		res.Stars[i] = Star{
			Alt:    r.Alt,
			Az:     r.Az,
			Step:   x,
			Mag:    s.cfg.DisplayMag(r.Mag),
			ID:     r.ID,
			RawMag: r.Mag,
		}
	}

	if withMoon {
		if err := s.moon(fields, index, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// round returns a rounded copy of rows.
func (s *Shaper) round(rows []obsrow.Row) []obsrow.Row {
	out := make([]obsrow.Row, len(rows))
	d := s.cfg.Digits
	for i, r := range rows {
		r.MJD = round(r.MJD, d)
		r.Alt = round(r.Alt, d)
		r.Az = round(r.Az, d)
		r.Airmass = round(r.Airmass, d)
		r.MoonRA = round(r.MoonRA, d)
		r.MoonDec = round(r.MoonDec, d)
		r.MoonAlt = round(r.MoonAlt, d)
		r.MoonAz = round(r.MoonAz, d)
		r.MoonSep = round(r.MoonSep, s.cfg.SepDigits)
		r.MoonPhase = round(r.MoonPhase, d)
		r.Mag = round(r.Mag, d)
		r.Completion = round(r.Completion, d)
		out[i] = r
	}
	return out
}

// status applies, in increasing precedence: Available, Unavailable below
// MinAlt, Scheduled Now.
func (s *Shaper) status(r *obsrow.Row) Status {
	switch {
	case r.Scheduled:
		return ScheduledNow
	case r.Alt < s.cfg.MinAlt:
		return Unavailable
	}
	return Available
}

// localTime converts mjd to site wall clock time.  The result is expressed
// in UTC so that it serializes without a zone, as the chart expects.
func (s *Shaper) localTime(mjd float64) time.Time {
	t := julian.JDToTime(mjd + ephem.MJDOffset)
	return t.Add(time.Duration(s.cfg.UTCOffset * float64(time.Hour))).
		Round(time.Millisecond)
}

// moon builds the moon table from distinct moon states of the field rows.
func (s *Shaper) moon(fields []obsrow.Row, index map[float64]int, res *Result) error {
	type state struct{ mjd, az, alt, phase uint64 }
	seen := map[state]bool{}
	res.Moon = []Moon{}
	var sum float64
	var n int
	for _, r := range fields {
		k := state{bits(r.MJD), bits(r.MoonAz), bits(r.MoonAlt), bits(r.MoonPhase)}
		if seen[k] {
			continue
		}
		seen[k] = true
		if !(r.MoonAlt > s.cfg.Horizon) {
			continue
		}
		x, ok := index[r.MJD]
		if !ok {
			return &LookupError{Table: "moon", MJD: r.MJD}
		}
		res.Moon = append(res.Moon, Moon{
			Alt:  r.MoonAlt,
			Az:   r.MoonAz,
			Step: x,
			MJD:  r.MJD,
		})
		if !math.IsNaN(r.MoonPhase) {
			sum += r.MoonPhase
			n++
		}
	}
	if len(res.Moon) == 0 {
		return nil
	}
	res.MeanPhase = math.NaN()
	if n > 0 {
		res.MeanPhase = sum / float64(n)
	}
	b, err := s.cfg.Phase(res.MeanPhase)
	if err != nil {
		return err
	}
	res.Phase = b
	for i := range res.Moon {
		res.Moon[i].Phase = b.Icon
	}
	return nil
}

// steps returns the sorted distinct timestamps of rows.
func steps(rows []obsrow.Row) []float64 {
	seen := map[float64]bool{}
	st := []float64{}
	for _, r := range rows {
		if !seen[r.MJD] {
			seen[r.MJD] = true
			st = append(st, r.MJD)
		}
	}
	sort.Float64s(st)
	return st
}

// bits keys a float so that all NaNs are equal, as are 0 and -0.
func bits(x float64) uint64 {
	switch {
	case math.IsNaN(x):
		return math.Float64bits(math.NaN())
	case x == 0:
		return 0
	}
	return math.Float64bits(x)
}
