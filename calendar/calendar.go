// Public domain.

// Package calendar summarizes observing nights for the calendar view: how
// long the night is, how long the moon is up, and how many fields are in
// play.
package calendar

import (
	"errors"
	"math"
	"sort"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/fieldviz/fieldviz/ephem"
	"github.com/fieldviz/fieldviz/obsrow"
)

// Night is the summary of one night.  Field names follow the calendar
// view's data columns.
type Night struct {
	MJD           int     `json:"mjd"`
	MoonPhase     float64 `json:"moonPhase"`
	MoonHours     float64 `json:"moonHours"`
	ObsHours      float64 `json:"obsHours"`
	SlotHours     float64 `json:"slotHours"`
	DarkPercent   float64 `json:"darkPercent"`
	BrightPercent float64 `json:"brightPercent"`
	MonthName     string  `json:"monthName"`
	MonthInt      int     `json:"monthInt"`
	Year          int     `json:"year"`
	DayOfYear     int     `json:"dayOfYear"`
	DayOfMonth    int     `json:"dayOfMonth"`
	NFields       int     `json:"nFields"`
	DateStr       string  `json:"dateStr"`
}

// Required lists the columns Summarize reads.
var Required = []string{
	obsrow.ColID, obsrow.ColType, obsrow.ColMJD,
	obsrow.ColMoonAlt, obsrow.ColMoonPhase,
}

// ErrEmpty is returned for a table with no rows.  A night without any
// timestep has no date.
var ErrEmpty = errors.New("calendar: no rows")

// Summarize computes the summary of the night in t.
//
// The night's MJD is the integer part of the first row's timestamp.  Slot
// length is the mean spacing of distinct timestamps; observable hours span
// the first to the last timestamp.  The moon counts as up for a slot when
// any row of that slot has it above the horizon.
func Summarize(t *obsrow.Table) (Night, error) {
	if err := t.CheckSchema(Required...); err != nil {
		return Night{}, err
	}
	if len(t.Rows) == 0 {
		return Night{}, ErrEmpty
	}
	var n Night
	n.MJD = int(math.Floor(t.Rows[0].MJD))
	d := julian.JDToTime(float64(n.MJD) + ephem.MJDOffset)
	n.DateStr = d.Format("2006-01-02T15:04:05")
	n.Year = d.Year()
	n.MonthInt = int(d.Month())
	n.MonthName = d.Month().String()
	n.DayOfMonth = d.Day()
	n.DayOfYear = d.YearDay()

	fields := map[string]bool{}
	slots := map[float64]bool{}
	moonUp := map[float64]bool{}
	var phaseSum float64
	var phaseN int
	for _, r := range t.Rows {
		if r.Type == obsrow.Field {
			fields[r.ID] = true
		}
		slots[r.MJD] = true
		if r.MoonAlt > 0 {
			moonUp[r.MJD] = true
		}
		if !math.IsNaN(r.MoonPhase) {
			phaseSum += r.MoonPhase
			phaseN++
		}
	}
	n.NFields = len(fields)
	if phaseN > 0 {
		n.MoonPhase = phaseSum / float64(phaseN)
	}

	st := make([]float64, 0, len(slots))
	for mjd := range slots {
		st = append(st, mjd)
	}
	sort.Float64s(st)
	if len(st) > 1 {
		span := st[len(st)-1] - st[0]
		n.ObsHours = span * 24
		// mean of the differences is the span over the number of gaps
		n.SlotHours = span / float64(len(st)-1) * 24
		n.MoonHours = float64(len(moonUp)) * n.SlotHours
		// slot counting overshoots the span by one slot when the moon is
		// up all night, so the fraction may exceed 1.
		n.BrightPercent = n.MoonHours / n.ObsHours
	}
	n.DarkPercent = 1 - n.BrightPercent
	return n, nil
}

// SummarizeFile reads the observation table in fn and summarizes it.
func SummarizeFile(fn string) (Night, error) {
	t, err := obsrow.ReadFile(fn)
	if err != nil {
		return Night{}, err
	}
	return Summarize(t)
}
