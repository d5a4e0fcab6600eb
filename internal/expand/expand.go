// Public domain.

// Package expand builds a night's observation table from a field schedule
// and a bright star catalog, computing positions of every field and star
// and of the moon at each scheduled timestep.
package expand

import (
	"fmt"
	"sort"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"go.uber.org/zap"

	"github.com/fieldviz/fieldviz/ephem"
	"github.com/fieldviz/fieldviz/obsrow"
)

// Pointing is one line of a schedule: a field considered at a timestep.
type Pointing struct {
	FieldID   string
	RA, Dec   float64 // field center, degrees
	MJD       float64
	Scheduled bool
}

// CatalogStar is a bright star.
type CatalogStar struct {
	Name    string
	RA, Dec float64 // degrees
	VMag    float64
}

// Options control expansion.
type Options struct {
	Site       ephem.Site
	MaxMag     float64 // stars this bright or fainter are left out
	MaxAirmass float64 // rows are observable below this airmass
}

// DefaultOptions, APO with the sky map's star cutoff.
func DefaultOptions() Options {
	return Options{Site: ephem.APO, MaxMag: 4.5, MaxAirmass: 1.5}
}

// Expand computes one row per object per distinct timestep of sched.
//
// Fields are taken in order of ID, each at the position of its first
// pointing.  A field row is marked scheduled only when a scheduled pointing
// exists for that field and timestep.  Stars are kept if brighter than
// MaxMag and above the horizon at some timestep.
func Expand(sched []Pointing, stars []CatalogStar, opt Options, log *zap.Logger) (*obsrow.Table, error) {
	if len(sched) == 0 {
		return nil, fmt.Errorf("expand: empty schedule")
	}
	type key struct {
		id  string
		mjd float64
	}
	scheduled := map[key]bool{}
	fields := map[string]Pointing{}
	stepSet := map[float64]bool{}
	for _, p := range sched {
		if _, ok := fields[p.FieldID]; !ok {
			fields[p.FieldID] = p
		}
		stepSet[p.MJD] = true
		if p.Scheduled {
			scheduled[key{p.FieldID, p.MJD}] = true
		}
	}
	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	steps := make([]float64, 0, len(stepSet))
	for mjd := range stepSet {
		steps = append(steps, mjd)
	}
	sort.Float64s(steps)

	moon := make([]ephem.MoonState, len(steps))
	for i, mjd := range steps {
		moon[i] = ephem.Moon(mjd, opt.Site)
	}
	m := moon[len(moon)/2]
	log.Info("moon at mid night",
		zap.Float64("mjd", steps[len(steps)/2]),
		zap.String("ra", fmt.Sprintf("%.0s", sexa.FmtRA(unit.RAFromDeg(m.RA)))),
		zap.String("dec", fmt.Sprintf("%.0s", sexa.FmtAngle(unit.AngleFromDeg(m.Dec)))),
		zap.Float64("phase", m.Phase))

	t := obsrow.New(obsrow.ColID, obsrow.ColType, obsrow.ColMJD,
		obsrow.ColAlt, obsrow.ColAz, obsrow.ColAirmass,
		obsrow.ColMoonRA, obsrow.ColMoonDec, obsrow.ColMoonAlt,
		obsrow.ColMoonAz, obsrow.ColMoonSep, obsrow.ColMoonPhase,
		obsrow.ColMag, obsrow.ColRisen, obsrow.ColScheduled,
		obsrow.ColObservable)
	t.Rows = make([]obsrow.Row, 0, (len(ids)+len(stars))*len(steps))

	track := func(id, typ string, ra, dec, mag float64) []obsrow.Row {
		rows := make([]obsrow.Row, len(steps))
		for i, mjd := range steps {
			r := obsrow.Row{
				ID:         id,
				Type:       typ,
				MJD:        mjd,
				MoonRA:     moon[i].RA,
				MoonDec:    moon[i].Dec,
				MoonAlt:    moon[i].Alt,
				MoonAz:     moon[i].Az,
				MoonPhase:  moon[i].Phase,
				MoonSep:    ephem.Sep(ra, dec, moon[i].RA, moon[i].Dec),
				Mag:        mag,
				Scheduled:  typ == obsrow.Field && scheduled[key{id, mjd}],
				Priority:   obsrow.Unset,
				Completion: obsrow.Unset,
			}
			r.Alt, r.Az = ephem.Horizontal(ra, dec, mjd, opt.Site)
			r.Airmass = ephem.Airmass(r.Alt)
			r.Risen = r.Alt > 0
			r.Observable = r.Airmass > 0 && r.Airmass < opt.MaxAirmass
			rows[i] = r
		}
		return rows
	}

	for _, id := range ids {
		f := fields[id]
		t.Rows = append(t.Rows, track(id, obsrow.Field, f.RA, f.Dec, obsrow.NoMag)...)
	}
	var nStars int
	for _, s := range stars {
		if !(s.VMag < opt.MaxMag) {
			continue
		}
		rows := track(s.Name, obsrow.Star, s.RA, s.Dec, s.VMag)
		if !anyRisen(rows) {
			continue
		}
		t.Rows = append(t.Rows, rows...)
		nStars++
	}
	log.Info("expanded schedule",
		zap.Int("fields", len(ids)),
		zap.Int("stars", nStars),
		zap.Int("steps", len(steps)),
		zap.Int("scheduled", len(scheduled)))
	return t, nil
}

func anyRisen(rows []obsrow.Row) bool {
	for _, r := range rows {
		if r.Risen {
			return true
		}
	}
	return false
}
