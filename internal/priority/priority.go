// Public domain.

// Package priority assigns synthetic scheduling priorities and completion
// percentages to the fields of an observation table, for exercising the
// sky map before real scheduler output is available.
package priority

import (
	"sort"
	"time"

	xrand "golang.org/x/exp/rand"

	"github.com/fieldviz/fieldviz/obsrow"
)

// Levels is the number of priority levels.  Priority 0 is highest.
const Levels = 6

// Rand is the part of a random source Assign uses.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Source returns the random source for one night.  In repeatable mode
// every night starts from seed, otherwise the clock seeds it.
func Source(repeatable bool, seed uint64) *xrand.Rand {
	rnd := xrand.New(&xrand.PCGSource{})
	if !repeatable {
		seed = uint64(time.Now().UnixNano())
	}
	rnd.Seed(seed)
	return rnd
}

// Assign returns a copy of t with priority and completion set.
//
// Each distinct field gets a priority drawn uniformly from 0..Levels-1 and
// a completion drawn uniformly from [0, 100).  Fields scheduled at any
// timestep get priority 0.  All rows of a field share its values.  Star rows
// get obsrow.Unset for both.
//
// Fields are visited in sorted order of ID so a given random sequence
// always produces the same assignment.
func Assign(t *obsrow.Table, rnd Rand) (*obsrow.Table, error) {
	if err := t.CheckSchema(obsrow.ColID, obsrow.ColType, obsrow.ColScheduled); err != nil {
		return nil, err
	}
	type pc struct {
		p int
		c float64
	}
	sched := map[string]bool{}
	for _, r := range t.Rows {
		if r.Type == obsrow.Field && r.Scheduled {
			sched[r.ID] = true
		}
	}
	var ids []string
	seen := map[string]bool{}
	for _, r := range t.Rows {
		if r.Type == obsrow.Field && !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	sort.Strings(ids)
	byID := make(map[string]pc, len(ids))
	for _, id := range ids {
		v := pc{rnd.Intn(Levels), rnd.Float64() * 100}
		if sched[id] {
			// scheduled fields are always top priority
			v.p = 0
		}
		byID[id] = v
	}

	out := t.Clone()
	out.AddColumn(obsrow.ColPriority)
	out.AddColumn(obsrow.ColCompletion)
	for i := range out.Rows {
		r := &out.Rows[i]
		if v, ok := byID[r.ID]; ok && r.Type == obsrow.Field {
			r.Priority, r.Completion = v.p, v.c
		} else {
			r.Priority, r.Completion = obsrow.Unset, obsrow.Unset
		}
	}
	return out, nil
}
