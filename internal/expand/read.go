// Public domain.

package expand

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fieldviz/fieldviz/ephem"
)

// Accepted header names, first match wins.
var (
	schedFieldID   = []string{"fieldID", "field_id", "field_pk"}
	schedRA        = []string{"racen", "ra"}
	schedDec       = []string{"deccen", "dec"}
	schedMJD       = []string{"mjdExpStart", "mjd"}
	schedScheduled = []string{"scheduled"}

	catName = []string{"name", "DM"}
	catRA   = []string{"ra", "RAdeg", "RA"}
	catDec  = []string{"dec", "DEdeg", "Dec"}
	catMag  = []string{"vmag", "Vmag"}
	catGLon = []string{"GLON", "glon"}
	catGLat = []string{"GLAT", "glat"}
)

// ReadScheduleFile reads a schedule CSV file.
func ReadScheduleFile(fn string) ([]Pointing, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ReadSchedule(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return p, nil
}

// ReadSchedule reads a schedule with columns for field ID, field center,
// timestep MJD and an optional scheduled flag.
func ReadSchedule(r io.Reader) ([]Pointing, error) {
	var ps []Pointing
	want := [][]string{schedFieldID, schedRA, schedDec, schedMJD, schedScheduled}
	err := readCSV(r, want,
		func(have []bool) error { return need(want, have, 0, 1, 2, 3) },
		func(v []string) (err error) {
			p := Pointing{FieldID: v[0]}
			if p.RA, err = strconv.ParseFloat(v[1], 64); err != nil {
				return err
			}
			if p.Dec, err = strconv.ParseFloat(v[2], 64); err != nil {
				return err
			}
			if p.MJD, err = strconv.ParseFloat(v[3], 64); err != nil {
				return err
			}
			if v[4] != "" {
				if p.Scheduled, err = strconv.ParseBool(v[4]); err != nil {
					return err
				}
			}
			ps = append(ps, p)
			return nil
		})
	return ps, err
}

// ReadCatalogFile reads a star catalog CSV file.
func ReadCatalogFile(fn string) ([]CatalogStar, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return s, nil
}

// ReadCatalog reads a star catalog with columns for name, position in
// degrees and visual magnitude.  Position is J2000 RA and Dec, or galactic
// GLON and GLAT when RA and Dec are absent.  Stars with no magnitude are
// skipped.
func ReadCatalog(r io.Reader) ([]CatalogStar, error) {
	var cat []CatalogStar
	var galactic bool
	want := [][]string{catName, catRA, catDec, catMag, catGLon, catGLat}
	err := readCSV(r, want,
		func(have []bool) error {
			if err := need(want, have, 0, 3); err != nil {
				return err
			}
			if have[1] && have[2] {
				return nil
			}
			galactic = true
			if err := need(want, have, 4, 5); err != nil {
				return fmt.Errorf("no ra, dec or galactic position: %w", err)
			}
			return nil
		},
		func(v []string) error {
			if strings.TrimSpace(v[3]) == "" {
				return nil
			}
			s := CatalogStar{Name: strings.TrimSpace(v[0])}
			pos := v[1:3]
			if galactic {
				pos = v[4:6]
			}
			x, err := parseFloats(pos[0], pos[1], v[3])
			if err != nil {
				return err
			}
			s.RA, s.Dec, s.VMag = x[0], x[1], x[2]
			if galactic {
				s.RA, s.Dec = ephem.GalToEq(x[0], x[1])
			}
			cat = append(cat, s)
			return nil
		})
	return cat, err
}

func parseFloats(ss ...string) ([]float64, error) {
	x := make([]float64, len(ss))
	for i, s := range ss {
		var err error
		if x[i], err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return nil, err
		}
	}
	return x, nil
}

var errNoHeader = errors.New("no header line")

// need returns an error naming the first of cols missing from have.
func need(want [][]string, have []bool, cols ...int) error {
	for _, c := range cols {
		if !have[c] {
			return fmt.Errorf("missing column %q", want[c][0])
		}
	}
	return nil
}

// readCSV locates wanted columns by header name, passes which were found
// to check, and calls rec with their values for each record.  Values of
// missing columns are "".
func readCSV(r io.Reader, want [][]string, check func(have []bool) error, rec func([]string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	head, err := cr.Read()
	if err == io.EOF {
		return errNoHeader
	}
	if err != nil {
		return err
	}
	idx := make([]int, len(want))
	have := make([]bool, len(want))
	for i, names := range want {
		idx[i] = -1
	find:
		for _, n := range names {
			for j, h := range head {
				if strings.TrimSpace(h) == n {
					idx[i] = j
					break find
				}
			}
		}
		have[i] = idx[i] >= 0
	}
	if err := check(have); err != nil {
		return err
	}
	v := make([]string, len(want))
	for line := 2; ; line++ {
		f, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		for i, j := range idx {
			v[i] = ""
			if j >= 0 && j < len(f) {
				v[i] = f[j]
			}
		}
		if err := rec(v); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}
