// Public domain.

package calendar_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldviz/fieldviz/calendar"
	"github.com/fieldviz/fieldviz/obsrow"
)

func night(mjd0 float64) *obsrow.Table {
	t := obsrow.New(obsrow.AllColumns()...)
	// four slots, moon rising for the last two
	for i, moonAlt := range []float64{-5, -1, 3, 8} {
		mjd := mjd0 + float64(i)*.1
		t.Rows = append(t.Rows,
			obsrow.Row{ID: "1", Type: obsrow.Field, MJD: mjd, MoonAlt: moonAlt, MoonPhase: .4},
			obsrow.Row{ID: "2", Type: obsrow.Field, MJD: mjd, MoonAlt: moonAlt, MoonPhase: .4},
			obsrow.Row{ID: "HR 1", Type: obsrow.Star, MJD: mjd, MoonAlt: moonAlt, MoonPhase: .6},
		)
	}
	return t
}

func TestSummarize(t *testing.T) {
	n, err := calendar.Summarize(night(59418.1))
	require.NoError(t, err)
	assert.Equal(t, 59418, n.MJD)
	assert.Equal(t, "2021-07-23T00:00:00", n.DateStr)
	assert.Equal(t, 2021, n.Year)
	assert.Equal(t, 7, n.MonthInt)
	assert.Equal(t, "July", n.MonthName)
	assert.Equal(t, 23, n.DayOfMonth)
	assert.Equal(t, 204, n.DayOfYear)
	assert.Equal(t, 2, n.NFields)
	assert.InDelta(t, (.4+.4+.6)/3, n.MoonPhase, 1e-12)
	assert.InDelta(t, 7.2, n.ObsHours, 1e-6)
	assert.InDelta(t, 2.4, n.SlotHours, 1e-6)
	assert.InDelta(t, 4.8, n.MoonHours, 1e-6)
	assert.InDelta(t, 4.8/7.2, n.BrightPercent, 1e-6)
	assert.InDelta(t, 1-4.8/7.2, n.DarkPercent, 1e-6)
}

func TestSummarizeSingleSlot(t *testing.T) {
	tab := night(59418.1)
	tab.Rows = tab.Rows[:3]
	n, err := calendar.Summarize(tab)
	require.NoError(t, err)
	assert.Zero(t, n.ObsHours)
	assert.Zero(t, n.BrightPercent)
	assert.Equal(t, 1., n.DarkPercent)
}

func TestSummarizeMoonAllNight(t *testing.T) {
	tab := night(59418.1)
	for i := range tab.Rows {
		tab.Rows[i].MoonAlt = 10
	}
	n, err := calendar.Summarize(tab)
	require.NoError(t, err)
	// four slots of moon over three slot spans of observing
	assert.InDelta(t, 9.6, n.MoonHours, 1e-6)
	assert.InDelta(t, 9.6/7.2, n.BrightPercent, 1e-6)
	assert.InDelta(t, 1-9.6/7.2, n.DarkPercent, 1e-6)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := calendar.Summarize(obsrow.New(obsrow.AllColumns()...))
	assert.ErrorIs(t, err, calendar.ErrEmpty)

	_, err = calendar.Summarize(obsrow.New(obsrow.ColID))
	var se *obsrow.SchemaError
	assert.True(t, errors.As(err, &se))
}

func TestSummarizeFiles(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 7; i++ {
		fn := filepath.Join(dir, "night"+string(rune('a'+i))+".csv")
		require.NoError(t, obsrow.WriteFile(fn, night(59418.1+float64(i))))
		files = append(files, fn)
	}
	files = append(files, filepath.Join(dir, "missing.csv"))

	var got []calendar.Result
	for r := range calendar.SummarizeFiles(files, 3) {
		got = append(got, r)
	}
	require.Len(t, got, len(files))
	for i, r := range got[:7] {
		assert.Equal(t, files[i], r.File)
		require.NoError(t, r.Err)
		assert.Equal(t, 59418+i, r.Night.MJD)
	}
	assert.True(t, errors.Is(got[7].Err, os.ErrNotExist))
}

func TestWrite(t *testing.T) {
	n, err := calendar.Summarize(night(59418.1))
	require.NoError(t, err)

	var js bytes.Buffer
	require.NoError(t, calendar.WriteJSON(&js, []calendar.Night{n}))
	assert.True(t, strings.HasPrefix(js.String(), `[{"mjd":59418,`))

	js.Reset()
	require.NoError(t, calendar.WriteJSON(&js, nil))
	assert.Equal(t, "[]\n", js.String())

	var c bytes.Buffer
	require.NoError(t, calendar.WriteCSV(&c, []calendar.Night{n}))
	lines := strings.Split(strings.TrimSpace(c.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], ",mjd,moonPhase"))
	assert.True(t, strings.HasPrefix(lines[1], "0,59418,"))
	assert.True(t, strings.HasSuffix(lines[1], ",2021-07-23T00:00:00"))
}
