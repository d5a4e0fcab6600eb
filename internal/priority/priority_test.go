// Public domain.

package priority_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldviz/fieldviz/internal/priority"
	"github.com/fieldviz/fieldviz/obsrow"
)

func table() *obsrow.Table {
	t := obsrow.New(obsrow.ColID, obsrow.ColType, obsrow.ColMJD, obsrow.ColScheduled)
	for _, mjd := range []float64{59418.1, 59418.2} {
		for _, id := range []string{"10", "11", "12", "13", "14", "15", "16", "17"} {
			t.Rows = append(t.Rows, obsrow.Row{
				ID: id, Type: obsrow.Field, MJD: mjd,
				Scheduled: id == "13" && mjd == 59418.2,
			})
		}
		t.Rows = append(t.Rows, obsrow.Row{ID: "HR 1", Type: obsrow.Star, MJD: mjd})
	}
	return t
}

func TestAssign(t *testing.T) {
	in := table()
	out, err := priority.Assign(in, priority.Source(true, 3))
	require.NoError(t, err)
	assert.True(t, out.Has(obsrow.ColPriority))
	assert.True(t, out.Has(obsrow.ColCompletion))
	assert.False(t, in.Has(obsrow.ColPriority), "input modified")

	byID := map[string]obsrow.Row{}
	for _, r := range out.Rows {
		if prev, ok := byID[r.ID]; ok {
			assert.Equal(t, prev.Priority, r.Priority, "field %s", r.ID)
			assert.Equal(t, prev.Completion, r.Completion, "field %s", r.ID)
		}
		byID[r.ID] = r
		if r.Type == obsrow.Star {
			assert.Equal(t, obsrow.Unset, r.Priority)
			assert.Equal(t, float64(obsrow.Unset), r.Completion)
			continue
		}
		assert.GreaterOrEqual(t, r.Priority, 0)
		assert.Less(t, r.Priority, priority.Levels)
		assert.GreaterOrEqual(t, r.Completion, 0.)
		assert.Less(t, r.Completion, 100.)
	}
	assert.Equal(t, 0, byID["13"].Priority, "scheduled field")
}

func TestAssignRepeatable(t *testing.T) {
	a, err := priority.Assign(table(), priority.Source(true, 7))
	require.NoError(t, err)
	b, err := priority.Assign(table(), priority.Source(true, 7))
	require.NoError(t, err)
	assert.Equal(t, a.Rows, b.Rows)
}

func TestAssignSchema(t *testing.T) {
	_, err := priority.Assign(obsrow.New(obsrow.ColID), priority.Source(true, 1))
	var se *obsrow.SchemaError
	assert.True(t, errors.As(err, &se))
}
