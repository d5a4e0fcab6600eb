// Public domain.

package vizprog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/fieldviz/fieldviz/internal/export"
	"github.com/fieldviz/fieldviz/obsrow"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCommand(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--log-level", "warn"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "-v")
	require.NoError(t, err)
	assert.Equal(t, versionString+"\n"+copyrightString+"\n", out)
}

func writeFile(t *testing.T, dir, name, s string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(s), 0o644))
	return fn
}

const schedule = `fieldID,racen,deccen,mjdExpStart,scheduled
7,10,85,59418.15,False
7,10,85,59418.2,True
7,10,85,59418.25,False
20,250,30,59418.15,False
20,250,30,59418.2,False
20,250,30,59418.25,True
`

const catalog = `name,ra,dec,vmag
Polaris,37.95,89.26,2.0
faint,37.95,89.26,6.0
`

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	sched := writeFile(t, dir, "schedule.csv", schedule)
	cat := writeFile(t, dir, "stars.csv", catalog)
	expanded := filepath.Join(dir, "expanded.csv")
	night := filepath.Join(dir, "mjd-59418-sdss-simple-expanded-priority.csv")

	_, err := run(t, "expand", "-s", sched, "-c", cat, "-o", expanded)
	require.NoError(t, err)
	tab, err := obsrow.ReadFile(expanded)
	require.NoError(t, err)
	assert.Len(t, tab.Rows, 9)

	_, err = run(t, "priority", "-r", "--seed", "5", expanded, night)
	require.NoError(t, err)
	tab, err = obsrow.ReadFile(night)
	require.NoError(t, err)
	assert.True(t, tab.Has(obsrow.ColPriority))

	// standard output form
	out, err := run(t, "shape", night)
	require.NoError(t, err)
	r := gjson.Parse(out)
	assert.NotEmpty(t, r.Get("fields").Array())
	assert.Len(t, r.Get("stars").Array(), 3)
	assert.True(t, r.Get("phase").Exists())

	shaped := filepath.Join(dir, "shaped")
	_, err = run(t, "shape", "-o", shaped, night)
	require.NoError(t, err)
	for _, fn := range []string{export.FieldsFile, export.StarsFile, export.MoonFile} {
		assert.FileExists(t, filepath.Join(shaped, fn))
	}

	jsonDir := filepath.Join(dir, "json")
	_, err = run(t, "export", "-q", "--in", dir, "-o", jsonDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(jsonDir, "59418", export.FieldsFile))

	cal := filepath.Join(dir, "calendar.csv")
	_, err = run(t, "calendar", "-o", cal, night)
	require.NoError(t, err)
	b, err := os.ReadFile(cal)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "0,59418,"))

	out, err = run(t, "calendar", night)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gjson.Get(out, "0.nFields").Int())
}

func TestBaseCommand(t *testing.T) {
	dir := t.TempDir()
	chart := writeFile(t, dir, "chart.json", `{"config": {}, "hconcat": [{"data": {"name": "data-1"}}],
"$schema": "s", "datasets": {"data-1": [{"fS": "Available"}]}}`)
	base := filepath.Join(dir, "base.json")
	_, err := run(t, "base", "-o", base, chart)
	require.NoError(t, err)
	b, err := os.ReadFile(base)
	require.NoError(t, err)
	assert.Equal(t, "dataFields", gjson.GetBytes(b, "hconcat.0.data.name").String())
}

func TestMoonCommand(t *testing.T) {
	out, err := run(t, "moon", "48724")
	require.NoError(t, err)
	assert.Contains(t, out, "site      apo")
	assert.Contains(t, out, "half")

	_, err = run(t, "moon", "tonight")
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	_, err := run(t, "shape", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "--log-format", "xml", "moon", "48724")
	assert.Error(t, err)

	_, err = run(t, "export", "--in", t.TempDir())
	assert.ErrorContains(t, err, "no files matching")
}
