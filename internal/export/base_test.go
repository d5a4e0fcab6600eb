// Public domain.

package export_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/fieldviz/fieldviz/internal/export"
)

const chart = `{
  "config": {"view": {"stroke": null}},
  "hconcat": [
    {"layer": [
      {"data": {"name": "data-f0f0"}, "mark": "circle"},
      {"data": {"name": "data-5a5a"}, "mark": "point"},
      {"data": {"name": "data-labels"}, "mark": "text"}
    ]},
    {"data": {"name": "data-m00n"}, "mark": "text"}
  ],
  "$schema": "https://vega.github.io/schema/vega-lite/v4.8.1.json",
  "datasets": {
    "data-f0f0": [{"alt": 50, "az": 10, "fS": "Available", "tsid": 0}],
    "data-5a5a": [{"alt": 30, "az": 200, "Stellar Magnitude": 1, "tsid": 0}],
    "data-m00n": [{"mAlt": 20, "mAz": 90, "tsid": 0, "phase": "x"}],
    "data-labels": [{"text": "N", "az": 0}, {"text": "E", "az": 90}]
  },
  "width": 400
}`

func TestBase(t *testing.T) {
	b, err := export.Base([]byte(chart), false, 0)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(b))
	s := string(b)
	assert.NotContains(t, s, "\n")
	for _, old := range []string{"data-f0f0", "data-5a5a", "data-m00n", "width"} {
		assert.NotContains(t, s, old)
	}

	r := gjson.ParseBytes(b)
	var keys []string
	r.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	assert.Equal(t, []string{"config", "hconcat", "$schema", "datasets"}, keys)
	assert.Equal(t, "https://vega.github.io/schema/vega-lite/v4.8.1.json", r.Get(`\$schema`).String())

	for _, name := range []string{export.DataFields, export.DataStars, export.DataMoon} {
		d := r.Get("datasets." + name)
		assert.True(t, d.IsArray(), name)
		assert.Empty(t, d.Array(), name)
	}
	assert.Len(t, r.Get("datasets.data-labels").Array(), 2)
	assert.Equal(t, export.DataFields, r.Get("hconcat.0.layer.0.data.name").String())
	assert.Equal(t, export.DataStars, r.Get("hconcat.0.layer.1.data.name").String())
	assert.Equal(t, "data-labels", r.Get("hconcat.0.layer.2.data.name").String())
	assert.Equal(t, export.DataMoon, r.Get("hconcat.1.data.name").String())
}

func TestBasePretty(t *testing.T) {
	b, err := export.Base([]byte(chart), true, 2)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "{\n  \"config\""))
}

func TestBaseNotChart(t *testing.T) {
	for _, in := range []string{`{`, `{"config": {}}`, `{"datasets": {}, "config": {}}`} {
		_, err := export.Base([]byte(in), false, 0)
		assert.True(t, errors.Is(err, export.ErrNotChart), in)
	}
}
