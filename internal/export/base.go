// Public domain.

package export

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Dataset names in a chart base.
const (
	DataFields = "dataFields"
	DataStars  = "dataStars"
	DataMoon   = "dataMoon"
)

// ErrNotChart is returned by Base for input that is not a chart
// specification with datasets.
var ErrNotChart = errors.New("export: not a chart specification")

// datasetName guesses a dataset's content from the keys of its first
// record.  Empty means the dataset is kept as is.
func datasetName(first gjson.Result) string {
	switch {
	case first.Get("fS").Exists():
		return DataFields
	case first.Get(gjson.Escape("Stellar Magnitude")).Exists():
		return DataStars
	case first.Get("mAlt").Exists():
		return DataMoon
	}
	return ""
}

// Base strips the data out of a rendered chart specification.
//
// config, hconcat and $schema are kept.  Field, star and moon datasets are
// replaced by empty datasets named dataFields, dataStars and dataMoon, and
// every reference to their generated names is rewritten.  Other datasets,
// such as axis labels, are kept verbatim.  With pp set the output is
// indented by indent spaces.
func Base(vega []byte, pp bool, indent int) ([]byte, error) {
	if !gjson.ValidBytes(vega) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrNotChart)
	}
	datasets := gjson.GetBytes(vega, "datasets")
	if !datasets.IsObject() {
		return nil, fmt.Errorf("%w: no datasets", ErrNotChart)
	}
	out := []byte(`{}`)
	var err error
	for _, key := range []string{"config", "hconcat", "$schema"} {
		v := gjson.GetBytes(vega, gjson.Escape(key))
		if !v.Exists() {
			return nil, fmt.Errorf("%w: no %s", ErrNotChart, key)
		}
		if out, err = sjson.SetRawBytes(out, gjson.Escape(key), []byte(v.Raw)); err != nil {
			return nil, err
		}
	}
	if out, err = sjson.SetRawBytes(out, "datasets", []byte(`{}`)); err != nil {
		return nil, err
	}

	rename := map[string]string{}
	datasets.ForEach(func(k, v gjson.Result) bool {
		name := datasetName(v.Get("0"))
		path := "datasets." + gjson.Escape(k.String())
		if name == "" {
			out, err = sjson.SetRawBytes(out, path, []byte(v.Raw))
		} else {
			rename[k.String()] = name
			out, err = sjson.SetRawBytes(out, "datasets."+name, []byte(`[]`))
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	// longest first so no name is rewritten inside another
	old := make([]string, 0, len(rename))
	for k := range rename {
		old = append(old, k)
	}
	sort.Slice(old, func(i, j int) bool {
		if len(old[i]) != len(old[j]) {
			return len(old[i]) > len(old[j])
		}
		return old[i] < old[j]
	})
	for _, k := range old {
		out = bytes.ReplaceAll(out, []byte(k), []byte(rename[k]))
	}

	if !pp {
		return pretty.Ugly(out), nil
	}
	return pretty.PrettyOptions(out, &pretty.Options{
		Width:  80,
		Prefix: "",
		Indent: strings.Repeat(" ", indent),
	}), nil
}
