// Public domain.

// Package config loads fieldviz settings.
//
// Settings come from, highest precedence first:
//
//  1. Environment variables, FIELDVIZ_<SECTION>_<KEY>, for example
//     FIELDVIZ_SHAPE_MIN_ALT=30 or FIELDVIZ_LOG_LEVEL=debug
//  2. A YAML file named by the caller
//  3. The defaults in default.yaml, compiled in
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fieldviz/fieldviz/ephem"
	"github.com/fieldviz/fieldviz/internal/export"
	"github.com/fieldviz/fieldviz/internal/shaper"
)

// EnvPrefix starts every environment variable read by Load.
const EnvPrefix = "FIELDVIZ_"

const maxFileSize = 1 << 20

//go:embed default.yaml
var defaultYAML []byte

// Config is the complete fieldviz configuration.
type Config struct {
	Shape    shaper.Config `koanf:"shape"`
	Site     ephem.Site    `koanf:"site"`
	Expand   Expand        `koanf:"expand"`
	Export   Export        `koanf:"export"`
	Priority Priority      `koanf:"priority"`
	Log      Log           `koanf:"log"`
}

// Expand holds schedule expansion cutoffs.
type Expand struct {
	MaxMag     float64 `koanf:"max_mag"`
	MaxAirmass float64 `koanf:"max_airmass"`
}

// Export holds JSON export settings.
type Export struct {
	export.Options `koanf:",squash"`
	Out            string `koanf:"out"`     // root of the per night directories
	Pattern        string `koanf:"pattern"` // glob selecting night files
	Workers        int    `koanf:"workers"`
	Pretty         bool   `koanf:"pretty"` // indent base.json
	Indent         int    `koanf:"indent"`
}

// Priority holds synthetic priority settings.
type Priority struct {
	Repeatable bool   `koanf:"repeatable"`
	Seed       uint64 `koanf:"seed"`
}

// Log holds logger settings.
type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // console or json
}

// Load reads the defaults, then file if it is not empty, then the
// environment.
func Load(file string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}
	if file != "" {
		b, err := readFile(file)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: %s: %w", file, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// envKey maps FIELDVIZ_SHAPE_MIN_ALT to shape.min_alt.  Only the first
// underscore after the prefix separates section from key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + key
}

func readFile(fn string) ([]byte, error) {
	info, err := os.Stat(fn)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config: %s: larger than %d bytes", fn, maxFileSize)
	}
	return os.ReadFile(fn)
}

// Validate checks settings that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if err := c.Shape.Validate(); err != nil {
		return err
	}
	if c.Site.Lat < -90 || c.Site.Lat > 90 {
		return fmt.Errorf("config: site latitude %v out of range", c.Site.Lat)
	}
	if c.Export.Workers < 1 {
		return errors.New("config: export workers must be at least 1")
	}
	if !(c.Expand.MaxAirmass > 1) {
		return fmt.Errorf("config: expand max_airmass %v must exceed 1", c.Expand.MaxAirmass)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}
