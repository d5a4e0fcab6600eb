// Public domain.

package shaper

import (
	"errors"
	"fmt"
	"math"
)

// Bucket maps a range of mean illuminated fraction, Lo <= f < Hi, to a
// named moon phase and the icon drawn for it.
type Bucket struct {
	Name string  `koanf:"name"`
	Icon string  `koanf:"icon"`
	Lo   float64 `koanf:"lo"`
	Hi   float64 `koanf:"hi"`
}

// DefaultBuckets, in increasing order.  The last bucket reaches past 1 so a
// fully illuminated moon lands in it.
var DefaultBuckets = []Bucket{
	{"new", "🌑", 0, .1},
	{"waxing-crescent", "🌒", .1, .3},
	{"half", "🌓", .3, .7},
	{"waxing-gibbous", "🌔", .7, .9},
	{"full", "🌕", .9, 1.01},
}

// Config holds the thresholds and tables used by a Shaper.
type Config struct {
	Horizon   float64  `koanf:"horizon"`    // rows at or below are dropped, degrees
	MinAlt    float64  `koanf:"min_alt"`    // fields below are Unavailable, degrees
	MaxMag    float64  `koanf:"max_mag"`    // stars at or fainter are dropped
	MagStep   float64  `koanf:"mag_step"`   // display magnitude granularity
	UTCOffset float64  `koanf:"utc_offset"` // site local time - UT, hours
	Digits    int      `koanf:"digits"`     // rounding of float columns
	SepDigits int      `koanf:"sep_digits"` // rounding of moon separation
	Buckets   []Bucket `koanf:"buckets"`
}

// DefaultConfig returns the settings used for the APO sky map.
func DefaultConfig() Config {
	return Config{
		Horizon:   -.5,
		MinAlt:    40,
		MaxMag:    4.5,
		MagStep:   1,
		UTCOffset: -6,
		Digits:    6,
		SepDigits: 1,
		Buckets:   append([]Bucket{}, DefaultBuckets...),
	}
}

// Validate checks that c can be used to shape a table.
func (c *Config) Validate() error {
	if !(c.MagStep > 0) {
		return fmt.Errorf("shaper: mag_step must be positive, got %v", c.MagStep)
	}
	if c.Digits < 0 || c.SepDigits < 0 {
		return errors.New("shaper: rounding digits must not be negative")
	}
	if len(c.Buckets) == 0 {
		return errors.New("shaper: no moon phase buckets")
	}
	for i, b := range c.Buckets {
		if !(b.Lo < b.Hi) {
			return fmt.Errorf("shaper: bucket %q is empty", b.Name)
		}
		if i > 0 && b.Lo < c.Buckets[i-1].Hi {
			return fmt.Errorf("shaper: bucket %q overlaps %q",
				b.Name, c.Buckets[i-1].Name)
		}
	}
	return nil
}

// ErrPhaseRange is returned when the mean moon phase of a night falls in no
// bucket.
var ErrPhaseRange = errors.New("shaper: moon phase outside every bucket")

// Phase returns the bucket containing the illuminated fraction f.
func (c *Config) Phase(f float64) (Bucket, error) {
	for _, b := range c.Buckets {
		if b.Lo <= f && f < b.Hi {
			return b, nil
		}
	}
	return Bucket{}, fmt.Errorf("%w: %v", ErrPhaseRange, f)
}

// DisplayMag rounds a magnitude to the nearest multiple of MagStep, ties
// to even.
func (c *Config) DisplayMag(m float64) float64 {
	return math.RoundToEven(m/c.MagStep) * c.MagStep
}

func round(x float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.RoundToEven(x*p) / p
}
