// Public domain.

// Package ephem, positions of fixed objects and of the Moon as seen from an
// observing site.
//
// Angles at the package interface are float64 degrees, times are MJD.  UT
// and TT are not distinguished; the difference is about a minute and is
// well under the time resolution of an observing plan.
package ephem

import (
	"math"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	mcoord "github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/moonillum"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/precess"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// MJDOffset is the Julian date of MJD 0.
const MJDOffset = 2400000.5

// equatorial radius of the Earth, km
const earthRadius = 6378.14

const d2r = math.Pi / 180

// Site is an observatory location.  Lon is positive east.
type Site struct {
	Name      string  `koanf:"name"`
	Lat       float64 `koanf:"lat"`       // degrees
	Lon       float64 `koanf:"lon"`       // degrees
	Elevation float64 `koanf:"elevation"` // meters
}

// APO, Apache Point Observatory.
var APO = Site{
	Name:      "apo",
	Lat:       32.780278,
	Lon:       -105.820278,
	Elevation: 2788,
}

// Horizontal computes altitude and azimuth of the equatorial position ra,
// dec at time mjd.  Azimuth is measured from north through east.
func Horizontal(ra, dec, mjd float64, s Site) (alt, az float64) {
	st := sidereal.Apparent(mjd + MJDOffset)
	// meeus takes longitude positive west, returns azimuth from south.
	A, h := mcoord.EqToHz(unit.RA(ra*d2r), unit.AngleFromDeg(dec),
		unit.AngleFromDeg(s.Lat), unit.AngleFromDeg(-s.Lon), st)
	return h.Deg(), norm360(A.Deg() + 180)
}

// Airmass is the plane-parallel airmass, sec z, at altitude alt.  It is
// negative below the horizon.
func Airmass(alt float64) float64 {
	return 1 / math.Sin(alt*d2r)
}

// MoonState is the Moon at an instant.
type MoonState struct {
	RA, Dec  float64 // apparent geocentric, degrees
	Alt, Az  float64 // topocentric, degrees
	Phase    float64 // illuminated fraction
	Distance float64 // km
}

// Moon computes the state of the Moon at mjd for site s.
func Moon(mjd float64, s Site) MoonState {
	jde := mjd + MJDOffset
	λ, β, Δ := moonposition.Position(jde)
	Δψ, Δε := nutation.Nutation(jde)
	ε := nutation.MeanObliquity(jde) + Δε
	sε, cε := math.Sincos(ε.Rad())
	α, δ := mcoord.EclToEq(λ+Δψ, β, sε, cε)

	m := MoonState{
		RA:       norm360(α.Rad() / d2r),
		Dec:      δ.Deg(),
		Distance: Δ,
		Phase:    base.Illuminated(moonillum.PhaseAngle3(jde)),
	}
	m.Alt, m.Az = Horizontal(m.RA, m.Dec, mjd, s)
	// horizontal parallax lowers the topocentric Moon by up to a degree.
	π := math.Asin(earthRadius / Δ)
	m.Alt -= π * math.Cos(m.Alt*d2r) / d2r
	return m
}

// Sep returns the angular separation between two equatorial positions.
func Sep(ra1, dec1, ra2, dec2 float64) float64 {
	u1 := unitVector(ra1, dec1)
	u2 := unitVector(ra2, dec2)
	var x coord.Cart
	x.Cross(&u1, &u2)
	// atan2 stays accurate for both tiny and near-180 separations.
	return math.Atan2(math.Sqrt(x.Square()), u1.Dot(&u2)) / d2r
}

// GalToEq converts galactic longitude and latitude to J2000 right
// ascension and declination.
func GalToEq(l, b float64) (ra, dec float64) {
	α, δ := mcoord.GalToEq(unit.AngleFromDeg(l), unit.AngleFromDeg(b))
	// the galactic pole is defined in B1950 coordinates
	eq := &mcoord.Equatorial{RA: α, Dec: δ}
	b1950 := base.JDEToJulianYear(base.BesselianYearToJDE(1950))
	precess.Position(eq, eq, b1950, 2000, 0, 0)
	return eq.RA.Deg(), eq.Dec.Deg()
}

func unitVector(ra, dec float64) coord.Cart {
	sr, cr := math.Sincos(ra * d2r)
	sd, cd := math.Sincos(dec * d2r)
	return coord.Cart{X: cr * cd, Y: sr * cd, Z: sd}
}

func norm360(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
