// Public domain.

package ephem_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/fieldviz/fieldviz/ephem"
)

// Meeus, Astronomical Algorithms, example 13.b.  Venus from the US Naval
// Observatory, 1987 April 10, 19h21m UT.
func TestHorizontal(t *testing.T) {
	usno := ephem.Site{Lat: 38.921389, Lon: -77.065556}
	ra := (23 + 9/60. + 16.641/3600) * 15
	dec := -(6 + 43/60. + 11.61/3600)
	alt, az := ephem.Horizontal(ra, dec, 46895.80625, usno)
	if math.Abs(alt-15.1249) > 1e-3 {
		t.Fatal("alt", alt)
	}
	if math.Abs(az-248.0337) > 1e-3 {
		t.Fatal("az", az)
	}
}

// Meeus examples 47.a and 48.a, 1992 April 12, 0h TD.
func TestMoon(t *testing.T) {
	m := ephem.Moon(48724, ephem.APO)
	switch {
	case math.Abs(m.RA-134.688470) > 1e-3:
		t.Fatal("RA", m.RA)
	case math.Abs(m.Dec-13.768368) > 1e-3:
		t.Fatal("Dec", m.Dec)
	case math.Abs(m.Distance-368409.7) > 1:
		t.Fatal("Distance", m.Distance)
	case math.Abs(m.Phase-.68) > .01:
		t.Fatal("Phase", m.Phase)
	case m.Az < 0 || m.Az >= 360:
		t.Fatal("Az", m.Az)
	}
}

func TestSep(t *testing.T) {
	var tcs = []struct {
		ra1, dec1, ra2, dec2, sep float64
	}{
		// Meeus example 17.a, Arcturus and Spica
		{213.9154, 19.1825, 201.2983, -11.1614, 32.7930},
		{10, 20, 10, 20, 0},
		{0, 90, 180, -90, 180},
		{359.5, 0, .5, 0, 1},
	}
	for _, tc := range tcs {
		if s := ephem.Sep(tc.ra1, tc.dec1, tc.ra2, tc.dec2); math.Abs(s-tc.sep) > 1e-3 {
			t.Errorf("Sep(%v, %v, %v, %v) = %v, want %v",
				tc.ra1, tc.dec1, tc.ra2, tc.dec2, s, tc.sep)
		}
	}
}

func TestGalToEq(t *testing.T) {
	var tcs = []struct {
		l, b, ra, dec float64
	}{
		{0, 0, 266.405, -28.936}, // galactic center
		{0, 90, 192.859, 27.128}, // north galactic pole
		{180, 0, 86.405, 28.936}, // anticenter
	}
	for _, tc := range tcs {
		ra, dec := ephem.GalToEq(tc.l, tc.b)
		dra := math.Abs(ra-tc.ra) * math.Cos(tc.dec*math.Pi/180)
		if dra > .02 || math.Abs(dec-tc.dec) > .02 {
			t.Errorf("GalToEq(%v, %v) = %v, %v, want %v, %v",
				tc.l, tc.b, ra, dec, tc.ra, tc.dec)
		}
	}
}

func ExampleAirmass() {
	fmt.Printf("%.3f\n", ephem.Airmass(90))
	fmt.Printf("%.3f\n", ephem.Airmass(30))
	// Output:
	// 1.000
	// 2.000
}
