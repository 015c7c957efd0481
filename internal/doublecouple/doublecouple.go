// Package doublecouple derives the auxiliary nodal plane and the principal
// stress axes of a double-couple source from a single strike/dip/rake
// triple.
//
// Vectors use north/east/down components (Aki & Richards convention).
// The tension axis bisects the fault normal and slip directions; the
// pressure axis bisects the normal and the reversed slip.
package doublecouple

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/quake-data/focalmech/internal/units"
)

// Plane is a fault plane orientation in degrees. Strike is in [0, 360),
// dip in [0, 90], rake in (-180, 180].
type Plane struct {
	Strike float64
	Dip    float64
	Rake   float64
}

// Axis is a principal axis orientation in degrees. Plunge is measured
// downward from horizontal, so it is always in [0, 90].
type Axis struct {
	Azimuth float64
	Plunge  float64
}

// Solution couples both nodal planes of a double couple with its tension
// and pressure axes. Plane1 is the input plane unchanged.
type Solution struct {
	Plane1 Plane
	Plane2 Plane
	T      Axis
	P      Axis
}

// Decompose computes the full double-couple geometry for the given fault
// plane. Angles are in degrees.
func Decompose(strike, dip, rake float64) Solution {
	normal := normalVector(strike, dip)
	slip := slipVector(strike, dip, rake)

	t := mat.NewVecDense(3, nil)
	t.AddVec(normal, slip)
	t.ScaleVec(1/math.Sqrt2, t)

	p := mat.NewVecDense(3, nil)
	p.SubVec(normal, slip)
	p.ScaleVec(1/math.Sqrt2, p)

	return Solution{
		Plane1: Plane{Strike: units.NormalizeAzimuth(strike), Dip: dip, Rake: rake},
		// The auxiliary plane's normal is the slip direction and vice versa.
		Plane2: planeFromVectors(slip, normal),
		T:      axisFromVector(t),
		P:      axisFromVector(p),
	}
}

// normalVector returns the unit normal of the fault plane (hanging-wall
// side up, so the down component is non-positive for dips below 90).
func normalVector(strike, dip float64) *mat.VecDense {
	phi := radians(strike)
	delta := radians(dip)
	return mat.NewVecDense(3, []float64{
		-math.Sin(delta) * math.Sin(phi),
		math.Sin(delta) * math.Cos(phi),
		-math.Cos(delta),
	})
}

// slipVector returns the unit slip direction of the hanging wall.
func slipVector(strike, dip, rake float64) *mat.VecDense {
	phi := radians(strike)
	delta := radians(dip)
	lambda := radians(rake)
	return mat.NewVecDense(3, []float64{
		math.Cos(lambda)*math.Cos(phi) + math.Sin(lambda)*math.Cos(delta)*math.Sin(phi),
		math.Cos(lambda)*math.Sin(phi) - math.Sin(lambda)*math.Cos(delta)*math.Cos(phi),
		-math.Sin(lambda) * math.Sin(delta),
	})
}

// planeFromVectors recovers strike/dip/rake from a plane's normal and slip
// vectors. Both descriptions of a plane are valid; the normal is flipped
// upward first so the recovered dip lands in [0, 90].
func planeFromVectors(normal, slip *mat.VecDense) Plane {
	nN, nE, nD := normal.AtVec(0), normal.AtVec(1), normal.AtVec(2)
	sN, sE, sD := slip.AtVec(0), slip.AtVec(1), slip.AtVec(2)
	if nD > 0 {
		nN, nE, nD = -nN, -nE, -nD
		sN, sE, sD = -sN, -sE, -sD
	}

	delta := math.Acos(clamp(-nD, -1, 1))
	phi := math.Atan2(-nN, nE)

	sinDelta := math.Sin(delta)
	if sinDelta < 1e-12 {
		// Horizontal plane: strike is arbitrary, keep phi from atan2 and
		// measure rake against it.
		sinDelta = 1e-12
	}
	cosLambda := sN*math.Cos(phi) + sE*math.Sin(phi)
	sinLambda := -sD / sinDelta
	lambda := math.Atan2(sinLambda, cosLambda)

	return Plane{
		Strike: units.NormalizeAzimuth(degrees(phi)),
		Dip:    degrees(delta),
		Rake:   degrees(lambda),
	}
}

// axisFromVector converts a (not necessarily unit) axis vector to an
// azimuth/plunge pair, flipping the vector downward first.
func axisFromVector(v *mat.VecDense) Axis {
	n, e, d := v.AtVec(0), v.AtVec(1), v.AtVec(2)
	if d < 0 {
		n, e, d = -n, -e, -d
	}
	norm := mat.Norm(v, 2)
	if norm == 0 {
		return Axis{}
	}
	return Axis{
		Azimuth: units.NormalizeAzimuth(degrees(math.Atan2(e, n))),
		Plunge:  degrees(math.Asin(clamp(d/norm, -1, 1))),
	}
}

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }
func degrees(rad float64) float64 { return rad * 180.0 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
