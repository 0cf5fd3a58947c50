package spline

import (
	"fmt"
	"strings"

	"coaster-viewer/internal/mathutil"
)

// Basis selects the change-of-basis matrix that turns four consecutive
// control points into cubic coefficients (a, b, c, d).
type Basis int

const (
	Linear Basis = iota
	CatmullRom
	BSpline

	numBases
)

// Rows produce a, b, c, d from [q(i-1), q(i), q(i+1), q(i+2)].
var basisMatrices = [numBases]mathutil.Mat4{
	Linear: {
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, -1, 1, 0,
		0, 1, 0, 0,
	},
	CatmullRom: {
		-0.5, 1.5, -1.5, 0.5,
		1.0, -2.5, 2.0, -0.5,
		-0.5, 0.0, 0.5, 0.0,
		0.0, 1.0, 0.0, 0.0,
	},
	BSpline: {
		-1.0 / 6, 0.5, -0.5, 1.0 / 6,
		0.5, -1.0, 0.5, 0.0,
		-0.5, 0.0, 0.5, 0.0,
		1.0 / 6, 2.0 / 3, 1.0 / 6, 0.0,
	},
}

var basisNames = [numBases]string{
	Linear:     "linear",
	CatmullRom: "Catmull-Rom",
	BSpline:    "B-spline",
}

func (b Basis) String() string {
	if b < 0 || b >= numBases {
		return fmt.Sprintf("Basis(%d)", int(b))
	}
	return basisNames[b]
}

// Matrix returns the 4×4 blending matrix. Out-of-range values use Linear.
func (b Basis) Matrix() mathutil.Mat4 {
	if b < 0 || b >= numBases {
		return basisMatrices[Linear]
	}
	return basisMatrices[b]
}

// Next cycles linear → Catmull-Rom → B-spline → linear.
func (b Basis) Next() Basis {
	return (b + 1) % numBases
}

// ParseBasis accepts a basis name, case-insensitively, with or without
// punctuation ("catmullrom", "Catmull-Rom", "bspline").
func ParseBasis(name string) (Basis, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	for b := Basis(0); b < numBases; b++ {
		if strings.ReplaceAll(strings.ToLower(basisNames[b]), "-", "") == key {
			return b, nil
		}
	}
	return Linear, fmt.Errorf("spline: unknown basis %q", name)
}
