package raster

import (
	"math"

	"coaster-viewer/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. World z is up.
type LightConfig struct {
	LightDir  mathutil.Vec3
	ViewDir   mathutil.Vec3
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// DefaultLightDir is the world-space direction towards the light.
var DefaultLightDir = mathutil.Vec3{1, 1, 3}

// DefaultLightConfig returns outdoor lighting for a camera looking along
// viewDir.
func DefaultLightConfig(viewDir mathutil.Vec3) LightConfig {
	lightDir := DefaultLightDir.Normalize()
	viewDir = viewDir.Normalize()
	halfMain := lightDir.Sub(viewDir).Normalize()

	return LightConfig{
		LightDir:  lightDir,
		ViewDir:   viewDir,
		HalfMain:  halfMain,
		Ambient:   0.25,
		Hemi:      0.30,
		Direct:    0.90,
		SpecInt:   0.15,
		SpecPow:   16.0,
		Exposure:  1.0,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a unit face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	// Lambertian (abs for double-sided)
	ndl := math.Abs(normal.Dot(lc.LightDir))

	// sky fill, strongest on faces that point up
	hemi := normal[2]*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := normal.Dot(lc.HalfMain)
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndl*lc.Direct + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// shadeColour lights an sRGB colour and returns it tone-mapped in sRGB.
func (lc *LightConfig) shadeColour(r, g, b uint8, shade float64) (uint8, uint8, uint8) {
	k := shade * lc.Exposure
	return clamp255(math.Pow(ACESTonemap(srgbToLinear[r]*k), lc.InvGamma) * 255),
		clamp255(math.Pow(ACESTonemap(srgbToLinear[g]*k), lc.InvGamma) * 255),
		clamp255(math.Pow(ACESTonemap(srgbToLinear[b]*k), lc.InvGamma) * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
