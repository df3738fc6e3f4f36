// Package units converts CSS pixel lengths and degrees into DrawingML
// coordinate units (EMU and 60000ths of a degree).
package units

import "math"

// DrawingML coordinate constants (ECMA-376).
const (
	EMUPerInch   = 914400
	EMUPerPoint  = 12700
	EMUPerPix96  = 9525 // 914400 / 96
	DegreeUnits  = 60000
	FullCircle   = 360 * DegreeUnits // 21600000
	PercentScale = 100000            // thousandths of a percent
)

// Converter turns unit-free SVG numbers (CSS px) into target units.
// The zero value converts at 96 dpi.
type Converter struct {
	DPI float64
}

func (c Converter) dpi() float64 {
	if c.DPI <= 0 {
		return 96
	}
	return c.DPI
}

// ToEMU converts a pixel length to EMU, rounding to the nearest unit.
func (c Converter) ToEMU(px float64) int64 {
	return int64(math.Round(px * EMUPerInch / c.dpi()))
}

// Degrees converts degrees to 60000ths of a degree, normalized to
// [0, FullCircle).
func (c Converter) Degrees(d float64) int64 {
	v := int64(math.Round(d * DegreeUnits))
	v %= FullCircle
	if v < 0 {
		v += FullCircle
	}
	return v
}

// Radians converts radians to 60000ths of a degree, normalized to
// [0, FullCircle).
func (c Converter) Radians(r float64) int64 {
	return c.Degrees(r * 180 / math.Pi)
}

// Percent converts a [0,1] fraction to thousandths of a percent, clamped to
// [0, PercentScale].
func (c Converter) Percent(f float64) int64 {
	v := int64(math.Round(f * PercentScale))
	if v < 0 {
		return 0
	}
	if v > PercentScale {
		return PercentScale
	}
	return v
}
