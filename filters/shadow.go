package filters

import (
	"fmt"
	"math"
)

// maxShadowDistEMU bounds outerShdw dist to what PowerPoint reliably
// accepts (signed 32-bit EMU).
const maxShadowDistEMU = 2147483647

// blurExtentFactor: the visual extent of a gaussian blur is roughly twice
// its standard deviation.
const blurExtentFactor = 2.0

// shadowSpec describes one directional black drop shadow at 50% opacity.
// Both the feOffset primitive and the Service's inline feDropShadow path
// generate through it so the two stay byte-compatible.
type shadowSpec struct {
	DX, DY float64 // displacement in px
	StdDev float64 // gaussian std deviation in px, 0 for hard shadow
}

// distance returns the Euclidean displacement norm in px.
func (s shadowSpec) distance() float64 {
	return math.Hypot(s.DX, s.DY)
}

// fragment renders the outerShdw markup. Distance is clamped to the target
// maximum; direction is atan2(dy,dx) in 60000ths of a degree (0 = right).
func (s shadowSpec) fragment(u UnitConverter) (string, int64, int64) {
	dist := u.ToEMU(s.distance())
	if dist > maxShadowDistEMU {
		dist = maxShadowDistEMU
	}
	dir := u.Radians(math.Atan2(s.DY, s.DX))
	blurRad := u.ToEMU(s.StdDev * blurExtentFactor)

	frag := fmt.Sprintf(
		`<a:outerShdw blurRad="%d" dist="%d" dir="%d" algn="ctr"><a:srgbClr val="000000"><a:alpha val="50000"/></a:srgbClr></a:outerShdw>`,
		blurRad, dist, dir)
	return frag, dist, dir
}
