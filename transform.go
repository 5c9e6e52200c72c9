package remx

// Coordinate transforms between the original image space and the letterboxed
// canvas space, plus corner/center format conversion.

import "math"

// Apply maps boxes from the original image's coordinate space into the
// letterboxed canvas's coordinate space. Each coordinate is scaled and
// shifted by half the total padding; rounding happens once, after the scale.
// The output preserves the input order.
func (g LetterboxGeometry) Apply(boxes []BBox) []BBox {
	out := make([]BBox, len(boxes))
	for i, b := range boxes {
		out[i] = BBox{
			X1: g.forwardX(b.X1),
			Y1: g.forwardY(b.Y1),
			X2: g.forwardX(b.X2),
			Y2: g.forwardY(b.Y2),
		}
	}
	return out
}

// Invert maps boxes from the letterboxed canvas space back to the original
// image space. It is the algebraic inverse of Apply; since each direction
// rounds once, a round trip moves a coordinate by at most one unit.
func (g LetterboxGeometry) Invert(boxes []BBox) []BBox {
	out := make([]BBox, len(boxes))
	for i, b := range boxes {
		out[i] = BBox{
			X1: g.inverseX(b.X1),
			Y1: g.inverseY(b.Y1),
			X2: g.inverseX(b.X2),
			Y2: g.inverseY(b.Y2),
		}
	}
	return out
}

// Normalize maps boxes from the original image space into [0,1] coordinates
// relative to the letterboxed canvas: Apply followed by a division of the
// x coordinates by the canvas width and the y coordinates by its height. No
// further rounding is applied after the division.
func (g LetterboxGeometry) Normalize(boxes []BBox) []BBox {
	w := float64(g.Target.Width)
	h := float64(g.Target.Height)

	out := g.Apply(boxes)
	for i, b := range out {
		out[i] = BBox{X1: b.X1 / w, Y1: b.Y1 / h, X2: b.X2 / w, Y2: b.Y2 / h}
	}
	return out
}

func (g LetterboxGeometry) forwardX(c float64) float64 {
	return math.Round((c + g.PadW/(2*g.Scale)) * g.Scale)
}

func (g LetterboxGeometry) forwardY(c float64) float64 {
	return math.Round((c + g.PadH/(2*g.Scale)) * g.Scale)
}

func (g LetterboxGeometry) inverseX(c float64) float64 {
	return math.Round(c/g.Scale - g.PadW/(2*g.Scale))
}

func (g LetterboxGeometry) inverseY(c float64) float64 {
	return math.Round(c/g.Scale - g.PadH/(2*g.Scale))
}

// Center converts the corner-format box to center format. The conversion is
// exact; callers decide the output precision when serializing.
func (b BBox) Center() CenterBox {
	return CenterBox{
		CX: (b.X1 + b.X2) / 2,
		CY: (b.Y1 + b.Y2) / 2,
		W:  b.X2 - b.X1,
		H:  b.Y2 - b.Y1,
	}
}

// Corners converts the center-format box back to corner format, exactly.
func (c CenterBox) Corners() BBox {
	return BBox{
		X1: c.CX - c.W/2,
		Y1: c.CY - c.H/2,
		X2: c.CX + c.W/2,
		Y2: c.CY + c.H/2,
	}
}
