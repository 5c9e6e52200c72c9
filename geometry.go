// Package remx prepares object-detection image datasets for training: it
// letterboxes images to a fixed network input size and maps bounding-box
// annotations between the original image's coordinate space and the
// letterboxed/normalized space.
package remx

// The geometry primitives shared by the letterbox resizer and the coordinate
// transforms.

import (
	"math"

	"github.com/pkg/errors"
)

// Size describes image dimensions in pixels plus the channel count.
type Size struct {
	Width    int
	Height   int
	Channels int
}

// NewSize validates the dimensions and returns a three-channel Size.
func NewSize(width, height int) (Size, error) {
	if width <= 0 || height <= 0 {
		return Size{}, errors.Errorf("degenerate size %dx%d", width, height)
	}
	return Size{Width: width, Height: height, Channels: 3}, nil
}

// BBox is an axis-aligned bounding box in corner format. (X1, Y1) is the
// top-left and (X2, Y2) the bottom-right corner. The coordinate space a box
// lives in is determined by the caller; boxes carry no space tag.
type BBox struct {
	X1, Y1, X2, Y2 float64
}

// Width is the box width, X2-X1.
func (b BBox) Width() float64 {
	return b.X2 - b.X1
}

// Height is the box height, Y2-Y1.
func (b BBox) Height() float64 {
	return b.Y2 - b.Y1
}

// CenterBox is a bounding box in center format: center point plus width and
// height.
type CenterBox struct {
	CX, CY, W, H float64
}

// LetterboxGeometry is the scale and padding applied when an image of size
// Original is letterboxed onto a canvas of size Target. It is derived once
// per size pair and consumed by the image resizer and by both directions of
// the coordinate transform, so all of them agree on the same numbers.
type LetterboxGeometry struct {
	Scale    float64 // The uniform scale factor applied to both axes.
	PadW     float64 // Total horizontal padding, both sides combined.
	PadH     float64 // Total vertical padding, both sides combined.
	Original Size    // The source image size.
	Target   Size    // The letterboxed canvas size.
}

// NewLetterboxGeometry derives the letterbox scale and padding for the
// original to target size pair.
//
// The scale pairs the target height against the source width and the target
// width against the source height. Consumers of the letterboxed coordinates
// depend on this cross-axis pairing.
func NewLetterboxGeometry(original, target Size) (LetterboxGeometry, error) {
	if original.Width <= 0 || original.Height <= 0 {
		return LetterboxGeometry{},
				errors.Errorf("degenerate original size %dx%d", original.Width, original.Height)
	}
	if target.Width <= 0 || target.Height <= 0 {
		return LetterboxGeometry{},
				errors.Errorf("degenerate target size %dx%d", target.Width, target.Height)
	}

	scale := math.Min(float64(target.Height)/float64(original.Width),
		float64(target.Width)/float64(original.Height))

	return LetterboxGeometry{
		Scale:    scale,
		PadW:     float64(target.Width) - scale*float64(original.Width),
		PadH:     float64(target.Height) - scale*float64(original.Height),
		Original: original,
		Target:   target,
	}, nil
}

// ScaledWidth is the width of the source image after scaling, before padding.
func (g LetterboxGeometry) ScaledWidth() int {
	return int(math.Round(g.Scale * float64(g.Original.Width)))
}

// ScaledHeight is the height of the source image after scaling, before
// padding.
func (g LetterboxGeometry) ScaledHeight() int {
	return int(math.Round(g.Scale * float64(g.Original.Height)))
}
