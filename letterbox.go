package remx

// Aspect-ratio preserving resize onto a constant-fill canvas.

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// DefaultFill is the grey used for letterbox padding. The value matches the
// border fill expected by the YOLO training pipelines that consume these
// datasets.
var DefaultFill = color.NRGBA{R: 114, G: 114, B: 114, A: 255}

// Letterbox scales img uniformly by the shared letterbox geometry and centers
// the result on a canvas of size target filled with fill. When the padding on
// an axis has an odd remainder, the extra pixel goes to the right/bottom
// side.
func Letterbox(img image.Image, target Size, fill color.Color,
		filter imaging.ResampleFilter) (*image.NRGBA, error) {

	bounds := img.Bounds()
	original, err := NewSize(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, errors.Wrap(err, "letterbox source")
	}

	geom, err := NewLetterboxGeometry(original, target)
	if err != nil {
		return nil, err
	}

	resized := imaging.Resize(img, geom.ScaledWidth(), geom.ScaledHeight(), filter)
	canvas := imaging.New(target.Width, target.Height, fill)

	return imaging.PasteCenter(canvas, resized), nil
}

// LetterboxDefault letterboxes with the default grey fill and linear
// interpolation.
func LetterboxDefault(img image.Image, target Size) (*image.NRGBA, error) {
	return Letterbox(img, target, DefaultFill, imaging.Linear)
}
