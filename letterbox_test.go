package remx

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testRed  = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	testGrey = color.NRGBA{R: 114, G: 114, B: 114, A: 255}
)

// solidImage returns a w x h image uniformly filled with c.
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestLetterbox(t *testing.T) {
	// 100x50 onto 640x640 scaled down to 64x64: scale 0.64, content 64x32, 16 rows of padding
	// above and below.
	src := solidImage(100, 50, testRed)
	target, err := NewSize(64, 64)
	require.NoError(t, err)

	out, err := Letterbox(src, target, DefaultFill, imaging.NearestNeighbor)
	require.NoError(t, err)

	bounds := out.Bounds()
	assert.Equal(t, 64, bounds.Dx(), "canvas width")
	assert.Equal(t, 64, bounds.Dy(), "canvas height")

	assert.Equal(t, testGrey, out.NRGBAAt(0, 0), "corner is padding")
	assert.Equal(t, testGrey, out.NRGBAAt(32, 15), "last row above the content is padding")
	assert.Equal(t, testRed, out.NRGBAAt(32, 16), "first content row")
	assert.Equal(t, testRed, out.NRGBAAt(32, 47), "last content row")
	assert.Equal(t, testGrey, out.NRGBAAt(32, 48), "first row below the content is padding")
}

func TestLetterboxOddRemainder(t *testing.T) {
	// 5x2 onto 5x5 keeps the content at 5x2 and leaves 3 rows of padding. The extra odd row
	// goes to the bottom.
	src := solidImage(5, 2, testRed)
	target, _ := NewSize(5, 5)

	out, err := Letterbox(src, target, DefaultFill, imaging.NearestNeighbor)
	require.NoError(t, err)

	assert.Equal(t, testGrey, out.NRGBAAt(2, 0))
	assert.Equal(t, testRed, out.NRGBAAt(2, 1))
	assert.Equal(t, testRed, out.NRGBAAt(2, 2))
	assert.Equal(t, testGrey, out.NRGBAAt(2, 3))
	assert.Equal(t, testGrey, out.NRGBAAt(2, 4))
}

func TestLetterboxDegenerate(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	target, _ := NewSize(64, 64)

	_, err := Letterbox(src, target, DefaultFill, imaging.Linear)
	assert.Error(t, err, "a zero-size source must be rejected")

	_, err = Letterbox(solidImage(10, 10, testRed), Size{Width: 0, Height: 64}, DefaultFill,
		imaging.Linear)
	assert.Error(t, err, "a zero-size target must be rejected")
}

// TestLetterboxMatchesCoordinateTransform verifies that the image resizer and the forward
// coordinate transform derive the identical scale and padding: the full-image box, mapped into
// letterbox space, lands exactly on the painted content region.
func TestLetterboxMatchesCoordinateTransform(t *testing.T) {
	src := solidImage(100, 50, testRed)
	original, _ := NewSize(100, 50)
	target, _ := NewSize(64, 64)

	out, err := Letterbox(src, target, DefaultFill, imaging.NearestNeighbor)
	require.NoError(t, err)

	geom, err := NewLetterboxGeometry(original, target)
	require.NoError(t, err)

	mapped := geom.Apply([]BBox{{X1: 0, Y1: 0, X2: 100, Y2: 50}})[0]
	assert.Equal(t, BBox{X1: 0, Y1: 16, X2: 64, Y2: 48}, mapped)

	// The mapped box bounds the content: inside is source color, outside is fill.
	assert.Equal(t, testRed, out.NRGBAAt(int(mapped.X1), int(mapped.Y1)))
	assert.Equal(t, testRed, out.NRGBAAt(int(mapped.X2)-1, int(mapped.Y2)-1))
	assert.Equal(t, testGrey, out.NRGBAAt(32, int(mapped.Y1)-1))
	assert.Equal(t, testGrey, out.NRGBAAt(32, int(mapped.Y2)))
}

func TestLetterboxDefault(t *testing.T) {
	target, _ := NewSize(32, 32)
	out, err := LetterboxDefault(solidImage(16, 8, testRed), target)
	require.NoError(t, err)
	assert.Equal(t, 32, out.Bounds().Dx())
	assert.Equal(t, 32, out.Bounds().Dy())
	assert.Equal(t, testGrey, out.NRGBAAt(0, 0))
}
