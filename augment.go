package remx

// The boundary to an external augmentation pipeline.

import "image"

// Augmenter applies a paired image and bounding-box transform. Implementations wrap an external
// augmentation library; the augmentation policy (which transforms, what probabilities) is the
// implementation's configuration. The returned boxes must correspond to the input boxes by index.
type Augmenter interface {
	Augment(img image.Image, boxes []BBox) (image.Image, []BBox, error)
}

// AugmenterFunc adapts a function to the Augmenter interface.
type AugmenterFunc func(img image.Image, boxes []BBox) (image.Image, []BBox, error)

// Augment calls f.
func (f AugmenterFunc) Augment(img image.Image, boxes []BBox) (image.Image, []BBox, error) {
	return f(img, boxes)
}
