package remx

// Image file helpers and the bulk resize pipeline.

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	// Registers the WebP decoder for decodeImageConfig and loadImage.
	_ "golang.org/x/image/webp"
)

// decodeImageConfig opens the file at path and returns the results of image.DecodeConfig, i.e.
// the image dimensions without a full pixel decode.
func decodeImageConfig(path string) (config image.Config, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer file.Close()

	return image.DecodeConfig(file)
}

// loadImage reads and decodes the image at path and returns the results of image.Decode.
func loadImage(path string) (img image.Image, format string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	return image.Decode(f)
}

// saveImage saves the image to path, encoding it as PNG or JPG, depending on the file extension
// of path.
func saveImage(path string, img image.Image, jpegQuality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	}
	return err
}

// resampleFilterByName resolves a resampling algorithm by its flag name.
func resampleFilterByName(name string) (imaging.ResampleFilter, error) {
	switch name {
	case "nearest":
		return imaging.NearestNeighbor, nil
	case "box":
		return imaging.Box, nil
	case "linear":
		return imaging.Linear, nil
	case "gaussian":
		return imaging.Gaussian, nil
	case "lanczos":
		return imaging.Lanczos, nil
	}
	return imaging.ResampleFilter{}, fmt.Errorf("unknown resampling filter %q", name)
}

// isImagePath reports whether path has a decodable image file extension.
func isImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

// ResizeOptions configures the bulk image resize pipeline.
type ResizeOptions struct {
	Target             Size        // The output canvas size.
	Letterbox          bool        // Preserve the aspect ratio and pad, instead of stretching.
	Fill               color.Color // The letterbox padding fill; nil selects DefaultFill.
	DownsamplingFilter string      // Resampling algorithm when shrinking {nearest, box, linear, gaussian, lanczos}.
	UpsamplingFilter   string      // Resampling algorithm when growing.
	Encoding           string      // Output encoding {jpg, png}.
	JPEGQuality        int         // Quality for JPEG outputs, [1, 100].
}

// ResizeImages resizes every image found under inDir, recursively, and writes the results to
// outDir, mirroring the relative directory layout. With opts.Letterbox the images keep their
// aspect ratio and are centered on a constant-fill canvas; otherwise they are stretched to the
// target size.
//
// Files are independent, so they are processed by a pool of workers. The context is checked
// between files; processing stops early when it is cancelled.
func ResizeImages(ctx context.Context, inDir, outDir string, opts ResizeOptions) error {
	if opts.Target.Width <= 0 || opts.Target.Height <= 0 {
		return fmt.Errorf("degenerate target size %dx%d", opts.Target.Width, opts.Target.Height)
	}

	downsample, err := resampleFilterByName(opts.DownsamplingFilter)
	if err != nil {
		return err
	}
	upsample, err := resampleFilterByName(opts.UpsamplingFilter)
	if err != nil {
		return err
	}

	// Select the output file extension based on the requested encoding.
	var fileExt string
	switch strings.ToLower(opts.Encoding) {
	case "jpg", "jpeg":
		fileExt = ".jpg"
	case "png":
		fileExt = ".png"
	default:
		return fmt.Errorf("unsupported output encoding %q", opts.Encoding)
	}

	fill := opts.Fill
	if fill == nil {
		fill = DefaultFill
	}

	// Collect the input images.
	var paths []string
	err = filepath.WalkDir(inDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && isImagePath(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("Resizing %d images", len(paths))

	// Process images concurrently from a work queue. Limit the number of goroutines in flight,
	// as they load potentially large images into memory.
	numTasks := 2 * runtime.NumCPU()
	if len(paths) < numTasks {
		numTasks = len(paths)
	}
	workQueue := make(chan string, 2*numTasks)
	errs := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(numTasks)
	for i := 0; i < numTasks; i++ {
		go func() {
			defer wg.Done()
			for path := range workQueue {
				err := resizeImageFile(path, inDir, outDir, fileExt, opts, fill, downsample, upsample)
				if err != nil {
					select {
					case errs <- err:
					default:
					}
				}
			}
		}()
	}

	// Feed the work queue, aborting between files when the context is cancelled.
	feedErr := ctx.Err()
	for _, path := range paths {
		if feedErr = ctx.Err(); feedErr != nil {
			break
		}
		workQueue <- path
	}
	close(workQueue)
	wg.Wait()

	close(errs)
	if err := <-errs; err != nil {
		return err
	}
	return feedErr
}

// resizeImageFile resizes the single image at path and writes it below outDir, preserving the
// path relative to inDir.
func resizeImageFile(path, inDir, outDir, fileExt string, opts ResizeOptions, fill color.Color,
		downsample, upsample imaging.ResampleFilter) error {

	img, _, err := loadImage(path)
	if err != nil {
		return fmt.Errorf("failed to load %q: %v", path, err)
	}

	// Select the filter based on the direction of the rescaling operation.
	bounds := img.Bounds()
	filter := downsample
	if opts.Target.Width*opts.Target.Height > bounds.Dx()*bounds.Dy() {
		filter = upsample
	}

	var out image.Image
	if opts.Letterbox {
		out, err = Letterbox(img, opts.Target, fill, filter)
		if err != nil {
			return fmt.Errorf("failed to letterbox %q: %v", path, err)
		}
	} else {
		out = imaging.Resize(img, opts.Target.Width, opts.Target.Height, filter)
	}

	// Mirror the relative layout below outDir.
	rel, err := filepath.Rel(inDir, path)
	if err != nil {
		return err
	}
	outPath := filepath.Join(outDir, rel)
	outPath = outPath[0:len(outPath)-len(filepath.Ext(outPath))] + fileExt
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}

	return saveImage(outPath, out, opts.JPEGQuality)
}
