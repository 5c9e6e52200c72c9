// Prepares object-detection datasets for training: letterbox-resizes images to the network input
// size, normalizes corner-format label files to the letterboxed canvas, converts labels to center
// format, bulk-renames images and exports TFRecords.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	remx "github.com/Adam-Al-Rahman/remx-yolo"
)

var (
	runTask task // The selected task.

	labelDirPath    string // The input/output label directory.
	imageDirPath    string // The input directory with the images.
	imageOutDirPath string // The output directory for resized images.
	recordFilePath  string // The TFRecord output file.
	numShardFiles   int    // The number of TFRecord shard files to create.

	targetWidth   int  // The target canvas width.
	targetHeight  int  // The target canvas height.
	letterbox     bool // Preserve the aspect ratio and pad instead of stretching.
	fillValue     int  // The letterbox padding fill value, applied to every channel.
	warnMalformed bool // Report malformed label lines instead of skipping them silently.

	imageOutEncoding        string // The file type for image outputs.
	imageDownsamplingFilter string // The algorithm to use when downsampling.
	imageUpsamplingFilter   string // The algorithm to use when upsampling.
	imageJPEGQuality        int    // The JPEG quality for JPEG outputs.
)

type task int

// The known tasks.
const (
	Unknown task = iota
	NormalizeLabels
	CenterFormat
	ResizeImages
	RenameImages
	ExportTFRecord
)

func taskFrom(s string) task {
	switch s {
	case "normalize":
		return NormalizeLabels
	case "center":
		return CenterFormat
	case "resize":
		return ResizeImages
	case "rename":
		return RenameImages
	case "tfrecord":
		return ExportTFRecord
	}
	return Unknown
}

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr, "  normalize options:\t-labels <dir> -images <dir>"+
				" [-width -height]")
		_, _ = fmt.Fprintln(os.Stderr, "  center options:\t-labels <dir>")
		_, _ = fmt.Fprintln(os.Stderr, "  resize options:\t-images <dir> -images-out <dir>"+
				" [-width -height -letterbox]")
		_, _ = fmt.Fprintln(os.Stderr, "  rename options:\t-images <dir>")
		_, _ = fmt.Fprintln(os.Stderr, "  tfrecord options:\t-labels <dir> -images <dir>"+
				" -record-out <file> [-num-shards]")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	// Task argument.
	taskName := flag.String("task", "",
		"The `task` to run {normalize, center, resize, rename, tfrecord}")

	// Path arguments.
	flag.StringVar(&labelDirPath, "labels", labelDirPath,
		"The `path` to the label directory (rewritten in place by normalize and center)")
	flag.StringVar(&imageDirPath, "images", imageDirPath,
		"The `path` to the image input directory")
	flag.StringVar(&imageOutDirPath, "images-out", imageOutDirPath,
		"The `path` to the image output directory (resize only)")
	flag.StringVar(&recordFilePath, "record-out", recordFilePath,
		"The TFRecord output file `path` (tfrecord only)")
	flag.IntVar(&numShardFiles, "num-shards", 1,
		"The number of shard files to create (tfrecord only)")

	// Geometry arguments.
	flag.IntVar(&targetWidth, "width", 640, "The target canvas `width` in pixels")
	flag.IntVar(&targetHeight, "height", 640, "The target canvas `height` in pixels")
	flag.BoolVar(&letterbox, "letterbox", true,
		"Preserve the aspect ratio and pad with a constant fill instead of stretching")
	flag.IntVar(&fillValue, "fill", 114,
		"The letterbox padding fill `value`, applied to every channel [0, 255]")
	flag.BoolVar(&warnMalformed, "warn-malformed", false,
		"Report label lines that do not have exactly five fields instead of skipping silently")

	// Image processing arguments.
	flag.StringVar(&imageOutEncoding, "image-enc", "jpg",
		"The `encoding` for output images {jpg, png}")
	flag.StringVar(&imageDownsamplingFilter, "downsample-filter", "box",
		"The filter to use when downsampling an image {nearest, box, linear, gaussian, lanczos}")
	flag.StringVar(&imageUpsamplingFilter, "upsample-filter", "linear",
		"The filter to use when upsampling an image {nearest, box, linear, gaussian, lanczos}")
	flag.IntVar(&imageJPEGQuality, "jpeg-quality", 90,
		"The quality to use when encoding JPEGs [1, 100]")

	// Parse and validate flags.
	flag.Parse()

	runTask = taskFrom(*taskName)
	if runTask == Unknown {
		printUsageAndExit("Unsupported task")
	}

	// Validate path arguments per task.
	switch runTask {
	case NormalizeLabels:
		if labelDirPath == "" || imageDirPath == "" {
			printUsageAndExit("Missing label or image input path argument")
		}
	case CenterFormat:
		if labelDirPath == "" {
			printUsageAndExit("Missing label input path argument")
		}
	case ResizeImages:
		if imageDirPath == "" || imageOutDirPath == "" {
			printUsageAndExit("Missing image input or output path argument")
		}
	case RenameImages:
		if imageDirPath == "" {
			printUsageAndExit("Missing image input path argument")
		}
	case ExportTFRecord:
		if labelDirPath == "" || imageDirPath == "" || recordFilePath == "" {
			printUsageAndExit("Missing label, image or record output path argument")
		}
	}

	// Geometry arguments.
	if targetWidth <= 0 || targetHeight <= 0 {
		printUsageAndExit("Invalid target canvas size")
	}
	if fillValue < 0 || fillValue > 255 {
		printUsageAndExit("Invalid fill value: ", fillValue)
	}

	// Image processing arguments.
	if imageJPEGQuality < 1 || imageJPEGQuality > 100 {
		imageJPEGQuality = 92
		log.Print("Invalid JPEG quality, setting it to ", imageJPEGQuality)
	}

	// Clean path arguments.
	if imageDirPath != "" {
		imageDirPath = filepath.Clean(imageDirPath)
	}
	if imageOutDirPath != "" {
		imageOutDirPath = filepath.Clean(imageOutDirPath)
	}
	if imageDirPath != "" && imageDirPath == imageOutDirPath {
		printUsageAndExit("The image input and output paths cannot be identical")
	}
	if labelDirPath != "" {
		labelDirPath = filepath.Clean(labelDirPath)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	target, err := remx.NewSize(targetWidth, targetHeight)
	if err != nil {
		log.Fatal("Invalid target size: ", err)
	}

	switch runTask {
	case NormalizeLabels:
		err = remx.NormalizeLabels(ctx, labelDirPath, imageDirPath, target, warnMalformed)
	case CenterFormat:
		err = remx.ConvertToCenterFormat(ctx, labelDirPath, warnMalformed)
	case ResizeImages:
		fill := uint8(fillValue)
		err = remx.ResizeImages(ctx, imageDirPath, imageOutDirPath, remx.ResizeOptions{
			Target:             target,
			Letterbox:          letterbox,
			Fill:               color.NRGBA{R: fill, G: fill, B: fill, A: 255},
			DownsamplingFilter: imageDownsamplingFilter,
			UpsamplingFilter:   imageUpsamplingFilter,
			Encoding:           imageOutEncoding,
			JPEGQuality:        imageJPEGQuality,
		})
	case RenameImages:
		err = remx.RenameImages(imageDirPath)
	case ExportTFRecord:
		err = remx.WriteTFRecord(ctx, recordFilePath, labelDirPath, imageDirPath, numShardFiles,
			warnMalformed)
	}
	if err != nil {
		log.Fatal("Task failed: ", err)
	}

	log.Print("Done")
}
