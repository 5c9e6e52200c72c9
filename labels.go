package remx

// Corner-format label files: one "class x1 y1 x2 y2" line per annotation, one file per image,
// plain text, whitespace separated.

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LabelRecord is a single annotation line: a class id and a corner-format bounding box.
type LabelRecord struct {
	Box   BBox
	Class string // The class id, kept as its original token.
}

// parseLabelLine parses a "class x1 y1 x2 y2" line. It reports ok=false for lines that do not
// have exactly five whitespace-separated fields or whose coordinates do not parse as floats.
func parseLabelLine(line string) (LabelRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return LabelRecord{}, false
	}

	var v [4]float64
	for i := 0; i < 4; i++ {
		f, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return LabelRecord{}, false
		}
		v[i] = f
	}

	return LabelRecord{
		Box:   BBox{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]},
		Class: fields[0],
	}, true
}

// ReadLabelFile parses the corner-format label file at path, preserving the annotation order.
// Malformed lines are skipped; with warnMalformed they are reported.
func ReadLabelFile(path string, warnMalformed bool) ([]LabelRecord, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	records := make([]LabelRecord, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		record, ok := parseLabelLine(line)
		if !ok {
			if warnMalformed {
				log.Printf("Warning: skipping malformed line %d in %q", i+1, path)
			}
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// WriteLabelFile writes the records to path in corner format, replacing the file contents, one
// record per line in the given order.
func WriteLabelFile(path string, records []LabelRecord) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(file, &err)

	for _, r := range records {
		_, err = fmt.Fprintf(file, "%s %g %g %g %g\n", r.Class, r.Box.X1, r.Box.Y1, r.Box.X2, r.Box.Y2)
		if err != nil {
			return err
		}
	}

	return nil
}

// NormalizeLabels rewrites every corner-format label file in labelDir with coordinates normalized
// to the letterboxed canvas of size target. The native size of each image is looked up in
// imageDir by file name correspondence; labels without a matching image are reported and skipped,
// and the batch continues. Line order and class ids are preserved.
func NormalizeLabels(ctx context.Context, labelDir, imageDir string, target Size,
		warnMalformed bool) error {

	if target.Width <= 0 || target.Height <= 0 {
		return errors.Errorf("degenerate target size %dx%d", target.Width, target.Height)
	}

	return forEachLabelImagePair(ctx, labelDir, ".txt", imageDir,
		func(labelPath, imagePath string) error {
			return normalizeLabelFile(labelPath, imagePath, target, warnMalformed)
		})
}

// normalizeLabelFile rewrites a single label file with normalized coordinates, using the native
// size of the image at imagePath.
func normalizeLabelFile(labelPath, imagePath string, target Size, warnMalformed bool) error {
	cfg, _, err := decodeImageConfig(imagePath)
	if err != nil {
		return errors.Wrapf(err, "failed to probe the image size of %q", imagePath)
	}
	original, err := NewSize(cfg.Width, cfg.Height)
	if err != nil {
		return errors.Wrapf(err, "image %q", imagePath)
	}

	geom, err := NewLetterboxGeometry(original, target)
	if err != nil {
		return err
	}

	records, err := ReadLabelFile(labelPath, warnMalformed)
	if err != nil {
		return err
	}

	boxes := make([]BBox, len(records))
	for i := range records {
		boxes[i] = records[i].Box
	}
	normalized := geom.Normalize(boxes)
	for i := range records {
		records[i].Box = normalized[i]
	}

	return WriteLabelFile(labelPath, records)
}

// ConvertToCenterFormat rewrites every label file in labelDir from corner format
// "class x1 y1 x2 y2" to center format "class cx cy w h". The conversion is exact and preserves
// line order and class ids. The context is checked between files.
func ConvertToCenterFormat(ctx context.Context, labelDir string, warnMalformed bool) error {
	labelFiles, err := filesByExtInDir(labelDir, ".txt")
	if err != nil {
		return err
	}
	log.Printf("Converting %d label files to center format", len(labelFiles))

	for _, path := range labelFiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := convertLabelFileToCenterFormat(path, warnMalformed); err != nil {
			log.Printf("Error while converting, skipping %q: %v", path, err)
			continue
		}
	}

	return nil
}

// convertLabelFileToCenterFormat rewrites the single label file at path in center format.
func convertLabelFileToCenterFormat(path string, warnMalformed bool) (err error) {
	records, err := ReadLabelFile(path, warnMalformed)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(file, &err)

	for _, r := range records {
		c := r.Box.Center()
		_, err = fmt.Fprintf(file, "%s %g %g %g %g\n", r.Class, c.CX, c.CY, c.W, c.H)
		if err != nil {
			return err
		}
	}

	return nil
}
