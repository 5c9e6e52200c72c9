package remx

// TFRecord export of normalized label/image pairs.

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// labelImagePair pairs a label file with its corresponding image file.
type labelImagePair struct {
	labelPath string
	imagePath string
}

// toTFFeatures converts one label/image pair to a TensorFlow Example feature map. The label file
// must already hold normalized [0,1] corner coordinates with numeric class ids, as produced by
// NormalizeLabels.
func toTFFeatures(labelPath, imagePath string, warnMalformed bool) (map[string]interface{}, error) {
	// Get the image width and height.
	img, format, err := decodeImageConfig(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the image metadata: %v", err)
	}

	// Read the image data.
	imgData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the image: %v", err)
	}

	records, err := ReadLabelFile(labelPath, warnMalformed)
	if err != nil {
		return nil, err
	}

	// Prepare the feature map for the per file data.
	f := make(map[string]interface{}, 16)
	f["image/height"] = img.Height
	f["image/width"] = img.Width
	f["image/filename"] = imagePath
	f["image/source_id"] = imagePath
	f["image/encoded"] = imgData
	f["image/format"] = format

	// Prepare the per label data. The coordinates are already relative to the letterboxed
	// canvas, so they are written as-is.
	numLabels := len(records)
	xmins := make([]float32, numLabels)
	ymins := make([]float32, numLabels)
	xmaxs := make([]float32, numLabels)
	ymaxs := make([]float32, numLabels)
	classes := make([]string, numLabels)
	classIDs := make([]int64, numLabels)
	for i, r := range records {
		xmins[i] = float32(r.Box.X1)
		ymins[i] = float32(r.Box.Y1)
		xmaxs[i] = float32(r.Box.X2)
		ymaxs[i] = float32(r.Box.Y2)
		classes[i] = r.Class

		id, err := strconv.ParseInt(r.Class, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric class id %q: %v", r.Class, err)
		}
		classIDs[i] = id
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// WriteTFRecord does a streaming conversion, serialisation and file write of the normalized
// dataset in labelDir/imageDir to one or more TFRecord files stored under recordFilePath (with
// suffixes added when numShards > 1).
//
// Pairs that fail to convert are reported and skipped. The context is checked between files.
func WriteTFRecord(ctx context.Context, recordFilePath, labelDir, imageDir string, numShards int,
		warnMalformed bool) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	if numShards <= 0 {
		numShards = 1
	}

	// Collect the label/image pairs up front so the shard sizes are known.
	var pairs []labelImagePair
	err = forEachLabelImagePair(ctx, labelDir, ".txt", imageDir,
		func(labelPath, imagePath string) error {
			pairs = append(pairs, labelImagePair{labelPath: labelPath, imagePath: imagePath})
			return nil
		})
	if err != nil {
		return err
	}

	fmtShardSuffix := func(idx int) string {
		return fmt.Sprintf("-%05d-of-%05d", idx, numShards)
	}

	var shardFile *os.File
	shardSize := int(math.Ceil(float64(len(pairs)) / float64(numShards)))
	shardIdx := -1

	// Convert and serialise one pair at a time.
	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			if shardFile != nil {
				_ = shardFile.Close()
			}
			return err
		}

		// Check if a new shard file needs to be opened for writing.
		if i%shardSize == 0 {
			shardIdx++

			// Close the previous shard file.
			if shardFile != nil {
				_ = shardFile.Close()
				shardFile = nil
			}

			// Create the new shard file.
			shardPath := recordFilePath
			if numShards > 1 {
				shardPath += fmtShardSuffix(shardIdx)
			}
			f, err := os.Create(shardPath)
			if err != nil {
				return fmt.Errorf("failed to create shard at %q: %v", shardPath, err)
			}
			shardFile = f
		}

		// Convert the pair to an example.
		features, err := toTFFeatures(pair.labelPath, pair.imagePath, warnMalformed)
		if err != nil {
			log.Printf("Failed to convert %q: %v", pair.labelPath, err)
			continue
		}
		tfExample := example.New(features)

		// Write the example.
		if err := writeTFRecordExample(shardFile, tfExample); err != nil {
			log.Print("Failed to write example: ", err)
			break
		}
	}

	if shardFile != nil {
		shardFile.Close()
	}

	return nil
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}
