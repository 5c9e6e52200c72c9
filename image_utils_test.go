package remx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultResizeOptions(t *testing.T) ResizeOptions {
	t.Helper()
	target, err := NewSize(64, 64)
	require.NoError(t, err)
	return ResizeOptions{
		Target:             target,
		Letterbox:          true,
		DownsamplingFilter: "box",
		UpsamplingFilter:   "linear",
		Encoding:           "jpg",
		JPEGQuality:        90,
	}
}

func TestResampleFilterByName(t *testing.T) {
	for _, name := range []string{"nearest", "box", "linear", "gaussian", "lanczos"} {
		_, err := resampleFilterByName(name)
		assert.NoError(t, err, name)
	}
	_, err := resampleFilterByName("bicubic")
	assert.Error(t, err)
}

func TestResizeImages(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(inDir, "train"), 0755))
	writeTestPNG(t, filepath.Join(inDir, "train", "a.png"), 100, 50)
	writeTestPNG(t, filepath.Join(inDir, "b.png"), 20, 20)

	err := ResizeImages(context.Background(), inDir, outDir, defaultResizeOptions(t))
	require.NoError(t, err)

	// The relative layout is mirrored and the encoding extension applied.
	for _, rel := range []string{filepath.Join("train", "a.jpg"), "b.jpg"} {
		cfg, _, err := decodeImageConfig(filepath.Join(outDir, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, 64, cfg.Width, rel)
		assert.Equal(t, 64, cfg.Height, rel)
	}
}

func TestResizeImagesPlain(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeTestPNG(t, filepath.Join(inDir, "a.png"), 100, 50)

	opts := defaultResizeOptions(t)
	opts.Letterbox = false
	opts.Encoding = "png"

	require.NoError(t, ResizeImages(context.Background(), inDir, outDir, opts))

	cfg, format, err := decodeImageConfig(filepath.Join(outDir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 64, cfg.Height)
}

func TestResizeImagesInvalidOptions(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	opts := defaultResizeOptions(t)
	opts.DownsamplingFilter = "bicubic"
	assert.Error(t, ResizeImages(context.Background(), inDir, outDir, opts))

	opts = defaultResizeOptions(t)
	opts.Encoding = "tiff"
	assert.Error(t, ResizeImages(context.Background(), inDir, outDir, opts))

	opts = defaultResizeOptions(t)
	opts.Target = Size{}
	assert.Error(t, ResizeImages(context.Background(), inDir, outDir, opts))
}

func TestResizeImagesCancelled(t *testing.T) {
	inDir := t.TempDir()
	writeTestPNG(t, filepath.Join(inDir, "a.png"), 20, 20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ResizeImages(ctx, inDir, t.TempDir(), defaultResizeOptions(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeImageConfig(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "a.png"), 123, 45)

	cfg, format, err := decodeImageConfig(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 123, cfg.Width)
	assert.Equal(t, 45, cfg.Height)

	_, _, err = decodeImageConfig(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
