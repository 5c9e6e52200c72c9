package remx

// Bulk image renaming.

import (
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// randomString returns a random string of lowercase letters with the given length.
func randomString(rng *rand.Rand, length int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, length)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	return string(b)
}

// RenameImages renames every image found in a subdirectory below root to
// "<dirname>-<timestamp>-<random><ext>", where dirname is the name of the directory containing
// the image. Images directly in root are left untouched.
func RenameImages(root string) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Collect first, then rename, so the walk never sees its own output.
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && isImagePath(path) && filepath.Dir(path) != filepath.Clean(root) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	renamed := 0
	for _, path := range paths {
		dir := filepath.Dir(path)
		newName := fmt.Sprintf("%s-%s-%s%s", filepath.Base(dir),
			time.Now().Format("20060102150405"), randomString(rng, 4), filepath.Ext(path))
		if err := os.Rename(path, filepath.Join(dir, newName)); err != nil {
			return err
		}
		renamed++
	}

	log.Printf("Renamed %d images", renamed)
	return nil
}
