package texture

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Index maps lowercase image stems under a directory to file paths.
// When several files share a stem the extension earliest in Extensions
// wins, so a lossless copy beats a JPEG.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans dir and its subdirectories for images Load can read.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank := slices.Index(Extensions, ext)
		if rank < 0 {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists || rank < slices.Index(Extensions, strings.ToLower(filepath.Ext(existing))) {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the file for a texture name, or ("", false). The
// name's directory and extension are ignored.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	return len(idx.entries)
}
