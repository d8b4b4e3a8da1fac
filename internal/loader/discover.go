package loader

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/hurou927/vocabpack/internal/output"
)

// Discover expands roots into package roots. A root holding an index.json is
// used as is; otherwise it is searched recursively for nested package roots.
// A root without any package is kept so that loading it reports the missing
// index.
func Discover(afs afero.Fs, roots []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(r string) {
		r = filepath.Clean(r)
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}

	for _, root := range roots {
		if isPackageRoot(afs, root) {
			add(root)
			continue
		}

		var nested []string
		err := afero.Walk(afs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && path != root && isPackageRoot(afs, path) {
				nested = append(nested, path)
				return filepath.SkipDir
			}
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if len(nested) == 0 {
			add(root)
			continue
		}
		sort.Strings(nested)
		for _, n := range nested {
			add(n)
		}
	}
	return out, nil
}

func isPackageRoot(afs afero.Fs, dir string) bool {
	info, err := afs.Stat(filepath.Join(dir, output.IndexFile))
	return err == nil && !info.IsDir()
}
