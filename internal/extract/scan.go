package extract

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/repoexplain/internal/filter"
)

type fileEntry struct {
	Path  string // slash-separated, relative to the clone root
	Size  int64
	Score int
}

// scanClone walks the checkout and returns the entries the plan keeps,
// plus the byte total of everything it saw.
func scanClone(root string, plan *filter.Plan) ([]fileEntry, int64, error) {
	var files []fileEntry
	var originalBytes int64

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)

		info, ierr := d.Info()
		if ierr != nil {
			return nil
		}
		originalBytes += info.Size()

		if plan.Excluded(rel) {
			return nil
		}
		if plan.Topical && !plan.Included(rel) {
			return nil
		}
		if info.Size() > plan.MaxFileBytes {
			return nil
		}
		if isBinary(path) {
			return nil
		}

		files = append(files, fileEntry{
			Path:  rel,
			Size:  info.Size(),
			Score: filter.Score(rel, plan.Keywords),
		})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return files, originalBytes, nil
}

// isBinary sniffs the first 512 bytes for a null byte. IO errors count as
// binary so the file gets skipped rather than failing extraction.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if n == 0 {
		return err != nil && !errors.Is(err, io.EOF)
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}

// renderTree produces an indented directory listing of the kept files.
func renderTree(files []fileEntry) string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	sort.Strings(paths)

	var b strings.Builder
	seen := map[string]struct{}{}
	for _, p := range paths {
		parts := strings.Split(p, "/")
		for depth, part := range parts {
			prefix := strings.Join(parts[:depth+1], "/")
			if _, ok := seen[prefix]; ok {
				continue
			}
			seen[prefix] = struct{}{}
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(part)
			if depth < len(parts)-1 {
				b.WriteString("/")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
