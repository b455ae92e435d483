package fileserver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// IndexCandidates are tried in order when the target is "/".
var IndexCandidates = []string{
	"index.html",
	"index.htm",
	"index.xhtml",
	"index.xml",
	"index.md",
	"index.txt",
}

// ErrOutsideRoot is returned by Locate for paths that leave the root.
var ErrOutsideRoot = errors.New("path escapes root directory")

// Resolver maps request targets to paths under a root directory.
type Resolver struct {
	root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve joins target onto the root. "/" becomes the first index candidate
// that exists, or index.html if none do. A single leading slash and every
// literal "../" are stripped first. Resolve never fails.
func (r *Resolver) Resolve(target string) string {
	path := target
	if target == "/" {
		path = "/" + r.index()
	}
	path = strings.TrimPrefix(path, "/")
	path = strings.ReplaceAll(path, "../", "")
	return filepath.Join(r.root, path)
}

func (r *Resolver) index() string {
	for _, name := range IndexCandidates {
		if _, err := os.Stat(filepath.Join(r.root, name)); err == nil {
			return name
		}
	}
	return IndexCandidates[0]
}

// Locate resolves target and checks that the canonical result, symlinks
// included, is still inside the root. The stripping done by Resolve alone can
// be undone by inputs such as "....//".
func (r *Resolver) Locate(target string) (string, error) {
	path := r.Resolve(target)

	root, err := canonical(r.root)
	if err != nil {
		return path, err
	}
	full, err := canonical(path)
	if err != nil {
		return path, err
	}

	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path, ErrOutsideRoot
	}
	return path, nil
}

// canonical returns the absolute form of path with symlinks evaluated for the
// longest prefix that exists.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing, rest := abs, ""
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}
}
