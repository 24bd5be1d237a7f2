package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed styles scripts
var builtin embed.FS

// FS loads assets from an fs.FS rooted at the styles/ and scripts/
// directories.
type FS struct {
	fsys fs.FS
}

// NewFS wraps fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// Builtin returns the loader for the assets compiled into the binary.
func Builtin() *FS {
	return NewFS(builtin)
}

func (l *FS) Load(kind Kind, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(l.fsys, kind.file(name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", notFound(kind, name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(data), nil
}

// Dir loads assets from a directory on disk. Each read opens the directory
// as an os.Root, which refuses paths and symlinks leading outside it.
type Dir struct {
	path string
}

// NewDir checks that path is a readable directory.
func NewDir(path string) (*Dir, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidDir)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDir, err)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDir, err)
	}
	defer func() { _ = root.Close() }()

	if _, err := fs.ReadDir(root.FS(), "."); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidDir, err)
	}
	return &Dir{path: abs}, nil
}

// Path returns the absolute directory.
func (d *Dir) Path() string { return d.path }

func (d *Dir) Load(kind Kind, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	root, err := os.OpenRoot(d.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = root.Close() }()

	data, err := root.ReadFile(filepath.FromSlash(kind.file(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return "", notFound(kind, name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(data), nil
}

var (
	_ Loader = (*FS)(nil)
	_ Loader = (*Dir)(nil)
)
