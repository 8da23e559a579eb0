package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscapes  = errors.New("path escapes storage root")
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
	ErrEmptyPath    = errors.New("empty path not allowed")
	ErrRemoveRoot   = errors.New("refusing to remove storage root")
)

// Root is a storage directory opened with os.Root. Every file operation is
// resolved inside the directory, so neither ".." segments nor symlinks can
// reach files outside it.
type Root struct {
	root *os.Root
	dir  string
}

// OpenRoot opens an existing directory as a storage root.
func OpenRoot(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage root: %w", err)
	}
	return &Root{root: root, dir: abs}, nil
}

func (r *Root) Close() error {
	if r.root == nil {
		return nil
	}
	return r.root.Close()
}

// Dir returns the absolute directory of the root.
func (r *Root) Dir() string {
	return r.dir
}

// Abs joins a cleaned name onto the root directory.
func (r *Root) Abs(name string) string {
	return filepath.Join(r.dir, filepath.FromSlash(name))
}

// Clean checks a caller-supplied storage name and returns it as a
// slash-separated path relative to the root. "." names the root itself.
func (r *Root) Clean(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyPath
	}

	native := filepath.FromSlash(name)
	if strings.HasPrefix(name, "/") || filepath.IsAbs(native) || filepath.VolumeName(native) != "" {
		return "", fmt.Errorf("%w: %s", ErrAbsolutePath, name)
	}

	cleaned := filepath.Clean(native)
	if cleaned != "." && !filepath.IsLocal(cleaned) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}
	return filepath.ToSlash(cleaned), nil
}

// native cleans name and converts it for use with os.Root.
func (r *Root) native(name string) (string, error) {
	cleaned, err := r.Clean(name)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return filepath.FromSlash(cleaned), nil
}

func (r *Root) WriteFile(name string, data []byte, perm os.FileMode) error {
	p, err := r.native(name)
	if err != nil {
		return err
	}
	return r.root.WriteFile(p, data, perm)
}

// CreateExclusive writes a new file. It fails with fs.ErrExist when name is
// already taken.
func (r *Root) CreateExclusive(name string, data []byte, perm os.FileMode) error {
	p, err := r.native(name)
	if err != nil {
		return err
	}

	f, err := r.root.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (r *Root) MkdirAll(name string, perm os.FileMode) error {
	p, err := r.native(name)
	if err != nil {
		return err
	}
	return r.root.MkdirAll(p, perm)
}

func (r *Root) ReadFile(name string) ([]byte, error) {
	p, err := r.native(name)
	if err != nil {
		return nil, err
	}
	return r.root.ReadFile(p)
}

func (r *Root) Stat(name string) (os.FileInfo, error) {
	p, err := r.native(name)
	if err != nil {
		return nil, err
	}
	return r.root.Stat(p)
}

// Remove deletes a file or an empty directory.
func (r *Root) Remove(name string) error {
	p, err := r.native(name)
	if err != nil {
		return err
	}
	return r.root.Remove(p)
}

// RemoveAll deletes name and everything below it. The root directory itself
// is refused.
func (r *Root) RemoveAll(name string) error {
	p, err := r.native(name)
	if err != nil {
		return err
	}
	if p == "." {
		return fmt.Errorf("invalid path: %w", ErrRemoveRoot)
	}
	return r.root.RemoveAll(p)
}

// ReadDir lists a directory sorted by name.
func (r *Root) ReadDir(name string) ([]fs.DirEntry, error) {
	p, err := r.native(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(r.root.FS(), filepath.ToSlash(p))
}

// Walk visits the tree below name in lexical order with slash-separated
// root-relative paths. Symlinks are reported but not followed.
func (r *Root) Walk(name string, fn fs.WalkDirFunc) error {
	p, err := r.native(name)
	if err != nil {
		return err
	}
	return fs.WalkDir(r.root.FS(), filepath.ToSlash(p), fn)
}
