package fileStore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var ErrInvalidName = errors.New("invalid file name")

// Store keeps uploaded documents and extracted images as flat files under one root directory.
type Store struct {
	fs   afero.Fs
	root string
}

func NewOsStore(root string) (*Store, error) {
	return New(afero.NewOsFs(), root)
}

func NewMemStore() *Store {
	s, _ := New(afero.NewMemMapFs(), "uploads")
	return s
}

func New(fs afero.Fs, root string) (*Store, error) {
	if err := fs.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", root, err)
	}
	return &Store{fs: fs, root: root}, nil
}

// Path returns the location of name under the root. Names must not contain separators.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.root, name), nil
}

func (s *Store) Save(name string, data []byte) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(s.fs, path, data, 0o640); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

func (s *Store) Open(name string) (io.ReadCloser, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return s.fs.Open(path)
}

func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// Remove deletes name. A file that is already gone is not an error.
func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SafeName strips any directory part a client may have sent with the file name.
func SafeName(filename string) string {
	filename = strings.ReplaceAll(filename, `\`, "/")
	return filepath.Base(filename)
}
