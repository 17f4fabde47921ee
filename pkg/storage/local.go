package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes uploads below Root and serves them under URLPrefix.
type LocalStore struct {
	Root      string
	URLPrefix string
}

// NewLocalStore creates a LocalStore rooted at root, served under "/uploads".
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root, URLPrefix: "/uploads"}
}

// Init creates the upload folders and an empty default profile picture.
func (s *LocalStore) Init() error {
	for _, folder := range []string{FolderProfiles, FolderPosts, FolderTest} {
		if err := os.MkdirAll(filepath.Join(s.Root, folder), 0o755); err != nil {
			return fmt.Errorf("failed to create upload folder %s: %w", folder, err)
		}
	}
	def := filepath.Join(s.Root, FolderProfiles, "default-profile.jpg")
	if _, err := os.Stat(def); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(def, nil, 0o644); err != nil {
			return fmt.Errorf("failed to create default profile picture: %w", err)
		}
	}
	return nil
}

// Backend implements Store.
func (s *LocalStore) Backend() string { return "local" }

// Save implements Store.
func (s *LocalStore) Save(_ context.Context, folder, filename, _ string, r io.Reader) (string, error) {
	dir := filepath.Join(s.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, filepath.Base(filename)), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return path.Join(s.URLPrefix, folder, filepath.Base(filename)), nil
}

// Delete implements Store. Paths outside URLPrefix and files that are
// already gone are ignored.
func (s *LocalStore) Delete(_ context.Context, p string) error {
	rel, ok := s.relative(p)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", p, err)
	}
	return nil
}

// Exists reports whether the object at p is present.
func (s *LocalStore) Exists(p string) bool {
	rel, ok := s.relative(p)
	if !ok {
		return false
	}
	_, err := os.Stat(filepath.Join(s.Root, filepath.FromSlash(rel)))
	return err == nil
}

func (s *LocalStore) relative(p string) (string, bool) {
	prefix := strings.TrimSuffix(s.URLPrefix, "/") + "/"
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(p, prefix))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return "", false
	}
	return rel, true
}
