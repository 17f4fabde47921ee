// Package storage keeps uploaded images on local disk or in Google Cloud Storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Upload folders.
const (
	FolderProfiles = "profiles"
	FolderPosts    = "posts"
	FolderTest     = "test"
)

var (
	ErrUnsupportedType = errors.New("only image uploads are allowed (jpeg, jpg, png, gif)")
	ErrTooLarge        = errors.New("uploaded file is too large")
)

var allowedExt = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true}

var allowedMIME = map[string]bool{"image/jpeg": true, "image/png": true, "image/gif": true}

// Store persists uploaded objects. Save returns the path clients use to fetch
// the object; Delete accepts exactly that path.
type Store interface {
	Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
	Backend() string
}

// SavedFile describes a stored image.
type SavedFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MIMEType string `json:"mimetype"`
}

// SaveImage checks that fh is an image no larger than maxBytes and stores it
// under folder with a fresh unique name that keeps the original extension.
func SaveImage(ctx context.Context, store Store, folder string, fh *multipart.FileHeader, maxBytes int64) (*SavedFile, error) {
	if fh.Size > maxBytes {
		return nil, ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != "" && !allowedExt[ext] {
		return nil, ErrUnsupportedType
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !allowedMIME[mt.String()] {
		return nil, ErrUnsupportedType
	}
	if ext == "" {
		ext = mt.Extension()
	}

	name := uuid.New().String() + ext
	path, err := store.Save(ctx, folder, name, mt.String(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	return &SavedFile{
		Filename: name,
		Path:     path,
		Size:     int64(len(data)),
		MIMEType: mt.String(),
	}, nil
}
