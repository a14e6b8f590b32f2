// Package storage keeps uploaded pet images. Stored objects are addressed by
// an opaque generated name; the original filename only contributes its extension.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

type FileStorage interface {
	// Save stores r and returns the generated name it can be opened by.
	Save(ctx context.Context, originalName, contentType string, r io.Reader) (string, error)
	// Remove deletes a stored file. Removing a missing name is not an error.
	Remove(ctx context.Context, name string) error
	// Open returns the stored content and its content type.
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}

// imageExts are the extensions kept on stored names. Anything else is stored
// without an extension and served as application/octet-stream.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func newName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !imageExts[ext] {
		ext = ""
	}
	return uuid.NewString() + ext
}

// validName rejects anything that could escape the storage root.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

func contentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if !imageExts[ext] {
		return "application/octet-stream"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
