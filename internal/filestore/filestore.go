// Package filestore holds uploaded originals and processed derivatives under
// two logical folders. Identity is the sanitized filename itself; writing the
// same name overwrites the previous blob.
package filestore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// Folder names inside a store.
const (
	FolderUploads   = "uploads"
	FolderProcessed = "processed"
)

// ErrNotFound means no blob exists under the given name.
var ErrNotFound = errors.New("file not found")

// Store is the file lifecycle boundary shared by the local-disk and
// object-store backends. Writes must be atomic: a reader never observes a
// partially persisted blob.
type Store interface {
	// Save places an upload into the uploads folder under the sanitized
	// name and returns that name.
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)

	// Open returns the blob stored under folder/name.
	Open(ctx context.Context, folder, name string) (io.ReadCloser, error)

	// Write persists a derivative into the given folder, replacing any
	// previous blob of the same name.
	Write(ctx context.Context, folder, name string, data []byte) error

	// Resolve finds which folder holds name, checking processed first,
	// then uploads. Returns ErrNotFound if neither has it.
	Resolve(ctx context.Context, name string) (string, error)
}

var unsafeChars = strings.NewReplacer(
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
)

// SanitizeName strips path components and unsafe characters from a
// client-supplied filename so it is safe to use as a storage key.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(path.Clean("/" + name))
	if name == "/" || name == "." {
		return ""
	}
	name = unsafeChars.Replace(name)
	name = strings.Trim(name, "._")
	return name
}
