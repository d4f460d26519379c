package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores blobs as plain files under two directories. All writes go to
// a temp file in the target directory followed by a rename, so a concurrent
// reader only ever sees fully persisted files.
type Local struct {
	uploadDir    string
	processedDir string
}

func NewLocal(uploadDir, processedDir string) (*Local, error) {
	for _, dir := range []string{uploadDir, processedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return &Local{uploadDir: uploadDir, processedDir: processedDir}, nil
}

func (l *Local) dir(folder string) string {
	if folder == FolderProcessed {
		return l.processedDir
	}
	return l.uploadDir
}

func (l *Local) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	name = SanitizeName(name)
	if name == "" {
		return "", fmt.Errorf("empty filename after sanitization")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := l.Write(ctx, FolderUploads, name, data); err != nil {
		return "", err
	}
	return name, nil
}

func (l *Local) Open(ctx context.Context, folder, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.dir(folder), filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (l *Local) Write(ctx context.Context, folder, name string, data []byte) error {
	dir := l.dir(folder)
	name = filepath.Base(name)

	tmp, err := os.CreateTemp(dir, "."+name+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	// rename-after-write is the "fully persisted" signal
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (l *Local) Resolve(ctx context.Context, name string) (string, error) {
	name = filepath.Base(name)
	for _, folder := range []string{FolderProcessed, FolderUploads} {
		if _, err := os.Stat(filepath.Join(l.dir(folder), name)); err == nil {
			return folder, nil
		}
	}
	return "", ErrNotFound
}
