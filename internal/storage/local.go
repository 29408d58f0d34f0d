package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// localStorage implements FileStorage backed by a directory on disk.
// Stored files are served statically under publicBase (e.g. "/uploads").
type localStorage struct {
	root       string // absolute path to the upload directory
	publicBase string // URL path prefix the directory is served under
}

// NewLocalStorage creates a disk-backed store rooted at dir, creating the
// directory if needed.
func NewLocalStorage(dir, publicBase string) (FileStorage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	if publicBase == "" {
		publicBase = "/uploads"
	}
	return &localStorage{root: abs, publicBase: publicBase}, nil
}

// Save writes the stream to a uuid-prefixed file named after the original
// upload. The write goes through a temp file and rename so a crashed
// request never leaves a half-written object under a final name.
func (l *localStorage) Save(ctx context.Context, r io.Reader, originalName, contentType string) (*StoredFile, error) {
	key := uuid.NewString() + "-" + sanitizeName(originalName)
	abs, err := l.safePath(key)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(l.root, ".upload-tmp-*")
	if err != nil {
		return nil, fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return nil, fmt.Errorf("storage: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return nil, fmt.Errorf("storage: rename: %w", err)
	}
	success = true

	return &StoredFile{
		Key:  key,
		URL:  path.Join(l.publicBase, key),
		Size: size,
	}, nil
}

// Delete removes a stored file.
func (l *localStorage) Delete(ctx context.Context, key string) error {
	abs, err := l.safePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// ResolveURL maps a key to its public path.
func (l *localStorage) ResolveURL(ctx context.Context, key string) (string, error) {
	if _, err := l.safePath(key); err != nil {
		return "", err
	}
	return path.Join(l.publicBase, key), nil
}

// safePath resolves a key against the upload root and rejects any result
// that escapes it (directory traversal).
func (l *localStorage) safePath(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage: empty key")
	}
	cleaned := filepath.Clean(key)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute keys not allowed: %s", key)
	}
	joined := filepath.Join(l.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve key: %w", err)
	}
	if !strings.HasPrefix(abs, l.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: key escapes upload root: %s", key)
	}
	return abs, nil
}

// sanitizeName strips path separators and other noise from a client-supplied
// filename before it becomes part of a stored key.
func sanitizeName(name string) string {
	base := filepath.Base(name)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "file"
	}
	return base
}
