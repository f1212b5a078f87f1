// Package storage keeps uploaded photos as plain files on local disk.
// Writes are synchronous whole-body copies with no size limit or atomic
// replace; a write that fails midway can leave a truncated file behind.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/zeetms/fleet-admin/internal/model"
)

type Uploads struct {
	Logger *slog.Logger
	Dir    string
}

func NewUploads(logger *slog.Logger, dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	return &Uploads{
		Logger: logger.With("storage", "uploads"),
		Dir:    dir,
	}, nil
}

// Save stores the reader's content under a fresh name derived from the
// client-supplied filename and returns the stored name.
func (u *Uploads) Save(filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + "_" + filepath.Base(filename)
	path := filepath.Join(u.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}

	u.Logger.Debug("saved upload", "name", name)

	return name, nil
}

// Remove deletes a stored file, best effort. A missing file is not an error.
func (u *Uploads) Remove(name string) {
	if name == "" {
		return
	}

	path := filepath.Join(u.Dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		u.Logger.Warn("failed to remove upload", "name", name, "error", err)
	}
}

// Path resolves a stored name to its on-disk path, or ErrNotFound.
func (u *Uploads) Path(name string) (string, error) {
	path := filepath.Join(u.Dir, filepath.Base(name))

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", model.NewError("upload", model.ErrNotFound)
		}
		return "", err
	}

	return path, nil
}
