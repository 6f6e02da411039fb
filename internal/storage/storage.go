// Package storage removes uploaded player photos. Upload itself happens
// upstream; the service only sees the stored filename.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for filenames that are empty or escape the photo directory.
var ErrInvalidName = errors.New("invalid photo filename")

// PhotoRemover deletes a stored photo by filename.
type PhotoRemover interface {
	Remove(ctx context.Context, filename string) error
}

// DiskRemover deletes photos from one local directory.
type DiskRemover struct {
	dir string
}

func NewDiskRemover(dir string) *DiskRemover {
	return &DiskRemover{dir: dir}
}

// Remove deletes dir/filename. A file that is already gone is not an error.
func (r *DiskRemover) Remove(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename {
		return fmt.Errorf("%w: %q", ErrInvalidName, filename)
	}
	err := os.Remove(filepath.Join(r.dir, filename))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove photo %q: %w", filename, err)
	}
	return nil
}

var _ PhotoRemover = (*DiskRemover)(nil)
