package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	filesDir   = "files"
	thumbsDir  = "thumbnails"
	stagingDir = "staging"
)

// DiskStore implements Store on a local directory:
//
//	<root>/files/<id>       published artifacts
//	<root>/thumbnails/<id>  derived thumbnails
//	<root>/staging/         in-flight temp files
//
// Staging lives under the same root so publishing is a same-filesystem
// link/rename, which is what makes it atomic.
type DiskStore struct {
	root string
}

var _ Store = (*DiskStore)(nil)

// NewDiskStore creates the directory layout under root and returns a store.
func NewDiskStore(root string) (*DiskStore, error) {
	for _, dir := range []string{filesDir, thumbsDir, stagingDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
		}
	}
	return &DiskStore{root: root}, nil
}

// Stage creates a temp file in the staging directory.
func (s *DiskStore) Stage() (*os.File, error) {
	f, err := os.CreateTemp(filepath.Join(s.root, stagingDir), "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	return f, nil
}

// Discard removes a staged temp file, ignoring absence.
func (s *DiskStore) Discard(stagedPath string) {
	_ = os.Remove(stagedPath)
}

// Publish links the staged file to its final path. os.Link fails with EEXIST
// when the target is taken, which is the collision signal — unlike
// os.Rename, it never silently overwrites. On success the staged entry is
// unlinked; the inode lives on under the final name.
func (s *DiskStore) Publish(id, stagedPath string) error {
	if !ValidID(id) {
		return fmt.Errorf("publish %q: invalid identifier", id)
	}
	if err := os.Link(stagedPath, s.filePath(id)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrExists
		}
		return fmt.Errorf("publish %q: %w", id, err)
	}
	_ = os.Remove(stagedPath)
	return nil
}

// Open returns a readable handle to the artifact and its size.
func (s *DiskStore) Open(id string) (io.ReadSeekCloser, int64, error) {
	if !ValidID(id) {
		return nil, 0, ErrNotFound
	}
	return openFile(s.filePath(id))
}

// SaveThumbnail writes the thumbnail through a staged temp file and renames
// it into place. Overwriting an existing thumbnail is allowed; regeneration
// is harmless.
func (s *DiskStore) SaveThumbnail(id string, encode func(io.Writer) error) error {
	if !ValidID(id) {
		return fmt.Errorf("save thumbnail %q: invalid identifier", id)
	}

	tmp, err := s.Stage()
	if err != nil {
		return err
	}
	defer s.Discard(tmp.Name())

	if err := encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("encode thumbnail %q: %w", id, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync thumbnail %q: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close thumbnail %q: %w", id, err)
	}

	if err := os.Rename(tmp.Name(), s.thumbPath(id)); err != nil {
		return fmt.Errorf("publish thumbnail %q: %w", id, err)
	}
	return nil
}

// OpenThumbnail returns a readable handle to the thumbnail and its size.
func (s *DiskStore) OpenThumbnail(id string) (io.ReadSeekCloser, int64, error) {
	if !ValidID(id) {
		return nil, 0, ErrNotFound
	}
	return openFile(s.thumbPath(id))
}

// Delete removes the artifact, then independently removes the thumbnail.
// A thumbnail that never existed (non-image upload, failed decode) must not
// fail the delete.
func (s *DiskStore) Delete(id string) error {
	if !ValidID(id) {
		return ErrNotFound
	}

	if err := os.Remove(s.filePath(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %q: %w", id, err)
	}

	if err := os.Remove(s.thumbPath(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete thumbnail %q: %w", id, err)
	}
	return nil
}

func (s *DiskStore) filePath(id string) string {
	return filepath.Join(s.root, filesDir, id)
}

func (s *DiskStore) thumbPath(id string) string {
	return filepath.Join(s.root, thumbsDir, id)
}

func openFile(path string) (io.ReadSeekCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("open %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat %q: %w", path, err)
	}
	return f, info.Size(), nil
}
