// Package storage defines the blob store that owns uploaded artifacts on
// disk. The contract every implementation must honour: a published artifact
// is either fully visible or not visible at all — readers never observe a
// partial write — and deleting an artifact whose thumbnail is absent is a
// success, not an error.
package storage

import (
	"errors"
	"io"
	"os"
	"regexp"
)

// ErrNotFound is returned when no object exists under the given identifier.
var ErrNotFound = errors.New("object not found")

// ErrExists is returned by Publish when the identifier is already taken.
// Callers retry with a freshly allocated identifier.
var ErrExists = errors.New("object already exists")

// Store is the interface for staging, publishing, and retrieving artifacts.
type Store interface {
	// Stage creates a temp file on the same filesystem as the final
	// destination. The caller owns it until Publish or Discard.
	Stage() (*os.File, error)

	// Discard removes a staged temp file. Safe to call after Publish.
	Discard(stagedPath string)

	// Publish atomically moves a staged file to its final location under id.
	// Fails with ErrExists if id is already taken; the staged file is left
	// in place so the caller can retry with a new id.
	Publish(id, stagedPath string) error

	// Open returns a readable handle and size for the artifact, or
	// ErrNotFound. Never returns partially written content.
	Open(id string) (io.ReadSeekCloser, int64, error)

	// SaveThumbnail publishes thumbnail bytes for id, produced by encode.
	// The write is staged and renamed so readers never see a partial file.
	SaveThumbnail(id string, encode func(io.Writer) error) error

	// OpenThumbnail returns the thumbnail for id, or ErrNotFound. Absence
	// is a normal outcome, not a server-side failure.
	OpenThumbnail(id string) (io.ReadSeekCloser, int64, error)

	// Delete removes the artifact and, if present, its thumbnail. A missing
	// thumbnail is tolerated; a missing artifact is ErrNotFound.
	Delete(id string) error
}

// validID matches identifiers that are safe as both URL path segments and
// file names: no separators, no leading dot, bounded length.
var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidID reports whether id is safe to resolve to a path under the storage
// root. Anything else must be treated as not found.
func ValidID(id string) bool {
	return validID.MatchString(id)
}
