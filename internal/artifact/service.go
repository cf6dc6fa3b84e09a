package artifact

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/droplet/service/internal/storage"
)

// maxPublishAttempts bounds the internal retry loop on identifier
// collisions before the upload is surfaced as a storage failure.
const maxPublishAttempts = 5

// Thumbnailer derives a thumbnail for an already-published artifact.
// Implementations are best-effort: the caller swallows every error.
type Thumbnailer interface {
	Generate(id string) error
}

// Service orchestrates the upload and delete pipelines.
type Service struct {
	repo     Repository
	store    storage.Store
	thumbs   Thumbnailer
	ingestor *Ingestor
	baseURL  string

	// Injection points for tests; production uses the package defaults.
	allocateID     func(originalFilename string) string
	newDeleteToken func() string
}

// NewService creates a Service enforcing maxUploadBytes on ingestion and
// deriving public links from publicBaseURL.
func NewService(repo Repository, store storage.Store, thumbs Thumbnailer, maxUploadBytes int64, publicBaseURL string) *Service {
	return &Service{
		repo:           repo,
		store:          store,
		thumbs:         thumbs,
		ingestor:       NewIngestor(store, maxUploadBytes),
		baseURL:        strings.TrimRight(publicBaseURL, "/"),
		allocateID:     newID,
		newDeleteToken: uuid.NewString,
	}
}

// Stage streams an upload body into a staged temp file, enforcing the size
// ceiling. The result must be passed to Publish or Discard.
func (s *Service) Stage(r io.Reader) (*Staged, error) {
	return s.ingestor.Ingest(r)
}

// Discard removes a staged temp file. Safe to call after Publish.
func (s *Service) Discard(st *Staged) {
	if st != nil {
		s.store.Discard(st.Path)
	}
}

// Publish assigns an identifier to a staged upload, atomically moves it
// into the blob store, records its metadata, and best-effort derives a
// thumbnail. Identifier collisions are retried internally with fresh ids.
// Whatever happens, readers never observe a partial artifact.
func (s *Service) Publish(ctx context.Context, st *Staged, originalFilename, declaredMime string, opts Options) (*Artifact, error) {
	mime := resolveMime(declaredMime, st.Path)

	displayName := ""
	if opts.UseOriginalFilename && originalFilename != "" {
		displayName = filepath.Base(originalFilename)
	}

	// The metadata row reserves the identifier (unique primary key) before
	// the file is linked into place. A collision at either step leaves the
	// staged file intact, so retrying with a fresh id never loses bytes,
	// and a reader sees the artifact only once both the row and the fully
	// written file exist.
	var published *Artifact
	for attempt := 0; attempt < maxPublishAttempts; attempt++ {
		a := &Artifact{
			ID:          s.allocateID(originalFilename),
			DisplayName: displayName,
			MimeType:    mime,
			SizeBytes:   st.Size,
			DeleteToken: s.newDeleteToken(),
		}

		if err := s.repo.Create(ctx, a); err != nil {
			if errors.Is(err, ErrAlreadyExists) {
				continue
			}
			return nil, fmt.Errorf("record artifact metadata: %w", err)
		}

		if err := s.store.Publish(a.ID, st.Path); err != nil {
			if rbErr := s.repo.Delete(ctx, a.ID); rbErr != nil {
				log.Printf("artifact: dangling metadata for %s after publish failure: %v", a.ID, rbErr)
			}
			if errors.Is(err, storage.ErrExists) {
				// Leftover file from a crashed run; the id is burned.
				continue
			}
			return nil, fmt.Errorf("publish artifact: %w", err)
		}

		published = a
		break
	}
	if published == nil {
		return nil, fmt.Errorf("allocate identifier: %d attempts exhausted", maxPublishAttempts)
	}

	// Best-effort side path: a corrupt image or unsupported format skips
	// the thumbnail, never the upload.
	if isRasterImage(mime) {
		if err := s.thumbs.Generate(published.ID); err != nil {
			log.Printf("artifact: thumbnail for %s skipped: %v", published.ID, err)
		}
	}

	return published, nil
}

// Get returns the artifact record together with a readable handle to its
// bytes. A metadata row whose file has gone missing reads as not found.
func (s *Service) Get(ctx context.Context, id string) (*Artifact, io.ReadSeekCloser, error) {
	if !storage.ValidID(id) {
		return nil, nil, ErrNotFound
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, _, err := s.store.Open(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open artifact %s: %w", id, err)
	}
	return a, rc, nil
}

// GetThumbnail returns a readable handle to the thumbnail bytes and their
// size. Absence is reported as ErrNotFound and is a normal outcome.
func (s *Service) GetThumbnail(id string) (io.ReadSeekCloser, int64, error) {
	if !storage.ValidID(id) {
		return nil, 0, ErrNotFound
	}
	rc, size, err := s.store.OpenThumbnail(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open thumbnail %s: %w", id, err)
	}
	return rc, size, nil
}

// Delete authorizes and performs artifact deletion. The thumbnail, if any,
// goes with it; a thumbnail that never existed does not fail the delete.
// Deleting an unknown id is ErrNotFound, on the second call too.
func (s *Service) Delete(ctx context.Context, id, token string) error {
	if !storage.ValidID(id) {
		return ErrNotFound
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.DeleteToken)) != 1 {
		return ErrBadDeleteToken
	}

	// A metadata row with a missing file still gets cleaned up.
	if err := s.store.Delete(id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete artifact %s: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete artifact metadata %s: %w", id, err)
	}
	return nil
}

// Recent lists up to limit artifacts, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Artifact, error) {
	return s.repo.Recent(ctx, limit)
}

// PublicURL derives the browser-accessible link for an identifier.
func (s *Service) PublicURL(id string) string {
	return s.baseURL + "/" + id
}

// resolveMime keeps the declared content type unless it is missing or the
// generic octet-stream, in which case the first bytes of the staged file
// are sniffed.
func resolveMime(declared, stagedPath string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	f, err := os.Open(stagedPath)
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "application/octet-stream"
	}
	return http.DetectContentType(buf[:n])
}

// isRasterImage reports whether the MIME type is worth a thumbnail attempt.
func isRasterImage(mime string) bool {
	return strings.HasPrefix(mime, "image/") && mime != "image/svg+xml"
}
