// Package thumbnail derives bounded square thumbnails for image artifacts.
// Generation is best-effort: a corrupt or unsupported image skips the
// thumbnail and never fails the upload that triggered it.
package thumbnail

import (
	"fmt"
	"io"

	"github.com/disintegration/imaging"

	"github.com/droplet/service/internal/storage"
)

// Generator decodes a published artifact and stores a size×size thumbnail
// next to it, keyed by the same identifier.
type Generator struct {
	store storage.Store
	size  int
}

// NewGenerator returns a Generator producing size×size thumbnails.
func NewGenerator(store storage.Store, size int) *Generator {
	return &Generator{store: store, size: size}
}

// Generate reads the artifact back from the store, downsamples it to a
// centre-cropped square, and publishes the PNG through the store's staged
// write so readers never see a partial thumbnail.
func (g *Generator) Generate(id string) error {
	rc, _, err := g.store.Open(id)
	if err != nil {
		return fmt.Errorf("open source %s: %w", id, err)
	}
	defer rc.Close()

	img, err := imaging.Decode(rc)
	if err != nil {
		return fmt.Errorf("decode %s: %w", id, err)
	}

	thumb := imaging.Fill(img, g.size, g.size, imaging.Center, imaging.Linear)

	return g.store.SaveThumbnail(id, func(w io.Writer) error {
		return imaging.Encode(w, thumb, imaging.PNG)
	})
}
