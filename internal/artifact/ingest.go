package artifact

import (
	"fmt"
	"io"

	"github.com/droplet/service/internal/storage"
)

// Staged is an upload body that has been fully streamed to a temp file but
// not yet published. The caller must either publish it or discard it.
type Staged struct {
	Path string
	Size int64
}

// Ingestor streams request bodies into staged temp files while enforcing
// the maximum-size policy. The payload is never buffered in memory: bytes
// flow chunk-by-chunk from the reader to disk, and the limit applies to the
// true cumulative stream length, not any internal buffer capacity.
type Ingestor struct {
	store    storage.Store
	maxBytes int64
}

// NewIngestor returns an Ingestor writing staged files through store and
// rejecting bodies larger than maxBytes.
func NewIngestor(store storage.Store, maxBytes int64) *Ingestor {
	return &Ingestor{store: store, maxBytes: maxBytes}
}

// Ingest copies r into a staged temp file. It fails with ErrPayloadTooLarge
// as soon as the stream exceeds the ceiling — without consuming the
// remainder — and with ErrEmptyUpload when the stream ends at zero bytes.
// On every non-nil error the temp file has already been removed.
func (in *Ingestor) Ingest(r io.Reader) (*Staged, error) {
	tmp, err := in.store.Stage()
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	discard := func() {
		tmp.Close()
		in.store.Discard(tmp.Name())
	}

	// Reading at most maxBytes+1 lets us detect the breach from the count
	// alone while aborting the copy right after the limit is crossed.
	written, err := io.Copy(tmp, io.LimitReader(r, in.maxBytes+1))
	if err != nil {
		discard()
		return nil, fmt.Errorf("stream upload to disk: %w", err)
	}
	if written > in.maxBytes {
		discard()
		return nil, ErrPayloadTooLarge
	}
	if written == 0 {
		discard()
		return nil, ErrEmptyUpload
	}

	if err := tmp.Sync(); err != nil {
		discard()
		return nil, fmt.Errorf("sync staged upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		in.store.Discard(tmp.Name())
		return nil, fmt.Errorf("close staged upload: %w", err)
	}

	return &Staged{Path: tmp.Name(), Size: written}, nil
}
