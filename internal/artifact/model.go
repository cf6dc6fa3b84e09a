// Package artifact manages uploaded files: streaming ingestion, identifier
// allocation, publishing, thumbnail derivation, and deletion.
package artifact

import (
	"errors"
	"time"
)

// Artifact is the metadata record for one stored upload. The bytes
// themselves are owned by the blob store; this record carries everything
// needed to serve and delete them. Immutable after creation.
type Artifact struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName,omitempty"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	DeleteToken string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Options is the per-request configuration carried in the multipart
// "options" field. Unknown JSON fields are ignored for forward
// compatibility; every recognized option has an explicit default.
type Options struct {
	// UseOriginalFilename preserves the client-supplied filename as the
	// display name served in Content-Disposition. It never affects the
	// storage identifier or path.
	UseOriginalFilename bool `json:"useOriginalFilename"`
}

// ErrEmptyUpload is returned when the upload body contains zero bytes.
var ErrEmptyUpload = errors.New("empty upload")

// ErrPayloadTooLarge is returned when the upload exceeds the size ceiling.
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrNotFound is returned when no artifact exists under the identifier.
var ErrNotFound = errors.New("artifact not found")

// ErrBadDeleteToken is returned when the supplied delete token does not
// match the artifact's stored token.
var ErrBadDeleteToken = errors.New("delete token mismatch")

// ErrAlreadyExists is returned by the repository on an identifier collision.
var ErrAlreadyExists = errors.New("artifact already exists")
