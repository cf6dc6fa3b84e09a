package artifact

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/droplet/service/internal/response"
)

// maxOptionsBytes caps the multipart "options" field. It carries a tiny
// JSON document; anything bigger is hostile.
const maxOptionsBytes = 4096

// Handler holds HTTP handlers for upload, serving, and deletion.
type Handler struct {
	svc         *Service
	recentLimit int
}

// NewHandler creates a new artifact Handler.
func NewHandler(svc *Service, recentLimit int) *Handler {
	return &Handler{svc: svc, recentLimit: recentLimit}
}

// UploadResponse is the body returned by a successful upload.
type UploadResponse struct {
	URL         string `json:"url"`
	DeleteToken string `json:"deleteToken"`
}

// RecentEntry is one row of the /recent listing.
type RecentEntry struct {
	URL         string    `json:"url"`
	DisplayName string    `json:"displayName,omitempty"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// statusFor maps a pipeline error to its HTTP status and machine-readable
// reason. This is the single place where error kinds become wire responses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrEmptyUpload):
		return http.StatusBadRequest, "empty_upload"
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadDeleteToken):
		return http.StatusForbidden, "invalid_delete_token"
	default:
		return http.StatusInternalServerError, "storage_failure"
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status, reason := statusFor(err)
	response.Error(w, status, reason)
}

// Index godoc
//
//	@Summary		Readiness banner
//	@Description	Plain-text confirmation that the API is up.
//	@Tags			meta
//	@Produce		plain
//	@Success		200	{string}	string
//	@Router			/ [get]
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("droplet API ready!\n"))
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Streams a multipart upload to disk and returns its public URL plus a delete token. The optional "options" field is a JSON document: {"useOriginalFilename": bool}.
//	@Tags			artifacts
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"file contents"
//	@Param			options	formData	string	false	"per-upload options JSON"
//	@Success		200	{object}	UploadResponse
//	@Failure		400	{object}	response.Envelope
//	@Failure		413	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/ [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		response.BadRequest(w, "invalid_multipart")
		return
	}

	var (
		staged       *Staged
		filename     string
		declaredMime string
		opts         Options
	)
	// Covers every abort path before Publish; after a successful Publish
	// the staged path is already gone and Discard is a no-op.
	defer func() { h.svc.Discard(staged) }()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Client went away or the stream is malformed: nothing may
			// become visible.
			response.BadRequest(w, "invalid_multipart")
			return
		}

		switch part.FormName() {
		case "file":
			if staged != nil {
				continue // first file field wins
			}
			filename = part.FileName()
			declaredMime = part.Header.Get("Content-Type")
			staged, err = h.svc.Stage(part)
			if err != nil {
				h.fail(w, err)
				return
			}
		case "options":
			dec := json.NewDecoder(io.LimitReader(part, maxOptionsBytes))
			if err := dec.Decode(&opts); err != nil {
				response.BadRequest(w, "invalid_options")
				return
			}
		}
	}

	if staged == nil {
		response.BadRequest(w, "missing_file_field")
		return
	}

	a, err := h.svc.Publish(r.Context(), staged, filename, declaredMime, opts)
	if err != nil {
		h.fail(w, err)
		return
	}

	response.OK(w, UploadResponse{
		URL:         h.svc.PublicURL(a.ID),
		DeleteToken: a.DeleteToken,
	})
}

// Serve godoc
//
//	@Summary		Fetch an artifact
//	@Description	Returns the stored bytes with their content type. The display name in Content-Disposition is the original filename only when the upload asked for it.
//	@Tags			artifacts
//	@Produce		octet-stream
//	@Param			id	path	string	true	"artifact identifier"
//	@Success		200	{file}		file
//	@Failure		404	{object}	response.Envelope
//	@Router			/{id} [get]
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a, rc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	defer rc.Close()

	name := a.ID
	if a.DisplayName != "" {
		name = a.DisplayName
	}
	w.Header().Set("Content-Type", a.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(a.SizeBytes, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
	_, _ = io.Copy(w, rc)
}

// ServeThumbnail godoc
//
//	@Summary		Fetch an artifact's thumbnail
//	@Description	Returns the derived PNG thumbnail. 404 simply means no thumbnail exists for this artifact.
//	@Tags			artifacts
//	@Produce		png
//	@Param			id	path	string	true	"artifact identifier"
//	@Success		200	{file}		file
//	@Failure		404	{object}	response.Envelope
//	@Router			/{id}/thumbnail [get]
func (h *Handler) ServeThumbnail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rc, size, err := h.svc.GetThumbnail(id)
	if err != nil {
		h.fail(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	_, _ = io.Copy(w, rc)
}

// Delete godoc
//
//	@Summary		Delete an artifact
//	@Description	Removes the artifact and its thumbnail (if any). Requires the delete token issued at upload time in the X-Delete-Token header.
//	@Tags			artifacts
//	@Param			id				path	string	true	"artifact identifier"
//	@Param			X-Delete-Token	header	string	true	"delete token"
//	@Success		204
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token := r.Header.Get("X-Delete-Token")

	if err := h.svc.Delete(r.Context(), id, token); err != nil {
		h.fail(w, err)
		return
	}
	response.NoContent(w)
}

// Recent godoc
//
//	@Summary		List recent uploads
//	@Description	Returns the most recently uploaded artifacts, newest first.
//	@Tags			artifacts
//	@Produce		json
//	@Success		200	{array}		RecentEntry
//	@Failure		500	{object}	response.Envelope
//	@Router			/recent [get]
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Recent(r.Context(), h.recentLimit)
	if err != nil {
		h.fail(w, err)
		return
	}

	entries := make([]RecentEntry, 0, len(list))
	for _, a := range list {
		entries = append(entries, RecentEntry{
			URL:         h.svc.PublicURL(a.ID),
			DisplayName: a.DisplayName,
			MimeType:    a.MimeType,
			SizeBytes:   a.SizeBytes,
			CreatedAt:   a.CreatedAt,
		})
	}
	response.OK(w, entries)
}
