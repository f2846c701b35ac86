package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/api/shared"
	"github.com/scriptly/scriptly-api/internal/domain"
	"github.com/scriptly/scriptly-api/internal/platform/logger"
	"github.com/scriptly/scriptly-api/internal/store"
)

// maxUploadBytes caps the size of an uploaded music file (32 MiB).
const maxUploadBytes = 32 << 20

// MusicHandler handles music track API requests. Track metadata lives in
// the music store; the file bytes live in the blob store under the track's
// FileID.
type MusicHandler struct {
	musicStore store.MusicStore
	blobStore  store.BlobStore
	validator  *validator.Validate
	logger     *slog.Logger
}

// NewMusicHandler creates a new MusicHandler with the given dependencies.
func NewMusicHandler(
	musicStore store.MusicStore,
	blobStore store.BlobStore,
	logger *slog.Logger,
) *MusicHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &MusicHandler{
		musicStore: musicStore,
		blobStore:  blobStore,
		validator:  validator.New(),
		logger:     logger.With(slog.String("component", "music_handler")),
	}
}

// Upload handles POST /music requests. The request is multipart form data
// with a "file" part carrying the audio bytes and an optional "title" field;
// when the title is absent the uploaded filename is used.
func (h *MusicHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer func() { _ = file.Close() }()

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}

	fileID := uuid.New()
	if err := h.blobStore.Save(r.Context(), fileID, file); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to store uploaded file", err)
		return
	}

	track, err := domain.NewMusicTrack(ownerID, title, fileID)
	if err != nil {
		_ = h.blobStore.Delete(r.Context(), fileID)
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid track data: "+err.Error())
		return
	}

	if err := h.musicStore.Create(r.Context(), track); err != nil {
		// The blob is orphaned if this cleanup fails; a stray file is
		// preferable to a metadata row pointing at nothing.
		if delErr := h.blobStore.Delete(r.Context(), fileID); delErr != nil {
			log.Warn("failed to clean up blob after metadata insert failure",
				slog.String("file_id", fileID.String()),
				slog.String("error", delErr.Error()))
		}
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	log.Info("music track uploaded",
		slog.String("track_id", track.ID.String()),
		slog.String("file_id", fileID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, trackToResponse(track))
}

// List handles GET /music requests, returning the authenticated user's
// track metadata newest first.
func (h *MusicHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	tracks, err := h.musicStore.ListByUser(r.Context(), ownerID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	out := make([]TrackResponse, 0, len(tracks))
	for _, track := range tracks {
		out = append(out, trackToResponse(track))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Get handles GET /music/{id} requests, returning a single track's metadata.
func (h *MusicHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOwner(w, r); !ok {
		return
	}

	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	track, err := h.musicStore.GetByID(r.Context(), id)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trackToResponse(track))
}

// StreamFile handles GET /music/{id}/file requests, streaming the track's
// audio bytes for playback.
func (h *MusicHandler) StreamFile(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOwner(w, r); !ok {
		return
	}

	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	track, err := h.musicStore.GetByID(r.Context(), id)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	blob, err := h.blobStore.Open(r.Context(), track.FileID)
	if err != nil {
		if errors.Is(err, store.ErrFileNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Track file not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to open track file", err)
		return
	}
	defer func() { _ = blob.Close() }()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob); err != nil {
		// Headers are already out; all we can do is log the broken stream.
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("track stream interrupted",
			slog.String("track_id", track.ID.String()),
			slog.String("error", err.Error()))
	}
}

// UpdateTitle handles PUT /music/{id} requests, renaming a track.
func (h *MusicHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOwner(w, r); !ok {
		return
	}

	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTrackRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.musicStore.UpdateTitle(r.Context(), id, req.Title); err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	track, err := h.musicStore.GetByID(r.Context(), id)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trackToResponse(track))
}

// Delete handles DELETE /music/{id} requests, removing both the metadata
// row and the stored file.
func (h *MusicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOwner(w, r); !ok {
		return
	}

	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	track, err := h.musicStore.GetByID(r.Context(), id)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	if err := h.musicStore.Delete(r.Context(), id); err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	if err := h.blobStore.Delete(r.Context(), track.FileID); err != nil {
		// Metadata is gone; an undeletable blob only wastes disk.
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("failed to delete track file",
			slog.String("file_id", track.FileID.String()),
			slog.String("error", err.Error()))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Track deleted successfully",
	})
}
