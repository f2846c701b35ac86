package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/scriptly/scriptly-api/internal/api/shared"
	"github.com/scriptly/scriptly-api/internal/service"
)

// ScriptHandler handles script lifecycle API requests.
type ScriptHandler struct {
	scriptService *service.ScriptService
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewScriptHandler creates a new ScriptHandler with the given dependencies.
func NewScriptHandler(scriptService *service.ScriptService, logger *slog.Logger) *ScriptHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScriptHandler{
		scriptService: scriptService,
		validator:     validator.New(),
		logger:        logger.With(slog.String("component", "script_handler")),
	}
}

// Create handles POST /scripts requests. Submitting a name the owner already
// has reuses the existing script and bumps its usage counters instead of
// creating a duplicate; the response status distinguishes the two outcomes
// (201 for a new script, 200 for a reused one).
func (h *ScriptHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req CreateScriptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	var scheduledOn time.Time
	if req.ScheduledOn != nil {
		scheduledOn = *req.ScheduledOn
	}

	script, created, err := h.scriptService.CreateOrReuse(
		r.Context(), ownerID, req.Name, req.Content, scheduledOn)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	shared.RespondWithJSON(w, r, status, scriptToResponse(script))
}

// List handles GET /scripts requests, returning all scripts owned by the
// authenticated user.
func (h *ScriptHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	scripts, err := h.scriptService.List(r.Context(), ownerID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, scriptsToResponse(scripts))
}

// Get handles GET /scripts/{id} requests.
func (h *ScriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOwner(w, r); !ok {
		return
	}

	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	script, err := h.scriptService.Get(r.Context(), id)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, scriptToResponse(script))
}

// Update handles PUT /scripts/{id} requests. Omitted fields keep their
// current values; a name change resets the script's usage count.
func (h *ScriptHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOwner(w, r); !ok {
		return
	}

	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateScriptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	script, err := h.scriptService.Update(r.Context(), id, service.ScriptUpdate{
		Name:        req.Name,
		Content:     req.Content,
		ScheduledOn: req.ScheduledOn,
	})
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, scriptToResponse(script))
}

// Complete handles POST /scripts/{id}/complete requests. Completing an
// already-completed script refreshes its completion date.
func (h *ScriptHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOwner(w, r); !ok {
		return
	}

	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	script, err := h.scriptService.Complete(r.Context(), id)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, scriptToResponse(script))
}

// Delete handles DELETE /scripts/{id} requests.
func (h *ScriptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireOwner(w, r); !ok {
		return
	}

	id, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.scriptService.Delete(r.Context(), id); err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Script deleted successfully",
	})
}
