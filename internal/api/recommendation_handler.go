package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/scriptly/scriptly-api/internal/api/shared"
	"github.com/scriptly/scriptly-api/internal/service"
)

// RecommendationHandler handles recommendation API requests.
type RecommendationHandler struct {
	recommendationService *service.RecommendationService
	validator             *validator.Validate
	logger                *slog.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(
	recommendationService *service.RecommendationService,
	logger *slog.Logger,
) *RecommendationHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecommendationHandler{
		recommendationService: recommendationService,
		validator:             validator.New(),
		logger:                logger.With(slog.String("component", "recommendation_handler")),
	}
}

// List handles GET /recommendations requests, returning the authenticated
// user's frequently and recently used scripts.
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	scripts, err := h.recommendationService.List(r.Context(), ownerID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, scriptsToResponse(scripts))
}

// Promote handles POST /recommendations/{id}/promote requests. The path ID
// is the recommended (source) script; promoting it a second time bumps the
// existing promoted script instead of inserting another copy. A new script
// answers 201, a re-promotion 200.
func (h *RecommendationHandler) Promote(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	sourceID, ok := requirePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req PromoteRecommendationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	script, created, err := h.recommendationService.Promote(
		r.Context(), ownerID, sourceID, req.Name, req.Content)
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
