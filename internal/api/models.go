package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/scriptly/scriptly-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UpdateUserRequest defines the payload for the user profile update endpoint.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"omitempty,max=32"`
}

// ChangePasswordRequest defines the payload for the password change endpoint.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// UserResponse represents the response data for a user profile.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateScriptRequest defines the payload for the script create endpoint.
// Submitting an existing (owner, name) pair is treated as a reuse of that
// script rather than a new one.
type CreateScriptRequest struct {
	Name        string     `json:"name"         validate:"required,max=256"`
	Content     string     `json:"content"      validate:"required"`
	ScheduledOn *time.Time `json:"scheduled_on" validate:"omitempty"`
}

// UpdateScriptRequest defines the payload for the script partial update
// endpoint. Absent fields are left unchanged.
type UpdateScriptRequest struct {
	Name        *string    `json:"name"         validate:"omitempty,min=1,max=256"`
	Content     *string    `json:"content"      validate:"omitempty,min=1"`
	ScheduledOn *time.Time `json:"scheduled_on" validate:"omitempty"`
}

// PromoteRecommendationRequest defines the payload for promoting a
// recommendation back into the active task list.
type PromoteRecommendationRequest struct {
	Name    string `json:"name"    validate:"required,max=256"`
	Content string `json:"content" validate:"required"`
}

// ScriptResponse represents the response data for a script.
type ScriptResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	Content        string     `json:"content"`
	Completed      bool       `json:"completed"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	ScheduledOn    time.Time  `json:"scheduled_on"`
	UsageCount     int        `json:"usage_count"`
	LastUsedAt     time.Time  `json:"last_used_at"`
	CreatedAt      time.Time  `json:"created_at"`
	Status         string     `json:"status"`
	SourceID       string     `json:"source_id,omitempty"`
}

// UpdateTrackRequest defines the payload for the music track update endpoint.
type UpdateTrackRequest struct {
	Title string `json:"title" validate:"required,max=256"`
}

// TrackResponse represents the response data for a music track.
type TrackResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	FileID    string    `json:"file_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// userToResponse converts a domain.User to a UserResponse
func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// scriptToResponse converts a domain.Script to a ScriptResponse
func scriptToResponse(script *domain.Script) ScriptResponse {
	resp := ScriptResponse{
		ID:             script.ID.String(),
		UserID:         script.UserID.String(),
		Name:           script.Name,
		Content:        script.Content,
		Completed:      script.Completed,
		CompletionDate: script.CompletionDate,
		ScheduledOn:    script.ScheduledOn,
		UsageCount:     script.UsageCount,
		LastUsedAt:     script.LastUsedAt,
		CreatedAt:      script.CreatedAt,
		Status:         script.Status,
	}
	if script.SourceID != uuid.Nil {
		resp.SourceID = script.SourceID.String()
	}
	return resp
}

// scriptsToResponse converts a slice of scripts to response form,
// preserving order.
func scriptsToResponse(scripts []*domain.Script) []ScriptResponse {
	out := make([]ScriptResponse, 0, len(scripts))
	for _, script := range scripts {
		out = append(out, scriptToResponse(script))
	}
	return out
}

// trackToResponse converts a domain.MusicTrack to a TrackResponse
func trackToResponse(track *domain.MusicTrack) TrackResponse {
	return TrackResponse{
		ID:        track.ID.String(),
		UserID:    track.UserID.String(),
		Title:     track.Title,
		FileID:    track.FileID.String(),
		CreatedAt: track.CreatedAt,
		UpdatedAt: track.UpdatedAt,
	}
}
