package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Script-specific validation errors
var (
	// ErrScriptIDEmpty is returned when a script ID is empty or nil.
	ErrScriptIDEmpty = errors.New("script ID cannot be empty")

	// ErrScriptUserIDEmpty is returned when a script's user ID is empty or nil.
	ErrScriptUserIDEmpty = errors.New("script user ID cannot be empty")

	// ErrScriptNameEmpty is returned when a script's name is empty.
	ErrScriptNameEmpty = errors.New("script name cannot be empty")

	// ErrScriptContentEmpty is returned when a script's content is empty.
	ErrScriptContentEmpty = errors.New("script content cannot be empty")

	// ErrScriptUsageNegative is returned when a script's usage count is negative.
	ErrScriptUsageNegative = errors.New("script usage count cannot be negative")
)

// ScriptStatusActive is the default status tag for a script. The status
// field is carried through storage and API responses but no lifecycle
// transition currently changes it.
const ScriptStatusActive = "active"

// Script represents a user-owned schedulable unit of work with completion
// and usage tracking. The usage count is the single signal consumed by both
// the recommendation view and the sweeper, so its mutation rules
// (increment on reuse, reset on rename) must be preserved exactly.
type Script struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Name           string     `json:"name"`
	Content        string     `json:"content"`
	Completed      bool       `json:"completed"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	ScheduledOn    time.Time  `json:"scheduled_on"`
	UsageCount     int        `json:"usage_count"`
	LastUsedAt     time.Time  `json:"last_used_at"`
	CreatedAt      time.Time  `json:"created_at"`
	Status         string     `json:"status"`

	// SourceID references the script a recommendation promotion was made
	// from. It is uuid.Nil for scripts created directly.
	SourceID uuid.UUID `json:"source_id,omitempty"`
}

// NewScript creates a new Script owned by the given user. A zero scheduledOn
// defaults to the creation time. Usage starts at zero; the first resubmission
// of the same (user, name) pair bumps it to one.
// Returns an error if validation fails.
func NewScript(userID uuid.UUID, name, content string, scheduledOn time.Time, now time.Time) (*Script, error) {
	if scheduledOn.IsZero() {
		scheduledOn = now
	}

	script := &Script{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Content:     content,
		ScheduledOn: scheduledOn,
		UsageCount:  0,
		LastUsedAt:  now,
		CreatedAt:   now,
		Status:      ScriptStatusActive,
	}

	if err := script.Validate(); err != nil {
		return nil, err
	}

	return script, nil
}

// Validate checks if the Script has valid data.
// Returns an error if any field fails validation.
func (s *Script) Validate() error {
	if s.ID == uuid.Nil {
		return ErrScriptIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrScriptUserIDEmpty
	}

	if s.Name == "" {
		return ErrScriptNameEmpty
	}

	if s.Content == "" {
		return ErrScriptContentEmpty
	}

	if s.UsageCount < 0 {
		return ErrScriptUsageNegative
	}

	return nil
}

// Reuse records a resubmission of this script: the usage count is
// incremented and the last-used timestamp is refreshed. The content is
// deliberately left untouched; a resubmission tracks usage, it does not
// edit the script.
func (s *Script) Reuse(now time.Time) {
	s.UsageCount++
	s.LastUsedAt = now
}

// ApplyUpdate applies a partial update. A nil field is left unchanged.
// Supplying a name that differs from the current one is treated as a
// rename: the script takes on a new identity for usage-tracking purposes
// and its usage count resets to 1.
func (s *Script) ApplyUpdate(name, content *string, scheduledOn *time.Time) {
	if name != nil && *name != s.Name {
		s.Name = *name
		s.UsageCount = 1
	}

	if content != nil {
		s.Content = *content
	}

	if scheduledOn != nil {
		s.ScheduledOn = *scheduledOn
	}
}

// MarkCompleted sets the script completed with the given completion time.
// Completing an already-completed script refreshes the completion date;
// there is no guard against double completion.
func (s *Script) MarkCompleted(now time.Time) {
	s.Completed = true
	s.CompletionDate = &now
}

// IsRecommendable reports whether the script qualifies for the
// recommendation view at the given instant: used at least minUsage times
// and last used within the window. Both boundaries are inclusive.
func (s *Script) IsRecommendable(now time.Time, minUsage int, window time.Duration) bool {
	return s.UsageCount >= minUsage && !s.LastUsedAt.Before(now.Add(-window))
}

// IsSweepable reports whether the script matches the sweeper's deletion
// predicate at the given instant: used fewer than maxUsage times and last
// used strictly before now minus staleAfter. The thresholds are independent
// of the recommendation thresholds; the two predicates are not complements.
func (s *Script) IsSweepable(now time.Time, maxUsage int, staleAfter time.Duration) bool {
	return s.UsageCount < maxUsage && s.LastUsedAt.Before(now.Add(-staleAfter))
}
