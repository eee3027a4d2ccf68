package models

import (
	"time"

	"github.com/google/uuid"
)

type GoalStatus string

type ChallengeStatus string

type ContentSource string

const (
	GoalStatusActive GoalStatus = "active"

	ChallengeStatusActive    ChallengeStatus = "active"
	ChallengeStatusCompleted ChallengeStatus = "completed"

	ContentSourceAI       ContentSource = "ai"
	ContentSourceFallback ContentSource = "fallback"
)

type Goal struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	GoalText  string     `json:"goal_text"`
	Status    GoalStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

type Challenge struct {
	ID             uuid.UUID       `json:"id"`
	UserID         string          `json:"user_id"`
	ChallengeText  string          `json:"challenge_text"`
	Difficulty     string          `json:"difficulty"`
	Category       string          `json:"category"`
	XPReward       int             `json:"xp_reward"`
	TimeToComplete string          `json:"time_to_complete"`
	Source         ContentSource   `json:"source"`
	Status         ChallengeStatus `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// GenerationLog хранит одно обращение к модели для разбора инцидентов.
type GenerationLog struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	Kind         string    `json:"kind"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Prompt       string    `json:"prompt"`
	RawResponse  []byte    `json:"raw_response,omitempty"`
	Success      bool      `json:"success"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
