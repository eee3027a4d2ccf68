package repository

import (
	"context"
	"strings"

	"example.com/bankquest/backend/internal/models"
)

const (
	defaultChallengeLimit = 20
	maxChallengeLimit     = 100
)

// Store хранит цели, челленджи и журнал обращений к модели.
type Store interface {
	SetGoal(ctx context.Context, userID, goalText string) (models.Goal, error)
	LatestGoal(ctx context.Context, userID string) (models.Goal, error)
	SaveChallenge(ctx context.Context, challenge models.Challenge) (models.Challenge, error)
	ListChallenges(ctx context.Context, userID string, limit int) ([]models.Challenge, error)
	LogGeneration(ctx context.Context, log models.GenerationLog) error
	Close() error
}

func validateGoal(userID, goalText string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(goalText) == "" {
		return ErrInvalid
	}

	return nil
}

func validateChallenge(challenge models.Challenge) error {
	if strings.TrimSpace(challenge.UserID) == "" || strings.TrimSpace(challenge.ChallengeText) == "" {
		return ErrInvalid
	}

	return nil
}

// resolveChallengeLimit ограничивает размер страницы истории челленджей.
func resolveChallengeLimit(limit int) int {
	if limit <= 0 {
		return defaultChallengeLimit
	}
	if limit > maxChallengeLimit {
		return maxChallengeLimit
	}

	return limit
}

func challengeDefaults(challenge models.Challenge) models.Challenge {
	if challenge.Status == "" {
		challenge.Status = models.ChallengeStatusActive
	}
	if challenge.Source == "" {
		challenge.Source = models.ContentSourceAI
	}

	return challenge
}
