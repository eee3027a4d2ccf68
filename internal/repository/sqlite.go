package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"example.com/bankquest/backend/internal/models"
)

// SQLiteStore хранилище на локальном файле SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore создает хранилище поверх открытой базы SQLite.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *SQLiteStore) SetGoal(ctx context.Context, userID, goalText string) (models.Goal, error) {
	if err := validateGoal(userID, goalText); err != nil {
		return models.Goal{}, err
	}

	goal := models.Goal{
		UserID:    userID,
		GoalText:  goalText,
		Status:    models.GoalStatusActive,
		CreatedAt: s.now(),
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, goal_text, status, created_at) VALUES (?, ?, ?, ?)`,
		goal.UserID, goal.GoalText, string(goal.Status), goal.CreatedAt,
	)
	if err != nil {
		return models.Goal{}, err
	}

	goal.ID, err = result.LastInsertId()
	if err != nil {
		return models.Goal{}, err
	}

	return goal, nil
}

func (s *SQLiteStore) LatestGoal(ctx context.Context, userID string) (models.Goal, error) {
	var goal models.Goal
	var status string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, goal_text, status, created_at
		 FROM goals
		 WHERE user_id = ?
		 ORDER BY id DESC
		 LIMIT 1`,
		userID,
	).Scan(&goal.ID, &goal.UserID, &goal.GoalText, &status, &goal.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Goal{}, ErrNotFound
		}
		return models.Goal{}, err
	}

	goal.Status = models.GoalStatus(status)
	return goal, nil
}

func (s *SQLiteStore) SaveChallenge(ctx context.Context, challenge models.Challenge) (models.Challenge, error) {
	if err := validateChallenge(challenge); err != nil {
		return models.Challenge{}, err
	}

	challenge = challengeDefaults(challenge)
	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}
	challenge.CreatedAt = s.now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO challenges
		 (id, user_id, challenge_text, difficulty, category, xp_reward, time_to_complete, source, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		challenge.ID.String(),
		challenge.UserID,
		challenge.ChallengeText,
		challenge.Difficulty,
		challenge.Category,
		challenge.XPReward,
		challenge.TimeToComplete,
		string(challenge.Source),
		string(challenge.Status),
		challenge.CreatedAt,
	)
	if err != nil {
		return models.Challenge{}, err
	}

	return challenge, nil
}

// ListChallenges возвращает последние челленджи пользователя, новые первыми.
func (s *SQLiteStore) ListChallenges(ctx context.Context, userID string, limit int) ([]models.Challenge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, challenge_text, difficulty, category, xp_reward, time_to_complete, source, status, created_at
		 FROM challenges
		 WHERE user_id = ?
		 ORDER BY rowid DESC
		 LIMIT ?`,
		userID, resolveChallengeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := make([]models.Challenge, 0)
	for rows.Next() {
		var challenge models.Challenge
		var id, source, status string

		err := rows.Scan(
			&id,
			&challenge.UserID,
			&challenge.ChallengeText,
			&challenge.Difficulty,
			&challenge.Category,
			&challenge.XPReward,
			&challenge.TimeToComplete,
			&source,
			&status,
			&challenge.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		challenge.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		challenge.Source = models.ContentSource(source)
		challenge.Status = models.ChallengeStatus(status)

		challenges = append(challenges, challenge)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return challenges, nil
}

func (s *SQLiteStore) LogGeneration(ctx context.Context, log models.GenerationLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	var raw *string
	if len(log.RawResponse) > 0 {
		value := string(log.RawResponse)
		raw = &value
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_logs
		 (id, user_id, kind, provider, model, prompt, raw_response, success, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID.String(),
		log.UserID,
		log.Kind,
		log.Provider,
		log.Model,
		log.Prompt,
		raw,
		log.Success,
		log.ErrorMessage,
		s.now(),
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
