package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/bankquest/backend/internal/models"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore создает хранилище поверх пула PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// SetGoal добавляет новую цель пользователя. Предыдущие цели не изменяются.
func (s *PostgresStore) SetGoal(ctx context.Context, userID, goalText string) (models.Goal, error) {
	if err := validateGoal(userID, goalText); err != nil {
		return models.Goal{}, err
	}

	var goal models.Goal
	err := s.db.QueryRow(ctx,
		`INSERT INTO goals (user_id, goal_text)
		 VALUES ($1, $2)
		 RETURNING id, user_id, goal_text, status, created_at`,
		userID, goalText,
	).Scan(&goal.ID, &goal.UserID, &goal.GoalText, &goal.Status, &goal.CreatedAt)

	return goal, err
}

// LatestGoal возвращает последнюю сохраненную цель пользователя.
func (s *PostgresStore) LatestGoal(ctx context.Context, userID string) (models.Goal, error) {
	var goal models.Goal
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, goal_text, status, created_at
		 FROM goals
		 WHERE user_id = $1
		 ORDER BY id DESC
		 LIMIT 1`,
		userID,
	).Scan(&goal.ID, &goal.UserID, &goal.GoalText, &goal.Status, &goal.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Goal{}, ErrNotFound
		}
		return models.Goal{}, err
	}

	return goal, nil
}

// SaveChallenge сохраняет выданный пользователю челлендж.
func (s *PostgresStore) SaveChallenge(ctx context.Context, challenge models.Challenge) (models.Challenge, error) {
	if err := validateChallenge(challenge); err != nil {
		return models.Challenge{}, err
	}

	challenge = challengeDefaults(challenge)
	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO challenges
		 (id, user_id, challenge_text, difficulty, category, xp_reward, time_to_complete, source, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		challenge.ID,
		challenge.UserID,
		challenge.ChallengeText,
		challenge.Difficulty,
		challenge.Category,
		challenge.XPReward,
		challenge.TimeToComplete,
		challenge.Source,
		challenge.Status,
	).Scan(&challenge.CreatedAt)

	return challenge, err
}

// ListChallenges возвращает последние челленджи пользователя, новые первыми.
func (s *PostgresStore) ListChallenges(ctx context.Context, userID string, limit int) ([]models.Challenge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, challenge_text, difficulty, category, xp_reward, time_to_complete, source, status, created_at
		 FROM challenges
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, resolveChallengeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := make([]models.Challenge, 0)
	for rows.Next() {
		var challenge models.Challenge

		err := rows.Scan(
			&challenge.ID,
			&challenge.UserID,
			&challenge.ChallengeText,
			&challenge.Difficulty,
			&challenge.Category,
			&challenge.XPReward,
			&challenge.TimeToComplete,
			&challenge.Source,
			&challenge.Status,
			&challenge.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		challenges = append(challenges, challenge)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return challenges, nil
}

// LogGeneration сохраняет лог обращения к модели.
func (s *PostgresStore) LogGeneration(ctx context.Context, log models.GenerationLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO generation_logs
		 (id, user_id, kind, provider, model, prompt, raw_response, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`,
		log.ID,
		log.UserID,
		log.Kind,
		log.Provider,
		log.Model,
		log.Prompt,
		string(log.RawResponse),
		log.Success,
		log.ErrorMessage,
	)
	return err
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
