package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Generation результат одного обращения к шлюзу.
// Err заполняется только для диагностики: Content всегда валиден.
type Generation[T any] struct {
	Content T
	Source  Source
	Kind    ContentKind
	Prompt  string
	Raw     []byte
	Err     error
}

type Service struct {
	client  Client
	parser  *Parser
	timeout time.Duration
	logger  *slog.Logger
}

// NewService создает шлюз генерации контента.
// client может быть nil: тогда всегда используется статический контент.
func NewService(client Client, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		client:  client,
		parser:  NewParser(),
		timeout: resolveTimeout(timeout),
		logger:  logger,
	}
}

// GenerateChallenge создает персональный челлендж по снимку финансов.
func (s *Service) GenerateChallenge(ctx context.Context, snapshot FinancialSnapshot) Generation[ChallengeContent] {
	prompt, err := buildChallengePrompt(snapshot)
	return generate(ctx, s, KindChallenge, prompt, err, func() ChallengeContent {
		return FallbackChallenge(snapshot)
	})
}

// ParseGoal извлекает сумму, эмодзи, описание и категорию из текста цели.
func (s *Service) ParseGoal(ctx context.Context, goalText string) Generation[ParsedGoal] {
	prompt, err := buildGoalPrompt(goalText)
	result := generate(ctx, s, KindGoal, prompt, err, func() ParsedGoal {
		return FallbackGoal(goalText)
	})
	result.Content.RawText = goalText

	return result
}

// GenerateAchievements возвращает набор значков и следующую веху.
func (s *Service) GenerateAchievements(ctx context.Context, stats AchievementStats) Generation[AchievementSet] {
	prompt, err := buildAchievementsPrompt(stats)
	return generate(ctx, s, KindAchievement, prompt, err, func() AchievementSet {
		return FallbackAchievements(stats)
	})
}

// GenerateStreakMessage возвращает мотивационное сообщение для серии.
func (s *Service) GenerateStreakMessage(ctx context.Context, stats StreakStats) Generation[StreakMessage] {
	prompt, err := buildStreakPrompt(stats)
	return generate(ctx, s, KindStreak, prompt, err, func() StreakMessage {
		return FallbackStreakMessage(stats)
	})
}

// GenerateLeaderboardContext возвращает тексты для позиции в таблице лидеров.
func (s *Service) GenerateLeaderboardContext(ctx context.Context, stats LeaderboardStats) Generation[LeaderboardContext] {
	prompt, err := buildLeaderboardPrompt(stats)
	return generate(ctx, s, KindLeaderboard, prompt, err, func() LeaderboardContext {
		return FallbackLeaderboardContext(stats)
	})
}

// GenerateGoalEmoji подбирает эмодзи для цели.
func (s *Service) GenerateGoalEmoji(ctx context.Context, goalText string) Generation[GoalEmoji] {
	prompt, err := buildGoalEmojiPrompt(goalText)
	return generate(ctx, s, KindGoalEmoji, prompt, err, func() GoalEmoji {
		return FallbackGoalEmoji(goalText)
	})
}

// GenerateAdditionalTasks предлагает дополнительные задания по снимку финансов.
func (s *Service) GenerateAdditionalTasks(ctx context.Context, snapshot FinancialSnapshot) Generation[TaskList] {
	prompt, err := buildTasksPrompt(snapshot)
	return generate(ctx, s, KindTasks, prompt, err, func() TaskList {
		return FallbackTasks(snapshot)
	})
}

func generate[T any](ctx context.Context, s *Service, kind ContentKind, prompt string, promptErr error, fallback func() T) Generation[T] {
	result := Generation[T]{Kind: kind, Prompt: prompt}
	if promptErr != nil {
		return useFallback(s, result, fmt.Errorf("build prompt: %w", promptErr), fallback)
	}

	if s.client == nil {
		return useFallback(s, result, fmt.Errorf("%w: ai client is not configured", ErrTransport), fallback)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: prompt},
	}

	content, raw, err := s.client.Chat(callCtx, messages)
	result.Raw = raw
	if err != nil {
		return useFallback(s, result, fmt.Errorf("%w: %v", ErrTransport, err), fallback)
	}

	parsed, err := s.parser.Parse(kind, content)
	if err != nil {
		return useFallback(s, result, err, fallback)
	}

	typed, ok := parsed.(*T)
	if !ok {
		return useFallback(s, result, fmt.Errorf("%w: unexpected content type %T", ErrValidation, parsed), fallback)
	}

	result.Content = *typed
	result.Source = SourceAI
	s.logger.Info("ai content generated", slog.String("kind", string(kind)))

	return result
}

func useFallback[T any](s *Service, result Generation[T], err error, fallback func() T) Generation[T] {
	result.Content = fallback()
	result.Source = SourceFallback
	result.Err = err

	s.logger.Warn("ai content fallback used",
		slog.String("kind", string(result.Kind)),
		slog.String("reason", failureReason(err)),
		slog.String("error", err.Error()),
	)

	return result
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "prompt"
	}
}
