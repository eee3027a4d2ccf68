package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/bankquest/backend/internal/ai"
	"example.com/bankquest/backend/internal/auth"
)

type GamificationHandler struct {
	Service  *ai.Service
	Profiles ProfileSource
	Logs     *GenerationLogger
}

// NewGamificationHandler создает обработчик значков, серий, рейтинга и заданий.
func NewGamificationHandler(service *ai.Service, profiles ProfileSource, logs *GenerationLogger) *GamificationHandler {
	return &GamificationHandler{
		Service:  service,
		Profiles: profiles,
		Logs:     logs,
	}
}

type AchievementsQuery struct {
	XP                  int `query:"xp" validate:"gte=0"`
	Level               int `query:"level" validate:"gte=1"`
	CompletedChallenges int `query:"completed_challenges" validate:"gte=0"`
	Streak              int `query:"streak" validate:"gte=0"`
	DaysActive          int `query:"days_active" validate:"gte=0"`
	GoalsSet            int `query:"goals_set" validate:"gte=0"`
}

type StreakQuery struct {
	CurrentStreak  int    `query:"current_streak" validate:"gte=0"`
	LongestStreak  int    `query:"longest_streak" validate:"gte=0"`
	LastChallenge  string `query:"last_challenge" validate:"max=200"`
	RecentProgress string `query:"recent_progress" validate:"max=200"`
}

type LeaderboardQuery struct {
	Position         int `query:"position" validate:"gte=1"`
	XP               int `query:"xp" validate:"gte=0"`
	Level            int `query:"level" validate:"gte=1"`
	WeeklyChallenges int `query:"weekly_challenges" validate:"gte=0"`
}

type GoalEmojiRequest struct {
	Goal string `json:"goal"`
}

// Achievements возвращает значки пользователя по статистике из query.
func (h *GamificationHandler) Achievements(c echo.Context) error {
	query := AchievementsQuery{Level: 1, DaysActive: 1}
	if err := bindQuery(c, &query); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	result := h.Service.GenerateAchievements(ctx, ai.AchievementStats{
		XP:                  query.XP,
		Level:               query.Level,
		CompletedChallenges: query.CompletedChallenges,
		Streak:              query.Streak,
		DaysActive:          query.DaysActive,
		GoalsSet:            query.GoalsSet,
	})
	logGeneration(ctx, h.Logs, c.Param("userId"), result)

	return c.JSON(http.StatusOK, result.Content)
}

// StreakMessage возвращает мотивационное сообщение для серии.
func (h *GamificationHandler) StreakMessage(c echo.Context) error {
	query := StreakQuery{LastChallenge: "None", RecentProgress: "New user"}
	if err := bindQuery(c, &query); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	result := h.Service.GenerateStreakMessage(ctx, ai.StreakStats{
		CurrentStreak:  query.CurrentStreak,
		LongestStreak:  query.LongestStreak,
		LastChallenge:  query.LastChallenge,
		RecentProgress: query.RecentProgress,
	})
	logGeneration(ctx, h.Logs, c.Param("userId"), result)

	return c.JSON(http.StatusOK, result.Content)
}

// LeaderboardContext возвращает тексты для позиции пользователя в рейтинге.
func (h *GamificationHandler) LeaderboardContext(c echo.Context) error {
	query := LeaderboardQuery{Position: 1, Level: 1}
	if err := bindQuery(c, &query); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	result := h.Service.GenerateLeaderboardContext(ctx, ai.LeaderboardStats{
		Position:         query.Position,
		XP:               query.XP,
		Level:            query.Level,
		WeeklyChallenges: query.WeeklyChallenges,
	})
	logGeneration(ctx, h.Logs, c.Param("userId"), result)

	return c.JSON(http.StatusOK, result.Content)
}

// GoalEmoji подбирает эмодзи для текста цели. Пустая цель получает эмодзи по умолчанию.
func (h *GamificationHandler) GoalEmoji(c echo.Context) error {
	var req GoalEmojiRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, ai.GoalEmoji{Emoji: ai.DefaultGoalEmoji})
	}

	goalText := strings.TrimSpace(req.Goal)
	if goalText == "" {
		return c.JSON(http.StatusOK, ai.GoalEmoji{Emoji: ai.DefaultGoalEmoji})
	}

	ctx := c.Request().Context()
	result := h.Service.GenerateGoalEmoji(ctx, goalText)
	logGeneration(ctx, h.Logs, "", result)

	return c.JSON(http.StatusOK, result.Content)
}

// AdditionalTasks предлагает дополнительные задания по финансовому профилю.
func (h *GamificationHandler) AdditionalTasks(c echo.Context) error {
	authorization, ok := auth.AuthorizationFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	ctx := c.Request().Context()
	userID := c.Param("userId")

	userProfile := h.Profiles.Assemble(ctx, userID, authorization)
	result := h.Service.GenerateAdditionalTasks(ctx, userProfile.Snapshot())
	logGeneration(ctx, h.Logs, userID, result)

	return c.JSON(http.StatusOK, result.Content)
}

var (
	errInvalidQuery    = errors.New("invalid query parameters")
	errValidationQuery = errors.New("validation failed")
)

// bindQuery заполняет только переданные параметры, значения по умолчанию остаются в target.
func bindQuery(c echo.Context, target interface{}) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, target); err != nil {
		return errInvalidQuery
	}
	if err := c.Validate(target); err != nil {
		return errValidationQuery
	}

	return nil
}
