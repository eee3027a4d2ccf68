package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/bankquest/backend/internal/ai"
	"example.com/bankquest/backend/internal/auth"
	"example.com/bankquest/backend/internal/models"
	"example.com/bankquest/backend/internal/notifications"
	"example.com/bankquest/backend/internal/repository"
)

type ChallengeHandler struct {
	Service  *ai.Service
	Profiles ProfileSource
	Store    repository.Store
	Notifier *notifications.Hub
	Logs     *GenerationLogger
}

// NewChallengeHandler создает обработчик персональных челленджей.
func NewChallengeHandler(service *ai.Service, profiles ProfileSource, store repository.Store, notifier *notifications.Hub, logs *GenerationLogger) *ChallengeHandler {
	return &ChallengeHandler{
		Service:  service,
		Profiles: profiles,
		Store:    store,
		Notifier: notifier,
		Logs:     logs,
	}
}

type ChallengeResponse struct {
	ChallengeID        uuid.UUID `json:"challenge_id"`
	Title              string    `json:"title"`
	Challenge          string    `json:"challenge"`
	Difficulty         string    `json:"difficulty"`
	Category           string    `json:"category"`
	XPReward           int       `json:"xp_reward"`
	TimeToComplete     string    `json:"time_to_complete"`
	GoalRecommendation string    `json:"goal_recommendation"`
	Tips               []string  `json:"tips"`
	Source             ai.Source `json:"source"`
	UserGoal           *string   `json:"user_goal"`
	UserBalance        float64   `json:"user_balance"`
	TransactionCount   int       `json:"transaction_count"`
	RecentSpending     float64   `json:"recent_spending"`
}

type ChallengeHistoryQuery struct {
	Limit int `query:"limit" validate:"gte=0,lte=100"`
}

type ChallengeHistoryResponse struct {
	Challenges []models.Challenge `json:"challenges"`
}

// Generate создает челлендж по финансовому профилю, сохраняет его и уведомляет подписчиков.
func (h *ChallengeHandler) Generate(c echo.Context) error {
	authorization, ok := auth.AuthorizationFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	ctx := c.Request().Context()
	userID := c.Param("userId")

	userProfile := h.Profiles.Assemble(ctx, userID, authorization)
	result := h.Service.GenerateChallenge(ctx, userProfile.Snapshot())
	logGeneration(ctx, h.Logs, userID, result)

	content := result.Content
	saved, err := h.Store.SaveChallenge(ctx, models.Challenge{
		UserID:         userID,
		ChallengeText:  content.Challenge,
		Difficulty:     content.Difficulty,
		Category:       content.Category,
		XPReward:       content.XPReward,
		TimeToComplete: content.TimeToComplete,
		Source:         models.ContentSource(result.Source),
	})
	if err != nil {
		slog.Error("store challenge failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return serverError(c)
	}

	if h.Notifier != nil {
		h.Notifier.Publish(userID, notifications.Event{
			Type: notifications.EventChallengeGenerated,
			Data: map[string]interface{}{
				"challenge_id": saved.ID.String(),
				"title":        content.Title,
				"xp_reward":    content.XPReward,
				"source":       string(result.Source),
			},
		})
	}

	return c.JSON(http.StatusOK, ChallengeResponse{
		ChallengeID:        saved.ID,
		Title:              content.Title,
		Challenge:          content.Challenge,
		Difficulty:         content.Difficulty,
		Category:           content.Category,
		XPReward:           content.XPReward,
		TimeToComplete:     content.TimeToComplete,
		GoalRecommendation: content.GoalRecommendation,
		Tips:               content.Tips,
		Source:             result.Source,
		UserGoal:           userProfile.GoalText(),
		UserBalance:        userProfile.Balance.InexactFloat64(),
		TransactionCount:   userProfile.TransactionCount,
		RecentSpending:     userProfile.RecentSpending.InexactFloat64(),
	})
}

// History возвращает ранее выданные челленджи пользователя.
func (h *ChallengeHandler) History(c echo.Context) error {
	var query ChallengeHistoryQuery
	if err := bindQuery(c, &query); err != nil {
		return badRequest(c, err.Error())
	}

	userID := c.Param("userId")
	challenges, err := h.Store.ListChallenges(c.Request().Context(), userID, query.Limit)
	if err != nil {
		slog.Error("list challenges failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return serverError(c)
	}

	return c.JSON(http.StatusOK, ChallengeHistoryResponse{Challenges: challenges})
}
