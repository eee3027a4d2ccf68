package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/bankquest/backend/internal/ai"
	"example.com/bankquest/backend/internal/notifications"
	"example.com/bankquest/backend/internal/repository"
)

type GoalHandler struct {
	Service  *ai.Service
	Store    repository.Store
	Notifier *notifications.Hub
	Logs     *GenerationLogger
}

// NewGoalHandler создает обработчик целей пользователя.
func NewGoalHandler(service *ai.Service, store repository.Store, notifier *notifications.Hub, logs *GenerationLogger) *GoalHandler {
	return &GoalHandler{
		Service:  service,
		Store:    store,
		Notifier: notifier,
		Logs:     logs,
	}
}

type SetGoalRequest struct {
	Goal string `json:"goal"`
}

type SetGoalResponse struct {
	Message    string        `json:"message"`
	UserID     string        `json:"user_id"`
	Goal       string        `json:"goal"`
	ParsedGoal ai.ParsedGoal `json:"parsed_goal"`
}

type GoalResponse struct {
	Goal       *string        `json:"goal"`
	CreatedAt  *time.Time     `json:"created_at"`
	Status     *string        `json:"status"`
	ParsedGoal *ai.ParsedGoal `json:"parsed_goal"`
	Error      string         `json:"error,omitempty"`
}

// Set сохраняет новую цель и возвращает ее разбор.
func (h *GoalHandler) Set(c echo.Context) error {
	var req SetGoalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Goal is required")
	}

	goalText := strings.TrimSpace(req.Goal)
	if goalText == "" {
		return badRequest(c, "Goal is required")
	}

	ctx := c.Request().Context()
	userID := c.Param("userId")

	parsed := h.Service.ParseGoal(ctx, goalText)
	logGeneration(ctx, h.Logs, userID, parsed)

	if _, err := h.Store.SetGoal(ctx, userID, goalText); err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "Goal is required")
		}
		slog.Error("store goal failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return serverError(c)
	}

	if h.Notifier != nil {
		h.Notifier.Publish(userID, notifications.Event{
			Type: notifications.EventGoalSet,
			Data: parsed.Content,
		})
	}

	return c.JSON(http.StatusOK, SetGoalResponse{
		Message:    "Goal set successfully",
		UserID:     userID,
		Goal:       goalText,
		ParsedGoal: parsed.Content,
	})
}

// Get возвращает последнюю цель. Ошибки хранилища отдаются пустым телом со статусом 200.
func (h *GoalHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("userId")

	goal, err := h.Store.LatestGoal(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, GoalResponse{})
		}
		slog.Warn("load goal failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return c.JSON(http.StatusOK, GoalResponse{Error: err.Error()})
	}

	parsed := h.Service.ParseGoal(ctx, goal.GoalText)
	logGeneration(ctx, h.Logs, userID, parsed)

	status := string(goal.Status)
	createdAt := goal.CreatedAt

	return c.JSON(http.StatusOK, GoalResponse{
		Goal:       &goal.GoalText,
		CreatedAt:  &createdAt,
		Status:     &status,
		ParsedGoal: &parsed.Content,
	})
}
