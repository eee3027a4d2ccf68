package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/bankquest/backend/internal/ai"
	"example.com/bankquest/backend/internal/models"
	"example.com/bankquest/backend/internal/profile"
	"example.com/bankquest/backend/internal/repository"
)

// ProfileSource собирает финансовый профиль пользователя.
type ProfileSource interface {
	Assemble(ctx context.Context, userID, authorization string) profile.Profile
}

// GenerationLogger пишет обращения к модели в журнал generation_logs.
type GenerationLogger struct {
	Store    repository.Store
	Provider string
	Model    string
}

func (l *GenerationLogger) record(ctx context.Context, userID string, kind ai.ContentKind, prompt string, raw []byte, source ai.Source, err error) {
	if l == nil || l.Store == nil || l.Provider == "none" {
		return
	}

	entry := models.GenerationLog{
		UserID:      userID,
		Kind:        string(kind),
		Provider:    l.Provider,
		Model:       l.Model,
		Prompt:      prompt,
		RawResponse: raw,
		Success:     source == ai.SourceAI,
	}
	if err != nil {
		errMsg := err.Error()
		entry.ErrorMessage = &errMsg
	}

	if logErr := l.Store.LogGeneration(ctx, entry); logErr != nil {
		slog.Warn("store generation log failed",
			slog.String("kind", string(kind)),
			slog.String("user_id", userID),
			slog.String("error", logErr.Error()),
		)
	}
}

func logGeneration[T any](ctx context.Context, logger *GenerationLogger, userID string, result ai.Generation[T]) {
	logger.record(ctx, userID, result.Kind, result.Prompt, result.Raw, result.Source, result.Err)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header required"})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
