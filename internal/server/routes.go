package server

import (
	"github.com/labstack/echo/v4"

	"example.com/bankquest/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	version string,
	profileHandler *handlers.ProfileHandler,
	goalHandler *handlers.GoalHandler,
	challengeHandler *handlers.ChallengeHandler,
	gamificationHandler *handlers.GamificationHandler,
	notificationHandler *handlers.NotificationHandler,
	authMiddleware echo.MiddlewareFunc,
	rateLimiter echo.MiddlewareFunc,
) {
	e.GET("/ready", handlers.Ready)
	e.GET("/health", handlers.Health)
	e.GET("/version", handlers.Version(version))

	e.GET("/user-profile/:userId", profileHandler.Get, rateLimiter, authMiddleware)

	e.POST("/goals/:userId", goalHandler.Set, rateLimiter)
	e.GET("/goals/:userId", goalHandler.Get, rateLimiter)

	e.GET("/challenges/:userId", challengeHandler.Generate, rateLimiter, authMiddleware)
	e.GET("/challenges/:userId/history", challengeHandler.History, rateLimiter)

	e.GET("/achievements/:userId", gamificationHandler.Achievements, rateLimiter)
	e.GET("/streak-message/:userId", gamificationHandler.StreakMessage, rateLimiter)
	e.GET("/leaderboard-context/:userId", gamificationHandler.LeaderboardContext, rateLimiter)
	e.POST("/generate-emoji", gamificationHandler.GoalEmoji, rateLimiter)
	e.GET("/additional-tasks/:userId", gamificationHandler.AdditionalTasks, rateLimiter, authMiddleware)

	e.GET("/notifications/:userId/stream", notificationHandler.Stream)
}
