package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// Health возвращает простой статус сервиса.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready отвечает на проверку готовности.
func Ready(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Version возвращает обработчик, отдающий версию сборки текстом.
func Version(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, version)
	}
}
