package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/bankquest/backend/internal/ai"
	"example.com/bankquest/backend/internal/auth"
)

const profileRecentTransactions = 5

type ProfileHandler struct {
	Profiles ProfileSource
}

// NewProfileHandler создает обработчик профиля пользователя.
func NewProfileHandler(profiles ProfileSource) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles}
}

type TransactionResponse struct {
	Amount         float64 `json:"amount"`
	Description    string  `json:"description,omitempty"`
	FromAccountNum string  `json:"fromAccountNum,omitempty"`
	ToAccountNum   string  `json:"toAccountNum,omitempty"`
}

type ProfileResponse struct {
	UserName           string                `json:"user_name"`
	Balance            float64               `json:"balance"`
	RecentTransactions []TransactionResponse `json:"recent_transactions"`
	UserGoal           *string               `json:"user_goal"`
	TransactionCount   int                   `json:"transaction_count"`
}

// Get возвращает баланс, последние транзакции и цель пользователя.
func (h *ProfileHandler) Get(c echo.Context) error {
	authorization, ok := auth.AuthorizationFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	userID := c.Param("userId")
	userProfile := h.Profiles.Assemble(c.Request().Context(), userID, authorization)

	recent := userProfile.Transactions[:min(len(userProfile.Transactions), profileRecentTransactions)]

	return c.JSON(http.StatusOK, ProfileResponse{
		UserName:           auth.DisplayName(authorization),
		Balance:            userProfile.Balance.InexactFloat64(),
		RecentTransactions: toTransactionResponses(recent),
		UserGoal:           userProfile.GoalText(),
		TransactionCount:   userProfile.TransactionCount,
	})
}

func toTransactionResponses(transactions []ai.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		out = append(out, TransactionResponse{
			Amount:         transaction.Amount.InexactFloat64(),
			Description:    transaction.Description,
			FromAccountNum: transaction.FromAccount,
			ToAccountNum:   transaction.ToAccount,
		})
	}

	return out
}
