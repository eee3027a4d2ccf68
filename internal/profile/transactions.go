package profile

import (
	"github.com/shopspring/decimal"

	"example.com/bankquest/backend/internal/ai"
)

// upstreamTransaction формат истории транзакций; суммы в минорных единицах.
type upstreamTransaction struct {
	TransactionID  string          `json:"transactionId,omitempty"`
	FromAccountNum string          `json:"fromAccountNum"`
	ToAccountNum   string          `json:"toAccountNum"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	Timestamp      string          `json:"timestamp,omitempty"`
}

func convertTransactions(raw []upstreamTransaction) []ai.Transaction {
	out := make([]ai.Transaction, 0, len(raw))
	for _, item := range raw {
		out = append(out, ai.Transaction{
			Amount:      item.Amount.Shift(minorUnitExponent),
			Description: item.Description,
			FromAccount: item.FromAccountNum,
			ToAccount:   item.ToAccountNum,
		})
	}

	return out
}

// spending суммирует модули списаний. Списанием считается отрицательная сумма
// или перевод со счета пользователя на чужой счет.
func spending(transactions []ai.Transaction, userID string) decimal.Decimal {
	total := decimal.Zero
	for _, transaction := range transactions {
		if isDebit(transaction, userID) {
			total = total.Add(transaction.Amount.Abs())
		}
	}

	return total
}

func isDebit(transaction ai.Transaction, userID string) bool {
	if transaction.Amount.IsNegative() {
		return true
	}

	return userID != "" &&
		transaction.FromAccount == userID &&
		transaction.ToAccount != "" &&
		transaction.ToAccount != userID
}

func syntheticProfile() (decimal.Decimal, []ai.Transaction) {
	raw := []upstreamTransaction{
		{Amount: decimal.NewFromInt(-1599), Description: "Coffee"},
		{Amount: decimal.NewFromInt(-4500), Description: "Shopping"},
		{Amount: decimal.NewFromInt(-12000), Description: "Utilities"},
	}

	return decimal.NewFromInt(250000).Shift(minorUnitExponent), convertTransactions(raw)
}

func demoTransactions(userID string) []ai.Transaction {
	raw := []upstreamTransaction{
		{Amount: decimal.NewFromInt(250000), FromAccountNum: userID, ToAccountNum: userID, Description: "Initial deposit"},
		{Amount: decimal.NewFromInt(-15000), FromAccountNum: userID, ToAccountNum: "1011226112", Description: "Coffee purchase"},
		{Amount: decimal.NewFromInt(-7500), FromAccountNum: userID, ToAccountNum: "1011226113", Description: "Lunch"},
	}

	return convertTransactions(raw)
}
