package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"example.com/bankquest/backend/internal/models"
	"example.com/bankquest/backend/internal/repository"
)

type stubGoals struct {
	goal models.Goal
	err  error
}

func (s stubGoals) LatestGoal(ctx context.Context, userID string) (models.Goal, error) {
	return s.goal, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newUpstream(t *testing.T, balance any, history any, status int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("expected forwarded authorization, got %q", r.Header.Get("Authorization"))
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/balances/alice" || r.URL.Path == "/balances/demo_user":
			_ = json.NewEncoder(w).Encode(balance)
		case r.URL.Path == "/transactions/alice" || r.URL.Path == "/transactions/demo_user":
			_ = json.NewEncoder(w).Encode(history)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestAssembler(url string, synthetic bool, goals GoalReader) *Assembler {
	return NewAssembler(Options{
		BalanceURL:        url,
		HistoryURL:        url,
		Timeout:           time.Second,
		DemoUserID:        "demo_user",
		SyntheticFallback: synthetic,
	}, goals, discardLogger())
}

// TestAssembleConvertsMinorUnits проверяет перевод центов в доллары и расчет трат.
func TestAssembleConvertsMinorUnits(t *testing.T) {
	history := []map[string]any{
		{"fromAccountNum": "alice", "toAccountNum": "1011226112", "amount": 1250, "description": "Groceries"},
		{"fromAccountNum": "9999", "toAccountNum": "alice", "amount": 100000, "description": "Salary"},
		{"fromAccountNum": "alice", "toAccountNum": "alice", "amount": 5000},
		{"amount": -799, "description": "Card fee"},
	}
	server := newUpstream(t, 123456, history, http.StatusOK)

	goal := models.Goal{ID: 7, UserID: "alice", GoalText: "Save $500 for vacation", Status: models.GoalStatusActive}
	profile := newTestAssembler(server.URL, true, stubGoals{goal: goal}).Assemble(context.Background(), "alice", "Bearer token")

	if !profile.Balance.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("expected balance 1234.56, got %s", profile.Balance)
	}
	if profile.TransactionCount != 4 || len(profile.Recent) != 4 {
		t.Fatalf("unexpected transaction counts: %d/%d", profile.TransactionCount, len(profile.Recent))
	}
	if !profile.RecentSpending.Equal(decimal.RequireFromString("20.49")) {
		t.Fatalf("expected spending 20.49, got %s", profile.RecentSpending)
	}
	if profile.Synthetic {
		t.Fatal("expected real profile")
	}

	snapshot := profile.Snapshot()
	if snapshot.UserGoal == nil || *snapshot.UserGoal != goal.GoalText {
		t.Fatalf("expected goal in snapshot, got %v", snapshot.UserGoal)
	}
}

// TestAssembleSyntheticOnTransportFailure проверяет синтетический профиль при недоступном сервисе.
func TestAssembleSyntheticOnTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	profile := newTestAssembler(url, true, nil).Assemble(context.Background(), "alice", "Bearer token")
	if !profile.Synthetic {
		t.Fatal("expected synthetic profile")
	}
	if !profile.Balance.Equal(decimal.RequireFromString("2500")) {
		t.Fatalf("expected synthetic balance 2500, got %s", profile.Balance)
	}
	if profile.TransactionCount != 3 || !profile.RecentSpending.Equal(decimal.RequireFromString("180.99")) {
		t.Fatalf("unexpected synthetic data: count=%d spending=%s", profile.TransactionCount, profile.RecentSpending)
	}

	bare := newTestAssembler(url, false, nil).Assemble(context.Background(), "alice", "Bearer token")
	if bare.Synthetic || !bare.Balance.IsZero() || bare.TransactionCount != 0 {
		t.Fatalf("expected empty profile, got %+v", bare)
	}
}

// TestAssembleNonSuccessStatus проверяет нулевые значения при ошибочном статусе.
func TestAssembleNonSuccessStatus(t *testing.T) {
	server := newUpstream(t, nil, nil, http.StatusUnauthorized)

	profile := newTestAssembler(server.URL, true, nil).Assemble(context.Background(), "alice", "Bearer token")
	if profile.Synthetic || !profile.Balance.IsZero() || profile.TransactionCount != 0 {
		t.Fatalf("expected zero profile, got %+v", profile)
	}
}

// TestAssembleDemoUser проверяет демо-данные для пустого демо-пользователя.
func TestAssembleDemoUser(t *testing.T) {
	server := newUpstream(t, 0, []any{}, http.StatusOK)

	profile := newTestAssembler(server.URL, true, nil).Assemble(context.Background(), "demo_user", "Bearer token")
	if !profile.Balance.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("expected demo balance, got %s", profile.Balance)
	}
	if profile.TransactionCount != 3 {
		t.Fatalf("expected 3 demo transactions, got %d", profile.TransactionCount)
	}
	if !profile.Transactions[0].Amount.Equal(decimal.RequireFromString("2500")) {
		t.Fatalf("expected deposit of 2500, got %s", profile.Transactions[0].Amount)
	}
	if !profile.RecentSpending.Equal(decimal.RequireFromString("225")) {
		t.Fatalf("expected spending 225, got %s", profile.RecentSpending)
	}
}

// TestAssembleRecentLimit проверяет ограничение списка последних транзакций.
func TestAssembleRecentLimit(t *testing.T) {
	history := make([]map[string]any, 0, 25)
	for i := 0; i < 25; i++ {
		history = append(history, map[string]any{"amount": -100, "description": fmt.Sprintf("tx %d", i)})
	}
	server := newUpstream(t, 1000, history, http.StatusOK)

	profile := newTestAssembler(server.URL, false, nil).Assemble(context.Background(), "alice", "Bearer token")
	if profile.TransactionCount != 25 || len(profile.Recent) != defaultRecentLimit {
		t.Fatalf("expected 25 total and %d recent, got %d/%d", defaultRecentLimit, profile.TransactionCount, len(profile.Recent))
	}
	if !profile.RecentSpending.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected spending 20, got %s", profile.RecentSpending)
	}
}

// TestAssembleGoalErrors проверяет, что ошибки хранилища целей не ломают профиль.
func TestAssembleGoalErrors(t *testing.T) {
	server := newUpstream(t, 0, []any{}, http.StatusOK)

	for _, err := range []error{repository.ErrNotFound, errors.New("disk full")} {
		profile := newTestAssembler(server.URL, false, stubGoals{err: err}).Assemble(context.Background(), "alice", "Bearer token")
		if profile.Goal != nil || profile.GoalText() != nil {
			t.Fatalf("expected no goal for %v", err)
		}
	}
}
