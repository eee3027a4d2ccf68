package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"example.com/bankquest/backend/internal/ai"
	"example.com/bankquest/backend/internal/models"
	"example.com/bankquest/backend/internal/repository"
)

const (
	defaultUpstreamTimeout = 2 * time.Second
	defaultRecentLimit     = 20
	minorUnitExponent      = -2
)

var demoBalance = decimal.RequireFromString("1500.00")

// GoalReader отдает последнюю цель пользователя.
type GoalReader interface {
	LatestGoal(ctx context.Context, userID string) (models.Goal, error)
}

type Options struct {
	BalanceURL        string
	HistoryURL        string
	Timeout           time.Duration
	DemoUserID        string
	SyntheticFallback bool
	RecentLimit       int
	HTTPClient        *http.Client
}

// Profile финансовые данные пользователя в основных единицах валюты.
type Profile struct {
	UserID           string
	Balance          decimal.Decimal
	Transactions     []ai.Transaction
	Recent           []ai.Transaction
	TransactionCount int
	RecentSpending   decimal.Decimal
	Goal             *models.Goal
	Synthetic        bool
}

// Snapshot преобразует профиль во вход шлюза генерации.
func (p Profile) Snapshot() ai.FinancialSnapshot {
	snapshot := ai.FinancialSnapshot{
		Balance:            p.Balance,
		RecentTransactions: p.Recent,
		TransactionCount:   p.TransactionCount,
		RecentSpending:     p.RecentSpending,
	}
	if p.Goal != nil {
		goalText := p.Goal.GoalText
		snapshot.UserGoal = &goalText
	}

	return snapshot
}

// GoalText возвращает текст цели или nil.
func (p Profile) GoalText() *string {
	if p.Goal == nil {
		return nil
	}

	goalText := p.Goal.GoalText
	return &goalText
}

type Assembler struct {
	balanceURL        string
	historyURL        string
	timeout           time.Duration
	demoUserID        string
	syntheticFallback bool
	recentLimit       int
	httpClient        *http.Client
	goals             GoalReader
	logger            *slog.Logger
}

// NewAssembler создает сборщик профиля. goals может быть nil.
func NewAssembler(opts Options, goals GoalReader, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}

	recentLimit := opts.RecentLimit
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Assembler{
		balanceURL:        strings.TrimRight(opts.BalanceURL, "/"),
		historyURL:        strings.TrimRight(opts.HistoryURL, "/"),
		timeout:           timeout,
		demoUserID:        opts.DemoUserID,
		syntheticFallback: opts.SyntheticFallback,
		recentLimit:       recentLimit,
		httpClient:        httpClient,
		goals:             goals,
		logger:            logger,
	}
}

// Assemble собирает профиль пользователя. Ошибки вышестоящих сервисов
// не возвращаются: вместо них подставляются нулевые или синтетические данные.
func (a *Assembler) Assemble(ctx context.Context, userID, authorization string) Profile {
	profile := Profile{UserID: userID}

	balance, transactions, err := a.fetch(ctx, userID, authorization)
	switch {
	case err == nil:
		profile.Balance = balance
		profile.Transactions = transactions
	case a.syntheticFallback:
		a.logger.Warn("upstream unavailable, using synthetic profile",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		profile.Balance, profile.Transactions = syntheticProfile()
		profile.Synthetic = true
	default:
		a.logger.Warn("upstream unavailable",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	if userID != "" && userID == a.demoUserID {
		if profile.Balance.IsZero() {
			profile.Balance = demoBalance
		}
		if len(profile.Transactions) == 0 {
			profile.Transactions = demoTransactions(userID)
		}
	}

	profile.TransactionCount = len(profile.Transactions)
	profile.Recent = profile.Transactions[:min(len(profile.Transactions), a.recentLimit)]
	profile.RecentSpending = spending(profile.Recent, userID)
	profile.Goal = a.latestGoal(ctx, userID)

	return profile
}

// fetch параллельно запрашивает баланс и историю. Ошибка возвращается
// только при сбое транспорта; неуспешный статус дает нулевые значения.
func (a *Assembler) fetch(ctx context.Context, userID, authorization string) (decimal.Decimal, []ai.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var balance decimal.Decimal
	var transactions []ai.Transaction

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var raw decimal.Decimal
		found, err := a.getJSON(groupCtx, a.balanceURL+"/balances/"+url.PathEscape(userID), authorization, &raw)
		if err != nil {
			return fmt.Errorf("balance: %w", err)
		}
		if found {
			balance = raw.Shift(minorUnitExponent)
		}
		return nil
	})

	group.Go(func() error {
		var raw []upstreamTransaction
		found, err := a.getJSON(groupCtx, a.historyURL+"/transactions/"+url.PathEscape(userID), authorization, &raw)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		if found {
			transactions = convertTransactions(raw)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return decimal.Zero, nil, err
	}

	return balance, transactions, nil
}

func (a *Assembler) getJSON(ctx context.Context, endpoint, authorization string, target any) (bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}

	response, err := a.httpClient.Do(request)
	if err != nil {
		return false, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		a.logger.Warn("upstream returned non-success status",
			slog.String("endpoint", endpoint),
			slog.Int("status", response.StatusCode),
		)
		return false, nil
	}

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		a.logger.Warn("upstream response decode failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return false, nil
	}

	return true, nil
}

func (a *Assembler) latestGoal(ctx context.Context, userID string) *models.Goal {
	if a.goals == nil {
		return nil
	}

	goal, err := a.goals.LatestGoal(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			a.logger.Warn("load latest goal failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	return &goal
}
