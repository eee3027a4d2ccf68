package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"example.com/bankquest/backend/internal/ai"
	"example.com/bankquest/backend/internal/config"
)

type rootOptions struct {
	offline bool
	timeout time.Duration
	verbose bool
}

// NewRootCmd создает корневую команду questctl со всеми подкомандами.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "questctl",
		Short:         "Generate BankQuest gamification content from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&opts.offline, "offline", false, "use built-in fallback content without calling the model")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "model call timeout (default from AI_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log gateway decisions to stderr")

	rootCmd.AddCommand(
		newChallengeCmd(opts),
		newGoalCmd(opts),
		newAchievementsCmd(opts),
		newStreakCmd(opts),
		newLeaderboardCmd(opts),
		newEmojiCmd(opts),
		newTasksCmd(opts),
	)

	return rootCmd
}

// newService собирает шлюз по конфигурации окружения.
// В режиме --offline клиент модели не создается, и шлюз отдает запасной контент.
func newService(opts *rootOptions, stderr io.Writer) (*ai.Service, error) {
	level := slog.LevelError
	if opts.verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))

	if opts.offline {
		return ai.NewService(nil, opts.timeout, logger), nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	timeout := cfg.AI.Timeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	client, err := ai.NewClient(cfg.AI.Provider, ai.ClientOptions{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Timeout:     timeout,
		MaxTokens:   cfg.AI.MaxOutputTokens,
		Temperature: cfg.AI.Temperature,
	})
	if err != nil {
		return nil, err
	}

	return ai.NewService(client, timeout, logger), nil
}

type output struct {
	Kind    ai.ContentKind `json:"kind"`
	Source  ai.Source      `json:"source"`
	Content any            `json:"content"`
	Error   string         `json:"error,omitempty"`
}

func printGeneration[T any](w io.Writer, result ai.Generation[T]) error {
	out := output{
		Kind:    result.Kind,
		Source:  result.Source,
		Content: result.Content,
	}
	if result.Err != nil {
		out.Error = result.Err.Error()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(out)
}

type snapshotFlags struct {
	balance  string
	spending string
	count    int
	goal     string
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.balance, "balance", "0", "current balance in major units")
	cmd.Flags().StringVar(&f.spending, "spending", "0", "recent spending in major units")
	cmd.Flags().IntVar(&f.count, "count", 0, "total transaction count")
	cmd.Flags().StringVar(&f.goal, "goal", "", "user goal text")
}

func (f *snapshotFlags) snapshot() (ai.FinancialSnapshot, error) {
	balance, err := decimal.NewFromString(f.balance)
	if err != nil {
		return ai.FinancialSnapshot{}, fmt.Errorf("invalid --balance: %w", err)
	}
	spending, err := decimal.NewFromString(f.spending)
	if err != nil {
		return ai.FinancialSnapshot{}, fmt.Errorf("invalid --spending: %w", err)
	}
	if f.count < 0 {
		return ai.FinancialSnapshot{}, fmt.Errorf("invalid --count: must be non-negative")
	}

	snapshot := ai.FinancialSnapshot{
		Balance:          balance,
		TransactionCount: f.count,
		RecentSpending:   spending.Abs(),
	}
	if goal := strings.TrimSpace(f.goal); goal != "" {
		snapshot.UserGoal = &goal
	}

	return snapshot, nil
}
