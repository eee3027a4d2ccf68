package ai

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	highBalanceThreshold   = decimal.NewFromInt(1000)
	highSpendingThreshold  = decimal.NewFromInt(500)
	busyTransactionsCount  = 10
	weeklyChallengesTarget = 3
)

// FallbackChallenge подбирает статический челлендж по снимку финансов.
// Правила проверяются сверху вниз, срабатывает первое подходящее.
func FallbackChallenge(snapshot FinancialSnapshot) ChallengeContent {
	switch {
	case snapshot.Balance.GreaterThan(highBalanceThreshold):
		return ChallengeContent{
			Title:              "Weekly Saver",
			Challenge:          fmt.Sprintf("Great! You have $%s. Try saving $100 this week!", snapshot.Balance.StringFixed(2)),
			Difficulty:         DifficultyEasy,
			Category:           CategorySaveMoney,
			XPReward:           50,
			TimeToComplete:     "1 week",
			GoalRecommendation: "This helps build your emergency fund",
			Tips:               []string{"Set up automatic transfers", "Track your progress daily", "Celebrate small wins"},
		}
	case snapshot.TransactionCount > busyTransactionsCount:
		return ChallengeContent{
			Title:              "Mindful Spender",
			Challenge:          fmt.Sprintf("You've made %d transactions. Try reducing to 5 this week!", snapshot.TransactionCount),
			Difficulty:         DifficultyMedium,
			Category:           CategorySpendLess,
			XPReward:           75,
			TimeToComplete:     "1 week",
			GoalRecommendation: "Fewer transactions mean less impulse spending",
			Tips:               []string{"Plan purchases in advance", "Use a shopping list", "Wait 24 hours before buying"},
		}
	case snapshot.RecentSpending.GreaterThan(highSpendingThreshold):
		return ChallengeContent{
			Title:              "Spending Freeze",
			Challenge:          fmt.Sprintf("You spent $%s recently. Try to spend under $200 this week!", snapshot.RecentSpending.StringFixed(2)),
			Difficulty:         DifficultyHard,
			Category:           CategorySpendLess,
			XPReward:           100,
			TimeToComplete:     "1 week",
			GoalRecommendation: "Reducing spending helps you reach your financial goals faster",
			Tips:               []string{"Cook at home more", "Cancel unused subscriptions", "Find free entertainment"},
		}
	default:
		return ChallengeContent{
			Title:              "Expense Tracker",
			Challenge:          "Track every expense for the next 3 days!",
			Difficulty:         DifficultyEasy,
			Category:           CategoryTrackExpenses,
			XPReward:           25,
			TimeToComplete:     "3 days",
			GoalRecommendation: "Understanding your spending is the first step to financial control",
			Tips:               []string{"Use a spending app", "Keep receipts", "Review daily"},
		}
	}
}

// FallbackStreakMessage строит мотивационное сообщение по длине серии.
func FallbackStreakMessage(stats StreakStats) StreakMessage {
	current := max(stats.CurrentStreak, 0)

	switch {
	case current == 0:
		return StreakMessage{
			MotivationalMessage: "Every journey starts with a single step. Start a fresh streak today!",
			NextGoal:            "Complete one challenge today to start your streak",
			Emoji:               "🌱",
			EncouragementLevel:  EncouragementLow,
		}
	case current >= 7:
		message := StreakMessage{
			MotivationalMessage: fmt.Sprintf("%d days in a row! Your consistency is paying off.", current),
			StreakMilestone:     "Week-long streak unlocked!",
			NextGoal:            fmt.Sprintf("Push your streak to %d days", current+7-current%7),
			Emoji:               "🔥",
			EncouragementLevel:  EncouragementHigh,
		}
		if current >= stats.LongestStreak {
			message.StreakMilestone = "New personal best streak!"
		}
		return message
	default:
		message := StreakMessage{
			MotivationalMessage: fmt.Sprintf("You're building great financial habits! %d days and counting.", current),
			NextGoal:            "Reach a 7-day streak by completing a challenge every day",
			Emoji:               "🔥",
			EncouragementLevel:  EncouragementMedium,
		}
		if current >= 3 {
			message.StreakMilestone = "3-day streak reached!"
		}
		return message
	}
}

// FallbackLeaderboardContext формирует тексты для таблицы лидеров без модели.
func FallbackLeaderboardContext(stats LeaderboardStats) LeaderboardContext {
	position := max(stats.Position, 1)

	result := LeaderboardContext{
		PositionMessage:   fmt.Sprintf("You're ranked #%d!", position),
		ImprovementTip:    "Complete more challenges to advance",
		WeeklyGoal:        fmt.Sprintf("Try to complete %d challenges this week", weeklyChallengesTarget),
		CompetitorInsight: "You're making great progress",
		MotivationBoost:   "Every challenge makes you stronger!",
	}

	if position == 1 {
		result.PositionMessage = "You're leading the board at #1!"
		result.ImprovementTip = "Keep completing challenges to hold your spot"
	}

	if stats.WeeklyChallenges >= weeklyChallengesTarget {
		result.WeeklyGoal = fmt.Sprintf("You've done %d challenges this week. Aim for %d!", stats.WeeklyChallenges, stats.WeeklyChallenges+1)
	}

	return result
}

var categoryEmoji = map[string]string{
	GoalCategoryVacation:  "🏖️",
	GoalCategoryEmergency: "🛟",
	GoalCategoryDebt:      "💳",
	GoalCategoryInvesting: "📈",
	GoalCategorySaving:    "🐷",
}

// FallbackGoalEmoji берет эмодзи из текста цели или подбирает его по категории.
func FallbackGoalEmoji(goalText string) GoalEmoji {
	if emoji := firstPictograph(goalText); emoji != "" {
		return GoalEmoji{Emoji: emoji}
	}

	if emoji, ok := categoryEmoji[goalCategory(goalText)]; ok {
		return GoalEmoji{Emoji: emoji}
	}

	return GoalEmoji{Emoji: DefaultGoalEmoji}
}

// FallbackTasks предлагает дополнительные задания по снимку финансов.
func FallbackTasks(snapshot FinancialSnapshot) TaskList {
	tasks := []Task{
		{
			Title:       "Review recent transactions",
			Description: fmt.Sprintf("Go through your last %d transactions and tag each one as a need or a want.", len(snapshot.RecentTransactions)),
			Category:    CategoryTrackExpenses,
			XPReward:    20,
		},
	}

	if snapshot.Balance.IsPositive() {
		transfer := snapshot.Balance.Mul(decimal.NewFromFloat(0.05)).Round(0)
		if transfer.LessThan(decimal.NewFromInt(5)) {
			transfer = decimal.NewFromInt(5)
		}
		tasks = append(tasks, Task{
			Title:       "Pay yourself first",
			Description: fmt.Sprintf("Move $%s into savings before any other spending this week.", transfer.StringFixed(0)),
			Category:    CategorySaveMoney,
			XPReward:    40,
		})
	}

	if snapshot.RecentSpending.IsPositive() {
		tasks = append(tasks, Task{
			Title:       "Trim one expense",
			Description: fmt.Sprintf("You spent $%s recently. Find one recurring cost you can cut or pause.", snapshot.RecentSpending.StringFixed(2)),
			Category:    CategorySpendLess,
			XPReward:    30,
		})
	}

	if snapshot.UserGoal != nil && *snapshot.UserGoal != "" {
		tasks = append(tasks, Task{
			Title:       "Plan your goal",
			Description: fmt.Sprintf("Write down three small steps toward \"%s\".", *snapshot.UserGoal),
			Category:    CategorySaveMoney,
			XPReward:    25,
		})
	}

	return TaskList{Tasks: tasks}
}
