package ai

import "github.com/shopspring/decimal"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	CategorySaveMoney     = "save_money"
	CategoryInvestMoney   = "invest_money"
	CategorySpendLess     = "spend_less"
	CategoryTrackExpenses = "track_expenses"
	CategoryEarnMore      = "earn_more"

	GoalCategorySaving    = "saving"
	GoalCategoryInvesting = "investing"
	GoalCategoryBudgeting = "budgeting"
	GoalCategoryDebt      = "debt"
	GoalCategoryEmergency = "emergency"
	GoalCategoryVacation  = "vacation"
	GoalCategoryGeneral   = "general"

	EncouragementLow    = "low"
	EncouragementMedium = "medium"
	EncouragementHigh   = "high"

	DefaultGoalEmoji = "💰"
)

type Transaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	FromAccount string          `json:"from_account,omitempty"`
	ToAccount   string          `json:"to_account,omitempty"`
}

// FinancialSnapshot is assembled per request by the caller.
type FinancialSnapshot struct {
	Balance            decimal.Decimal
	RecentTransactions []Transaction
	TransactionCount   int
	RecentSpending     decimal.Decimal
	UserGoal           *string
}

type AchievementStats struct {
	XP                  int `json:"xp"`
	Level               int `json:"level"`
	CompletedChallenges int `json:"completed_challenges"`
	Streak              int `json:"streak"`
	DaysActive          int `json:"days_active"`
	GoalsSet            int `json:"goals_set"`
}

type StreakStats struct {
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	LastChallenge  string `json:"last_challenge"`
	RecentProgress string `json:"recent_progress"`
}

type LeaderboardStats struct {
	Position         int `json:"position"`
	XP               int `json:"xp"`
	Level            int `json:"level"`
	WeeklyChallenges int `json:"weekly_challenges"`
}

type ChallengeContent struct {
	Title              string   `json:"title,omitempty"`
	Challenge          string   `json:"challenge" validate:"required"`
	Difficulty         string   `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Category           string   `json:"category" validate:"required,oneof=save_money invest_money spend_less track_expenses earn_more"`
	XPReward           int      `json:"xp_reward" validate:"gt=0"`
	TimeToComplete     string   `json:"time_to_complete" validate:"required"`
	GoalRecommendation string   `json:"goal_recommendation" validate:"required"`
	Tips               []string `json:"tips" validate:"len=3,dive,required"`
}

type ParsedGoal struct {
	Amount      float64 `json:"amount" validate:"gte=0"`
	Emoji       string  `json:"emoji" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required,oneof=saving investing budgeting debt emergency vacation general"`
	RawText     string  `json:"raw_text"`
}

type Achievement struct {
	ID              string `json:"id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Emoji           string `json:"emoji" validate:"required"`
	Description     string `json:"description" validate:"required"`
	Unlocked        bool   `json:"unlocked"`
	UnlockedMessage string `json:"unlocked_message,omitempty"`
}

type Milestone struct {
	Name        string  `json:"name" validate:"required"`
	Emoji       string  `json:"emoji" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Progress    float64 `json:"progress" validate:"gte=0,lte=1"`
	Requirement string  `json:"requirement" validate:"required"`
}

type AchievementSet struct {
	Achievements  []Achievement `json:"achievements" validate:"required,min=1,dive"`
	NextMilestone *Milestone    `json:"next_milestone" validate:"omitempty"`
}

type StreakMessage struct {
	MotivationalMessage string `json:"motivational_message" validate:"required"`
	StreakMilestone     string `json:"streak_milestone,omitempty"`
	NextGoal            string `json:"next_goal" validate:"required"`
	Emoji               string `json:"emoji" validate:"required"`
	EncouragementLevel  string `json:"encouragement_level" validate:"required,oneof=low medium high"`
}

type LeaderboardContext struct {
	PositionMessage   string `json:"position_message" validate:"required"`
	ImprovementTip    string `json:"improvement_tip" validate:"required"`
	WeeklyGoal        string `json:"weekly_goal" validate:"required"`
	CompetitorInsight string `json:"competitor_insight" validate:"required"`
	MotivationBoost   string `json:"motivation_boost" validate:"required"`
}

type GoalEmoji struct {
	Emoji string `json:"emoji" validate:"required,max=32"`
}

type Task struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=save_money invest_money spend_less track_expenses earn_more"`
	XPReward    int    `json:"xp_reward" validate:"gt=0"`
}

type TaskList struct {
	Tasks []Task `json:"tasks" validate:"required,min=1,max=5,dive"`
}
