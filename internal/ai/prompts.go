package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemInstruction = "You are a friendly financial wellness coach for a banking app. Respond with JSON only, without extra text."

func buildChallengePrompt(snapshot FinancialSnapshot) (string, error) {
	transactions, err := json.Marshal(snapshot.RecentTransactions)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Create a personalized financial challenge for a user with:
- Current balance: $%s
- Recent spending: $%s
- Recent transactions: %s
- Full transaction count: %d
- User goal: %s

Requirements:
- Output JSON only, no code fences, no extra text.
- Schema:
{
  "title": "Short catchy challenge name",
  "challenge": "Specific actionable challenge text",
  "difficulty": "easy" | "medium" | "hard",
  "category": "save_money" | "invest_money" | "spend_less" | "track_expenses" | "earn_more",
  "xp_reward": 50,
  "time_to_complete": "1 day" | "1 week" | "1 month",
  "goal_recommendation": "How this challenge helps achieve their goal",
  "tips": ["Tip 1", "Tip 2", "Tip 3"]
}
- Provide exactly 3 tips.
- xp_reward must be a positive integer.

Categories:
- save_money: Challenges about building savings
- invest_money: Challenges about investing or growing money
- spend_less: Challenges about reducing expenses
- track_expenses: Challenges about monitoring spending
- earn_more: Challenges about increasing income

If the user has a specific goal (like "buy a laptop for $1000"), make the challenge directly related to achieving that goal.
Make the challenge specific to their spending patterns and financial situation.`,
		snapshot.Balance.StringFixed(2),
		snapshot.RecentSpending.StringFixed(2),
		string(transactions),
		snapshot.TransactionCount,
		goalOrDefault(snapshot.UserGoal),
	), nil
}

func buildGoalPrompt(goalText string) (string, error) {
	quoted, err := json.Marshal(goalText)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Parse this financial goal text and extract key information.
Goal: %s

Requirements:
- Output JSON only, no code fences.
- Schema:
{
  "amount": <number without $ symbol, or 0 if no amount found>,
  "emoji": "<most relevant emoji for this goal, or 💰 if none found>",
  "description": "<short description of what the goal is for, or 'goal' if unclear>",
  "category": "saving" | "investing" | "budgeting" | "debt" | "emergency" | "vacation" | "general",
  "raw_text": %s
}

Examples:
- "Save $500 for vacation 🏖️" -> {"amount": 500, "emoji": "🏖️", "description": "vacation", "category": "vacation", "raw_text": "Save $500 for vacation 🏖️"}
- "Build emergency fund 💪" -> {"amount": 0, "emoji": "💪", "description": "emergency fund", "category": "emergency", "raw_text": "Build emergency fund 💪"}
- "Pay off credit card debt" -> {"amount": 0, "emoji": "💳", "description": "credit card debt", "category": "debt", "raw_text": "Pay off credit card debt"}`,
		string(quoted), string(quoted)), nil
}

func buildAchievementsPrompt(stats AchievementStats) (string, error) {
	return fmt.Sprintf(`Generate personalized achievement badges for a user with these stats:
- Current XP: %d
- Current Level: %d
- Completed Challenges: %d
- Current Streak: %d
- Days Active: %d
- Total Goals Set: %d

Requirements:
- Output JSON only, no code fences.
- Schema:
{
  "achievements": [
    {
      "id": "first_goal",
      "name": "Goal Setter",
      "emoji": "🎯",
      "description": "Set your first financial goal",
      "unlocked": true,
      "unlocked_message": "Congratulations! You've taken the first step toward financial success!"
    }
  ],
  "next_milestone": {
    "name": "Next Achievement",
    "emoji": "🏆",
    "description": "What they need to do next",
    "progress": 0.7,
    "requirement": "Complete 5 more challenges"
  }
}
- progress is a number between 0 and 1.
- Set next_milestone to null when every achievement is unlocked.

Create 6-8 achievements that feel personal and motivating. Make some unlocked based on their current stats.
Include creative achievement names and make the unlocked_message feel personal and encouraging.`,
		stats.XP, stats.Level, stats.CompletedChallenges, stats.Streak, stats.DaysActive, stats.GoalsSet), nil
}

func buildStreakPrompt(stats StreakStats) (string, error) {
	return fmt.Sprintf(`Generate a personalized motivational message for a user's financial habit streak:
- Current streak: %d days
- Longest streak: %d days
- Last challenge completed: %s
- Recent progress: %s

Requirements:
- Output JSON only, no code fences.
- Schema:
{
  "motivational_message": "You're building amazing financial habits! Keep it up!",
  "streak_milestone": "Special message if they hit a milestone",
  "next_goal": "Focus on completing one challenge this week",
  "emoji": "🔥",
  "encouragement_level": "low" | "medium" | "high"
}

Make the message personal, encouraging, and specific to financial habits.
If streak is 0, focus on starting fresh. If high streak, celebrate their consistency.`,
		stats.CurrentStreak, stats.LongestStreak, stats.LastChallenge, stats.RecentProgress), nil
}

func buildLeaderboardPrompt(stats LeaderboardStats) (string, error) {
	return fmt.Sprintf(`Generate personalized leaderboard insights for a user:
- Current position: #%d
- User XP: %d
- User level: %d
- Challenges completed this week: %d

Requirements:
- Output JSON only, no code fences.
- Schema:
{
  "position_message": "You're doing great! Currently ranked #%d",
  "improvement_tip": "Complete more challenges to climb higher",
  "weekly_goal": "Try to complete 3 challenges this week",
  "competitor_insight": "You're on track to advance your financial skills",
  "motivation_boost": "Every challenge completed makes you financially stronger!"
}

Make it encouraging regardless of position. Focus on personal growth over competition.`,
		stats.Position, stats.XP, stats.Level, stats.WeeklyChallenges, stats.Position), nil
}

func buildGoalEmojiPrompt(goalText string) (string, error) {
	quoted, err := json.Marshal(goalText)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Pick the single most fitting emoji for this financial goal: %s

Requirements:
- Output JSON only, no code fences.
- Schema: {"emoji": "🏖️"}
- Return exactly one emoji.`, string(quoted)), nil
}

func buildTasksPrompt(snapshot FinancialSnapshot) (string, error) {
	transactions, err := json.Marshal(snapshot.RecentTransactions)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Suggest additional small financial tasks for a user with:
- Current balance: $%s
- Recent spending: $%s
- Recent transactions: %s
- User goal: %s

Requirements:
- Output JSON only, no code fences.
- Schema:
{
  "tasks": [
    {
      "title": "Short task name",
      "description": "One actionable sentence",
      "category": "save_money" | "invest_money" | "spend_less" | "track_expenses" | "earn_more",
      "xp_reward": 20
    }
  ]
}
- Provide 3-5 tasks.`,
		snapshot.Balance.StringFixed(2),
		snapshot.RecentSpending.StringFixed(2),
		string(transactions),
		goalOrDefault(snapshot.UserGoal),
	), nil
}

func goalOrDefault(goal *string) string {
	if goal == nil || strings.TrimSpace(*goal) == "" {
		return "No specific goal set"
	}

	return *goal
}
