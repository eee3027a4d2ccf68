package ai

import "fmt"

type achievementRule struct {
	id              string
	name            string
	emoji           string
	lockedText      string
	unlockedText    string
	unlockedMessage string
	unlocked        func(AchievementStats) bool
}

var achievementCatalog = []achievementRule{
	{
		id: "first_login", name: "Welcome Aboard!", emoji: "👋",
		lockedText:      "You've started your financial journey",
		unlockedText:    "You've started your financial journey",
		unlockedMessage: "Welcome to BankQuest! Your financial adventure begins now!",
		unlocked:        func(AchievementStats) bool { return true },
	},
	{
		id: "level_up", name: "Rising Star", emoji: "⭐",
		lockedText:      "Reach level 2",
		unlockedText:    "Reached level 2",
		unlockedMessage: "You're leveling up your financial game!",
		unlocked:        func(s AchievementStats) bool { return s.Level >= 2 },
	},
	{
		id: "first_challenge", name: "Challenge Accepted", emoji: "🎯",
		lockedText:      "Complete your first challenge",
		unlockedText:    "Completed your first challenge",
		unlockedMessage: "Great job completing your first challenge!",
		unlocked:        func(s AchievementStats) bool { return s.CompletedChallenges >= 1 },
	},
	{
		id: "challenge_master", name: "Challenge Master", emoji: "🏆",
		lockedText:      "Complete 5 challenges",
		unlockedText:    "Completed 5 challenges",
		unlockedMessage: "You're becoming a financial challenge master!",
		unlocked:        func(s AchievementStats) bool { return s.CompletedChallenges >= 5 },
	},
	{
		id: "streak_starter", name: "Streak Starter", emoji: "🔥",
		lockedText:      "Build a 3-day streak",
		unlockedText:    "Built a 3-day streak",
		unlockedMessage: "You're on fire with that 3-day streak!",
		unlocked:        func(s AchievementStats) bool { return s.Streak >= 3 },
	},
	{
		id: "week_warrior", name: "Week Warrior", emoji: "💪",
		lockedText:      "Build a 7-day streak",
		unlockedText:    "Built a 7-day streak",
		unlockedMessage: "Amazing! A full week of consistent financial habits!",
		unlocked:        func(s AchievementStats) bool { return s.Streak >= 7 },
	},
	{
		id: "goal_setter", name: "Goal Setter", emoji: "🎯",
		lockedText:      "Set your first financial goal",
		unlockedText:    "Set your first financial goal",
		unlockedMessage: "Excellent! You've set your first financial goal!",
		unlocked:        func(s AchievementStats) bool { return s.GoalsSet >= 1 },
	},
	{
		id: "xp_collector", name: "XP Collector", emoji: "💎",
		lockedText:      "Earn 100+ XP",
		unlockedText:    "Earned 100+ XP",
		unlockedMessage: "You're collecting XP like a pro!",
		unlocked:        func(s AchievementStats) bool { return s.XP >= 100 },
	},
}

// FallbackAchievements вычисляет значки по фиксированному каталогу правил.
// next_milestone указывает на первый закрытый значок или равен nil, если открыты все.
func FallbackAchievements(stats AchievementStats) AchievementSet {
	achievements := make([]Achievement, 0, len(achievementCatalog))
	unlockedCount := 0

	for _, rule := range achievementCatalog {
		achievement := Achievement{
			ID:          rule.id,
			Name:        rule.name,
			Emoji:       rule.emoji,
			Description: rule.lockedText,
		}
		if rule.unlocked(stats) {
			achievement.Unlocked = true
			achievement.Description = rule.unlockedText
			achievement.UnlockedMessage = rule.unlockedMessage
			unlockedCount++
		}
		achievements = append(achievements, achievement)
	}

	total := len(achievements)
	set := AchievementSet{Achievements: achievements}
	for _, achievement := range achievements {
		if achievement.Unlocked {
			continue
		}

		set.NextMilestone = &Milestone{
			Name:        achievement.Name,
			Emoji:       achievement.Emoji,
			Description: achievement.Description,
			Progress:    float64(unlockedCount) / float64(total),
			Requirement: fmt.Sprintf("Currently %d/%d achievements unlocked", unlockedCount, total),
		}
		break
	}

	return set
}
