package ai

import "testing"

// TestFallbackGoal проверяет разбор цели регулярными выражениями.
func TestFallbackGoal(t *testing.T) {
	cases := []struct {
		text        string
		amount      float64
		emoji       string
		description string
		category    string
	}{
		{"Save $500 for vacation 🏖️", 500, "🏖️", "vacation", GoalCategoryVacation},
		{"Build emergency fund 💪", 0, "💪", "emergency fund", GoalCategoryEmergency},
		{"Save $1,200 towards rent", 1200, DefaultGoalEmoji, "rent", GoalCategorySaving},
		{"I need 300 dollars to travel", 300, DefaultGoalEmoji, "travel", GoalCategoryGeneral},
		{"Pay off credit card debt", 0, DefaultGoalEmoji, "credit card debt", GoalCategoryDebt},
		{"want 750 🎮", 750, "🎮", "goal", GoalCategoryGeneral},
		{"Invest monthly 📈", 0, "📈", "monthly", GoalCategoryInvesting},
		{"I need 1,000 dollars", 1000, DefaultGoalEmoji, "goal", GoalCategoryGeneral},
		{"save $", 0, DefaultGoalEmoji, "goal", GoalCategorySaving},
		{"I want a new bike", 0, DefaultGoalEmoji, "new bike", GoalCategoryGeneral},
	}

	for _, tc := range cases {
		goal := FallbackGoal(tc.text)
		if goal.Amount != tc.amount {
			t.Fatalf("%q: expected amount %v, got %v", tc.text, tc.amount, goal.Amount)
		}
		if goal.Emoji != tc.emoji {
			t.Fatalf("%q: expected emoji %q, got %q", tc.text, tc.emoji, goal.Emoji)
		}
		if goal.Description != tc.description {
			t.Fatalf("%q: expected description %q, got %q", tc.text, tc.description, goal.Description)
		}
		if goal.Category != tc.category {
			t.Fatalf("%q: expected category %q, got %q", tc.text, tc.category, goal.Category)
		}
		if goal.RawText != tc.text {
			t.Fatalf("%q: expected raw text to be preserved, got %q", tc.text, goal.RawText)
		}
	}
}

// TestFirstPictograph проверяет извлечение составных эмодзи.
func TestFirstPictograph(t *testing.T) {
	cases := map[string]string{
		"no emoji here":        "",
		"family 👨‍👩‍👧 trip":       "👨‍👩‍👧",
		"wave 👋🏽 hello":        "👋🏽",
		"first 🚗 then 🏠":       "🚗",
		"heart ❤️":             "❤️",
		"flags 🇺🇸🇨🇦 together": "🇺🇸",
	}

	for text, expected := range cases {
		if got := firstPictograph(text); got != expected {
			t.Fatalf("firstPictograph(%q) = %q, expected %q", text, got, expected)
		}
	}
}
