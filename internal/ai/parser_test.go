package ai

import (
	"errors"
	"testing"
)

const validChallengeJSON = `{
  "title": "Coffee Break",
  "challenge": "Skip takeout coffee for 5 days",
  "difficulty": "Medium",
  "category": "spend_less",
  "xp_reward": 60,
  "time_to_complete": "1 week",
  "goal_recommendation": "Frees up cash for your laptop",
  "tips": ["Brew at home", "Use a thermos", "Track the savings"]
}`

// TestParseChallengeWithCodeFence проверяет разбор ответа в обертке ```json.
func TestParseChallengeWithCodeFence(t *testing.T) {
	parser := NewParser()

	parsed, err := parser.Parse(KindChallenge, "```json\n"+validChallengeJSON+"\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	challenge, ok := parsed.(*ChallengeContent)
	if !ok {
		t.Fatalf("expected *ChallengeContent, got %T", parsed)
	}
	if challenge.Difficulty != DifficultyMedium {
		t.Fatalf("expected difficulty to be normalized, got %s", challenge.Difficulty)
	}
	if challenge.XPReward != 60 || len(challenge.Tips) != 3 {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}
}

// TestParseRejectsProse проверяет, что текст вокруг JSON не принимается.
func TestParseRejectsProse(t *testing.T) {
	parser := NewParser()

	_, err := parser.Parse(KindChallenge, "Here is your challenge: "+validChallengeJSON)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}

	_, err = parser.Parse(KindChallenge, "   ")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse for empty response, got %v", err)
	}
}

// TestParseChallengeValidation проверяет ограничения схемы челленджа.
func TestParseChallengeValidation(t *testing.T) {
	parser := NewParser()

	cases := map[string]string{
		"two tips":        `{"challenge":"x","difficulty":"easy","category":"save_money","xp_reward":10,"time_to_complete":"1 day","goal_recommendation":"y","tips":["a","b"]}`,
		"missing xp":      `{"challenge":"x","difficulty":"easy","category":"save_money","time_to_complete":"1 day","goal_recommendation":"y","tips":["a","b","c"]}`,
		"zero xp":         `{"challenge":"x","difficulty":"easy","category":"save_money","xp_reward":0,"time_to_complete":"1 day","goal_recommendation":"y","tips":["a","b","c"]}`,
		"bad difficulty":  `{"challenge":"x","difficulty":"extreme","category":"save_money","xp_reward":10,"time_to_complete":"1 day","goal_recommendation":"y","tips":["a","b","c"]}`,
		"bad category":    `{"challenge":"x","difficulty":"easy","category":"gamble","xp_reward":10,"time_to_complete":"1 day","goal_recommendation":"y","tips":["a","b","c"]}`,
		"missing text":    `{"difficulty":"easy","category":"save_money","xp_reward":10,"time_to_complete":"1 day","goal_recommendation":"y","tips":["a","b","c"]}`,
		"empty tip value": `{"challenge":"x","difficulty":"easy","category":"save_money","xp_reward":10,"time_to_complete":"1 day","goal_recommendation":"y","tips":["a","","c"]}`,
	}

	for name, raw := range cases {
		if _, err := parser.Parse(KindChallenge, raw); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

// TestParseGoalDefaultsEmoji проверяет подстановку эмодзи по умолчанию.
func TestParseGoalDefaultsEmoji(t *testing.T) {
	parser := NewParser()

	parsed, err := parser.Parse(KindGoal, `{"amount": 500, "emoji": "", "description": "vacation", "category": "Vacation"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	goal := parsed.(*ParsedGoal)
	if goal.Emoji != DefaultGoalEmoji {
		t.Fatalf("expected default emoji, got %q", goal.Emoji)
	}
	if goal.Category != GoalCategoryVacation {
		t.Fatalf("expected vacation, got %s", goal.Category)
	}

	if _, err := parser.Parse(KindGoal, `{"amount": -1, "emoji": "💰", "description": "x", "category": "general"}`); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for negative amount, got %v", err)
	}
}

// TestParseAchievementsMilestone проверяет границы прогресса вехи.
func TestParseAchievementsMilestone(t *testing.T) {
	parser := NewParser()

	valid := `{"achievements":[{"id":"a","name":"A","emoji":"⭐","description":"d","unlocked":true}],"next_milestone":null}`
	parsed, err := parser.Parse(KindAchievement, valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.(*AchievementSet).NextMilestone != nil {
		t.Fatal("expected nil milestone")
	}

	invalid := `{"achievements":[{"id":"a","name":"A","emoji":"⭐","description":"d","unlocked":false}],"next_milestone":{"name":"n","emoji":"🏆","description":"d","progress":1.5,"requirement":"r"}}`
	if _, err := parser.Parse(KindAchievement, invalid); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// TestParseUnknownKind проверяет ошибку для неизвестного типа контента.
func TestParseUnknownKind(t *testing.T) {
	parser := NewParser()

	if _, err := parser.Parse(ContentKind("poem"), `{}`); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

// TestStripCodeFence проверяет снятие обертки markdown.
func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```JSON {\"a\":1} ```":   `{"a":1}`,
	}

	for input, expected := range cases {
		if got := stripCodeFence(input); got != expected {
			t.Fatalf("stripCodeFence(%q) = %q, expected %q", input, got, expected)
		}
	}
}
