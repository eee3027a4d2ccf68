package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ContentKind string

const (
	KindChallenge   ContentKind = "challenge"
	KindGoal        ContentKind = "goal"
	KindAchievement ContentKind = "achievements"
	KindStreak      ContentKind = "streak_message"
	KindLeaderboard ContentKind = "leaderboard_context"
	KindGoalEmoji   ContentKind = "goal_emoji"
	KindTasks       ContentKind = "additional_tasks"
)

var (
	ErrTransport  = errors.New("ai transport failed")
	ErrParse      = errors.New("ai response is not valid json")
	ErrValidation = errors.New("ai response failed validation")
)

// Parser превращает текст ответа модели в проверенную структуру контента.
type Parser struct {
	validate *validator.Validate
}

// NewParser создает парсер с валидатором go-playground.
func NewParser() *Parser {
	return &Parser{validate: validator.New()}
}

// Parse декодирует ответ модели в структуру, соответствующую kind.
// Возвращает ошибку, оборачивающую ErrParse или ErrValidation.
func (p *Parser) Parse(kind ContentKind, raw string) (any, error) {
	target, err := newContent(kind)
	if err != nil {
		return nil, err
	}

	payload := stripCodeFence(raw)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty response", ErrParse)
	}

	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	normalizeContent(target)
	if err := p.validate.Struct(target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return target, nil
}

func newContent(kind ContentKind) (any, error) {
	switch kind {
	case KindChallenge:
		return &ChallengeContent{}, nil
	case KindGoal:
		return &ParsedGoal{}, nil
	case KindAchievement:
		return &AchievementSet{}, nil
	case KindStreak:
		return &StreakMessage{}, nil
	case KindLeaderboard:
		return &LeaderboardContext{}, nil
	case KindGoalEmoji:
		return &GoalEmoji{}, nil
	case KindTasks:
		return &TaskList{}, nil
	default:
		return nil, fmt.Errorf("unknown content kind: %s", kind)
	}
}

// stripCodeFence убирает обертку ```json ... ```, которую модели добавляют вокруг JSON.
func stripCodeFence(input string) string {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(trimmed, "json")
		trimmed = strings.TrimPrefix(trimmed, "JSON")
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")

	return strings.TrimSpace(trimmed)
}

func normalizeContent(target any) {
	switch content := target.(type) {
	case *ChallengeContent:
		content.Difficulty = strings.ToLower(strings.TrimSpace(content.Difficulty))
		content.Category = strings.ToLower(strings.TrimSpace(content.Category))
	case *ParsedGoal:
		content.Emoji = strings.TrimSpace(content.Emoji)
		if content.Emoji == "" {
			content.Emoji = DefaultGoalEmoji
		}
		content.Category = strings.ToLower(strings.TrimSpace(content.Category))
	case *StreakMessage:
		content.EncouragementLevel = strings.ToLower(strings.TrimSpace(content.EncouragementLevel))
	case *GoalEmoji:
		content.Emoji = strings.TrimSpace(content.Emoji)
	case *TaskList:
		for i := range content.Tasks {
			content.Tasks[i].Category = strings.ToLower(strings.TrimSpace(content.Tasks[i].Category))
		}
	}
}
