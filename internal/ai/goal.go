package ai

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	dollarSignPattern   = regexp.MustCompile(`\$([0-9,]+)`)
	dollarWordPattern   = regexp.MustCompile(`(?i)([0-9,]+)\s*dollars?`)
	goalVerbNumberRegex = regexp.MustCompile(`(?i)(?:save|need|want|goal)\s*([0-9,]+)`)

	descriptionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bfor\s+(\w+)`),
		regexp.MustCompile(`(?i)\bto\s+(\w+)`),
		regexp.MustCompile(`(?i)\btowards\s+(\w+)`),
	}

	amountTokenPattern = regexp.MustCompile(`(?i)\$[0-9,.]+|[0-9,.]+\s*dollars?|\b[0-9][0-9,.]*\b`)
)

// Порядок важен: первое совпадение определяет категорию.
var goalCategoryKeywords = []struct {
	keyword  string
	category string
}{
	{"vacation", GoalCategoryVacation},
	{"emergency", GoalCategoryEmergency},
	{"debt", GoalCategoryDebt},
	{"invest", GoalCategoryInvesting},
	{"save", GoalCategorySaving},
}

var leadingGoalVerbs = []string{
	"pay off", "save up", "invest in", "build", "save", "buy", "get", "start",
	"create", "reach", "grow", "reduce", "cut", "invest", "plan", "need", "want",
}

var leadingPronouns = []string{"i", "we"}

var leadingArticles = []string{"a", "an", "the", "my", "some"}

var pictographs = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f1e6, Hi: 0x1f1ff, Stride: 1},
		{Lo: 0x1f300, Hi: 0x1f64f, Stride: 1},
		{Lo: 0x1f680, Hi: 0x1f6ff, Stride: 1},
		{Lo: 0x1f900, Hi: 0x1faff, Stride: 1},
	},
}

const (
	variationSelector = '\uFE0F'
	zeroWidthJoiner   = '\u200D'
	keycapMark        = '\u20E3'
)

// FallbackGoal разбирает текст цели регулярными выражениями без обращения к модели.
func FallbackGoal(goalText string) ParsedGoal {
	emoji := firstPictograph(goalText)
	if emoji == "" {
		emoji = DefaultGoalEmoji
	}

	return ParsedGoal{
		Amount:      goalAmount(goalText),
		Emoji:       emoji,
		Description: goalDescription(goalText),
		Category:    goalCategory(goalText),
		RawText:     goalText,
	}
}

func goalAmount(text string) float64 {
	for _, pattern := range []*regexp.Regexp{dollarSignPattern, dollarWordPattern, goalVerbNumberRegex} {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		digits := strings.ReplaceAll(match[1], ",", "")
		if digits == "" {
			return 0
		}

		amount, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return 0
		}
		return amount
	}

	return 0
}

func goalDescription(text string) string {
	for _, pattern := range descriptionPatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	}

	phrase := strings.ToLower(stripPictographs(text))
	phrase = amountTokenPattern.ReplaceAllString(phrase, " ")
	words := strings.FieldsFunc(phrase, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '-' && r != '\'')
	})
	kept := words[:0]
	for _, word := range words {
		if !symbolsOnly(word) {
			kept = append(kept, word)
		}
	}
	phrase = strings.Join(kept, " ")

	phrase = trimLeadingWord(phrase, leadingPronouns)
	phrase = trimLeadingWord(phrase, leadingGoalVerbs)
	phrase = trimLeadingWord(phrase, leadingArticles)
	if phrase == "" {
		return "goal"
	}

	return phrase
}

func symbolsOnly(word string) bool {
	for _, r := range word {
		if !unicode.IsSymbol(r) && !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}

func trimLeadingWord(phrase string, words []string) string {
	for _, word := range words {
		if phrase == word {
			return ""
		}
		if strings.HasPrefix(phrase, word+" ") {
			return strings.TrimSpace(strings.TrimPrefix(phrase, word+" "))
		}
	}

	return phrase
}

func goalCategory(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range goalCategoryKeywords {
		if strings.Contains(lower, rule.keyword) {
			return rule.category
		}
	}

	return GoalCategoryGeneral
}

// firstPictograph возвращает первый эмодзи в тексте вместе с модификаторами,
// селектором варианта и ZWJ-последовательностью, если они есть.
func firstPictograph(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if !unicode.Is(pictographs, r) {
			continue
		}

		end := i + 1
		if isRegionalIndicator(r) {
			if end < len(runes) && isRegionalIndicator(runes[end]) {
				end++
			}
			return string(runes[i:end])
		}

		for end < len(runes) {
			next := runes[end]
			switch {
			case next == variationSelector, next == keycapMark, isSkinTone(next):
				end++
			case next == zeroWidthJoiner && end+1 < len(runes) && unicode.Is(pictographs, runes[end+1]):
				end += 2
			default:
				return string(runes[i:end])
			}
		}

		return string(runes[i:end])
	}

	return ""
}

func stripPictographs(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(pictographs, r) || r == variationSelector || r == zeroWidthJoiner || r == keycapMark || isSkinTone(r) {
			return ' '
		}
		return r
	}, text)
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1f1e6 && r <= 0x1f1ff
}

func isSkinTone(r rune) bool {
	return r >= 0x1f3fb && r <= 0x1f3ff
}
