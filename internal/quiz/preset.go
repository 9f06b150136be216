package quiz

import "fmt"

// Level is a quiz difficulty preset.
type Level string

const (
	LevelBasic        Level = "basic"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Levels lists the presets in display order.
var Levels = []Level{LevelBasic, LevelIntermediate, LevelAdvanced}

// DifficultyDistribution is the share of questions per difficulty.
type DifficultyDistribution struct {
	Basic        float64 `json:"basic"`
	Intermediate float64 `json:"intermediate"`
	Advanced     float64 `json:"advanced"`
}

// TypeDistribution is the share of questions per question type.
type TypeDistribution struct {
	MultipleChoice float64 `json:"multipleChoice"`
	Coding         float64 `json:"coding"`
}

// Config is the generation config sent along with a create request.
type Config struct {
	MultipleChoiceCount    int                    `json:"multipleChoiceCount"`
	CodingQuestionCount    int                    `json:"codingQuestionCount"`
	DifficultyDistribution DifficultyDistribution `json:"difficultyDistribution"`
	TypeDistribution       TypeDistribution       `json:"typeDistribution"`
	IncludeHints           bool                   `json:"includeHints"`
	MaxAttempts            int                    `json:"maxAttempts"`
}

var presets = map[Level]Config{
	LevelBasic: {
		MultipleChoiceCount:    5,
		DifficultyDistribution: DifficultyDistribution{Basic: 0.7, Intermediate: 0.2, Advanced: 0.1},
		MaxAttempts:            5,
		IncludeHints:           true,
	},
	LevelIntermediate: {
		MultipleChoiceCount:    7,
		DifficultyDistribution: DifficultyDistribution{Basic: 0.3, Intermediate: 0.5, Advanced: 0.2},
		MaxAttempts:            3,
		IncludeHints:           true,
	},
	LevelAdvanced: {
		MultipleChoiceCount:    10,
		DifficultyDistribution: DifficultyDistribution{Basic: 0.1, Intermediate: 0.3, Advanced: 0.6},
		MaxAttempts:            2,
		IncludeHints:           false,
	},
}

// Preset returns the generation config for a level. Only multiple-choice
// questions are requested.
func Preset(level Level) (Config, error) {
	cfg, ok := presets[level]
	if !ok {
		return Config{}, fmt.Errorf("unknown quiz level %q", level)
	}
	cfg.CodingQuestionCount = 0
	cfg.TypeDistribution = TypeDistribution{MultipleChoice: 1}
	return cfg, nil
}
