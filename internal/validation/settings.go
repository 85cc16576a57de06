package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/khrees2412/mockprep/pkg/models"
)

const (
	msgDifficultyRequired = "Please select a difficulty level"
	msgDifficultyInvalid  = "Invalid difficulty level"
	msgCountRequired      = "Question count is required"
	msgCountNotNumber     = "Question count must be a number"
	msgCountWhole         = "Question count must be a whole number"
	msgPreferences        = "Invalid preferences"
)

var (
	msgCountMin = fmt.Sprintf("Minimum %d questions required", models.MinQuestionCount)
	msgCountMax = fmt.Sprintf("Maximum %d questions allowed", models.MaxQuestionCount)
)

// Settings validates raw job settings input, as decoded from JSON or
// gathered from flags. With partial set, absent keys are left out of the
// patch; otherwise difficulty_level and question_count are required.
// Numeric strings and integral floats are coerced to int.
func Settings(raw map[string]any, partial bool) (models.SettingsPatch, error) {
	var (
		c     collector
		patch models.SettingsPatch
	)

	if v, ok := raw["difficulty_level"]; ok && v != nil {
		s, isString := v.(string)
		if !isString {
			c.add("difficulty_level", msgDifficultyInvalid)
		} else if msg := difficultyMessage(s); msg != "" {
			c.add("difficulty_level", msg)
		} else {
			patch.DifficultyLevel = &s
		}
	} else if !partial {
		c.add("difficulty_level", msgDifficultyRequired)
	}

	if v, ok := raw["question_count"]; ok && v != nil {
		n, msg := questionCount(v)
		if msg != "" {
			c.add("question_count", msg)
		} else {
			patch.QuestionCount = &n
		}
	} else if !partial {
		c.add("question_count", msgCountRequired)
	}

	if v, ok := raw["preferences"]; ok && v != nil {
		prefs, err := preferences(v)
		if err != nil {
			c.add("preferences", msgPreferences)
		} else {
			patch.Preferences = prefs
		}
	}

	if err := c.err(); err != nil {
		return models.SettingsPatch{}, err
	}
	return patch, nil
}

// JobSettings checks an already typed settings record
func JobSettings(s models.JobSettings) error {
	var c collector
	if msg := difficultyMessage(s.DifficultyLevel); msg != "" {
		c.add("difficulty_level", msg)
	}
	if msg := countRangeMessage(float64(s.QuestionCount)); msg != "" {
		c.add("question_count", msg)
	}
	return c.err()
}

func difficultyMessage(s string) string {
	if s == "" {
		return msgDifficultyRequired
	}
	if err := validate.Var(s, "oneof=easy medium difficult"); err != nil {
		return msgDifficultyInvalid
	}
	return ""
}

func questionCount(v any) (int, string) {
	f, ok := toFloat(v)
	if !ok {
		return 0, msgCountNotNumber
	}
	if msg := countRangeMessage(f); msg != "" {
		return 0, msg
	}
	if f != math.Trunc(f) {
		return 0, msgCountWhole
	}
	return int(f), ""
}

// countRangeMessage applies min, then max, before the whole-number rule
func countRangeMessage(f float64) string {
	if f < models.MinQuestionCount {
		return msgCountMin
	}
	if f > models.MaxQuestionCount {
		return msgCountMax
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func preferences(v any) (*models.Preferences, error) {
	switch p := v.(type) {
	case models.Preferences:
		return &p, nil
	case *models.Preferences:
		return p, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var prefs models.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}
