package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Phase biases game situation selection toward testing or mixed play.
type Phase string

const (
	PhaseDefault    Phase = "DEFAULT"
	PhaseAssessment Phase = "ASSESSMENT"
)

// ParsePhase parses a phase name case-insensitively.
func ParsePhase(s string) (Phase, error) {
	switch Phase(strings.ToUpper(strings.TrimSpace(s))) {
	case PhaseDefault:
		return PhaseDefault, nil
	case PhaseAssessment:
		return PhaseAssessment, nil
	default:
		return "", fmt.Errorf("unknown phase %q (want DEFAULT or ASSESSMENT)", s)
	}
}

// Settings holds the engine configuration. It is read-only once loaded.
type Settings struct {
	// NumberOfLevels is the number of equal-width mastery buckets over [0,1].
	NumberOfLevels int `yaml:"number_of_levels"`

	// LinearDecreasionOfCompetenceValuePerDay is how much a mastery value
	// drops per day of inactivity.
	LinearDecreasionOfCompetenceValuePerDay float64 `yaml:"decay_per_day"`

	// CompetencePauseTimeInSeconds is the rest interval for a level-0
	// competence. Level n waits (n+1) times as long.
	CompetencePauseTimeInSeconds int `yaml:"pause_seconds"`

	Phase Phase `yaml:"phase"`

	// ThresholdRecommendationSelection is the assessment recommendation value
	// at or above which game situation selection switches to assessment.
	ThresholdRecommendationSelection float64 `yaml:"recommendation_threshold"`

	// SourceFile is the resource key of the static model document.
	SourceFile string `yaml:"source_file"`

	// CompetenceValueStoragePrefix namespaces the learner state document.
	CompetenceValueStoragePrefix string `yaml:"storage_prefix"`

	DBPath  string `yaml:"db_path"`
	LogMode string `yaml:"log_mode"` // "dev", "prod", "nop"
}

// Default returns Settings with the stock values.
func Default() Settings {
	return Settings{
		NumberOfLevels:                          3,
		LinearDecreasionOfCompetenceValuePerDay: 0.1,
		CompetencePauseTimeInSeconds:            60 * 24,
		Phase:                                   PhaseDefault,
		ThresholdRecommendationSelection:        1.0 / (24 * 60 * 2), // half a minute, in days
		SourceFile:                              "dataModel.xml",
		LogMode:                                 "dev",
	}
}

// Load builds Settings from defaults, the optional YAML file at path and
// COMPETENCY_* environment variables, in that order. An empty path skips
// the file; a missing file is an error only when path was given explicitly.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read settings: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse settings %s: %w", filepath.Base(path), err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return Settings{}, err
	}
	if p, err := ParsePhase(string(s.Phase)); err == nil {
		s.Phase = p
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	if v := os.Getenv("COMPETENCY_NUMBER_OF_LEVELS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COMPETENCY_NUMBER_OF_LEVELS: %w", err)
		}
		s.NumberOfLevels = n
	}
	if v := os.Getenv("COMPETENCY_DECAY_PER_DAY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("COMPETENCY_DECAY_PER_DAY: %w", err)
		}
		s.LinearDecreasionOfCompetenceValuePerDay = f
	}
	if v := os.Getenv("COMPETENCY_PAUSE_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COMPETENCY_PAUSE_SECONDS: %w", err)
		}
		s.CompetencePauseTimeInSeconds = n
	}
	if v := os.Getenv("COMPETENCY_PHASE"); v != "" {
		p, err := ParsePhase(v)
		if err != nil {
			return fmt.Errorf("COMPETENCY_PHASE: %w", err)
		}
		s.Phase = p
	}
	if v := os.Getenv("COMPETENCY_RECOMMENDATION_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("COMPETENCY_RECOMMENDATION_THRESHOLD: %w", err)
		}
		s.ThresholdRecommendationSelection = f
	}
	if v := os.Getenv("COMPETENCY_SOURCE_FILE"); v != "" {
		s.SourceFile = v
	}
	if v := os.Getenv("COMPETENCY_STORAGE_PREFIX"); v != "" {
		s.CompetenceValueStoragePrefix = v
	}
	if v := os.Getenv("COMPETENCY_DB"); v != "" {
		s.DBPath = v
	}
	if v := os.Getenv("COMPETENCY_LOG_MODE"); v != "" {
		s.LogMode = v
	}
	return nil
}

// Validate checks every field's range. Returns a combined error describing
// all problems found, or nil if valid.
func (s Settings) Validate() error {
	var errs []error
	if s.NumberOfLevels < 1 {
		errs = append(errs, fmt.Errorf("number_of_levels must be >= 1, got %d", s.NumberOfLevels))
	}
	if s.LinearDecreasionOfCompetenceValuePerDay < 0 || s.LinearDecreasionOfCompetenceValuePerDay > 1 {
		errs = append(errs, fmt.Errorf("decay_per_day must be in [0, 1], got %g", s.LinearDecreasionOfCompetenceValuePerDay))
	}
	if s.CompetencePauseTimeInSeconds < 0 {
		errs = append(errs, fmt.Errorf("pause_seconds must be >= 0, got %d", s.CompetencePauseTimeInSeconds))
	}
	if s.ThresholdRecommendationSelection < 0 {
		errs = append(errs, fmt.Errorf("recommendation_threshold must be >= 0, got %g", s.ThresholdRecommendationSelection))
	}
	if _, err := ParsePhase(string(s.Phase)); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(s.SourceFile) == "" {
		errs = append(errs, errors.New("source_file is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

// StateKeySuffix ends the resource key of every learner state document.
const StateKeySuffix = "_competence_state"

// StateKey returns the resource key of the learner state document.
func (s Settings) StateKey() string {
	return s.CompetenceValueStoragePrefix + StateKeySuffix
}

// LearnerOfStateKey returns the storage prefix a state document key was
// built from, or false if key is not a learner state key.
func LearnerOfStateKey(key string) (string, bool) {
	prefix, ok := strings.CutSuffix(key, StateKeySuffix)
	if !ok || prefix == "" {
		return "", false
	}
	return prefix, true
}

// LevelWidth returns the width of one mastery bucket.
func (s Settings) LevelWidth() float64 {
	return 1.0 / float64(s.NumberOfLevels)
}
