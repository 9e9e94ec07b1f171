package assessment

import (
	"fmt"
	"strings"
	"time"
)

// UpdateType selects which mastery dimension evidence applies to.
type UpdateType string

const (
	UpdateAssessment UpdateType = "ASSESSMENT"
	UpdateLearning   UpdateType = "LEARNING"
)

// ParseUpdateType parses an update type name case-insensitively.
func ParseUpdateType(s string) (UpdateType, error) {
	switch UpdateType(strings.ToUpper(strings.TrimSpace(s))) {
	case UpdateAssessment:
		return UpdateAssessment, nil
	case UpdateLearning:
		return UpdateLearning, nil
	default:
		return "", fmt.Errorf("unknown update type %q (want ASSESSMENT or LEARNING)", s)
	}
}

// Values holds the two continuous mastery scores of a competence.
type Values struct {
	Assessment float64
	Learning   float64
}

// Levels holds the two discrete mastery levels of a competence.
type Levels struct {
	Assessment int
	Learning   int
}

// Record is the per-learner state of one competence.
type Record struct {
	CompetenceID string

	Assessment float64
	Learning   float64

	// Last active update of each dimension, and the last decay pass.
	// After Reset, AssessedAt and LearnedAt lie one pause in the past while
	// ForgottenAt is the reset instant.
	AssessedAt  time.Time
	LearnedAt   time.Time
	ForgottenAt time.Time
}

// Value returns the mastery value for typ.
func (r Record) Value(typ UpdateType) float64 {
	if typ == UpdateAssessment {
		return r.Assessment
	}
	return r.Learning
}

// UpdatedAt returns the last active update time for typ.
func (r Record) UpdatedAt(typ UpdateType) time.Time {
	if typ == UpdateAssessment {
		return r.AssessedAt
	}
	return r.LearnedAt
}

func (r Record) values() Values {
	return Values{Assessment: r.Assessment, Learning: r.Learning}
}

// LevelOf maps a value in [0,1] to one of n equal-width buckets.
// 1.0 lands in the top bucket.
func LevelOf(value float64, n int) int {
	if n <= 1 {
		return 0
	}
	lvl := int(value / (1 / float64(n)))
	if lvl < 0 {
		return 0
	}
	return min(lvl, n-1)
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

func days(d time.Duration) float64 {
	return d.Seconds() / 86400
}
