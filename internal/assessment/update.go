package assessment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/competency/internal/competence"
)

// UpdateCompetence applies one piece of evidence to a competence.
//
// The step is (1/NumberOfLevels) * factor * quality, added on success and
// subtracted on failure. Assessment evidence raises the learning value to
// at least the new assessment value. No learning value may exceed the
// lowest learning value among its competence's prerequisites; the cap is
// re-applied to every competence after each update, so lowering a
// prerequisite also lowers its dependents.
func (s *State) UpdateCompetence(id string, success bool, typ UpdateType, quality, factor float64, now time.Time) error {
	if !inUnit(quality) {
		return s.reject(fmt.Errorf("update %q: quality must lie in [0,1], got %g: %w", id, quality, competence.ErrInvalidArgument))
	}
	if typ != UpdateAssessment && typ != UpdateLearning {
		return s.reject(fmt.Errorf("update %q: unknown update type %q: %w", id, typ, competence.ErrInvalidArgument))
	}
	i, ok := s.index[id]
	if !ok {
		return s.reject(fmt.Errorf("update competence %q: %w", id, competence.ErrUnknownReference))
	}

	step := s.settings.LevelWidth() * factor * quality
	if !success {
		step = -step
	}

	r := &s.records[i]
	before := r.values()
	switch typ {
	case UpdateAssessment:
		r.Assessment = clamp01(r.Assessment + step)
		r.Learning = max(r.Learning, r.Assessment)
		r.AssessedAt = now
	case UpdateLearning:
		r.Learning = clamp01(r.Learning + step)
		r.LearnedAt = now
	}
	s.capLearning()

	s.log.Debug("competence updated",
		"competence", id,
		"type", string(typ),
		"success", success,
		"assessment", fmt.Sprintf("%.4f->%.4f", before.Assessment, r.Assessment),
		"learning", fmt.Sprintf("%.4f->%.4f", before.Learning, r.Learning),
	)
	return nil
}

// capLearning lowers learning values until none exceeds the minimum of its
// direct prerequisites. Values only decrease, so the loop settles even when
// prerequisites form a cycle.
func (s *State) capLearning() {
	for pass := 0; pass <= len(s.records); pass++ {
		changed := false
		for i := range s.records {
			r := &s.records[i]
			if limit := s.MinPrerequisiteLearning(r.CompetenceID); r.Learning > limit {
				r.Learning = limit
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// CompetenceChange is the before/after view of one competence touched by a
// game situation update.
type CompetenceChange struct {
	CompetenceID string
	Before       Values
	After        Values
	LevelsBefore Levels
	LevelsAfter  Levels
}

// Report summarizes a game situation update for feedback to the player.
type Report struct {
	GameSituationID string
	Success         bool
	Changes         []CompetenceChange
}

// String renders the report as plain text, one block per competence.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", r.GameSituationID)
	for _, c := range r.Changes {
		fmt.Fprintf(&b, "%s:\n", c.CompetenceID)
		fmt.Fprintf(&b, "   LV: %s->%s\n", formatValue(c.Before.Learning), formatValue(c.After.Learning))
		fmt.Fprintf(&b, "   LL: %d->%d\n", c.LevelsBefore.Learning, c.LevelsAfter.Learning)
		fmt.Fprintf(&b, "   AV: %s->%s\n", formatValue(c.Before.Assessment), formatValue(c.After.Assessment))
		fmt.Fprintf(&b, "   AL: %d->%d\n", c.LevelsBefore.Assessment, c.LevelsAfter.Assessment)
	}
	return b.String()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// UpdateGamesituation propagates evidence from a game situation to each of
// its competences, weighted by the situation's difficulty weight and the
// competence's share. Learning-flagged situations apply learning evidence
// first, then assessment-flagged situations apply assessment evidence.
func (s *State) UpdateGamesituation(id string, success bool, quality float64, now time.Time) (*Report, error) {
	if !inUnit(quality) {
		return nil, s.reject(fmt.Errorf("update game situation %q: quality must lie in [0,1], got %g: %w", id, quality, competence.ErrInvalidArgument))
	}
	gs, ok := s.model.GameSituation(id)
	if !ok {
		return nil, s.reject(fmt.Errorf("update game situation %q: %w", id, competence.ErrUnknownReference))
	}
	diff, ok := s.model.Difficulty(gs.DifficultyID)
	if !ok {
		return nil, s.reject(fmt.Errorf("update game situation %q: difficulty %q %w", id, gs.DifficultyID, competence.ErrUnknownReference))
	}

	report := &Report{GameSituationID: id, Success: success}
	for _, cw := range gs.Competences {
		rec, ok := s.Record(cw.CompetenceID)
		if !ok {
			s.log.Warn("game situation references competence without state",
				"gamesituation", id, "competence", cw.CompetenceID)
			continue
		}
		change := CompetenceChange{
			CompetenceID: cw.CompetenceID,
			Before:       rec.values(),
			LevelsBefore: s.levels(rec),
		}

		factor := diff.Weight * cw.Weight
		if gs.Learning {
			if err := s.UpdateCompetence(cw.CompetenceID, success, UpdateLearning, quality, factor, now); err != nil {
				return nil, err
			}
		}
		if gs.Assessment {
			if err := s.UpdateCompetence(cw.CompetenceID, success, UpdateAssessment, quality, factor, now); err != nil {
				return nil, err
			}
		}

		rec, _ = s.Record(cw.CompetenceID)
		change.After = rec.values()
		change.LevelsAfter = s.levels(rec)
		report.Changes = append(report.Changes, change)
	}
	return report, nil
}
