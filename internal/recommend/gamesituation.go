package recommend

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/competency/internal/assessment"
	"github.com/abhisek/competency/internal/config"
)

// Scored is a game situation with its recommendation value.
type Scored struct {
	ID    string
	Value float64
}

// AssessmentMode reports whether game situations should be chosen for
// assessment rather than learning: always in the ASSESSMENT phase, and
// otherwise once some competence's assessment value reaches the threshold.
func (r *Recommender) AssessmentMode(now time.Time) bool {
	if r.settings.Phase == config.PhaseAssessment {
		return true
	}
	_, best, ok := r.BestCompetence(assessment.UpdateAssessment, now)
	return ok && best >= r.settings.ThresholdRecommendationSelection
}

// RankGameSituations scores every game situation usable in the current
// mode and returns them best first. Equal scores keep model order.
func (r *Recommender) RankGameSituations(now time.Time) []Scored {
	doAssessment := r.AssessmentMode(now)
	typ := assessment.UpdateLearning
	if doAssessment {
		typ = assessment.UpdateAssessment
	}

	model := r.state.Model()
	var ranked []Scored
	for _, gs := range model.GameSituations() {
		usable := gs.Learning
		if doAssessment {
			usable = gs.Assessment
		}
		if !usable {
			continue
		}
		diff, ok := model.Difficulty(gs.DifficultyID)
		if !ok {
			continue
		}
		possessed, maxRank := model.DifficultyRating(diff.Weight)

		value := 0.0
		for _, cw := range gs.Competences {
			value += cw.Weight * r.CompetenceValue(cw.CompetenceID, typ, now) *
				r.difficultyFit(cw.CompetenceID, typ, possessed, maxRank)
		}
		ranked = append(ranked, Scored{ID: gs.ID, Value: value})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})

	r.log.Debug("game situations ranked", "assessment", doAssessment, "candidates", len(ranked))
	return ranked
}

// difficultyFit peaks at 1.5 when the competence's level, expressed on the
// difficulty scale, equals the situation's difficulty rank, and falls off
// linearly with the distance between them.
func (r *Recommender) difficultyFit(id string, typ assessment.UpdateType, possessed, maxRank int) float64 {
	if maxRank <= 1 {
		return 1.5
	}
	level := 1 + r.state.LevelAt(id, typ, maxRank)
	return 1.5 - math.Abs(float64(level-possessed))/float64(maxRank-1)
}

// GameSituations returns up to k game situation ids, best first.
func (r *Recommender) GameSituations(k int, now time.Time) []string {
	if k <= 0 {
		return []string{}
	}
	ids := make([]string, 0, k)
	seen := make(map[string]bool, k)
	for _, s := range r.RankGameSituations(now) {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		ids = append(ids, s.ID)
		if len(ids) == k {
			break
		}
	}
	return ids
}
