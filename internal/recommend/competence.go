// Package recommend scores competences and game situations for
// presentation to a learner.
package recommend

import (
	"time"

	"github.com/abhisek/competency/internal/assessment"
	"github.com/abhisek/competency/internal/config"
	"github.com/abhisek/competency/internal/logger"
)

// Recommender ranks candidates against one learner's assessment state.
type Recommender struct {
	state    *assessment.State
	settings config.Settings
	log      *logger.Logger
}

// New creates a Recommender over state.
func New(state *assessment.State, log *logger.Logger) *Recommender {
	return &Recommender{
		state:    state,
		settings: state.Settings(),
		log:      logger.OrNop(log),
	}
}

// CompetenceValue scores how urgently a competence should be presented for
// typ. Competences still resting (see assessment.State.PauseOver) score 0.
//
// Assessment in the ASSESSMENT phase scores by inactive days alone. In the
// DEFAULT phase it is weighted by how far assessment lags behind learning.
// Learning favors low levels and is suppressed while the competence's own
// learning value already matches its weakest prerequisite.
func (r *Recommender) CompetenceValue(id string, typ assessment.UpdateType, now time.Time) float64 {
	rec, ok := r.state.Record(id)
	if !ok {
		return 0
	}
	if !r.state.PauseOver(id, typ, now) {
		return 0
	}
	inactiveDays := now.Sub(rec.UpdatedAt(typ)).Seconds() / 86400
	n := float64(r.settings.NumberOfLevels)

	if typ == assessment.UpdateAssessment {
		if r.settings.Phase == config.PhaseAssessment {
			return inactiveDays
		}
		return (rec.Learning - rec.Assessment) * n * inactiveDays
	}

	if r.state.MinPrerequisiteLearning(id) <= rec.Learning {
		return 0
	}
	level := float64(r.state.Level(id, assessment.UpdateLearning))
	return ((n - level) / n) * inactiveDays
}

// BestCompetence returns the competence with the strictly greatest value
// for typ. Ties go to the competence that comes first in the model.
// ok is false only when the model has no competences.
func (r *Recommender) BestCompetence(typ assessment.UpdateType, now time.Time) (id string, value float64, ok bool) {
	for _, c := range r.state.Model().Competences() {
		v := r.CompetenceValue(c.ID, typ, now)
		if !ok || value < v {
			id, value, ok = c.ID, v, true
		}
	}
	return id, value, ok
}
