package assessment

import (
	"fmt"
	"time"

	"github.com/abhisek/competency/internal/competence"
	"github.com/abhisek/competency/internal/config"
	"github.com/abhisek/competency/internal/logger"
)

// State is one learner's mastery of every competence in a model.
// It is not safe for concurrent use.
type State struct {
	model    *competence.Model
	settings config.Settings
	log      *logger.Logger

	records []Record
	index   map[string]int
}

// New creates a State with initial values for every competence in model.
func New(model *competence.Model, settings config.Settings, now time.Time, log *logger.Logger) *State {
	s := &State{
		model:    model,
		settings: settings,
		log:      logger.OrNop(log),
	}
	s.Reset(now)
	return s
}

// InitialValue is the starting mastery value: the middle of the lowest level.
func (s *State) InitialValue() float64 {
	return s.settings.LevelWidth() / 2
}

// Reset discards all mastery and recreates initial records. The assessment
// and learning timestamps are set to now-(pause+1)s so every competence is
// immediately eligible for presentation. ForgottenAt is set to now rather
// than backdated with them: the backdated interval counts as already
// decayed, so a fresh record reads exactly the initial value.
func (s *State) Reset(now time.Time) {
	v := s.InitialValue()
	ts := now.Add(-time.Duration(s.settings.CompetencePauseTimeInSeconds+1) * time.Second)

	comps := s.model.Competences()
	s.records = make([]Record, len(comps))
	s.index = make(map[string]int, len(comps))
	for i, c := range comps {
		s.records[i] = Record{
			CompetenceID: c.ID,
			Assessment:   v,
			Learning:     v,
			AssessedAt:   ts,
			LearnedAt:    ts,
			ForgottenAt:  now,
		}
		s.index[c.ID] = i
	}
}

// Model returns the static model the state was built from.
func (s *State) Model() *competence.Model {
	return s.model
}

// Settings returns the settings the state computes with.
func (s *State) Settings() config.Settings {
	return s.settings
}

// Records returns a copy of all records in model order.
func (s *State) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Record returns the record of a competence.
func (s *State) Record(id string) (Record, bool) {
	i, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Level returns the discrete level of a competence for typ.
func (s *State) Level(id string, typ UpdateType) int {
	r, _ := s.Record(id)
	return LevelOf(r.Value(typ), s.settings.NumberOfLevels)
}

// LevelAt returns the level of a competence on a scale of n buckets.
func (s *State) LevelAt(id string, typ UpdateType, n int) int {
	r, _ := s.Record(id)
	return LevelOf(r.Value(typ), n)
}

// PauseOver reports whether a competence has rested long enough to be
// presented again for typ. Higher levels rest proportionally longer.
func (s *State) PauseOver(id string, typ UpdateType, now time.Time) bool {
	r, ok := s.Record(id)
	if !ok {
		return false
	}
	lvl := LevelOf(r.Value(typ), s.settings.NumberOfLevels)
	pause := time.Duration(s.settings.CompetencePauseTimeInSeconds*(lvl+1)) * time.Second
	return !now.Before(r.UpdatedAt(typ).Add(pause))
}

// MinPrerequisiteLearning returns the smallest learning value among the
// direct prerequisites of a competence, or 1 if it has none. Prerequisites
// are resolved against the current record table on every call.
func (s *State) MinPrerequisiteLearning(id string) float64 {
	minimum := 1.0
	for _, p := range s.model.Prerequisites(id) {
		i, ok := s.index[p]
		if !ok {
			continue
		}
		minimum = min(minimum, s.records[i].Learning)
	}
	return minimum
}

// Values returns the mastery values of every competence.
func (s *State) Values() map[string]Values {
	out := make(map[string]Values, len(s.records))
	for _, r := range s.records {
		out[r.CompetenceID] = r.values()
	}
	return out
}

// Levels returns the mastery levels of every competence.
func (s *State) Levels() map[string]Levels {
	out := make(map[string]Levels, len(s.records))
	for _, r := range s.records {
		out[r.CompetenceID] = s.levels(r)
	}
	return out
}

func (s *State) levels(r Record) Levels {
	n := s.settings.NumberOfLevels
	return Levels{
		Assessment: LevelOf(r.Assessment, n),
		Learning:   LevelOf(r.Learning, n),
	}
}

// SetValues overwrites both mastery values of a competence. Timestamps are
// left untouched.
func (s *State) SetValues(id string, learning, assessment float64) error {
	i, ok := s.index[id]
	if !ok {
		return s.reject(fmt.Errorf("set values of %q: competence %w", id, competence.ErrUnknownReference))
	}
	if !inUnit(learning) || !inUnit(assessment) {
		return s.reject(fmt.Errorf("set values of %q: values must lie in [0,1], got learning=%g assessment=%g: %w",
			id, learning, assessment, competence.ErrInvalidArgument))
	}
	s.records[i].Learning = learning
	s.records[i].Assessment = assessment
	return nil
}

func (s *State) reject(err error) error {
	s.log.Warn("assessment change rejected", "err", err)
	return err
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
