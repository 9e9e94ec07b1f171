// Package engine ties the static model, one learner's assessment state and
// the recommender together behind the public operation surface. Every
// operation decays the state to the current instant first and persists it
// after a write.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/competency/internal/assessment"
	"github.com/abhisek/competency/internal/competence"
	"github.com/abhisek/competency/internal/config"
	"github.com/abhisek/competency/internal/logger"
	"github.com/abhisek/competency/internal/recommend"
	"github.com/abhisek/competency/internal/store"
)

var (
	// ErrModelNotFound is returned when the static model cannot be loaded.
	// The component stays uninitialized and retries on the next call.
	ErrModelNotFound = errors.New("competence model not found")

	ErrStorageUnavailable = store.ErrUnavailable
	ErrInvalidArgument    = competence.ErrInvalidArgument
	ErrUnknownReference   = competence.ErrUnknownReference
)

// Component is one learner session. It is not safe for concurrent use.
type Component struct {
	settings config.Settings
	adapter  store.Adapter
	log      *logger.Logger
	now      func() time.Time

	model *competence.Model
	state *assessment.State
	rec   *recommend.Recommender
}

// Option configures a Component.
type Option func(*Component)

// WithLogger sets the diagnostic logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Component) { c.log = logger.OrNop(l) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Component) { c.now = now }
}

// WithModel supplies the static model directly instead of loading
// settings.SourceFile through the adapter.
func WithModel(m *competence.Model) Option {
	return func(c *Component) { c.model = m }
}

// New creates a Component. adapter may be nil, in which case nothing is
// persisted and the model must be supplied with WithModel.
func New(settings config.Settings, adapter store.Adapter, opts ...Option) *Component {
	c := &Component{
		settings: settings,
		adapter:  adapter,
		log:      logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialized reports whether the model and learner state are loaded.
func (c *Component) Initialized() bool {
	return c.state != nil
}

// Model returns the static model, or nil before initialization.
func (c *Component) Model() *competence.Model {
	return c.model
}

// Settings returns the component's settings.
func (c *Component) Settings() config.Settings {
	return c.settings
}

// Initialize loads the static model and the learner state. A learner without
// stored state starts from initial values, which are persisted right away.
// Calling Initialize again after success is a no-op.
func (c *Component) Initialize(ctx context.Context) error {
	if c.state != nil {
		return nil
	}

	if c.model == nil {
		m, err := c.LoadDataModel(ctx, c.settings.SourceFile)
		if err != nil {
			c.log.Error("initialization failed", "key", c.settings.SourceFile, "err", err)
			return err
		}
		c.model = m
	}

	now := c.now()
	st := assessment.New(c.model, c.settings, now, c.log)
	stored, err := c.loadState(ctx, st)
	if err != nil {
		return err
	}

	c.state = st
	c.rec = recommend.New(st, c.log)
	c.log.Info("competence component initialized",
		"competences", len(c.model.Competences()),
		"gamesituations", len(c.model.GameSituations()),
		"restored", stored,
	)

	if !stored {
		return c.save(ctx)
	}
	return nil
}

// loadState restores st from storage. It reports whether a stored state was
// applied. An unreadable stored state is logged and reported as not applied,
// so Initialize overwrites it with the fresh state.
func (c *Component) loadState(ctx context.Context, st *assessment.State) (bool, error) {
	if c.adapter == nil {
		return false, nil
	}
	key := c.settings.StateKey()
	exists, err := c.adapter.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check learner state %q: %w", key, err)
	}
	if !exists {
		return false, nil
	}
	text, err := c.adapter.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load learner state %q: %w", key, err)
	}
	if err := st.Restore(text); err != nil {
		c.log.Error("stored learner state unreadable, starting fresh", "key", key, "err", err)
		return false, nil
	}
	return true, nil
}

func (c *Component) save(ctx context.Context) error {
	if c.adapter == nil {
		c.log.Warn("no storage adapter, learner state not saved")
		return nil
	}
	text, err := c.state.Encode()
	if err != nil {
		return err
	}
	key := c.settings.StateKey()
	if err := c.adapter.Save(ctx, key, text); err != nil {
		c.log.Error("saving learner state failed", "key", key, "err", err)
		return fmt.Errorf("save learner state %q: %w", key, err)
	}
	return nil
}

// ready initializes lazily and decays the state to the current instant,
// which it returns for use by the rest of the operation.
func (c *Component) ready(ctx context.Context) (time.Time, error) {
	if err := c.Initialize(ctx); err != nil {
		return time.Time{}, err
	}
	now := c.now()
	c.state.Decay(now)
	return now, nil
}

// UpdateCompetence records evidence for a single competence.
func (c *Component) UpdateCompetence(ctx context.Context, id string, success bool, typ assessment.UpdateType, quality float64) error {
	now, err := c.ready(ctx)
	if err != nil {
		return err
	}
	if err := c.state.UpdateCompetence(id, success, typ, quality, 1, now); err != nil {
		return err
	}
	return c.save(ctx)
}

// UpdateGamesituation records evidence for every competence of a game
// situation and reports the resulting changes.
func (c *Component) UpdateGamesituation(ctx context.Context, id string, success bool, quality float64) (*assessment.Report, error) {
	now, err := c.ready(ctx)
	if err != nil {
		return nil, err
	}
	report, err := c.state.UpdateGamesituation(id, success, quality, now)
	if err != nil {
		return nil, err
	}
	if err := c.save(ctx); err != nil {
		return report, err
	}
	return report, nil
}

// CompetenceRecommendation returns the competence to present next for typ.
// ok is false when the model has no competences.
func (c *Component) CompetenceRecommendation(ctx context.Context, typ assessment.UpdateType) (id string, ok bool, err error) {
	now, err := c.ready(ctx)
	if err != nil {
		return "", false, err
	}
	id, _, ok = c.rec.BestCompetence(typ, now)
	return id, ok, nil
}

// GamesituationRecommendation returns up to k game situations, best first.
func (c *Component) GamesituationRecommendation(ctx context.Context, k int) ([]string, error) {
	now, err := c.ready(ctx)
	if err != nil {
		return []string{}, err
	}
	return c.rec.GameSituations(k, now), nil
}

// CompetenceLevels returns the discrete levels of every competence.
func (c *Component) CompetenceLevels(ctx context.Context) (map[string]assessment.Levels, error) {
	if _, err := c.ready(ctx); err != nil {
		return map[string]assessment.Levels{}, err
	}
	return c.state.Levels(), nil
}

// CompetenceValues returns the mastery values of every competence.
func (c *Component) CompetenceValues(ctx context.Context) (map[string]assessment.Values, error) {
	if _, err := c.ready(ctx); err != nil {
		return map[string]assessment.Values{}, err
	}
	return c.state.Values(), nil
}

// SetCompetenceValues overwrites a competence's values.
func (c *Component) SetCompetenceValues(ctx context.Context, id string, learning, assessmentValue float64) error {
	if _, err := c.ready(ctx); err != nil {
		return err
	}
	if err := c.state.SetValues(id, learning, assessmentValue); err != nil {
		return err
	}
	return c.save(ctx)
}

// ResetState discards the learner's progress.
func (c *Component) ResetState(ctx context.Context) error {
	if err := c.Initialize(ctx); err != nil {
		return err
	}
	c.state.Reset(c.now())
	c.log.Info("learner state reset", "key", c.settings.StateKey())
	return c.save(ctx)
}

// Records returns the raw per-competence state after decaying it to now.
func (c *Component) Records(ctx context.Context) ([]assessment.Record, error) {
	if _, err := c.ready(ctx); err != nil {
		return nil, err
	}
	return c.state.Records(), nil
}

// RankedGamesituations returns every eligible game situation with its
// score and whether assessment mode is active.
func (c *Component) RankedGamesituations(ctx context.Context) ([]recommend.Scored, bool, error) {
	now, err := c.ready(ctx)
	if err != nil {
		return nil, false, err
	}
	return c.rec.RankGameSituations(now), c.rec.AssessmentMode(now), nil
}
