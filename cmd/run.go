package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/competency/internal/config"
	"github.com/abhisek/competency/internal/engine"
	"github.com/abhisek/competency/internal/logger"
	"github.com/abhisek/competency/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// activeLearnerKey holds the learner id used when none is configured.
const activeLearnerKey = "active_learner"

// session is everything one command invocation needs. Close releases it.
// The learner is bound only by commands that read or write learner state.
type session struct {
	store    *store.Store
	docs     store.DocumentRepo
	models   store.Dir
	log      *logger.Logger
	settings config.Settings
	learner  string
	engine   *engine.Component
}

func (s *session) Close() {
	s.log.Sync()
	s.store.Close()
}

// openSession loads settings, opens the store and builds an engine for the
// model documents. No learner is resolved yet; see bindLearner.
func openSession(cmd *cobra.Command) (*session, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	settings, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if mode, _ := cmd.Flags().GetString("log"); mode != "" {
		settings.LogMode = mode
	}

	log, err := logger.New(settings.LogMode)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	root, _ := cmd.Flags().GetString("models")
	s := &session{
		store:    st,
		docs:     st.Documents(),
		models:   store.Dir{Root: root},
		log:      log,
		settings: settings,
	}
	s.engine = s.newEngine()
	log.Debug("session opened", "db", dbPath, "model", settings.SourceFile)
	return s, nil
}

// bindLearner resolves the learner and rebuilds the engine around their
// state document.
func (s *session) bindLearner(cmd *cobra.Command) error {
	id, err := resolveLearner(cmd.Context(), cmd, s.docs, s.settings.CompetenceValueStoragePrefix)
	if err != nil {
		return err
	}
	s.learner = id
	s.settings.CompetenceValueStoragePrefix = id
	s.log = s.log.With("learner", id)
	s.engine = s.newEngine()
	return nil
}

func (s *session) newEngine() *engine.Component {
	return engine.New(s.settings,
		store.Layered{Primary: s.docs, Fallback: s.models},
		engine.WithLogger(s.log),
	)
}

// activeLearner returns the stored active learner without creating one.
func activeLearner(ctx context.Context, docs store.DocumentRepo) (string, error) {
	ok, err := docs.Exists(ctx, activeLearnerKey)
	if err != nil || !ok {
		return "", err
	}
	id, err := docs.Load(ctx, activeLearnerKey)
	if err != nil {
		return "", fmt.Errorf("load active learner: %w", err)
	}
	return strings.TrimSpace(id), nil
}

// resolveLearner picks the learner id: --learner, then the configured
// storage prefix, then the stored active learner. A new id is created and
// made active when none of those is set.
func resolveLearner(ctx context.Context, cmd *cobra.Command, docs store.DocumentRepo, configured string) (string, error) {
	if id, _ := cmd.Flags().GetString("learner"); id != "" {
		return id, nil
	}
	if configured != "" {
		return configured, nil
	}
	id, err := activeLearner(ctx, docs)
	if err != nil {
		return "", fmt.Errorf("look up active learner: %w", err)
	}
	if id != "" {
		return id, nil
	}
	return newLearner(ctx, docs)
}

func newLearner(ctx context.Context, docs store.DocumentRepo) (string, error) {
	id := uuid.NewString()
	if err := docs.Save(ctx, activeLearnerKey, id); err != nil {
		return "", fmt.Errorf("save active learner: %w", err)
	}
	return id, nil
}

type sessionFunc func(cmd *cobra.Command, args []string, s *session) error

// withSession opens a session around fn without touching learner state.
func withSession(fn sessionFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

// withLearner is withSession with the learner bound.
func withLearner(fn sessionFunc) func(*cobra.Command, []string) error {
	return withSession(func(cmd *cobra.Command, args []string, s *session) error {
		if err := s.bindLearner(cmd); err != nil {
			return err
		}
		return fn(cmd, args, s)
	})
}
