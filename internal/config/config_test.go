package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, 3, s.NumberOfLevels)
	assert.Equal(t, 1440, s.CompetencePauseTimeInSeconds)
	assert.Equal(t, PhaseDefault, s.Phase)
	assert.InDelta(t, 1.0/2880, s.ThresholdRecommendationSelection, 1e-12)
}

func TestLoad_NoFile(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dataModel.xml", s.SourceFile)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := `
number_of_levels: 5
decay_per_day: 0.25
pause_seconds: 5
phase: assessment
recommendation_threshold: 0.5
source_file: model.json
storage_prefix: learner-1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, s.NumberOfLevels)
	assert.InDelta(t, 0.25, s.LinearDecreasionOfCompetenceValuePerDay, 1e-12)
	assert.Equal(t, 5, s.CompetencePauseTimeInSeconds)
	assert.Equal(t, PhaseAssessment, s.Phase)
	assert.Equal(t, "model.json", s.SourceFile)
	assert.Equal(t, "learner-1_competence_state", s.StateKey())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("number_of_levels: 4\n"), 0o644))

	t.Setenv("COMPETENCY_NUMBER_OF_LEVELS", "6")
	t.Setenv("COMPETENCY_PHASE", "ASSESSMENT")
	t.Setenv("COMPETENCY_STORAGE_PREFIX", "env-learner")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, s.NumberOfLevels)
	assert.Equal(t, PhaseAssessment, s.Phase)
	assert.Equal(t, "env-learner", s.CompetenceValueStoragePrefix)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("COMPETENCY_DECAY_PER_DAY", "lots")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMPETENCY_DECAY_PER_DAY")
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	s := Default()
	s.NumberOfLevels = 0
	s.LinearDecreasionOfCompetenceValuePerDay = 2
	s.CompetencePauseTimeInSeconds = -1
	s.ThresholdRecommendationSelection = -0.1
	s.Phase = "SOMETIMES"
	s.SourceFile = " "

	err := s.Validate()
	require.Error(t, err)
	for _, want := range []string{"number_of_levels", "decay_per_day", "pause_seconds", "recommendation_threshold", "phase", "source_file"} {
		assert.True(t, strings.Contains(err.Error(), want), "error should mention %s: %v", want, err)
	}
}

func TestParsePhase(t *testing.T) {
	tests := []struct {
		in      string
		want    Phase
		wantErr bool
	}{
		{"DEFAULT", PhaseDefault, false},
		{"assessment", PhaseAssessment, false},
		{" Default ", PhaseDefault, false},
		{"learning", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePhase(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestLearnerOfStateKey(t *testing.T) {
	s := Default()
	s.CompetenceValueStoragePrefix = "ada"

	got, ok := LearnerOfStateKey(s.StateKey())
	require.True(t, ok)
	assert.Equal(t, "ada", got)

	for _, key := range []string{"dataModel.xml", "active_learner", StateKeySuffix} {
		_, ok := LearnerOfStateKey(key)
		assert.False(t, ok, key)
	}
}
