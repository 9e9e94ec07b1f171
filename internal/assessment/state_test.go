package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/competency/internal/competence"
	"github.com/abhisek/competency/internal/config"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testSettings() config.Settings {
	s := config.Default()
	s.NumberOfLevels = 3
	s.CompetencePauseTimeInSeconds = 5
	s.LinearDecreasionOfCompetenceValuePerDay = 0.1
	return s
}

// chainModel has C1, C2 and C3 with C3 requiring C1.
func chainModel(t *testing.T) *competence.Model {
	t.Helper()
	m := competence.Dummy(3, nil)
	require.NoError(t, m.AddPrerequisites("C3", "C1"))
	require.NoError(t, m.AddDifficulty("easy", 1))
	require.NoError(t, m.AddDifficulty("hard", 2))
	require.NoError(t, m.AddGameSituation("GS1", "easy", true, false, competence.W("C1", 1), competence.W("C2", 3)))
	require.NoError(t, m.AddGameSituation("GS2", "hard", true, true, competence.W("C2", 1)))
	require.NoError(t, m.AddGameSituation("GS3", "easy", false, true, competence.W("C1", 1)))
	return m
}

func TestNew_InitialValues(t *testing.T) {
	s := New(chainModel(t), testSettings(), t0, nil)

	for _, id := range []string{"C1", "C2", "C3"} {
		r, ok := s.Record(id)
		require.True(t, ok, id)
		assert.InDelta(t, 1.0/6, r.Assessment, 1e-15)
		assert.InDelta(t, 1.0/6, r.Learning, 1e-15)
		want := t0.Add(-6 * time.Second)
		assert.True(t, r.AssessedAt.Equal(want))
		assert.True(t, r.LearnedAt.Equal(want))
		assert.True(t, r.ForgottenAt.Equal(t0))
		assert.True(t, s.PauseOver(id, UpdateAssessment, t0))
		assert.True(t, s.PauseOver(id, UpdateLearning, t0))
	}
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		value float64
		n     int
		want  int
	}{
		{0, 3, 0},
		{0.33, 3, 0},
		{1.0 / 3, 3, 1},
		{0.5, 3, 1},
		{0.7, 3, 2},
		{1, 3, 2},
		{1, 1, 0},
		{0.5, 2, 1},
		{0.49, 2, 0},
	}
	for _, tt := range tests {
		if got := LevelOf(tt.value, tt.n); got != tt.want {
			t.Errorf("LevelOf(%g, %d) = %d, want %d", tt.value, tt.n, got, tt.want)
		}
	}
}

func TestLevelOf_MonotonicAndBounded(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 10} {
		prev := 0
		for i := 0; i <= 1000; i++ {
			lvl := LevelOf(float64(i)/1000, n)
			if lvl < prev {
				t.Fatalf("n=%d: level decreased at %d", n, i)
			}
			if lvl < 0 || lvl > n-1 {
				t.Fatalf("n=%d: level %d out of range", n, lvl)
			}
			prev = lvl
		}
	}
}

func TestPauseOver_ScalesWithLevel(t *testing.T) {
	s := New(chainModel(t), testSettings(), t0, nil)
	require.NoError(t, s.SetValues("C1", 0.9, 0.9)) // level 2 -> 15s pause
	require.NoError(t, s.UpdateCompetence("C1", true, UpdateAssessment, 0, 1, t0))

	assert.False(t, s.PauseOver("C1", UpdateAssessment, t0.Add(14*time.Second)))
	assert.True(t, s.PauseOver("C1", UpdateAssessment, t0.Add(15*time.Second)))
	assert.False(t, s.PauseOver("C9", UpdateAssessment, t0))
}

func TestSetValues(t *testing.T) {
	s := New(chainModel(t), testSettings(), t0, nil)
	before, _ := s.Record("C1")

	require.NoError(t, s.SetValues("C1", 0.5, 0.75))
	v := s.Values()["C1"]
	assert.Equal(t, 0.75, v.Assessment)
	assert.Equal(t, 0.5, v.Learning)

	after, _ := s.Record("C1")
	assert.True(t, before.AssessedAt.Equal(after.AssessedAt), "timestamps untouched")

	assert.ErrorIs(t, s.SetValues("C9", 0.5, 0.5), competence.ErrUnknownReference)
	assert.ErrorIs(t, s.SetValues("C1", 1.5, 0.5), competence.ErrInvalidArgument)
	assert.ErrorIs(t, s.SetValues("C1", 0.5, -0.1), competence.ErrInvalidArgument)
}

func TestReset(t *testing.T) {
	s := New(chainModel(t), testSettings(), t0, nil)
	require.NoError(t, s.SetValues("C2", 0.9, 0.9))

	at := t0.Add(time.Hour)
	s.Reset(at)
	v := s.Values()["C2"]
	assert.InDelta(t, 1.0/6, v.Learning, 1e-15)
	assert.Equal(t, Levels{}, s.Levels()["C2"])

	r, _ := s.Record("C2")
	assert.True(t, r.LearnedAt.Equal(at.Add(-6*time.Second)))
	assert.True(t, r.ForgottenAt.Equal(at), "decay clock starts at the reset instant")

	s.Decay(at)
	v = s.Values()["C2"]
	assert.Equal(t, 1.0/6, v.Learning, "the backdated interval is not charged")
	assert.Equal(t, 1.0/6, v.Assessment)
}

func TestMinPrerequisiteLearning(t *testing.T) {
	s := New(chainModel(t), testSettings(), t0, nil)
	assert.Equal(t, 1.0, s.MinPrerequisiteLearning("C1"))
	require.NoError(t, s.SetValues("C1", 0.4, 0.4))
	assert.Equal(t, 0.4, s.MinPrerequisiteLearning("C3"))
}

func TestParseUpdateType(t *testing.T) {
	got, err := ParseUpdateType(" learning ")
	require.NoError(t, err)
	assert.Equal(t, UpdateLearning, got)

	_, err = ParseUpdateType("practice")
	assert.Error(t, err)
}
