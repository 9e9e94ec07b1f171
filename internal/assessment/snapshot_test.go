package assessment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/competency/internal/competence"
)

func TestEncodeRestore_RoundTrip(t *testing.T) {
	m := chainModel(t)
	s := New(m, testSettings(), t0, nil)
	require.NoError(t, s.UpdateCompetence("C1", true, UpdateAssessment, 0.3, 1, t0.Add(time.Minute)))
	s.Decay(t0.Add(2 * time.Hour))

	text, err := s.Encode()
	require.NoError(t, err)
	assert.Contains(t, text, `"id": "C1"`)
	assert.Contains(t, text, "&")

	restored := New(m, testSettings(), t0.Add(24*time.Hour), nil)
	require.NoError(t, restored.Restore(text))

	want, got := s.Records(), restored.Records()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].CompetenceID, got[i].CompetenceID)
		assert.Equal(t, want[i].Assessment, got[i].Assessment)
		assert.Equal(t, want[i].Learning, got[i].Learning)
		assert.True(t, want[i].AssessedAt.Equal(got[i].AssessedAt))
		assert.True(t, want[i].LearnedAt.Equal(got[i].LearnedAt))
		assert.True(t, want[i].ForgottenAt.Equal(got[i].ForgottenAt))
	}
}

func TestRestore_SkipsUnknownAndKeepsMissing(t *testing.T) {
	text := `{"version":1,"competences":[
	  {"id":"C1","record":"0.5&0.25&2026-03-01T08:00:00Z&2026-03-01T08:00:00Z&2026-03-01T08:30:00Z"},
	  {"id":"Gone","record":"0.5&0.5&2026-03-01T08:00:00Z&2026-03-01T08:00:00Z&2026-03-01T08:00:00Z"}
	]}`
	s := New(chainModel(t), testSettings(), t0, nil)
	require.NoError(t, s.Restore(text))

	v := s.Values()
	assert.Equal(t, Values{Assessment: 0.5, Learning: 0.25}, v["C1"])
	assert.InDelta(t, 1.0/6, v["C2"].Learning, 1e-15)
	_, ok := v["Gone"]
	assert.False(t, ok)
}

func TestRestore_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":       `{`,
		"no version":     `{"competences":[]}`,
		"short record":   `{"version":1,"competences":[{"id":"C1","record":"0.5&0.5"}]}`,
		"bad value":      `{"version":1,"competences":[{"id":"C1","record":"x&0.5&2026-03-01T08:00:00Z&2026-03-01T08:00:00Z&2026-03-01T08:00:00Z"}]}`,
		"out of range":   `{"version":1,"competences":[{"id":"C1","record":"1.5&0.5&2026-03-01T08:00:00Z&2026-03-01T08:00:00Z&2026-03-01T08:00:00Z"}]}`,
		"bad timestamp":  `{"version":1,"competences":[{"id":"C1","record":"0.5&0.5&yesterday&2026-03-01T08:00:00Z&2026-03-01T08:00:00Z"}]}`,
		"future version": `{"version":9,"competences":[]}`,
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			s := New(chainModel(t), testSettings(), t0, nil)
			before := s.Records()
			err := s.Restore(text)
			assert.ErrorIs(t, err, ErrMalformedState)
			assert.Equal(t, before, s.Records())
		})
	}
}

func TestEncode_ContainsEveryCompetence(t *testing.T) {
	s := New(competence.Dummy(5, nil), testSettings(), t0, nil)
	text, err := s.Encode()
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(text, `"record"`))
}
