package competence

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/abhisek/competency/internal/logger"
)

// Model is the static competence graph: competences, their prerequisite
// relations, difficulty levels and game situations. Collections keep
// insertion order, which is also the tie-break order for recommendations.
type Model struct {
	competences  []Competence
	difficulties []Difficulty
	situations   []GameSituation

	// prerequisites maps a competence id to its direct prerequisite ids.
	prerequisites map[string][]string
	// prereqOrder lists competences with prerequisite relations in the
	// order the relations were first added.
	prereqOrder []string

	byCompetence map[string]int
	byDifficulty map[string]int
	bySituation  map[string]int

	log *logger.Logger
}

// New returns an empty Model. Rejected builder operations are logged to log;
// a nil log discards them.
func New(log *logger.Logger) *Model {
	return &Model{
		prerequisites: make(map[string][]string),
		byCompetence:  make(map[string]int),
		byDifficulty:  make(map[string]int),
		bySituation:   make(map[string]int),
		log:           logger.OrNop(log),
	}
}

// Dummy returns a model with competences C1..Cn and nothing else.
func Dummy(n int, log *logger.Logger) *Model {
	m := New(log)
	for i := 1; i <= n; i++ {
		_ = m.AddCompetence("C" + strconv.Itoa(i))
	}
	return m
}

// Competences returns all competences in insertion order.
func (m *Model) Competences() []Competence {
	return slices.Clone(m.competences)
}

// HasCompetence reports whether id is a known competence.
func (m *Model) HasCompetence(id string) bool {
	_, ok := m.byCompetence[id]
	return ok
}

// Prerequisites returns the direct prerequisite ids of a competence.
func (m *Model) Prerequisites(id string) []string {
	return slices.Clone(m.prerequisites[id])
}

// Difficulties returns all difficulties in insertion order.
func (m *Model) Difficulties() []Difficulty {
	return slices.Clone(m.difficulties)
}

// Difficulty returns a difficulty by id.
func (m *Model) Difficulty(id string) (Difficulty, bool) {
	i, ok := m.byDifficulty[id]
	if !ok {
		return Difficulty{}, false
	}
	return m.difficulties[i], true
}

// GameSituations returns all game situations in insertion order.
func (m *Model) GameSituations() []GameSituation {
	result := make([]GameSituation, len(m.situations))
	for i, g := range m.situations {
		result[i] = g.clone()
	}
	return result
}

// GameSituation returns a game situation by id.
func (m *Model) GameSituation(id string) (GameSituation, bool) {
	i, ok := m.bySituation[id]
	if !ok {
		return GameSituation{}, false
	}
	return m.situations[i].clone(), true
}

// DifficultyRating places a difficulty weight on the model's difficulty
// scale. possessed is the number of difficulties whose weight is <= weight;
// max is the number of difficulties defined.
func (m *Model) DifficultyRating(weight float64) (possessed, max int) {
	for _, d := range m.difficulties {
		if d.Weight <= weight {
			possessed++
		}
	}
	return possessed, len(m.difficulties)
}

// Describe returns a human-readable listing of the model.
func (m *Model) Describe() string {
	var b strings.Builder

	b.WriteString("Competences:\n")
	for _, c := range m.competences {
		fmt.Fprintf(&b, "  - %s\n", c.ID)
	}

	b.WriteString("Prerequisites:\n")
	for _, id := range m.prereqOrder {
		fmt.Fprintf(&b, "  - %s: %s\n", id, strings.Join(m.prerequisites[id], ", "))
	}

	b.WriteString("Game situations:\n")
	for _, g := range m.situations {
		fmt.Fprintf(&b, "  - %s (difficulty: %s, learning: %t, assessment: %t)\n",
			g.ID, g.DifficultyID, g.Learning, g.Assessment)
		for _, cw := range g.Competences {
			fmt.Fprintf(&b, "      - %s (%s)\n", cw.CompetenceID, strconv.FormatFloat(cw.Weight, 'g', 4, 64))
		}
	}

	b.WriteString("Difficulties:\n")
	for _, d := range m.difficulties {
		fmt.Fprintf(&b, "  - %s: %s\n", d.ID, strconv.FormatFloat(d.Weight, 'g', -1, 64))
	}
	return b.String()
}
