package competence

import (
	"fmt"
	"math"
	"slices"
)

// weightSumTolerance absorbs float rounding when deciding whether game
// situation weights already sum to 1.
const weightSumTolerance = 1e-9

// AddCompetence adds a competence. Fails with ErrDuplicateID if id exists.
func (m *Model) AddCompetence(id string) error {
	if id == "" {
		return m.reject(fmt.Errorf("add competence: empty id: %w", ErrInvalidArgument))
	}
	if m.HasCompetence(id) {
		return m.reject(fmt.Errorf("add competence %q: %w", id, ErrDuplicateID))
	}
	m.byCompetence[id] = len(m.competences)
	m.competences = append(m.competences, Competence{ID: id})
	return nil
}

// AddPrerequisites adds prerequisite edges prereq -> id for every prereq.
// The operation is all-or-nothing: if id or any prereq is unknown nothing
// changes. Existing edges are kept, so repeating a call is a no-op.
func (m *Model) AddPrerequisites(id string, prereqIDs ...string) error {
	if !m.HasCompetence(id) {
		return m.reject(fmt.Errorf("add prerequisites to %q: competence %w", id, ErrUnknownReference))
	}
	for _, p := range prereqIDs {
		if !m.HasCompetence(p) {
			return m.reject(fmt.Errorf("add prerequisite %q to %q: competence %w", p, id, ErrUnknownReference))
		}
	}

	existing, seen := m.prerequisites[id]
	if !seen {
		m.prereqOrder = append(m.prereqOrder, id)
	}
	for _, p := range prereqIDs {
		if !slices.Contains(existing, p) {
			existing = append(existing, p)
		}
	}
	m.prerequisites[id] = existing
	return nil
}

// AddDifficulty adds a difficulty level. The weight must be > 0.
func (m *Model) AddDifficulty(id string, weight float64) error {
	if _, ok := m.byDifficulty[id]; ok {
		return m.reject(fmt.Errorf("add difficulty %q: %w", id, ErrDuplicateID))
	}
	if !(weight > 0) || math.IsInf(weight, 0) {
		return m.reject(fmt.Errorf("add difficulty %q: weight must be > 0, got %g: %w", id, weight, ErrInvalidArgument))
	}
	m.byDifficulty[id] = len(m.difficulties)
	m.difficulties = append(m.difficulties, Difficulty{ID: id, Weight: weight})
	return nil
}

// AddGameSituation adds a game situation. Every referenced competence and
// the difficulty must exist and every weight must be > 0. Weights are
// rescaled to sum to 1 when they do not already.
func (m *Model) AddGameSituation(id, difficultyID string, learning, assessment bool, weights ...CompetenceWeight) error {
	if _, ok := m.bySituation[id]; ok {
		return m.reject(fmt.Errorf("add game situation %q: %w", id, ErrDuplicateID))
	}
	if _, ok := m.byDifficulty[difficultyID]; !ok {
		return m.reject(fmt.Errorf("add game situation %q: difficulty %q %w", id, difficultyID, ErrUnknownReference))
	}
	if len(weights) == 0 {
		return m.reject(fmt.Errorf("add game situation %q: no competences: %w", id, ErrInvalidArgument))
	}

	seen := make(map[string]bool, len(weights))
	sum := 0.0
	for _, cw := range weights {
		if !m.HasCompetence(cw.CompetenceID) {
			return m.reject(fmt.Errorf("add game situation %q: competence %q %w", id, cw.CompetenceID, ErrUnknownReference))
		}
		if !(cw.Weight > 0) || math.IsInf(cw.Weight, 0) {
			return m.reject(fmt.Errorf("add game situation %q: weight of %q must be > 0, got %g: %w", id, cw.CompetenceID, cw.Weight, ErrInvalidArgument))
		}
		if seen[cw.CompetenceID] {
			return m.reject(fmt.Errorf("add game situation %q: competence %q listed twice: %w", id, cw.CompetenceID, ErrInvalidArgument))
		}
		seen[cw.CompetenceID] = true
		sum += cw.Weight
	}

	normalized := slices.Clone(weights)
	if math.Abs(sum-1) > weightSumTolerance {
		for i := range normalized {
			normalized[i].Weight /= sum
		}
	}

	m.bySituation[id] = len(m.situations)
	m.situations = append(m.situations, GameSituation{
		ID:           id,
		DifficultyID: difficultyID,
		Learning:     learning,
		Assessment:   assessment,
		Competences:  normalized,
	})
	return nil
}

// reject logs a refused builder operation and returns err unchanged.
func (m *Model) reject(err error) error {
	m.log.Warn("model change rejected", "err", err)
	return err
}
