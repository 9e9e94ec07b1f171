package competence

import (
	"fmt"
	"math"
	"strings"
)

// Validate performs all structural checks on the model.
// Returns a combined error describing all problems found, or nil if valid.
// Prerequisite cycles are not reported: prerequisite caps only look at
// direct prerequisites, so a cycle cannot cause unbounded work.
func (m *Model) Validate() error {
	var errs []string

	idSet := make(map[string]bool, len(m.competences))
	for _, c := range m.competences {
		if c.ID == "" {
			errs = append(errs, "competence with empty ID")
		}
		if idSet[c.ID] {
			errs = append(errs, fmt.Sprintf("duplicate competence ID: %q", c.ID))
		}
		idSet[c.ID] = true
	}

	// Check for dangling prerequisites
	for _, id := range m.prereqOrder {
		if !idSet[id] {
			errs = append(errs, fmt.Sprintf("prerequisites declared for nonexistent competence %q", id))
		}
		for _, p := range m.prerequisites[id] {
			if !idSet[p] {
				errs = append(errs, fmt.Sprintf("competence %q references nonexistent prerequisite %q", id, p))
			}
		}
	}

	diffSet := make(map[string]bool, len(m.difficulties))
	for _, d := range m.difficulties {
		if diffSet[d.ID] {
			errs = append(errs, fmt.Sprintf("duplicate difficulty ID: %q", d.ID))
		}
		diffSet[d.ID] = true
		if !(d.Weight > 0) {
			errs = append(errs, fmt.Sprintf("difficulty %q: weight must be > 0, got %g", d.ID, d.Weight))
		}
	}

	gsSet := make(map[string]bool, len(m.situations))
	for _, g := range m.situations {
		prefix := fmt.Sprintf("game situation %q", g.ID)
		if gsSet[g.ID] {
			errs = append(errs, fmt.Sprintf("duplicate game situation ID: %q", g.ID))
		}
		gsSet[g.ID] = true
		if !diffSet[g.DifficultyID] {
			errs = append(errs, fmt.Sprintf("%s: references nonexistent difficulty %q", prefix, g.DifficultyID))
		}
		if len(g.Competences) == 0 {
			errs = append(errs, fmt.Sprintf("%s: has no competences", prefix))
			continue
		}
		sum := 0.0
		for _, cw := range g.Competences {
			if !idSet[cw.CompetenceID] {
				errs = append(errs, fmt.Sprintf("%s: references nonexistent competence %q", prefix, cw.CompetenceID))
			}
			if !(cw.Weight > 0) {
				errs = append(errs, fmt.Sprintf("%s: weight of %q must be > 0, got %g", prefix, cw.CompetenceID, cw.Weight))
			}
			sum += cw.Weight
		}
		if math.Abs(sum-1) > 1e-6 {
			errs = append(errs, fmt.Sprintf("%s: weights sum to %g, want 1", prefix, sum))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("competence model validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
