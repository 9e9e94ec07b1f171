package competence

import (
	"errors"
	"slices"
)

var (
	// ErrDuplicateID is returned when an id is already taken.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrUnknownReference is returned when a competence, difficulty or
	// game situation id does not resolve.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrInvalidArgument is returned for out-of-range weights and
	// malformed inputs.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedDocument is returned when a model document cannot be parsed.
	ErrMalformedDocument = errors.New("malformed model document")

	// ErrUnsupportedVersion is returned for documents written by a newer,
	// incompatible format version.
	ErrUnsupportedVersion = errors.New("unsupported model document version")
)

// Competence is a named, independently trackable skill.
type Competence struct {
	ID string
}

// Difficulty is a named point on the difficulty scale.
type Difficulty struct {
	ID     string
	Weight float64
}

// CompetenceWeight is one competence's share of a game situation.
type CompetenceWeight struct {
	CompetenceID string
	Weight       float64
}

// W is shorthand for building a CompetenceWeight.
func W(competenceID string, weight float64) CompetenceWeight {
	return CompetenceWeight{CompetenceID: competenceID, Weight: weight}
}

// GameSituation is an in-game activity exercising a weighted set of
// competences at a given difficulty.
type GameSituation struct {
	ID           string
	DifficultyID string
	Learning     bool // usable for learning
	Assessment   bool // usable for assessment
	Competences  []CompetenceWeight
}

func (g GameSituation) clone() GameSituation {
	g.Competences = slices.Clone(g.Competences)
	return g
}

// Weight returns the situation's weight for a competence, or 0.
func (g GameSituation) Weight(competenceID string) float64 {
	for _, cw := range g.Competences {
		if cw.CompetenceID == competenceID {
			return cw.Weight
		}
	}
	return 0
}
