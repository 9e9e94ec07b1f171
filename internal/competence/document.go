package competence

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/abhisek/competency/internal/logger"
)

// DocumentVersion is the model document format written by this package.
// Documents with the same major version can be read.
const DocumentVersion = "1.0.0"

// document mirrors the interchange format. The same structure is used for
// XML and JSON renditions.
type document struct {
	XMLName   xml.Name     `xml:"datamodel" json:"-"`
	Version   string       `xml:"version,attr,omitempty" json:"version,omitempty"`
	Elements  docElements  `xml:"elements" json:"elements"`
	Relations docRelations `xml:"relations" json:"relations"`
	Mappings  docMappings  `xml:"mappings" json:"mappings"`
}

type docElements struct {
	Competences    []docRef           `xml:"competences>competence" json:"competences"`
	GameSituations []docGameSituation `xml:"gamesituations>gamesituation" json:"gamesituations"`
}

type docRelations struct {
	Prerequisites []docPrerequisites `xml:"competenceprerequisites>competence" json:"competenceprerequisites"`
}

type docMappings struct {
	Difficulties []docWeighted `xml:"difficulties>difficulty" json:"difficulties"`
}

type docRef struct {
	ID string `xml:"id,attr" json:"id"`
}

type docWeighted struct {
	ID     string  `xml:"id,attr" json:"id"`
	Weight float64 `xml:"weight,attr" json:"weight"`
}

type docPrerequisites struct {
	ID            string   `xml:"id,attr" json:"id"`
	Prerequisites []docRef `xml:"prereqcompetence" json:"prerequisites"`
}

type docGameSituation struct {
	ID          string        `xml:"id,attr" json:"id"`
	Difficulty  string        `xml:"difficulty,attr" json:"difficulty"`
	Assessment  bool          `xml:"assessment,attr" json:"assessment"`
	Learning    bool          `xml:"learning,attr" json:"learning"`
	Competences []docWeighted `xml:"competence" json:"competences"`
}

// IsJSONKey reports whether a resource key names a JSON document.
func IsJSONKey(key string) bool {
	return strings.EqualFold(path.Ext(key), ".json")
}

// Encode renders the model in the format implied by key's extension
// (.json for JSON, XML otherwise).
func Encode(key string, m *Model) (string, error) {
	if IsJSONKey(key) {
		return EncodeJSON(m)
	}
	return EncodeXML(m)
}

// Decode parses a model document in the format implied by key's extension.
// Entries that violate model invariants are logged and skipped.
func Decode(key, text string, log *logger.Logger) (*Model, error) {
	m, _, err := decode(key, text, log)
	return m, err
}

// DecodeStrict is Decode for documents being checked or imported: any
// rejected entry fails the whole document. The returned error joins every
// rejection.
func DecodeStrict(key, text string, log *logger.Logger) (*Model, error) {
	m, rejected, err := decode(key, text, log)
	if err != nil {
		return nil, err
	}
	if rejected != nil {
		return nil, fmt.Errorf("model document %q has invalid entries: %w", key, rejected)
	}
	return m, nil
}

func decode(key, text string, log *logger.Logger) (m *Model, rejected, err error) {
	var doc document
	if IsJSONKey(key) {
		doc, err = parseJSON(text)
	} else {
		doc, err = parseXML(text)
	}
	if err != nil {
		return nil, nil, err
	}
	return doc.toModel(log)
}

// EncodeXML renders the model as an XML document.
func EncodeXML(m *Model) (string, error) {
	b, err := xml.MarshalIndent(m.toDocument(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal model: %w", err)
	}
	return xml.Header + string(b) + "\n", nil
}

// DecodeXML parses an XML model document.
func DecodeXML(text string, log *logger.Logger) (*Model, error) {
	doc, err := parseXML(text)
	if err != nil {
		return nil, err
	}
	m, _, err := doc.toModel(log)
	return m, err
}

func parseXML(text string) (document, error) {
	var doc document
	if err := xml.Unmarshal([]byte(text), &doc); err != nil {
		return document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return doc, nil
}

// EncodeJSON renders the model as a JSON document.
func EncodeJSON(m *Model) (string, error) {
	b, err := json.MarshalIndent(m.toDocument(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal model: %w", err)
	}
	return string(b) + "\n", nil
}

// DecodeJSON validates a JSON model document against the document schema
// and parses it.
func DecodeJSON(text string, log *logger.Logger) (*Model, error) {
	doc, err := parseJSON(text)
	if err != nil {
		return nil, err
	}
	m, _, err := doc.toModel(log)
	return m, err
}

func parseJSON(text string) (document, error) {
	if err := validateJSONDocument([]byte(text)); err != nil {
		return document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	var doc document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return doc, nil
}

// checkVersion accepts an empty version (legacy documents) or any semantic
// version sharing DocumentVersion's major version.
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	sv := "v" + strings.TrimPrefix(v, "v")
	if !semver.IsValid(sv) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if semver.Major(sv) != semver.Major("v"+DocumentVersion) {
		return fmt.Errorf("%w: %s (reader supports %s)", ErrUnsupportedVersion, v, semver.Major("v"+DocumentVersion))
	}
	return nil
}

func (m *Model) toDocument() document {
	doc := document{
		Version: DocumentVersion,
		Elements: docElements{
			Competences:    make([]docRef, 0, len(m.competences)),
			GameSituations: make([]docGameSituation, 0, len(m.situations)),
		},
		Relations: docRelations{
			Prerequisites: make([]docPrerequisites, 0, len(m.prereqOrder)),
		},
		Mappings: docMappings{
			Difficulties: make([]docWeighted, 0, len(m.difficulties)),
		},
	}

	for _, c := range m.competences {
		doc.Elements.Competences = append(doc.Elements.Competences, docRef{ID: c.ID})
	}
	for _, g := range m.situations {
		dg := docGameSituation{
			ID:          g.ID,
			Difficulty:  g.DifficultyID,
			Assessment:  g.Assessment,
			Learning:    g.Learning,
			Competences: make([]docWeighted, 0, len(g.Competences)),
		}
		for _, cw := range g.Competences {
			dg.Competences = append(dg.Competences, docWeighted{ID: cw.CompetenceID, Weight: cw.Weight})
		}
		doc.Elements.GameSituations = append(doc.Elements.GameSituations, dg)
	}
	for _, id := range m.prereqOrder {
		dp := docPrerequisites{ID: id, Prerequisites: make([]docRef, 0, len(m.prerequisites[id]))}
		for _, p := range m.prerequisites[id] {
			dp.Prerequisites = append(dp.Prerequisites, docRef{ID: p})
		}
		doc.Relations.Prerequisites = append(doc.Relations.Prerequisites, dp)
	}
	for _, d := range m.difficulties {
		doc.Mappings.Difficulties = append(doc.Mappings.Difficulties, docWeighted{ID: d.ID, Weight: d.Weight})
	}
	return doc
}

// toModel replays the document through the builder operations so every
// invariant is enforced the same way as for programmatic construction.
// References must resolve, so competences and difficulties go first.
// Rejected entries are skipped and returned joined as rejected; err is set
// only when the document as a whole is unusable.
func (doc document) toModel(log *logger.Logger) (m *Model, rejected, err error) {
	if err := checkVersion(doc.Version); err != nil {
		return nil, nil, err
	}

	var errs []error
	keep := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	m = New(log)
	for _, c := range doc.Elements.Competences {
		keep(m.AddCompetence(c.ID))
	}
	for _, d := range doc.Mappings.Difficulties {
		keep(m.AddDifficulty(d.ID, d.Weight))
	}
	for _, p := range doc.Relations.Prerequisites {
		ids := make([]string, 0, len(p.Prerequisites))
		for _, r := range p.Prerequisites {
			ids = append(ids, r.ID)
		}
		keep(m.AddPrerequisites(p.ID, ids...))
	}
	for _, g := range doc.Elements.GameSituations {
		weights := make([]CompetenceWeight, 0, len(g.Competences))
		for _, cw := range g.Competences {
			weights = append(weights, W(cw.ID, cw.Weight))
		}
		keep(m.AddGameSituation(g.ID, g.Difficulty, g.Learning, g.Assessment, weights...))
	}
	return m, errors.Join(errs...), nil
}
