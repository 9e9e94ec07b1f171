package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// StateDocumentVersion is the learner state format written by Encode.
const StateDocumentVersion = 1

// ErrMalformedState is returned when a stored learner state cannot be read.
var ErrMalformedState = errors.New("malformed learner state")

const recordSep = "&"

// stateDocument is the persisted form of a State. Each record packs the two
// values and three timestamps of a competence into one delimited string.
type stateDocument struct {
	Version     int           `json:"version"`
	Competences []stateRecord `json:"competences"`
}

type stateRecord struct {
	ID     string `json:"id"`
	Record string `json:"record"`
}

const stateSchemaURL = "schema://learner-state.json"

const stateSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "competences"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "competences": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "record"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "record": {"type": "string", "pattern": "^[^&]+(&[^&]+){4}$"}
        }
      }
    }
  }
}`

var (
	stateSchemaOnce     sync.Once
	stateSchemaCompiled *jsonschema.Schema
	stateSchemaErr      error
)

func compiledStateSchema() (*jsonschema.Schema, error) {
	stateSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(stateSchema), &def); err != nil {
			stateSchemaErr = fmt.Errorf("parse state schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(stateSchemaURL, def); err != nil {
			stateSchemaErr = fmt.Errorf("add state schema: %w", err)
			return
		}
		stateSchemaCompiled, stateSchemaErr = c.Compile(stateSchemaURL)
	})
	return stateSchemaCompiled, stateSchemaErr
}

// Encode serializes the state.
func (s *State) Encode() (string, error) {
	doc := stateDocument{
		Version:     StateDocumentVersion,
		Competences: make([]stateRecord, 0, len(s.records)),
	}
	for _, r := range s.records {
		doc.Competences = append(doc.Competences, stateRecord{ID: r.CompetenceID, Record: packRecord(r)})
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal learner state: %w", err)
	}
	return string(b), nil
}

// Restore overwrites records with the ones stored in text. Records for
// competences the model does not know are skipped; competences without a
// stored record keep their current values. On error the state is unchanged.
func (s *State) Restore(text string) error {
	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	schema, err := compiledStateSchema()
	if err != nil {
		return fmt.Errorf("compile state schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	var doc stateDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if doc.Version > StateDocumentVersion {
		return fmt.Errorf("%w: version %d is newer than %d", ErrMalformedState, doc.Version, StateDocumentVersion)
	}

	restored := make(map[int]Record, len(doc.Competences))
	for _, sr := range doc.Competences {
		i, ok := s.index[sr.ID]
		if !ok {
			s.log.Warn("stored state for unknown competence skipped", "competence", sr.ID)
			continue
		}
		r, err := unpackRecord(sr.ID, sr.Record)
		if err != nil {
			return err
		}
		restored[i] = r
	}
	for i, r := range restored {
		s.records[i] = r
	}
	return nil
}

func packRecord(r Record) string {
	return strings.Join([]string{
		strconv.FormatFloat(r.Assessment, 'g', -1, 64),
		strconv.FormatFloat(r.Learning, 'g', -1, 64),
		r.AssessedAt.UTC().Format(time.RFC3339Nano),
		r.LearnedAt.UTC().Format(time.RFC3339Nano),
		r.ForgottenAt.UTC().Format(time.RFC3339Nano),
	}, recordSep)
}

func unpackRecord(id, packed string) (Record, error) {
	parts := strings.Split(packed, recordSep)
	if len(parts) != 5 {
		return Record{}, fmt.Errorf("%w: record of %q has %d fields, want 5", ErrMalformedState, id, len(parts))
	}

	r := Record{CompetenceID: id}
	var err error
	if r.Assessment, err = parseUnit(parts[0]); err != nil {
		return Record{}, fmt.Errorf("%w: assessment value of %q: %v", ErrMalformedState, id, err)
	}
	if r.Learning, err = parseUnit(parts[1]); err != nil {
		return Record{}, fmt.Errorf("%w: learning value of %q: %v", ErrMalformedState, id, err)
	}
	for j, dst := range []*time.Time{&r.AssessedAt, &r.LearnedAt, &r.ForgottenAt} {
		if *dst, err = time.Parse(time.RFC3339Nano, parts[2+j]); err != nil {
			return Record{}, fmt.Errorf("%w: timestamp of %q: %v", ErrMalformedState, id, err)
		}
	}
	return r, nil
}

func parseUnit(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !inUnit(v) {
		return 0, fmt.Errorf("%g outside [0,1]", v)
	}
	return v, nil
}
