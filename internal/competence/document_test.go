package competence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<datamodel version="1.0.0">
  <elements>
    <competences>
      <competence id="C1"/>
      <competence id="C2"/>
      <competence id="C3"/>
    </competences>
    <gamesituations>
      <gamesituation id="GS1" difficulty="easy" learning="true" assessment="false">
        <competence id="C1" weight="1"/>
        <competence id="C2" weight="3"/>
      </gamesituation>
      <gamesituation id="GSbad" difficulty="unknown" learning="true" assessment="true">
        <competence id="C1" weight="1"/>
      </gamesituation>
    </gamesituations>
  </elements>
  <relations>
    <competenceprerequisites>
      <competence id="C3">
        <prereqcompetence id="C1"/>
        <prereqcompetence id="C2"/>
      </competence>
    </competenceprerequisites>
  </relations>
  <mappings>
    <difficulties>
      <difficulty id="easy" weight="1"/>
      <difficulty id="hard" weight="2.5"/>
    </difficulties>
  </mappings>
</datamodel>`

func TestDecodeXML(t *testing.T) {
	m, err := Decode("dataModel.xml", sampleXML, nil)
	require.NoError(t, err)

	assert.Len(t, m.Competences(), 3)
	assert.Equal(t, []string{"C1", "C2"}, m.Prerequisites("C3"))

	gs := m.GameSituations()
	require.Len(t, gs, 1, "situation with unknown difficulty is skipped")
	assert.Equal(t, "GS1", gs[0].ID)
	assert.True(t, gs[0].Learning)
	assert.False(t, gs[0].Assessment)
	assert.InDelta(t, 0.25, gs[0].Weight("C1"), 1e-12)
	assert.InDelta(t, 0.75, gs[0].Weight("C2"), 1e-12)

	d, ok := m.Difficulty("hard")
	require.True(t, ok)
	assert.Equal(t, 2.5, d.Weight)
}

func TestDecodeXML_Malformed(t *testing.T) {
	_, err := DecodeXML("<datamodel><elements>", nil)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestDecode_VersionGate(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"", false},
		{"1.0.0", false},
		{"1.4.2", false},
		{"v1.2.0", false},
		{"2.0.0", true},
		{"banana", true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			doc := strings.Replace(sampleXML, `version="1.0.0"`, `version="`+tt.version+`"`, 1)
			_, err := DecodeXML(doc, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedVersion)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, key := range []string{"model.xml", "model.json"} {
		t.Run(key, func(t *testing.T) {
			m := sampleModel(t)
			text, err := Encode(key, m)
			require.NoError(t, err)

			got, err := Decode(key, text, nil)
			require.NoError(t, err)
			assert.Equal(t, m.Describe(), got.Describe())
			assert.Equal(t, m.GameSituations(), got.GameSituations())
			assert.Equal(t, m.Difficulties(), got.Difficulties())
		})
	}
}

func TestEncode_PicksFormatByKey(t *testing.T) {
	m := sampleModel(t)

	xmlText, err := Encode("dataModel.xml", m)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(xmlText, "<?xml"))
	assert.Contains(t, xmlText, `<datamodel version="1.0.0">`)
	assert.Contains(t, xmlText, `<prereqcompetence id="C1"></prereqcompetence>`)

	jsonText, err := Encode("dataModel.JSON", m)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(jsonText, "{"))
	assert.Contains(t, jsonText, `"prerequisites"`)
}

func TestDecodeJSON_SchemaViolation(t *testing.T) {
	tests := map[string]string{
		"not json":           `{"elements":`,
		"missing elements":   `{"version":"1.0.0"}`,
		"zero weight":        `{"elements":{"competences":[{"id":"C1"}]},"mappings":{"difficulties":[{"id":"d","weight":0}]}}`,
		"situation no comps": `{"elements":{"gamesituations":[{"id":"G","difficulty":"d","competences":[]}]}}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJSON(doc, nil)
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

const brokenXML = `<datamodel version="1.0.0">
  <elements>
    <competences>
      <competence id="C1"/>
      <competence id="C2"/>
    </competences>
    <gamesituations>
      <gamesituation id="GSnope" difficulty="nope" learning="true" assessment="true">
        <competence id="C1" weight="1"/>
      </gamesituation>
      <gamesituation id="GSghost" difficulty="easy" learning="true" assessment="true">
        <competence id="C7" weight="1"/>
      </gamesituation>
    </gamesituations>
  </elements>
  <relations>
    <competenceprerequisites>
      <competence id="C2">
        <prereqcompetence id="C9"/>
      </competence>
    </competenceprerequisites>
  </relations>
  <mappings>
    <difficulties>
      <difficulty id="easy" weight="1"/>
      <difficulty id="negative" weight="-1"/>
    </difficulties>
  </mappings>
</datamodel>`

func TestDecodeStrict_RejectsInvalidEntries(t *testing.T) {
	_, err := DecodeStrict("broken.xml", brokenXML, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownReference)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	for _, want := range []string{`"GSnope"`, `"GSghost"`, `"C2"`, `"negative"`} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestDecode_LenientSkipsInvalidEntries(t *testing.T) {
	m, err := Decode("broken.xml", brokenXML, nil)
	require.NoError(t, err)

	assert.Len(t, m.Competences(), 2)
	assert.Empty(t, m.GameSituations())
	assert.Empty(t, m.Prerequisites("C2"))
	assert.Len(t, m.Difficulties(), 1)
}

func TestDecodeStrict_AcceptsCleanDocument(t *testing.T) {
	text, err := Encode("model.json", sampleModel(t))
	require.NoError(t, err)

	m, err := DecodeStrict("model.json", text, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, m.GameSituations())
}

func TestDecodeStrict_MalformedStaysMalformed(t *testing.T) {
	_, err := DecodeStrict("dataModel.xml", "<datamodel><elements>", nil)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}
