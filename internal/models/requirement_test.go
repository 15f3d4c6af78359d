package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCoreRequirementUnmarshalJSON(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		kind    CoreKind
		check   func(t *testing.T, c CoreRequirement)
	}{
		{
			name:    "flat map",
			payload: `{"English Language":"C6","Core Mathematics":"B3"}`,
			kind:    CoreKindFlat,
			check: func(t *testing.T, c CoreRequirement) {
				assert.Equal(t, "B3", c.Subjects["Core Mathematics"])
			},
		},
		{
			name:    "list of names",
			payload: `["English Language","Integrated Science"]`,
			kind:    CoreKindFlat,
			check: func(t *testing.T, c CoreRequirement) {
				assert.Equal(t, DefaultMinGrade, c.Subjects["Integrated Science"])
			},
		},
		{
			name:    "structured",
			payload: `{"compulsory":{"English Language":"C6"},"any":{"count":1,"minGrade":"C6","subjects":["Integrated Science","Social Studies"]}}`,
			kind:    CoreKindStructured,
			check: func(t *testing.T, c CoreRequirement) {
				require.NotNil(t, c.Any)
				assert.Equal(t, 1, c.Any.Count)
				assert.Len(t, c.Any.Subjects, 2)
				assert.Equal(t, "C6", c.Compulsory["English Language"])
			},
		},
		{
			name:    "malformed",
			payload: `42`,
			kind:    CoreKindNone,
			check: func(t *testing.T, c CoreRequirement) {
				assert.True(t, c.IsZero())
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c CoreRequirement
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &c))
			assert.Equal(t, tc.kind, c.Kind)
			tc.check(t, c)
		})
	}
}

func TestRequirementUnmarshalYAML(t *testing.T) {
	doc := `
id: req-1
programId: prog-1
aggregatePoints: 24
requirementComplexity: advanced
coreSubjects:
  compulsory:
    English Language: C6
  any:
    count: 1
    subjects: [Integrated Science, Social Studies]
electiveSubjects:
  - subject: Physics
    minGrade: B3
  - subject: Science
    count: 2
admissionTracks:
  - name: Science track
    electiveOptions:
      - subject: Chemistry
`
	var req Requirement
	require.NoError(t, yaml.Unmarshal([]byte(doc), &req))
	assert.Equal(t, "prog-1", req.ProgramID)
	require.NotNil(t, req.AggregatePoints)
	assert.Equal(t, 24, *req.AggregatePoints)
	assert.Equal(t, CoreKindStructured, req.CoreSubjects.Kind)
	require.NotNil(t, req.CoreSubjects.Any)
	assert.Equal(t, 1, req.CoreSubjects.Any.Count)
	require.Len(t, req.ElectiveSubjects, 2)
	assert.Equal(t, ElectiveSingle, req.ElectiveSubjects[0].Kind())
	assert.Equal(t, ElectiveAny, req.ElectiveSubjects[1].Kind())
	assert.Equal(t, 2, req.ElectiveSubjects[1].Required())
	require.Len(t, req.AdmissionTracks, 1)
	assert.Equal(t, ComplexityAdvanced, req.RequirementComplexity)
	assert.Empty(t, req.Malformed)
}

func TestRequirementDropsMalformedFields(t *testing.T) {
	var fromJSON []Requirement
	payload := `[
		{"id":"good","programId":"p1","electiveSubjects":[{"subject":"Physics"}],"aggregatePoints":24},
		{"id":"bad","programId":"p2","electiveSubjects":"Physics, Chemistry","aggregatePoints":"twelve","admissionTracks":{"name":1},"requirementComplexity":"basic"},
		"not-a-record"
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &fromJSON))
	require.Len(t, fromJSON, 3)

	assert.Empty(t, fromJSON[0].Malformed)
	require.Len(t, fromJSON[0].ElectiveSubjects, 1)

	bad := fromJSON[1]
	assert.Equal(t, "bad", bad.ID)
	assert.Equal(t, ComplexityBasic, bad.RequirementComplexity)
	assert.Nil(t, bad.ElectiveSubjects)
	assert.Nil(t, bad.AggregatePoints)
	assert.Nil(t, bad.AdmissionTracks)
	assert.Equal(t, []string{"admissionTracks", "aggregatePoints", "electiveSubjects"}, bad.Malformed)

	assert.Equal(t, []string{MalformedRecord}, fromJSON[2].Malformed)

	var fromYAML []Requirement
	doc := `
- id: bad
  programId: p2
  electiveSubjects: Physics, Chemistry
  aggregatePoints: [12]
- id: good
  aggregatePoints: 10
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "p2", fromYAML[0].ProgramID)
	assert.Nil(t, fromYAML[0].ElectiveSubjects)
	assert.Nil(t, fromYAML[0].AggregatePoints)
	assert.ElementsMatch(t, []string{"electiveSubjects", "aggregatePoints"}, fromYAML[0].Malformed)
	require.NotNil(t, fromYAML[1].AggregatePoints)
	assert.Equal(t, 10, *fromYAML[1].AggregatePoints)
}

func TestCoreRequirementMarshalRoundTrip(t *testing.T) {
	flat := FlatCore(map[string]string{"English Language": "C6"})
	data, err := json.Marshal(flat)
	require.NoError(t, err)
	assert.JSONEq(t, `{"English Language":"C6"}`, string(data))

	data, err = json.Marshal(CoreRequirement{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestStudentGradesEntries(t *testing.T) {
	g := StudentGrades{
		English:          " b2",
		Elective1Subject: "Physics",
		Elective1Grade:   "a1",
		Elective2Subject: "Chemistry",
	}
	core := g.CoreEntries()
	require.Len(t, core, 4)
	assert.Equal(t, "B2", core[0].Grade)
	assert.Equal(t, CoreEnglish, core[0].Key)

	electives := g.ElectiveEntries()
	require.Len(t, electives, 1)
	assert.Equal(t, SubjectGrade{Subject: "Physics", Grade: "A1"}, electives[0])
}
