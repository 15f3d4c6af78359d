package models

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// MalformedRecord marks a requirement whose whole record could not be read as an object.
const MalformedRecord = "*"

type fieldDecoder func(r *Requirement, decode func(interface{}) error) error

func field[T any](dst func(r *Requirement) *T) fieldDecoder {
	return func(r *Requirement, decode func(interface{}) error) error {
		var v T
		if err := decode(&v); err != nil {
			return err
		}
		*dst(r) = v
		return nil
	}
}

var requirementFields = map[string]fieldDecoder{
	"id":                     field(func(r *Requirement) *string { return &r.ID }),
	"programId":              field(func(r *Requirement) *string { return &r.ProgramID }),
	"applicantType":          field(func(r *Requirement) *string { return &r.ApplicantType }),
	"coreSubjects":           field(func(r *Requirement) *CoreRequirement { return &r.CoreSubjects }),
	"electiveSubjects":       field(func(r *Requirement) *[]ElectiveRequirement { return &r.ElectiveSubjects }),
	"aggregatePoints":        field(func(r *Requirement) **int { return &r.AggregatePoints }),
	"admissionTracks":        field(func(r *Requirement) *[]AdmissionTrack { return &r.AdmissionTracks }),
	"requirementComplexity":  field(func(r *Requirement) *Complexity { return &r.RequirementComplexity }),
	"additionalRequirements": field(func(r *Requirement) *[]string { return &r.AdditionalRequirements }),
}

// DecodeField decodes one named field, leaving it unset and recording the name in
// Malformed when the value does not fit. Unknown names are ignored.
func (r *Requirement) DecodeField(name string, decode func(interface{}) error) {
	fn, ok := requirementFields[name]
	if !ok {
		return
	}
	if err := fn(r, decode); err != nil {
		r.Malformed = append(r.Malformed, name)
	}
}

// UnmarshalJSON decodes field by field so one bad value drops only that field.
func (r *Requirement) UnmarshalJSON(data []byte) error {
	*r = Requirement{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		r.Malformed = []string{MalformedRecord}
		return nil
	}
	for name, raw := range fields {
		raw := raw
		r.DecodeField(name, func(v interface{}) error { return json.Unmarshal(raw, v) })
	}
	sort.Strings(r.Malformed)
	return nil
}

// UnmarshalYAML applies the same per-field tolerance as UnmarshalJSON.
func (r *Requirement) UnmarshalYAML(value *yaml.Node) error {
	*r = Requirement{}
	if value.Kind != yaml.MappingNode {
		r.Malformed = []string{MalformedRecord}
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		node := value.Content[i+1]
		r.DecodeField(value.Content[i].Value, node.Decode)
	}
	return nil
}
