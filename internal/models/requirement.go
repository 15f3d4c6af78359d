package models

import (
	"encoding/json"
	"strings"
)

// Complexity tags how much structure a requirement record carries.
type Complexity string

const (
	ComplexityBasic        Complexity = "basic"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// ElectiveType distinguishes a single named elective from an "any N of" pool.
type ElectiveType string

const (
	ElectiveSingle ElectiveType = "single"
	ElectiveAny    ElectiveType = "any"
)

// DefaultMinGrade is the credit pass applied when a record omits a minimum grade.
const DefaultMinGrade = "C6"

// Requirement is the admission rule for one programme variant.
type Requirement struct {
	ID                     string                `json:"id" yaml:"id"`
	ProgramID              string                `json:"programId" yaml:"programId"`
	ApplicantType          string                `json:"applicantType,omitempty" yaml:"applicantType"`
	CoreSubjects           CoreRequirement       `json:"coreSubjects" yaml:"coreSubjects"`
	ElectiveSubjects       []ElectiveRequirement `json:"electiveSubjects,omitempty" yaml:"electiveSubjects"`
	AggregatePoints        *int                  `json:"aggregatePoints,omitempty" yaml:"aggregatePoints"`
	AdmissionTracks        []AdmissionTrack      `json:"admissionTracks,omitempty" yaml:"admissionTracks"`
	RequirementComplexity  Complexity            `json:"requirementComplexity,omitempty" yaml:"requirementComplexity"`
	AdditionalRequirements []string              `json:"additionalRequirements,omitempty" yaml:"additionalRequirements"`

	// Malformed names fields dropped while decoding; they read as absent constraints.
	Malformed []string `json:"-" yaml:"-"`
}

// ElectiveRequirement is one entry of a requirement's elective list.
// Subject may name a specific subject, a named pool ("Science") or the wildcard "any".
type ElectiveRequirement struct {
	Subject  string       `json:"subject,omitempty" yaml:"subject"`
	Options  []string     `json:"options,omitempty" yaml:"options"`
	MinGrade string       `json:"minGrade,omitempty" yaml:"minGrade"`
	Count    int          `json:"count,omitempty" yaml:"count"`
	Type     ElectiveType `json:"type,omitempty" yaml:"type"`
}

// Kind returns the declared type, inferring "any" for pooled or counted entries.
func (e ElectiveRequirement) Kind() ElectiveType {
	switch ElectiveType(strings.ToLower(string(e.Type))) {
	case ElectiveSingle:
		return ElectiveSingle
	case ElectiveAny:
		return ElectiveAny
	}
	if len(e.Options) > 0 || e.Count > 1 {
		return ElectiveAny
	}
	return ElectiveSingle
}

// Required returns how many elective slots the entry consumes.
func (e ElectiveRequirement) Required() int {
	if e.Kind() == ElectiveSingle || e.Count <= 0 {
		return 1
	}
	return e.Count
}

// Grade returns the minimum grade or the default credit pass.
func (e ElectiveRequirement) Grade() string {
	if strings.TrimSpace(e.MinGrade) == "" {
		return DefaultMinGrade
	}
	return e.MinGrade
}

// AdmissionTrack is a named alternative pathway into a programme.
type AdmissionTrack struct {
	ID              string                `json:"id,omitempty" yaml:"id"`
	Name            string                `json:"name" yaml:"name"`
	Description     string                `json:"description,omitempty" yaml:"description"`
	ElectiveOptions []ElectiveRequirement `json:"electiveOptions,omitempty" yaml:"electiveOptions"`
	AggregatePoints *int                  `json:"aggregatePoints,omitempty" yaml:"aggregatePoints"`
	AdditionalRules []string              `json:"additionalRules,omitempty" yaml:"additionalRules"`
}

// CoreKind tags the representation used for core subjects.
type CoreKind string

const (
	CoreKindNone       CoreKind = ""
	CoreKindFlat       CoreKind = "flat"
	CoreKindStructured CoreKind = "structured"
)

// CoreAnyGroup requires Count subjects from Subjects at MinGrade or better.
type CoreAnyGroup struct {
	Count    int      `json:"count"`
	MinGrade string   `json:"minGrade,omitempty"`
	Subjects []string `json:"subjects"`
}

// CoreRequirement holds either a flat subject→grade map or a compulsory/any structure.
type CoreRequirement struct {
	Kind       CoreKind
	Subjects   map[string]string
	Compulsory map[string]string
	Any        *CoreAnyGroup
}

// FlatCore builds a flat core requirement.
func FlatCore(subjects map[string]string) CoreRequirement {
	return CoreRequirement{Kind: CoreKindFlat, Subjects: subjects}
}

// IsZero reports whether no core constraint was declared.
func (c CoreRequirement) IsZero() bool {
	return c.Kind == CoreKindNone || (len(c.Subjects) == 0 && len(c.Compulsory) == 0 && c.Any == nil)
}

// MarshalJSON writes the representation matching Kind.
func (c CoreRequirement) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CoreKindFlat:
		return json.Marshal(c.Subjects)
	case CoreKindStructured:
		payload := map[string]interface{}{}
		if len(c.Compulsory) > 0 {
			payload["compulsory"] = c.Compulsory
		}
		if c.Any != nil {
			payload["any"] = c.Any
		}
		return json.Marshal(payload)
	default:
		return []byte("{}"), nil
	}
}

// UnmarshalJSON accepts either shape. Malformed input decodes to an empty constraint.
func (c *CoreRequirement) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*c = CoreRequirement{}
		return nil
	}
	*c = coreFromGeneric(raw)
	return nil
}

// UnmarshalYAML accepts the same shapes as UnmarshalJSON.
func (c *CoreRequirement) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		*c = CoreRequirement{}
		return nil
	}
	*c = coreFromGeneric(raw)
	return nil
}

func coreFromGeneric(raw interface{}) CoreRequirement {
	switch v := raw.(type) {
	case []interface{}:
		return CoreRequirement{Kind: CoreKindFlat, Subjects: gradeMap(v)}
	case map[string]interface{}:
		_, hasCompulsory := v["compulsory"]
		_, hasAny := v["any"]
		if hasCompulsory || hasAny {
			return CoreRequirement{
				Kind:       CoreKindStructured,
				Compulsory: gradeMap(v["compulsory"]),
				Any:        anyGroup(v["any"]),
			}
		}
		return CoreRequirement{Kind: CoreKindFlat, Subjects: gradeMap(v)}
	default:
		return CoreRequirement{}
	}
}

func gradeMap(raw interface{}) map[string]string {
	out := map[string]string{}
	switch v := raw.(type) {
	case []interface{}:
		for _, item := range v {
			if name, ok := item.(string); ok && strings.TrimSpace(name) != "" {
				out[name] = DefaultMinGrade
			}
		}
	case map[string]interface{}:
		for name, grade := range v {
			if g, ok := grade.(string); ok {
				out[name] = g
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func anyGroup(raw interface{}) *CoreAnyGroup {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	group := &CoreAnyGroup{Count: 1}
	switch n := m["count"].(type) {
	case float64:
		group.Count = int(n)
	case int:
		group.Count = n
	}
	if g, ok := m["minGrade"].(string); ok {
		group.MinGrade = g
	}
	if list, ok := m["subjects"].([]interface{}); ok {
		for _, item := range list {
			if name, ok := item.(string); ok {
				group.Subjects = append(group.Subjects, name)
			}
		}
	}
	if len(group.Subjects) == 0 {
		return nil
	}
	return group
}
