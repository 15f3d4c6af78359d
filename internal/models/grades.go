package models

import "strings"

// Core subject keys used across the eligibility engine.
const (
	CoreEnglish     = "english"
	CoreMathematics = "mathematics"
	CoreScience     = "science"
	CoreSocial      = "social"
)

// StudentGrades mirrors the grade form submitted by the UI. Field names are part of the wire contract.
type StudentGrades struct {
	English     string `json:"english" yaml:"english" validate:"max=8"`
	Mathematics string `json:"mathematics" yaml:"mathematics" validate:"max=8"`
	Science     string `json:"science" yaml:"science" validate:"max=8"`
	Social      string `json:"social" yaml:"social" validate:"max=8"`

	Elective1Subject string `json:"elective1Subject" yaml:"elective1Subject" validate:"max=120"`
	Elective1Grade   string `json:"elective1Grade" yaml:"elective1Grade" validate:"max=8"`
	Elective2Subject string `json:"elective2Subject" yaml:"elective2Subject" validate:"max=120"`
	Elective2Grade   string `json:"elective2Grade" yaml:"elective2Grade" validate:"max=8"`
	Elective3Subject string `json:"elective3Subject" yaml:"elective3Subject" validate:"max=120"`
	Elective3Grade   string `json:"elective3Grade" yaml:"elective3Grade" validate:"max=8"`
	Elective4Subject string `json:"elective4Subject" yaml:"elective4Subject" validate:"max=120"`
	Elective4Grade   string `json:"elective4Grade" yaml:"elective4Grade" validate:"max=8"`
}

// SubjectGrade pairs a subject with the grade obtained.
type SubjectGrade struct {
	Key     string `json:"key,omitempty"`
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
}

// CoreEntries returns the four core slots in fixed order, including empty ones.
func (g StudentGrades) CoreEntries() []SubjectGrade {
	return []SubjectGrade{
		{Key: CoreEnglish, Subject: "English Language", Grade: clean(g.English)},
		{Key: CoreMathematics, Subject: "Core Mathematics", Grade: clean(g.Mathematics)},
		{Key: CoreScience, Subject: "Integrated Science", Grade: clean(g.Science)},
		{Key: CoreSocial, Subject: "Social Studies", Grade: clean(g.Social)},
	}
}

// ElectiveEntries returns the elective slots that carry both a subject and a grade.
func (g StudentGrades) ElectiveEntries() []SubjectGrade {
	raw := [][2]string{
		{g.Elective1Subject, g.Elective1Grade},
		{g.Elective2Subject, g.Elective2Grade},
		{g.Elective3Subject, g.Elective3Grade},
		{g.Elective4Subject, g.Elective4Grade},
	}
	entries := make([]SubjectGrade, 0, len(raw))
	for _, pair := range raw {
		subject := strings.TrimSpace(pair[0])
		grade := clean(pair[1])
		if subject == "" || grade == "" {
			continue
		}
		entries = append(entries, SubjectGrade{Subject: subject, Grade: grade})
	}
	return entries
}

func clean(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}
