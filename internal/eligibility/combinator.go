package eligibility

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// Combination is a candidate aggregate: three core and three elective credit passes.
type Combination struct {
	Core      []models.SubjectGrade `json:"core"`
	Electives []models.SubjectGrade `json:"electives"`
	Aggregate int                   `json:"aggregate"`
	IsBest    bool                  `json:"isBest"`

	// allCore carries every core slot so rules can check core subjects outside the counted three.
	allCore []models.SubjectGrade
	// offered lists every elective the student sat, whatever the grade.
	offered []models.SubjectGrade
}

// Offered reports whether the student sat subject as an elective, in or out of this combination.
func (c Combination) Offered(subject string) bool {
	for _, e := range c.offered {
		if e.Grade != "" && SameSubject(e.Subject, subject) {
			return true
		}
	}
	for _, e := range c.Electives {
		if SameSubject(e.Subject, subject) {
			return true
		}
	}
	return false
}

// Combinations enumerates every valid 3 core + 3 elective selection, best aggregate first.
// English and Mathematics are mandatory; the third core subject is each remaining core credit in turn.
func Combinations(grades models.StudentGrades) []Combination {
	allCore := grades.CoreEntries()

	var english, maths *models.SubjectGrade
	var others []models.SubjectGrade
	for i := range allCore {
		entry := allCore[i]
		if entry.Grade == "" || !IsCredit(entry.Grade) {
			continue
		}
		switch entry.Key {
		case models.CoreEnglish:
			english = &allCore[i]
		case models.CoreMathematics:
			maths = &allCore[i]
		default:
			others = append(others, entry)
		}
	}
	if english == nil || maths == nil || len(others) == 0 {
		return nil
	}

	offered := grades.ElectiveEntries()
	var electives []models.SubjectGrade
	for _, entry := range offered {
		if IsCredit(entry.Grade) {
			electives = append(electives, entry)
		}
	}
	if len(electives) < 3 {
		return nil
	}

	var combos []Combination
	for _, third := range others {
		core := []models.SubjectGrade{*english, *maths, third}
		coreSum := Rank(english.Grade) + Rank(maths.Grade) + Rank(third.Grade)
		for i := 0; i < len(electives); i++ {
			for j := i + 1; j < len(electives); j++ {
				for k := j + 1; k < len(electives); k++ {
					picked := []models.SubjectGrade{electives[i], electives[j], electives[k]}
					combos = append(combos, Combination{
						Core:      core,
						Electives: picked,
						Aggregate: coreSum + Rank(picked[0].Grade) + Rank(picked[1].Grade) + Rank(picked[2].Grade),
						allCore:   allCore,
						offered:   offered,
					})
				}
			}
		}
	}

	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].Aggregate < combos[j].Aggregate
	})
	combos[0].IsBest = true
	return combos
}

// Shortfall explains why Combinations returned nothing, or "" when combinations exist.
func Shortfall(grades models.StudentGrades) string {
	var coreCredits []string
	hasEnglish, hasMaths := false, false
	for _, entry := range grades.CoreEntries() {
		if entry.Grade == "" || !IsCredit(entry.Grade) {
			continue
		}
		coreCredits = append(coreCredits, entry.Subject)
		switch entry.Key {
		case models.CoreEnglish:
			hasEnglish = true
		case models.CoreMathematics:
			hasMaths = true
		}
	}
	electiveCredits := 0
	for _, entry := range grades.ElectiveEntries() {
		if IsCredit(entry.Grade) {
			electiveCredits++
		}
	}

	var missing []string
	if !hasEnglish {
		missing = append(missing, "a credit pass (C6 or better) in English Language")
	}
	if !hasMaths {
		missing = append(missing, "a credit pass (C6 or better) in Core Mathematics")
	}
	if len(coreCredits) < 3 && hasEnglish && hasMaths {
		missing = append(missing, "a credit pass in Integrated Science or Social Studies")
	}
	if electiveCredits < 3 {
		missing = append(missing, fmt.Sprintf("3 elective credit passes (only %d found)", electiveCredits))
	}
	if len(missing) == 0 {
		return ""
	}
	return "Cannot form a valid aggregate: " + strings.Join(missing, "; ")
}

// Describe renders the combination for display, e.g. "English Language (A1), ... = 10".
func (c Combination) Describe() string {
	parts := make([]string, 0, len(c.Core)+len(c.Electives))
	for _, s := range c.Core {
		parts = append(parts, fmt.Sprintf("%s (%s)", s.Subject, s.Grade))
	}
	core := strings.Join(parts, ", ")
	parts = parts[:0]
	for _, s := range c.Electives {
		parts = append(parts, fmt.Sprintf("%s (%s)", s.Subject, s.Grade))
	}
	return fmt.Sprintf("Core: %s | Electives: %s | Aggregate %d", core, strings.Join(parts, ", "), c.Aggregate)
}

// ElectiveNames lists the elective subjects in combination order.
func (c Combination) ElectiveNames() []string {
	names := make([]string, len(c.Electives))
	for i, s := range c.Electives {
		names[i] = s.Subject
	}
	return names
}

// coreGrade looks up a core subject by key, preferring the full core set when available.
func (c Combination) coreGrade(key string) (models.SubjectGrade, bool) {
	source := c.allCore
	if len(source) == 0 {
		source = c.Core
	}
	for _, s := range source {
		if s.Key == key && s.Grade != "" {
			return s, true
		}
	}
	return models.SubjectGrade{}, false
}
