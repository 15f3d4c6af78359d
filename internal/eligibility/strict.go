package eligibility

import (
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// StrictRule matches the requirement's elective list entry by entry. Single entries
// name one subject, "any" entries draw Count subjects from a pool; a matched elective
// is consumed and cannot satisfy a later entry.
type StrictRule struct{}

func (StrictRule) Family() Family { return FamilyStrict }

func (StrictRule) Evaluate(c Combination, req models.Requirement, program string) Verdict {
	v := newVerdict("Strict matching for " + program + ": every listed elective must be passed at its minimum grade, and one subject counts towards one requirement only")
	coreOK := checkCore(&v, c, req.CoreSubjects)

	used := slotSet{}
	singleRequired, singleMet := 0, 0
	anyRequired, anyMet := 0, 0
	var matchedAll []models.SubjectGrade

	for _, entry := range req.ElectiveSubjects {
		set := setForEntry(entry)
		grade := minGradeOr(entry.MinGrade, models.DefaultMinGrade)
		need := entry.Required()
		matched := used.take(c.Electives, set, grade, need)
		matchedAll = append(matchedAll, matched...)

		if entry.Kind() == models.ElectiveSingle {
			singleRequired++
			if len(matched) == 1 {
				singleMet++
				v.pass("%s: %s (required %s)", entry.Subject, matched[0].Grade, grade)
				continue
			}
			if found, ok := findElective(c, set, used); ok {
				v.fail("%s: %s does not meet the required %s", found.Subject, found.Grade, grade)
			} else if _, taken := findElective(c, set, nil); taken {
				v.fail("%s is already used by an earlier requirement", entry.Subject)
			} else {
				v.fail("%s at %s or better is required", entry.Subject, grade)
			}
			continue
		}

		anyRequired += need
		anyMet += len(matched)
		if len(matched) == need {
			v.pass("%d from %s: %s", need, set.label, describeSubjects(matched))
		} else {
			v.fail("%d from %s at %s or better required, found %d", need, set.label, grade, len(matched))
		}
	}

	if len(req.ElectiveSubjects) == 0 {
		v.warn("No elective subject list is on record for this programme; any three elective credits are accepted")
	}

	v.Eligible = coreOK && singleMet == singleRequired && anyMet == anyRequired
	if v.Eligible {
		v.Used = subjectNames(matchedAll)
	} else if singleMet < singleRequired || anyMet < anyRequired {
		v.recommend("Check that your elective subjects match the programme's listed requirements")
	}
	return v
}

// findElective returns the first elective in set whose slot is not in used.
func findElective(c Combination, set subjectSet, used slotSet) (models.SubjectGrade, bool) {
	for i, e := range c.Electives {
		if !used.has(i) && set.contains(e.Subject) {
			return e, true
		}
	}
	return models.SubjectGrade{}, false
}
