package eligibility

import (
	"fmt"
	"strings"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// Family names the strategy a rule belongs to.
type Family string

const (
	FamilyStrict    Family = "strict"
	FamilyGrouped   Family = "grouped"
	FamilyFlexible  Family = "flexible"
	FamilyThreshold Family = "threshold"
	FamilyBespoke   Family = "bespoke"
)

// Rule turns a combination and a requirement record into a verdict. Rules never fail:
// missing data is reported as an ineligible verdict.
type Rule interface {
	Family() Family
	Evaluate(c Combination, req models.Requirement, program string) Verdict
}

// Condition asks for Count electives from Subjects at MinGrade or better.
type Condition struct {
	Subjects []string
	Count    int
	MinGrade string
	pooled   bool
}

// Require asks for one specific subject.
func Require(subject string) Condition {
	return Condition{Subjects: []string{subject}, Count: 1}
}

// OneOf asks for any one of the listed subjects.
func OneOf(subjects ...string) Condition {
	return Condition{Subjects: subjects, Count: 1}
}

// AnyOf asks for n of the listed subjects.
func AnyOf(n int, subjects ...string) Condition {
	return Condition{Subjects: subjects, Count: n}
}

// FromPool asks for n subjects from a named elective pool.
func FromPool(n int, pool string) Condition {
	return Condition{Subjects: []string{pool}, Count: n, pooled: true}
}

// AnyElectives asks for n electives of any subject.
func AnyElectives(n int) Condition {
	return Condition{Subjects: []string{"any"}, Count: n}
}

// AtLeast returns a copy of the condition with a stricter minimum grade.
func (cond Condition) AtLeast(grade string) Condition {
	cond.MinGrade = grade
	return cond
}

func (cond Condition) need() int {
	if cond.Count <= 0 {
		return 1
	}
	return cond.Count
}

func (cond Condition) grade() string {
	return minGradeOr(cond.MinGrade, models.DefaultMinGrade)
}

func (cond Condition) set() subjectSet {
	return newSubjectSet(strings.Join(cond.Subjects, ", "), cond.pooled, cond.Subjects...)
}

func (cond Condition) check(c Combination, used slotSet) ([]models.SubjectGrade, bool) {
	got := used.take(c.Electives, cond.set(), cond.grade(), cond.need())
	return got, len(got) == cond.need()
}

func (cond Condition) String() string {
	grade := cond.grade()
	need := cond.need()
	switch {
	case cond.pooled:
		return fmt.Sprintf("%d from the %s pool (%s or better)", need, cond.Subjects[0], grade)
	case len(cond.Subjects) == 1 && isWildcard(cond.Subjects[0]):
		return fmt.Sprintf("%d electives of any subject (%s or better)", need, grade)
	case len(cond.Subjects) == 1:
		return fmt.Sprintf("%s (%s or better)", cond.Subjects[0], grade)
	case need == 1:
		return fmt.Sprintf("one of %s (%s or better)", strings.Join(cond.Subjects, ", "), grade)
	default:
		return fmt.Sprintf("%d of %s (%s or better)", need, strings.Join(cond.Subjects, ", "), grade)
	}
}

// checkConditions evaluates conditions in order against a fresh slot set and
// returns the subjects used plus a description of each unmet condition.
func checkConditions(c Combination, conditions []Condition) ([]models.SubjectGrade, []string) {
	used := slotSet{}
	var matched []models.SubjectGrade
	var missing []string
	for _, cond := range conditions {
		got, ok := cond.check(c, used)
		matched = append(matched, got...)
		if !ok {
			if len(got) > 0 {
				missing = append(missing, fmt.Sprintf("%s (found %d)", cond, len(got)))
			} else {
				missing = append(missing, cond.String())
			}
		}
	}
	return matched, missing
}
