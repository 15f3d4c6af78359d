package eligibility

import (
	"strings"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// Option is one alternative path into a flexible programme.
type Option struct {
	Name       string
	Conditions []Condition
}

func (o Option) String() string {
	parts := make([]string, len(o.Conditions))
	for i, cond := range o.Conditions {
		parts[i] = cond.String()
	}
	return o.Name + ": " + strings.Join(parts, " + ")
}

// FlexibleRule is satisfied when any one option is fully met.
type FlexibleRule struct {
	Options []Option
}

func (FlexibleRule) Family() Family { return FamilyFlexible }

func (r FlexibleRule) Evaluate(c Combination, req models.Requirement, program string) Verdict {
	descriptions := make([]string, len(r.Options))
	for i, o := range r.Options {
		descriptions[i] = o.String()
	}
	v := newVerdict(program + " accepts any one of: " + strings.Join(descriptions, "; "))
	coreOK := checkCore(&v, c, req.CoreSubjects)

	satisfied := false
	for _, o := range r.Options {
		matched, missing := checkConditions(c, o.Conditions)
		if len(missing) == 0 {
			v.pass("%s satisfied with %s", o.Name, describeSubjects(matched))
			if !satisfied {
				v.Used = append([]string{o.Name}, subjectNames(matched)...)
			}
			satisfied = true
			continue
		}
		v.fail("%s not satisfied, missing %s", o.Name, strings.Join(missing, "; "))
	}
	if len(r.Options) == 0 {
		v.warn("No admission options are defined for this programme")
	}
	if !satisfied {
		v.recommend("Your electives do not complete any accepted option for %s", program)
	}

	v.Eligible = coreOK && satisfied
	return v
}
