package eligibility

import (
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// ThresholdRule requires the core subjects and MinElectives elective credits of any subject.
type ThresholdRule struct {
	MinElectives int
}

func (ThresholdRule) Family() Family { return FamilyThreshold }

func (r ThresholdRule) Evaluate(c Combination, req models.Requirement, program string) Verdict {
	need := r.MinElectives
	if need <= 0 {
		need = 3
	}
	v := newVerdict(program + " requires credit passes in the core subjects and any three electives")
	coreOK := checkCore(&v, c, req.CoreSubjects)

	got, ok := AnyElectives(need).check(c, slotSet{})
	if ok {
		v.pass("%d elective credit passes: %s", need, describeSubjects(got))
		v.Used = subjectNames(got)
	} else {
		v.fail("%d elective credit passes required, found %d", need, len(got))
	}

	v.Eligible = coreOK && ok
	return v
}
