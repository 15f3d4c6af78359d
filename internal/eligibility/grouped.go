package eligibility

import (
	"strings"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// CompulsoryPattern asks for one compulsory elective plus Need supporting subjects.
type CompulsoryPattern struct {
	// Compulsory lists acceptable forms of the compulsory subject.
	Compulsory []string
	Supporting []string
	Need       int
	MinGrade   string
}

// GroupedRule requires three electives from any single declared pool. Without pools
// or a compulsory pattern it accepts any three elective credits.
type GroupedRule struct {
	Pools   []string
	Pattern *CompulsoryPattern
}

func (GroupedRule) Family() Family { return FamilyGrouped }

func (r GroupedRule) Evaluate(c Combination, req models.Requirement, program string) Verdict {
	var v Verdict
	switch {
	case r.Pattern != nil:
		v = newVerdict(program + " requires " + strings.Join(r.Pattern.Compulsory, " or ") + " plus " + Condition{Subjects: r.Pattern.Supporting, Count: r.Pattern.Need}.String())
	case len(r.Pools) > 0:
		v = newVerdict(program + " requires three electives from one of: " + strings.Join(r.Pools, ", "))
	default:
		v = newVerdict(program + " requires three elective credit passes")
	}
	coreOK := checkCore(&v, c, req.CoreSubjects, "English Language", "Core Mathematics", "Integrated Science")

	var electivesOK bool
	switch {
	case r.Pattern != nil:
		electivesOK = r.checkPattern(&v, c)
	case len(r.Pools) > 0:
		electivesOK = r.checkPools(&v, c)
	default:
		electivesOK = len(c.Electives) >= 3
		if electivesOK {
			v.pass("Three elective credit passes: %s", describeSubjects(c.Electives))
			v.Used = subjectNames(c.Electives)
		} else {
			v.fail("Three elective credit passes are required, found %d", len(c.Electives))
		}
		v.recommend("No subject-specific elective list is on record for %s; confirm your elective combination with the admissions office before applying", program)
	}

	v.Eligible = coreOK && electivesOK
	return v
}

func (r GroupedRule) checkPattern(v *Verdict, c Combination) bool {
	p := r.Pattern
	need := p.Need
	if need <= 0 {
		need = 2
	}
	used := slotSet{}
	compulsory := Condition{Subjects: p.Compulsory, Count: 1, MinGrade: p.MinGrade}
	anchor, ok := compulsory.check(c, used)
	if !ok {
		v.fail("Compulsory subject missing: %s", compulsory)
	} else {
		v.pass("Compulsory subject: %s", describeSubjects(anchor))
	}
	supporting := Condition{Subjects: p.Supporting, Count: need, MinGrade: p.MinGrade}
	got, supportOK := supporting.check(c, used)
	if supportOK {
		v.pass("Supporting subjects: %s", describeSubjects(got))
	} else {
		v.fail("Supporting subjects: need %s, found %d", supporting, len(got))
	}
	if ok && supportOK {
		v.Used = subjectNames(append(anchor, got...))
		return true
	}
	return false
}

func (r GroupedRule) checkPools(v *Verdict, c Combination) bool {
	for _, pool := range r.Pools {
		if _, known := Pool(pool); !known {
			v.warn("Unknown subject group %q ignored", pool)
			continue
		}
		got, ok := FromPool(3, pool).check(c, slotSet{})
		if ok {
			v.pass("All three electives fall within the %s group: %s", pool, describeSubjects(got))
			v.Used = append([]string{pool}, subjectNames(got)...)
			return true
		}
		if len(got) > 0 {
			v.fail("%s group: %d of 3 electives (%s)", pool, len(got), describeSubjects(got))
		} else {
			v.fail("%s group: none of your electives belong to this group", pool)
		}
	}
	v.recommend("Choose three electives from a single group: %s", strings.Join(r.Pools, ", "))
	return false
}
