package eligibility

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// Detail prefixes carry pass/warn/fail semantics for the UI.
const (
	markInfo = "ℹ "
	markPass = "✓ "
	markWarn = "⚠ "
	markFail = "✗ "
)

// Verdict is the outcome of evaluating one combination against one rule.
type Verdict struct {
	Eligible        bool
	Details         []string
	Recommendations []string
	// Used lists the subjects (or the pathway) that satisfied the rule.
	Used []string
}

func newVerdict(explanation string) Verdict {
	v := Verdict{}
	if explanation != "" {
		v.info(explanation)
	}
	return v
}

func (v *Verdict) info(format string, args ...interface{}) {
	v.Details = append(v.Details, markInfo+fmt.Sprintf(format, args...))
}

func (v *Verdict) pass(format string, args ...interface{}) {
	v.Details = append(v.Details, markPass+fmt.Sprintf(format, args...))
}

func (v *Verdict) warn(format string, args ...interface{}) {
	v.Details = append(v.Details, markWarn+fmt.Sprintf(format, args...))
}

func (v *Verdict) fail(format string, args ...interface{}) {
	v.Details = append(v.Details, markFail+fmt.Sprintf(format, args...))
}

func (v *Verdict) recommend(format string, args ...interface{}) {
	v.Recommendations = append(v.Recommendations, fmt.Sprintf(format, args...))
}

// slotSet records elective indices already consumed within one evaluation.
type slotSet map[int]struct{}

func (s slotSet) has(i int) bool {
	_, ok := s[i]
	return ok
}

// take claims up to need unconsumed electives from set at minGrade or better, in combination order.
func (s slotSet) take(electives []models.SubjectGrade, set subjectSet, minGrade string, need int) []models.SubjectGrade {
	var matched []models.SubjectGrade
	for i, e := range electives {
		if len(matched) == need {
			break
		}
		if s.has(i) || !set.contains(e.Subject) || !Passes(e.Grade, minGrade) {
			continue
		}
		s[i] = struct{}{}
		matched = append(matched, e)
	}
	return matched
}

// checkCore validates the declared core subjects, defaulting to English and
// Mathematics when the record carries no core constraint.
func checkCore(v *Verdict, c Combination, core models.CoreRequirement, defaults ...string) bool {
	if core.IsZero() {
		if len(defaults) == 0 {
			defaults = []string{"English Language", "Core Mathematics"}
		}
		subjects := make(map[string]string, len(defaults))
		for _, name := range defaults {
			subjects[name] = models.DefaultMinGrade
		}
		core = models.FlatCore(subjects)
	}

	ok := true
	required := core.Subjects
	if core.Kind == models.CoreKindStructured {
		required = core.Compulsory
	}
	for _, name := range sortedKeys(required) {
		if !checkCoreSubject(v, c, name, minGradeOr(required[name], models.DefaultMinGrade)) {
			ok = false
		}
	}

	if core.Kind == models.CoreKindStructured && core.Any != nil {
		minGrade := minGradeOr(core.Any.MinGrade, models.DefaultMinGrade)
		var met []string
		for _, name := range core.Any.Subjects {
			if s, found := c.coreGrade(coreKey(name)); found && Passes(s.Grade, minGrade) {
				met = append(met, fmt.Sprintf("%s (%s)", s.Subject, s.Grade))
			}
		}
		need := core.Any.Count
		if need <= 0 {
			need = 1
		}
		if len(met) >= need {
			v.pass("Core: %d of %s at %s or better (%s)", need, strings.Join(core.Any.Subjects, ", "), minGrade, strings.Join(met, ", "))
		} else {
			v.fail("Core: need %d of %s at %s or better, found %d", need, strings.Join(core.Any.Subjects, ", "), minGrade, len(met))
			ok = false
		}
	}
	return ok
}

func checkCoreSubject(v *Verdict, c Combination, name, minGrade string) bool {
	key := coreKey(name)
	if key == "" {
		// Elective subjects listed under core are checked against the electives instead.
		for _, e := range c.Electives {
			if SameSubject(e.Subject, name) && Passes(e.Grade, minGrade) {
				v.pass("%s: %s (required %s)", name, e.Grade, minGrade)
				return true
			}
		}
		v.fail("%s at %s or better is required", name, minGrade)
		return false
	}
	s, found := c.coreGrade(key)
	if !found {
		v.fail("%s at %s or better is required but no grade was provided", name, minGrade)
		return false
	}
	if !Passes(s.Grade, minGrade) {
		v.fail("%s: %s does not meet the required %s", s.Subject, s.Grade, minGrade)
		return false
	}
	v.pass("%s: %s (required %s)", s.Subject, s.Grade, minGrade)
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func describeSubjects(subjects []models.SubjectGrade) string {
	parts := make([]string, len(subjects))
	for i, s := range subjects {
		parts[i] = fmt.Sprintf("%s (%s)", s.Subject, s.Grade)
	}
	return strings.Join(parts, ", ")
}

func subjectNames(subjects []models.SubjectGrade) []string {
	names := make([]string, len(subjects))
	for i, s := range subjects {
		names[i] = s.Subject
	}
	return names
}

var asciiMarks = strings.NewReplacer(markInfo, "", markPass, "[PASS] ", markWarn, "[WARN] ", markFail, "[FAIL] ")

// PlainDetail swaps the detail marks for ASCII labels, for renderers without symbol glyphs.
func PlainDetail(detail string) string {
	return asciiMarks.Replace(detail)
}
