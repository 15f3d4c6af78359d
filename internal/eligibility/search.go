package eligibility

import (
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

type searchState int

const (
	stateSearching searchState = iota
	stateFound
	stateExhausted
)

// outcome is the terminal state of a search over ranked combinations.
type outcome struct {
	state       searchState
	status      models.EligibilityStatus
	combination *Combination
	verdict     Verdict
	ceiling     ceilingStatus
}

// search walks the combinations best aggregate first. The first combination that
// satisfies the rule within the aggregate ceiling wins. Otherwise the first borderline
// candidate is kept, then the first rule match over the ceiling, then the verdict for
// the best combination.
func search(combos []Combination, req models.Requirement, program string, rule Rule, policy BorderlinePolicy) outcome {
	var borderline, overCeiling, fallback *outcome

	for i := range combos {
		c := &combos[i]
		v := rule.Evaluate(*c, req, program)
		candidate := outcome{state: stateSearching, status: models.StatusNotEligible, combination: c, verdict: v}
		if !v.Eligible {
			if fallback == nil {
				fallback = &candidate
			}
			continue
		}

		candidate.ceiling = checkCeiling(c.Aggregate, req.AggregatePoints, policy)
		switch candidate.ceiling {
		case ceilingAbsent, ceilingWithin:
			candidate.state = stateFound
			candidate.status = models.StatusEligible
			return candidate
		case ceilingBorderline:
			if borderline == nil {
				candidate.status = models.StatusBorderline
				borderline = &candidate
			}
		default:
			if overCeiling == nil {
				overCeiling = &candidate
			}
		}
	}

	var exhausted outcome
	switch {
	case borderline != nil:
		exhausted = *borderline
	case overCeiling != nil:
		exhausted = *overCeiling
	case fallback != nil:
		exhausted = *fallback
	default:
		exhausted = outcome{status: models.StatusNotEligible}
	}
	exhausted.state = stateExhausted
	return exhausted
}
