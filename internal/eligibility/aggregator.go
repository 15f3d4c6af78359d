package eligibility

import (
	"sort"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// Match scores used to rank results.
const (
	ScoreEligible          = 100
	ScoreEligibleAlternate = 90
	ScoreMultipleTracks    = 95
	ScoreBorderline        = 70
	ScoreBorderlineAlt     = 60
	ScoreNotEligible       = 30
)

// Score rewards outcomes reached with the candidate's best aggregate.
func Score(status models.EligibilityStatus, fromBest bool) int {
	switch status {
	case models.StatusEligible:
		if fromBest {
			return ScoreEligible
		}
		return ScoreEligibleAlternate
	case models.StatusMultipleTracks:
		return ScoreMultipleTracks
	case models.StatusBorderline:
		if fromBest {
			return ScoreBorderline
		}
		return ScoreBorderlineAlt
	default:
		return ScoreNotEligible
	}
}

// CheckEligibility evaluates programs against requirements with one institution's rules.
func CheckEligibility(inst *Institution, grades models.StudentGrades, programs []models.Program, requirements []models.Requirement) []models.EligibilityResult {
	return aggregate(NewRun(grades), programs, requirements, func(models.Program) *Institution { return inst }, inst.TieBreakByUniversity)
}

// aggregate keeps the best-scoring variant per programme and sorts by score.
// Programmes without requirement records are skipped.
func aggregate(run *Run, programs []models.Program, requirements []models.Requirement, pick func(models.Program) *Institution, tieBreak bool) []models.EligibilityResult {
	byProgram := make(map[string][]models.Requirement, len(requirements))
	for _, req := range requirements {
		byProgram[req.ProgramID] = append(byProgram[req.ProgramID], req)
	}

	results := make([]models.EligibilityResult, 0, len(programs))
	for _, program := range programs {
		variants := byProgram[program.ID]
		if len(variants) == 0 {
			continue
		}
		inst := pick(program)
		var best *models.EligibilityResult
		for _, req := range variants {
			r := inst.Evaluate(program, req, run)
			if best == nil || r.MatchScore > best.MatchScore {
				candidate := r
				best = &candidate
			}
			if r.Status == models.StatusEligible {
				break
			}
		}
		results = append(results, *best)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		if tieBreak {
			return results[i].UniversityName < results[j].UniversityName
		}
		return false
	})
	return results
}
