package eligibility

import (
	"fmt"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// Run holds the per-request state shared by every programme evaluation.
type Run struct {
	Grades       models.StudentGrades
	Combinations []Combination
	Shortfall    string
}

// NewRun ranks the candidate's combinations once for a whole eligibility check.
func NewRun(grades models.StudentGrades) *Run {
	run := &Run{Grades: grades, Combinations: Combinations(grades)}
	if len(run.Combinations) == 0 {
		run.Shortfall = Shortfall(grades)
		if run.Shortfall == "" {
			run.Shortfall = "Cannot form a valid aggregate from the grades provided"
		}
	}
	return run
}

// Institution routes each programme of one admitting institution to a rule.
type Institution struct {
	Code                 string
	Name                 string
	Aliases              []string
	Borderline           BorderlinePolicy
	SupportsTracks       bool
	TieBreakByUniversity bool

	fallback     Rule
	byComplexity map[models.Complexity]Rule
	rules        map[string]Rule
}

// NewInstitution builds a dispatcher whose unmapped programmes use fallback.
func NewInstitution(code, name string, fallback Rule) *Institution {
	if fallback == nil {
		fallback = ThresholdRule{}
	}
	return &Institution{
		Code:         code,
		Name:         name,
		fallback:     fallback,
		byComplexity: map[models.Complexity]Rule{},
		rules:        map[string]Rule{},
	}
}

// Register maps programme names to a rule.
func (i *Institution) Register(rule Rule, programs ...string) *Institution {
	for _, name := range programs {
		i.rules[NormalizeProgram(name)] = rule
	}
	return i
}

// RegisterComplexity selects a rule for unmapped programmes tagged with complexity.
func (i *Institution) RegisterComplexity(complexity models.Complexity, rule Rule) *Institution {
	i.byComplexity[complexity] = rule
	return i
}

// RuleCount returns the number of programme-specific rules registered.
func (i *Institution) RuleCount() int {
	return len(i.rules)
}

// Route picks the rule for a programme: exact name first, then complexity, then the default.
func (i *Institution) Route(programName string, req models.Requirement) Rule {
	if rule, ok := i.rules[NormalizeProgram(programName)]; ok {
		return rule
	}
	if rule, ok := i.byComplexity[req.RequirementComplexity]; ok {
		return rule
	}
	return i.fallback
}

// Evaluate produces the result for one programme and one requirement variant.
func (i *Institution) Evaluate(program models.Program, req models.Requirement, run *Run) models.EligibilityResult {
	rule := i.Route(program.Name, req)
	out := search(run.Combinations, req, program.Name, rule, i.Borderline)

	result := models.EligibilityResult{
		ProgramID:             program.ID,
		ProgramName:           program.Name,
		UniversityName:        program.UniversityName,
		Status:                out.status,
		CareerOutcomes:        program.CareerOutcomes,
		AverageSalary:         program.AverageSalary,
		EmploymentRate:        program.EmploymentRate,
		RequirementComplexity: req.RequirementComplexity,
		MatchedRequirementID:  req.ID,
	}

	fromBest := false
	if out.combination == nil {
		result.Details = []string{markFail + run.Shortfall}
		result.Recommendations = []string{"Aim for credit passes (C6 or better) in English Language, Core Mathematics, one other core subject and three electives"}
	} else {
		result.Details = append([]string{}, out.verdict.Details...)
		if line := ceilingDetail(out.ceiling, out.combination.Aggregate, req.AggregatePoints); line != "" {
			result.Details = append(result.Details, line)
		}
		result.Recommendations = append([]string{}, out.verdict.Recommendations...)
		result.UsedCombination = out.combination.Describe()
		fromBest = out.combination.IsBest
		result.CombinationFromBest = &fromBest
		result.Recommendations = append(result.Recommendations, statusRecommendations(out, req, i.Borderline)...)
	}
	for _, extra := range req.AdditionalRequirements {
		result.Details = append(result.Details, markWarn+"Additional requirement: "+extra)
	}

	if i.SupportsTracks && req.RequirementComplexity == models.ComplexityAdvanced && len(req.AdmissionTracks) > 0 {
		fromBest = i.applyTracks(&result, program, req, run, fromBest)
	}

	result.Message = statusMessage(result.Status, program.Name, len(result.AdmissionTracks))
	result.MatchScore = Score(result.Status, fromBest)
	return result
}

func statusRecommendations(out outcome, req models.Requirement, policy BorderlinePolicy) []string {
	switch {
	case out.status == models.StatusBorderline:
		return []string{
			fmt.Sprintf("Your aggregate is within %d points of the cut-off; improving one grade through the November/December WASSCE could make you eligible", policy.Points()),
			"Apply early: near-miss applicants are considered only if places remain",
		}
	case out.status == models.StatusNotEligible && out.ceiling == ceilingOver:
		return []string{fmt.Sprintf("Your subjects fit this programme but the aggregate must be %d or better; consider related programmes with a higher cut-off", *req.AggregatePoints)}
	}
	return nil
}

func statusMessage(status models.EligibilityStatus, program string, tracks int) string {
	switch status {
	case models.StatusEligible:
		return "You meet the entry requirements for " + program
	case models.StatusMultipleTracks:
		return fmt.Sprintf("You qualify for %s through more than one admission track (%d evaluated)", program, tracks)
	case models.StatusBorderline:
		return "You are close to the entry requirements for " + program
	default:
		return "You do not currently meet the entry requirements for " + program
	}
}
