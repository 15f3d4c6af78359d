package eligibility

import (
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// applyTracks evaluates each admission track on its own and folds the outcome into
// result. Two or more eligible tracks produce multiple_tracks; a single eligible track
// makes an otherwise ineligible result eligible. It returns whether the combination
// credited for the final status was the candidate's best aggregate.
func (i *Institution) applyTracks(result *models.EligibilityResult, program models.Program, req models.Requirement, run *Run, fromBest bool) bool {
	var eligible []models.AdmissionTrackResult
	var firstEligible *outcome

	for _, track := range req.AdmissionTracks {
		trackReq := models.Requirement{
			ID:                    req.ID,
			ProgramID:             req.ProgramID,
			CoreSubjects:          req.CoreSubjects,
			ElectiveSubjects:      track.ElectiveOptions,
			AggregatePoints:       req.AggregatePoints,
			RequirementComplexity: req.RequirementComplexity,
		}
		if track.AggregatePoints != nil {
			trackReq.AggregatePoints = track.AggregatePoints
		}

		out := search(run.Combinations, trackReq, program.Name+" ("+track.Name+")", StrictRule{}, i.Borderline)
		tr := models.AdmissionTrackResult{
			ID:          track.ID,
			Name:        track.Name,
			Description: track.Description,
			Status:      out.status,
		}
		if out.combination == nil {
			tr.MatchDetails = []string{markFail + run.Shortfall}
		} else {
			tr.MatchDetails = append([]string{}, out.verdict.Details...)
			if line := ceilingDetail(out.ceiling, out.combination.Aggregate, trackReq.AggregatePoints); line != "" {
				tr.MatchDetails = append(tr.MatchDetails, line)
			}
		}
		for _, rule := range track.AdditionalRules {
			tr.MatchDetails = append(tr.MatchDetails, markWarn+rule)
		}

		if out.status == models.StatusEligible {
			eligible = append(eligible, tr)
			if firstEligible == nil {
				o := out
				firstEligible = &o
			}
		}
		result.AdmissionTracks = append(result.AdmissionTracks, tr)
	}

	if len(eligible) == 0 {
		return fromBest
	}
	result.BestTrackMatch = eligible[0].Name
	if len(eligible) >= 2 {
		result.Status = models.StatusMultipleTracks
		result.Details = append(result.Details, markPass+"Eligible through multiple admission tracks")
	} else if result.Status != models.StatusEligible {
		result.Status = models.StatusEligible
		result.Details = append(result.Details, markPass+"Eligible through the "+eligible[0].Name+" track")
	} else {
		return fromBest
	}

	best := firstEligible.combination.IsBest
	result.UsedCombination = firstEligible.combination.Describe()
	result.CombinationFromBest = &best
	return best
}
