package eligibility

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

func TestEngineEligibleWithBestCombination(t *testing.T) {
	engine := NewEngine()
	programs := []models.Program{program("cs", "BSc. Computer Science", CodeKNUST)}
	reqs := []models.Requirement{{ID: "req-cs", ProgramID: "cs", AggregatePoints: intPtr(24)}}

	results, ok := engine.Check(CodeKNUST, scienceStudent(), programs, reqs)
	require.True(t, ok)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, models.StatusEligible, r.Status)
	assert.Equal(t, ScoreEligible, r.MatchScore)
	require.NotNil(t, r.CombinationFromBest)
	assert.True(t, *r.CombinationFromBest)
	assert.Equal(t, "req-cs", r.MatchedRequirementID)
	assert.True(t, hasDetail(r.Details, markPass, "Aggregate 15 is within the cut-off of 24"))
}

func TestEngineShortfallIsNotEligible(t *testing.T) {
	grades := gradesWith("B2", "B3", "C4", "C5",
		elective{"Physics", "B2"},
		elective{"Chemistry", "B3"},
		elective{"Biology", "D7"},
	)
	programs := []models.Program{
		program("cs", "BSc. Computer Science", CodeKNUST),
		program("law", "LLB. Law", CodeUG),
		program("gen", "BA. History", "Ashesi University"),
	}
	reqs := []models.Requirement{
		{ID: "r1", ProgramID: "cs"},
		{ID: "r2", ProgramID: "law"},
		{ID: "r3", ProgramID: "gen"},
	}

	results := NewEngine().CheckOffline(grades, programs, reqs)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, models.StatusNotEligible, r.Status)
		assert.Equal(t, ScoreNotEligible, r.MatchScore)
		assert.True(t, hasDetail(r.Details, markFail, "only 2 found"), r.Details)
		assert.Nil(t, r.CombinationFromBest)
	}
}

func TestEngineGroupedProgrammeCitesPool(t *testing.T) {
	grades := gradesWith("B2", "B3", "C4", "C5",
		elective{"Graphic Design", "B2"},
		elective{"Picture Making", "B3"},
		elective{"Sculpture", "C4"},
		elective{"Biology", "E8"},
	)
	programs := []models.Program{program("cd", "BA. Communication Design", CodeKNUST)}
	reqs := []models.Requirement{{ID: "r", ProgramID: "cd"}}

	results, ok := NewEngine().Check("Kwame Nkrumah University of Science and Technology", grades, programs, reqs)
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusEligible, results[0].Status)
	assert.True(t, hasDetail(results[0].Details, markPass, "Visual Art group"))
}

func TestAlternateCombinationScoresLower(t *testing.T) {
	programs := []models.Program{program("bio", "BSc. Biochemistry", CodeKNUST)}
	reqs := []models.Requirement{{ID: "r", ProgramID: "bio", ElectiveSubjects: []models.ElectiveRequirement{{Subject: "Biology"}}}}

	results, _ := NewEngine().Check(CodeKNUST, scienceStudent(), programs, reqs)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusEligible, results[0].Status)
	assert.Equal(t, ScoreEligibleAlternate, results[0].MatchScore)
	require.NotNil(t, results[0].CombinationFromBest)
	assert.False(t, *results[0].CombinationFromBest)
	assert.Contains(t, results[0].UsedCombination, "Biology (C4)")
}

func TestBorderlineIsPerInstitution(t *testing.T) {
	engine := NewEngine()
	req := func(programID string, limit int) []models.Requirement {
		return []models.Requirement{{
			ID:               programID + "-req",
			ProgramID:        programID,
			AggregatePoints:  intPtr(limit),
			ElectiveSubjects: []models.ElectiveRequirement{{Subject: "Physics"}},
		}}
	}

	knust, _ := engine.Check(CodeKNUST, scienceStudent(), []models.Program{program("phy", "BSc. Physics", CodeKNUST)}, req("phy", 13))
	require.Len(t, knust, 1)
	assert.Equal(t, models.StatusBorderline, knust[0].Status)
	assert.Equal(t, ScoreBorderline, knust[0].MatchScore)
	assert.True(t, hasDetail(knust[0].Details, markWarn, "2 point(s) above the cut-off of 13"))
	assert.NotEmpty(t, knust[0].Recommendations)

	ug, _ := engine.Check(CodeUG, scienceStudent(), []models.Program{program("phy", "BSc. Physics", CodeUG)}, req("phy", 13))
	require.Len(t, ug, 1)
	assert.Equal(t, models.StatusNotEligible, ug[0].Status)
	assert.True(t, hasDetail(ug[0].Details, markFail, "exceeds the cut-off of 13"))

	far, _ := engine.Check(CodeKNUST, scienceStudent(), []models.Program{program("phy", "BSc. Physics", CodeKNUST)}, req("phy", 11))
	assert.Equal(t, models.StatusNotEligible, far[0].Status)
}

func TestBorderlineRecommendationUsesInstitutionWindow(t *testing.T) {
	inst := NewInstitution("wide", "Wide Window University", ThresholdRule{})
	inst.Borderline = BorderlinePolicy{Enabled: true, Window: 5}

	// best aggregate is 15
	req := models.Requirement{ID: "r", ProgramID: "phy", AggregatePoints: intPtr(11)}
	result := inst.Evaluate(program("phy", "BSc. Physics", "wide"), req, NewRun(scienceStudent()))
	require.Equal(t, models.StatusBorderline, result.Status, result.Details)

	found := false
	for _, rec := range result.Recommendations {
		if strings.Contains(rec, "within 5 points of the cut-off") {
			found = true
		}
	}
	assert.True(t, found, result.Recommendations)
}

func TestTighterCeilingNeverImprovesStatus(t *testing.T) {
	rank := map[models.EligibilityStatus]int{
		models.StatusEligible:    2,
		models.StatusBorderline:  1,
		models.StatusNotEligible: 0,
	}
	engine := NewEngine()
	programs := []models.Program{program("phy", "BSc. Physics", CodeKNUST)}

	previous := rank[models.StatusEligible]
	for limit := 30; limit >= 6; limit-- {
		reqs := []models.Requirement{{ID: "r", ProgramID: "phy", AggregatePoints: intPtr(limit)}}
		results, _ := engine.Check(CodeKNUST, scienceStudent(), programs, reqs)
		require.Len(t, results, 1)
		current := rank[results[0].Status]
		assert.LessOrEqual(t, current, previous, "limit %d", limit)
		previous = current
	}
}

func TestAdmissionTracks(t *testing.T) {
	programs := []models.Program{program("eng", "BSc. Engineering", CodeKNUST)}
	base := models.Requirement{
		ID:                    "r",
		ProgramID:             "eng",
		RequirementComplexity: models.ComplexityAdvanced,
		ElectiveSubjects:      []models.ElectiveRequirement{{Subject: "Biology", MinGrade: "A1"}},
	}

	multi := base
	multi.AdmissionTracks = []models.AdmissionTrack{
		{ID: "a", Name: "Physical sciences", ElectiveOptions: []models.ElectiveRequirement{{Subject: "Physics"}}},
		{ID: "b", Name: "Chemical sciences", ElectiveOptions: []models.ElectiveRequirement{{Subject: "Chemistry"}}, AdditionalRules: []string{"Interview required"}},
	}
	results, _ := NewEngine().Check(CodeKNUST, scienceStudent(), programs, []models.Requirement{multi})
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, models.StatusMultipleTracks, r.Status)
	assert.Equal(t, ScoreMultipleTracks, r.MatchScore)
	assert.Equal(t, "Physical sciences", r.BestTrackMatch)
	require.Len(t, r.AdmissionTracks, 2)
	assert.True(t, hasDetail(r.AdmissionTracks[1].MatchDetails, markWarn, "Interview required"))

	single := base
	single.AdmissionTracks = []models.AdmissionTrack{
		{ID: "a", Name: "Physical sciences", ElectiveOptions: []models.ElectiveRequirement{{Subject: "Physics"}}},
		{ID: "b", Name: "Languages", ElectiveOptions: []models.ElectiveRequirement{{Subject: "French"}}},
	}
	results, _ = NewEngine().Check(CodeKNUST, scienceStudent(), programs, []models.Requirement{single})
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusEligible, results[0].Status)
	assert.Equal(t, ScoreEligible, results[0].MatchScore)
	assert.Equal(t, models.StatusNotEligible, results[0].AdmissionTracks[1].Status)
}

func TestTracksIgnoredWithoutSupport(t *testing.T) {
	programs := []models.Program{program("eng", "BSc. Engineering", CodeUG)}
	req := models.Requirement{
		ID:                    "r",
		ProgramID:             "eng",
		RequirementComplexity: models.ComplexityAdvanced,
		ElectiveSubjects:      []models.ElectiveRequirement{{Subject: "Biology", MinGrade: "A1"}},
		AdmissionTracks: []models.AdmissionTrack{
			{Name: "Physical sciences", ElectiveOptions: []models.ElectiveRequirement{{Subject: "Physics"}}},
		},
	}
	results, _ := NewEngine().Check(CodeUG, scienceStudent(), programs, []models.Requirement{req})
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusNotEligible, results[0].Status)
	assert.Empty(t, results[0].AdmissionTracks)
}

func TestAggregateKeepsBestVariantAndSorts(t *testing.T) {
	programs := []models.Program{
		program("phy", "BSc. Physics", CodeKNUST),
		program("bio", "BSc. Biochemistry", CodeKNUST),
		program("fr", "BA. French", CodeKNUST),
		program("none", "BSc. Unlisted", CodeKNUST),
	}
	reqs := []models.Requirement{
		{ID: "fr", ProgramID: "fr", ElectiveSubjects: []models.ElectiveRequirement{{Subject: "French"}}},
		{ID: "bio", ProgramID: "bio", ElectiveSubjects: []models.ElectiveRequirement{{Subject: "Biology"}}},
		{ID: "phy-strict", ProgramID: "phy", ElectiveSubjects: []models.ElectiveRequirement{{Subject: "French"}}},
		{ID: "phy-general", ProgramID: "phy", ElectiveSubjects: []models.ElectiveRequirement{{Subject: "Physics"}}},
	}

	results, _ := NewEngine().Check(CodeKNUST, scienceStudent(), programs, reqs)
	require.Len(t, results, 3)
	assert.Equal(t, "phy", results[0].ProgramID)
	assert.Equal(t, "phy-general", results[0].MatchedRequirementID)
	assert.Equal(t, "bio", results[1].ProgramID)
	assert.Equal(t, "fr", results[2].ProgramID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].MatchScore, results[i].MatchScore)
	}
}

func TestOfflineTieBreakByUniversity(t *testing.T) {
	programs := []models.Program{
		program("z", "BA. History", "Zenith University"),
		program("a", "BA. History", "Ashesi University"),
	}
	reqs := []models.Requirement{{ID: "z", ProgramID: "z"}, {ID: "a", ProgramID: "a"}}

	results := NewEngine().CheckOffline(scienceStudent(), programs, reqs)
	require.Len(t, results, 2)
	assert.Equal(t, "Ashesi University", results[0].UniversityName)
	assert.Equal(t, "Zenith University", results[1].UniversityName)
}

func TestEngineResolution(t *testing.T) {
	engine := NewEngine()

	inst, ok := engine.Institution("University of Ghana")
	require.True(t, ok)
	assert.Equal(t, CodeUG, inst.Code)

	_, ok = engine.Institution("unknown")
	assert.False(t, ok)
	_, ok = engine.Check("unknown", scienceStudent(), nil, nil)
	assert.False(t, ok)

	programs := []models.Program{
		program("a", "BSc. Nursing", CodeKNUST),
		{ID: "b", Name: "BA. Music Education", UniversityName: "University of Education, Winneba"},
		program("c", "BA. History", "Ashesi University"),
	}
	assert.Equal(t, CodeKNUST, engine.Resolve(programs[0]).Code)
	assert.Equal(t, CodeUEW, engine.Resolve(programs[1]).Code)
	assert.Equal(t, CodeOffline, engine.Resolve(programs[2]).Code)

	uew, _ := engine.Institution(CodeUEW)
	owned := engine.ProgramsFor(uew, programs)
	require.Len(t, owned, 1)
	assert.Equal(t, "b", owned[0].ID)
	assert.Len(t, engine.Institutions(), 4)
}

func TestRouteOrder(t *testing.T) {
	inst := KNUST()
	assert.Equal(t, FamilyFlexible, inst.Route("bsc.  computer science", models.Requirement{}).Family())
	assert.Equal(t, FamilyThreshold, inst.Route("BSc. Physics", models.Requirement{RequirementComplexity: models.ComplexityBasic}).Family())
	assert.Equal(t, FamilyStrict, inst.Route("BSc. Physics", models.Requirement{}).Family())
	assert.Equal(t, FamilyBespoke, inst.Route("Pharm D", models.Requirement{}).Family())
}
