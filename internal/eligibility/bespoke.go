package eligibility

import (
	"fmt"
	"strings"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// BespokeRule wraps a per-programme policy that does not fit the general families.
// Policy is the brochure wording, shown before the evaluation details.
type BespokeRule struct {
	Name   string
	Policy string
	check  func(v *Verdict, c Combination, req models.Requirement) bool
}

func (BespokeRule) Family() Family { return FamilyBespoke }

func (r BespokeRule) Evaluate(c Combination, req models.Requirement, program string) Verdict {
	v := newVerdict("Admission policy for " + program + ": " + r.Policy)
	coreOK := checkCore(&v, c, req.CoreSubjects)
	ok := r.check(&v, c, req)
	v.Eligible = coreOK && ok
	return v
}

// coreGate is a minimum grade on a core subject that applies to one pathway only.
type coreGate struct {
	key      string
	minGrade string
}

// pathway is one disjunctive route through a bespoke policy.
type pathway struct {
	name       string
	gate       *coreGate
	conditions []Condition
}

func (p pathway) evaluate(c Combination) ([]models.SubjectGrade, []string) {
	matched, missing := checkConditions(c, p.conditions)
	if p.gate != nil {
		s, found := c.coreGrade(p.gate.key)
		if !found || !Passes(s.Grade, p.gate.minGrade) {
			missing = append([]string{fmt.Sprintf("%s at %s or better", coreLabel(p.gate.key), p.gate.minGrade)}, missing...)
		}
	}
	return matched, missing
}

// checkPathways evaluates every pathway independently. The first satisfied pathway
// supplies the subjects used; on failure every unmet pathway is listed with its gaps.
func checkPathways(v *Verdict, c Combination, paths []pathway) bool {
	satisfied := false
	var unmet []string
	for _, p := range paths {
		matched, missing := p.evaluate(c)
		if len(missing) == 0 {
			v.pass("%s: qualified with %s", p.name, describeSubjects(matched))
			if !satisfied {
				v.Used = append([]string{p.name}, subjectNames(matched)...)
			}
			satisfied = true
			continue
		}
		unmet = append(unmet, p.name)
		v.fail("%s: missing %s", p.name, strings.Join(missing, "; "))
	}
	if !satisfied && len(unmet) > 0 {
		v.recommend("No pathway was completed (%s); each line above lists what that pathway still needs", strings.Join(unmet, ", "))
	}
	return satisfied
}

// BScAgriculture: three electives drawn entirely from one of three groups.
func BScAgriculture() BespokeRule {
	groupA := []string{"Chemistry", "Physics", "Biology", "Elective Mathematics"}
	groupB := []string{"General Agriculture", "Chemistry", "Physics", "Biology", "Elective Mathematics"}
	groupC := []string{"General Agriculture", "Animal Husbandry", "Crop Husbandry and Horticulture", "Economics", "Geography"}
	return BespokeRule{
		Name: "knust-bsc-agriculture",
		Policy: "Credit passes in three elective subjects drawn from exactly one of the following groups: " +
			"Group A (Chemistry, Physics, Biology, Elective Mathematics); " +
			"Group B (General Agriculture, Chemistry, Physics, Biology, Elective Mathematics); " +
			"Group C (General Agriculture, Animal Husbandry, Crop Husbandry and Horticulture, Economics, Geography). " +
			"Subjects from different groups may not be combined.",
		check: func(v *Verdict, c Combination, _ models.Requirement) bool {
			return checkPathways(v, c, []pathway{
				{name: "Group A", conditions: []Condition{AnyOf(3, groupA...)}},
				{name: "Group B", conditions: []Condition{AnyOf(3, groupB...)}},
				{name: "Group C", conditions: []Condition{AnyOf(3, groupC...)}},
			})
		},
	}
}

// DoctorOfPharmacy: Chemistry and Biology with Physics or Elective Mathematics, all at B3.
func DoctorOfPharmacy() BespokeRule {
	return BespokeRule{
		Name: "knust-pharmd",
		Policy: "Passes at B3 or better in Chemistry and Biology, plus Physics or Elective Mathematics at B3 or better. " +
			"Applicants offering Elective Mathematics in place of Physics must also hold Integrated Science at B3 or better.",
		check: func(v *Verdict, c Combination, _ models.Requirement) bool {
			return checkPathways(v, c, []pathway{
				{
					name:       "Physics route",
					conditions: []Condition{Require("Chemistry").AtLeast("B3"), Require("Biology").AtLeast("B3"), Require("Physics").AtLeast("B3")},
				},
				{
					name:       "Mathematics route",
					gate:       &coreGate{key: models.CoreScience, minGrade: "B3"},
					conditions: []Condition{Require("Chemistry").AtLeast("B3"), Require("Biology").AtLeast("B3"), Require("Elective Mathematics").AtLeast("B3")},
				},
			})
		},
	}
}

// BScNursing: Biology plus two science subjects, or a non-science route gated on Integrated Science.
func BScNursing() BespokeRule {
	return BespokeRule{
		Name: "knust-bsc-nursing",
		Policy: "Science applicants: Biology plus at least two of Chemistry, Physics, Elective Mathematics or General Agriculture. " +
			"Non-science applicants: Integrated Science at B3 or better and three electives from Management in Living, " +
			"Food and Nutrition, Biology, Economics, Geography, Government, Literature in English or Christian Religious Studies.",
		check: func(v *Verdict, c Combination, _ models.Requirement) bool {
			return checkPathways(v, c, []pathway{
				{
					name: "Science route",
					conditions: []Condition{
						Require("Biology"),
						AnyOf(2, "Chemistry", "Physics", "Elective Mathematics", "General Agriculture"),
					},
				},
				{
					name: "Non-science route",
					gate: &coreGate{key: models.CoreScience, minGrade: "B3"},
					conditions: []Condition{
						AnyOf(3, "Management in Living", "Food and Nutrition", "Biology", "Economics", "Geography",
							"Government", "Literature in English", "Christian Religious Studies"),
					},
				},
			})
		},
	}
}

// BScArchitecture: three routes; only the Visual Art route gates Core Mathematics.
func BScArchitecture() BespokeRule {
	return BespokeRule{
		Name: "knust-bsc-architecture",
		Policy: "Science route: Physics and Elective Mathematics plus one of Chemistry, Technical Drawing, Graphic Design, Economics or Geography. " +
			"Technical route: Technical Drawing and Elective Mathematics plus one of Physics, Building Construction, Woodwork, Metalwork or Applied Electricity. " +
			"Visual Art route: Core Mathematics at B3 or better, Graphic Design or Picture Making, plus two further Visual Art subjects.",
		check: func(v *Verdict, c Combination, _ models.Requirement) bool {
			return checkPathways(v, c, []pathway{
				{
					name: "Science route",
					conditions: []Condition{
						Require("Physics"),
						Require("Elective Mathematics"),
						OneOf("Chemistry", "Technical Drawing", "Graphic Design", "Economics", "Geography"),
					},
				},
				{
					name: "Technical route",
					conditions: []Condition{
						Require("Technical Drawing"),
						Require("Elective Mathematics"),
						OneOf("Physics", "Building Construction", "Woodwork", "Metalwork", "Applied Electricity"),
					},
				},
				{
					name: "Visual Art route",
					gate: &coreGate{key: models.CoreMathematics, minGrade: "B3"},
					conditions: []Condition{
						OneOf("Graphic Design", "Picture Making"),
						FromPool(2, PoolVisualArt),
					},
				},
			})
		},
	}
}

// MBChBMedicine: Biology, Chemistry and Physics (or Elective Mathematics) at B3, with a
// warning when the aggregate ceiling leaves no room for competition.
func MBChBMedicine() BespokeRule {
	return BespokeRule{
		Name: "ug-mbchb",
		Policy: "Passes at B3 or better in Biology, Chemistry and Physics. Elective Mathematics may replace Physics only " +
			"where Physics is not offered. Admission is competitive; meeting the minimum does not guarantee a place.",
		check: func(v *Verdict, c Combination, req models.Requirement) bool {
			hasPhysics := c.Offered("Physics")
			paths := []pathway{{
				name:       "Physics route",
				conditions: []Condition{Require("Biology").AtLeast("B3"), Require("Chemistry").AtLeast("B3"), Require("Physics").AtLeast("B3")},
			}}
			if !hasPhysics {
				paths = append(paths, pathway{
					name:       "Elective Mathematics route",
					conditions: []Condition{Require("Biology").AtLeast("B3"), Require("Chemistry").AtLeast("B3"), Require("Elective Mathematics").AtLeast("B3")},
				})
			} else {
				v.info("Physics is offered, so Elective Mathematics cannot replace it")
			}
			ok := checkPathways(v, c, paths)
			if ok && req.AggregatePoints != nil && c.Aggregate > *req.AggregatePoints-2 {
				v.warn("Aggregate %d is close to the cut-off of %d; recent intakes have admitted lower aggregates", c.Aggregate, *req.AggregatePoints)
			}
			if ok {
				v.recommend("Prepare for the medical school interview and entrance examination")
			}
			return ok
		},
	}
}

// LLBLaw: any three electives with English at B3, or a Literature route at the ordinary credit level.
func LLBLaw() BespokeRule {
	return BespokeRule{
		Name: "ug-llb",
		Policy: "General route: English Language at B3 or better and credit passes in any three electives. " +
			"Literature route: Literature in English plus any two other electives, with English Language at the ordinary credit level.",
		check: func(v *Verdict, c Combination, _ models.Requirement) bool {
			return checkPathways(v, c, []pathway{
				{
					name:       "General route",
					gate:       &coreGate{key: models.CoreEnglish, minGrade: "B3"},
					conditions: []Condition{AnyElectives(3)},
				},
				{
					name:       "Literature route",
					conditions: []Condition{Require("Literature in English"), AnyElectives(2)},
				},
			})
		},
	}
}

// BAMusicEducation: Music plus two electives, or three language and arts subjects with English at B3.
func BAMusicEducation() BespokeRule {
	return BespokeRule{
		Name: "uew-ba-music-education",
		Policy: "Music route: Music plus any two other electives. " +
			"Performing arts route: English Language at B3 or better and three of Literature in English, Christian Religious Studies, " +
			"Ghanaian Language, French or History. All applicants attend a practical audition.",
		check: func(v *Verdict, c Combination, _ models.Requirement) bool {
			ok := checkPathways(v, c, []pathway{
				{
					name:       "Music route",
					conditions: []Condition{Require("Music"), AnyElectives(2)},
				},
				{
					name:       "Performing arts route",
					gate:       &coreGate{key: models.CoreEnglish, minGrade: "B3"},
					conditions: []Condition{AnyOf(3, "Literature in English", "Christian Religious Studies", "Ghanaian Language", "French", "History")},
				},
			})
			v.warn("A practical audition is required regardless of grades")
			return ok
		},
	}
}
