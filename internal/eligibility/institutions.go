package eligibility

import (
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// Institution codes.
const (
	CodeKNUST   = "knust"
	CodeUG      = "ug"
	CodeUCC     = "ucc"
	CodeUEW     = "uew"
	CodeOffline = "offline"
)

// KNUST defaults to strict matching and reports borderline aggregates.
func KNUST() *Institution {
	inst := NewInstitution(CodeKNUST, "Kwame Nkrumah University of Science and Technology", StrictRule{})
	inst.Aliases = []string{"kwame nkrumah university of science and technology", "kwame nkrumah university of science & technology"}
	inst.Borderline = BorderlinePolicy{Enabled: true, Window: BorderlineWindow}
	inst.SupportsTracks = true

	inst.RegisterComplexity(models.ComplexityBasic, ThresholdRule{})

	inst.Register(GroupedRule{Pools: []string{PoolVisualArt, PoolGeneralArts, PoolScience}},
		"BA. Communication Design", "BA. Publishing Studies")
	inst.Register(GroupedRule{Pools: []string{PoolHomeEconomics, PoolVisualArt}},
		"BSc. Fashion Design")
	inst.Register(GroupedRule{Pools: []string{PoolVisualArt, PoolGeneralArts, PoolHomeEconomics, PoolTechnical}},
		"BA. Integrated Rural Art and Industry")
	inst.Register(GroupedRule{Pattern: &CompulsoryPattern{
		Compulsory: []string{"Economics"},
		Supporting: []string{"Elective Mathematics", "Geography", "Business Management", "Financial Accounting", "Government"},
		Need:       2,
	}}, "BSc. Land Economy", "BSc. Real Estate")

	inst.Register(FlexibleRule{Options: []Option{
		{Name: "Option A", Conditions: []Condition{
			Require("Elective Mathematics"),
			Require("Physics"),
			OneOf("Chemistry", "Economics", "Biology", "ICT", "Technical Drawing"),
		}},
		{Name: "Option B", Conditions: []Condition{
			Require("Elective Mathematics"),
			Require("Economics"),
			OneOf("Physics", "Chemistry", "Business Management", "ICT", "Geography"),
		}},
	}}, "BSc. Computer Science", "BSc. Information Technology")
	inst.Register(FlexibleRule{Options: []Option{
		{Name: "Option A", Conditions: []Condition{
			Require("Elective Mathematics"),
			AnyOf(2, "Physics", "Chemistry", "Economics"),
		}},
		{Name: "Option B", Conditions: []Condition{
			Require("Elective Mathematics"),
			Require("Economics"),
			OneOf("Financial Accounting", "Business Management", "Geography"),
		}},
	}}, "BSc. Actuarial Science", "BSc. Statistics")

	inst.Register(BScAgriculture(), "BSc. Agriculture")
	inst.Register(DoctorOfPharmacy(), "Doctor of Pharmacy", "Pharm D")
	inst.Register(BScNursing(), "BSc. Nursing")
	inst.Register(BScArchitecture(), "BSc. Architecture")
	return inst
}

// UG defaults to threshold matching and has no borderline tier: any miss is not eligible.
func UG() *Institution {
	inst := NewInstitution(CodeUG, "University of Ghana", ThresholdRule{})
	inst.Aliases = []string{"university of ghana", "legon"}

	inst.RegisterComplexity(models.ComplexityIntermediate, StrictRule{})
	inst.RegisterComplexity(models.ComplexityAdvanced, StrictRule{})

	inst.Register(FlexibleRule{Options: []Option{
		{Name: "Physics option", Conditions: []Condition{
			Require("Elective Mathematics"),
			Require("Physics"),
			AnyElectives(1),
		}},
		{Name: "ICT or Economics option", Conditions: []Condition{
			Require("Elective Mathematics"),
			OneOf("ICT", "Economics"),
			OneOf("Physics", "Chemistry", "Business Management", "Geography", "Financial Accounting"),
		}},
	}}, "BSc. Computer Science")
	inst.Register(GroupedRule{Pools: []string{PoolGeneralArts, PoolVisualArt}}, "BFA. Theatre Arts")

	inst.Register(MBChBMedicine(), "MBChB. Medicine", "Bachelor of Medicine and Bachelor of Surgery")
	inst.Register(LLBLaw(), "LLB. Law", "Bachelor of Laws")
	return inst
}

// UCC defaults to grouped matching with the lenient any-three fallback and reports borderline aggregates.
func UCC() *Institution {
	inst := NewInstitution(CodeUCC, "University of Cape Coast", GroupedRule{})
	inst.Aliases = []string{"university of cape coast"}
	inst.Borderline = BorderlinePolicy{Enabled: true, Window: BorderlineWindow}

	inst.RegisterComplexity(models.ComplexityIntermediate, StrictRule{})

	inst.Register(GroupedRule{Pattern: &CompulsoryPattern{
		Compulsory: []string{"Financial Accounting"},
		Supporting: []string{"Economics", "Business Management", "Cost Accounting", "Elective Mathematics"},
		Need:       2,
	}}, "BCom. Accounting")
	inst.Register(GroupedRule{Pools: []string{PoolGeneralArts, PoolBusiness, PoolScience}}, "BA. Economics")
	inst.Register(GroupedRule{Pools: []string{PoolScience, PoolAgriculture}}, "BSc. Biological Science")
	inst.Register(FlexibleRule{Options: []Option{
		{Name: "Science option", Conditions: []Condition{
			Require("Elective Mathematics"),
			AnyOf(2, "Physics", "Chemistry", "ICT"),
		}},
		{Name: "Business option", Conditions: []Condition{
			Require("Elective Mathematics"),
			Require("Economics"),
			AnyElectives(1),
		}},
	}}, "BSc. Mathematics and Statistics")
	return inst
}

// UEW defaults to threshold matching, has no borderline tier and orders ties by university name.
func UEW() *Institution {
	inst := NewInstitution(CodeUEW, "University of Education, Winneba", ThresholdRule{})
	inst.Aliases = []string{"university of education winneba", "university of education, winneba"}
	inst.TieBreakByUniversity = true

	inst.Register(GroupedRule{Pattern: &CompulsoryPattern{
		Compulsory: []string{"Elective Mathematics", "ICT"},
		Supporting: []string{"Physics", "Chemistry", "Economics", "Biology", "Business Management", "Financial Accounting", "Technical Drawing"},
		Need:       2,
	}}, "BSc. Information Technology Education")
	inst.Register(GroupedRule{Pools: PoolNames()}, "BEd. Basic Education")
	inst.Register(BAMusicEducation(), "BA. Music Education")
	return inst
}

// Offline evaluates programmes of institutions without a dedicated dispatcher.
func Offline() *Institution {
	inst := NewInstitution(CodeOffline, "All institutions", ThresholdRule{})
	inst.Borderline = BorderlinePolicy{Enabled: true, Window: BorderlineWindow}
	inst.TieBreakByUniversity = true
	inst.RegisterComplexity(models.ComplexityIntermediate, StrictRule{})
	inst.RegisterComplexity(models.ComplexityAdvanced, StrictRule{})
	return inst
}
