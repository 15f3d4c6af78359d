package eligibility

import (
	"strings"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

// Elective pool names recognised in requirement records and rule definitions.
const (
	PoolScience       = "Science"
	PoolBusiness      = "Business"
	PoolGeneralArts   = "General Arts"
	PoolVisualArt     = "Visual Art"
	PoolTechnical     = "Technical"
	PoolHomeEconomics = "Home Economics"
	PoolAgriculture   = "Agriculture"
)

var subjectAliases = map[string]string{
	"mathematics":                              "elective mathematics",
	"maths":                                    "elective mathematics",
	"elective maths":                           "elective mathematics",
	"mathematics elective":                     "elective mathematics",
	"maths elective":                           "elective mathematics",
	"e maths":                                  "elective mathematics",
	"emaths":                                   "elective mathematics",
	"further mathematics":                      "elective mathematics",
	"additional mathematics":                   "elective mathematics",
	"information and communication technology": "ict",
	"elective ict":                             "ict",
	"ict elective":                             "ict",
	"literature":                               "literature in english",
	"english literature":                       "literature in english",
	"crs":                                      "christian religious studies",
	"irs":                                      "islamic religious studies",
	"agriculture":                              "general agriculture",
	"agricultural science":                     "general agriculture",
	"accounting":                               "financial accounting",
	"principles of accounting":                 "financial accounting",
	"costing":                                  "cost accounting",
	"principles of cost accounting":            "cost accounting",
	"graphic designing":                        "graphic design",
	"gka":                                      "general knowledge in art",
	"food & nutrition":                         "food and nutrition",
	"clothing & textiles":                      "clothing and textiles",
	"mgt in living":                            "management in living",
	"twi":                                      "ghanaian language",
	"akan":                                     "ghanaian language",
	"ewe":                                      "ghanaian language",
	"electricity":                              "applied electricity",
}

var pools = map[string][]string{
	"science": {
		"Physics", "Chemistry", "Biology", "Elective Mathematics", "General Agriculture", "ICT",
	},
	"business": {
		"Financial Accounting", "Cost Accounting", "Business Management", "Economics", "Elective Mathematics", "ICT",
	},
	"general arts": {
		"Economics", "Geography", "Government", "History", "Literature in English", "Christian Religious Studies",
		"Islamic Religious Studies", "French", "Ghanaian Language", "Elective Mathematics", "Music",
	},
	"visual art": {
		"Graphic Design", "Picture Making", "Ceramics", "Sculpture", "Textiles", "Leatherwork", "Basketry",
		"Jewellery", "General Knowledge in Art", "Economics", "Elective Mathematics",
	},
	"technical": {
		"Technical Drawing", "Building Construction", "Woodwork", "Metalwork", "Auto Mechanics",
		"Applied Electricity", "Electronics", "Physics", "Elective Mathematics",
	},
	"home economics": {
		"Management in Living", "Food and Nutrition", "Clothing and Textiles", "General Knowledge in Art",
		"Biology", "Chemistry", "Economics",
	},
	"agriculture": {
		"General Agriculture", "Crop Husbandry and Horticulture", "Animal Husbandry", "Fisheries", "Forestry",
		"Chemistry", "Physics", "Biology", "Elective Mathematics",
	},
}

var poolAliases = map[string]string{
	"visual arts":     "visual art",
	"arts":            "general arts",
	"home economic":   "home economics",
	"agric":           "agriculture",
	"agricultural":    "agriculture",
	"sciences":        "science",
	"general science": "science",
}

var wildcards = map[string]struct{}{
	"any":           {},
	"*":             {},
	"any subject":   {},
	"any elective":  {},
	"any other":     {},
	"any three":     {},
	"any electives": {},
}

var coreKeys = map[string]string{
	"english":            models.CoreEnglish,
	"english language":   models.CoreEnglish,
	"core english":       models.CoreEnglish,
	"mathematics":        models.CoreMathematics,
	"maths":              models.CoreMathematics,
	"core mathematics":   models.CoreMathematics,
	"core maths":         models.CoreMathematics,
	"science":            models.CoreScience,
	"integrated science": models.CoreScience,
	"general science":    models.CoreScience,
	"social":             models.CoreSocial,
	"social studies":     models.CoreSocial,
}

var punctuation = strings.NewReplacer(".", " ", "(", " ", ")", " ", ",", " ", "-", " ", "/", " ", "_", " ")

func squash(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = punctuation.Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeSubject returns the canonical comparison key for an elective subject name.
func NormalizeSubject(name string) string {
	key := squash(name)
	if alias, ok := subjectAliases[key]; ok {
		return alias
	}
	return strings.ReplaceAll(key, "&", "and")
}

// NormalizeProgram returns the lookup key used by rule registries.
func NormalizeProgram(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

// SameSubject compares two elective subject names after normalisation.
func SameSubject(a, b string) bool {
	return NormalizeSubject(a) == NormalizeSubject(b)
}

// Pool returns the subjects in a named elective pool.
func Pool(name string) ([]string, bool) {
	key := squash(name)
	if alias, ok := poolAliases[key]; ok {
		key = alias
	}
	subjects, ok := pools[key]
	return subjects, ok
}

// PoolNames lists the recognised pool names in display form.
func PoolNames() []string {
	return []string{PoolScience, PoolBusiness, PoolGeneralArts, PoolVisualArt, PoolTechnical, PoolHomeEconomics, PoolAgriculture}
}

func isWildcard(name string) bool {
	_, ok := wildcards[squash(name)]
	return ok
}

func coreKey(name string) string {
	return coreKeys[squash(name)]
}

func coreLabel(key string) string {
	switch key {
	case models.CoreEnglish:
		return "English Language"
	case models.CoreMathematics:
		return "Core Mathematics"
	case models.CoreScience:
		return "Integrated Science"
	case models.CoreSocial:
		return "Social Studies"
	}
	return key
}

// subjectSet is a set of normalised subject keys, or every subject when wildcard.
type subjectSet struct {
	label    string
	wildcard bool
	keys     map[string]struct{}
}

func newSubjectSet(label string, expandPools bool, names ...string) subjectSet {
	set := subjectSet{label: label, keys: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if isWildcard(name) {
			set.wildcard = true
			continue
		}
		if members, ok := Pool(name); ok && expandPools {
			for _, member := range members {
				set.keys[NormalizeSubject(member)] = struct{}{}
			}
			continue
		}
		set.keys[NormalizeSubject(name)] = struct{}{}
	}
	return set
}

func (s subjectSet) contains(subject string) bool {
	if s.wildcard {
		return true
	}
	_, ok := s.keys[NormalizeSubject(subject)]
	return ok
}

// setForEntry resolves the candidate subjects for a requirement entry. A pool name
// only expands as the subject of an "any" entry.
func setForEntry(entry models.ElectiveRequirement) subjectSet {
	if len(entry.Options) > 0 {
		return newSubjectSet(strings.Join(entry.Options, ", "), false, entry.Options...)
	}
	if strings.TrimSpace(entry.Subject) == "" {
		return subjectSet{label: "any elective", wildcard: true}
	}
	return newSubjectSet(entry.Subject, entry.Kind() == models.ElectiveAny, entry.Subject)
}
