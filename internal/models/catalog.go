package models

import (
	"strings"
	"time"
)

// Catalog is an in-memory snapshot of the programme data used by eligibility checks.
type Catalog struct {
	Universities []University  `json:"universities"`
	Programs     []Program     `json:"programs"`
	Requirements []Requirement `json:"requirements"`
	Scholarships []Scholarship `json:"scholarships"`
	Source       string        `json:"source"`
	LoadedAt     time.Time     `json:"loadedAt"`
}

// FilterPrograms returns the programmes matching filter. UniversityID matches the
// university id or code, case-insensitively.
func FilterPrograms(programs []Program, filter ProgramFilter) []Program {
	want := strings.ToLower(strings.TrimSpace(filter.UniversityID))
	if want == "" {
		return programs
	}
	out := make([]Program, 0, len(programs))
	for _, p := range programs {
		if strings.ToLower(p.UniversityID) == want {
			out = append(out, p)
		}
	}
	return out
}

// AttachUniversityNames fills missing programme university names from universities.
func AttachUniversityNames(programs []Program, universities []University) {
	names := make(map[string]string, len(universities)*2)
	for _, u := range universities {
		names[strings.ToLower(u.ID)] = u.Name
		if u.Code != "" {
			names[strings.ToLower(u.Code)] = u.Name
		}
	}
	for i := range programs {
		if programs[i].UniversityName == "" {
			programs[i].UniversityName = names[strings.ToLower(programs[i].UniversityID)]
		}
	}
}
