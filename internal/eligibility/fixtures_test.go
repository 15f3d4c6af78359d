package eligibility

import (
	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

type elective struct {
	subject string
	grade   string
}

func gradesWith(english, maths, science, social string, electives ...elective) models.StudentGrades {
	g := models.StudentGrades{English: english, Mathematics: maths, Science: science, Social: social}
	slots := []*[2]*string{
		{&g.Elective1Subject, &g.Elective1Grade},
		{&g.Elective2Subject, &g.Elective2Grade},
		{&g.Elective3Subject, &g.Elective3Grade},
		{&g.Elective4Subject, &g.Elective4Grade},
	}
	for i, e := range electives {
		if i >= len(slots) {
			break
		}
		*slots[i][0] = e.subject
		*slots[i][1] = e.grade
	}
	return g
}

func scienceStudent() models.StudentGrades {
	return gradesWith("B2", "B3", "C4", "C5",
		elective{"Elective Mathematics", "A1"},
		elective{"Physics", "B2"},
		elective{"Chemistry", "B3"},
		elective{"Biology", "C4"},
	)
}

func intPtr(v int) *int {
	return &v
}

func program(id, name, university string) models.Program {
	return models.Program{ID: id, Name: name, UniversityID: university, UniversityName: university}
}
