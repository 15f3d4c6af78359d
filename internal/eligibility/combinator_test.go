package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-eligibility-api/internal/models"
)

func TestCombinationsEnumeratesAndSorts(t *testing.T) {
	combos := Combinations(scienceStudent())

	// two candidate third core subjects times C(4,3) elective selections
	require.Len(t, combos, 8)
	assert.True(t, combos[0].IsBest)
	assert.Equal(t, 15, combos[0].Aggregate)
	for i := 1; i < len(combos); i++ {
		assert.False(t, combos[i].IsBest)
		assert.LessOrEqual(t, combos[i-1].Aggregate, combos[i].Aggregate)
	}
	assert.Equal(t, []string{"Elective Mathematics", "Physics", "Chemistry"}, combos[0].ElectiveNames())
	assert.Equal(t, "Integrated Science", combos[0].Core[2].Subject)
}

func TestCombinationsCompleteness(t *testing.T) {
	cases := []struct {
		name      string
		grades    models.StudentGrades
		count     int
		aggregate int
		core      []string
		electives []string
	}{
		{
			name: "two third-core candidates with four electives",
			grades: gradesWith("A1", "A1", "B2", "C6",
				elective{"Physics", "A1"},
				elective{"Chemistry", "B2"},
				elective{"Biology", "B3"},
				elective{"Geography", "C4"},
			),
			count:     8,
			aggregate: 10,
			core:      []string{models.CoreEnglish, models.CoreMathematics, models.CoreScience},
			electives: []string{"Physics", "Chemistry", "Biology"},
		},
		{
			name:      "science student",
			grades:    scienceStudent(),
			count:     8,
			aggregate: 15,
			core:      []string{models.CoreEnglish, models.CoreMathematics, models.CoreScience},
			electives: []string{"Elective Mathematics", "Physics", "Chemistry"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			combos := Combinations(tc.grades)
			require.Len(t, combos, tc.count)
			best := combos[0]
			assert.True(t, best.IsBest)
			assert.Equal(t, tc.aggregate, best.Aggregate)
			keys := make([]string, len(best.Core))
			for i, c := range best.Core {
				keys[i] = c.Key
			}
			assert.Equal(t, tc.core, keys)
			assert.Equal(t, tc.electives, best.ElectiveNames())
		})
	}
}

func TestCombinationsSkipsFailedSubjects(t *testing.T) {
	grades := gradesWith("A1", "A1", "D7", "B2",
		elective{"Physics", "B2"},
		elective{"Chemistry", "E8"},
		elective{"Biology", "C5"},
		elective{"Geography", "C6"},
	)
	combos := Combinations(grades)
	require.Len(t, combos, 1)
	assert.Equal(t, "Social Studies", combos[0].Core[2].Subject)
	assert.Equal(t, 1+1+2+2+5+6, combos[0].Aggregate)
}

func TestCombinationsRequiresEnglishAndMaths(t *testing.T) {
	grades := scienceStudent()
	grades.English = "D7"
	assert.Empty(t, Combinations(grades))
	assert.Contains(t, Shortfall(grades), "English Language")

	grades = scienceStudent()
	grades.Mathematics = ""
	assert.Empty(t, Combinations(grades))
	assert.Contains(t, Shortfall(grades), "Core Mathematics")
}

func TestShortfallNamesMissingElectives(t *testing.T) {
	grades := gradesWith("B2", "B3", "C4", "C5",
		elective{"Physics", "B2"},
		elective{"Chemistry", "C4"},
		elective{"Biology", "F9"},
	)
	assert.Empty(t, Combinations(grades))
	assert.Equal(t, "Cannot form a valid aggregate: 3 elective credit passes (only 2 found)", Shortfall(grades))
	assert.Empty(t, Shortfall(scienceStudent()))
}

func TestDescribe(t *testing.T) {
	combos := Combinations(scienceStudent())
	require.NotEmpty(t, combos)
	assert.Equal(t,
		"Core: English Language (B2), Core Mathematics (B3), Integrated Science (C4) | Electives: Elective Mathematics (A1), Physics (B2), Chemistry (B3) | Aggregate 15",
		combos[0].Describe())
}
