// Package eligibility determines which degree programmes a WASSCE candidate
// qualifies for. Grades are ranked, combined into the best valid aggregate and
// evaluated against per-institution admission rules.
package eligibility

import "strings"

const (
	// UnknownRank is assigned to missing or unrecognised grades and never passes.
	UnknownRank = 10
	// CreditRank is the worst rank that still counts as a credit pass (C6).
	CreditRank = 6
)

var gradeRanks = map[string]int{
	"A1": 1,
	"B2": 2,
	"B3": 3,
	"C4": 4,
	"C5": 5,
	"C6": 6,
	"D7": 7,
	"E8": 8,
	"F9": 9,
}

// Rank maps a WASSCE grade to 1 (best) .. 9 (worst), or UnknownRank.
func Rank(grade string) int {
	if rank, ok := gradeRanks[strings.ToUpper(strings.TrimSpace(grade))]; ok {
		return rank
	}
	return UnknownRank
}

// Passes reports whether grade meets or exceeds minGrade. Lower ranks are better.
func Passes(grade, minGrade string) bool {
	return Rank(grade) <= Rank(minGrade)
}

// IsCredit reports whether grade is C6 or better.
func IsCredit(grade string) bool {
	return Rank(grade) <= CreditRank
}

// minGradeOr returns grade when it is a recognised grade, otherwise fallback.
func minGradeOr(grade, fallback string) string {
	if Rank(grade) == UnknownRank {
		return fallback
	}
	return strings.ToUpper(strings.TrimSpace(grade))
}
