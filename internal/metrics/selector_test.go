package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acadhub/academic-core/internal/domain/academic"
)

func testScale() *academic.GradingScale {
	return academic.NewGradingScale([]academic.ScaleBand{
		{Letter: "A", MinScore: 70, MaxScore: 100, Point: 4},
		{Letter: "B", MinScore: 60, MaxScore: 69, Point: 3},
		{Letter: "C", MinScore: 50, MaxScore: 59, Point: 2},
		{Letter: "D", MinScore: 45, MaxScore: 49, Point: 1},
		{Letter: "F", MinScore: 0, MaxScore: 44, Point: 0},
	})
}

func graded(id, course string, units int, session string, semester academic.Semester, letter string, score float64) academic.Enrollment {
	return academic.Enrollment{
		ID:         id,
		StudentRef: "STU-001",
		CourseCode: course,
		Units:      units,
		Session:    session,
		Semester:   semester,
		Grade: &academic.Grade{
			EnrollmentID: id,
			Letter:       letter,
			TotalScore:   score,
			Status:       academic.GradeStatusApproved,
		},
	}
}

func ungraded(id, course string, units int, session string, semester academic.Semester) academic.Enrollment {
	return academic.Enrollment{
		ID:         id,
		StudentRef: "STU-001",
		CourseCode: course,
		Units:      units,
		Session:    session,
		Semester:   semester,
	}
}

func TestSelectAttempts_AllCountsEverything(t *testing.T) {
	attempts := []academic.Enrollment{
		graded("e1", "MTH101", 3, "2022/2023", academic.SemesterFirst, "F", 30),
		graded("e2", "MTH101", 3, "2023/2024", academic.SemesterFirst, "A", 85),
		ungraded("e3", "PHY101", 2, "2023/2024", academic.SemesterFirst),
	}

	counted := SelectAttempts(attempts, academic.RepeatAll, testScale())

	assert.Len(t, counted, 3)
	assert.Contains(t, counted, "e1")
	assert.Contains(t, counted, "e2")
	assert.Contains(t, counted, "e3")
}

func TestSelectAttempts_LatestPicksNewestTerm(t *testing.T) {
	attempts := []academic.Enrollment{
		graded("e1", "MTH101", 3, "2022/2023", academic.SemesterFirst, "F", 30),
		graded("e2", "MTH101", 3, "2023/2024", academic.SemesterFirst, "D", 46),
		graded("e3", "MTH101", 3, "2022/2023", academic.SemesterSecond, "A", 90),
	}

	counted := SelectAttempts(attempts, academic.RepeatLatest, testScale())

	assert.Len(t, counted, 1)
	assert.Contains(t, counted, "e2")
}

func TestSelectAttempts_LatestTieResolvesToLastEncountered(t *testing.T) {
	attempts := []academic.Enrollment{
		graded("e1", "MTH101", 3, "2023/2024", academic.SemesterFirst, "C", 55),
		graded("e2", "MTH101", 3, "2023/2024", academic.SemesterFirst, "B", 65),
	}

	counted := SelectAttempts(attempts, academic.RepeatLatest, testScale())

	assert.Len(t, counted, 1)
	assert.Contains(t, counted, "e2")
}

func TestSelectAttempts_BestPicksHighestPoint(t *testing.T) {
	attempts := []academic.Enrollment{
		graded("e1", "MTH101", 3, "2022/2023", academic.SemesterFirst, "F", 30),
		graded("e2", "MTH101", 3, "2023/2024", academic.SemesterFirst, "B", 65),
		graded("e3", "MTH101", 3, "2024/2025", academic.SemesterFirst, "C", 55),
	}

	counted := SelectAttempts(attempts, academic.RepeatBest, testScale())

	assert.Len(t, counted, 1)
	assert.Contains(t, counted, "e2")
}

func TestSelectAttempts_BestTieBrokenByLatestTerm(t *testing.T) {
	attempts := []academic.Enrollment{
		graded("e1", "MTH101", 3, "2022/2023", academic.SemesterFirst, "B", 64),
		graded("e2", "MTH101", 3, "2023/2024", academic.SemesterFirst, "B", 66),
	}

	counted := SelectAttempts(attempts, academic.RepeatBest, testScale())

	assert.Len(t, counted, 1)
	assert.Contains(t, counted, "e2")
}

func TestSelectAttempts_BestRanksUngradedBelowAnyGrade(t *testing.T) {
	attempts := []academic.Enrollment{
		ungraded("e1", "MTH101", 3, "2024/2025", academic.SemesterFirst),
		graded("e2", "MTH101", 3, "2022/2023", academic.SemesterFirst, "F", 20),
	}

	counted := SelectAttempts(attempts, academic.RepeatBest, testScale())

	// F is worth 0 points but still beats the unresolvable attempt.
	assert.Len(t, counted, 1)
	assert.Contains(t, counted, "e2")
}

func TestSelectAttempts_BestRanksUnknownLetterBelowAnyGrade(t *testing.T) {
	attempts := []academic.Enrollment{
		graded("e1", "MTH101", 3, "2024/2025", academic.SemesterFirst, "X", 80),
		graded("e2", "MTH101", 3, "2022/2023", academic.SemesterFirst, "F", 20),
	}

	counted := SelectAttempts(attempts, academic.RepeatBest, testScale())

	assert.Len(t, counted, 1)
	assert.Contains(t, counted, "e2")
}

func TestSelectAttempts_UnknownPolicyBehavesAsAll(t *testing.T) {
	attempts := []academic.Enrollment{
		graded("e1", "MTH101", 3, "2022/2023", academic.SemesterFirst, "F", 30),
		graded("e2", "MTH101", 3, "2023/2024", academic.SemesterFirst, "A", 85),
	}

	counted := SelectAttempts(attempts, academic.RepeatPolicy("whatever"), testScale())

	assert.Len(t, counted, 2)
}

func TestSelectAttempts_SelectionIgnoresApprovalStatus(t *testing.T) {
	pending := graded("e2", "MTH101", 3, "2023/2024", academic.SemesterFirst, "A", 85)
	pending.Grade.Status = academic.GradeStatusSubmitted

	attempts := []academic.Enrollment{
		graded("e1", "MTH101", 3, "2022/2023", academic.SemesterFirst, "C", 55),
		pending,
	}

	counted := SelectAttempts(attempts, academic.RepeatBest, testScale())

	// Gating applies during aggregation, not selection.
	assert.Contains(t, counted, "e2")
}
