package docverify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/academic-core/internal/domain/academic"
)

func testScale() *academic.GradingScale {
	return academic.NewGradingScale([]academic.ScaleBand{
		{Letter: "A", MinScore: 70, MaxScore: 100, Point: 4},
		{Letter: "B", MinScore: 60, MaxScore: 69, Point: 3},
		{Letter: "F", MinScore: 0, MaxScore: 44, Point: 0},
	})
}

func testStudent() *academic.Student {
	return &academic.Student{
		StudentRef:     "STU-001",
		FirstName:      "Ada",
		LastName:       "Obi",
		EntryLevel:     "100",
		CurrentLevel:   "200",
		CurrentSession: "2023/2024",
		ProgramCode:    "CSC",
	}
}

func testEnrollments() []academic.Enrollment {
	return []academic.Enrollment{
		{
			ID: "e1", StudentRef: "STU-001", CourseCode: "MTH101",
			CourseTitle: "Calculus I", Units: 3,
			Session: "2022/2023", Semester: academic.SemesterFirst,
			Grade: &academic.Grade{EnrollmentID: "e1", Letter: "A", TotalScore: 85.5, Status: academic.GradeStatusApproved},
		},
		{
			ID: "e2", StudentRef: "STU-001", CourseCode: "PHY101",
			CourseTitle: "Mechanics", Units: 2,
			Session: "2022/2023", Semester: academic.SemesterFirst,
		},
	}
}

func TestBuild_GradedAndUngradedRows(t *testing.T) {
	b := NewBuilder(testScale(), academic.DefaultPolicy())
	payload := b.Build(testStudent(), testEnrollments(), academic.Institution{Name: "Unity University", Address: "1 Main Rd"})

	require.Len(t, payload.Enrollments, 2)

	graded := payload.Enrollments[0]
	require.NotNil(t, graded.Grade)
	assert.Equal(t, "A", *graded.Grade)
	assert.Equal(t, 85.5, *graded.TotalScore)
	require.NotNil(t, graded.GradePoint)
	assert.Equal(t, 4.0, *graded.GradePoint)

	pending := payload.Enrollments[1]
	assert.Nil(t, pending.Grade)
	assert.Nil(t, pending.TotalScore)
	assert.Nil(t, pending.GradePoint)
	assert.Equal(t, "PHY101", pending.CourseCode)

	assert.Equal(t, "STU-001", payload.Student.StudentRef)
	assert.Equal(t, "Unity University", payload.Institution.Name)
}

func TestBuild_TranscriptGateWithholdsUnapprovedGrades(t *testing.T) {
	enrollments := testEnrollments()
	enrollments[0].Grade.Status = academic.GradeStatusSubmitted

	b := NewBuilder(testScale(), academic.Policy{
		Repeat:                        academic.RepeatAll,
		RequireApprovedForTranscripts: true,
	})
	payload := b.Build(testStudent(), enrollments, academic.Institution{})

	// The row stays but renders as pending.
	withheld := payload.Enrollments[0]
	assert.Equal(t, "MTH101", withheld.CourseCode)
	assert.Equal(t, 3, withheld.Units)
	assert.Nil(t, withheld.Grade)
	assert.Nil(t, withheld.TotalScore)
	assert.Nil(t, withheld.GradePoint)
}

func TestBuild_GateOffRendersUnapprovedGrades(t *testing.T) {
	enrollments := testEnrollments()
	enrollments[0].Grade.Status = academic.GradeStatusSubmitted

	b := NewBuilder(testScale(), academic.DefaultPolicy())
	payload := b.Build(testStudent(), enrollments, academic.Institution{})

	require.NotNil(t, payload.Enrollments[0].Grade)
	assert.Equal(t, "A", *payload.Enrollments[0].Grade)
}

func TestCanonicalJSON_SortsObjectKeys(t *testing.T) {
	got, err := CanonicalizeRaw([]byte(`{"b":1,"a":{"z":true,"y":null}}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"y":null,"z":true},"b":1}`, string(got))
}

func TestCanonicalJSON_PreservesNumberLiterals(t *testing.T) {
	// Re-encoding must not reformat numbers, or digests recomputed from
	// the stored snapshot would drift.
	got, err := CanonicalizeRaw([]byte(`{"score":85.50,"units":3,"big":1e3}`))
	require.NoError(t, err)
	assert.Equal(t, `{"big":1e3,"score":85.50,"units":3}`, string(got))
}

func TestCanonicalJSON_NoHTMLEscaping(t *testing.T) {
	got, err := CanonicalizeRaw([]byte(`{"title":"Algorithms <II> & Data"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Algorithms <II> & Data"}`, string(got))
}

func TestCanonicalJSON_Arrays(t *testing.T) {
	got, err := CanonicalizeRaw([]byte(`[{"b":2,"a":1},"x",false]`))
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1,"b":2},"x",false]`, string(got))
}

func TestCanonicalJSON_RepeatedBuildsAreByteIdentical(t *testing.T) {
	b := NewBuilder(testScale(), academic.DefaultPolicy())
	inst := academic.Institution{Name: "Unity University", Address: "1 Main Rd"}

	first, err := CanonicalJSON(b.Build(testStudent(), testEnrollments(), inst))
	require.NoError(t, err)
	second, err := CanonicalJSON(b.Build(testStudent(), testEnrollments(), inst))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCanonicalJSON_RoundTripIsStable(t *testing.T) {
	b := NewBuilder(testScale(), academic.DefaultPolicy())
	canonical, err := CanonicalJSON(b.Build(testStudent(), testEnrollments(), academic.Institution{Name: "U"}))
	require.NoError(t, err)

	// Canonicalizing canonical bytes is the identity.
	again, err := CanonicalizeRaw(canonical)
	require.NoError(t, err)
	assert.Equal(t, canonical, again)
}

func TestCanonicalizeRaw_RejectsInvalidJSON(t *testing.T) {
	_, err := CanonicalizeRaw([]byte(`{"broken":`))
	assert.Error(t, err)
}
