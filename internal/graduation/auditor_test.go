package graduation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/curriculum"
	"github.com/acadhub/academic-core/internal/metrics"
)

type fakeEnrollments struct {
	enrollments []academic.Enrollment
	err         error
}

func (f *fakeEnrollments) ListEnrollments(ctx context.Context, studentRef string) ([]academic.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.enrollments, nil
}

func (f *fakeEnrollments) ListEnrollmentsForCourse(ctx context.Context, studentRef, courseCode string) ([]academic.Enrollment, error) {
	var out []academic.Enrollment
	for _, en := range f.enrollments {
		if en.CourseCode == courseCode {
			out = append(out, en)
		}
	}
	return out, nil
}

type fakeCurriculum struct {
	program       *curriculum.Program
	compulsory    []curriculum.CurriculumCourse
	thresholds    []curriculum.ClassificationThreshold
	programErr    error
	thresholdsErr error
}

func (f *fakeCurriculum) GetProgram(ctx context.Context, programCode string) (*curriculum.Program, error) {
	if f.programErr != nil {
		return nil, f.programErr
	}
	return f.program, nil
}

func (f *fakeCurriculum) ListCurriculum(ctx context.Context, programCode, level string, semester academic.Semester) ([]curriculum.CurriculumCourse, error) {
	return nil, nil
}

func (f *fakeCurriculum) ListCompulsory(ctx context.Context, programCode string) ([]curriculum.CurriculumCourse, error) {
	return f.compulsory, nil
}

func (f *fakeCurriculum) ListPrerequisites(ctx context.Context, programCode, courseCode string) ([]curriculum.Prerequisite, error) {
	return nil, nil
}

func (f *fakeCurriculum) ListThresholds(ctx context.Context, programCode string) ([]curriculum.ClassificationThreshold, error) {
	if f.thresholdsErr != nil {
		return nil, f.thresholdsErr
	}
	return f.thresholds, nil
}

func auditScale() *academic.GradingScale {
	return academic.NewGradingScale([]academic.ScaleBand{
		{Letter: "A", MinScore: 70, MaxScore: 100, Point: 4},
		{Letter: "B", MinScore: 60, MaxScore: 69, Point: 3},
		{Letter: "F", MinScore: 0, MaxScore: 59, Point: 0},
	})
}

func approved(course, letter string, units int) academic.Enrollment {
	return academic.Enrollment{
		StudentRef: "STU-001", CourseCode: course, Units: units,
		Session: "2023/2024", Semester: academic.SemesterFirst,
		Grade: &academic.Grade{Letter: letter, Status: academic.GradeStatusApproved},
	}
}

func newTestAuditor(enr *fakeEnrollments, cur *fakeCurriculum) *Auditor {
	engine := metrics.NewEngine(auditScale(), academic.DefaultPolicy())
	return NewAuditor(engine, enr, cur)
}

func csStudent() *academic.Student {
	return &academic.Student{StudentRef: "STU-001", ProgramCode: "CSC"}
}

func TestAudit_EligibleWithClassification(t *testing.T) {
	enr := &fakeEnrollments{enrollments: []academic.Enrollment{
		approved("CSC101", "A", 3),
		approved("CSC102", "A", 3),
	}}
	cur := &fakeCurriculum{
		program: &curriculum.Program{Code: "CSC", MinUnitsToGraduate: 6, Scheme: curriculum.SchemeUniversity},
		compulsory: []curriculum.CurriculumCourse{
			{ProgramCode: "CSC", CourseCode: "CSC101", Compulsory: true},
		},
	}

	res, err := newTestAuditor(enr, cur).Audit(context.Background(), csStudent())
	require.NoError(t, err)

	assert.True(t, res.Eligible)
	assert.Equal(t, 4.0, res.CGPA)
	assert.Equal(t, 6, res.TotalUnits)
	assert.Empty(t, res.MissingCompulsory)
	require.NotNil(t, res.Classification)
	assert.Equal(t, "First Class", *res.Classification)
	assert.Empty(t, res.Notes)
}

func TestAudit_MissingCompulsoryBlocksGraduation(t *testing.T) {
	enr := &fakeEnrollments{enrollments: []academic.Enrollment{
		approved("CSC101", "A", 3),
		approved("CSC103", "F", 3),
	}}
	cur := &fakeCurriculum{
		program: &curriculum.Program{Code: "CSC", Scheme: curriculum.SchemeUniversity},
		compulsory: []curriculum.CurriculumCourse{
			{ProgramCode: "CSC", CourseCode: "CSC103", Compulsory: true},
			{ProgramCode: "CSC", CourseCode: "CSC102", Compulsory: true},
		},
	}

	res, err := newTestAuditor(enr, cur).Audit(context.Background(), csStudent())
	require.NoError(t, err)

	assert.False(t, res.Eligible)
	assert.Equal(t, []string{"CSC102", "CSC103"}, res.MissingCompulsory)
	assert.Nil(t, res.Classification)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, "Missing compulsory courses: CSC102, CSC103", res.Notes[0])
}

func TestAudit_InsufficientUnits(t *testing.T) {
	enr := &fakeEnrollments{enrollments: []academic.Enrollment{
		approved("CSC101", "B", 3),
	}}
	cur := &fakeCurriculum{
		program: &curriculum.Program{Code: "CSC", MinUnitsToGraduate: 12, Scheme: curriculum.SchemeUniversity},
	}

	res, err := newTestAuditor(enr, cur).Audit(context.Background(), csStudent())
	require.NoError(t, err)

	assert.False(t, res.Eligible)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, "Insufficient units: 3/12", res.Notes[0])
}

func TestAudit_NoProgramAssigned(t *testing.T) {
	res, err := newTestAuditor(&fakeEnrollments{}, &fakeCurriculum{}).Audit(context.Background(), &academic.Student{StudentRef: "STU-001"})
	require.NoError(t, err)

	assert.False(t, res.Eligible)
	assert.Equal(t, []string{"Student has no program assigned"}, res.Notes)
	assert.Nil(t, res.Classification)
}

func TestAudit_ProgramLoadErrorPropagates(t *testing.T) {
	cur := &fakeCurriculum{programErr: errors.New("db down")}

	_, err := newTestAuditor(&fakeEnrollments{}, cur).Audit(context.Background(), csStudent())
	assert.Error(t, err)
}

func TestAudit_ThresholdErrorFallsBackToSchemeDefaults(t *testing.T) {
	enr := &fakeEnrollments{enrollments: []academic.Enrollment{
		approved("CSC101", "B", 3),
	}}
	cur := &fakeCurriculum{
		program:       &curriculum.Program{Code: "CSC", Scheme: curriculum.SchemePolytechnic},
		thresholdsErr: errors.New("thresholds unavailable"),
	}

	res, err := newTestAuditor(enr, cur).Audit(context.Background(), csStudent())
	require.NoError(t, err)

	assert.True(t, res.Eligible)
	require.NotNil(t, res.Classification)
	// CGPA 3.0 lands on Upper Credit in the polytechnic ladder.
	assert.Equal(t, "Upper Credit", *res.Classification)
}

func TestAudit_ExplicitThresholdsOverrideDefaults(t *testing.T) {
	enr := &fakeEnrollments{enrollments: []academic.Enrollment{
		approved("CSC101", "B", 3),
	}}
	cur := &fakeCurriculum{
		program: &curriculum.Program{Code: "CSC", Scheme: curriculum.SchemeUniversity},
		thresholds: []curriculum.ClassificationThreshold{
			{Label: "Merit", MinCGPA: 2.5},
			{Label: "Pass", MinCGPA: 0},
		},
	}

	res, err := newTestAuditor(enr, cur).Audit(context.Background(), csStudent())
	require.NoError(t, err)
	require.NotNil(t, res.Classification)
	assert.Equal(t, "Merit", *res.Classification)
}
