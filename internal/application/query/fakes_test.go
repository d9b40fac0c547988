package query

import (
	"context"
	"errors"
	"time"

	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/curriculum"
	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/internal/domain/verification"
)

// fakeRepo backs the query handlers with in-memory academic data. It
// implements every reader interface the handlers depend on.
type fakeRepo struct {
	students    map[string]*academic.Student
	enrollments map[string][]academic.Enrollment
	programs    map[string]*curriculum.Program
	compulsory  map[string][]curriculum.CurriculumCourse
	curricula   map[string][]curriculum.CurriculumCourse
	prereqs     map[string][]curriculum.Prerequisite
	scale       *academic.GradingScale
	policy      academic.Policy
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		students:    make(map[string]*academic.Student),
		enrollments: make(map[string][]academic.Enrollment),
		programs:    make(map[string]*curriculum.Program),
		compulsory:  make(map[string][]curriculum.CurriculumCourse),
		curricula:   make(map[string][]curriculum.CurriculumCourse),
		prereqs:     make(map[string][]curriculum.Prerequisite),
		scale: academic.NewGradingScale([]academic.ScaleBand{
			{Letter: "A", MinScore: 70, MaxScore: 100, Point: 4},
			{Letter: "B", MinScore: 60, MaxScore: 69, Point: 3},
			{Letter: "C", MinScore: 50, MaxScore: 59, Point: 2},
			{Letter: "F", MinScore: 0, MaxScore: 49, Point: 0},
		}),
		policy: academic.DefaultPolicy(),
	}
}

func (r *fakeRepo) GetStudent(ctx context.Context, studentRef string) (*academic.Student, error) {
	s, ok := r.students[studentRef]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeRepo) ListStudentRefs(ctx context.Context) ([]string, error) {
	refs := make([]string, 0, len(r.students))
	for ref := range r.students {
		refs = append(refs, ref)
	}
	return refs, nil
}

func (r *fakeRepo) ListEnrollments(ctx context.Context, studentRef string) ([]academic.Enrollment, error) {
	return r.enrollments[studentRef], nil
}

func (r *fakeRepo) ListEnrollmentsForCourse(ctx context.Context, studentRef, courseCode string) ([]academic.Enrollment, error) {
	var out []academic.Enrollment
	for _, en := range r.enrollments[studentRef] {
		if en.CourseCode == courseCode {
			out = append(out, en)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetGradingScale(ctx context.Context) (*academic.GradingScale, error) {
	return r.scale, nil
}

func (r *fakeRepo) GetPolicy(ctx context.Context) (academic.Policy, error) {
	return r.policy, nil
}

func (r *fakeRepo) GetProgram(ctx context.Context, programCode string) (*curriculum.Program, error) {
	p, ok := r.programs[programCode]
	if !ok {
		return nil, shared.ErrProgramNotFound
	}
	return p, nil
}

func (r *fakeRepo) ListCurriculum(ctx context.Context, programCode, level string, semester academic.Semester) ([]curriculum.CurriculumCourse, error) {
	return r.curricula[programCode], nil
}

func (r *fakeRepo) ListCompulsory(ctx context.Context, programCode string) ([]curriculum.CurriculumCourse, error) {
	return r.compulsory[programCode], nil
}

func (r *fakeRepo) ListPrerequisites(ctx context.Context, programCode, courseCode string) ([]curriculum.Prerequisite, error) {
	return r.prereqs[courseCode], nil
}

func (r *fakeRepo) ListThresholds(ctx context.Context, programCode string) ([]curriculum.ClassificationThreshold, error) {
	return nil, nil
}

type fakeStore struct {
	records map[string]*verification.Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*verification.Record)}
}

func (s *fakeStore) Save(ctx context.Context, rec *verification.Record) error {
	if _, exists := s.records[rec.Code]; exists {
		return shared.ErrDuplicateCode
	}
	clone := *rec
	s.records[rec.Code] = &clone
	return nil
}

func (s *fakeStore) GetByCode(ctx context.Context, code string) (*verification.Record, error) {
	rec, ok := s.records[code]
	if !ok {
		return nil, shared.ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (s *fakeStore) Revoke(ctx context.Context, code string, at time.Time) error {
	rec, ok := s.records[code]
	if !ok {
		return shared.ErrRecordNotFound
	}
	rec.Revoke(at)
	return nil
}

func (s *fakeStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

var errNoSuchEntry = errors.New("no such entry")

type fakeCache struct {
	entries map[string]*verification.Record
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*verification.Record)}
}

func (c *fakeCache) Get(ctx context.Context, code string) (*verification.Record, error) {
	rec, ok := c.entries[code]
	if !ok {
		return nil, errNoSuchEntry
	}
	clone := *rec
	return &clone, nil
}

func (c *fakeCache) Set(ctx context.Context, rec *verification.Record, ttl time.Duration) error {
	clone := *rec
	c.entries[rec.Code] = &clone
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, code string) error {
	delete(c.entries, code)
	return nil
}
