package attendance

import (
	"context"
	"encoding/json"
	"time"

	"schooladmin/internal/apperr"
	"schooladmin/internal/store"
)

const summaryCacheTTL = 5 * time.Minute

// Summary is the aggregated view served to clients.
type Summary struct {
	StudentID string           `json:"student_id"`
	Subjects  []SubjectSummary `json:"subjects"`
	Overall   float64          `json:"overall_percentage"`
}

// Service coordinates attendance reads and mutations. Aggregation is
// recomputed on every read and cached in Redis; any mutation invalidates the
// student's cache entry.
type Service struct {
	repo  *Repository
	cache *store.Redis
}

// NewService creates a service backed by a repository and cache.
func NewService(repo *Repository, cache *store.Redis) *Service {
	return &Service{repo: repo, cache: cache}
}

// Mark upserts one day's attendance for a student-subject pair.
func (s *Service) Mark(ctx context.Context, studentID, subjectID string, date time.Time, status string) ([]Record, error) {
	var missing []string
	if studentID == "" {
		missing = append(missing, "student")
	}
	if subjectID == "" {
		missing = append(missing, "subject")
	}
	if date.IsZero() {
		missing = append(missing, "date")
	}
	if status != StatusPresent && status != StatusAbsent {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return nil, apperr.Validation(missing...)
	}

	ok, err := s.repo.StudentExists(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("student", studentID)
	}

	records, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	updated := Reconcile(records, Record{SubjectID: subjectID, Date: date, Status: status})
	if err := s.repo.ReplaceForStudent(ctx, studentID, updated); err != nil {
		return nil, err
	}
	s.invalidate(ctx, studentID)
	return updated, nil
}

// Summarize returns per-subject groupings and the overall percentage for a
// student, from cache when fresh.
func (s *Service) Summarize(ctx context.Context, studentID string) (Summary, error) {
	key := cacheKey(studentID)
	if raw, ok := s.cache.CacheGet(ctx, key); ok {
		var cached Summary
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	ok, err := s.repo.StudentExists(ctx, studentID)
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return Summary{}, apperr.NotFound("student", studentID)
	}

	records, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{
		StudentID: studentID,
		Subjects:  Aggregate(records),
		Overall:   Overall(records),
	}
	if raw, err := json.Marshal(summary); err == nil {
		s.cache.CacheSet(ctx, key, string(raw), summaryCacheTTL)
	}
	return summary, nil
}

// ClearSubject removes one subject's records for a student. Idempotent.
func (s *Service) ClearSubject(ctx context.Context, studentID, subjectID string) error {
	ok, err := s.repo.StudentExists(ctx, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("student", studentID)
	}
	if err := s.repo.DeleteBySubjectForStudent(ctx, studentID, subjectID); err != nil {
		return err
	}
	s.invalidate(ctx, studentID)
	return nil
}

// ClearAll removes every record for a student. Idempotent.
func (s *Service) ClearAll(ctx context.Context, studentID string) error {
	ok, err := s.repo.StudentExists(ctx, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("student", studentID)
	}
	if err := s.repo.DeleteByStudent(ctx, studentID); err != nil {
		return err
	}
	s.invalidate(ctx, studentID)
	return nil
}

// ClearSubjectForAll removes a subject's records across every student.
func (s *Service) ClearSubjectForAll(ctx context.Context, subjectID string) error {
	affected, err := s.repo.StudentIDsBySubject(ctx, subjectID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBySubject(ctx, subjectID); err != nil {
		return err
	}
	for _, id := range affected {
		s.invalidate(ctx, id)
	}
	return nil
}

// ClearSchool removes attendance for every student of a school.
func (s *Service) ClearSchool(ctx context.Context, schoolID string) error {
	return s.repo.DeleteBySchool(ctx, schoolID)
}

// MarkTeacher upserts a teacher's own attendance for one day. Teachers carry
// no subject dimension, so matching is by calendar day alone.
func (s *Service) MarkTeacher(ctx context.Context, teacherID string, date time.Time, status string) ([]DayRecord, error) {
	var missing []string
	if date.IsZero() {
		missing = append(missing, "date")
	}
	if status != StatusPresent && status != StatusAbsent {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return nil, apperr.Validation(missing...)
	}
	ok, err := s.repo.TeacherExists(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("teacher", teacherID)
	}
	records, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	updated := ReconcileByDate(records, date, status)
	if err := s.repo.ReplaceForTeacher(ctx, teacherID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) invalidate(ctx context.Context, studentID string) {
	s.cache.CacheDel(ctx, cacheKey(studentID))
}

func cacheKey(studentID string) string {
	return "attendance:summary:" + studentID
}
