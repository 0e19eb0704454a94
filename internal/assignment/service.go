package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"schooladmin/internal/apperr"
)

var duplicateSubmissions = promauto.NewCounter(prometheus.CounterOpts{
	Name: "schooladmin_duplicate_submissions_total",
	Help: "Submissions rejected because the student already submitted.",
})

// Service owns assignment lifecycle and the single-submission invariant.
type Service struct {
	repo *Repository
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new assignment.
func (s *Service) Create(ctx context.Context, a Assignment) (Assignment, error) {
	var missing []string
	if a.Title == "" {
		missing = append(missing, "title")
	}
	if a.Description == "" {
		missing = append(missing, "description")
	}
	if a.DueDate.IsZero() {
		missing = append(missing, "dueDate")
	}
	if a.SubjectID == "" {
		missing = append(missing, "subject")
	}
	if a.BranchID == "" {
		missing = append(missing, "branch")
	}
	if a.TeacherID == "" {
		missing = append(missing, "teacher")
	}
	if len(missing) > 0 {
		return Assignment{}, apperr.Validation(missing...)
	}
	a.ID = uuid.NewString()
	return s.repo.Insert(ctx, a)
}

// List returns assignments matching the filter.
func (s *Service) List(ctx context.Context, f Filter) ([]Assignment, error) {
	return s.repo.List(ctx, f)
}

// Submit appends one submission for a student, enforcing at most one per
// (assignment, student).
func (s *Service) Submit(ctx context.Context, assignmentID, studentID, fileURL, text string) (Submission, error) {
	a, err := s.repo.Get(ctx, assignmentID)
	if err != nil {
		if IsNoRows(err) {
			return Submission{}, apperr.NotFound("assignment", assignmentID)
		}
		return Submission{}, err
	}

	sub, err := PrepareSubmission(a.Submissions, studentID, fileURL, text, time.Now())
	if err != nil {
		if apperr.IsConflict(err) {
			duplicateSubmissions.Inc()
		}
		return Submission{}, err
	}
	sub.ID = uuid.NewString()
	if err := s.repo.AppendSubmission(ctx, assignmentID, sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// Submissions lists an assignment's submissions in submission order.
func (s *Service) Submissions(ctx context.Context, assignmentID string) ([]Submission, error) {
	a, err := s.repo.Get(ctx, assignmentID)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.NotFound("assignment", assignmentID)
		}
		return nil, err
	}
	return a.Submissions, nil
}

// Delete removes an assignment and its submissions as a unit.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if IsNoRows(err) {
		return apperr.NotFound("assignment", id)
	}
	return err
}
