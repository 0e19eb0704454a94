package complaint

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"schooladmin/internal/apperr"
	"schooladmin/internal/queue"
)

// Service owns complaints and query threads.
type Service struct {
	repo   *Repository
	events queue.Queue
}

// NewService creates a service; events may be nil in tests.
func NewService(repo *Repository, events queue.Queue) *Service {
	return &Service{repo: repo, events: events}
}

// Create validates and stores a complaint or query.
func (s *Service) Create(ctx context.Context, c Complaint) (Complaint, error) {
	var missing []string
	if c.StudentID == "" {
		missing = append(missing, "student")
	}
	if c.Body == "" {
		missing = append(missing, "complaint")
	}
	if c.SchoolID == "" {
		missing = append(missing, "school")
	}
	if len(missing) > 0 {
		return Complaint{}, apperr.Validation(missing...)
	}
	if c.Type == "" {
		c.Type = TypeComplaint
	}
	if !ValidType(c.Type) {
		return Complaint{}, apperr.Validation("type")
	}
	if c.Type == TypeQuery && c.SubjectID == "" {
		return Complaint{}, apperr.Validation("subject")
	}
	if c.Date.IsZero() {
		c.Date = time.Now().UTC()
	}
	c.ID = uuid.NewString()
	if err := s.repo.Insert(ctx, c); err != nil {
		return Complaint{}, err
	}
	return c, nil
}

// ListBySchool returns a school's complaints, optionally filtered by kind.
func (s *Service) ListBySchool(ctx context.Context, schoolID, kind string) ([]Complaint, error) {
	return s.repo.ListBySchool(ctx, schoolID, kind)
}

// ListForTeacher returns the queries raised by students of the teacher's
// branch.
func (s *Service) ListForTeacher(ctx context.Context, branchID string) ([]Complaint, error) {
	return s.repo.ListByBranch(ctx, branchID, TypeQuery)
}

// ListByStudent returns one student's complaints and queries.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]Complaint, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

// Respond appends a teacher's answer to a query. Teachers may only answer
// queries from their own branch.
func (s *Service) Respond(ctx context.Context, complaintID, teacherID, teacherBranchID, body string) (Complaint, error) {
	if body == "" {
		return Complaint{}, apperr.Validation("response")
	}
	c, err := s.repo.Get(ctx, complaintID)
	if err != nil {
		if IsNoRows(err) {
			return Complaint{}, apperr.NotFound("complaint", complaintID)
		}
		return Complaint{}, err
	}
	if c.Type != TypeQuery {
		return Complaint{}, apperr.Validation("type")
	}
	if teacherBranchID != "" && c.BranchID != teacherBranchID {
		return Complaint{}, apperr.Forbidden("query belongs to another branch")
	}

	resp := Response{TeacherID: teacherID, Body: body, Date: time.Now().UTC()}
	if err := s.repo.AppendResponse(ctx, complaintID, resp); err != nil {
		return Complaint{}, err
	}
	c.Responses = append(c.Responses, resp)
	s.publishResponded(ctx, c)
	return c, nil
}

func (s *Service) publishResponded(ctx context.Context, c Complaint) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.events.Publish(ctx, queue.Message{Type: queue.EventComplaintResponded, Body: body}); err != nil {
		log.Printf("complaint: publish event: %v", err)
	}
}

// Resolve marks a complaint handled.
func (s *Service) Resolve(ctx context.Context, id string) error {
	err := s.repo.SetResolved(ctx, id, true)
	if IsNoRows(err) {
		return apperr.NotFound("complaint", id)
	}
	return err
}
