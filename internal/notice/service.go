package notice

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"schooladmin/internal/apperr"
	"schooladmin/internal/queue"
)

// Service owns the notice board and fans creation events out to the queue.
type Service struct {
	repo   *Repository
	events queue.Queue
}

// NewService creates a service; events may be nil in tests.
func NewService(repo *Repository, events queue.Queue) *Service {
	return &Service{repo: repo, events: events}
}

// Create validates and stores a notice, then publishes a notice.created
// event so the worker can notify subscribers.
func (s *Service) Create(ctx context.Context, n Notice) (Notice, error) {
	var missing []string
	if n.Title == "" {
		missing = append(missing, "title")
	}
	if n.Details == "" {
		missing = append(missing, "details")
	}
	if n.Date.IsZero() {
		missing = append(missing, "date")
	}
	if n.SchoolID == "" {
		missing = append(missing, "school")
	}
	if len(missing) > 0 {
		return Notice{}, apperr.Validation(missing...)
	}
	target, ok := targetOrDefault(n.TargetRole)
	if !ok {
		return Notice{}, apperr.Validation("targetRole")
	}
	n.TargetRole = target
	n.ID = uuid.NewString()

	created, err := s.repo.Insert(ctx, n)
	if err != nil {
		return Notice{}, err
	}
	s.publishCreated(ctx, created)
	return created, nil
}

func (s *Service) publishCreated(ctx context.Context, n Notice) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(n)
	if err != nil {
		return
	}
	if err := s.events.Publish(ctx, queue.Message{Type: queue.EventNoticeCreated, Body: body}); err != nil {
		log.Printf("notice: publish event: %v", err)
	}
}

// List returns a school's notices, filtered to the viewer's audience.
// Admins pass an empty audience and see everything.
func (s *Service) List(ctx context.Context, schoolID, audience string) ([]Notice, error) {
	return s.repo.ListBySchool(ctx, schoolID, audience)
}

// Update rewrites a notice's content. An empty audience falls back to All,
// same as Create, so an update can never hide a notice from non-admins.
func (s *Service) Update(ctx context.Context, n Notice) error {
	target, ok := targetOrDefault(n.TargetRole)
	if !ok {
		return apperr.Validation("targetRole")
	}
	n.TargetRole = target
	if n.Date.IsZero() {
		n.Date = time.Now()
	}
	err := s.repo.Update(ctx, n)
	if IsNoRows(err) {
		return apperr.NotFound("notice", n.ID)
	}
	return err
}

// Delete removes one notice.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if IsNoRows(err) {
		return apperr.NotFound("notice", id)
	}
	return err
}

// DeleteAll clears a school's notice board.
func (s *Service) DeleteAll(ctx context.Context, schoolID string) (int64, error) {
	return s.repo.DeleteBySchool(ctx, schoolID)
}
