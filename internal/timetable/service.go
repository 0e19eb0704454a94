package timetable

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"schooladmin/internal/apperr"
)

var conflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "schooladmin_timetable_conflicts_total",
	Help: "Timetable saves rejected because of slot overlap.",
})

// Service validates and persists timetable entries. Create and update run the
// same validation and conflict path; update excludes the edited entry from
// the overlap set.
type Service struct {
	repo *Repository
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the candidate against existing entries and persists it.
func (s *Service) Create(ctx context.Context, e Entry) (Entry, error) {
	if e.Type == "" {
		e.Type = TypeClass
	}
	if err := s.check(ctx, e); err != nil {
		return Entry{}, err
	}
	e.ID = uuid.NewString()
	return s.repo.Insert(ctx, e)
}

// Update rewrites an existing entry after re-running the full check.
func (s *Service) Update(ctx context.Context, id string, e Entry) (Entry, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		if IsNoRows(err) {
			return Entry{}, apperr.NotFound("timetable entry", id)
		}
		return Entry{}, err
	}
	e.ID = current.ID
	e.SchoolID = current.SchoolID
	e.CreatedAt = current.CreatedAt
	if e.Type == "" {
		e.Type = TypeClass
	}
	if err := s.check(ctx, e); err != nil {
		return Entry{}, err
	}
	updated, err := s.repo.Update(ctx, e)
	if err != nil {
		if IsNoRows(err) {
			return Entry{}, apperr.NotFound("timetable entry", id)
		}
		return Entry{}, err
	}
	return updated, nil
}

// List returns entries matching the filter.
func (s *Service) List(ctx context.Context, f Filter) ([]Entry, error) {
	return s.repo.List(ctx, f)
}

// Delete removes one entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if IsNoRows(err) {
		return apperr.NotFound("timetable entry", id)
	}
	return err
}

func (s *Service) check(ctx context.Context, e Entry) error {
	if err := Validate(e); err != nil {
		return err
	}
	existing, err := s.repo.ListForBranchDay(ctx, e.BranchID, e.Day)
	if err != nil {
		return err
	}
	if hit := FindConflict(e, existing); hit != nil {
		conflictsTotal.Inc()
		return apperr.Conflict("timetable slot overlaps an existing entry", hit.ID)
	}
	return nil
}
