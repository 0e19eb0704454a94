package timetable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	BranchID  string
	TeacherID string
	SchoolID  string
	Type      string
	Day       string
}

// Repository persists timetable entries in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const entryColumns = `id, branch_id, subject_id, teacher_id, day, start_time, end_time, type, date, COALESCE(description, ''), school_id, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (Entry, error) {
	var e Entry
	var date sql.NullTime
	err := row.Scan(&e.ID, &e.BranchID, &e.SubjectID, &e.TeacherID, &e.Day,
		&e.StartTime, &e.EndTime, &e.Type, &date, &e.Description, &e.SchoolID,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return Entry{}, err
	}
	if date.Valid {
		d := date.Time
		e.Date = &d
	}
	return e, nil
}

// Insert writes a new entry.
func (r *Repository) Insert(ctx context.Context, e Entry) (Entry, error) {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO timetables (id, branch_id, subject_id, teacher_id, day, start_time, end_time, type, date, description, school_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, e.ID, e.BranchID, e.SubjectID, e.TeacherID, e.Day, e.StartTime, e.EndTime,
		e.Type, nullTime(e.Date), e.Description, e.SchoolID, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Update rewrites an entry's mutable fields. Returns sql.ErrNoRows when the
// id is unknown.
func (r *Repository) Update(ctx context.Context, e Entry) (Entry, error) {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE timetables
		SET branch_id = $2, subject_id = $3, teacher_id = $4, day = $5,
			start_time = $6, end_time = $7, type = $8, date = $9,
			description = $10, updated_at = $11
		WHERE id = $1
	`, e.ID, e.BranchID, e.SubjectID, e.TeacherID, e.Day, e.StartTime, e.EndTime,
		e.Type, nullTime(e.Date), e.Description, e.UpdatedAt)
	if err != nil {
		return Entry{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Entry{}, err
	}
	if n == 0 {
		return Entry{}, sql.ErrNoRows
	}
	return e, nil
}

// Get returns one entry by id.
func (r *Repository) Get(ctx context.Context, id string) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM timetables WHERE id = $1`, id)
	return scanEntry(row)
}

// Delete removes one entry. Returns sql.ErrNoRows when the id is unknown.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetables WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListForBranchDay returns every entry for a branch on one day, the overlap
// set the conflict checker runs against.
func (r *Repository) ListForBranchDay(ctx context.Context, branchID, day string) ([]Entry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM timetables WHERE branch_id = $1 AND day = $2 ORDER BY start_time`, branchID, day)
}

// List returns entries matching the filter, ordered by day then start time.
func (r *Repository) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM timetables`
	var clauses []string
	var args []any
	add := func(col, val string) {
		if val != "" {
			args = append(args, val)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	add("branch_id", f.BranchID)
	add("teacher_id", f.TeacherID)
	add("school_id", f.SchoolID)
	add("type", f.Type)
	add("day", f.Day)
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += ` ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday'], day), start_time`
	return r.list(ctx, query, args...)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// IsNoRows reports whether err is the repo's not-found sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
