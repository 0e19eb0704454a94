package notice

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Target audiences for a notice.
const (
	TargetAll     = "All"
	TargetStudent = "Student"
	TargetTeacher = "Teacher"
)

// Notice is a school-wide announcement.
type Notice struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Details    string    `json:"details"`
	Date       time.Time `json:"date"`
	SchoolID   string    `json:"school_id"`
	TargetRole string    `json:"target_role"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidTarget reports whether role is an allowed audience.
func ValidTarget(role string) bool {
	switch role {
	case TargetAll, TargetStudent, TargetTeacher:
		return true
	}
	return false
}

// targetOrDefault maps an empty audience to All and reports whether the
// result is a valid audience. Writing an empty audience would make the
// notice invisible to the role-filtered listing.
func targetOrDefault(role string) (string, bool) {
	if role == "" {
		return TargetAll, true
	}
	return role, ValidTarget(role)
}

// Repository persists notices.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over the shared connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const noticeColumns = `id, title, details, date, school_id, target_role, created_at`

func scanNotice(row interface{ Scan(...any) error }) (Notice, error) {
	var n Notice
	err := row.Scan(&n.ID, &n.Title, &n.Details, &n.Date, &n.SchoolID, &n.TargetRole, &n.CreatedAt)
	return n, err
}

// Insert stores a notice and returns it with its timestamps.
func (r *Repository) Insert(ctx context.Context, n Notice) (Notice, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO notices (id, title, details, date, school_id, target_role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		n.ID, n.Title, n.Details, n.Date, n.SchoolID, n.TargetRole,
	).Scan(&n.CreatedAt)
	return n, err
}

// ListBySchool returns a school's notices, newest date first. When audience
// is non-empty, only notices aimed at everyone or at that audience are
// returned.
func (r *Repository) ListBySchool(ctx context.Context, schoolID, audience string) ([]Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE school_id = $1`
	args := []any{schoolID}
	if audience != "" {
		query += ` AND target_role IN ($2, $3)`
		args = append(args, TargetAll, audience)
	}
	query += ` ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Update rewrites a notice's content fields.
func (r *Repository) Update(ctx context.Context, n Notice) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notices SET title = $2, details = $3, date = $4, target_role = $5
		WHERE id = $1`,
		n.ID, n.Title, n.Details, n.Date, n.TargetRole)
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes one notice.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteBySchool removes all of a school's notices.
func (r *Repository) DeleteBySchool(ctx context.Context, schoolID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE school_id = $1`, schoolID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// IsNoRows reports whether err is the driver's not-found sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
