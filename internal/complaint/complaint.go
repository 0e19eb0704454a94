package complaint

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Complaint kinds. Complaints go to the school admin; queries are answered
// by the branch's teachers.
const (
	TypeComplaint = "complaint"
	TypeQuery     = "query"
)

// Complaint is a message raised by a student.
type Complaint struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"student_id"`
	StudentName string     `json:"student_name,omitempty"`
	BranchID    string     `json:"branch_id,omitempty"`
	Date        time.Time  `json:"date"`
	Body        string     `json:"body"`
	Type        string     `json:"type"`
	SubjectID   string     `json:"subject_id,omitempty"`
	SchoolID    string     `json:"school_id"`
	Resolved    bool       `json:"resolved"`
	Responses   []Response `json:"responses,omitempty"`
}

// Response is one teacher's answer to a query.
type Response struct {
	TeacherID string    `json:"teacher_id"`
	Body      string    `json:"response"`
	Date      time.Time `json:"date"`
}

// ValidType reports whether t is a known complaint kind.
func ValidType(t string) bool {
	return t == TypeComplaint || t == TypeQuery
}

// Repository persists complaints and their response threads.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over the shared connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a complaint.
func (r *Repository) Insert(ctx context.Context, c Complaint) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO complaints (id, student_id, date, body, type, subject_id, school_id, resolved)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`,
		c.ID, c.StudentID, c.Date, c.Body, c.Type, c.SubjectID, c.SchoolID, c.Resolved)
	return err
}

const complaintSelect = `
	SELECT c.id, c.student_id, s.name, s.branch_id, c.date, c.body, c.type,
	       COALESCE(c.subject_id, ''), c.school_id, c.resolved
	FROM complaints c
	JOIN students s ON s.id = c.student_id`

func scanComplaint(row interface{ Scan(...any) error }) (Complaint, error) {
	var c Complaint
	err := row.Scan(&c.ID, &c.StudentID, &c.StudentName, &c.BranchID, &c.Date,
		&c.Body, &c.Type, &c.SubjectID, &c.SchoolID, &c.Resolved)
	return c, err
}

// Get returns one complaint with its responses, oldest response first.
func (r *Repository) Get(ctx context.Context, id string) (Complaint, error) {
	c, err := scanComplaint(r.db.QueryRowContext(ctx, complaintSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return Complaint{}, err
	}
	c.Responses, err = r.responses(ctx, c.ID)
	return c, err
}

// ListBySchool returns a school's complaints, newest first. When kind is
// non-empty only that kind is returned.
func (r *Repository) ListBySchool(ctx context.Context, schoolID, kind string) ([]Complaint, error) {
	query := complaintSelect + ` WHERE c.school_id = $1`
	args := []any{schoolID}
	if kind != "" {
		query += ` AND c.type = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY c.date DESC`
	return r.list(ctx, query, args...)
}

// ListByBranch returns complaints raised by a branch's students.
func (r *Repository) ListByBranch(ctx context.Context, branchID, kind string) ([]Complaint, error) {
	query := complaintSelect + ` WHERE s.branch_id = $1`
	args := []any{branchID}
	if kind != "" {
		query += ` AND c.type = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY c.date DESC`
	return r.list(ctx, query, args...)
}

// ListByStudent returns one student's complaints, newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]Complaint, error) {
	return r.list(ctx, complaintSelect+` WHERE c.student_id = $1 ORDER BY c.date DESC`, studentID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Complaint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Responses, err = r.responses(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repository) responses(ctx context.Context, complaintID string) ([]Response, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT teacher_id, response, date
		FROM complaint_responses
		WHERE complaint_id = $1
		ORDER BY seq`, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Response
	for rows.Next() {
		var resp Response
		if err := rows.Scan(&resp.TeacherID, &resp.Body, &resp.Date); err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

// AppendResponse adds one response to the thread.
func (r *Repository) AppendResponse(ctx context.Context, complaintID string, resp Response) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO complaint_responses (complaint_id, teacher_id, response, date)
		VALUES ($1, $2, $3, $4)`,
		complaintID, resp.TeacherID, resp.Body, resp.Date)
	return err
}

// SetResolved flips the resolved flag.
func (r *Repository) SetResolved(ctx context.Context, id string, resolved bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE complaints SET resolved = $2 WHERE id = $1`, id, resolved)
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsNoRows reports whether err is the driver's not-found sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
