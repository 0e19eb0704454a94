package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	BranchID  string
	SubjectID string
	TeacherID string
	SchoolID  string
}

// Repository persists assignments and their embedded submissions. Submissions
// ride on the assignment's lifecycle: the foreign key cascades deletes so an
// assignment and its submissions go as a unit.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new assignment.
func (r *Repository) Insert(ctx context.Context, a Assignment) (Assignment, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO assignments (id, title, description, due_date, subject_id, branch_id, teacher_id, school_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, a.ID, a.Title, a.Description, a.DueDate, a.SubjectID, a.BranchID, a.TeacherID, a.SchoolID)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// Get returns an assignment with its submissions in submission order.
func (r *Repository) Get(ctx context.Context, id string) (Assignment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, due_date, subject_id, branch_id, teacher_id, school_id, created_at
		FROM assignments WHERE id = $1
	`, id)
	var a Assignment
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.DueDate, &a.SubjectID,
		&a.BranchID, &a.TeacherID, &a.SchoolID, &a.CreatedAt); err != nil {
		return Assignment{}, err
	}
	subs, err := r.submissions(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	a.Submissions = subs
	return a, nil
}

// List returns assignments matching the filter, newest first, without
// submissions.
func (r *Repository) List(ctx context.Context, f Filter) ([]Assignment, error) {
	query := `SELECT id, title, description, due_date, subject_id, branch_id, teacher_id, school_id, created_at FROM assignments`
	var clauses []string
	var args []any
	add := func(col, val string) {
		if val != "" {
			args = append(args, val)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	add("branch_id", f.BranchID)
	add("subject_id", f.SubjectID)
	add("teacher_id", f.TeacherID)
	add("school_id", f.SchoolID)
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.DueDate, &a.SubjectID,
			&a.BranchID, &a.TeacherID, &a.SchoolID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AppendSubmission adds one submission to the end of an assignment's list.
func (r *Repository) AppendSubmission(ctx context.Context, assignmentID string, sub Submission) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assignment_submissions (id, assignment_id, student_id, file_url, text_body, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, sub.ID, assignmentID, sub.StudentID, sub.FileURL, sub.Text, sub.SubmittedAt)
	return err
}

// Delete removes an assignment; submissions cascade with it.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
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

func (r *Repository) submissions(ctx context.Context, assignmentID string) ([]Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, COALESCE(file_url, ''), COALESCE(text_body, ''), submitted_at
		FROM assignment_submissions
		WHERE assignment_id = $1
		ORDER BY seq
	`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subs []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.StudentID, &s.FileURL, &s.Text, &s.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// IsNoRows reports whether err is the repo's not-found sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
