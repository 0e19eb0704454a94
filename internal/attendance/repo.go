package attendance

import (
	"context"
	"database/sql"
	"errors"
)

// Repository persists attendance rows in Postgres. Record ordering is the
// insertion order of the rows (the seq column), mirroring the ordered list
// each student owns.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// StudentExists reports whether the student id is known.
func (r *Repository) StudentExists(ctx context.Context, studentID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM students WHERE id = $1`, studentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ListByStudent returns a student's attendance records in insertion order,
// with subject name and nominal session count denormalized in.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.subject_id, COALESCE(s.name, ''), COALESCE(s.sessions, 0), a.date, a.status
		FROM student_attendance a
		LEFT JOIN subjects s ON s.id = a.subject_id
		WHERE a.student_id = $1
		ORDER BY a.seq
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.SubjectID, &rec.SubjectName, &rec.Sessions, &rec.Date, &rec.Status); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ReplaceForStudent swaps a student's full attendance list atomically,
// preserving slice order. This mirrors saving the owning document as a unit.
func (r *Repository) ReplaceForStudent(ctx context.Context, studentID string, records []Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM student_attendance WHERE student_id = $1`, studentID); err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO student_attendance (student_id, subject_id, date, status)
			VALUES ($1, $2, $3, $4)
		`, studentID, rec.SubjectID, rec.Date, rec.Status); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteBySubjectForStudent removes one subject's records for one student.
func (r *Repository) DeleteBySubjectForStudent(ctx context.Context, studentID, subjectID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM student_attendance WHERE student_id = $1 AND subject_id = $2`, studentID, subjectID)
	return err
}

// DeleteByStudent clears a student's attendance entirely.
func (r *Repository) DeleteByStudent(ctx context.Context, studentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM student_attendance WHERE student_id = $1`, studentID)
	return err
}

// DeleteBySubject removes a subject's records across all students.
func (r *Repository) DeleteBySubject(ctx context.Context, subjectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM student_attendance WHERE subject_id = $1`, subjectID)
	return err
}

// DeleteBySchool clears attendance for every student of a school.
func (r *Repository) DeleteBySchool(ctx context.Context, schoolID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM student_attendance
		WHERE student_id IN (SELECT id FROM students WHERE school_id = $1)
	`, schoolID)
	return err
}

// StudentIDsBySubject lists students holding records for a subject, used for
// cache invalidation after bulk deletes.
func (r *Repository) StudentIDsBySubject(ctx context.Context, subjectID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT student_id FROM student_attendance WHERE subject_id = $1`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TeacherExists reports whether the teacher id is known.
func (r *Repository) TeacherExists(ctx context.Context, teacherID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM teachers WHERE id = $1`, teacherID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ListByTeacher returns a teacher's self-attendance in insertion order.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID string) ([]DayRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, status FROM teacher_attendance WHERE teacher_id = $1 ORDER BY seq
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []DayRecord
	for rows.Next() {
		var rec DayRecord
		if err := rows.Scan(&rec.Date, &rec.Status); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ReplaceForTeacher swaps a teacher's attendance list atomically.
func (r *Repository) ReplaceForTeacher(ctx context.Context, teacherID string, records []DayRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM teacher_attendance WHERE teacher_id = $1`, teacherID); err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO teacher_attendance (teacher_id, date, status) VALUES ($1, $2, $3)
		`, teacherID, rec.Date, rec.Status); err != nil {
			return err
		}
	}
	return tx.Commit()
}
