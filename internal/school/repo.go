package school

import (
	"context"
	"database/sql"
	"errors"
)

// Repository persists the school roster: admins, branches, subjects, teachers
// and students. Cascading deletes are explicit multi-statement transactions
// so a failure rolls the whole cascade back.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// IsNoRows reports whether err is the repo's not-found sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ---- admins ----

func (r *Repository) InsertAdmin(ctx context.Context, a Admin) (Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO admins (id, name, email, password_hash, school_name)
		VALUES ($1,$2,$3,$4,$5) RETURNING created_at
	`, a.ID, a.Name, a.Email, a.PasswordHash, a.SchoolName)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return Admin{}, err
	}
	return a, nil
}

func (r *Repository) AdminByEmail(ctx context.Context, email string) (Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, school_name, created_at FROM admins WHERE email = $1
	`, email)
	var a Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.SchoolName, &a.CreatedAt)
	return a, err
}

func (r *Repository) AdminByID(ctx context.Context, id string) (Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, school_name, created_at FROM admins WHERE id = $1
	`, id)
	var a Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.SchoolName, &a.CreatedAt)
	return a, err
}

// ---- branches ----

func (r *Repository) InsertBranch(ctx context.Context, b Branch) (Branch, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO branches (id, name, semester, school_id)
		VALUES ($1,$2,$3,$4) RETURNING created_at
	`, b.ID, b.Name, b.Semester, b.SchoolID)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return Branch{}, err
	}
	return b, nil
}

// BranchExists reports whether a branch+semester pair already exists for the
// school.
func (r *Repository) BranchExists(ctx context.Context, name, semester, schoolID string) (string, bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM branches WHERE name = $1 AND semester = $2 AND school_id = $3
	`, name, semester, schoolID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (r *Repository) ListBranches(ctx context.Context, schoolID string) ([]Branch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, semester, school_id, created_at FROM branches WHERE school_id = $1 ORDER BY name, semester
	`, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Semester, &b.SchoolID, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) BranchByID(ctx context.Context, id string) (Branch, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, semester, school_id, created_at FROM branches WHERE id = $1
	`, id)
	var b Branch
	err := row.Scan(&b.ID, &b.Name, &b.Semester, &b.SchoolID, &b.CreatedAt)
	return b, err
}

// DeleteBranchCascade removes a branch and everything hanging off it in one
// transaction: timetables, assignments, students (attendance and exam results
// cascade with them), teachers, subjects, then the branch itself.
func (r *Repository) DeleteBranchCascade(ctx context.Context, branchID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM branches WHERE id = $1`, branchID).Scan(&exists); err != nil {
		return err
	}

	stmts := []string{
		`DELETE FROM timetables WHERE branch_id = $1`,
		`DELETE FROM assignments WHERE branch_id = $1`,
		`DELETE FROM complaints WHERE student_id IN (SELECT id FROM students WHERE branch_id = $1)`,
		`DELETE FROM students WHERE branch_id = $1`,
		`DELETE FROM teachers WHERE branch_id = $1`,
		`DELETE FROM subjects WHERE branch_id = $1`,
		`DELETE FROM branches WHERE id = $1`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, branchID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteBranchesBySchool cascades every branch of a school. Returns the
// number of branches removed.
func (r *Repository) DeleteBranchesBySchool(ctx context.Context, schoolID string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM timetables WHERE school_id = $1`,
		`DELETE FROM assignments WHERE school_id = $1`,
		`DELETE FROM complaints WHERE school_id = $1`,
		`DELETE FROM students WHERE school_id = $1`,
		`DELETE FROM teachers WHERE school_id = $1`,
		`DELETE FROM subjects WHERE school_id = $1`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, schoolID); err != nil {
			return 0, err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM branches WHERE school_id = $1`, schoolID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// ---- subjects ----

// InsertSubjects writes a batch of subjects atomically.
func (r *Repository) InsertSubjects(ctx context.Context, subjects []Subject) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, s := range subjects {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO subjects (id, name, code, sessions, branch_id, school_id, semester)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, s.ID, s.Name, s.Code, s.Sessions, s.BranchID, s.SchoolID, nullStr(s.Semester)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const subjectColumns = `id, name, code, sessions, branch_id, school_id, COALESCE(teacher_id, ''), COALESCE(semester, ''), created_at`

func (r *Repository) scanSubjects(rows *sql.Rows) ([]Subject, error) {
	defer rows.Close()
	var out []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.Sessions, &s.BranchID,
			&s.SchoolID, &s.TeacherID, &s.Semester, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) ListSubjectsBySchool(ctx context.Context, schoolID string) ([]Subject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE school_id = $1 ORDER BY name`, schoolID)
	if err != nil {
		return nil, err
	}
	return r.scanSubjects(rows)
}

func (r *Repository) ListSubjectsByBranch(ctx context.Context, branchID string) ([]Subject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE branch_id = $1 ORDER BY name`, branchID)
	if err != nil {
		return nil, err
	}
	return r.scanSubjects(rows)
}

// FreeSubjectsByBranch lists subjects of a branch with no teacher assigned.
func (r *Repository) FreeSubjectsByBranch(ctx context.Context, branchID string) ([]Subject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE branch_id = $1 AND teacher_id IS NULL ORDER BY name`, branchID)
	if err != nil {
		return nil, err
	}
	return r.scanSubjects(rows)
}

func (r *Repository) SubjectByID(ctx context.Context, id string) (Subject, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = $1`, id)
	var s Subject
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.Sessions, &s.BranchID,
		&s.SchoolID, &s.TeacherID, &s.Semester, &s.CreatedAt)
	return s, err
}

// DeleteSubjectCascade removes a subject plus its timetable slots,
// assignments and attendance rows, and unassigns any teacher teaching it.
func (r *Repository) DeleteSubjectCascade(ctx context.Context, subjectID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM subjects WHERE id = $1`, subjectID).Scan(&exists); err != nil {
		return err
	}

	stmts := []string{
		`DELETE FROM timetables WHERE subject_id = $1`,
		`DELETE FROM assignments WHERE subject_id = $1`,
		`DELETE FROM student_attendance WHERE subject_id = $1`,
		`UPDATE teachers SET subject_id = NULL WHERE subject_id = $1`,
		`DELETE FROM subjects WHERE id = $1`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, subjectID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteSubjectsBySchool cascades every subject of a school.
func (r *Repository) DeleteSubjectsBySchool(ctx context.Context, schoolID string) (int64, error) {
	return r.deleteSubjectsWhere(ctx, `school_id`, schoolID)
}

// DeleteSubjectsByBranch cascades every subject of a branch.
func (r *Repository) DeleteSubjectsByBranch(ctx context.Context, branchID string) (int64, error) {
	return r.deleteSubjectsWhere(ctx, `branch_id`, branchID)
}

func (r *Repository) deleteSubjectsWhere(ctx context.Context, col, val string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM timetables WHERE subject_id IN (SELECT id FROM subjects WHERE ` + col + ` = $1)`,
		`DELETE FROM assignments WHERE subject_id IN (SELECT id FROM subjects WHERE ` + col + ` = $1)`,
		`DELETE FROM student_attendance WHERE subject_id IN (SELECT id FROM subjects WHERE ` + col + ` = $1)`,
		`UPDATE teachers SET subject_id = NULL WHERE subject_id IN (SELECT id FROM subjects WHERE ` + col + ` = $1)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, val); err != nil {
			return 0, err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE `+col+` = $1`, val)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// ---- teachers ----

func (r *Repository) InsertTeacher(ctx context.Context, t Teacher) (Teacher, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO teachers (id, name, email, password_hash, school_id, branch_id, subject_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING created_at
	`, t.ID, t.Name, t.Email, t.PasswordHash, t.SchoolID, t.BranchID, nullStr(t.SubjectID))
	if err := row.Scan(&t.CreatedAt); err != nil {
		return Teacher{}, err
	}
	return t, nil
}

const teacherColumns = `id, name, email, password_hash, school_id, branch_id, COALESCE(subject_id, ''), created_at`

func (r *Repository) TeacherByEmail(ctx context.Context, email string) (Teacher, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE email = $1`, email)
	return scanTeacher(row)
}

func (r *Repository) TeacherByID(ctx context.Context, id string) (Teacher, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id)
	return scanTeacher(row)
}

func scanTeacher(row *sql.Row) (Teacher, error) {
	var t Teacher
	err := row.Scan(&t.ID, &t.Name, &t.Email, &t.PasswordHash, &t.SchoolID, &t.BranchID, &t.SubjectID, &t.CreatedAt)
	return t, err
}

func (r *Repository) ListTeachers(ctx context.Context, schoolID string) ([]Teacher, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE school_id = $1 ORDER BY name`, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Teacher
	for rows.Next() {
		var t Teacher
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.PasswordHash, &t.SchoolID, &t.BranchID, &t.SubjectID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AssignSubject links a teacher and a subject in both directions.
func (r *Repository) AssignSubject(ctx context.Context, teacherID, subjectID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `UPDATE teachers SET subject_id = $2 WHERE id = $1`, teacherID, subjectID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE subjects SET teacher_id = $2 WHERE id = $1`, subjectID, teacherID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteTeacherCascade removes a teacher, their timetable slots and
// assignments, and unassigns their subject.
func (r *Repository) DeleteTeacherCascade(ctx context.Context, teacherID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM teachers WHERE id = $1`, teacherID).Scan(&exists); err != nil {
		return err
	}

	stmts := []string{
		`DELETE FROM timetables WHERE teacher_id = $1`,
		`DELETE FROM assignments WHERE teacher_id = $1`,
		`UPDATE subjects SET teacher_id = NULL WHERE teacher_id = $1`,
		`DELETE FROM teachers WHERE id = $1`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, teacherID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteTeachersBySchool cascades every teacher of a school.
func (r *Repository) DeleteTeachersBySchool(ctx context.Context, schoolID string) (int64, error) {
	return r.deleteTeachersWhere(ctx, `school_id`, schoolID)
}

// DeleteTeachersByBranch cascades every teacher of a branch.
func (r *Repository) DeleteTeachersByBranch(ctx context.Context, branchID string) (int64, error) {
	return r.deleteTeachersWhere(ctx, `branch_id`, branchID)
}

func (r *Repository) deleteTeachersWhere(ctx context.Context, col, val string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM timetables WHERE teacher_id IN (SELECT id FROM teachers WHERE ` + col + ` = $1)`,
		`DELETE FROM assignments WHERE teacher_id IN (SELECT id FROM teachers WHERE ` + col + ` = $1)`,
		`UPDATE subjects SET teacher_id = NULL WHERE teacher_id IN (SELECT id FROM teachers WHERE ` + col + ` = $1)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, val); err != nil {
			return 0, err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM teachers WHERE `+col+` = $1`, val)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// ---- students ----

func (r *Repository) InsertStudent(ctx context.Context, s Student) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, name, roll_num, password_hash, branch_id, school_id)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING created_at
	`, s.ID, s.Name, s.RollNum, s.PasswordHash, s.BranchID, s.SchoolID)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return Student{}, err
	}
	return s, nil
}

const studentColumns = `id, name, roll_num, password_hash, branch_id, school_id, created_at`

func scanStudent(row *sql.Row) (Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.Name, &s.RollNum, &s.PasswordHash, &s.BranchID, &s.SchoolID, &s.CreatedAt)
	return s, err
}

func (r *Repository) StudentByID(ctx context.Context, id string) (Student, error) {
	s, err := scanStudent(r.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
	if err != nil {
		return Student{}, err
	}
	s.ExamResults, err = r.ExamResults(ctx, id)
	return s, err
}

// StudentByRoll finds a student by roll number and name within a school,
// the student login identity.
func (r *Repository) StudentByRoll(ctx context.Context, schoolID string, rollNum int, name string) (Student, error) {
	return scanStudent(r.db.QueryRowContext(ctx, `
		SELECT `+studentColumns+` FROM students WHERE school_id = $1 AND roll_num = $2 AND name = $3
	`, schoolID, rollNum, name))
}

// RollTaken reports whether a roll number is already used in a branch.
func (r *Repository) RollTaken(ctx context.Context, branchID string, rollNum int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM students WHERE branch_id = $1 AND roll_num = $2`, branchID, rollNum).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *Repository) ListStudentsBySchool(ctx context.Context, schoolID string) ([]Student, error) {
	return r.listStudents(ctx, `school_id`, schoolID)
}

func (r *Repository) ListStudentsByBranch(ctx context.Context, branchID string) ([]Student, error) {
	return r.listStudents(ctx, `branch_id`, branchID)
}

func (r *Repository) listStudents(ctx context.Context, col, val string) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studentColumns+` FROM students WHERE `+col+` = $1 ORDER BY roll_num`, val)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name, &s.RollNum, &s.PasswordHash, &s.BranchID, &s.SchoolID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStudent rewrites a student's mutable fields.
func (r *Repository) UpdateStudent(ctx context.Context, s Student) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET name = $2, roll_num = $3, branch_id = $4 WHERE id = $1
	`, s.ID, s.Name, s.RollNum, s.BranchID)
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

// DeleteStudent removes a student; attendance, exam results and complaints
// cascade via foreign keys.
func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
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

// DeleteStudentsBySchool removes every student of a school.
func (r *Repository) DeleteStudentsBySchool(ctx context.Context, schoolID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE school_id = $1`, schoolID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteStudentsByBranch removes every student of a branch.
func (r *Repository) DeleteStudentsByBranch(ctx context.Context, branchID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE branch_id = $1`, branchID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ExamResults returns a student's results in insertion order.
func (r *Repository) ExamResults(ctx context.Context, studentID string) ([]ExamResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT subject_id, marks FROM exam_results WHERE student_id = $1 ORDER BY seq
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ExamResult
	for rows.Next() {
		var er ExamResult
		if err := rows.Scan(&er.SubjectID, &er.Marks); err != nil {
			return nil, err
		}
		out = append(out, er)
	}
	return out, rows.Err()
}

// ReplaceExamResults swaps a student's full result list atomically.
func (r *Repository) ReplaceExamResults(ctx context.Context, studentID string, results []ExamResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM exam_results WHERE student_id = $1`, studentID); err != nil {
		return err
	}
	for _, er := range results {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO exam_results (student_id, subject_id, marks) VALUES ($1, $2, $3)
		`, studentID, er.SubjectID, er.Marks); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
