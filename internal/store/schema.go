package store

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables the services expect. Statements are
// idempotent so startup can run this unconditionally.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS admins (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			school_name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS branches (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			semester TEXT NOT NULL,
			school_id TEXT NOT NULL REFERENCES admins(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS subjects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			code TEXT NOT NULL,
			sessions INTEGER NOT NULL DEFAULT 0,
			branch_id TEXT NOT NULL REFERENCES branches(id),
			school_id TEXT NOT NULL REFERENCES admins(id),
			teacher_id TEXT,
			semester TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS teachers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			school_id TEXT NOT NULL REFERENCES admins(id),
			branch_id TEXT NOT NULL REFERENCES branches(id),
			subject_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			roll_num INTEGER NOT NULL,
			password_hash TEXT NOT NULL,
			branch_id TEXT NOT NULL REFERENCES branches(id),
			school_id TEXT NOT NULL REFERENCES admins(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS student_attendance (
			seq BIGSERIAL PRIMARY KEY,
			student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			subject_id TEXT NOT NULL,
			date DATE NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS teacher_attendance (
			seq BIGSERIAL PRIMARY KEY,
			teacher_id TEXT NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS exam_results (
			seq BIGSERIAL PRIMARY KEY,
			student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			subject_id TEXT NOT NULL,
			marks INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS notices (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			details TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			school_id TEXT NOT NULL REFERENCES admins(id),
			target_role TEXT NOT NULL DEFAULT 'All',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS complaints (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			date TIMESTAMPTZ NOT NULL,
			body TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'complaint',
			subject_id TEXT,
			school_id TEXT NOT NULL REFERENCES admins(id),
			resolved BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS complaint_responses (
			seq BIGSERIAL PRIMARY KEY,
			complaint_id TEXT NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
			teacher_id TEXT NOT NULL,
			response TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS timetables (
			id TEXT PRIMARY KEY,
			branch_id TEXT NOT NULL REFERENCES branches(id),
			subject_id TEXT NOT NULL REFERENCES subjects(id),
			teacher_id TEXT NOT NULL REFERENCES teachers(id),
			day TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'class',
			date DATE,
			description TEXT,
			school_id TEXT NOT NULL REFERENCES admins(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			due_date TIMESTAMPTZ NOT NULL,
			subject_id TEXT NOT NULL REFERENCES subjects(id),
			branch_id TEXT NOT NULL REFERENCES branches(id),
			teacher_id TEXT NOT NULL REFERENCES teachers(id),
			school_id TEXT NOT NULL REFERENCES admins(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS assignment_submissions (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL,
			assignment_id TEXT NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
			student_id TEXT NOT NULL,
			file_url TEXT,
			text_body TEXT,
			submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_student_attendance_student ON student_attendance(student_id)`,
		`CREATE INDEX IF NOT EXISTS idx_timetables_branch_day ON timetables(branch_id, day)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_assignment ON assignment_submissions(assignment_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
