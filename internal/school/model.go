package school

import "time"

// Admin is a school account; one admin owns one school.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	SchoolName   string    `json:"school_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Branch is an academic department+semester grouping within a school.
type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Semester  string    `json:"semester"`
	SchoolID  string    `json:"school_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Subject belongs to a branch. Sessions is the nominal scheduled-class count.
// TeacherID is empty while the subject is unassigned.
type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Sessions  int       `json:"sessions"`
	BranchID  string    `json:"branch_id"`
	SchoolID  string    `json:"school_id"`
	TeacherID string    `json:"teacher_id,omitempty"`
	Semester  string    `json:"semester,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Teacher teaches one subject of one branch.
type Teacher struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	SchoolID     string    `json:"school_id"`
	BranchID     string    `json:"branch_id"`
	SubjectID    string    `json:"subject_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Student is enrolled in one branch. Exam results are embedded.
type Student struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	RollNum      int          `json:"roll_num"`
	PasswordHash string       `json:"-"`
	BranchID     string       `json:"branch_id"`
	SchoolID     string       `json:"school_id"`
	ExamResults  []ExamResult `json:"exam_results,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ExamResult is one subject's marks for a student.
type ExamResult struct {
	SubjectID string `json:"subject_id"`
	Marks     int    `json:"marks"`
}

// UpsertExamResult replaces the marks for a subject in place, or appends a
// new result when the subject has none yet. The input slice is not mutated.
func UpsertExamResult(results []ExamResult, incoming ExamResult) []ExamResult {
	out := make([]ExamResult, len(results))
	copy(out, results)
	for i, r := range out {
		if r.SubjectID == incoming.SubjectID {
			out[i].Marks = incoming.Marks
			return out
		}
	}
	return append(out, incoming)
}
