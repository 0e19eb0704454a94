package assignment

import (
	"time"

	"schooladmin/internal/apperr"
)

// Submission is one student's answer to an assignment. Exactly one of
// FileURL/Text may be empty; never both.
type Submission struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	FileURL     string    `json:"file_url,omitempty"`
	Text        string    `json:"text,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Assignment is a piece of work posted by a teacher. Submissions are embedded
// and share the assignment's lifecycle.
type Assignment struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     time.Time    `json:"due_date"`
	SubjectID   string       `json:"subject_id"`
	BranchID    string       `json:"branch_id"`
	TeacherID   string       `json:"teacher_id"`
	SchoolID    string       `json:"school_id"`
	Submissions []Submission `json:"submissions"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PrepareSubmission validates a submission request against the existing list
// and returns the record to append. A student who already submitted is
// rejected; the existing list is never reordered or overwritten.
func PrepareSubmission(existing []Submission, studentID, fileURL, text string, now time.Time) (Submission, error) {
	if studentID == "" {
		return Submission{}, apperr.Validation("student")
	}
	if fileURL == "" && text == "" {
		return Submission{}, apperr.Validation("file", "text")
	}
	for _, sub := range existing {
		if sub.StudentID == studentID {
			return Submission{}, apperr.Conflict("already submitted", sub.ID)
		}
	}
	return Submission{
		StudentID:   studentID,
		FileURL:     fileURL,
		Text:        text,
		SubmittedAt: now.UTC(),
	}, nil
}
