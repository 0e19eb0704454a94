package timetable

import (
	"time"

	"schooladmin/internal/apperr"
)

// Entry types.
const (
	TypeClass = "class"
	TypeExam  = "exam"
)

// Teaching days. Sunday is not schedulable.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Entry is one slot on a branch's weekly timetable. StartTime and EndTime are
// zero-padded "HH:MM" strings, so lexicographic comparison is time order.
// Date is required only for exams.
type Entry struct {
	ID          string     `json:"id"`
	BranchID    string     `json:"branch_id"`
	SubjectID   string     `json:"subject_id"`
	TeacherID   string     `json:"teacher_id"`
	Day         string     `json:"day"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Type        string     `json:"type"`
	Date        *time.Time `json:"date,omitempty"`
	Description string     `json:"description,omitempty"`
	SchoolID    string     `json:"school_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Validate checks field completeness, the exam-date requirement and time
// ordering. Missing fields are reported collectively in one error.
func Validate(e Entry) error {
	var missing []string
	if e.BranchID == "" {
		missing = append(missing, "branch")
	}
	if e.SubjectID == "" {
		missing = append(missing, "subject")
	}
	if e.TeacherID == "" {
		missing = append(missing, "teacher")
	}
	if e.Day == "" {
		missing = append(missing, "day")
	}
	if e.StartTime == "" {
		missing = append(missing, "startTime")
	}
	if e.EndTime == "" {
		missing = append(missing, "endTime")
	}
	if len(missing) > 0 {
		return apperr.Validation(missing...)
	}

	if !validDay(e.Day) {
		return apperr.Validation("day")
	}
	if e.Type == TypeExam && (e.Date == nil || e.Date.IsZero()) {
		return apperr.Validation("date")
	}
	if e.StartTime >= e.EndTime {
		return apperr.Validation("startTime", "endTime")
	}
	return nil
}

// FindConflict returns the first existing entry on the same branch and day
// whose [start,end) interval overlaps the candidate's, skipping the candidate
// itself so edits do not collide with their own slot. Touching boundaries do
// not conflict.
func FindConflict(candidate Entry, existing []Entry) *Entry {
	for i := range existing {
		e := existing[i]
		if e.ID == candidate.ID {
			continue
		}
		if e.BranchID != candidate.BranchID || e.Day != candidate.Day {
			continue
		}
		if candidate.StartTime < e.EndTime && candidate.EndTime > e.StartTime {
			return &existing[i]
		}
	}
	return nil
}

func validDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}
