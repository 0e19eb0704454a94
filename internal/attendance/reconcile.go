package attendance

import "time"

// Reconcile applies upsert-by-date semantics to a student's record list: a
// record matching the incoming (subject, calendar day) has its status replaced
// in place, otherwise the record is appended. Matching ignores the time of
// day. The input slice is not mutated.
func Reconcile(records []Record, incoming Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	for i, rec := range out {
		if rec.SubjectID == incoming.SubjectID && sameDay(rec.Date, incoming.Date) {
			out[i].Status = incoming.Status
			return out
		}
	}
	return append(out, incoming)
}

// RemoveSubject drops every record for the given subject, leaving the rest in
// order. Removing an absent subject is a no-op.
func RemoveSubject(records []Record, subjectID string) []Record {
	out := records[:0:0]
	for _, rec := range records {
		if rec.SubjectID != subjectID {
			out = append(out, rec)
		}
	}
	return out
}

// DayRecord is a dated status without a subject dimension, used for teacher
// self-attendance.
type DayRecord struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}

// ReconcileByDate upserts a teacher's attendance for one calendar day.
func ReconcileByDate(records []DayRecord, date time.Time, status string) []DayRecord {
	out := make([]DayRecord, len(records))
	copy(out, records)
	for i, rec := range out {
		if sameDay(rec.Date, date) {
			out[i].Status = status
			return out
		}
	}
	return append(out, DayRecord{Date: date, Status: status})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
