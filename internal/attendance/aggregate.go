package attendance

import (
	"math"
	"time"
)

// Attendance statuses. Records carrying any other value are kept but counted
// neither present nor absent.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// Record is one attendance mark for a student on a calendar day. SubjectName
// and Sessions are denormalized from the subject so summaries can be built
// without extra lookups; Sessions is the nominal scheduled-class count, not
// the number of recorded marks.
type Record struct {
	SubjectID   string    `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	Sessions    int       `json:"sessions"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
}

// SubjectSummary is the derived per-subject grouping. Never persisted;
// recomputed on every read.
type SubjectSummary struct {
	SubjectID   string   `json:"subject_id"`
	SubjectName string   `json:"subject_name"`
	Sessions    int      `json:"sessions"`
	Present     int      `json:"present"`
	Absent      int      `json:"absent"`
	Records     []Record `json:"records"`
}

// Percentage returns present over observed records as a percentage rounded to
// two decimals. Zero observed records yields 0, never NaN.
func (s SubjectSummary) Percentage() float64 {
	return percentage(s.Present, s.Present+s.Absent)
}

// Aggregate groups records by subject, preserving the order in which each
// subject first appears. Grouping is keyed on subject id; two subjects that
// share a display name stay separate.
func Aggregate(records []Record) []SubjectSummary {
	index := make(map[string]int)
	var out []SubjectSummary
	for _, rec := range records {
		i, ok := index[rec.SubjectID]
		if !ok {
			i = len(out)
			index[rec.SubjectID] = i
			out = append(out, SubjectSummary{
				SubjectID:   rec.SubjectID,
				SubjectName: rec.SubjectName,
				Sessions:    rec.Sessions,
			})
		}
		switch rec.Status {
		case StatusPresent:
			out[i].Present++
		case StatusAbsent:
			out[i].Absent++
		}
		out[i].Records = append(out[i].Records, rec)
	}
	return out
}

// Overall returns the percentage of Present marks over the full unfiltered
// record list, not a per-subject average.
func Overall(records []Record) float64 {
	present := 0
	for _, rec := range records {
		if rec.Status == StatusPresent {
			present++
		}
	}
	return percentage(present, len(records))
}

func percentage(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(present) / float64(total) * 100
	if math.IsNaN(p) {
		return 0
	}
	return math.Round(p*100) / 100
}
