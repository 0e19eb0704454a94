package timetable

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin/internal/apperr"
)

func validEntry() Entry {
	return Entry{
		ID:        "t1",
		BranchID:  "b1",
		SubjectID: "s1",
		TeacherID: "te1",
		Day:       "Monday",
		StartTime: "09:00",
		EndTime:   "10:00",
		Type:      TypeClass,
	}
}

func TestValidateCollectsMissingFields(t *testing.T) {
	e := Entry{Day: "Monday", StartTime: "09:00"}

	err := Validate(e)
	require.Error(t, err)

	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.ElementsMatch(t, []string{"branch", "subject", "teacher", "endTime"}, ve.Fields)
}

func TestValidateExamRequiresDate(t *testing.T) {
	e := validEntry()
	e.Type = TypeExam
	assert.True(t, apperr.IsValidation(Validate(e)))

	d := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	e.Date = &d
	assert.NoError(t, Validate(e))
}

func TestValidateClassNeedsNoDate(t *testing.T) {
	assert.NoError(t, Validate(validEntry()))
}

func TestValidateTimeOrdering(t *testing.T) {
	e := validEntry()
	e.StartTime, e.EndTime = "10:00", "10:00"
	assert.True(t, apperr.IsValidation(Validate(e)))

	e.StartTime, e.EndTime = "11:00", "10:00"
	assert.True(t, apperr.IsValidation(Validate(e)))
}

func TestValidateRejectsUnknownDay(t *testing.T) {
	e := validEntry()
	e.Day = "Sunday"
	assert.True(t, apperr.IsValidation(Validate(e)))
}

func TestFindConflictOverlap(t *testing.T) {
	existing := []Entry{{
		ID: "other", BranchID: "b1", Day: "Monday", StartTime: "09:00", EndTime: "10:00",
	}}

	tests := []struct {
		name       string
		start, end string
		conflict   bool
	}{
		{"touching boundary after", "10:00", "11:00", false},
		{"touching boundary before", "08:00", "09:00", false},
		{"straddles end", "09:30", "10:30", true},
		{"straddles start", "08:30", "09:30", true},
		{"contained", "09:15", "09:45", true},
		{"containing", "08:00", "11:00", true},
		{"identical", "09:00", "10:00", true},
		{"disjoint", "13:00", "14:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validEntry()
			c.ID = "candidate"
			c.StartTime, c.EndTime = tt.start, tt.end
			hit := FindConflict(c, existing)
			if tt.conflict {
				require.NotNil(t, hit)
				assert.Equal(t, "other", hit.ID)
			} else {
				assert.Nil(t, hit)
			}
		})
	}
}

func TestFindConflictSkipsOtherBranchOrDay(t *testing.T) {
	c := validEntry()
	existing := []Entry{
		{ID: "x1", BranchID: "b2", Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
		{ID: "x2", BranchID: "b1", Day: "Tuesday", StartTime: "09:00", EndTime: "10:00"},
	}
	assert.Nil(t, FindConflict(c, existing))
}

func TestFindConflictExcludesSelfOnEdit(t *testing.T) {
	c := validEntry()
	existing := []Entry{{
		ID: c.ID, BranchID: c.BranchID, Day: c.Day, StartTime: c.StartTime, EndTime: c.EndTime,
	}}
	assert.Nil(t, FindConflict(c, existing))
}
