package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin/internal/apperr"
)

func TestReconcileReplacesStatusInPlace(t *testing.T) {
	records := []Record{
		{SubjectID: "math", Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "math", Date: day("2024-01-02"), Status: StatusAbsent},
	}

	out := Reconcile(records, Record{SubjectID: "math", Date: day("2024-01-01"), Status: StatusAbsent})

	require.Len(t, out, 2)
	assert.Equal(t, StatusAbsent, out[0].Status)
	assert.Equal(t, day("2024-01-01"), out[0].Date)
	assert.Equal(t, StatusAbsent, out[1].Status)
}

func TestReconcileAppendsNewDate(t *testing.T) {
	records := []Record{
		{SubjectID: "math", Date: day("2024-01-01"), Status: StatusPresent},
	}

	out := Reconcile(records, Record{SubjectID: "math", Date: day("2024-01-02"), Status: StatusAbsent})

	require.Len(t, out, 2)
	assert.Equal(t, day("2024-01-02"), out[1].Date)
}

func TestReconcileMatchesOnSubjectAndDate(t *testing.T) {
	// A mark for another subject on the same day must not overwrite.
	records := []Record{
		{SubjectID: "math", Date: day("2024-01-01"), Status: StatusPresent},
	}

	out := Reconcile(records, Record{SubjectID: "physics", Date: day("2024-01-01"), Status: StatusAbsent})

	require.Len(t, out, 2)
	assert.Equal(t, StatusPresent, out[0].Status)
	assert.Equal(t, "physics", out[1].SubjectID)
}

func TestReconcileIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 1, 19, 30, 0, 0, time.UTC)
	records := []Record{{SubjectID: "math", Date: morning, Status: StatusPresent}}

	out := Reconcile(records, Record{SubjectID: "math", Date: evening, Status: StatusAbsent})

	require.Len(t, out, 1)
	assert.Equal(t, StatusAbsent, out[0].Status)
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	records := []Record{{SubjectID: "math", Date: day("2024-01-01"), Status: StatusPresent}}

	_ = Reconcile(records, Record{SubjectID: "math", Date: day("2024-01-01"), Status: StatusAbsent})

	assert.Equal(t, StatusPresent, records[0].Status)
}

func TestRemoveSubjectIsIdempotent(t *testing.T) {
	records := []Record{
		{SubjectID: "math", Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "physics", Date: day("2024-01-01"), Status: StatusAbsent},
		{SubjectID: "math", Date: day("2024-01-02"), Status: StatusAbsent},
	}

	once := RemoveSubject(records, "math")
	twice := RemoveSubject(once, "math")

	require.Len(t, once, 1)
	assert.Equal(t, "physics", once[0].SubjectID)
	assert.Equal(t, once, twice)

	assert.Empty(t, RemoveSubject(nil, "math"))
}

func TestReconcileByDate(t *testing.T) {
	records := []DayRecord{{Date: day("2024-01-01"), Status: StatusPresent}}

	out := ReconcileByDate(records, day("2024-01-01"), StatusAbsent)
	require.Len(t, out, 1)
	assert.Equal(t, StatusAbsent, out[0].Status)

	out = ReconcileByDate(out, day("2024-01-02"), StatusPresent)
	require.Len(t, out, 2)
	assert.Equal(t, StatusPresent, out[1].Status)
}

func TestMarkTeacherNamesOnlyInvalidFields(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.MarkTeacher(context.Background(), "t-1", day("2024-01-01"), "Late")
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"status"}, verr.Fields)

	_, err = svc.MarkTeacher(context.Background(), "t-1", time.Time{}, StatusPresent)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"date"}, verr.Fields)

	_, err = svc.MarkTeacher(context.Background(), "t-1", time.Time{}, "")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"date", "status"}, verr.Fields)
}
