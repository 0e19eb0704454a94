package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAggregateGroupsBySubject(t *testing.T) {
	records := []Record{
		{SubjectID: "s1", SubjectName: "Math", Sessions: 40, Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "s1", SubjectName: "Math", Sessions: 40, Date: day("2024-01-02"), Status: StatusAbsent},
	}

	groups := Aggregate(records)
	require.Len(t, groups, 1)
	assert.Equal(t, "Math", groups[0].SubjectName)
	assert.Equal(t, 1, groups[0].Present)
	assert.Equal(t, 1, groups[0].Absent)
	assert.Equal(t, 50.0, groups[0].Percentage())
	assert.Len(t, groups[0].Records, 2)
}

func TestAggregateKeepsSameNameSubjectsApart(t *testing.T) {
	// Two subjects sharing a display name must not merge.
	records := []Record{
		{SubjectID: "s1", SubjectName: "Math", Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "s2", SubjectName: "Math", Date: day("2024-01-01"), Status: StatusAbsent},
	}

	groups := Aggregate(records)
	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].Present)
	assert.Equal(t, 1, groups[1].Absent)
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	records := []Record{
		{SubjectID: "s2", SubjectName: "Physics", Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "s1", SubjectName: "Math", Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "s2", SubjectName: "Physics", Date: day("2024-01-02"), Status: StatusAbsent},
	}

	groups := Aggregate(records)
	require.Len(t, groups, 2)
	assert.Equal(t, "s2", groups[0].SubjectID)
	assert.Equal(t, "s1", groups[1].SubjectID)
}

func TestAggregateIgnoresUnknownStatus(t *testing.T) {
	records := []Record{
		{SubjectID: "s1", SubjectName: "Math", Date: day("2024-01-01"), Status: "Excused"},
		{SubjectID: "s1", SubjectName: "Math", Date: day("2024-01-02"), Status: StatusPresent},
	}

	groups := Aggregate(records)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].Present)
	assert.Equal(t, 0, groups[0].Absent)
	// The unknown-status record is still carried in the grouping.
	assert.Len(t, groups[0].Records, 2)
	assert.Equal(t, 100.0, groups[0].Percentage())
}

func TestAggregatePartitionsRecords(t *testing.T) {
	records := []Record{
		{SubjectID: "s1", Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "s2", Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "s1", Date: day("2024-01-02"), Status: StatusAbsent},
		{SubjectID: "s3", Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "s2", Date: day("2024-01-02"), Status: "Holiday"},
	}

	groups := Aggregate(records)

	totalPresent, totalRecords := 0, 0
	for _, g := range groups {
		totalPresent += g.Present
		totalRecords += len(g.Records)
	}
	assert.Equal(t, 3, totalPresent)
	assert.Equal(t, len(records), totalRecords)
}

func TestPercentageZeroRecords(t *testing.T) {
	var s SubjectSummary
	assert.Equal(t, 0.0, s.Percentage())
	assert.Equal(t, 0.0, Overall(nil))
	assert.Equal(t, 0.0, Overall([]Record{}))
}

func TestPercentageRoundsToTwoDecimals(t *testing.T) {
	records := []Record{
		{SubjectID: "s1", Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "s1", Date: day("2024-01-02"), Status: StatusAbsent},
		{SubjectID: "s1", Date: day("2024-01-03"), Status: StatusAbsent},
	}
	groups := Aggregate(records)
	require.Len(t, groups, 1)
	assert.Equal(t, 33.33, groups[0].Percentage())
	assert.Equal(t, 33.33, Overall(records))
}

func TestOverallUsesFullRecordList(t *testing.T) {
	// Overall is present/total over all records, not an average of per-subject
	// percentages.
	records := []Record{
		{SubjectID: "s1", Date: day("2024-01-01"), Status: StatusPresent},
		{SubjectID: "s1", Date: day("2024-01-02"), Status: StatusPresent},
		{SubjectID: "s1", Date: day("2024-01-03"), Status: StatusPresent},
		{SubjectID: "s2", Date: day("2024-01-01"), Status: StatusAbsent},
	}
	assert.Equal(t, 75.0, Overall(records))
}
