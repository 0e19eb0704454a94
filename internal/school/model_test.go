package school

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertExamResultReplacesInPlace(t *testing.T) {
	results := []ExamResult{
		{SubjectID: "math", Marks: 40},
		{SubjectID: "physics", Marks: 55},
	}

	out := UpsertExamResult(results, ExamResult{SubjectID: "math", Marks: 72})

	require.Len(t, out, 2)
	assert.Equal(t, 72, out[0].Marks)
	assert.Equal(t, "math", out[0].SubjectID)
	// Input untouched.
	assert.Equal(t, 40, results[0].Marks)
}

func TestUpsertExamResultAppendsNewSubject(t *testing.T) {
	results := []ExamResult{{SubjectID: "math", Marks: 40}}

	out := UpsertExamResult(results, ExamResult{SubjectID: "chemistry", Marks: 61})

	require.Len(t, out, 2)
	assert.Equal(t, "chemistry", out[1].SubjectID)
}

func TestUpsertExamResultEmptyList(t *testing.T) {
	out := UpsertExamResult(nil, ExamResult{SubjectID: "math", Marks: 90})
	require.Len(t, out, 1)
	assert.Equal(t, 90, out[0].Marks)
}
