package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin/internal/apperr"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPrepareSubmissionAccepted(t *testing.T) {
	sub, err := PrepareSubmission(nil, "stu1", "", "my answer", now)
	require.NoError(t, err)
	assert.Equal(t, "stu1", sub.StudentID)
	assert.Equal(t, "my answer", sub.Text)
	assert.Equal(t, now, sub.SubmittedAt)
}

func TestPrepareSubmissionRequiresStudent(t *testing.T) {
	_, err := PrepareSubmission(nil, "", "https://files/x.pdf", "", now)
	assert.True(t, apperr.IsValidation(err))
}

func TestPrepareSubmissionRequiresPayload(t *testing.T) {
	_, err := PrepareSubmission(nil, "stu1", "", "", now)
	assert.True(t, apperr.IsValidation(err))
}

func TestPrepareSubmissionRejectsDuplicate(t *testing.T) {
	existing := []Submission{{ID: "sub1", StudentID: "stu1", Text: "first"}}

	_, err := PrepareSubmission(existing, "stu1", "", "second try", now)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Contains(t, err.Error(), "already submitted")
	// The original list is untouched.
	require.Len(t, existing, 1)
	assert.Equal(t, "first", existing[0].Text)
}

func TestPrepareSubmissionOtherStudentStillAllowed(t *testing.T) {
	existing := []Submission{{ID: "sub1", StudentID: "stu1", Text: "first"}}

	sub, err := PrepareSubmission(existing, "stu2", "https://files/y.pdf", "", now)
	require.NoError(t, err)
	assert.Equal(t, "stu2", sub.StudentID)
}
