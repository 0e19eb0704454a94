package complaint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin/internal/apperr"
)

func TestValidType(t *testing.T) {
	assert.True(t, ValidType(TypeComplaint))
	assert.True(t, ValidType(TypeQuery))
	assert.False(t, ValidType("feedback"))
}

func TestCreateCollectsMissingFields(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.Create(context.Background(), Complaint{Body: "wifi is down"})

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"student", "school"}, verr.Fields)
}

func TestCreateQueryNeedsSubject(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.Create(context.Background(), Complaint{
		StudentID: "stu-1",
		Body:      "what is on the midterm?",
		SchoolID:  "school-1",
		Type:      TypeQuery,
	})

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"subject"}, verr.Fields)
}

func TestRespondRequiresBody(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.Respond(context.Background(), "c-1", "t-1", "branch-1", "")

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"response"}, verr.Fields)
}
