package notice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin/internal/apperr"
)

func TestValidTarget(t *testing.T) {
	assert.True(t, ValidTarget(TargetAll))
	assert.True(t, ValidTarget(TargetStudent))
	assert.True(t, ValidTarget(TargetTeacher))
	assert.False(t, ValidTarget("Parent"))
	assert.False(t, ValidTarget(""))
}

func TestCreateCollectsMissingFields(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.Create(context.Background(), Notice{Title: "Sports day"})

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"details", "date", "school"}, verr.Fields)
}

func TestCreateRejectsUnknownTarget(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.Create(context.Background(), Notice{
		Title:      "Sports day",
		Details:    "Ground 2, 9am",
		Date:       time.Now(),
		SchoolID:   "school-1",
		TargetRole: "Janitor",
	})

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"targetRole"}, verr.Fields)
}

func TestTargetOrDefault(t *testing.T) {
	// Empty falls back to All in both Create and Update, so an update
	// without an audience never hides the notice from students or teachers.
	target, ok := targetOrDefault("")
	assert.True(t, ok)
	assert.Equal(t, TargetAll, target)

	target, ok = targetOrDefault(TargetStudent)
	assert.True(t, ok)
	assert.Equal(t, TargetStudent, target)

	_, ok = targetOrDefault("Janitor")
	assert.False(t, ok)
}

func TestUpdateRejectsUnknownTarget(t *testing.T) {
	svc := NewService(nil, nil)

	err := svc.Update(context.Background(), Notice{
		ID:         "n-1",
		Title:      "Sports day",
		Details:    "Ground 2, 9am",
		Date:       time.Now(),
		TargetRole: "Janitor",
	})

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"targetRole"}, verr.Fields)
}
