package handler

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"schooladmin/internal/apperr"
	"schooladmin/internal/school"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	respondErr(c, err)
	return w.Code
}

func TestRespondErrMapping(t *testing.T) {
	assert.Equal(t, 400, statusFor(t, apperr.Validation("date")))
	assert.Equal(t, 409, statusFor(t, apperr.Conflict("slot overlaps", "tt-1")))
	assert.Equal(t, 404, statusFor(t, apperr.NotFound("student", "stu-1")))
	assert.Equal(t, 403, statusFor(t, apperr.Forbidden("other branch")))
	assert.Equal(t, 401, statusFor(t, school.ErrBadCredentials))
	assert.Equal(t, 500, statusFor(t, errors.New("boom")))
}

func TestConflictBodyCarriesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	respondErr(c, apperr.Conflict("timetable slot overlaps an existing entry", "tt-9"))

	assert.Equal(t, 409, w.Code)
	assert.Contains(t, w.Body.String(), `"conflict_id":"tt-9"`)
}
