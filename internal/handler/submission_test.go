package handler

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartContext(t *testing.T, withFile bool) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("text", "my answer"))
	if withFile {
		part, err := w.CreateFormFile("file", "essay.pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 stub"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("POST", "/", &body)
	c.Request.Header.Set("Content-Type", w.FormDataContentType())
	return c, rec
}

func TestReadSubmissionWithoutFileStorage(t *testing.T) {
	c, rec := multipartContext(t, true)

	fileURL, text, ok := readSubmission(c, nil, 10<<20)

	assert.False(t, ok)
	assert.Equal(t, 503, rec.Code)
	assert.Empty(t, fileURL)
	assert.Empty(t, text)
}

func TestReadSubmissionTextOnlyNeedsNoFileStorage(t *testing.T) {
	c, rec := multipartContext(t, false)

	fileURL, text, ok := readSubmission(c, nil, 10<<20)

	assert.True(t, ok)
	assert.Equal(t, 200, rec.Code)
	assert.Empty(t, fileURL)
	assert.Equal(t, "my answer", text)
}
