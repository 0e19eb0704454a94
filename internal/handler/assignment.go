package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"schooladmin/internal/assignment"
	"schooladmin/internal/auth"
	"schooladmin/internal/upload"
)

type createAssignmentRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	SubjectID   string    `json:"subject_id" binding:"required"`
	BranchID    string    `json:"branch_id" binding:"required"`
}

func registerAssignmentRoutes(g *gin.RouterGroup, d Deps) {
	assignments := g.Group("/assignments")

	assignments.POST("", auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		var req createAssignmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a, err := d.Assignments.Create(c.Request.Context(), assignment.Assignment{
			Title:       req.Title,
			Description: req.Description,
			DueDate:     req.DueDate,
			SubjectID:   req.SubjectID,
			BranchID:    req.BranchID,
			TeacherID:   claims.Subject,
			SchoolID:    claims.SchoolID,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	})

	assignments.GET("", func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		out, err := d.Assignments.List(c.Request.Context(), assignment.Filter{
			SchoolID:  claims.SchoolID,
			BranchID:  c.Query("branch_id"),
			SubjectID: c.Query("subject_id"),
			TeacherID: c.Query("teacher_id"),
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	assignments.GET("/:id/submissions", auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin), func(c *gin.Context) {
		out, err := d.Assignments.Submissions(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	// Submissions arrive as multipart (file and/or text field). The file is
	// pushed to Cloudinary and only its URL is stored.
	assignments.POST("/:id/submissions", auth.RequireRole(auth.RoleStudent), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		fileURL, text, ok := readSubmission(c, d.Uploads, d.Cfg.MaxUploadBytes)
		if !ok {
			return
		}
		sub, err := d.Assignments.Submit(c.Request.Context(), c.Param("id"), claims.Subject, fileURL, text)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, sub)
	})

	assignments.DELETE("/:id", auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin), func(c *gin.Context) {
		if err := d.Assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	})
}

// readSubmission extracts the optional text field and uploads the optional
// file, responding with the error itself when something is wrong.
func readSubmission(c *gin.Context, uploads *upload.Client, maxBytes int64) (fileURL, text string, ok bool) {
	text = c.PostForm("text")

	fh, err := c.FormFile("file")
	if err != nil {
		// Text-only submissions carry no file part.
		return "", text, true
	}
	if uploads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file storage not configured"})
		return "", "", false
	}
	if fh.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return "", "", false
	}
	if !upload.AllowedFile(fh.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file type not allowed"})
		return "", "", false
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return "", "", false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return "", "", false
	}

	result, err := uploads.UploadBytes(data, fh.Filename)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "file upload failed"})
		return "", "", false
	}
	return result.SecureURL, text, true
}
