package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"schooladmin/internal/apperr"
	"schooladmin/internal/assignment"
	"schooladmin/internal/attendance"
	"schooladmin/internal/auth"
	"schooladmin/internal/complaint"
	"schooladmin/internal/config"
	"schooladmin/internal/notice"
	"schooladmin/internal/school"
	"schooladmin/internal/timetable"
	"schooladmin/internal/upload"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Cfg         config.App
	School      *school.Service
	Attendance  *attendance.Service
	Timetables  *timetable.Service
	Assignments *assignment.Service
	Notices     *notice.Service
	Complaints  *complaint.Service
	Uploads     *upload.Client
}

// Register mounts all routes under /api/v1. Authentication is a bearer JWT;
// the token's school claim scopes every request to one school.
func Register(r *gin.Engine, d Deps) {
	v1 := r.Group("/api/v1")

	registerAccountRoutes(v1, d)

	authed := v1.Group("")
	authed.Use(auth.Bearer(d.Cfg.JWTSigningKey, d.Cfg.JWTIssuer))

	registerBranchRoutes(authed, d)
	registerSubjectRoutes(authed, d)
	registerStudentRoutes(authed, d)
	registerTeacherRoutes(authed, d)
	registerNoticeRoutes(authed, d)
	registerComplaintRoutes(authed, d)
	registerTimetableRoutes(authed, d)
	registerAssignmentRoutes(authed, d)
}

// respondErr maps domain errors onto HTTP statuses. Anything unrecognized is
// a 500 and gets logged; the body stays generic.
func respondErr(c *gin.Context, err error) {
	var conflict *apperr.ConflictError
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		body := gin.H{"error": conflict.Message}
		if conflict.ID != "" {
			body["conflict_id"] = conflict.ID
		}
		c.JSON(http.StatusConflict, body)
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, school.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		log.Printf("handler: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// claimsOrAbort returns the token claims, sending a 401 when absent.
func claimsOrAbort(c *gin.Context) (auth.Claims, bool) {
	claims, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
	}
	return claims, ok
}
