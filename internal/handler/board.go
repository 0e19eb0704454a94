package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"schooladmin/internal/auth"
	"schooladmin/internal/complaint"
	"schooladmin/internal/notice"
)

type noticeRequest struct {
	Title      string    `json:"title" binding:"required"`
	Details    string    `json:"details" binding:"required"`
	Date       time.Time `json:"date" binding:"required"`
	TargetRole string    `json:"target_role"`
}

// audienceFor maps a token role to the notice audience it may see. Admins
// see everything.
func audienceFor(role string) string {
	switch role {
	case auth.RoleStudent:
		return notice.TargetStudent
	case auth.RoleTeacher:
		return notice.TargetTeacher
	}
	return ""
}

func registerNoticeRoutes(g *gin.RouterGroup, d Deps) {
	notices := g.Group("/notices")

	notices.POST("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		var req noticeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		n, err := d.Notices.Create(c.Request.Context(), notice.Notice{
			Title:      req.Title,
			Details:    req.Details,
			Date:       req.Date,
			SchoolID:   claims.SchoolID,
			TargetRole: req.TargetRole,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, n)
	})

	notices.GET("", func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		out, err := d.Notices.List(c.Request.Context(), claims.SchoolID, audienceFor(claims.Role))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	notices.PUT("/:id", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		var req noticeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		err := d.Notices.Update(c.Request.Context(), notice.Notice{
			ID:         c.Param("id"),
			Title:      req.Title,
			Details:    req.Details,
			Date:       req.Date,
			TargetRole: req.TargetRole,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": c.Param("id")})
	})

	notices.DELETE("/:id", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		if err := d.Notices.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	})

	notices.DELETE("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		count, err := d.Notices.DeleteAll(c.Request.Context(), claims.SchoolID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted_count": count})
	})
}

type complaintRequest struct {
	Body      string    `json:"complaint" binding:"required"`
	Type      string    `json:"type"`
	SubjectID string    `json:"subject_id"`
	Date      time.Time `json:"date"`
}

type respondRequest struct {
	Response string `json:"response" binding:"required"`
}

func registerComplaintRoutes(g *gin.RouterGroup, d Deps) {
	complaints := g.Group("/complaints")

	complaints.POST("", auth.RequireRole(auth.RoleStudent), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		var req complaintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := d.Complaints.Create(c.Request.Context(), complaint.Complaint{
			StudentID: claims.Subject,
			Body:      req.Body,
			Type:      req.Type,
			SubjectID: req.SubjectID,
			Date:      req.Date,
			SchoolID:  claims.SchoolID,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	complaints.GET("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		out, err := d.Complaints.ListBySchool(c.Request.Context(), claims.SchoolID, c.Query("type"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	complaints.GET("/mine", auth.RequireRole(auth.RoleStudent), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		out, err := d.Complaints.ListByStudent(c.Request.Context(), claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	complaints.POST("/:id/responses", auth.RequireRole(auth.RoleTeacher), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		var req respondRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		t, err := d.School.TeacherDetail(c.Request.Context(), claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		out, err := d.Complaints.Respond(c.Request.Context(), c.Param("id"), t.ID, t.BranchID, req.Response)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	complaints.POST("/:id/resolve", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		if err := d.Complaints.Resolve(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"resolved": c.Param("id")})
	})

	// Queries from the teacher's own branch.
	g.GET("/queries", auth.RequireRole(auth.RoleTeacher), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		t, err := d.School.TeacherDetail(c.Request.Context(), claims.Subject)
		if err != nil {
			respondErr(c, err)
			return
		}
		out, err := d.Complaints.ListForTeacher(c.Request.Context(), t.BranchID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
}
