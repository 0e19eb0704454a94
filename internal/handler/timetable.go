package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"schooladmin/internal/auth"
	"schooladmin/internal/timetable"
)

type timetableRequest struct {
	BranchID    string     `json:"branch_id" binding:"required"`
	SubjectID   string     `json:"subject_id" binding:"required"`
	TeacherID   string     `json:"teacher_id" binding:"required"`
	Day         string     `json:"day" binding:"required"`
	StartTime   string     `json:"start_time" binding:"required"`
	EndTime     string     `json:"end_time" binding:"required"`
	Type        string     `json:"type"`
	Date        *time.Time `json:"date"`
	Description string     `json:"description"`
}

func (req timetableRequest) entry(schoolID string) timetable.Entry {
	return timetable.Entry{
		BranchID:    req.BranchID,
		SubjectID:   req.SubjectID,
		TeacherID:   req.TeacherID,
		Day:         req.Day,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Type:        req.Type,
		Date:        req.Date,
		Description: req.Description,
		SchoolID:    schoolID,
	}
}

func registerTimetableRoutes(g *gin.RouterGroup, d Deps) {
	timetables := g.Group("/timetables")

	timetables.POST("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		var req timetableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		e, err := d.Timetables.Create(c.Request.Context(), req.entry(claims.SchoolID))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, e)
	})

	timetables.GET("", func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		out, err := d.Timetables.List(c.Request.Context(), timetable.Filter{
			SchoolID:  claims.SchoolID,
			BranchID:  c.Query("branch_id"),
			TeacherID: c.Query("teacher_id"),
			Type:      c.Query("type"),
			Day:       c.Query("day"),
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	timetables.PUT("/:id", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		var req timetableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		e, err := d.Timetables.Update(c.Request.Context(), c.Param("id"), req.entry(claims.SchoolID))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, e)
	})

	timetables.DELETE("/:id", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		if err := d.Timetables.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	})
}
