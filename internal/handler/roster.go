package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"schooladmin/internal/auth"
	"schooladmin/internal/school"
)

type registerStudentRequest struct {
	Name     string `json:"name" binding:"required"`
	RollNum  int    `json:"roll_num" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	BranchID string `json:"branch_id" binding:"required"`
}

type updateStudentRequest struct {
	Name     string `json:"name" binding:"required"`
	RollNum  int    `json:"roll_num" binding:"required"`
	BranchID string `json:"branch_id" binding:"required"`
}

type markAttendanceRequest struct {
	SubjectID string    `json:"subject_id" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	Status    string    `json:"status" binding:"required"`
}

type examResultRequest struct {
	SubjectID string `json:"subject_id" binding:"required"`
	Marks     int    `json:"marks"`
}

func registerStudentRoutes(g *gin.RouterGroup, d Deps) {
	students := g.Group("/students")

	students.POST("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		var req registerStudentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		st, err := d.School.RegisterStudent(c.Request.Context(), school.Student{
			Name:     req.Name,
			RollNum:  req.RollNum,
			BranchID: req.BranchID,
			SchoolID: claims.SchoolID,
		}, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, st)
	})

	students.GET("", auth.RequireRole(auth.RoleAdmin, auth.RoleTeacher), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		out, err := d.School.ListStudents(c.Request.Context(), claims.SchoolID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	students.GET("/:id", func(c *gin.Context) {
		st, err := d.School.StudentDetail(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	})

	students.PUT("/:id", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		var req updateStudentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		err := d.School.UpdateStudent(c.Request.Context(), school.Student{
			ID:       c.Param("id"),
			Name:     req.Name,
			RollNum:  req.RollNum,
			BranchID: req.BranchID,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": c.Param("id")})
	})

	students.DELETE("/:id", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		if err := d.School.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	})

	students.DELETE("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		count, err := d.School.DeleteStudents(c.Request.Context(), claims.SchoolID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted_count": count})
	})

	// Attendance rides under the student resource.
	students.POST("/:id/attendance", auth.RequireRole(auth.RoleAdmin, auth.RoleTeacher), func(c *gin.Context) {
		var req markAttendanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		records, err := d.Attendance.Mark(c.Request.Context(), c.Param("id"), req.SubjectID, req.Date, req.Status)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"attendance": records})
	})

	students.GET("/:id/attendance/summary", func(c *gin.Context) {
		summary, err := d.Attendance.Summarize(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	students.DELETE("/:id/attendance", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		if err := d.Attendance.ClearAll(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": c.Param("id")})
	})

	students.DELETE("/:id/attendance/:subjectID", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		if err := d.Attendance.ClearSubject(c.Request.Context(), c.Param("id"), c.Param("subjectID")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": c.Param("subjectID")})
	})

	students.POST("/:id/exams", auth.RequireRole(auth.RoleAdmin, auth.RoleTeacher), func(c *gin.Context) {
		var req examResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		results, err := d.School.UpsertExam(c.Request.Context(), c.Param("id"), req.SubjectID, req.Marks)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"exam_results": results})
	})

	// School-wide reset, used when an academic year is archived.
	g.DELETE("/attendance", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		if err := d.Attendance.ClearSchool(c.Request.Context(), claims.SchoolID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": claims.SchoolID})
	})
}

type registerTeacherRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	BranchID  string `json:"branch_id" binding:"required"`
	SubjectID string `json:"subject_id"`
}

type assignSubjectRequest struct {
	SubjectID string `json:"subject_id" binding:"required"`
}

type teacherAttendanceRequest struct {
	Date   time.Time `json:"date" binding:"required"`
	Status string    `json:"status" binding:"required"`
}

func registerTeacherRoutes(g *gin.RouterGroup, d Deps) {
	teachers := g.Group("/teachers")

	teachers.POST("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		var req registerTeacherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		t, err := d.School.RegisterTeacher(c.Request.Context(), school.Teacher{
			Name:      req.Name,
			Email:     req.Email,
			BranchID:  req.BranchID,
			SubjectID: req.SubjectID,
			SchoolID:  claims.SchoolID,
		}, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	})

	teachers.GET("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		out, err := d.School.ListTeachers(c.Request.Context(), claims.SchoolID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	teachers.GET("/:id", func(c *gin.Context) {
		t, err := d.School.TeacherDetail(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	teachers.PUT("/:id/subject", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		var req assignSubjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := d.School.AssignTeacherSubject(c.Request.Context(), c.Param("id"), req.SubjectID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"teacher": c.Param("id"), "subject": req.SubjectID})
	})

	teachers.DELETE("/:id", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		if err := d.School.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	})

	teachers.DELETE("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		count, err := d.School.DeleteTeachers(c.Request.Context(), claims.SchoolID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted_count": count})
	})

	// Teachers mark their own attendance; admins can mark anyone's.
	teachers.POST("/:id/attendance", auth.RequireRole(auth.RoleAdmin, auth.RoleTeacher), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		if claims.Role == auth.RoleTeacher && claims.Subject != c.Param("id") {
			c.JSON(http.StatusForbidden, gin.H{"error": "teachers may only mark their own attendance"})
			return
		}
		var req teacherAttendanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		records, err := d.Attendance.MarkTeacher(c.Request.Context(), c.Param("id"), req.Date, req.Status)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"attendance": records})
	})
}
