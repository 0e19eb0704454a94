package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schooladmin/internal/auth"
	"schooladmin/internal/school"
)

type createBranchRequest struct {
	Name     string `json:"name" binding:"required"`
	Semester string `json:"semester" binding:"required"`
}

func registerBranchRoutes(g *gin.RouterGroup, d Deps) {
	branches := g.Group("/branches")

	branches.POST("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		var req createBranchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		b, err := d.School.CreateBranch(c.Request.Context(), req.Name, req.Semester, claims.SchoolID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, b)
	})

	branches.GET("", func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		out, err := d.School.ListBranches(c.Request.Context(), claims.SchoolID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	branches.GET("/:id", func(c *gin.Context) {
		b, err := d.School.BranchDetail(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	})

	branches.GET("/:id/students", func(c *gin.Context) {
		out, err := d.School.BranchStudents(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	branches.GET("/:id/subjects", func(c *gin.Context) {
		out, err := d.School.BranchSubjects(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	branches.GET("/:id/subjects/free", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		out, err := d.School.FreeSubjects(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	branches.DELETE("/:id/students", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		count, err := d.School.DeleteBranchStudents(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted_count": count})
	})

	branches.DELETE("/:id/teachers", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		count, err := d.School.DeleteBranchTeachers(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted_count": count})
	})

	branches.DELETE("/:id/subjects", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		count, err := d.School.DeleteBranchSubjects(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted_count": count})
	})

	branches.DELETE("/:id", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		if err := d.School.DeleteBranch(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	})

	branches.DELETE("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		count, err := d.School.DeleteBranches(c.Request.Context(), claims.SchoolID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted_count": count})
	})
}

type createSubjectsRequest struct {
	BranchID string `json:"branch_id" binding:"required"`
	Subjects []struct {
		Name     string `json:"name" binding:"required"`
		Code     string `json:"code" binding:"required"`
		Sessions int    `json:"sessions"`
	} `json:"subjects" binding:"required,dive"`
}

func registerSubjectRoutes(g *gin.RouterGroup, d Deps) {
	subjects := g.Group("/subjects")

	subjects.POST("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		var req createSubjectsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		batch := make([]school.Subject, 0, len(req.Subjects))
		for _, s := range req.Subjects {
			batch = append(batch, school.Subject{
				Name:     s.Name,
				Code:     s.Code,
				Sessions: s.Sessions,
				BranchID: req.BranchID,
				SchoolID: claims.SchoolID,
			})
		}
		out, err := d.School.CreateSubjects(c.Request.Context(), batch)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	subjects.GET("", func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		out, err := d.School.ListSubjects(c.Request.Context(), claims.SchoolID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	subjects.GET("/:id", func(c *gin.Context) {
		s, err := d.School.SubjectDetail(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	})

	subjects.DELETE("/:id", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		ctx := c.Request.Context()
		// Attendance goes first so cached summaries are invalidated.
		if err := d.Attendance.ClearSubjectForAll(ctx, c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		if err := d.School.DeleteSubject(ctx, c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	})

	subjects.DELETE("/:id/attendance", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		if err := d.Attendance.ClearSubjectForAll(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": c.Param("id")})
	})

	subjects.DELETE("", auth.RequireRole(auth.RoleAdmin), func(c *gin.Context) {
		claims, ok := claimsOrAbort(c)
		if !ok {
			return
		}
		count, err := d.School.DeleteSubjects(c.Request.Context(), claims.SchoolID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted_count": count})
	})
}
