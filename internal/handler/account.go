package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schooladmin/internal/auth"
)

type registerAdminRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	SchoolName string `json:"school_name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type studentLoginRequest struct {
	SchoolID string `json:"school_id" binding:"required"`
	RollNum  int    `json:"roll_num" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func registerAccountRoutes(g *gin.RouterGroup, d Deps) {
	issue := func(c *gin.Context, subject, role, schoolID string, account any) {
		pair, err := auth.Issue(subject, role, schoolID,
			d.Cfg.JWTIssuer, d.Cfg.JWTSigningKey, d.Cfg.AccessTTL, d.Cfg.RefreshTTL)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"account":       account,
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"expires_at":    pair.AccessExp,
		})
	}

	g.POST("/admin/register", func(c *gin.Context) {
		var req registerAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		admin, err := d.School.RegisterAdmin(c.Request.Context(), req.Name, req.Email, req.Password, req.SchoolName)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, admin)
	})

	g.POST("/admin/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		admin, err := d.School.LoginAdmin(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		// An admin account is the school.
		issue(c, admin.ID, auth.RoleAdmin, admin.ID, admin)
	})

	g.POST("/teacher/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		t, err := d.School.LoginTeacher(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		issue(c, t.ID, auth.RoleTeacher, t.SchoolID, t)
	})

	g.POST("/student/login", func(c *gin.Context) {
		var req studentLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		st, err := d.School.LoginStudent(c.Request.Context(), req.SchoolID, req.RollNum, req.Name, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		issue(c, st.ID, auth.RoleStudent, st.SchoolID, st)
	})
}
