package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SorryIWinxX/webmanager/internal/service"
)

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) addUser(c *gin.Context) {
	var input service.AddUserInput
	if !s.bindJSON(c, &input) {
		return
	}
	result, err := s.users.Add(c.Request.Context(), input)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.users.Delete(c.Request.Context(), id); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user deleted"})
}

type changePasswordPayload struct {
	Password string `json:"password" binding:"required"`
}

func (s *Server) changePassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var payload changePasswordPayload
	if !s.bindJSON(c, &payload) {
		return
	}
	if err := s.users.ChangePassword(c.Request.Context(), id, payload.Password); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password changed"})
}

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var payload loginPayload
	if !s.bindJSON(c, &payload) {
		return
	}
	user, err := s.auth.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "login successful",
		"user":    user,
	})
}

func (s *Server) listReporters(c *gin.Context) {
	reporters, err := s.reporters.List(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, reporters)
}

type createReporterPayload struct {
	Cedula        string `json:"cedula"`
	WorkstationID int    `json:"workstationId"`
}

func (s *Server) createReporter(c *gin.Context) {
	var payload createReporterPayload
	if !s.bindJSON(c, &payload) {
		return
	}
	reporter, err := s.reporters.Create(c.Request.Context(), payload.Cedula, payload.WorkstationID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reporter)
}

func (s *Server) deleteReporter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.reporters.Delete(c.Request.Context(), id); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "reporter deleted"})
}

func (s *Server) runSync(c *gin.Context) {
	c.JSON(http.StatusOK, s.sync.SyncFromSAP(c.Request.Context()))
}
