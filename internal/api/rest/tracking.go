package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hospicore/biomedtrack/internal/auth"
)

func (s *Server) listTracking(c *gin.Context) {
	session := auth.SessionFrom(c)

	entries, err := s.lm.Storage().ListTracking(c.Request.Context(), session.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

type addTrackingRequest struct {
	EquipmentID int64 `json:"equipo_id" binding:"required"`
}

func (s *Server) addTracking(c *gin.Context) {
	var req addTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	session := auth.SessionFrom(c)
	id, err := s.lm.Storage().AddTracking(c.Request.Context(), session.UserID, req.EquipmentID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) removeTracking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalido"})
		return
	}

	session := auth.SessionFrom(c)
	if err := s.lm.Storage().RemoveTracking(c.Request.Context(), session.UserID, id); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
