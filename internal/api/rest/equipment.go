package rest

import (
	"encoding/base64"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// createEquipment passes the raw body through: the equipment service
// validates it against the intake schema before anything is persisted.
func (s *Server) createEquipment(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	id, err := s.lm.Equipment().Register(c.Request.Context(), raw)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) listEquipment(c *gin.Context) {
	equipment, err := s.lm.Equipment().List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}

// getEquipment returns one equipment including its image as base64.
func (s *Server) getEquipment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalido"})
		return
	}

	e, err := s.lm.Equipment().Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	response := gin.H{"equipo": e}
	if len(e.Image) > 0 {
		response["imagen"] = base64.StdEncoding.EncodeToString(e.Image)
	}
	c.JSON(http.StatusOK, response)
}
