package rest

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hospicore/biomedtrack/internal/auth"
	"github.com/hospicore/biomedtrack/internal/report"
)

type createReportRequest struct {
	EquipmentName string `json:"equipo" binding:"required"`
	Description   string `json:"descripcion" binding:"required"`
	Photo         string `json:"foto"`
}

func (s *Server) createReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	var photo []byte
	if req.Photo != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Photo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "foto: debe ser base64 valido"})
			return
		}
		photo = decoded
	}

	session := auth.SessionFrom(c)
	id, err := s.lm.Reports().Submit(c.Request.Context(), report.SubmitInput{
		ReporterID:    session.UserID,
		EquipmentName: req.EquipmentName,
		Description:   req.Description,
		Photo:         photo,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) listReports(c *gin.Context) {
	reports, err := s.lm.Reports().List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// getReport returns one report including its photo as base64.
func (s *Server) getReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalido"})
		return
	}

	r, err := s.lm.Reports().Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	response := gin.H{"reporte": r}
	if len(r.Photo) > 0 {
		response["foto"] = base64.StdEncoding.EncodeToString(r.Photo)
	}
	c.JSON(http.StatusOK, response)
}
