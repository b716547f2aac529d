package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hospicore/biomedtrack/internal/auth"
	"github.com/hospicore/biomedtrack/internal/delegation"
)

func (s *Server) listTechnicians(c *gin.Context) {
	technicians, err := s.lm.Delegations().AvailableTechnicians(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, technicians)
}

type delegateRequest struct {
	NotificationID int64 `json:"notificacion_id" binding:"required"`
	TechnicianID   int64 `json:"tecnico_id" binding:"required"`
	BiomedicoID    int64 `json:"biomedico_id"`
}

func (s *Server) delegate(c *gin.Context) {
	var req delegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	// The session user is the delegating biomedico unless the body names one.
	biomedicoID := req.BiomedicoID
	if biomedicoID == 0 {
		biomedicoID = auth.SessionFrom(c).UserID
	}

	id, err := s.lm.Delegations().Delegate(c.Request.Context(), req.NotificationID, req.TechnicianID, biomedicoID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) listTechnicianDelegations(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId invalido"})
		return
	}

	delegations, err := s.lm.Delegations().ForTechnician(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, delegations)
}

type maintenanceRequest struct {
	EquipmentID  int64   `json:"equipo_id" binding:"required"`
	Description  string  `json:"descripcion" binding:"required"`
	Parts        *string `json:"repuestos"`
	Observations *string `json:"observaciones"`
	Type         string  `json:"tipo" binding:"required"`
}

func (s *Server) createMaintenanceRecord(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	session := auth.SessionFrom(c)
	id, err := s.lm.Delegations().RecordMaintenance(c.Request.Context(), delegation.MaintenanceInput{
		EquipmentID:  req.EquipmentID,
		TechnicianID: session.UserID,
		Description:  req.Description,
		Parts:        req.Parts,
		Observations: req.Observations,
		Type:         req.Type,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) listMaintenanceRecords(c *gin.Context) {
	equipmentID, err := strconv.ParseInt(c.Query("equipo_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "equipo_id invalido"})
		return
	}

	records, err := s.lm.Delegations().MaintenanceHistory(c.Request.Context(), equipmentID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
