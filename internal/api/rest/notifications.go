package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hospicore/biomedtrack/internal/notify"
	"github.com/hospicore/biomedtrack/internal/types"
)

// listRoleNotifications serves the role-broadcast poll, e.g. the
// biomedical dashboard's fixed-interval refresh.
func (s *Server) listRoleNotifications(c *gin.Context) {
	role := c.Query("rol")
	if role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "falta el parametro rol"})
		return
	}

	notifications, err := s.lm.Notifications().ListForRole(c.Request.Context(), types.Role(role))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (s *Server) listTechnicianNotifications(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId invalido"})
		return
	}

	notifications, err := s.lm.Notifications().ListForUser(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

type createNotificationRequest struct {
	Message      string `json:"mensaje" binding:"required"`
	TargetUserID *int64 `json:"usuario_id"`
	TargetRole   string `json:"rol_destino"`
}

func (s *Server) createNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	target := notify.Target{UserID: req.TargetUserID}
	if req.TargetRole != "" {
		role := types.Role(req.TargetRole)
		target.Role = &role
	}

	id, err := s.lm.Notifications().Create(c.Request.Context(), req.Message, target)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) markNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalido"})
		return
	}

	if err := s.lm.Notifications().MarkRead(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// unreadNotificationCount serves the badge counter. Exactly one of rol or
// usuario_id selects the list to count.
func (s *Server) unreadNotificationCount(c *gin.Context) {
	role := c.Query("rol")
	userParam := c.Query("usuario_id")

	switch {
	case role != "" && userParam == "":
		count, err := s.lm.Notifications().UnreadCountForRole(c.Request.Context(), types.Role(role))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})

	case userParam != "" && role == "":
		userID, err := strconv.ParseInt(userParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "usuario_id invalido"})
			return
		}
		count, err := s.lm.Notifications().UnreadCountForUser(c.Request.Context(), userID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "se requiere exactamente uno de rol o usuario_id"})
	}
}
