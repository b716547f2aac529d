package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hospicore/biomedtrack/internal/auth"
	"github.com/hospicore/biomedtrack/internal/types"
)

type registerRequest struct {
	Nickname  string  `json:"nickname" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	FirstName string  `json:"nombre"`
	LastName  string  `json:"apellido"`
	Role      string  `json:"tipo" binding:"required"`
	Code      *string `json:"codigo"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	user, err := s.authService.Register(c.Request.Context(), auth.RegisterInput{
		Nickname:  req.Nickname,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      types.Role(req.Role),
		Code:      req.Code,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID})
}

type loginRequest struct {
	Nickname string `json:"nickname" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	user, accessToken, refreshToken, err := s.authService.Login(
		c.Request.Context(), req.Nickname, req.Password,
		c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (s *Server) refreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	accessToken, refreshToken, err := s.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (s *Server) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	if err := s.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sesion cerrada"})
}

// getCurrentUser returns the session's user plus the role profile the
// client uses to route after login.
func (s *Server) getCurrentUser(c *gin.Context) {
	session := auth.SessionFrom(c)

	user, err := s.authService.GetUserByID(c.Request.Context(), session.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	profile := session.Role.Profile()
	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"perfil":  profile,
		"landing": profile.LandingPath,
	})
}

func (s *Server) deleteAccount(c *gin.Context) {
	session := auth.SessionFrom(c)

	if err := s.authService.DeleteAccount(c.Request.Context(), session.UserID); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cuenta eliminada"})
}
