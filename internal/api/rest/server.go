package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hospicore/biomedtrack/internal/api/websocket"
	"github.com/hospicore/biomedtrack/internal/auth"
	"github.com/hospicore/biomedtrack/internal/config"
	"github.com/hospicore/biomedtrack/internal/interfaces"
	"github.com/hospicore/biomedtrack/internal/types"
	"go.uber.org/zap"
)

type Server struct {
	router      *gin.Engine
	lm          interfaces.LifecycleManager
	logger      *zap.Logger
	server      *http.Server
	wsHub       *websocket.Hub
	authService *auth.AuthService
}

func NewServer(cfg *config.Config, lm interfaces.LifecycleManager, logger *zap.Logger, wsHub *websocket.Hub, authService *auth.AuthService) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:      gin.New(),
		lm:          lm,
		logger:      logger,
		wsHub:       wsHub,
		authService: authService,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("REST server failed", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down REST API server")
	return s.server.Shutdown(ctx)
}

// Router exposes the gin engine for handler tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(CORSMiddleware(s.lm.Config().CORS.AllowedOrigins))

	// Public routes (no auth required)
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/register", s.register)
	s.router.POST("/login", s.login)

	// Sensor stations push readings without a user account.
	s.router.POST("/api/sensores", s.createSensorReading)

	s.router.POST("/api/auth/refresh", s.refreshToken)

	// WebSocket (public, auth via first message)
	s.router.GET("/api/ws/live", s.wsLiveConnection)

	api := s.router.Group("/api")
	api.Use(s.authService.AuthMiddleware())
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/logout", s.logout)
			authGroup.GET("/me", s.getCurrentUser)
			authGroup.DELETE("/me", s.deleteAccount)
		}

		// ==================== SENSORS ====================
		api.GET("/sensores", s.listSensorReadings)

		// ==================== NOTIFICATIONS ====================
		api.GET("/notificaciones", s.listRoleNotifications)
		api.POST("/notificaciones", s.createNotification)
		api.GET("/notificaciones/count", s.unreadNotificationCount)
		api.PUT("/notificaciones/:id/leida", s.markNotificationRead)
		api.GET("/notificaciones_tecnico/:userId", s.listTechnicianNotifications)

		// ==================== DELEGATION ====================
		api.GET("/tecnicos", s.listTechnicians)
		api.POST("/delegar", auth.RequireRole(types.RoleBiomedico), s.delegate)
		api.GET("/delegaciones_tecnico/:userId", s.listTechnicianDelegations)

		// ==================== REPORTS ====================
		api.POST("/reportes",
			auth.RequireRole(types.RoleEnfermera, types.RoleMedico, types.RoleBiomedico),
			s.createReport)
		api.GET("/reportes",
			auth.RequireRole(types.RoleBiomedico, types.RoleTecnico),
			s.listReports)
		api.GET("/reportes/:id",
			auth.RequireRole(types.RoleBiomedico, types.RoleTecnico),
			s.getReport)

		// ==================== MAINTENANCE ====================
		api.POST("/mantenimientos", auth.RequireRole(types.RoleTecnico), s.createMaintenanceRecord)
		api.GET("/mantenimientos", s.listMaintenanceRecords)

		// ==================== EQUIPMENT ====================
		api.POST("/equipos", auth.RequireRole(types.RoleBiomedico), s.createEquipment)
		api.GET("/equipos", s.listEquipment)
		api.GET("/equipos/:id", s.getEquipment)

		// ==================== TRACKING ====================
		api.GET("/seguimiento", s.listTracking)
		api.POST("/seguimiento", s.addTracking)
		api.DELETE("/seguimiento/:id", s.removeTracking)

		// ==================== SYSTEM ====================
		api.GET("/system/status", auth.RequireRole(types.RoleBiomedico), s.getSystemStatus)
	}
}

// respondError maps a service error to its HTTP status and JSON payload.
func (s *Server) respondError(c *gin.Context, err error) {
	status := types.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, types.NewErrorResponse(err))
}

func (s *Server) wsLiveConnection(c *gin.Context) {
	websocket.ServeWs(s.wsHub, c.Writer, c.Request)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) getSystemStatus(c *gin.Context) {
	status := s.lm.GetCurrentStatus()
	status.ConnectedClients = s.wsHub.GetClientCount()
	c.JSON(http.StatusOK, status)
}
