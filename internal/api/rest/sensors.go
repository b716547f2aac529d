package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hospicore/biomedtrack/internal/storage"
)

type sensorReadingRequest struct {
	Device      string  `json:"device" binding:"required"`
	Temperature float64 `json:"temperatura"`
	Humidity    float64 `json:"humedad"`
	AmbientTemp float64 `json:"ambtemp"`
	ObjectTemp  float64 `json:"objtemp"`
	Weight      float64 `json:"peso"`
}

// createSensorReading ingests a reading from a sensor station. Public:
// the stations authenticate at the network level, not with user accounts.
func (s *Server) createSensorReading(c *gin.Context) {
	var req sensorReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de peticion invalido"})
		return
	}

	id, err := s.lm.Storage().InsertSensorReading(c.Request.Context(), storage.SensorReading{
		Device:      req.Device,
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		AmbientTemp: req.AmbientTemp,
		ObjectTemp:  req.ObjectTemp,
		Weight:      req.Weight,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// listSensorReadings returns the latest readings, newest first. The limit
// is fixed by configuration; clients poll this endpoint on an interval.
func (s *Server) listSensorReadings(c *gin.Context) {
	readings, err := s.lm.Storage().LatestSensorReadings(c.Request.Context(), s.lm.Config().Sensors.LatestLimit)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, readings)
}
