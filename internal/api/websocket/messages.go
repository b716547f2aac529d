package websocket

import (
	"time"

	"github.com/hospicore/biomedtrack/internal/storage"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Sensor feed messages
	MessageTypeSensorReading MessageType = "sensor_reading"

	// Notification hint messages. Carry addressing only; clients re-poll
	// their notification list instead of trusting the hint payload.
	MessageTypeNotificationCreated MessageType = "notification_created"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NotificationHint tells connected clients that a notification appeared
// for a role or a user, without carrying its content.
type NotificationHint struct {
	NotificationID int64   `json:"notificacion_id"`
	TargetUserID   *int64  `json:"usuario_id,omitempty"`
	TargetRole     *string `json:"rol_destino,omitempty"`
}

// NewMessage creates a new message with current timestamp
func NewMessage(msgType MessageType, data interface{}) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewSensorReadingMessage(r storage.SensorReading) Message {
	return NewMessage(MessageTypeSensorReading, r)
}

func NewNotificationHintMessage(n storage.Notification) Message {
	return NewMessage(MessageTypeNotificationCreated, NotificationHint{
		NotificationID: n.ID,
		TargetUserID:   n.TargetUserID,
		TargetRole:     n.TargetRole,
	})
}
