package storage

import (
	"time"
)

type User struct {
	ID                  int64      `json:"id"`
	Nickname            string     `json:"nickname"`
	PasswordHash        string     `json:"-"`
	Email               string     `json:"email"`
	FirstName           string     `json:"nombre"`
	LastName            string     `json:"apellido"`
	Role                string     `json:"rol"`
	Code                *string    `json:"codigo,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
}

// TechnicianSummary is the roster entry for delegation.
type TechnicianSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
}

type Equipment struct {
	ID            int64           `json:"id"`
	Name          string          `json:"nombre"`
	Brand         string          `json:"marca"`
	Model         string          `json:"modelo"`
	Serial        string          `json:"serial"`
	ServiceArea   string          `json:"area_servicio"`
	Location      string          `json:"ubicacion"`
	Image         []byte          `json:"-"`
	Accessories   []AccessoryItem `json:"accesorios"`
	TechnicalData []TechDataItem  `json:"datos_tecnicos"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type AccessoryItem struct {
	Name     string `json:"nombre"`
	Quantity int    `json:"cantidad"`
}

type TechDataItem struct {
	Name  string `json:"nombre"`
	Value string `json:"valor"`
}

// SensorReading rows are append-only; never mutated or deleted.
type SensorReading struct {
	ID          int64     `json:"id"`
	Device      string    `json:"device"`
	Temperature float64   `json:"temperatura"`
	Humidity    float64   `json:"humedad"`
	AmbientTemp float64   `json:"ambtemp"`
	ObjectTemp  float64   `json:"objtemp"`
	Weight      float64   `json:"peso"`
	CreatedAt   time.Time `json:"created_at"`
}

type Report struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"usuario_id"`
	EquipmentName string    `json:"equipo"`
	EquipmentID   *int64    `json:"equipo_id,omitempty"`
	Description   string    `json:"descripcion"`
	Photo         []byte    `json:"-"`
	HasPhoto      bool      `json:"tiene_foto"`
	CreatedAt     time.Time `json:"created_at"`
}

// Notification is addressed to exactly one of a user id or a role.
type Notification struct {
	ID           int64     `json:"id"`
	Message      string    `json:"mensaje"`
	TargetUserID *int64    `json:"usuario_id,omitempty"`
	TargetRole   *string   `json:"rol_destino,omitempty"`
	Read         bool      `json:"leida"`
	CreatedAt    time.Time `json:"created_at"`
}

// Delegation is created exactly once per delegation action; immutable.
type Delegation struct {
	ID             int64     `json:"id"`
	NotificationID int64     `json:"notificacion_id"`
	TechnicianID   int64     `json:"tecnico_id"`
	BiomedicoID    int64     `json:"biomedico_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type MaintenanceRecord struct {
	ID           int64     `json:"id"`
	EquipmentID  int64     `json:"equipo_id"`
	TechnicianID int64     `json:"tecnico_id"`
	Description  string    `json:"descripcion"`
	Parts        *string   `json:"repuestos,omitempty"`
	Observations *string   `json:"observaciones,omitempty"`
	Type         string    `json:"tipo"`
	CreatedAt    time.Time `json:"created_at"`
}

// TrackingEntry is a per-user equipment tracking subscription.
type TrackingEntry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"usuario_id"`
	EquipmentID int64     `json:"equipo_id"`
	CreatedAt   time.Time `json:"created_at"`
}
