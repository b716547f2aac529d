// Package equipment handles biomedical equipment registration and lookup.
package equipment

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/hospicore/biomedtrack/internal/storage"
	"github.com/hospicore/biomedtrack/internal/types"
	"go.uber.org/zap"
)

// Store is the slice of the persistence gateway this service needs.
type Store interface {
	SaveOrUpdateEquipment(ctx context.Context, e storage.Equipment) (int64, error)
	GetEquipment(ctx context.Context, id int64) (*storage.Equipment, error)
	ListEquipment(ctx context.Context) ([]storage.Equipment, error)
}

type Service struct {
	store     Store
	validator *Validator
	logger    *zap.Logger
}

func NewService(store Store, validator *Validator, logger *zap.Logger) *Service {
	return &Service{store: store, validator: validator, logger: logger}
}

type registerPayload struct {
	Name          string                  `json:"nombre"`
	Brand         string                  `json:"marca"`
	Model         string                  `json:"modelo"`
	Serial        string                  `json:"serial"`
	ServiceArea   string                  `json:"area_servicio"`
	Location      string                  `json:"ubicacion"`
	Image         string                  `json:"imagen"`
	Accessories   []storage.AccessoryItem `json:"accesorios"`
	TechnicalData []storage.TechDataItem  `json:"datos_tecnicos"`
}

// Register validates a raw intake payload against the equipment schema
// and upserts it keyed on serial. Registering an existing serial again
// replaces the stored data.
func (s *Service) Register(ctx context.Context, raw []byte) (int64, error) {
	if err := s.validator.Validate(raw); err != nil {
		return 0, types.NewValidationError("equipo", err.Error())
	}

	var payload registerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, types.NewValidationError("equipo", "JSON invalido")
	}

	var image []byte
	if payload.Image != "" {
		decoded, err := base64.StdEncoding.DecodeString(payload.Image)
		if err != nil {
			return 0, types.NewValidationError("imagen", "debe ser base64 valido")
		}
		image = decoded
	}

	id, err := s.store.SaveOrUpdateEquipment(ctx, storage.Equipment{
		Name:          payload.Name,
		Brand:         payload.Brand,
		Model:         payload.Model,
		Serial:        payload.Serial,
		ServiceArea:   payload.ServiceArea,
		Location:      payload.Location,
		Image:         image,
		Accessories:   payload.Accessories,
		TechnicalData: payload.TechnicalData,
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("equipment registered",
		zap.Int64("id", id),
		zap.String("serial", payload.Serial))

	return id, nil
}

// Get returns one equipment by id.
func (s *Service) Get(ctx context.Context, id int64) (*storage.Equipment, error) {
	return s.store.GetEquipment(ctx, id)
}

// List returns all equipment ordered by name.
func (s *Service) List(ctx context.Context) ([]storage.Equipment, error) {
	return s.store.ListEquipment(ctx)
}
