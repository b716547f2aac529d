// Package delegation implements the biomedical triage workflow: claim a
// reported issue, assign a technician, and record the eventual
// maintenance outcome.
package delegation

import (
	"context"
	"strings"

	"github.com/hospicore/biomedtrack/internal/notify"
	"github.com/hospicore/biomedtrack/internal/storage"
	"github.com/hospicore/biomedtrack/internal/types"
	"go.uber.org/zap"
)

// Store is the slice of the persistence gateway this service needs.
type Store interface {
	ListTechnicians(ctx context.Context) ([]storage.TechnicianSummary, error)
	GetUserByID(ctx context.Context, userID int64) (*storage.User, error)
	InsertDelegation(ctx context.Context, d storage.Delegation) (int64, error)
	ListDelegationsForTechnician(ctx context.Context, technicianID int64) ([]storage.Delegation, error)
	InsertMaintenanceRecord(ctx context.Context, m storage.MaintenanceRecord) (int64, error)
	ListMaintenanceRecords(ctx context.Context, equipmentID int64) ([]storage.MaintenanceRecord, error)
}

// MaintenanceTypes are the accepted values for a maintenance record.
var MaintenanceTypes = map[string]bool{
	"preventivo": true,
	"correctivo": true,
	"predictivo": true,
}

type Service struct {
	store         Store
	notifications *notify.Service
	logger        *zap.Logger
}

func NewService(store Store, notifications *notify.Service, logger *zap.Logger) *Service {
	return &Service{store: store, notifications: notifications, logger: logger}
}

// AvailableTechnicians returns the roster: every user with rol=tecnico.
// No server-side availability filtering exists; the client presents the
// whole roster as available.
func (s *Service) AvailableTechnicians(ctx context.Context) ([]storage.TechnicianSummary, error) {
	return s.store.ListTechnicians(ctx)
}

// Delegate assigns a notification's underlying issue to a technician.
// It writes the delegation row first and then the technician-targeted
// notification; the pair is not atomic, so a failure in the second step
// leaves the delegation without its notification and is logged.
//
// The original notification's read state is untouched, and the original
// is deliberately not required to be unread or role-broadcast: two
// biomedical users delegating the same notification both succeed and
// produce independent rows.
func (s *Service) Delegate(ctx context.Context, notificationID, technicianID, biomedicoID int64) (int64, error) {
	if technicianID == 0 {
		return 0, types.NewValidationError("tecnico_id", "es obligatorio")
	}
	if biomedicoID == 0 {
		return 0, types.NewValidationError("biomedico_id", "es obligatorio")
	}

	original, err := s.notifications.Get(ctx, notificationID)
	if err != nil {
		return 0, err
	}

	technician, err := s.store.GetUserByID(ctx, technicianID)
	if err != nil {
		return 0, err
	}
	if technician.Role != string(types.RoleTecnico) {
		return 0, types.NewValidationError("tecnico_id", "el usuario no es tecnico")
	}

	delegationID, err := s.store.InsertDelegation(ctx, storage.Delegation{
		NotificationID: notificationID,
		TechnicianID:   technicianID,
		BiomedicoID:    biomedicoID,
	})
	if err != nil {
		return 0, err
	}

	message := "Delegado: " + original.Message
	if _, err := s.notifications.Create(ctx, message, notify.Target{UserID: &technicianID}); err != nil {
		s.logger.Error("delegation saved but technician notification failed",
			zap.Int64("delegation_id", delegationID),
			zap.Int64("tecnico_id", technicianID),
			zap.Error(err))
	}

	s.logger.Info("notification delegated",
		zap.Int64("delegation_id", delegationID),
		zap.Int64("notificacion_id", notificationID),
		zap.Int64("tecnico_id", technicianID),
		zap.Int64("biomedico_id", biomedicoID))

	return delegationID, nil
}

// ForTechnician lists a technician's delegations, newest first.
func (s *Service) ForTechnician(ctx context.Context, technicianID int64) ([]storage.Delegation, error) {
	return s.store.ListDelegationsForTechnician(ctx, technicianID)
}

type MaintenanceInput struct {
	EquipmentID  int64
	TechnicianID int64
	Description  string
	Parts        *string
	Observations *string
	Type         string
}

// RecordMaintenance appends a terminal maintenance log entry. It does not
// transition any notification or delegation state; closing the loop is a
// human judgement made from the record itself.
func (s *Service) RecordMaintenance(ctx context.Context, in MaintenanceInput) (int64, error) {
	if in.EquipmentID == 0 {
		return 0, types.NewValidationError("equipo_id", "es obligatorio")
	}
	if in.TechnicianID == 0 {
		return 0, types.NewValidationError("tecnico_id", "es obligatorio")
	}
	if strings.TrimSpace(in.Description) == "" {
		return 0, types.NewValidationError("descripcion", "es obligatoria")
	}
	if !MaintenanceTypes[in.Type] {
		return 0, types.NewValidationError("tipo", "debe ser preventivo, correctivo o predictivo")
	}

	return s.store.InsertMaintenanceRecord(ctx, storage.MaintenanceRecord{
		EquipmentID:  in.EquipmentID,
		TechnicianID: in.TechnicianID,
		Description:  in.Description,
		Parts:        in.Parts,
		Observations: in.Observations,
		Type:         in.Type,
	})
}

// MaintenanceHistory lists maintenance records for an equipment.
func (s *Service) MaintenanceHistory(ctx context.Context, equipmentID int64) ([]storage.MaintenanceRecord, error) {
	return s.store.ListMaintenanceRecords(ctx, equipmentID)
}
