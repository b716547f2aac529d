// Package report implements the nurse-facing equipment issue intake.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/hospicore/biomedtrack/internal/notify"
	"github.com/hospicore/biomedtrack/internal/storage"
	"github.com/hospicore/biomedtrack/internal/types"
	"go.uber.org/zap"
)

// Store is the slice of the persistence gateway this service needs.
type Store interface {
	InsertReport(ctx context.Context, r storage.Report) (int64, error)
	GetReport(ctx context.Context, id int64) (*storage.Report, error)
	ListReports(ctx context.Context) ([]storage.Report, error)
	FindEquipmentIDByName(ctx context.Context, name string) (int64, error)
}

type Service struct {
	store         Store
	notifications *notify.Service
	maxPhotoBytes int
	logger        *zap.Logger
}

func NewService(store Store, notifications *notify.Service, maxPhotoBytes int, logger *zap.Logger) *Service {
	return &Service{
		store:         store,
		notifications: notifications,
		maxPhotoBytes: maxPhotoBytes,
		logger:        logger,
	}
}

type SubmitInput struct {
	ReporterID    int64
	EquipmentName string
	Description   string
	Photo         []byte
}

// Submit persists a report and fans out a role-broadcast notification to
// biomedical staff. The report write happens first; the pair is not
// atomic, so a notification failure leaves the report in place and is
// only logged.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (int64, error) {
	if strings.TrimSpace(in.EquipmentName) == "" {
		return 0, types.NewValidationError("equipo", "es obligatorio")
	}
	if strings.TrimSpace(in.Description) == "" {
		return 0, types.NewValidationError("descripcion", "es obligatoria")
	}
	if s.maxPhotoBytes > 0 && len(in.Photo) > s.maxPhotoBytes {
		return 0, types.NewValidationError("foto", fmt.Sprintf("supera el limite de %d bytes", s.maxPhotoBytes))
	}

	r := storage.Report{
		UserID:        in.ReporterID,
		EquipmentName: in.EquipmentName,
		Description:   in.Description,
		Photo:         in.Photo,
	}

	// Reports reference equipment by display name; resolve an id when one
	// matches, best effort.
	if equipmentID, err := s.store.FindEquipmentIDByName(ctx, in.EquipmentName); err == nil && equipmentID != 0 {
		r.EquipmentID = &equipmentID
	}

	reportID, err := s.store.InsertReport(ctx, r)
	if err != nil {
		return 0, err
	}

	role := types.RoleBiomedico
	message := fmt.Sprintf("Nuevo reporte de %s: %s", in.EquipmentName, in.Description)
	if _, err := s.notifications.Create(ctx, message, notify.Target{Role: &role}); err != nil {
		s.logger.Error("report saved but biomedical notification failed",
			zap.Int64("report_id", reportID),
			zap.Error(err))
	}

	return reportID, nil
}

// Get returns one report, photo included.
func (s *Service) Get(ctx context.Context, id int64) (*storage.Report, error) {
	return s.store.GetReport(ctx, id)
}

// List returns all reports newest first, without photo payloads.
func (s *Service) List(ctx context.Context) ([]storage.Report, error) {
	return s.store.ListReports(ctx)
}
