package delegation

import (
	"context"
	"testing"

	"github.com/hospicore/biomedtrack/internal/notify"
	"github.com/hospicore/biomedtrack/internal/storage"
	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/matryer/is"
	"go.uber.org/zap"
)

type fixture struct {
	svc           *Service
	notifications *notify.Service
	store         *storage.MemStore
	biomedicoID   int64
	technicianID  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	is := is.New(t)
	ctx := context.Background()

	store := storage.NewMemStore()
	notifications := notify.NewService(store, zap.NewNop())
	svc := NewService(store, notifications, zap.NewNop())

	biomedico, err := store.CreateUser(ctx, storage.User{
		Nickname: "bio_marta", PasswordHash: "x", Email: "m@h",
		FirstName: "Marta", LastName: "Diaz", Role: string(types.RoleBiomedico),
	})
	is.NoErr(err)

	technician, err := store.CreateUser(ctx, storage.User{
		Nickname: "tec_jorge", PasswordHash: "x", Email: "j@h",
		FirstName: "Jorge", LastName: "Perez", Role: string(types.RoleTecnico),
	})
	is.NoErr(err)

	return &fixture{
		svc:           svc,
		notifications: notifications,
		store:         store,
		biomedicoID:   biomedico.ID,
		technicianID:  technician.ID,
	}
}

func (f *fixture) broadcastNotification(t *testing.T, message string) int64 {
	t.Helper()
	is := is.New(t)
	role := types.RoleBiomedico
	id, err := f.notifications.Create(context.Background(), message, notify.Target{Role: &role})
	is.NoErr(err)
	return id
}

func TestRosterContainsOnlyTechnicians(t *testing.T) {
	is := is.New(t)

	f := newFixture(t)

	roster, err := f.svc.AvailableTechnicians(context.Background())
	is.NoErr(err)
	is.Equal(len(roster), 1)
	is.Equal(roster[0].ID, f.technicianID)
	is.Equal(roster[0].FirstName, "Jorge")
}

func TestDelegateCreatesRowAndTargetedNotification(t *testing.T) {
	is := is.New(t)

	f := newFixture(t)
	ctx := context.Background()

	notificationID := f.broadcastNotification(t, "Nuevo reporte de Incubadora A: sensor suelto")

	delegationID, err := f.svc.Delegate(ctx, notificationID, f.technicianID, f.biomedicoID)
	is.NoErr(err)
	is.True(delegationID != 0)

	delegations, err := f.svc.ForTechnician(ctx, f.technicianID)
	is.NoErr(err)
	is.Equal(len(delegations), 1)
	is.Equal(delegations[0].NotificationID, notificationID)
	is.Equal(delegations[0].BiomedicoID, f.biomedicoID)

	targeted, err := f.notifications.ListForUser(ctx, f.technicianID)
	is.NoErr(err)
	is.Equal(len(targeted), 1)
	is.Equal(targeted[0].Message, "Delegado: Nuevo reporte de Incubadora A: sensor suelto")
	is.True(!targeted[0].Read)

	// The original broadcast notification is untouched.
	original, err := f.notifications.Get(ctx, notificationID)
	is.NoErr(err)
	is.True(!original.Read)
}

func TestDelegateUnknownNotification(t *testing.T) {
	is := is.New(t)

	f := newFixture(t)

	_, err := f.svc.Delegate(context.Background(), 9999, f.technicianID, f.biomedicoID)
	is.Equal(types.HTTPStatus(err), 404)
}

func TestDelegateRejectsNonTechnician(t *testing.T) {
	is := is.New(t)

	f := newFixture(t)
	notificationID := f.broadcastNotification(t, "mensaje")

	// Delegating to the biomedico themselves must fail.
	_, err := f.svc.Delegate(context.Background(), notificationID, f.biomedicoID, f.biomedicoID)
	is.Equal(types.HTTPStatus(err), 400)
}

func TestDuplicateDelegationsBothSucceed(t *testing.T) {
	is := is.New(t)

	f := newFixture(t)
	ctx := context.Background()
	notificationID := f.broadcastNotification(t, "mensaje")

	first, err := f.svc.Delegate(ctx, notificationID, f.technicianID, f.biomedicoID)
	is.NoErr(err)
	second, err := f.svc.Delegate(ctx, notificationID, f.technicianID, f.biomedicoID)
	is.NoErr(err)
	is.True(first != second)

	delegations, err := f.svc.ForTechnician(ctx, f.technicianID)
	is.NoErr(err)
	is.Equal(len(delegations), 2)

	targeted, err := f.notifications.ListForUser(ctx, f.technicianID)
	is.NoErr(err)
	is.Equal(len(targeted), 2)
}

func TestRecordMaintenanceValidation(t *testing.T) {
	is := is.New(t)

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RecordMaintenance(ctx, MaintenanceInput{
		TechnicianID: f.technicianID, Description: "cambio de sensor", Type: "correctivo",
	})
	is.Equal(types.HTTPStatus(err), 400) // missing equipment

	_, err = f.svc.RecordMaintenance(ctx, MaintenanceInput{
		EquipmentID: 1, TechnicianID: f.technicianID, Description: "cambio de sensor", Type: "urgente",
	})
	is.Equal(types.HTTPStatus(err), 400) // unknown type
}

func TestRecordMaintenanceLeavesWorkflowStateAlone(t *testing.T) {
	is := is.New(t)

	f := newFixture(t)
	ctx := context.Background()

	equipmentID, err := f.store.SaveOrUpdateEquipment(ctx, storage.Equipment{Name: "Incubadora A", Serial: "INC-001"})
	is.NoErr(err)

	notificationID := f.broadcastNotification(t, "Nuevo reporte de Incubadora A: sensor suelto")
	_, err = f.svc.Delegate(ctx, notificationID, f.technicianID, f.biomedicoID)
	is.NoErr(err)

	recordID, err := f.svc.RecordMaintenance(ctx, MaintenanceInput{
		EquipmentID:  equipmentID,
		TechnicianID: f.technicianID,
		Description:  "se fijo el sensor",
		Type:         "correctivo",
	})
	is.NoErr(err)
	is.True(recordID != 0)

	history, err := f.svc.MaintenanceHistory(ctx, equipmentID)
	is.NoErr(err)
	is.Equal(len(history), 1)
	is.Equal(history[0].Description, "se fijo el sensor")

	// Recording the outcome transitions nothing: the notifications stay
	// unread and the delegation row is untouched.
	original, err := f.notifications.Get(ctx, notificationID)
	is.NoErr(err)
	is.True(!original.Read)

	targeted, err := f.notifications.ListForUser(ctx, f.technicianID)
	is.NoErr(err)
	is.Equal(len(targeted), 1)
	is.True(!targeted[0].Read)

	delegations, err := f.svc.ForTechnician(ctx, f.technicianID)
	is.NoErr(err)
	is.Equal(len(delegations), 1)
}
