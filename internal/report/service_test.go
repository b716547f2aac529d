package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/hospicore/biomedtrack/internal/notify"
	"github.com/hospicore/biomedtrack/internal/storage"
	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/matryer/is"
	"go.uber.org/zap"
)

func newTestService(maxPhotoBytes int) (*Service, *notify.Service, *storage.MemStore) {
	store := storage.NewMemStore()
	notifications := notify.NewService(store, zap.NewNop())
	return NewService(store, notifications, maxPhotoBytes, zap.NewNop()), notifications, store
}

func TestSubmitValidation(t *testing.T) {
	is := is.New(t)

	svc, _, _ := newTestService(1024)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{ReporterID: 1, Description: "sensor suelto"})
	is.Equal(types.HTTPStatus(err), 400) // missing equipment name

	_, err = svc.Submit(ctx, SubmitInput{ReporterID: 1, EquipmentName: "Incubadora A"})
	is.Equal(types.HTTPStatus(err), 400) // missing description

	_, err = svc.Submit(ctx, SubmitInput{
		ReporterID:    1,
		EquipmentName: "Incubadora A",
		Description:   "sensor suelto",
		Photo:         bytes.Repeat([]byte{0xff}, 2048),
	})
	is.Equal(types.HTTPStatus(err), 400) // photo over the limit
}

func TestSubmitCreatesReportAndBiomedicalNotification(t *testing.T) {
	is := is.New(t)

	svc, notifications, _ := newTestService(0)
	ctx := context.Background()

	id, err := svc.Submit(ctx, SubmitInput{
		ReporterID:    4,
		EquipmentName: "Incubadora A",
		Description:   "sensor suelto",
	})
	is.NoErr(err)

	r, err := svc.Get(ctx, id)
	is.NoErr(err)
	is.Equal(r.UserID, int64(4))
	is.Equal(r.EquipmentName, "Incubadora A")

	// Exactly one role-broadcast notification for biomedical staff.
	broadcast, err := notifications.ListForRole(ctx, types.RoleBiomedico)
	is.NoErr(err)
	is.Equal(len(broadcast), 1)
	is.True(!broadcast[0].Read)
	is.Equal(broadcast[0].Message, "Nuevo reporte de Incubadora A: sensor suelto")
	is.True(broadcast[0].TargetUserID == nil)

	// Nothing lands in any technician's targeted list.
	targeted, err := notifications.ListForUser(ctx, 4)
	is.NoErr(err)
	is.Equal(len(targeted), 0)
}

func TestSubmitResolvesEquipmentID(t *testing.T) {
	is := is.New(t)

	svc, _, store := newTestService(0)
	ctx := context.Background()

	equipmentID, err := store.SaveOrUpdateEquipment(ctx, storage.Equipment{
		Name:   "Incubadora A",
		Serial: "INC-001",
	})
	is.NoErr(err)

	id, err := svc.Submit(ctx, SubmitInput{
		ReporterID:    1,
		EquipmentName: "Incubadora A",
		Description:   "sensor suelto",
	})
	is.NoErr(err)

	r, err := svc.Get(ctx, id)
	is.NoErr(err)
	is.True(r.EquipmentID != nil)
	is.Equal(*r.EquipmentID, equipmentID)

	// An unmatched name still produces a report, without an id.
	id, err = svc.Submit(ctx, SubmitInput{
		ReporterID:    1,
		EquipmentName: "Equipo fantasma",
		Description:   "no enciende",
	})
	is.NoErr(err)
	r, err = svc.Get(ctx, id)
	is.NoErr(err)
	is.True(r.EquipmentID == nil)
}

func TestListOmitsPhotoPayload(t *testing.T) {
	is := is.New(t)

	svc, _, _ := newTestService(0)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{
		ReporterID:    2,
		EquipmentName: "Monitor B",
		Description:   "pantalla rota",
		Photo:         []byte{0x01, 0x02, 0x03},
	})
	is.NoErr(err)

	list, err := svc.List(ctx)
	is.NoErr(err)
	is.Equal(len(list), 1)
	is.True(list[0].HasPhoto)
	is.Equal(len(list[0].Photo), 0)
}
