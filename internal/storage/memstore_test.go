package storage

import (
	"context"
	"testing"

	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/matryer/is"
)

func TestCreateUserRejectsDuplicateNickname(t *testing.T) {
	is := is.New(t)

	store := NewMemStore()
	ctx := context.Background()

	_, err := store.CreateUser(ctx, User{Nickname: "lucia", PasswordHash: "x", Email: "l@h", Role: "enfermera"})
	is.NoErr(err)

	_, err = store.CreateUser(ctx, User{Nickname: "lucia", PasswordHash: "y", Email: "l2@h", Role: "medico"})
	is.Equal(types.HTTPStatus(err), 400)
}

func TestTechnicianRosterIsAlphabetical(t *testing.T) {
	is := is.New(t)

	store := NewMemStore()
	ctx := context.Background()

	for _, u := range []User{
		{Nickname: "z", FirstName: "Zoe", LastName: "Vargas", Role: "tecnico"},
		{Nickname: "a", FirstName: "Ana", LastName: "Blanco", Role: "tecnico"},
		{Nickname: "m", FirstName: "Mar", LastName: "Blanco", Role: "tecnico"},
		{Nickname: "b", FirstName: "Beto", LastName: "Gil", Role: "biomedico"},
	} {
		u.PasswordHash = "x"
		u.Email = u.Nickname + "@h"
		_, err := store.CreateUser(ctx, u)
		is.NoErr(err)
	}

	roster, err := store.ListTechnicians(ctx)
	is.NoErr(err)
	is.Equal(len(roster), 3)
	is.Equal(roster[0].FirstName, "Ana")
	is.Equal(roster[1].FirstName, "Mar")
	is.Equal(roster[2].FirstName, "Zoe")
}

func TestDeleteUserCascades(t *testing.T) {
	is := is.New(t)

	store := NewMemStore()
	ctx := context.Background()

	user, err := store.CreateUser(ctx, User{Nickname: "tec", PasswordHash: "x", Email: "t@h", Role: "tecnico"})
	is.NoErr(err)

	_, err = store.InsertReport(ctx, Report{UserID: user.ID, EquipmentName: "Monitor", Description: "falla"})
	is.NoErr(err)
	_, err = store.InsertNotification(ctx, Notification{Message: "para ti", TargetUserID: &user.ID})
	is.NoErr(err)

	is.NoErr(store.DeleteUser(ctx, user.ID))

	reports, err := store.ListReports(ctx)
	is.NoErr(err)
	is.Equal(len(reports), 0)

	targeted, err := store.ListNotificationsForUser(ctx, user.ID)
	is.NoErr(err)
	is.Equal(len(targeted), 0)
}

func TestLatestSensorReadingsLimitAndOrder(t *testing.T) {
	is := is.New(t)

	store := NewMemStore()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := store.InsertSensorReading(ctx, SensorReading{Device: "estacion-1", Temperature: float64(i)})
		is.NoErr(err)
	}

	latest, err := store.LatestSensorReadings(ctx, 20)
	is.NoErr(err)
	is.Equal(len(latest), 20)
	is.Equal(latest[0].Temperature, 24.0) // newest first
	is.Equal(latest[19].Temperature, 5.0)
	for i := 1; i < len(latest); i++ {
		is.True(latest[i-1].ID > latest[i].ID)
	}
}

func TestTrackingLifecycle(t *testing.T) {
	is := is.New(t)

	store := NewMemStore()
	ctx := context.Background()

	equipmentID, err := store.SaveOrUpdateEquipment(ctx, Equipment{Name: "Incubadora A", Serial: "INC-001"})
	is.NoErr(err)

	id, err := store.AddTracking(ctx, 1, equipmentID)
	is.NoErr(err)

	_, err = store.AddTracking(ctx, 1, equipmentID)
	is.Equal(types.HTTPStatus(err), 400) // already tracked

	_, err = store.AddTracking(ctx, 1, 9999)
	is.Equal(types.HTTPStatus(err), 404) // unknown equipment

	// Another user cannot remove the subscription.
	err = store.RemoveTracking(ctx, 2, id)
	is.Equal(types.HTTPStatus(err), 404)

	is.NoErr(store.RemoveTracking(ctx, 1, id))

	entries, err := store.ListTracking(ctx, 1)
	is.NoErr(err)
	is.Equal(len(entries), 0)
}
