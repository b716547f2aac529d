package equipment

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/hospicore/biomedtrack/internal/storage"
	"github.com/hospicore/biomedtrack/internal/types"
	"github.com/matryer/is"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *storage.MemStore) {
	t.Helper()
	is := is.New(t)

	validator, err := NewValidator()
	is.NoErr(err)

	store := storage.NewMemStore()
	return NewService(store, validator, zap.NewNop()), store
}

const validPayload = `{
	"nombre": "Incubadora A",
	"marca": "Drager",
	"modelo": "8000",
	"serial": "INC-001",
	"area_servicio": "Neonatologia",
	"ubicacion": "Piso 3",
	"accesorios": [{"nombre": "sensor de temperatura", "cantidad": 2}],
	"datos_tecnicos": [{"nombre": "voltaje", "valor": "110V"}]
}`

func TestRegisterValidPayload(t *testing.T) {
	is := is.New(t)

	svc, _ := newTestService(t)

	id, err := svc.Register(context.Background(), []byte(validPayload))
	is.NoErr(err)

	e, err := svc.Get(context.Background(), id)
	is.NoErr(err)
	is.Equal(e.Name, "Incubadora A")
	is.Equal(e.Serial, "INC-001")
	is.Equal(len(e.Accessories), 1)
	is.Equal(e.Accessories[0].Quantity, 2)
	is.Equal(e.TechnicalData[0].Value, "110V")
}

func TestRegisterRejectsMalformedPayloads(t *testing.T) {
	is := is.New(t)

	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []string{
		`{"marca": "Drager"}`,                                          // missing nombre and serial
		`{"nombre": "", "serial": "X"}`,                                // empty nombre
		`{"nombre": "A", "serial": "X", "extra": true}`,                // unknown field
		`{"nombre": "A", "serial": "X", "accesorios": [{"cantidad": 1}]}`, // accessory without name
		`no es json`,
	}

	for _, payload := range cases {
		_, err := svc.Register(ctx, []byte(payload))
		is.Equal(types.HTTPStatus(err), 400)
	}
}

func TestRegisterUpsertsOnSerial(t *testing.T) {
	is := is.New(t)

	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, []byte(validPayload))
	is.NoErr(err)

	updated := `{"nombre": "Incubadora A (reparada)", "serial": "INC-001", "ubicacion": "Piso 4"}`
	second, err := svc.Register(ctx, []byte(updated))
	is.NoErr(err)
	is.Equal(first, second)

	list, err := svc.List(ctx)
	is.NoErr(err)
	is.Equal(len(list), 1)
	is.Equal(list[0].Name, "Incubadora A (reparada)")
	is.Equal(list[0].Location, "Piso 4")
}

func TestRegisterDecodesImage(t *testing.T) {
	is := is.New(t)

	svc, _ := newTestService(t)
	ctx := context.Background()

	image := []byte{0x89, 0x50, 0x4e, 0x47}
	payload := fmt.Sprintf(`{"nombre": "Monitor B", "serial": "MON-001", "imagen": %q}`,
		base64.StdEncoding.EncodeToString(image))

	id, err := svc.Register(ctx, []byte(payload))
	is.NoErr(err)

	e, err := svc.Get(ctx, id)
	is.NoErr(err)
	is.Equal(e.Image, image)

	_, err = svc.Register(ctx, []byte(`{"nombre": "C", "serial": "S", "imagen": "@@no-base64@@"}`))
	is.Equal(types.HTTPStatus(err), 400)
}
