package types

import (
	"fmt"
	"testing"

	"github.com/matryer/is"
)

func TestHTTPStatusMapping(t *testing.T) {
	is := is.New(t)

	is.Equal(HTTPStatus(NewValidationError("campo", "es obligatorio")), 400)
	is.Equal(HTTPStatus(NewAuthError("credenciales invalidas")), 401)
	is.Equal(HTTPStatus(NewNotFoundError("notificacion", 7)), 404)
	is.Equal(HTTPStatus(NewStorageError("insert", fmt.Errorf("boom"))), 500)
	is.Equal(HTTPStatus(fmt.Errorf("plain")), 500)
}

func TestHTTPStatusSeesWrappedErrors(t *testing.T) {
	is := is.New(t)

	wrapped := fmt.Errorf("while delegating: %w", NewNotFoundError("notificacion", 3))
	is.Equal(HTTPStatus(wrapped), 404)
}

func TestPublicMessageHidesStorageInternals(t *testing.T) {
	is := is.New(t)

	err := NewStorageError("insert report", fmt.Errorf("pq: connection refused"))
	is.Equal(PublicMessage(err), "error interno del servidor")

	ve := NewValidationError("descripcion", "es obligatoria")
	is.Equal(PublicMessage(ve), "descripcion: es obligatoria")
}
