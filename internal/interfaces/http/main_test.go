package http_test

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

// El registro de auditoría emite una línea debug por entrada; en pruebas solo interesan avisos y errores.
func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}
