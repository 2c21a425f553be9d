package main

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/heliosuite-api/internal/app"
	"github.com/jhoicas/heliosuite-api/internal/application/auth"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/memory"
)

const usersCSV = `email,firstName,lastName,phone,role
ana@helio.test,Ana,Gómez,+1 555 010 2030,admin
luis@helio.test,Luis,Pérez,+1 555 010 2031,technician
`

func TestReadUsers(t *testing.T) {
	rows, err := readUsers(strings.NewReader(usersCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ana@helio.test", rows[0].Email)
	assert.Equal(t, entity.RoleAdmin, rows[0].Role)
	assert.Equal(t, "Gómez", rows[0].Profile.LastName)
	assert.Equal(t, entity.RoleTechnician, rows[1].Role)
}

func TestReadUsers_Windows1252(t *testing.T) {
	// "Peña" con ñ = 0xF1
	in := "email,firstName,lastName,phone,role\r\nmaria@helio.test,Mar\xeda,Pe\xf1a,+1 555 010 2032,SALES_REP\r\n"
	rows, err := readUsers(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "María", rows[0].Profile.FirstName)
	assert.Equal(t, "Peña", rows[0].Profile.LastName)
	assert.Equal(t, entity.RoleSalesRep, rows[0].Role)
}

func TestReadUsers_MissingColumn(t *testing.T) {
	_, err := readUsers(strings.NewReader("email,firstName\nx@y.test,X\n"))
	assert.ErrorContains(t, err, "lastname")
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	identities := memory.NewIdentityProvider()
	c := app.New(app.Options{Store: store, Identities: identities, JWT: auth.JWTConfig{Secret: "s", ExpMinutes: 5}})
	rows, err := readUsers(strings.NewReader(usersCSV))
	require.NoError(t, err)

	first, err := seed(ctx, c, identities, "owner@helio.test", "secreto-123", rows, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, first.OwnerCreated)
	assert.Equal(t, 2, first.Imported)

	owner, err := identities.ResolveCaller(ctx, first.OwnerID)
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, entity.RoleOwner, owner.Role)

	second, err := seed(ctx, c, identities, "owner@helio.test", "secreto-123", rows, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, second.OwnerCreated)
	assert.Equal(t, first.OwnerID, second.OwnerID)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 3, store.Count(entity.CollectionUsers))
}
