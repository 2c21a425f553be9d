package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/auth"
	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/usecase"
	"github.com/jhoicas/heliosuite-api/internal/application/validation"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/docstore"
	"github.com/jhoicas/heliosuite-api/internal/infrastructure/memory"
	"github.com/jhoicas/heliosuite-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	uc         *auth.AuthUseCase
	logger     *audit.Logger
	identities *memory.IdentityProvider
	store      *memory.DocumentStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	clock := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	store := memory.NewDocumentStore()
	identities := memory.NewIdentityProvider()
	logger := audit.NewLogger(docstore.NewCollection[entity.ActivityLog](store, entity.CollectionActivityLogs, docstore.WithClock(tick)))
	guard := authz.NewGuard(identities)
	profiles := docstore.NewCollection[entity.User](store, entity.CollectionUsers, docstore.WithClock(tick))
	users := usecase.NewUserUseCase(profiles, identities, usecase.Deps{
		Guard:     guard,
		Audit:     logger,
		Validator: validation.NewWithClock(tick),
		Now:       tick,
	})
	ctx := context.Background()
	require.NoError(t, identities.Create(ctx, entity.Identity{ID: "owner", Email: "owner@helio.test", Role: entity.RoleOwner}, "owner-pass"))
	require.NoError(t, identities.Create(ctx, entity.Identity{ID: "admin", Email: "admin@helio.test", Role: entity.RoleAdmin}, ""))
	require.NoError(t, identities.Create(ctx, entity.Identity{ID: "tech", Email: "tech@helio.test", Role: entity.RoleTechnician}, ""))
	require.NoError(t, identities.Create(ctx, entity.Identity{ID: "target", Email: "target@helio.test"}, ""))

	uc := auth.NewAuthUseCase(users, profiles, identities, guard, auth.JWTConfig{Secret: "test-secret", ExpMinutes: 10, Issuer: "heliosuite"})
	return &env{uc: uc, logger: logger, identities: identities, store: store}
}

func (e *env) roleChanges(t *testing.T) []*entity.ActivityLog {
	t.Helper()
	entries, err := e.logger.ByResource(context.Background(), "target", entity.ResourceUser, 0)
	require.NoError(t, err)
	var out []*entity.ActivityLog
	for _, l := range entries {
		if l.Type == entity.LogRoleChanged {
			out = append(out, l)
		}
	}
	return out
}

func TestSetUserRole_AdminCannotGrantOwner(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.SetUserRole(context.Background(), "admin", "target", dto.SetRoleRequest{Role: "owner"})

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Empty(t, e.roleChanges(t))
	identity, err := e.identities.ResolveCaller(context.Background(), "target")
	require.NoError(t, err)
	assert.Equal(t, entity.Role(""), identity.Role)
}

func TestSetUserRole_OwnerGrantsOwnerWithSingleLog(t *testing.T) {
	e := newEnv(t)

	res, err := e.uc.SetUserRole(context.Background(), "owner", "target", dto.SetRoleRequest{Role: "owner"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	entries := e.roleChanges(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "none", entries[0].Metadata["oldRole"])
	assert.Equal(t, "owner", entries[0].Metadata["newRole"])
	assert.Equal(t, "owner", entries[0].UserID)

	_, err = e.uc.SetUserRole(context.Background(), "owner", "target", dto.SetRoleRequest{Role: "technician"})
	require.NoError(t, err)
	entries = e.roleChanges(t)
	require.Len(t, entries, 2)
	assert.Equal(t, "owner", entries[0].Metadata["oldRole"], "la entrada más reciente refleja el claim previo")
}

func TestSetUserRole_InputShape(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.SetUserRole(ctx, "", "target", dto.SetRoleRequest{Role: "guest"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = e.uc.SetUserRole(ctx, "owner", "", dto.SetRoleRequest{Role: "guest"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = e.uc.SetUserRole(ctx, "owner", "target", dto.SetRoleRequest{Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = e.uc.SetUserRole(ctx, "owner", "ghost", dto.SetRoleRequest{Role: "guest"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInitializeUserRole_DefaultsToGuest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.InitializeUserRole(ctx, "admin", dto.InitializeRoleRequest{UserID: "new", Email: "New@Helio.test"})
	require.NoError(t, err)

	role, err := e.uc.GetUserRole(ctx, "admin", "new")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleGuest, role.Role)
	for _, granted := range role.Permissions {
		assert.False(t, granted)
	}

	_, err = e.uc.InitializeUserRole(ctx, "admin", dto.InitializeRoleRequest{UserID: "new", Email: "new@helio.test"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestGetUserRole_OthersRequireOwnerOrAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	self, err := e.uc.GetUserRole(ctx, "tech", "")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleTechnician, self.Role)
	assert.True(t, self.Permissions[entity.PermManageJobs])

	_, err = e.uc.GetUserRole(ctx, "tech", "owner")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	other, err := e.uc.GetUserRole(ctx, "admin", "target")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleGuest, other.Role)

	_, err = e.uc.GetUserRole(ctx, "admin", "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeactivateUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.DeactivateUser(ctx, "owner", "owner", dto.DeactivateRequest{})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = e.uc.DeactivateUser(ctx, "tech", "target", dto.DeactivateRequest{})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	res, err := e.uc.DeactivateUser(ctx, "admin", "tech", dto.DeactivateRequest{Reason: "fin de contrato"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	// una identidad deshabilitada ya no puede llamar
	_, err = e.uc.GetUserRole(ctx, "tech", "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Login(ctx, dto.LoginRequest{Email: "owner@helio.test", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	res, err := e.uc.Login(ctx, dto.LoginRequest{Email: "OWNER@helio.test", Password: "owner-pass"})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.NotNil(t, res.User.LastLoginAt)

	claims, err := jwt.Parse("test-secret", res.Token)
	require.NoError(t, err)
	assert.Equal(t, "owner", claims.UserID)
	assert.Equal(t, "owner", claims.Role)

	logins, err := e.logger.ByUser(ctx, "owner", 0)
	require.NoError(t, err)
	require.Len(t, logins, 1)
	assert.Equal(t, entity.LogLogin, logins[0].Type)
}
