// Package auth expone los callables de gestión de roles (setUserRole, initializeUserRole, getUserRole,
// deactivateUser) y el login. Cada callable exige un llamador autenticado, valida la forma de la entrada
// y delega en el guard y en UserUseCase.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/usecase"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/jhoicas/heliosuite-api/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase callables de roles y login.
type AuthUseCase struct {
	users      *usecase.UserUseCase
	profiles   repository.Repository[entity.User]
	identities repository.IdentityProvider
	guard      *authz.Guard
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	users *usecase.UserUseCase,
	profiles repository.Repository[entity.User],
	identities repository.IdentityProvider,
	guard *authz.Guard,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{users: users, profiles: profiles, identities: identities, guard: guard, jwtCfg: jwtCfg}
}

// SetUserRole asigna el rol al usuario destino.
func (uc *AuthUseCase) SetUserRole(ctx context.Context, callerID, targetID string, in dto.SetRoleRequest) (*dto.ResultResponse, error) {
	caller, err := uc.guard.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(targetID) == "" || strings.TrimSpace(in.Role) == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "userId y role son obligatorios")
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if err := uc.users.ChangeRole(ctx, caller, targetID, role); err != nil {
		return nil, err
	}
	return &dto.ResultResponse{Success: true, Message: fmt.Sprintf("Rol %s asignado correctamente", role)}, nil
}

// InitializeUserRole crea el perfil y el claim de un usuario nuevo. Sin initialRole asigna guest.
func (uc *AuthUseCase) InitializeUserRole(ctx context.Context, callerID string, in dto.InitializeRoleRequest) (*dto.ResultResponse, error) {
	caller, err := uc.guard.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "userId y email son obligatorios")
	}
	role := entity.RoleGuest
	if in.InitialRole != "" {
		if role, err = entity.ParseRole(in.InitialRole); err != nil {
			return nil, err
		}
	}
	if err := uc.users.Initialize(ctx, caller, in.UserID, in.Email, role, in.Password); err != nil {
		return nil, err
	}
	return &dto.ResultResponse{Success: true, Message: fmt.Sprintf("Usuario inicializado con rol %s", role)}, nil
}

// GetUserRole devuelve el rol y las capacidades del usuario (el propio si userID está vacío).
// Consultar a otro usuario exige owner o admin. El claim manda; si falta se usa el perfil y luego guest.
func (uc *AuthUseCase) GetUserRole(ctx context.Context, callerID, userID string) (*dto.RoleResponse, error) {
	caller, err := uc.guard.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		userID = caller.ID
	}
	if !caller.IsSelf(userID) && caller.Role != entity.RoleOwner && caller.Role != entity.RoleAdmin {
		return nil, domain.NewError(domain.ErrPermissionDenied, "solo owner o admin pueden consultar el rol de otro usuario")
	}

	var (
		identity *entity.Identity
		profile  *entity.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		identity, err = uc.identities.ResolveCaller(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = uc.profiles.GetByID(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cargar rol de %s: %w", userID, err)
	}
	if identity == nil && profile == nil {
		return nil, domain.NewError(domain.ErrNotFound, "usuario no encontrado")
	}

	role := entity.RoleGuest
	switch {
	case identity != nil && identity.Role.Valid():
		role = identity.Role
	case profile != nil && profile.Role.Valid():
		role = profile.Role
	}
	return &dto.RoleResponse{UserID: userID, Role: role, Permissions: entity.PermissionsFor(role)}, nil
}

// DeactivateUser deshabilita al usuario destino. Nadie puede desactivarse a sí mismo.
func (uc *AuthUseCase) DeactivateUser(ctx context.Context, callerID, targetID string, in dto.DeactivateRequest) (*dto.ResultResponse, error) {
	caller, err := uc.guard.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := uc.users.Deactivate(ctx, caller, targetID, in.Reason); err != nil {
		return nil, err
	}
	return &dto.ResultResponse{Success: true, Message: "Usuario desactivado correctamente"}, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "email y password son obligatorios")
	}
	identity, err := uc.identities.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, fmt.Errorf("autenticar: %w", err)
	}
	if identity == nil || identity.Disabled {
		return nil, domain.NewError(domain.ErrUnauthenticated, "credenciales inválidas")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, identity.ID, identity.Email, string(identity.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.UpdateLastLogin(ctx, identity)
	if user == nil {
		return nil, err
	}
	// un fallo del registro de actividad no impide el login
	return &dto.LoginResponse{Token: token, User: user}, nil
}
