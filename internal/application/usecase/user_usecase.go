package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
)

// UserUseCase gestiona perfiles de usuario, su rol y su estado de acceso.
// El rol vive en dos lugares (claim del proveedor de identidad y documento de perfil) y se
// actualizan juntos.
type UserUseCase struct {
	users      repository.Repository[entity.User]
	identities repository.IdentityProvider
	Deps
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(users repository.Repository[entity.User], identities repository.IdentityProvider, deps Deps) *UserUseCase {
	return &UserUseCase{users: users, identities: identities, Deps: deps}
}

// Create da de alta identidad y perfil. Solo quien puede gestionar usuarios, y solo con roles
// que puede asignar.
func (uc *UserUseCase) Create(ctx context.Context, caller entity.Principal, in dto.CreateUserRequest) (*entity.User, error) {
	if err := uc.Guard.AuthorizeUserManagement(caller); err != nil {
		return nil, err
	}
	if err := uc.Guard.AuthorizeRoleAssignment(caller, in.Role); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	dup, err := existsWithEmail(ctx, uc.users, in.Email, "", func(u *entity.User) string { return u.ID })
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, domain.NewError(domain.ErrAlreadyExists, "ya existe un usuario con este email")
	}

	id := uuid.New().String()
	email := normalizeEmail(in.Email)
	if err := uc.identities.Create(ctx, entity.Identity{ID: id, Email: email, Role: in.Role}, in.Password); err != nil {
		return nil, err
	}
	prefs := entity.DefaultPreferences()
	if in.Preferences != nil {
		prefs = entity.Preferences{
			Notifications: in.Preferences.Notifications,
			Theme:         in.Preferences.Theme,
			Language:      in.Preferences.Language,
		}
	}
	user := &entity.User{
		Base:        entity.Base{ID: id},
		Email:       email,
		Role:        in.Role,
		IsActive:    true,
		Profile:     in.Profile.ToEntity(),
		Preferences: prefs,
	}
	if _, err := uc.users.Create(ctx, user, caller.ID); err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceUser, id)
	meta[audit.MetaTargetUserID] = id
	meta["role"] = string(in.Role)
	_, err = uc.Audit.Log(ctx, entity.LogUserCreated, caller.ID, fmt.Sprintf("Usuario creado: %s", email), meta)
	return user, logged("user.create", id, err)
}

// Get perfil de un usuario: el propio siempre, el de otros con manage-users.
func (uc *UserUseCase) Get(ctx context.Context, caller entity.Principal, id string) (*entity.User, error) {
	if !caller.IsSelf(id) {
		if err := uc.Guard.AuthorizeUserManagement(caller); err != nil {
			return nil, err
		}
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("usuario")
	}
	return user, nil
}

// Update modifica perfil y preferencias (propio o con manage-users). Registra solo si algo cambió.
func (uc *UserUseCase) Update(ctx context.Context, caller entity.Principal, id string, in dto.UpdateUserRequest) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("usuario")
	}
	if !caller.IsSelf(id) {
		if err := uc.Guard.AuthorizeUserManagement(caller); err != nil {
			return nil, err
		}
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	changes, err := audit.Diff(user, in)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return user, nil
	}
	if err := uc.users.Update(ctx, id, in, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceUser, id)
	meta[audit.MetaTargetUserID] = id
	_, err = uc.Audit.LogChanges(ctx, entity.LogUserUpdated, caller.ID, fmt.Sprintf("Usuario actualizado: %s", user.Email), changes, meta)
	return updated, logged("user.update", id, err)
}

// ChangeRole cambia claim y perfil del usuario destino. Siempre registra role_changed con el
// rol anterior (o "none" si nunca tuvo claim).
func (uc *UserUseCase) ChangeRole(ctx context.Context, caller entity.Principal, targetID string, role entity.Role) error {
	target, err := uc.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if err := uc.Guard.AuthorizeRoleAssignment(caller, role); err != nil {
		return err
	}
	oldRole := target.Role.OrNone()

	if err := uc.identities.SetRole(ctx, targetID, role); err != nil {
		return fmt.Errorf("actualizar claim de rol: %w", err)
	}
	if err := uc.upsertProfile(ctx, target, caller.ID, repository.Document{"role": string(role)}); err != nil {
		return err
	}
	meta := audit.Target(entity.ResourceUser, targetID)
	meta[audit.MetaTargetUserID] = targetID
	meta["oldRole"] = oldRole
	meta["newRole"] = string(role)
	_, err = uc.Audit.Log(ctx, entity.LogRoleChanged, caller.ID,
		fmt.Sprintf("Rol de %s cambiado de %s a %s", target.Email, oldRole, role), meta)
	return logged("user.change_role", targetID, err)
}

// Deactivate deshabilita la identidad y marca el perfil inactivo. Nadie puede desactivarse a sí mismo.
func (uc *UserUseCase) Deactivate(ctx context.Context, caller entity.Principal, targetID, reason string) error {
	target, err := uc.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if err := uc.Guard.AuthorizeDeactivation(caller, targetID); err != nil {
		return err
	}
	if err := uc.identities.SetDisabled(ctx, targetID, true); err != nil {
		return fmt.Errorf("deshabilitar identidad: %w", err)
	}
	now := uc.now()
	patch := repository.Document{"isActive": false, "deactivatedAt": now, "deactivatedBy": caller.ID}
	if err := uc.upsertProfile(ctx, target, caller.ID, patch); err != nil {
		return err
	}
	meta := audit.Target(entity.ResourceUser, targetID)
	meta[audit.MetaTargetUserID] = targetID
	meta["reason"] = reason
	_, err = uc.Audit.Log(ctx, entity.LogUserDeactivated, caller.ID, fmt.Sprintf("Usuario desactivado: %s", target.Email), meta)
	return logged("user.deactivate", targetID, err)
}

// Reactivate revierte una desactivación; aplica la misma regla que Deactivate.
func (uc *UserUseCase) Reactivate(ctx context.Context, caller entity.Principal, targetID string) error {
	target, err := uc.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if err := uc.Guard.AuthorizeDeactivation(caller, targetID); err != nil {
		return err
	}
	if err := uc.identities.SetDisabled(ctx, targetID, false); err != nil {
		return fmt.Errorf("habilitar identidad: %w", err)
	}
	patch := repository.Document{"isActive": true, "deactivatedAt": nil, "deactivatedBy": nil}
	if err := uc.upsertProfile(ctx, target, caller.ID, patch); err != nil {
		return err
	}
	meta := audit.Target(entity.ResourceUser, targetID)
	meta[audit.MetaTargetUserID] = targetID
	meta["action"] = "reactivated"
	_, err = uc.Audit.Log(ctx, entity.LogUserUpdated, caller.ID, fmt.Sprintf("Usuario reactivado: %s", target.Email), meta)
	return logged("user.reactivate", targetID, err)
}

// loadTarget resuelve el usuario destino de una operación administrativa.
func (uc *UserUseCase) loadTarget(ctx context.Context, targetID string) (*entity.Identity, error) {
	if targetID == "" {
		return nil, domain.NewError(domain.ErrInvalidArgument, "el id del usuario es obligatorio")
	}
	target, err := uc.identities.ResolveCaller(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("resolver usuario destino: %w", err)
	}
	if target == nil {
		return nil, notFound("usuario")
	}
	return target, nil
}

// Initialize crea el perfil de una identidad (creándola si no existe) con el rol inicial.
func (uc *UserUseCase) Initialize(ctx context.Context, caller entity.Principal, userID, email string, role entity.Role, password string) error {
	if err := uc.Guard.AuthorizeUserManagement(caller); err != nil {
		return err
	}
	if err := uc.Guard.AuthorizeRoleAssignment(caller, role); err != nil {
		return err
	}
	existing, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.NewError(domain.ErrAlreadyExists, "el usuario ya fue inicializado")
	}
	email = normalizeEmail(email)
	identity, err := uc.identities.ResolveCaller(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolver identidad: %w", err)
	}
	if identity == nil {
		if err := uc.identities.Create(ctx, entity.Identity{ID: userID, Email: email, Role: role}, password); err != nil {
			return err
		}
	} else if err := uc.identities.SetRole(ctx, userID, role); err != nil {
		return fmt.Errorf("asignar claim de rol: %w", err)
	}
	user := &entity.User{
		Base:        entity.Base{ID: userID},
		Email:       email,
		Role:        role,
		IsActive:    true,
		Preferences: entity.DefaultPreferences(),
	}
	if _, err := uc.users.Create(ctx, user, caller.ID); err != nil {
		return err
	}
	meta := audit.Target(entity.ResourceUser, userID)
	meta[audit.MetaTargetUserID] = userID
	meta["role"] = string(role)
	_, err = uc.Audit.Log(ctx, entity.LogUserCreated, caller.ID, fmt.Sprintf("Usuario %s inicializado con rol %s", email, role), meta)
	return logged("user.initialize", userID, err)
}

// ListByRole página de usuarios de un rol (todos si role está vacío).
func (uc *UserUseCase) ListByRole(ctx context.Context, caller entity.Principal, role entity.Role, req dto.PageRequest) (*dto.ListResponse[entity.User], error) {
	if err := uc.Guard.AuthorizeUserManagement(caller); err != nil {
		return nil, err
	}
	req.DefaultPage()
	q := repository.NewQuery()
	if role != "" {
		q = q.Where("role", repository.OpEqual, role)
	}
	q = q.Order("createdAt", repository.Desc)
	p, err := uc.users.QueryPaginated(ctx, q, req.Limit, req.Cursor)
	if err != nil {
		return nil, err
	}
	return toList(p, req.Limit, nil), nil
}

// Search usuarios activos cuyo nombre o email contiene el término (sin acentos ni mayúsculas).
func (uc *UserUseCase) Search(ctx context.Context, caller entity.Principal, term string) ([]*entity.User, error) {
	if err := uc.Guard.AuthorizeUserManagement(caller); err != nil {
		return nil, err
	}
	users, err := uc.users.Query(ctx, repository.NewQuery().Where("isActive", repository.OpEqual, true))
	if err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0)
	for _, u := range users {
		if matchesTerm(term, u.Profile.FirstName, u.Profile.LastName, u.Profile.FullName(), u.Email) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Stats totales por estado y por rol.
func (uc *UserUseCase) Stats(ctx context.Context, caller entity.Principal) (*dto.UserStats, error) {
	if err := uc.Guard.Authorize(caller, entity.PermViewReports); err != nil {
		return nil, err
	}
	return uc.stats(ctx)
}

func (uc *UserUseCase) stats(ctx context.Context) (*dto.UserStats, error) {
	users, err := uc.users.Query(ctx, repository.NewQuery())
	if err != nil {
		return nil, err
	}
	out := &dto.UserStats{ByRole: make(map[entity.Role]int)}
	for _, r := range entity.Roles() {
		out.ByRole[r] = 0
	}
	for _, u := range users {
		out.Total++
		if u.IsActive {
			out.Active++
		} else {
			out.Inactive++
		}
		out.ByRole[u.Role]++
	}
	return out, nil
}

// UpdateLastLogin marca el último acceso y registra el login. Si la identidad aún no tiene
// perfil (p. ej. el Owner sembrado por cmd/seed_owner) lo crea.
func (uc *UserUseCase) UpdateLastLogin(ctx context.Context, identity *entity.Identity) (*entity.User, error) {
	if err := uc.upsertProfile(ctx, identity, identity.ID, repository.Document{"lastLoginAt": uc.now()}); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("usuario")
	}
	meta := audit.Target(entity.ResourceUser, identity.ID)
	_, err = uc.Audit.Log(ctx, entity.LogLogin, identity.ID, fmt.Sprintf("Inicio de sesión: %s", user.Email), meta)
	return user, logged("user.login", identity.ID, err)
}

// upsertProfile aplica el parche al perfil o, si la identidad aún no tiene perfil, lo crea.
func (uc *UserUseCase) upsertProfile(ctx context.Context, identity *entity.Identity, actorID string, patch repository.Document) error {
	existing, err := uc.users.GetByID(ctx, identity.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return uc.users.Update(ctx, identity.ID, patch, actorID)
	}
	user := &entity.User{
		Base:        entity.Base{ID: identity.ID},
		Email:       identity.Email,
		Role:        identity.Role,
		IsActive:    !identity.Disabled,
		Preferences: entity.DefaultPreferences(),
	}
	if _, err := uc.users.Create(ctx, user, actorID); err != nil {
		return err
	}
	return uc.users.Update(ctx, identity.ID, patch, actorID)
}
