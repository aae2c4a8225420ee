package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultAccounts carries the configured example-account slots. A slot with
// a blank email or password is skipped during seeding, not treated as an
// error.
type DefaultAccounts struct {
	AdminEmail       string
	AdminPassword    string
	ReadOnlyEmail    string
	ReadOnlyPassword string
}

// UserService manages accounts and role membership on top of the identity
// store.
type UserService interface {
	// EnsureRoles creates the two fixed roles if they do not already exist.
	// Each role is handled independently; there is no transaction across
	// them.
	EnsureRoles(ctx context.Context) error

	// SeedExampleUsers creates the configured admin and read-only accounts
	// when absent. Slots with blank configuration are skipped with a warning.
	SeedExampleUsers(ctx context.Context) error

	// GetAllUsers lists every account with its derived isAdmin flag. One
	// role-membership query is issued per account; fine at directory scale,
	// a known cost if the account table ever grows large.
	GetAllUsers(ctx context.Context) ([]UserModel, error)

	// SetIsAdmin grants or revokes the Admin role on the target account.
	// Requires the Admin role on the caller; a missing target is a logged
	// no-op, and re-applying the current state changes nothing.
	SetIsAdmin(ctx context.Context, auth AuthContext, id string, isAdmin bool) error

	// GetUser returns one account as a UserModel, or (nil, nil) when absent.
	GetUser(ctx context.Context, id string) (*UserModel, error)

	// Authenticate verifies credentials and returns the account on success.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// RolesForUser returns the role names the account holds; transport
	// layers call this per request to build a fresh AuthContext.
	RolesForUser(ctx context.Context, id string) ([]string, error)
}

type userService struct {
	store    IdentityStore
	defaults DefaultAccounts
}

// NewUserService constructs a UserService over the given identity store.
func NewUserService(store IdentityStore, defaults DefaultAccounts) UserService {
	return &userService{store: store, defaults: defaults}
}

func (s *userService) EnsureRoles(ctx context.Context) error {
	for _, role := range []string{RoleAdmin, RoleReadOnly} {
		exists, err := s.store.RoleExists(ctx, role)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.store.CreateRole(ctx, role); err != nil {
			return err
		}
	}
	return nil
}

func (s *userService) SeedExampleUsers(ctx context.Context) error {
	slots := []struct {
		name     string
		email    string
		password string
		role     string
	}{
		{"admin", s.defaults.AdminEmail, s.defaults.AdminPassword, RoleAdmin},
		{"read-only", s.defaults.ReadOnlyEmail, s.defaults.ReadOnlyPassword, RoleReadOnly},
	}

	for _, slot := range slots {
		if strings.TrimSpace(slot.email) == "" || strings.TrimSpace(slot.password) == "" {
			slog.Warn("default user email or password is not configured, skipping", "slot", slot.name)
			continue
		}

		existing, err := s.store.GetUserByEmail(ctx, slot.email)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(slot.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash %s password: %w", slot.name, err)
		}

		u := &User{
			Email:          slot.email,
			PasswordHash:   string(hash),
			EmailConfirmed: true,
		}
		if err := s.store.CreateUser(ctx, u); err != nil {
			return err
		}
		if err := s.store.AddToRole(ctx, u.ID, slot.role); err != nil {
			return err
		}
		slog.Info("example user created", "email", slot.email, "role", slot.role)
	}
	return nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]UserModel, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]UserModel, 0, len(users))
	for _, u := range users {
		isAdmin, err := s.store.IsInRole(ctx, u.ID, RoleAdmin)
		if err != nil {
			return nil, err
		}
		models = append(models, UserModel{ID: u.ID, Email: u.Email, IsAdmin: isAdmin})
	}
	return models, nil
}

func (s *userService) SetIsAdmin(ctx context.Context, auth AuthContext, id string, isAdmin bool) error {
	if !auth.HasRole(RoleAdmin) {
		return fmt.Errorf("set admin state: %w", ErrUnauthorized)
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		slog.Warn("user not found for admin toggle, skipping", "id", id)
		return nil
	}

	inRole, err := s.store.IsInRole(ctx, user.ID, RoleAdmin)
	if err != nil {
		return err
	}

	switch {
	case isAdmin && !inRole:
		if err := s.store.AddToRole(ctx, user.ID, RoleAdmin); err != nil {
			return err
		}
		slog.Info("user added to Admin role", "email", user.Email)
	case !isAdmin && inRole:
		if err := s.store.RemoveFromRole(ctx, user.ID, RoleAdmin); err != nil {
			return err
		}
		slog.Info("user removed from Admin role", "email", user.Email)
	}
	return nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*UserModel, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	isAdmin, err := s.store.IsInRole(ctx, user.ID, RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &UserModel{ID: user.ID, Email: user.Email, IsAdmin: isAdmin}, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("authenticate %q: %w", email, ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("authenticate %q: %w", email, ErrUnauthorized)
	}
	return user, nil
}

func (s *userService) RolesForUser(ctx context.Context, id string) ([]string, error) {
	return s.store.UserRoles(ctx, id)
}
