package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IdentityStore persists accounts, roles, and role membership. Lookups
// return (nil, nil) when the subject does not exist; all other failures
// propagate unchanged.
type IdentityStore interface {
	RoleExists(ctx context.Context, name string) (bool, error)
	CreateRole(ctx context.Context, name string) error

	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)

	// CreateUser persists a new account; a blank ID is assigned a fresh uuid.
	CreateUser(ctx context.Context, u *User) error
	ListUsers(ctx context.Context) ([]User, error)

	IsInRole(ctx context.Context, userID, role string) (bool, error)
	UserRoles(ctx context.Context, userID string) ([]string, error)
	AddToRole(ctx context.Context, userID, role string) error
	RemoveFromRole(ctx context.Context, userID, role string) error
}

type pgIdentityStore struct {
	db Querier
}

// NewIdentityStore constructs an IdentityStore backed by PostgreSQL.
func NewIdentityStore(db Querier) IdentityStore {
	return &pgIdentityStore{db: db}
}

func (s *pgIdentityStore) RoleExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("role exists %q: %w", name, err)
	}
	return exists, nil
}

func (s *pgIdentityStore) CreateRole(ctx context.Context, name string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
		name,
	)
	if err != nil {
		return fmt.Errorf("create role %q: %w", name, err)
	}
	return nil
}

func (s *pgIdentityStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, email_confirmed, created_at
		FROM users
		WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.EmailConfirmed, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %q: %w", email, err)
	}
	return u, nil
}

func (s *pgIdentityStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	u := &User{}
	err := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, email_confirmed, created_at
		FROM users
		WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.EmailConfirmed, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user id=%s: %w", id, err)
	}
	return u, nil
}

func (s *pgIdentityStore) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, email_confirmed)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		u.ID, u.Email, u.PasswordHash, u.EmailConfirmed,
	).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user %q: %w", u.Email, err)
	}
	return nil
}

func (s *pgIdentityStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, email, password_hash, email_confirmed, created_at
		FROM users
		ORDER BY email`,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.EmailConfirmed, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *pgIdentityStore) IsInRole(ctx context.Context, userID, role string) (bool, error) {
	var inRole bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM user_roles ur
			JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = $1 AND r.name = $2
		)`,
		userID, role,
	).Scan(&inRole)
	if err != nil {
		return false, fmt.Errorf("is in role %q: %w", role, err)
	}
	return inRole, nil
}

func (s *pgIdentityStore) UserRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("user roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user roles: %w", err)
	}
	return roles, nil
}

func (s *pgIdentityStore) AddToRole(ctx context.Context, userID, role string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING`,
		userID, role,
	)
	if err != nil {
		return fmt.Errorf("add user %s to role %q: %w", userID, role, err)
	}
	return nil
}

func (s *pgIdentityStore) RemoveFromRole(ctx context.Context, userID, role string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM user_roles
		WHERE user_id = $1 AND role_id = (SELECT id FROM roles WHERE name = $2)`,
		userID, role,
	)
	if err != nil {
		return fmt.Errorf("remove user %s from role %q: %w", userID, role, err)
	}
	return nil
}
