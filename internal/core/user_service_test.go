package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// fakeIdentityStore is an in-memory IdentityStore for service tests.
type fakeIdentityStore struct {
	roles   map[string]bool
	users   map[string]User            // by id
	inRole  map[string]map[string]bool // userID -> role -> member
	nextSeq int
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{
		roles:  map[string]bool{},
		users:  map[string]User{},
		inRole: map[string]map[string]bool{},
	}
}

func (f *fakeIdentityStore) RoleExists(ctx context.Context, name string) (bool, error) {
	return f.roles[name], nil
}

func (f *fakeIdentityStore) CreateRole(ctx context.Context, name string) error {
	f.roles[name] = true
	return nil
}

func (f *fakeIdentityStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeIdentityStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeIdentityStore) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		f.nextSeq++
		u.ID = fmt.Sprintf("user-%d", f.nextSeq)
	}
	u.CreatedAt = time.Now().UTC()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeIdentityStore) ListUsers(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (f *fakeIdentityStore) IsInRole(ctx context.Context, userID, role string) (bool, error) {
	return f.inRole[userID][role], nil
}

func (f *fakeIdentityStore) UserRoles(ctx context.Context, userID string) ([]string, error) {
	var roles []string
	for role, member := range f.inRole[userID] {
		if member {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return roles, nil
}

func (f *fakeIdentityStore) AddToRole(ctx context.Context, userID, role string) error {
	if f.inRole[userID] == nil {
		f.inRole[userID] = map[string]bool{}
	}
	f.inRole[userID][role] = true
	return nil
}

func (f *fakeIdentityStore) RemoveFromRole(ctx context.Context, userID, role string) error {
	delete(f.inRole[userID], role)
	return nil
}

func testDefaults() DefaultAccounts {
	return DefaultAccounts{
		AdminEmail:       "admin@example.com",
		AdminPassword:    "admin-secret",
		ReadOnlyEmail:    "reader@example.com",
		ReadOnlyPassword: "reader-secret",
	}
}

func TestEnsureRoles(t *testing.T) {
	ctx := context.Background()
	store := newFakeIdentityStore()
	svc := NewUserService(store, testDefaults())

	if err := svc.EnsureRoles(ctx); err != nil {
		t.Fatalf("EnsureRoles: %v", err)
	}
	if !store.roles[RoleAdmin] || !store.roles[RoleReadOnly] {
		t.Fatalf("roles missing: %v", store.roles)
	}

	// Second run must not fail on existing roles.
	if err := svc.EnsureRoles(ctx); err != nil {
		t.Fatalf("second EnsureRoles: %v", err)
	}
}

func TestSeedExampleUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("creates both configured accounts", func(t *testing.T) {
		store := newFakeIdentityStore()
		svc := NewUserService(store, testDefaults())
		if err := svc.EnsureRoles(ctx); err != nil {
			t.Fatalf("EnsureRoles: %v", err)
		}

		if err := svc.SeedExampleUsers(ctx); err != nil {
			t.Fatalf("SeedExampleUsers: %v", err)
		}
		if len(store.users) != 2 {
			t.Fatalf("expected 2 users, got %d", len(store.users))
		}

		admin, _ := store.GetUserByEmail(ctx, "admin@example.com")
		if admin == nil {
			t.Fatal("admin account not created")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin-secret")); err != nil {
			t.Errorf("admin password hash does not verify: %v", err)
		}
		if isAdmin, _ := store.IsInRole(ctx, admin.ID, RoleAdmin); !isAdmin {
			t.Error("admin account missing Admin role")
		}

		reader, _ := store.GetUserByEmail(ctx, "reader@example.com")
		if reader == nil {
			t.Fatal("read-only account not created")
		}
		if inRole, _ := store.IsInRole(ctx, reader.ID, RoleReadOnly); !inRole {
			t.Error("read-only account missing ReadOnly role")
		}
	})

	t.Run("skips blank slots without error", func(t *testing.T) {
		store := newFakeIdentityStore()
		defaults := testDefaults()
		defaults.ReadOnlyPassword = ""
		svc := NewUserService(store, defaults)

		if err := svc.SeedExampleUsers(ctx); err != nil {
			t.Fatalf("SeedExampleUsers: %v", err)
		}
		if len(store.users) != 1 {
			t.Fatalf("expected 1 user, got %d", len(store.users))
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := newFakeIdentityStore()
		svc := NewUserService(store, testDefaults())

		if err := svc.SeedExampleUsers(ctx); err != nil {
			t.Fatalf("SeedExampleUsers: %v", err)
		}
		if err := svc.SeedExampleUsers(ctx); err != nil {
			t.Fatalf("second SeedExampleUsers: %v", err)
		}
		if len(store.users) != 2 {
			t.Fatalf("expected 2 users after reseed, got %d", len(store.users))
		}
	})
}

func TestGetAllUsers(t *testing.T) {
	ctx := context.Background()
	store := newFakeIdentityStore()
	svc := NewUserService(store, testDefaults())

	if err := svc.SeedExampleUsers(ctx); err != nil {
		t.Fatalf("SeedExampleUsers: %v", err)
	}

	models, err := svc.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("GetAllUsers: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 users, got %d", len(models))
	}

	// ListUsers orders by email: admin@ sorts before reader@.
	if !models[0].IsAdmin {
		t.Errorf("admin account reported isAdmin=false")
	}
	if models[1].IsAdmin {
		t.Errorf("read-only account reported isAdmin=true")
	}
}

func TestSetIsAdmin(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (UserService, *fakeIdentityStore, string) {
		t.Helper()
		store := newFakeIdentityStore()
		svc := NewUserService(store, testDefaults())
		if err := svc.SeedExampleUsers(ctx); err != nil {
			t.Fatalf("SeedExampleUsers: %v", err)
		}
		reader, _ := store.GetUserByEmail(ctx, "reader@example.com")
		return svc, store, reader.ID
	}

	t.Run("grants and revokes the role", func(t *testing.T) {
		svc, store, readerID := setup(t)

		if err := svc.SetIsAdmin(ctx, adminAuth, readerID, true); err != nil {
			t.Fatalf("SetIsAdmin grant: %v", err)
		}
		if inRole, _ := store.IsInRole(ctx, readerID, RoleAdmin); !inRole {
			t.Fatal("role not granted")
		}

		if err := svc.SetIsAdmin(ctx, adminAuth, readerID, false); err != nil {
			t.Fatalf("SetIsAdmin revoke: %v", err)
		}
		if inRole, _ := store.IsInRole(ctx, readerID, RoleAdmin); inRole {
			t.Fatal("role not revoked")
		}
	})

	t.Run("re-applying the current state changes nothing", func(t *testing.T) {
		svc, store, readerID := setup(t)

		if err := svc.SetIsAdmin(ctx, adminAuth, readerID, false); err != nil {
			t.Fatalf("SetIsAdmin: %v", err)
		}
		if inRole, _ := store.IsInRole(ctx, readerID, RoleAdmin); inRole {
			t.Fatal("role appeared out of nowhere")
		}

		if err := svc.SetIsAdmin(ctx, adminAuth, readerID, true); err != nil {
			t.Fatalf("SetIsAdmin: %v", err)
		}
		if err := svc.SetIsAdmin(ctx, adminAuth, readerID, true); err != nil {
			t.Fatalf("repeated SetIsAdmin: %v", err)
		}
		if inRole, _ := store.IsInRole(ctx, readerID, RoleAdmin); !inRole {
			t.Fatal("role lost on repeated grant")
		}
	})

	t.Run("missing user is a silent no-op", func(t *testing.T) {
		svc, _, _ := setup(t)
		if err := svc.SetIsAdmin(ctx, adminAuth, "no-such-user", true); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		svc, store, readerID := setup(t)

		if err := svc.SetIsAdmin(ctx, readOnlyAuth, readerID, true); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if inRole, _ := store.IsInRole(ctx, readerID, RoleAdmin); inRole {
			t.Fatal("role granted by a non-admin")
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := newFakeIdentityStore()
	svc := NewUserService(store, testDefaults())
	if err := svc.SeedExampleUsers(ctx); err != nil {
		t.Fatalf("SeedExampleUsers: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "admin@example.com", "admin-secret")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if u.Email != "admin@example.com" {
			t.Errorf("email = %q", u.Email)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "admin@example.com", "nope"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "ghost@example.com", "whatever"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	store := newFakeIdentityStore()
	svc := NewUserService(store, testDefaults())
	if err := svc.SeedExampleUsers(ctx); err != nil {
		t.Fatalf("SeedExampleUsers: %v", err)
	}

	admin, _ := store.GetUserByEmail(ctx, "admin@example.com")

	got, err := svc.GetUser(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got == nil || !got.IsAdmin {
		t.Fatalf("unexpected model: %+v", got)
	}

	absent, err := svc.GetUser(ctx, "no-such-user")
	if err != nil {
		t.Fatalf("GetUser absent: %v", err)
	}
	if absent != nil {
		t.Fatalf("expected nil for absent user, got %+v", absent)
	}
}
