package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/hash"
	"github.com/userhub/account-service/internal/core/ports"
	"github.com/userhub/account-service/internal/core/token"
)

type stubUserRepo struct {
	users         map[string]*domain.User // keyed by email
	nextID        int
	findByIDCalls int
	createErr     error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.findByIDCalls++
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[created.Email] = cloneUser(created)
	return created, nil
}

type stubProfileCache struct {
	entries map[string]*domain.User
}

func newStubProfileCache() *stubProfileCache {
	return &stubProfileCache{entries: make(map[string]*domain.User)}
}

func (c *stubProfileCache) Get(_ context.Context, id string) (*domain.User, bool, error) {
	if u, ok := c.entries[id]; ok {
		return cloneUser(u), true, nil
	}
	return nil, false, nil
}

func (c *stubProfileCache) Set(_ context.Context, user *domain.User) error {
	c.entries[user.ID] = cloneUser(user)
	return nil
}

type stubAuditSink struct {
	events []ports.AuditEventInput
}

func (s *stubAuditSink) Enqueue(event ports.AuditEventInput) {
	s.events = append(s.events, event)
}

func newTestService(t *testing.T, repo ports.UserRepository, cache ports.ProfileCache, sink ports.AuditSink) (*UserService, *token.Issuer) {
	t.Helper()
	issuer, err := token.NewIssuer("secret")
	if err != nil {
		t.Fatalf("NewIssuer returned error: %v", err)
	}
	return NewUserService(repo, cache, issuer, sink, zerolog.Nop()), issuer
}

func TestUserService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	sink := &stubAuditSink{}
	svc, issuer := newTestService(t, repo, newStubProfileCache(), sink)

	user, signed, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "alice smith",
		Email:    "alice@example.com",
		Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if user.IsAdmin {
		t.Fatalf("registration must not elevate the admin flag")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if !hash.Verify("pass123", user.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}

	claims, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token bound to %s, want %s", claims.UserID, user.ID)
	}
	if claims.IsAdmin {
		t.Fatalf("token must carry isAdmin=false for a fresh registration")
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(sink.events))
	}
	if sink.events[0].Action != domain.AuditRegistered || sink.events[0].UserID != user.ID {
		t.Fatalf("unexpected audit event: %+v", sink.events[0])
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(t, repo, newStubProfileCache(), &stubAuditSink{})

	input := ports.RegisterInput{Name: "bob jones", Email: "bob@example.com", Password: "pass123"}
	if _, _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), input); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(repo.users))
	}
}

func TestUserService_Register_DuplicateRace(t *testing.T) {
	// The pre-check misses, the store's uniqueness constraint fires: the loser
	// must still surface as a duplicate registration, not an internal fault.
	repo := newStubUserRepo()
	repo.createErr = domain.ErrUserExists
	svc, _ := newTestService(t, repo, newStubProfileCache(), &stubAuditSink{})

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "carol davis",
		Email:    "carol@example.com",
		Password: "pass123",
	})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Profile_ReadThroughCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubProfileCache()
	svc, _ := newTestService(t, repo, cache, &stubAuditSink{})

	created, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "dave evans",
		Email:    "dave@example.com",
		Password: "pass123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first, err := svc.Profile(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if first.Email != "dave@example.com" {
		t.Fatalf("unexpected profile: %+v", first)
	}
	if repo.findByIDCalls != 1 {
		t.Fatalf("expected 1 repo lookup, got %d", repo.findByIDCalls)
	}

	if _, err := svc.Profile(context.Background(), created.ID); err != nil {
		t.Fatalf("cached Profile returned error: %v", err)
	}
	if repo.findByIDCalls != 1 {
		t.Fatalf("second lookup should hit the cache, repo calls: %d", repo.findByIDCalls)
	}
}

func TestUserService_Profile_NotFound(t *testing.T) {
	svc, _ := newTestService(t, newStubUserRepo(), newStubProfileCache(), &stubAuditSink{})

	if _, err := svc.Profile(context.Background(), "ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
