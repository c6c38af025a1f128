package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

type stubAdminRepo struct {
	admins map[string]*domain.Admin
	err    error
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{admins: make(map[string]*domain.Admin)}
}

func cloneAdmin(a *domain.Admin) *domain.Admin {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAdminRepo) Create(_ context.Context, admin *domain.Admin) (*domain.Admin, error) {
	if _, exists := r.admins[admin.Email]; exists {
		return nil, domain.ErrDuplicate
	}
	copy := cloneAdmin(admin)
	if copy.ID == "" {
		copy.ID = "adm-" + admin.Email
	}
	r.admins[copy.Email] = cloneAdmin(copy)
	return cloneAdmin(copy), nil
}

func (r *stubAdminRepo) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	if r.err != nil {
		return nil, r.err
	}
	if a, ok := r.admins[email]; ok {
		return cloneAdmin(a), nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubAdminRepo) Count(_ context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.admins)), nil
}

func TestAuthService_CreateAdmin_Success(t *testing.T) {
	repo := newStubAdminRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	admin, err := svc.CreateAdmin(context.Background(), " HR@Example.com ", "pass1234")
	if err != nil {
		t.Fatalf("CreateAdmin returned error: %v", err)
	}
	if admin.Email != "hr@example.com" {
		t.Fatalf("expected normalised email, got %q", admin.Email)
	}
	if admin.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", admin.Role)
	}

	has, err := svc.HasAdmin(context.Background())
	if err != nil || !has {
		t.Fatalf("expected HasAdmin to be true, got %v %v", has, err)
	}
}

func TestAuthService_CreateAdmin_Validation(t *testing.T) {
	svc := NewAuthService(newStubAdminRepo(), "secret", time.Hour, zerolog.Nop())

	if _, err := svc.CreateAdmin(context.Background(), "not-an-email", "pass1234"); domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected invalid_input for bad email, got %v", err)
	}
	if _, err := svc.CreateAdmin(context.Background(), "a@example.com", "short"); domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected invalid_input for short password, got %v", err)
	}
}

func TestAuthService_CreateAdmin_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubAdminRepo(), "secret", time.Hour, zerolog.Nop())

	_, _ = svc.CreateAdmin(context.Background(), "bob@example.com", "pass1234")
	if _, err := svc.CreateAdmin(context.Background(), "bob@example.com", "pass5678"); domain.KindOf(err) != domain.KindDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := NewAuthService(newStubAdminRepo(), "secret", time.Hour, zerolog.Nop())

	if _, err := svc.CreateAdmin(context.Background(), "carol@example.com", "s3cret99"); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	token, admin, err := svc.Login(context.Background(), "carol@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if admin == nil || admin.Email != "carol@example.com" {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
	if claims["email"] != "carol@example.com" || claims["id"] != admin.ID {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := NewAuthService(newStubAdminRepo(), "secret", time.Hour, zerolog.Nop())

	_, _ = svc.CreateAdmin(context.Background(), "dave@example.com", "goodpass")
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubAdminRepo(), "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	repo := newStubAdminRepo()
	repo.err = errors.New("no reachable servers")
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "a@example.com", "pass"); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
