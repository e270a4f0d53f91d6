package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/auth"
)

func newAuthFixture(t *testing.T) *AuthSvc {
	t.Helper()
	f := newFixture(t, false)
	signer := auth.NewSigner("test-secret", time.Hour)
	return NewAuthSvc(f.users, signer)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Renter@Example.com", "s3cret", "Asha", "renter")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "renter@example.com" {
		t.Fatalf("email = %q, want lowercased", u.Email)
	}
	if u.Role != domain.RoleRenter {
		t.Fatalf("role = %s, want RENTER", u.Role)
	}
	if u.PasswordHash == "s3cret" {
		t.Fatal("password stored in the clear")
	}

	got, token, err := svc.Login(ctx, "renter@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID || token == "" {
		t.Fatalf("login returned id=%q token=%q", got.ID, token)
	}
}

func TestRegisterRejectsDuplicateAndBadRole(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.com", "pw", "A", "OWNER"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "a@b.com", "pw2", "B", "OWNER"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("duplicate email: want ErrValidation, got %v", err)
	}
	if _, err := svc.Register(ctx, "c@d.com", "pw", "C", "superuser"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad role: want ErrValidation, got %v", err)
	}
	if _, err := svc.Register(ctx, "", "pw", "C", "RENTER"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty email: want ErrValidation, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.com", "pw", "A", "RENTER"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "a@b.com", "wrong"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("bad password: want ErrForbidden, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@b.com", "pw"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("unknown user: want ErrForbidden, got %v", err)
	}
}

func TestRandomCodeShape(t *testing.T) {
	src := NewCodeSource()
	for i := 0; i < 50; i++ {
		code, err := src.Code()
		if err != nil {
			t.Fatalf("code: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil || n < 100000 || n > 999999 {
			t.Fatalf("code %q out of range", code)
		}
	}
}
