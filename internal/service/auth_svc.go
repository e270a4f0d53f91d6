package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/repository"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/auth"
)

type AuthSvc struct {
	users  *repository.UserRepo
	signer *auth.Signer
}

func NewAuthSvc(users *repository.UserRepo, signer *auth.Signer) *AuthSvc {
	return &AuthSvc{users: users, signer: signer}
}

func (s *AuthSvc) Register(ctx context.Context, email, password, name, role string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	r := domain.Role(strings.ToUpper(role))
	switch r {
	case domain.RoleRenter, domain.RoleOwner, domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{Email: email, PasswordHash: string(hash), Name: name, Role: r}
	return u, s.users.Create(ctx, u)
}

func (s *AuthSvc) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", domain.ErrForbidden
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrForbidden
	}
	token, err := s.signer.CreateAccessToken(u.ID, string(u.Role), u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
