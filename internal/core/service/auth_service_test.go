package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

type stubCredentials struct {
	tokens  map[string]string // username -> token
	created []domain.NewUser
	exchErr error
}

func (c *stubCredentials) ExchangeCredentials(_ context.Context, username, password string) (string, error) {
	if c.exchErr != nil {
		return "", c.exchErr
	}
	tok, ok := c.tokens[username]
	if !ok || password != "secret" {
		return "", domain.ErrInvalidCredentials
	}
	return tok, nil
}

func (c *stubCredentials) CreateUser(_ context.Context, u domain.NewUser) (domain.Profile, error) {
	for _, existing := range c.created {
		if existing.Username == u.Username {
			return domain.Profile{}, domain.ErrUserExists
		}
	}
	c.created = append(c.created, u)
	return domain.Profile{ID: int64(len(c.created)), Username: u.Username, FullName: u.FullName, Role: domain.RoleEmployee}, nil
}

func newAuthSvc(users *stubCredentials) *AuthService {
	return NewAuthService(users, "portal-secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Authenticate(t *testing.T) {
	svc := newAuthSvc(&stubCredentials{tokens: map[string]string{"alice": "tok-a"}})

	tok, err := svc.Authenticate(context.Background(), " alice ", "secret")
	if err != nil || tok != "tok-a" {
		t.Fatalf("expected tok-a, got %q (%v)", tok, err)
	}

	if _, err := svc.Authenticate(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "", "secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty username, got %v", err)
	}
}

func TestAuthService_Authenticate_UpstreamDown(t *testing.T) {
	svc := newAuthSvc(&stubCredentials{exchErr: domain.ErrUpstreamUnavailable})

	_, err := svc.Authenticate(context.Background(), "alice", "secret")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	users := &stubCredentials{}
	svc := newAuthSvc(users)

	profile, err := svc.Register(context.Background(), ports.RegistrationInput{
		EmployeeID:      "E1001",
		FullName:        "Alice Chen",
		Password:        "pw",
		ConfirmPassword: "pw",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if profile.Username != "E1001" || profile.Role != domain.RoleEmployee {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if len(users.created) != 1 || users.created[0].FullName != "Alice Chen" {
		t.Fatalf("unexpected upstream call: %+v", users.created)
	}
}

// Missing fields win over a mismatched confirmation.
func TestAuthService_Register_ValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		in   ports.RegistrationInput
		want error
	}{
		{
			name: "missing name and mismatch",
			in:   ports.RegistrationInput{EmployeeID: "E1", Password: "a", ConfirmPassword: "b"},
			want: domain.ErrFieldsRequired,
		},
		{
			name: "missing confirmation",
			in:   ports.RegistrationInput{EmployeeID: "E1", FullName: "A", Password: "a"},
			want: domain.ErrFieldsRequired,
		},
		{
			name: "blank employee id",
			in:   ports.RegistrationInput{EmployeeID: "   ", FullName: "A", Password: "a", ConfirmPassword: "a"},
			want: domain.ErrFieldsRequired,
		},
		{
			name: "mismatch only",
			in:   ports.RegistrationInput{EmployeeID: "E1", FullName: "A", Password: "a", ConfirmPassword: "b"},
			want: domain.ErrPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &stubCredentials{}
			_, err := newAuthSvc(users).Register(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(users.created) != 0 {
				t.Fatalf("invalid form must not reach the user service")
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	users := &stubCredentials{created: []domain.NewUser{{Username: "E1"}}}
	_, err := newAuthSvc(users).Register(context.Background(), ports.RegistrationInput{
		EmployeeID: "E1", FullName: "A", Password: "a", ConfirmPassword: "a",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_IssueToken(t *testing.T) {
	svc := newAuthSvc(&stubCredentials{})

	signed, err := svc.IssueToken("sid-123")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("portal-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("token did not validate: %v", err)
	}
	if claims["sid"] != "sid-123" {
		t.Fatalf("expected sid claim, got %v", claims["sid"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("expected exp claim")
	}
}
