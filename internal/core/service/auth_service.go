package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/api/metrics"
	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// CredentialUpstream is the slice of the user service used before a session
// exists.
type CredentialUpstream interface {
	ExchangeCredentials(ctx context.Context, username, password string) (string, error)
	CreateUser(ctx context.Context, user domain.NewUser) (domain.Profile, error)
}

// AuthService implements registration, credential exchange and portal token
// issuing.
type AuthService struct {
	users     CredentialUpstream
	validate  *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users CredentialUpstream, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		validate:  validator.New(),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Authenticate trades credentials for the user service's bearer token.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.users.ExchangeCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUnauthorized) {
			metrics.LoginsTotal.WithLabelValues("bad_credentials").Inc()
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("authenticate: %w", err)
	}
	return token, nil
}

// Register validates the sign-up form locally and creates the account. Missing
// fields are reported before a password mismatch.
func (s *AuthService) Register(ctx context.Context, in ports.RegistrationInput) (*domain.Profile, error) {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := s.validateRegistration(in); err != nil {
		return nil, err
	}

	profile, err := s.users.CreateUser(ctx, domain.NewUser{
		Username: in.EmployeeID,
		FullName: in.FullName,
		Password: in.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("username", profile.Username).Int64("user_id", profile.ID).Msg("account registered")
	return &profile, nil
}

func (s *AuthService) validateRegistration(in ports.RegistrationInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	mismatch := false
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			return domain.ErrFieldsRequired
		case "eqfield":
			mismatch = true
		}
	}
	if mismatch {
		return domain.ErrPasswordMismatch
	}
	return err
}

// IssueToken signs the portal token carrying sessionID.
func (s *AuthService) IssueToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
