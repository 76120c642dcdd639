package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

type stubAuthService struct {
	authenticateFn func(ctx context.Context, username, password string) (string, error)
	registerFn     func(ctx context.Context, in ports.RegistrationInput) (*domain.Profile, error)
	issued         []string
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegistrationInput) (*domain.Profile, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) IssueToken(sessionID string) (string, error) {
	s.issued = append(s.issued, sessionID)
	return "portal-" + sessionID, nil
}

type stubSessionService struct {
	profiles    map[string]*domain.Profile // upstream token -> profile
	sessions    map[string]domain.Session
	loggedOut   []string
	loginErrors map[string]string
	markErr     error
	marked      []int64
}

func (s *stubSessionService) Login(_ context.Context, sid, token string) *domain.Profile {
	p := s.profiles[token]
	if p != nil {
		if s.sessions == nil {
			s.sessions = map[string]domain.Session{}
		}
		s.sessions[sid] = domain.Session{Profile: p, Capabilities: domain.CapabilitiesFor(p.Role), BearerToken: token}
		return p
	}
	if s.loginErrors == nil {
		s.loginErrors = map[string]string{}
	}
	s.loginErrors[sid] = "could not load your profile"
	return p
}

func (s *stubSessionService) LoginError(sid string) string {
	return s.loginErrors[sid]
}

func (s *stubSessionService) Logout(_ context.Context, sid string) error {
	s.loggedOut = append(s.loggedOut, sid)
	delete(s.sessions, sid)
	return nil
}

func (s *stubSessionService) Session(_ context.Context, sid string) (domain.Session, error) {
	sess, ok := s.sessions[sid]
	if !ok {
		return domain.Session{}, domain.ErrNotLoggedIn
	}
	return sess, nil
}

func (s *stubSessionService) MarkNotificationRead(_ context.Context, sid string, id int64) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.marked = append(s.marked, id)
	sess := s.sessions[sid]
	sess.Notifications = domain.WithoutNotification(sess.Notifications, id)
	s.sessions[sid] = sess
	return nil
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegistrationInput) (*domain.Profile, error) {
			if in.EmployeeID != "E1001" || in.FullName != "Alice" || in.ConfirmPassword != "pw" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Profile{ID: 3, Username: in.EmployeeID, FullName: in.FullName, Role: domain.RoleEmployee}, nil
		},
	}
	handler := NewAuthHandler(stub, &stubSessionService{})

	c, rec := newJSONContext(e, http.MethodPost, "/auth/register",
		`{"employee_id":"E1001","full_name":"Alice","password":"pw","confirm_password":"pw"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "E1001" || user["role"] != "employee" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Register_PassesServiceErrors(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegistrationInput) (*domain.Profile, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, &stubSessionService{})

	c, _ := newJSONContext(e, http.MethodPost, "/auth/register", `{"employee_id":"E1"}`)
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	auth := &stubAuthService{
		authenticateFn: func(_ context.Context, username, password string) (string, error) {
			if username != "alice" || password != "secret" {
				return "", domain.ErrInvalidCredentials
			}
			return "upstream-tok", nil
		},
	}
	sessions := &stubSessionService{profiles: map[string]*domain.Profile{
		"upstream-tok": {ID: 7, Username: "alice", Role: domain.RoleClerk},
	}}
	handler := NewAuthHandler(auth, sessions)
	handler.newID = func() string { return "sid-1" }

	c, rec := newJSONContext(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Token        string              `json:"token"`
		User         domain.Profile      `json:"user"`
		Capabilities domain.Capabilities `json:"capabilities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "portal-sid-1" || resp.User.Username != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Capabilities.IsClerk || resp.Capabilities.IsAdmin {
		t.Fatalf("unexpected capabilities: %+v", resp.Capabilities)
	}
	if _, err := sessions.Session(context.Background(), "sid-1"); err != nil {
		t.Fatalf("session not opened: %v", err)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	e := newEcho()
	auth := &stubAuthService{
		authenticateFn: func(context.Context, string, string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(auth, &stubSessionService{})

	c, _ := newJSONContext(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"nope"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(auth.issued) != 0 {
		t.Fatalf("no portal token should be issued")
	}
}

func TestAuthHandler_Login_ProfileFailure(t *testing.T) {
	e := newEcho()
	auth := &stubAuthService{
		authenticateFn: func(context.Context, string, string) (string, error) {
			return "tok-without-profile", nil
		},
	}
	sessions := &stubSessionService{}
	handler := NewAuthHandler(auth, sessions)
	handler.newID = func() string { return "sid-failed" }

	c, _ := newJSONContext(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`)
	err := handler.Login(c)
	if !errors.Is(err, domain.ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized || he.Message != "could not load your profile" {
		t.Fatalf("expected 401 with the session's failure message, got %v", err)
	}
	if len(auth.issued) != 0 {
		t.Fatalf("no portal token should be issued")
	}
	if len(sessions.loggedOut) != 1 || sessions.loggedOut[0] != "sid-failed" {
		t.Fatalf("failed session must be dropped, got %v", sessions.loggedOut)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, &stubSessionService{})

	c, _ := newJSONContext(e, http.MethodPost, "/auth/login", `{"username":`)
	err := handler.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	sessions := &stubSessionService{sessions: map[string]domain.Session{"sid-1": {Profile: &domain.Profile{ID: 7}}}}
	handler := NewAuthHandler(&stubAuthService{}, sessions)

	c, rec := newJSONContext(e, http.MethodPost, "/auth/logout", "")
	c.Set(SessionIDKey, "sid-1")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || len(sessions.loggedOut) != 1 || sessions.loggedOut[0] != "sid-1" {
		t.Fatalf("expected sid-1 logged out, got %d %v", rec.Code, sessions.loggedOut)
	}
}
