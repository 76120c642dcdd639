package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

type stubMenuService struct {
	cards   []ports.MealCard
	board   *ports.MenuBoard
	created []domain.MenuItemInput
	updated map[int64]domain.MenuItemInput
	deleted []int64
	period  domain.ReportPeriod
}

func (s *stubMenuService) TodayMeals(context.Context, domain.Session) ([]ports.MealCard, error) {
	return s.cards, nil
}

func (s *stubMenuService) Board(context.Context, domain.Session) (*ports.MenuBoard, error) {
	return s.board, nil
}

func (s *stubMenuService) CreateItem(_ context.Context, _ domain.Session, in domain.MenuItemInput) (domain.MenuItem, error) {
	s.created = append(s.created, in)
	return domain.MenuItem{ID: 11, ZhName: in.ZhName, Price: in.Price}, nil
}

func (s *stubMenuService) UpdateItem(_ context.Context, _ domain.Session, id int64, in domain.MenuItemInput) error {
	if id == 404 {
		return domain.ErrNotFound
	}
	if s.updated == nil {
		s.updated = map[int64]domain.MenuItemInput{}
	}
	s.updated[id] = in
	return nil
}

func (s *stubMenuService) DeleteItem(_ context.Context, _ domain.Session, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubMenuService) ToggleAvailability(_ context.Context, _ domain.Session, id int64) (domain.MenuItem, error) {
	return domain.MenuItem{ID: id, IsAvailable: true}, nil
}

func (s *stubMenuService) ExportReport(_ context.Context, _ domain.Session, period domain.ReportPeriod) (io.ReadCloser, error) {
	s.period = period
	return io.NopCloser(strings.NewReader("date,orders\n2025-05-01,3\n")), nil
}

func adminSession() domain.Session {
	return domain.Session{
		Profile:      &domain.Profile{ID: 1, Username: "boss", Role: domain.RoleAdmin},
		Capabilities: domain.CapabilitiesFor(domain.RoleAdmin),
		BearerToken:  "admin-tok",
	}
}

func TestMenuHandler_Today(t *testing.T) {
	e := newEcho()
	handler := NewMenuHandler(&stubMenuService{cards: []ports.MealCard{
		{ID: 1, Name: "牛肉麵", Price: 120, Available: true, TotalReviews: 3, GoodReviews: 2, Recommendation: "67%"},
	}})

	c, rec := newJSONContext(e, http.MethodGet, "/meals/today", "")
	c.Set(SessionKey, employeeSession())

	if err := handler.Today(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []mealCardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].Recommendation != "67%" || !resp[0].Available {
		t.Fatalf("unexpected cards: %+v", resp)
	}
}

func TestMenuHandler_BoardRendersEmptyLists(t *testing.T) {
	e := newEcho()
	handler := NewMenuHandler(&stubMenuService{board: &ports.MenuBoard{}})

	c, rec := newJSONContext(e, http.MethodGet, "/menu", "")
	c.Set(SessionKey, adminSession())

	if err := handler.Board(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"today":[],"others":[]}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestMenuHandler_Create(t *testing.T) {
	e := newEcho()
	svc := &stubMenuService{}
	handler := NewMenuHandler(svc)

	c, rec := newJSONContext(e, http.MethodPost, "/menu", `{"zh_name":"滷肉飯","en_name":"Braised pork rice","price":60,"is_available":true}`)
	c.Set(SessionKey, adminSession())

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || len(svc.created) != 1 || !svc.created[0].IsAvailable {
		t.Fatalf("unexpected create: %d %+v", rec.Code, svc.created)
	}
}

func TestMenuHandler_Create_Validation(t *testing.T) {
	for _, body := range []string{
		`{"en_name":"no chinese name","price":60}`,
		`{"zh_name":"滷肉飯","price":0}`,
		`{"zh_name":"滷肉飯","price":60,"url":"not a url"}`,
	} {
		e := newEcho()
		svc := &stubMenuService{}
		handler := NewMenuHandler(svc)

		c, _ := newJSONContext(e, http.MethodPost, "/menu", body)
		c.Set(SessionKey, adminSession())

		err := handler.Create(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %v", body, err)
		}
		if len(svc.created) != 0 {
			t.Fatalf("%s: invalid item reached the service", body)
		}
	}
}

func TestMenuHandler_UpdateAndDelete(t *testing.T) {
	e := newEcho()
	svc := &stubMenuService{}
	handler := NewMenuHandler(svc)

	c, rec := newJSONContext(e, http.MethodPut, "/menu/4", `{"zh_name":"牛肉麵","price":130}`)
	c.SetParamNames("id")
	c.SetParamValues("4")
	c.Set(SessionKey, adminSession())
	if err := handler.Update(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("update: %d %v", rec.Code, err)
	}
	if svc.updated[4].Price != 130 {
		t.Fatalf("unexpected update: %+v", svc.updated)
	}

	c, _ = newJSONContext(e, http.MethodPut, "/menu/404", `{"zh_name":"x","price":1}`)
	c.SetParamNames("id")
	c.SetParamValues("404")
	c.Set(SessionKey, adminSession())
	if err := handler.Update(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	c, rec = newJSONContext(e, http.MethodDelete, "/menu/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	c.Set(SessionKey, adminSession())
	if err := handler.Delete(c); err != nil || rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %v", rec.Code, err)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != 4 {
		t.Fatalf("unexpected delete: %v", svc.deleted)
	}
}

func TestMenuHandler_Report(t *testing.T) {
	e := newEcho()
	svc := &stubMenuService{}
	handler := NewMenuHandler(svc)

	c, rec := newJSONContext(e, http.MethodGet, "/reports/analytics?period=monthly", "")
	c.Set(SessionKey, adminSession())

	if err := handler.Report(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || svc.period != domain.ReportMonthly {
		t.Fatalf("unexpected result: %d %s", rec.Code, svc.period)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); cd != `attachment; filename="analytics-report-monthly.csv"` {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "date,orders") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	c, _ = newJSONContext(e, http.MethodGet, "/reports/analytics?period=yearly", "")
	c.Set(SessionKey, adminSession())
	if err := handler.Report(c); !errors.Is(err, domain.ErrInvalidReportPeriod) {
		t.Fatalf("expected ErrInvalidReportPeriod, got %v", err)
	}
}
