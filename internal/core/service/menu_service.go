package service

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/api/metrics"
	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
	"github.com/pear651530/Meal-Provider/internal/pkg/settle"
)

// RatingLookup resolves the rating summary of a menu item.
type RatingLookup interface {
	Rating(ctx context.Context, token string, menuItemID int64) (domain.RatingSummary, error)
}

type menuService struct {
	admin   ports.AdminClient
	ratings RatingLookup
	audit   auditor
	limit   int
	log     zerolog.Logger
}

// NewMenuService returns a MenuService implementation.
func NewMenuService(admin ports.AdminClient, ratings RatingLookup, audit ports.AuditRepository, limit int, log zerolog.Logger) ports.MenuService {
	return &menuService{
		admin:   admin,
		ratings: ratings,
		audit:   auditor{repo: audit, log: log},
		limit:   limit,
		log:     log,
	}
}

// TodayMeals lists the available menu items with their ratings.
func (s *menuService) TodayMeals(ctx context.Context, sess domain.Session) ([]ports.MealCard, error) {
	items, err := s.admin.ListMenuItems(ctx, sess.BearerToken)
	if err != nil {
		return nil, fmt.Errorf("today's meals: %w", err)
	}

	available := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if item.IsAvailable {
			available = append(available, item)
		}
	}
	return s.cards(ctx, sess.BearerToken, available, "today"), nil
}

// Board lists every menu item with its ratings, split into today's meals and
// the rest.
func (s *menuService) Board(ctx context.Context, sess domain.Session) (*ports.MenuBoard, error) {
	items, err := s.admin.ListMenuItems(ctx, sess.BearerToken)
	if err != nil {
		return nil, fmt.Errorf("menu board: %w", err)
	}

	board := &ports.MenuBoard{Today: []ports.MealCard{}, Others: []ports.MealCard{}}
	for _, card := range s.cards(ctx, sess.BearerToken, items, "menu") {
		if card.Available {
			board.Today = append(board.Today, card)
		} else {
			board.Others = append(board.Others, card)
		}
	}
	return board, nil
}

// cards merges items with their rating summaries. Items whose rating could not
// be fetched show zero reviews.
func (s *menuService) cards(ctx context.Context, token string, items []domain.MenuItem, aggregator string) []ports.MealCard {
	results := settle.All(ctx, items, s.limit, func(ctx context.Context, item domain.MenuItem) (domain.RatingSummary, error) {
		return s.ratings.Rating(ctx, token, item.ID)
	})
	if failed := settle.Failed(results); failed > 0 {
		metrics.SupplementaryFallbacksTotal.WithLabelValues(aggregator).Add(float64(failed))
		s.log.Warn().Str("aggregator", aggregator).Int("failed", failed).Msg("menu rendered without some ratings")
	}

	out := make([]ports.MealCard, 0, len(items))
	for i, item := range items {
		var summary domain.RatingSummary
		if results[i].OK() {
			summary = results[i].Value
		}
		out = append(out, ports.MealCard{
			ID:             item.ID,
			Name:           item.ZhName,
			EnName:         item.EnName,
			Price:          item.Price,
			ImageURL:       item.ImageURL,
			Available:      item.IsAvailable,
			TotalReviews:   summary.TotalReviews,
			GoodReviews:    summary.GoodReviews,
			Recommendation: domain.PositivePercentage(summary.GoodReviews, summary.TotalReviews),
		})
	}
	return out
}

func (s *menuService) CreateItem(ctx context.Context, sess domain.Session, in domain.MenuItemInput) (domain.MenuItem, error) {
	item, err := s.admin.CreateMenuItem(ctx, sess.BearerToken, in)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	s.audit.record(ctx, sess, domain.AuditMenuCreated, menuTarget(item.ID), map[string]any{
		"zh_name": in.ZhName,
		"en_name": in.EnName,
		"price":   in.Price,
	})
	return item, nil
}

func (s *menuService) UpdateItem(ctx context.Context, sess domain.Session, id int64, in domain.MenuItemInput) error {
	if err := s.admin.UpdateMenuItem(ctx, sess.BearerToken, id, in); err != nil {
		return fmt.Errorf("update menu item %d: %w", id, err)
	}
	s.audit.record(ctx, sess, domain.AuditMenuUpdated, menuTarget(id), map[string]any{
		"zh_name":      in.ZhName,
		"en_name":      in.EnName,
		"price":        in.Price,
		"is_available": in.IsAvailable,
	})
	return nil
}

func (s *menuService) DeleteItem(ctx context.Context, sess domain.Session, id int64) error {
	if err := s.admin.DeleteMenuItem(ctx, sess.BearerToken, id); err != nil {
		return fmt.Errorf("delete menu item %d: %w", id, err)
	}
	s.audit.record(ctx, sess, domain.AuditMenuDeleted, menuTarget(id), nil)
	return nil
}

func (s *menuService) ToggleAvailability(ctx context.Context, sess domain.Session, id int64) (domain.MenuItem, error) {
	item, err := s.admin.ToggleAvailability(ctx, sess.BearerToken, id)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("toggle menu item %d: %w", id, err)
	}
	s.audit.record(ctx, sess, domain.AuditMenuToggled, menuTarget(id), map[string]any{
		"is_available": item.IsAvailable,
	})
	return item, nil
}

// ExportReport streams the analytics CSV for period. The caller closes it.
func (s *menuService) ExportReport(ctx context.Context, sess domain.Session, period domain.ReportPeriod) (io.ReadCloser, error) {
	if _, err := domain.ParseReportPeriod(string(period)); err != nil {
		return nil, err
	}
	body, err := s.admin.AnalyticsReport(ctx, sess.BearerToken, period)
	if err != nil {
		return nil, fmt.Errorf("analytics report: %w", err)
	}
	s.audit.record(ctx, sess, domain.AuditAnalyticsDownloaded, period.Filename(), map[string]any{
		"period": string(period),
	})
	return body, nil
}

func menuTarget(id int64) string {
	return "menu_item:" + strconv.FormatInt(id, 10)
}
