package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/api/metrics"
	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
	"github.com/pear651530/Meal-Provider/internal/pkg/settle"
)

// DiningUpstream is the slice of the user service the dining history needs.
type DiningUpstream interface {
	DiningRecords(ctx context.Context, token string, userID int64) ([]domain.DiningRecord, error)
	Reviews(ctx context.Context, token string, diningRecordID int64) ([]domain.Review, error)
	CreateReview(ctx context.Context, token string, diningRecordID int64, rating int, comment string) (domain.Review, error)
}

// MenuLookup resolves a single menu item.
type MenuLookup interface {
	MenuItem(ctx context.Context, token string, id int64) (domain.MenuItem, error)
}

type recordsService struct {
	users DiningUpstream
	menu  MenuLookup
	limit int
	log   zerolog.Logger
}

// NewRecordsService returns a RecordsService implementation.
func NewRecordsService(users DiningUpstream, menu MenuLookup, limit int, log zerolog.Logger) ports.RecordsService {
	return &recordsService{users: users, menu: menu, limit: limit, log: log}
}

// DiningRecords lists the user's dining records and decorates each with its
// menu item and the user's own review. Decorations that fail to load are left
// empty; only a failure of the record list itself is returned.
func (s *recordsService) DiningRecords(ctx context.Context, sess domain.Session) (*ports.RecordsPage, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrNotLoggedIn
	}
	token, userID := sess.BearerToken, sess.UserID()

	records, err := s.users.DiningRecords(ctx, token, userID)
	if err != nil {
		return nil, fmt.Errorf("dining records: %w", err)
	}

	menuIDs := uniqueMenuItemIDs(records)
	menuResults := settle.All(ctx, menuIDs, s.limit, func(ctx context.Context, id int64) (domain.MenuItem, error) {
		return s.menu.MenuItem(ctx, token, id)
	})
	reviewResults := settle.All(ctx, records, s.limit, func(ctx context.Context, r domain.DiningRecord) ([]domain.Review, error) {
		return s.users.Reviews(ctx, token, r.ID)
	})

	items := make(map[int64]domain.MenuItem, len(menuIDs))
	for i, res := range menuResults {
		if res.OK() {
			items[menuIDs[i]] = res.Value
		}
	}

	if failed := settle.Failed(menuResults) + settle.Failed(reviewResults); failed > 0 {
		metrics.SupplementaryFallbacksTotal.WithLabelValues("dining_records").Add(float64(failed))
		s.log.Warn().Int64("user_id", userID).Int("failed", failed).Msg("dining records rendered with missing details")
	}

	page := &ports.RecordsPage{
		Rows: make([]ports.RecordRow, 0, len(records)),
		Debt: domain.Debt(records),
	}
	for i, rec := range records {
		row := ports.RecordRow{
			ID:       rec.ID,
			Date:     rec.DiningDate.Time,
			MealName: rec.MenuItemName,
			Price:    rec.TotalAmount,
			Paid:     rec.Paid(),
		}
		if item, ok := items[rec.MenuItemID]; ok {
			row.MealName = item.ZhName
			row.MealEn = item.EnName
			row.ImageURL = item.ImageURL
		}
		if res := reviewResults[i]; res.OK() {
			if review, ok := ownReview(res.Value, userID); ok {
				row.Verdict = review.Verdict()
				row.Comment = review.Comment
			}
		}
		page.Rows = append(page.Rows, row)
	}
	return page, nil
}

// SubmitReview records the user's verdict on one of their dining records.
func (s *recordsService) SubmitReview(ctx context.Context, sess domain.Session, diningRecordID int64, verdict domain.Verdict, comment string) (domain.Review, error) {
	if !sess.Authenticated() {
		return domain.Review{}, domain.ErrNotLoggedIn
	}
	if _, err := domain.ParseVerdict(string(verdict)); err != nil {
		return domain.Review{}, err
	}

	review, err := s.users.CreateReview(ctx, sess.BearerToken, diningRecordID, verdict.Rating(), comment)
	if err != nil {
		return domain.Review{}, fmt.Errorf("submit review: %w", err)
	}

	s.log.Info().
		Int64("user_id", sess.UserID()).
		Int64("dining_record_id", diningRecordID).
		Str("verdict", string(verdict)).
		Msg("review submitted")
	return review, nil
}

func uniqueMenuItemIDs(records []domain.DiningRecord) []int64 {
	seen := make(map[int64]struct{}, len(records))
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.MenuItemID]; ok {
			continue
		}
		seen[r.MenuItemID] = struct{}{}
		ids = append(ids, r.MenuItemID)
	}
	return ids
}

// ownReview picks the latest review written by userID.
func ownReview(reviews []domain.Review, userID int64) (domain.Review, bool) {
	var (
		out   domain.Review
		found bool
	)
	for _, r := range reviews {
		if r.UserID != userID {
			continue
		}
		if !found || r.CreatedAt.After(out.CreatedAt.Time) {
			out, found = r, true
		}
	}
	return out, found
}
