package handler

import (
	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toRegistrationInput(req registerRequest) ports.RegistrationInput {
	return ports.RegistrationInput{
		EmployeeID:      req.EmployeeID,
		FullName:        req.FullName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
}

func toMenuItemInput(req menuItemRequest) domain.MenuItemInput {
	return domain.MenuItemInput{
		ZhName:      req.ZhName,
		EnName:      req.EnName,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}
}

// --- Service result → Response ---

func toRecordsResponse(page *ports.RecordsPage) recordsResponse {
	out := recordsResponse{Records: make([]recordResponse, 0, len(page.Rows)), Debt: page.Debt}
	for _, row := range page.Rows {
		r := recordResponse{
			ID:       row.ID,
			MealName: row.MealName,
			MealEn:   row.MealEn,
			ImageURL: row.ImageURL,
			Price:    row.Price,
			Paid:     row.Paid,
			Verdict:  string(row.Verdict),
			Comment:  row.Comment,
		}
		if !row.Date.IsZero() {
			r.Date = row.Date.Format(dateLayout)
		}
		out.Records = append(out.Records, r)
	}
	return out
}

func toReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:             r.ID,
		DiningRecordID: r.DiningRecordID,
		Verdict:        string(r.Verdict()),
		Comment:        r.Comment,
	}
}

func toMealCards(cards []ports.MealCard) []mealCardResponse {
	out := make([]mealCardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, mealCardResponse{
			ID:             c.ID,
			Name:           c.Name,
			EnName:         c.EnName,
			Price:          c.Price,
			ImageURL:       c.ImageURL,
			Available:      c.Available,
			TotalReviews:   c.TotalReviews,
			GoodReviews:    c.GoodReviews,
			Recommendation: c.Recommendation,
		})
	}
	return out
}

func toMeResponse(sess domain.Session) meResponse {
	notifications := sess.Notifications
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return meResponse{
		User:          sess.Profile,
		Capabilities:  sess.Capabilities,
		Notifications: notifications,
	}
}
