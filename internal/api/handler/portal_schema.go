package handler

import "github.com/pear651530/Meal-Provider/internal/core/domain"

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// --- auth ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	EmployeeID      string `json:"employee_id"`
	FullName        string `json:"full_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginResponse struct {
	Token        string              `json:"token"`
	User         *domain.Profile     `json:"user"`
	Capabilities domain.Capabilities `json:"capabilities"`
}

type registerResponse struct {
	User *domain.Profile `json:"user"`
}

// --- session ---

type meResponse struct {
	User          *domain.Profile       `json:"user"`
	Capabilities  domain.Capabilities   `json:"capabilities"`
	Notifications []domain.Notification `json:"notifications"`
}

// --- records ---

type recordResponse struct {
	ID       int64   `json:"id"`
	Date     string  `json:"date"`
	MealName string  `json:"meal_name"`
	MealEn   string  `json:"meal_en_name,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
	Price    float64 `json:"price"`
	Paid     bool    `json:"paid"`
	Verdict  string  `json:"verdict,omitempty"`
	Comment  string  `json:"comment,omitempty"`
}

type recordsResponse struct {
	Records []recordResponse `json:"records"`
	Debt    float64          `json:"debt"`
}

type reviewRequest struct {
	Verdict string `json:"verdict" validate:"required"`
	Comment string `json:"comment"`
}

type reviewResponse struct {
	ID             int64  `json:"id"`
	DiningRecordID int64  `json:"dining_record_id"`
	Verdict        string `json:"verdict"`
	Comment        string `json:"comment"`
}

// --- menu ---

type mealCardResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	EnName         string  `json:"en_name,omitempty"`
	Price          float64 `json:"price"`
	ImageURL       string  `json:"image_url,omitempty"`
	Available      bool    `json:"available"`
	TotalReviews   int     `json:"total_reviews"`
	GoodReviews    int     `json:"good_reviews"`
	Recommendation string  `json:"recommendation"`
}

type menuBoardResponse struct {
	Today  []mealCardResponse `json:"today"`
	Others []mealCardResponse `json:"others"`
}

type menuItemRequest struct {
	ZhName      string  `json:"zh_name"      validate:"required"`
	EnName      string  `json:"en_name"`
	Price       float64 `json:"price"        validate:"gt=0"`
	ImageURL    string  `json:"url"          validate:"omitempty,url"`
	IsAvailable bool    `json:"is_available"`
}

// --- orders ---

type placeOrderRequest struct {
	EmployeeID int64  `json:"employee_id"`
	MenuItemID int64  `json:"menu_item_id"`
	Payment    string `json:"payment"`
}

// --- staff ---

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}
