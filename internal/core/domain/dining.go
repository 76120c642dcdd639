package domain

// PaymentStatus is the settlement state of an order or dining record.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// PaymentMethod is how a clerk records an order being paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentDebt PaymentMethod = "debt"
)

// ParsePaymentMethod validates s as a payment method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCash, PaymentDebt:
		return m, nil
	}
	return "", ErrInvalidPayment
}

// Status is the payment status an order placed with m starts in.
func (m PaymentMethod) Status() PaymentStatus {
	if m == PaymentCash {
		return PaymentPaid
	}
	return PaymentUnpaid
}

// DiningRecord is one meal a user has ordered.
type DiningRecord struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	OrderID       int64         `json:"order_id"`
	MenuItemID    int64         `json:"menu_item_id"`
	MenuItemName  string        `json:"menu_item_name"`
	TotalAmount   float64       `json:"total_amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	DiningDate    Timestamp     `json:"dining_date"`
}

// Paid reports whether the record has been settled.
func (r DiningRecord) Paid() bool {
	return r.PaymentStatus == PaymentPaid
}

// Debt sums the amounts of every unpaid record.
func Debt(records []DiningRecord) float64 {
	var total float64
	for _, r := range records {
		if !r.Paid() {
			total += r.TotalAmount
		}
	}
	return total
}

// Verdict is the thumbs-up/down a user leaves on a meal.
type Verdict string

const (
	VerdictLike    Verdict = "like"
	VerdictDislike Verdict = "dislike"
)

// ParseVerdict validates s as a verdict.
func ParseVerdict(s string) (Verdict, error) {
	switch v := Verdict(s); v {
	case VerdictLike, VerdictDislike:
		return v, nil
	}
	return "", ErrInvalidVerdict
}

const (
	likeRating        = 5
	dislikeRating     = 1
	positiveThreshold = 4
)

// Rating converts a verdict to the numeric rating the user service stores.
func (v Verdict) Rating() int {
	if v == VerdictLike {
		return likeRating
	}
	return dislikeRating
}

// Review is a user's rating and comment on a dining record.
type Review struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	DiningRecordID int64     `json:"dining_record_id,omitempty"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	CreatedAt      Timestamp `json:"created_at"`
}

// Positive reports whether the review counts as a recommendation.
func (r Review) Positive() bool {
	return r.Rating >= positiveThreshold
}

// Verdict maps the numeric rating back to like/dislike.
func (r Review) Verdict() Verdict {
	if r.Positive() {
		return VerdictLike
	}
	return VerdictDislike
}

// NewOrder is what a clerk submits on behalf of an employee.
type NewOrder struct {
	UserID        int64
	MenuItemID    int64
	Quantity      int
	UnitPrice     float64
	PaymentMethod PaymentMethod
}

// Order is the order service's record of a placed order.
type Order struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	PaymentMethod string        `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Status        string        `json:"status"`
	TotalAmount   float64       `json:"total_amount"`
	OrderDate     Timestamp     `json:"order_date"`
}
