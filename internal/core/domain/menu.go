package domain

import "fmt"

// MenuItem is a dish as stored by the admin service.
type MenuItem struct {
	ID          int64      `json:"id"`
	ZhName      string     `json:"zh_name"`
	EnName      string     `json:"en_name"`
	Price       float64    `json:"price"`
	ImageURL    string     `json:"url"`
	IsAvailable bool       `json:"is_available"`
	CreatedAt   Timestamp  `json:"created_at,omitempty"`
	UpdatedAt   *Timestamp `json:"updated_at,omitempty"`
}

// MenuItemInput carries the editable fields of a menu item.
type MenuItemInput struct {
	ZhName      string
	EnName      string
	Price       float64
	ImageURL    string
	IsAvailable bool
}

// RatingSummary aggregates the reviews of one menu item.
type RatingSummary struct {
	MenuItemID   int64   `json:"menu_item_id"`
	TotalReviews int     `json:"total_reviews"`
	GoodReviews  int     `json:"good_reviews"`
	GoodRatio    float64 `json:"good_ratio"`
}

// PositivePercentage renders positive/total as a whole percentage rounded half
// up, e.g. "67%". A zero total yields "0%".
func PositivePercentage(positive, total int) string {
	if total <= 0 {
		return "0%"
	}
	if positive < 0 {
		positive = 0
	}
	pct := (positive*200 + total) / (2 * total)
	return fmt.Sprintf("%d%%", pct)
}

// ReportPeriod is the reporting window of the analytics export.
type ReportPeriod string

const (
	ReportDaily   ReportPeriod = "daily"
	ReportWeekly  ReportPeriod = "weekly"
	ReportMonthly ReportPeriod = "monthly"
)

// ParseReportPeriod validates s as a report period.
func ParseReportPeriod(s string) (ReportPeriod, error) {
	switch p := ReportPeriod(s); p {
	case ReportDaily, ReportWeekly, ReportMonthly:
		return p, nil
	}
	return "", ErrInvalidReportPeriod
}

// Filename is the download name of the exported report.
func (p ReportPeriod) Filename() string {
	return "analytics-report-" + string(p) + ".csv"
}
