package domain

// Profile is the authenticated user's profile as returned by the user service.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt Timestamp `json:"created_at,omitempty"`
}

// StaffMember is a row of the staff management list.
type StaffMember struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt Timestamp `json:"created_at"`
}

// NewUser carries the fields needed to create an employee account.
type NewUser struct {
	Username string
	FullName string
	Password string
}

// Notification is a server-side message for a user, e.g. a billing reminder.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	Type      string    `json:"notification_type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt Timestamp `json:"created_at"`
}

// UnpaidBalance is one user's outstanding debt.
type UnpaidBalance struct {
	UserID   int64   `json:"user_id"`
	UserName string  `json:"user_name"`
	Amount   float64 `json:"unpaidAmount"`
}
