package domain

import "time"

// AuditAction names an administrative action recorded in the audit trail.
type AuditAction string

const (
	AuditMenuCreated         AuditAction = "menu.created"
	AuditMenuUpdated         AuditAction = "menu.updated"
	AuditMenuDeleted         AuditAction = "menu.deleted"
	AuditMenuToggled         AuditAction = "menu.availability_toggled"
	AuditRoleChanged         AuditAction = "staff.role_changed"
	AuditDebtSettled         AuditAction = "staff.debt_settled"
	AuditBillingDispatched   AuditAction = "billing.dispatched"
	AuditOrderPlaced         AuditAction = "order.placed"
	AuditAnalyticsDownloaded AuditAction = "report.downloaded"
)

// AuditEvent records who did what to which resource.
type AuditEvent struct {
	Action    AuditAction
	ActorID   int64
	ActorName string
	Target    string
	Details   map[string]any
	At        time.Time
}

// BillingEvent is published by the admin service for each user who was sent a
// billing reminder. Timestamp is kept verbatim; the publisher emits naive ISO
// timestamps without a zone.
type BillingEvent struct {
	UserID       int64   `json:"user_id"`
	UserName     string  `json:"user_name"`
	UnpaidAmount float64 `json:"unpaid_amount"`
	Timestamp    string  `json:"timestamp"`
}
