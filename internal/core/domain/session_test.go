package domain

import "testing"

func TestWithoutNotification_RemovesOnlyThatID(t *testing.T) {
	list := []Notification{{ID: 1}, {ID: 2}, {ID: 3}}

	got := WithoutNotification(list, 2)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected list: %+v", got)
	}
	if len(list) != 3 {
		t.Fatalf("input list must not be modified")
	}

	if got := WithoutNotification(list, 42); len(got) != 3 {
		t.Fatalf("unknown id should leave list intact, got %+v", got)
	}
}

func TestSession_CloneIsDeep(t *testing.T) {
	s := Session{
		Profile:       &Profile{ID: 7, Username: "alice", Role: RoleAdmin},
		Notifications: []Notification{{ID: 1}},
	}

	c := s.Clone()
	c.Profile.Username = "mallory"
	c.Notifications[0].ID = 99

	if s.Profile.Username != "alice" || s.Notifications[0].ID != 1 {
		t.Fatalf("clone shares state with original: %+v", s)
	}
}

func TestSession_LoggedOutZeroValue(t *testing.T) {
	var s Session
	if s.Authenticated() || s.UserID() != 0 || s.Username() != "" || s.Role() != "" {
		t.Fatalf("zero session should be logged out: %+v", s)
	}
}

func TestDebt_SumsUnpaidOnly(t *testing.T) {
	records := []DiningRecord{
		{TotalAmount: 120, PaymentStatus: PaymentPaid},
		{TotalAmount: 100, PaymentStatus: PaymentUnpaid},
		{TotalAmount: 150, PaymentStatus: PaymentUnpaid},
	}
	if got := Debt(records); got != 250 {
		t.Fatalf("expected 250, got %v", got)
	}
	if got := Debt(nil); got != 0 {
		t.Fatalf("expected 0 for no records, got %v", got)
	}
}

func TestVerdict_RoundTrip(t *testing.T) {
	if (Review{Rating: VerdictLike.Rating()}).Verdict() != VerdictLike {
		t.Fatalf("like should map back to like")
	}
	if (Review{Rating: VerdictDislike.Rating()}).Verdict() != VerdictDislike {
		t.Fatalf("dislike should map back to dislike")
	}
}
