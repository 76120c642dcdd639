package domain

// Session is the portal's view of who is logged in and what they can do.
// The zero value is the logged-out state.
type Session struct {
	Profile       *Profile
	Capabilities  Capabilities
	BearerToken   string
	Notifications []Notification
}

// Authenticated reports whether the session holds an identity.
func (s Session) Authenticated() bool {
	return s.Profile != nil
}

// UserID returns the logged-in user's id, or 0 when logged out.
func (s Session) UserID() int64 {
	if s.Profile == nil {
		return 0
	}
	return s.Profile.ID
}

// Username returns the logged-in username, or "" when logged out.
func (s Session) Username() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Username
}

// Role returns the logged-in user's role, or "" when logged out.
func (s Session) Role() Role {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

// Clone returns a deep copy so callers cannot mutate the owner's state.
func (s Session) Clone() Session {
	out := s
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	if s.Notifications != nil {
		out.Notifications = append([]Notification(nil), s.Notifications...)
	}
	return out
}

// WithoutNotification returns the notifications minus the one with id.
func WithoutNotification(list []Notification, id int64) []Notification {
	out := make([]Notification, 0, len(list))
	for _, n := range list {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}
