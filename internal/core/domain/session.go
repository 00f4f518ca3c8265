package domain

// Session is everything the BFF remembers about one browser session.
// User and AuthToken are either both set or both absent.
type Session struct {
	User      *User      `json:"user,omitempty"`
	Apartment *Apartment `json:"apartment,omitempty"`
	Checklist *Checklist `json:"checklist,omitempty"`
	AuthToken string     `json:"-"`
}

// Authenticated reports whether the session carries both identity and token.
func (s Session) Authenticated() bool {
	return s.User != nil && s.AuthToken != ""
}

// Clone returns a deep copy so callers cannot mutate store-owned state.
func (s Session) Clone() Session {
	out := Session{AuthToken: s.AuthToken}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Apartment != nil {
		a := *s.Apartment
		out.Apartment = &a
	}
	if s.Checklist != nil {
		out.Checklist = s.Checklist.Clone()
	}
	return out
}
