package domain

// AccessLevel classifies what a logged-in user may do. Lower values
// carry more privilege, matching the numbering the API uses.
type AccessLevel int

const (
	// AccessAdmin may create products in addition to everything a
	// customer can do.
	AccessAdmin AccessLevel = 0
	// AccessCustomer may browse, fill a cart and check out.
	AccessCustomer AccessLevel = 1
)

// Session represents an authenticated user. A nil *Session means the
// client is anonymous.
type Session struct {
	Email       string      `json:"email"`
	Token       string      `json:"token"`
	AccessLevel AccessLevel `json:"accessLevel"`
}

// IsAdmin reports whether the session carries administrator privilege.
func (s *Session) IsAdmin() bool {
	return s != nil && s.AccessLevel == AccessAdmin
}
