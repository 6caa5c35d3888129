package token

import "strings"

// Claims is the client-visible projection embedded in a bearer token's
// payload segment: who the browser believes it is logged in as. It is a
// read-only view - the backend record may have moved on, and nothing here
// is trusted for privileged actions.
type Claims struct {
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Exp       int64  `json:"exp"` // unix seconds
}

// FullName joins the name claims for display.
func (c Claims) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
