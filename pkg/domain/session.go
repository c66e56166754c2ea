package domain

// User is the profile of the account that owns the session.
type User struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Session is the persisted client-side authentication state: the bearer
// token plus the profile returned at login or registration.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
