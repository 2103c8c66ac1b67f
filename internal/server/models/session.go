package models

// Session binds a token to the account that logged in with it.
type Session struct {
	Token     string
	Username  string
	CreatedAt int64
}
