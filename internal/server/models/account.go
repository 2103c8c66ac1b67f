package models

type Account struct {
	Username     string
	PasswordHash string
	CreatedAt    int64
}
