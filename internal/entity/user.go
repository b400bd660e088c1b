package entity

import "time"

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Operator is a staff account allowed to manage voice rules and read
// analytics.
type Operator struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Password  string    `db:"password_hash"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

// UserLoginData is taken from the access token claims of an operator.
type UserLoginData struct {
	ID       string
	Username string
	Email    string
	Role     string
}

func (u UserLoginData) IsAdmin() bool {
	return u.Role == RoleAdmin
}
