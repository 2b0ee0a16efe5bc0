package auth

import "time"

// DefaultAdminUsername is the account seeded from ADMIN_DEFAULT_PASSWORD.
const DefaultAdminUsername = "admin"

// RoleAdmin is the only role known to the admin panel.
const RoleAdmin = "admin"

// User represents an admin panel account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
