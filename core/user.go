package core

import (
	"context"
	"time"
)

// User user model. Registration and credential issuance happen outside this
// service; rows are read to bind a verified token to a known user.
type User struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	UserID    string    `sql:"size:36;unique_index:idx_users_user_id" json:"user_id,omitempty"`
	Name      string    `sql:"size:64" json:"name,omitempty"`
	Email     string    `sql:"size:128" json:"email,omitempty"`
	Avatar    string    `sql:"size:255" json:"avatar,omitempty"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// UserStore user store interface
type UserStore interface {
	// Find find by user id. A miss returns a user with ID 0.
	Find(ctx context.Context, userID string) (*User, error)
}

// Session verifies an access token and yields the trusted user
type Session interface {
	Login(ctx context.Context, accessToken string) (*User, error)
}
