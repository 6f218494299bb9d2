package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserStatus is the lifecycle state of an identity record
type UserStatus = string

const (
	// UserStatusActive accounts can authenticate
	UserStatusActive UserStatus = "active"
	// UserStatusSuspended accounts exist but may not authenticate
	UserStatusSuspended UserStatus = "suspended"
	// UserStatusDeleted accounts are soft deleted and invisible to lookups
	UserStatusDeleted UserStatus = "deleted"
)

// User is the identity record. The auth core reads it and writes it exactly
// once, at registration; profile collaborators own later mutations.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Phone          string     `bun:"phone,notnull,unique" json:"phone,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	Nickname       string     `bun:"nickname,notnull" json:"nickname,omitempty"`
	Bio            string     `bun:"bio" json:"bio,omitempty"`
	Age            *int       `bun:"age" json:"age,omitempty"`
	City           string     `bun:"city" json:"city,omitempty"`
	Avatar         string     `bun:"avatar" json:"avatar,omitempty"`
	Status         UserStatus `bun:"status,notnull" json:"status,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"-"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// EnsureStatus backfills the status column for records created before the
// column existed.
func (u *User) EnsureStatus() {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
}

// Sanitized returns a copy safe to hand to clients: no password hash, no
// login bookkeeping.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}

	clone := *u
	clone.PasswordHash = ""
	clone.LoginAttempts = 0
	clone.LoginAttemptAt = nil
	clone.LoggedInAt = nil
	return &clone
}

func statusAuthError(status UserStatus) error {
	switch status {
	case UserStatusSuspended:
		return ErrAccountSuspended
	case UserStatusDeleted:
		return ErrIdentityNotFound
	default:
		return nil
	}
}
