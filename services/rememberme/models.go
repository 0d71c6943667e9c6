package rememberme

import (
	"time"

	"gorm.io/gorm"
)

// RememberMeToken is the persisted half of a persistent-login credential. Only
// the SHA-256 digest of the raw token is stored; the raw value exists in the
// issuing call, the cookie, and inbound requests, nowhere else.
type RememberMeToken struct {
	gorm.Model
	TokenID    string     `json:"token_id" gorm:"uniqueIndex;size:36;not null"`
	UserID     uint       `json:"user_id" gorm:"index;not null"`
	TokenHash  string     `json:"-" gorm:"uniqueIndex;size:64;not null"`
	IssuedAt   time.Time  `json:"issued_at" gorm:"not null"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	DeviceName string     `json:"device_name" gorm:"size:255"`
	UserAgent  string     `json:"user_agent" gorm:"size:500"`
	IPAddress  string     `json:"ip_address" gorm:"size:45"`
}

func (RememberMeToken) TableName() string {
	return "remember_me_tokens"
}

// RevocationEpoch records the instant of a user's last "log out everywhere".
// Tokens issued at or before the epoch are dead even if their row survived a
// racing bulk delete.
type RevocationEpoch struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	RevokedAt time.Time `json:"revoked_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RevocationEpoch) TableName() string {
	return "remember_me_revocation_epochs"
}

// Models lists everything the store persists, for auto-migration.
func Models() []any {
	return []any{&RememberMeToken{}, &RevocationEpoch{}}
}
