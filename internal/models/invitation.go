package models

import "time"

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRevoked  = "revoked"
	InviteStatusExpired  = "expired"
)

// Invitation is a pending offer to join a household, addressed by
// email. Only a hash of the invite token is ever stored.
type Invitation struct {
	ID          string    `json:"id,omitempty"`
	HouseholdID string    `json:"household_id"`
	Email       string    `json:"email"`
	TokenHash   string    `json:"-"`
	Status      string    `json:"status"`
	InvitedBy   string    `json:"invited_by,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

func (i Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
