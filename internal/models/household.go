package models

import (
	"slices"
	"time"
)

type Household struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerUserID string `json:"owner_user_id,omitempty"`

	// MemberUserIDs always includes the owner.
	MemberUserIDs []string `json:"member_user_ids,omitempty"`

	// MemberEmails maps member user ids to the address notifications
	// go to, captured when each member joined.
	MemberEmails map[string]string `json:"member_emails,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// HasMember reports whether the user belongs to the household. The
// owner is always a member.
func (h Household) HasMember(userID string) bool {
	return userID == h.OwnerUserID || slices.Contains(h.MemberUserIDs, userID)
}
