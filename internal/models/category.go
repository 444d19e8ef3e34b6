package models

import "time"

type Category struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Kind        TransactionKind `json:"kind"`
	OwnerUserID string          `json:"owner_user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitzero"`
}
