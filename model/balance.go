package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParticipantBalance holds a user's accumulated rifas and cashback. The
// balance row is only ever mutated through store-level atomic increments,
// so concurrent approvals for the same user cannot lose updates.
type ParticipantBalance struct {
	UserID    string          `json:"user_id"`
	Rifas     int64           `json:"rifas"`
	Cashback  decimal.Decimal `json:"cashback"`
	UpdatedAt time.Time       `json:"updated_at"`
}
