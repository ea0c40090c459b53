package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RewardGrant records the rewards issued for one approved submission.
// The submission ID is unique across grants, which is what makes a retried
// approval return the original grant instead of paying twice.
type RewardGrant struct {
	RewardID       string          `json:"reward_id"`
	SubmissionID   string          `json:"submission_id"`
	UserID         string          `json:"user_id"`
	PointsEarned   int64           `json:"points_earned"`
	CashbackEarned decimal.Decimal `json:"cashback_earned"`
	BadgeEarned    bool            `json:"badge_earned"`
	BadgeImageURL  string          `json:"badge_image_url,omitempty"`
	LootBoxReward  *LootBoxReward  `json:"lootbox_reward,omitempty"`
	RewardedAt     time.Time       `json:"rewarded_at"`
}
