package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mission is an advertiser-defined task. The moderation core only reads
// mission rows to compute rewards; it never mutates a mission definition.
type Mission struct {
	MissionID      string                 `json:"mission_id"`
	AdvertiserID   string                 `json:"advertiser_id"`
	Title          string                 `json:"title"`
	Rifas          int64                  `json:"rifas"`
	CashbackReward decimal.Decimal        `json:"cashback_reward"`
	HasBadge       bool                   `json:"has_badge"`
	BadgeImageURL  string                 `json:"badge_image_url,omitempty"`
	HasLootBox     bool                   `json:"has_lootbox"`
	LootBoxRewards []LootBoxReward        `json:"lootbox_rewards,omitempty"`
	Active         bool                   `json:"active"`
	CreatedAt      time.Time              `json:"created_at"`
	MetaData       map[string]interface{} `json:"meta_data,omitempty"`
}

// LootBoxReward is one entry in a mission's configured loot box pool.
// Weight is optional; entries without a weight share the pool uniformly.
type LootBoxReward struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Weight int64           `json:"weight,omitempty"`
}
