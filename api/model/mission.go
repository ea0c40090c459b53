package model

// LootBoxReward is one weighted entry in a mission's loot box.
type LootBoxReward struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Weight int64   `json:"weight"`
}

// CreateMission is the request body for creating a mission. The advertiser
// identity comes from the request headers.
type CreateMission struct {
	Title          string                 `json:"title"`
	Rifas          int64                  `json:"rifas"`
	CashbackReward float64                `json:"cashback_reward"`
	HasBadge       bool                   `json:"has_badge"`
	BadgeImageURL  string                 `json:"badge_image_url,omitempty"`
	HasLootBox     bool                   `json:"has_lootbox"`
	LootBoxRewards []LootBoxReward        `json:"lootbox_rewards,omitempty"`
	Active         *bool                  `json:"active,omitempty"`
	MetaData       map[string]interface{} `json:"meta_data,omitempty"`
}
