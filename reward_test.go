package premiads

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/premiads/premiads/model"
)

func TestBuildRewardGrant(t *testing.T) {
	p := &PremiAds{rng: rand.New(rand.NewSource(1))}

	submission := &model.Submission{
		SubmissionID: model.GenerateUUIDWithSuffix("sub"),
		UserID:       "usr_1",
		Status:       model.StatusPending,
		SubmittedAt:  time.Now(),
	}
	mission := &model.Mission{
		MissionID:      model.GenerateUUIDWithSuffix("msn"),
		Rifas:          250,
		CashbackReward: decimal.RequireFromString("3.75"),
		HasBadge:       true,
		BadgeImageURL:  "https://cdn.premiads.test/badge.png",
	}

	grant, err := p.buildRewardGrant(submission, mission)
	assert.NoError(t, err)
	assert.Equal(t, submission.SubmissionID, grant.SubmissionID)
	assert.Equal(t, "usr_1", grant.UserID)
	assert.Equal(t, int64(250), grant.PointsEarned)
	assert.Equal(t, "3.75", grant.CashbackEarned.String())
	assert.True(t, grant.BadgeEarned)
	assert.Equal(t, mission.BadgeImageURL, grant.BadgeImageURL)
	assert.Nil(t, grant.LootBoxReward)
	assert.Contains(t, grant.RewardID, "rwd_")
}

func TestBuildRewardGrantDrawsLootBox(t *testing.T) {
	p := &PremiAds{rng: rand.New(rand.NewSource(42))}

	pool := []model.LootBoxReward{
		{Type: "rifas", Amount: decimal.NewFromInt(50), Weight: 1},
		{Type: "cashback", Amount: decimal.RequireFromString("2.00"), Weight: 3},
	}
	mission := &model.Mission{
		MissionID:      model.GenerateUUIDWithSuffix("msn"),
		HasLootBox:     true,
		LootBoxRewards: pool,
	}
	submission := &model.Submission{SubmissionID: "sub_1", UserID: "usr_1"}

	grant, err := p.buildRewardGrant(submission, mission)
	assert.NoError(t, err)
	assert.NotNil(t, grant.LootBoxReward)
	assert.Contains(t, []string{"rifas", "cashback"}, grant.LootBoxReward.Type)
}

func TestBuildRewardGrantLootBoxDisabled(t *testing.T) {
	p := &PremiAds{rng: rand.New(rand.NewSource(7))}

	mission := &model.Mission{
		MissionID: "msn_1",
		// Entries configured but the loot box switched off.
		HasLootBox:     false,
		LootBoxRewards: []model.LootBoxReward{{Type: "rifas", Amount: decimal.NewFromInt(10), Weight: 1}},
	}
	submission := &model.Submission{SubmissionID: "sub_1", UserID: "usr_1"}

	grant, err := p.buildRewardGrant(submission, mission)
	assert.NoError(t, err)
	assert.Nil(t, grant.LootBoxReward)
}
