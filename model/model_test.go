package model

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("sub")
	assert.Contains(t, id, "sub_")
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("sub"))
}

func TestSelectLootBoxRewardEmptyPool(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := SelectLootBoxReward(nil, rng)
	assert.Error(t, err)
}

func TestSelectLootBoxRewardSingleEntry(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pool := []LootBoxReward{
		{Type: "points", Amount: decimal.NewFromInt(100)},
	}

	reward, err := SelectLootBoxReward(pool, rng)
	assert.NoError(t, err)
	assert.Equal(t, "points", reward.Type)
}

func TestSelectLootBoxRewardDeterministicWithSeed(t *testing.T) {
	pool := []LootBoxReward{
		{Type: "points", Amount: decimal.NewFromInt(50)},
		{Type: "cashback", Amount: decimal.NewFromFloat(2.5)},
		{Type: "raffle_ticket", Amount: decimal.NewFromInt(1)},
	}

	first, err := SelectLootBoxReward(pool, rand.New(rand.NewSource(42)))
	assert.NoError(t, err)

	second, err := SelectLootBoxReward(pool, rand.New(rand.NewSource(42)))
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSelectLootBoxRewardUniformCoversPool(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := []LootBoxReward{
		{Type: "a", Amount: decimal.NewFromInt(1)},
		{Type: "b", Amount: decimal.NewFromInt(1)},
		{Type: "c", Amount: decimal.NewFromInt(1)},
	}

	seen := make(map[string]int)
	for i := 0; i < 3000; i++ {
		reward, err := SelectLootBoxReward(pool, rng)
		assert.NoError(t, err)
		seen[reward.Type]++
	}

	// Uniform draw over three entries lands near 1000 each.
	for _, entry := range pool {
		assert.Greater(t, seen[entry.Type], 800)
		assert.Less(t, seen[entry.Type], 1200)
	}
}

func TestSelectLootBoxRewardRespectsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	pool := []LootBoxReward{
		{Type: "common", Amount: decimal.NewFromInt(10), Weight: 9},
		{Type: "rare", Amount: decimal.NewFromInt(500), Weight: 1},
	}

	seen := make(map[string]int)
	for i := 0; i < 5000; i++ {
		reward, err := SelectLootBoxReward(pool, rng)
		assert.NoError(t, err)
		seen[reward.Type]++
	}

	// A 9:1 weighting should land roughly 90/10.
	assert.Greater(t, seen["common"], 4200)
	assert.Greater(t, seen["rare"], 300)
	assert.Less(t, seen["rare"], 800)
}
