package model

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a prefix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	uuidStr := id.String()
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr)
	return idWithSuffix
}

// SelectLootBoxReward draws one reward from the configured pool using the
// supplied random source. Entries carrying a positive weight skew the draw in
// proportion to their weight; a pool without weights is drawn uniformly.
// The random source is injected so callers can seed it deterministically.
func SelectLootBoxReward(pool []LootBoxReward, rng *rand.Rand) (LootBoxReward, error) {
	if len(pool) == 0 {
		return LootBoxReward{}, fmt.Errorf("loot box reward pool is empty")
	}

	var totalWeight int64
	for _, reward := range pool {
		totalWeight += normalizeWeight(reward.Weight)
	}

	pick := rng.Int63n(totalWeight)
	for _, reward := range pool {
		pick -= normalizeWeight(reward.Weight)
		if pick < 0 {
			return reward, nil
		}
	}

	// Unreachable as long as totalWeight equals the sum of entry weights.
	return pool[len(pool)-1], nil
}

// normalizeWeight treats missing or non-positive weights as a single share,
// which makes an unweighted pool a uniform draw.
func normalizeWeight(weight int64) int64 {
	if weight <= 0 {
		return 1
	}
	return weight
}
