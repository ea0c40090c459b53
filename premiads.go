package premiads

import (
	"embed"
	"fmt"
	"math/rand"
	"time"

	"github.com/premiads/premiads/config"
	"github.com/premiads/premiads/database"
	redis_db "github.com/premiads/premiads/internal/redis-db"
	"github.com/redis/go-redis/v9"
)

// PremiAds is the main entry point for the mission moderation service. It
// owns the submission workflow, the reward issuer and the outbound
// notification queues.
type PremiAds struct {
	queue      *Queue
	redis      redis.UniversalClient
	datasource database.IDataSource
	rng        *rand.Rand
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewPremiAds initializes a new instance of PremiAds with the provided
// datasource. It fetches the configuration and wires up the Redis client,
// the task queue and the loot box RNG.
func NewPremiAds(db database.IDataSource) (*PremiAds, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)

	newPremiAds := &PremiAds{
		datasource: db,
		queue:      newQueue,
		redis:      redisClient.Client(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	return newPremiAds, nil
}
