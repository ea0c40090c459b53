/*
Copyright 2024 PremiAds Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package redis_db

import (
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis holds the client and addresses of the Redis instances backing locks,
// queues and caches. It supports a single instance or a cluster.
type Redis struct {
	addresses []string
	client    redis.UniversalClient
}

// ParseRedisURL parses a Redis address into client options. Bare docker-style
// addresses (host:port) are accepted as-is; anything else goes through
// redis.ParseURL.
func ParseRedisURL(rawURL string) (*redis.Options, error) {
	if strings.Count(rawURL, ":") == 1 && !strings.Contains(rawURL, "@") && !strings.Contains(rawURL, "//") {
		return &redis.Options{
			Addr: rawURL,
		}, nil
	}

	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		// Fall back to treating the whole value as a host address.
		return &redis.Options{
			Addr: strings.TrimPrefix(rawURL, "redis://"),
		}, nil
	}
	return opts, nil
}

// NewRedisClient builds a universal client for the given addresses. One
// address yields a single-node client, several yield a cluster client.
func NewRedisClient(addresses []string) (*Redis, error) {
	if len(addresses) == 0 {
		return nil, errors.New("redis addresses list cannot be empty")
	}

	if len(addresses) == 1 {
		opts, err := ParseRedisURL(addresses[0])
		if err != nil {
			return nil, err
		}
		return &Redis{addresses: addresses, client: redis.NewClient(opts)}, nil
	}

	trimmed := make([]string, len(addresses))
	for i, address := range addresses {
		trimmed[i] = strings.TrimPrefix(address, "redis://")
	}
	client := redis.NewClusterClient(&redis.ClusterOptions{Addrs: trimmed})
	return &Redis{addresses: addresses, client: client}, nil
}

// Client returns the underlying universal client.
func (r *Redis) Client() redis.UniversalClient {
	return r.client
}
