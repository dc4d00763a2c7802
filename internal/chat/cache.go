package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PresenceCache keeps a redis snapshot of each user's presence next to the
// mongo record so the REST presence endpoint can answer without a document
// read. Best-effort: cache failures never fail the presence transition.
type PresenceCache struct {
	client *redis.Client
	prefix string
}

type PresenceSnapshot struct {
	Status   string `json:"status"`
	LastSeen int64  `json:"last_seen"`
}

func NewPresenceCache(client *redis.Client, prefix string) *PresenceCache {
	return &PresenceCache{client: client, prefix: prefix}
}

func (c *PresenceCache) key(userID string) string {
	return fmt.Sprintf("%s:presence:%s", c.prefix, userID)
}

func (c *PresenceCache) Set(ctx context.Context, userID string, online bool, at time.Time) error {
	status := "offline"
	if online {
		status = "online"
	}
	b, _ := json.Marshal(PresenceSnapshot{Status: status, LastSeen: at.Unix()})
	return c.client.Set(ctx, c.key(userID), b, 0).Err()
}

func (c *PresenceCache) Get(ctx context.Context, userID string) (*PresenceSnapshot, error) {
	b, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		return nil, err
	}
	var snap PresenceSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
