package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const voteStatusTTL = 24 * time.Hour

// VoteStatusCache keeps an advisory record of which voter has voted in which
// election. The ledger in MongoDB stays authoritative; this cache only short-
// circuits repeated status reads. Key format: voted:<voter_id>:<election_id>
type VoteStatusCache struct {
	client *redis.Client
}

// NewVoteStatusCache wraps the given Redis client.
func NewVoteStatusCache(client *redis.Client) *VoteStatusCache {
	return &VoteStatusCache{client: client}
}

// Lookup reports (voted, found). A missing key means the cache holds no
// answer and the caller must fall back to the ledger.
func (c *VoteStatusCache) Lookup(ctx context.Context, voterID, electionID string) (bool, bool, error) {
	val, err := c.client.Get(ctx, c.key(voterID, electionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("vote status lookup: %w", err)
	}
	return val == "1", true, nil
}

// Mark records a cast vote (expires after voteStatusTTL).
func (c *VoteStatusCache) Mark(ctx context.Context, voterID, electionID string) error {
	return c.client.Set(ctx, c.key(voterID, electionID), "1", voteStatusTTL).Err()
}

func (c *VoteStatusCache) key(voterID, electionID string) string {
	return fmt.Sprintf("voted:%s:%s", voterID, electionID)
}
