package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const LeaderboardKey = "leaderboard:reputation"

// AccountChannel is the pub/sub channel carrying the events of one account.
func AccountChannel(account uuid.UUID) string {
	return fmt.Sprintf("account_events:%s", account)
}

// RedisSink pushes events to per-account channels and keeps the reputation
// leaderboard sorted set current.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Deliver(ctx context.Context, events []Event) error {
	pipe := s.client.Pipeline()
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}
		for _, account := range e.Accounts() {
			pipe.Publish(ctx, AccountChannel(account), payload)
		}
		if z, ok := leaderboardEntry(e); ok {
			pipe.ZAdd(ctx, LeaderboardKey, z)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func leaderboardEntry(e Event) (redis.Z, bool) {
	if e.Kind != AccountReputationChanged || e.Subject == nil || e.Reputation == nil {
		return redis.Z{}, false
	}
	return redis.Z{Score: float64(*e.Reputation), Member: e.Subject.String()}, true
}

type LeaderboardEntry struct {
	Account    string `json:"account"`
	Reputation uint32 `json:"reputation"`
}

// TopReputation reads the n accounts with the highest reputation.
func (s *RedisSink) TopReputation(ctx context.Context, n int64) ([]LeaderboardEntry, error) {
	zs, err := s.client.ZRevRangeWithScores(ctx, LeaderboardKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, LeaderboardEntry{Account: member, Reputation: uint32(z.Score)})
	}
	return out, nil
}

// Subscribe opens the pub/sub stream of one account.
func (s *RedisSink) Subscribe(ctx context.Context, account uuid.UUID) *redis.PubSub {
	return s.client.Subscribe(ctx, AccountChannel(account))
}
