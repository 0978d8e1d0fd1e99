// Package leaderboard ranks the accounts by the number of referrals they
// recorded, in a redis sorted set.
package leaderboard

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sparkloop/backend/internal/common"
	"github.com/sparkloop/backend/internal/domain/chain"
	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/internal/repository"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/xcontext"
	"github.com/sparkloop/backend/pkg/xredis"
)

type Spreader struct {
	AccountID string
	Referrals int64
	Rank      int
}

type Leaderboard interface {
	chain.Listener

	GetSpreaders(ctx context.Context, offset, limit int) ([]Spreader, error)

	// GetRank is 0 when the account has no referral.
	GetRank(ctx context.Context, accountID string) (uint64, error)
}

type leaderboard struct {
	spreadEdgeRepo repository.SpreadEdgeRepository
	redisClient    xredis.Client
}

// New returns a leaderboard which is always empty when redisClient is nil.
func New(spreadEdgeRepo repository.SpreadEdgeRepository, redisClient xredis.Client) *leaderboard {
	return &leaderboard{spreadEdgeRepo: spreadEdgeRepo, redisClient: redisClient}
}

func (l *leaderboard) GetSpreaders(ctx context.Context, offset, limit int) ([]Spreader, error) {
	if l.redisClient == nil {
		return []Spreader{}, nil
	}

	if err := l.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, common.RedisKeySpreaders, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Leaderboard is unavailable")
	}

	spreaders := []Spreader{}
	for i, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		spreaders = append(spreaders, Spreader{
			AccountID: member,
			Referrals: int64(z.Score),
			Rank:      offset + i + 1,
		})
	}

	return spreaders, nil
}

func (l *leaderboard) GetRank(ctx context.Context, accountID string) (uint64, error) {
	if l.redisClient == nil {
		return 0, nil
	}

	if err := l.ensureLoaded(ctx); err != nil {
		return 0, err
	}

	rank, err := l.redisClient.ZRevRank(ctx, common.RedisKeySpreaders, accountID)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		}
		return 0, nil
	}

	return rank + 1, nil
}

func (l *leaderboard) OnShared(ctx context.Context, event chain.ShareEvent) {
	if event.Referrer.Kind() != entity.ReferrerAccount {
		return
	}

	l.refresh(ctx, event.Referrer.AccountID())
}

func (l *leaderboard) OnDeleted(ctx context.Context, idea entity.Idea, edges []entity.SpreadEdge) {
	accountIDs := []string{}
	seen := map[string]bool{}
	for _, e := range edges {
		if r := e.Referrer(); r.Kind() == entity.ReferrerAccount && !seen[r.AccountID()] {
			seen[r.AccountID()] = true
			accountIDs = append(accountIDs, r.AccountID())
		}
	}

	l.refresh(ctx, accountIDs...)
}

// refresh copies the ledger counts of the accounts into the set. Scores are
// absolute, so a refresh racing with a rebuild cannot count an edge twice; a
// score may lag until the next refresh of that account. It is a no-op while
// the set is not loaded, the next read rebuilds it from the ledger.
func (l *leaderboard) refresh(ctx context.Context, accountIDs ...string) {
	if l.redisClient == nil || len(accountIDs) == 0 {
		return
	}

	counts, err := l.spreadEdgeRepo.GetReferrerCounts(ctx, accountIDs...)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get referrer counts: %v", err)
		return
	}

	scores := map[string]int64{}
	for _, c := range counts {
		scores[c.ReferrerID] = c.Count
	}

	members := make([]redis.Z, 0, len(accountIDs))
	for _, id := range accountIDs {
		members = append(members, redis.Z{Score: float64(scores[id]), Member: id})
	}

	if _, err := l.redisClient.ZSetIfExist(ctx, common.RedisKeySpreaders, members...); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZSetIfExist redis: %v", err)
	}
}

func (l *leaderboard) ensureLoaded(ctx context.Context) error {
	ok, err := l.redisClient.Exist(ctx, common.RedisKeySpreaders)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.New(errorx.Unavailable, "Leaderboard is unavailable")
	}

	if ok {
		return nil
	}

	return l.loadFromDB(ctx)
}

func (l *leaderboard) loadFromDB(ctx context.Context) error {
	counts, err := l.spreadEdgeRepo.GetReferrerCounts(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get referrer counts: %v", err)
		return errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	if len(counts) == 0 {
		return nil
	}

	members := make([]redis.Z, 0, len(counts))
	for _, c := range counts {
		members = append(members, redis.Z{Score: float64(c.Count), Member: c.ReferrerID})
	}

	if err := l.redisClient.ZAdd(ctx, common.RedisKeySpreaders, members...); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZAdd redis: %v", err)
		return errorx.New(errorx.Unavailable, "Leaderboard is unavailable")
	}

	return nil
}
