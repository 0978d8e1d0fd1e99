// Package reach derives the referral metrics of an idea from its spread
// ledger.
package reach

import (
	"context"
	"errors"
	"strings"

	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/internal/repository"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type Stats struct {
	ReferralCount int64
	UniqueReach   int64
}

// Compute counts the edges of one idea.
//
// The referral count stays zero while the ledger holds nothing but the
// creator's self-entry, then counts every edge including the self-entry.
// Unique reach is the number of distinct referred emails other than the
// creator's, plus one for the creator.
func Compute(edges []entity.SpreadEdge) Stats {
	referrals := 0
	creators := map[string]struct{}{}
	emails := map[string]struct{}{}
	for _, e := range edges {
		email := strings.ToLower(e.ReferredEmail)
		if e.IsSelfEntry() {
			creators[email] = struct{}{}
			continue
		}

		referrals++
		emails[email] = struct{}{}
	}

	for email := range creators {
		delete(emails, email)
	}

	stats := Stats{UniqueReach: int64(len(emails)) + 1}
	if referrals > 0 {
		stats.ReferralCount = int64(len(edges))
	}

	return stats
}

type Aggregator interface {
	ComputeStats(ctx context.Context, ideaID string) (Stats, error)
}

type aggregator struct {
	ideaRepo       repository.IdeaRepository
	spreadEdgeRepo repository.SpreadEdgeRepository
}

func NewAggregator(
	ideaRepo repository.IdeaRepository,
	spreadEdgeRepo repository.SpreadEdgeRepository,
) *aggregator {
	return &aggregator{ideaRepo: ideaRepo, spreadEdgeRepo: spreadEdgeRepo}
}

// ComputeStats returns zeros without error for an unknown idea.
func (a *aggregator) ComputeStats(ctx context.Context, ideaID string) (Stats, error) {
	if _, err := a.ideaRepo.GetByID(ctx, ideaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Stats{}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get idea: %v", err)
		return Stats{}, errorx.New(errorx.Unavailable, "Idea store is unavailable")
	}

	edges, err := a.spreadEdgeRepo.GetListByIdea(ctx, ideaID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get spread edges: %v", err)
		return Stats{}, errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	return Compute(edges), nil
}
