package domain

import (
	"context"

	"github.com/sparkloop/backend/internal/domain/leaderboard"
	"github.com/sparkloop/backend/internal/model"
	"github.com/sparkloop/backend/internal/repository"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

type StatisticDomain interface {
	GetPlatformStats(context.Context, *model.GetPlatformStatsRequest) (*model.GetPlatformStatsResponse, error)
	GetSpreaderLeaderboard(
		context.Context, *model.GetSpreaderLeaderboardRequest,
	) (*model.GetSpreaderLeaderboardResponse, error)
}

type statisticDomain struct {
	ideaRepo       repository.IdeaRepository
	spreadEdgeRepo repository.SpreadEdgeRepository
	leaderboard    leaderboard.Leaderboard
}

func NewStatisticDomain(
	ideaRepo repository.IdeaRepository,
	spreadEdgeRepo repository.SpreadEdgeRepository,
	leaderboard leaderboard.Leaderboard,
) *statisticDomain {
	return &statisticDomain{
		ideaRepo:       ideaRepo,
		spreadEdgeRepo: spreadEdgeRepo,
		leaderboard:    leaderboard,
	}
}

func (d *statisticDomain) GetPlatformStats(
	ctx context.Context, req *model.GetPlatformStatsRequest,
) (*model.GetPlatformStatsResponse, error) {
	resp := &model.GetPlatformStatsResponse{}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		resp.ActiveSpreaders, err = d.spreadEdgeRepo.CountReferrers(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		resp.IdeasShared, err = d.ideaRepo.Count(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		resp.LivesReached, err = d.spreadEdgeRepo.Count(egCtx)
		return err
	})

	if err := eg.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count platform stats: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Statistics are unavailable")
	}

	return resp, nil
}

func (d *statisticDomain) GetSpreaderLeaderboard(
	ctx context.Context, req *model.GetSpreaderLeaderboardRequest,
) (*model.GetSpreaderLeaderboardResponse, error) {
	if err := checkPagination(ctx, &req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	spreaders, err := d.leaderboard.GetSpreaders(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	resp := &model.GetSpreaderLeaderboardResponse{Spreaders: []model.Spreader{}}
	for _, s := range spreaders {
		resp.Spreaders = append(resp.Spreaders, convertSpreader(s))
	}

	if accountID := xcontext.RequestUserID(ctx); accountID != "" {
		resp.MyRank, err = d.leaderboard.GetRank(ctx, accountID)
		if err != nil {
			return nil, err
		}
	}

	return resp, nil
}
