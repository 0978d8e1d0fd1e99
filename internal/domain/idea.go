package domain

import (
	"context"
	"errors"

	"github.com/sparkloop/backend/internal/domain/chain"
	"github.com/sparkloop/backend/internal/domain/reach"
	"github.com/sparkloop/backend/internal/domain/viewer"
	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/internal/model"
	"github.com/sparkloop/backend/internal/repository"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/storage"
	"github.com/sparkloop/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type IdeaDomain interface {
	Create(context.Context, *model.CreateIdeaRequest) (*model.CreateIdeaResponse, error)
	Share(context.Context, *model.ShareIdeaRequest) (*model.ShareIdeaResponse, error)
	StopChain(context.Context, *model.StopChainRequest) (*model.StopChainResponse, error)
	Delete(context.Context, *model.DeleteIdeaRequest) (*model.DeleteIdeaResponse, error)
	ToggleVisibility(context.Context, *model.ToggleVisibilityRequest) (*model.ToggleVisibilityResponse, error)
	UpdateAttachments(context.Context, *model.UpdateAttachmentsRequest) (*model.UpdateAttachmentsResponse, error)
	View(context.Context, *model.ViewIdeaRequest) (*model.ViewIdeaResponse, error)
	Get(context.Context, *model.GetIdeaRequest) (*model.GetIdeaResponse, error)
	GetMyIdeas(context.Context, *model.GetMyIdeasRequest) (*model.GetMyIdeasResponse, error)
	GetPublicIdeas(context.Context, *model.GetPublicIdeasRequest) (*model.GetPublicIdeasResponse, error)
	GetStats(context.Context, *model.GetIdeaStatsRequest) (*model.GetIdeaStatsResponse, error)
	GetReferredIdeas(context.Context, *model.GetReferredIdeasRequest) (*model.GetReferredIdeasResponse, error)
	GetViewerClassification(
		context.Context, *model.GetViewerClassificationRequest,
	) (*model.GetViewerClassificationResponse, error)
}

type ideaDomain struct {
	ideaRepo       repository.IdeaRepository
	spreadEdgeRepo repository.SpreadEdgeRepository
	orchestrator   chain.Orchestrator
	aggregator     reach.Aggregator
	storage        storage.Storage
}

func NewIdeaDomain(
	ideaRepo repository.IdeaRepository,
	spreadEdgeRepo repository.SpreadEdgeRepository,
	orchestrator chain.Orchestrator,
	aggregator reach.Aggregator,
	fileStorage storage.Storage,
) *ideaDomain {
	return &ideaDomain{
		ideaRepo:       ideaRepo,
		spreadEdgeRepo: spreadEdgeRepo,
		orchestrator:   orchestrator,
		aggregator:     aggregator,
		storage:        fileStorage,
	}
}

func (d *ideaDomain) Create(
	ctx context.Context, req *model.CreateIdeaRequest,
) (*model.CreateIdeaResponse, error) {
	acc := xcontext.RequestAccount(ctx)
	if acc == nil {
		return nil, errorx.New(errorx.Unauthenticated, "Need to authenticate")
	}

	idea, err := d.orchestrator.CreateIdeaWithChain(ctx, acc.ID, chain.IdeaFields{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		IsPublic:       req.IsPublic,
		AttachmentRefs: req.AttachmentPaths,
	}, acc.Email)
	if err != nil {
		return nil, err
	}

	return &model.CreateIdeaResponse{Idea: convertIdea(idea, d.storage)}, nil
}

func (d *ideaDomain) Share(
	ctx context.Context, req *model.ShareIdeaRequest,
) (*model.ShareIdeaResponse, error) {
	stats, err := d.orchestrator.ShareIdea(ctx, req.IdeaID, xcontext.RequestAccount(ctx), req.Emails)
	if err != nil {
		return nil, err
	}

	return &model.ShareIdeaResponse{Stats: convertReachStats(stats)}, nil
}

func (d *ideaDomain) StopChain(
	ctx context.Context, req *model.StopChainRequest,
) (*model.StopChainResponse, error) {
	accountID, err := requireAccountID(ctx)
	if err != nil {
		return nil, err
	}

	if err := d.orchestrator.StopChain(ctx, req.IdeaID, accountID); err != nil {
		return nil, err
	}

	return &model.StopChainResponse{}, nil
}

func (d *ideaDomain) Delete(
	ctx context.Context, req *model.DeleteIdeaRequest,
) (*model.DeleteIdeaResponse, error) {
	accountID, err := requireAccountID(ctx)
	if err != nil {
		return nil, err
	}

	if err := d.orchestrator.DeleteIdeaCascade(ctx, req.IdeaID, accountID); err != nil {
		return nil, err
	}

	return &model.DeleteIdeaResponse{}, nil
}

func (d *ideaDomain) ToggleVisibility(
	ctx context.Context, req *model.ToggleVisibilityRequest,
) (*model.ToggleVisibilityResponse, error) {
	accountID, err := requireAccountID(ctx)
	if err != nil {
		return nil, err
	}

	idea, err := d.orchestrator.ToggleVisibility(ctx, req.IdeaID, accountID, req.IsPublic)
	if err != nil {
		return nil, err
	}

	return &model.ToggleVisibilityResponse{Idea: convertIdea(idea, d.storage)}, nil
}

func (d *ideaDomain) UpdateAttachments(
	ctx context.Context, req *model.UpdateAttachmentsRequest,
) (*model.UpdateAttachmentsResponse, error) {
	accountID, err := requireAccountID(ctx)
	if err != nil {
		return nil, err
	}

	idea, err := d.orchestrator.UpdateAttachments(ctx, req.IdeaID, accountID, req.AttachmentPaths)
	if err != nil {
		return nil, err
	}

	return &model.UpdateAttachmentsResponse{Idea: convertIdea(idea, d.storage)}, nil
}

func (d *ideaDomain) View(
	ctx context.Context, req *model.ViewIdeaRequest,
) (*model.ViewIdeaResponse, error) {
	idea, _, err := d.getViewableIdea(ctx, req.IdeaID)
	if err != nil {
		return nil, err
	}

	if err := d.ideaRepo.IncreaseViews(ctx, idea.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found idea")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase views: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ViewIdeaResponse{ViewCount: idea.ViewCount + 1}, nil
}

func (d *ideaDomain) Get(
	ctx context.Context, req *model.GetIdeaRequest,
) (*model.GetIdeaResponse, error) {
	idea, relationship, err := d.getViewableIdea(ctx, req.IdeaID)
	if err != nil {
		return nil, err
	}

	stats, err := d.aggregator.ComputeStats(ctx, idea.ID)
	if err != nil {
		return nil, err
	}

	return &model.GetIdeaResponse{
		Idea:         convertIdea(idea, d.storage),
		Stats:        convertReachStats(stats),
		Relationship: string(relationship),
		CanShare:     relationship.CanShare() && !idea.ChainStopped,
	}, nil
}

func (d *ideaDomain) GetMyIdeas(
	ctx context.Context, req *model.GetMyIdeasRequest,
) (*model.GetMyIdeasResponse, error) {
	accountID, err := requireAccountID(ctx)
	if err != nil {
		return nil, err
	}

	if err := checkPagination(ctx, &req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	ideas, err := d.ideaRepo.GetListByOwner(ctx, accountID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ideas of owner: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.withStats(ctx, ideas)
	if err != nil {
		return nil, err
	}

	return &model.GetMyIdeasResponse{Ideas: result}, nil
}

func (d *ideaDomain) GetPublicIdeas(
	ctx context.Context, req *model.GetPublicIdeasRequest,
) (*model.GetPublicIdeasResponse, error) {
	if err := checkPagination(ctx, &req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	ideas, err := d.ideaRepo.GetPublicList(ctx, repository.PublicIdeaFilter{
		Category: req.Category,
		Offset:   req.Offset,
		Limit:    req.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get public ideas: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.withStats(ctx, ideas)
	if err != nil {
		return nil, err
	}

	return &model.GetPublicIdeasResponse{Ideas: result}, nil
}

// GetStats returns zero stats for an idea which does not exist.
func (d *ideaDomain) GetStats(
	ctx context.Context, req *model.GetIdeaStatsRequest,
) (*model.GetIdeaStatsResponse, error) {
	_, _, err := d.getViewableIdea(ctx, req.IdeaID)
	if err != nil && !errorx.Is(err, errorx.NotFound) {
		return nil, err
	}

	stats, err := d.aggregator.ComputeStats(ctx, req.IdeaID)
	if err != nil {
		return nil, err
	}

	return &model.GetIdeaStatsResponse{Stats: convertReachStats(stats)}, nil
}

func (d *ideaDomain) GetReferredIdeas(
	ctx context.Context, req *model.GetReferredIdeasRequest,
) (*model.GetReferredIdeasResponse, error) {
	acc := xcontext.RequestAccount(ctx)
	if acc == nil {
		return nil, errorx.New(errorx.Unauthenticated, "Need to authenticate")
	}

	referred, err := d.spreadEdgeRepo.GetReferredIdeas(ctx, acc.ID, acc.NormalizedEmail())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get referred ideas: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	ideaIDs := []string{}
	for _, r := range referred {
		ideaIDs = append(ideaIDs, r.IdeaID)
	}

	ideas, err := d.ideaRepo.GetByIDs(ctx, ideaIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ideas by ids: %v", err)
		return nil, errorx.Unknown
	}

	ideaMap := map[string]*entity.Idea{}
	for i := range ideas {
		ideaMap[ideas[i].ID] = &ideas[i]
	}

	result := []model.ReferredIdea{}
	for _, r := range referred {
		// The edges of a deleted idea may outlive it for a short time.
		idea, ok := ideaMap[r.IdeaID]
		if !ok {
			continue
		}

		result = append(result, model.ReferredIdea{
			Idea:   convertIdea(idea, d.storage),
			Status: string(r.Status),
		})
	}

	return &model.GetReferredIdeasResponse{Ideas: result}, nil
}

func (d *ideaDomain) GetViewerClassification(
	ctx context.Context, req *model.GetViewerClassificationRequest,
) (*model.GetViewerClassificationResponse, error) {
	idea, edges, err := d.getIdeaAndEdges(ctx, req.IdeaID)
	if err != nil {
		return nil, err
	}

	relationship := viewer.Classify(viewer.FromAccount(xcontext.RequestAccount(ctx)), idea, edges)
	return &model.GetViewerClassificationResponse{
		Relationship: string(relationship),
		CanView:      relationship.CanView(),
		CanShare:     relationship.CanShare() && !idea.ChainStopped,
	}, nil
}

func (d *ideaDomain) getIdeaAndEdges(ctx context.Context, ideaID string) (*entity.Idea, []entity.SpreadEdge, error) {
	idea, err := d.ideaRepo.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errorx.New(errorx.NotFound, "Not found idea")
		}

		xcontext.Logger(ctx).Errorf("Cannot get idea: %v", err)
		return nil, nil, errorx.New(errorx.Unavailable, "Idea store is unavailable")
	}

	edges, err := d.spreadEdgeRepo.GetListByIdea(ctx, ideaID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get spread edges: %v", err)
		return nil, nil, errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	return idea, edges, nil
}

// getViewableIdea denies an anonymous visitor with Unauthenticated and any
// other visitor with PermissionDenied.
func (d *ideaDomain) getViewableIdea(
	ctx context.Context, ideaID string,
) (*entity.Idea, viewer.Relationship, error) {
	idea, edges, err := d.getIdeaAndEdges(ctx, ideaID)
	if err != nil {
		return nil, "", err
	}

	v := viewer.FromAccount(xcontext.RequestAccount(ctx))
	relationship := viewer.Classify(v, idea, edges)
	if !relationship.CanView() {
		if v.IsAnonymous() {
			return nil, "", errorx.New(errorx.Unauthenticated, "Need to authenticate to view this idea")
		}

		return nil, "", errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return idea, relationship, nil
}

func (d *ideaDomain) withStats(ctx context.Context, ideas []entity.Idea) ([]model.IdeaWithStats, error) {
	result := make([]model.IdeaWithStats, len(ideas))

	eg, egCtx := errgroup.WithContext(ctx)
	for i := range ideas {
		eg.Go(func() error {
			stats, err := d.aggregator.ComputeStats(egCtx, ideas[i].ID)
			if err != nil {
				return err
			}

			result[i] = model.IdeaWithStats{
				Idea:  convertIdea(&ideas[i], d.storage),
				Stats: convertReachStats(stats),
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}
