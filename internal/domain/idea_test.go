package domain

import (
	"context"
	"testing"

	"github.com/sparkloop/backend/internal/domain/chain"
	"github.com/sparkloop/backend/internal/domain/reach"
	"github.com/sparkloop/backend/internal/domain/viewer"
	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/internal/model"
	"github.com/sparkloop/backend/internal/repository"
	"github.com/sparkloop/backend/mocks"
	"github.com/sparkloop/backend/pkg/account"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestIdeaDomain(ctx context.Context) *ideaDomain {
	testutil.CreateFixtureDb(ctx)

	stg := &mocks.Storage{}
	stg.On("PublicURL", mock.Anything).Return("https://cdn.sparkloop.test/file")

	ideaRepo := repository.NewIdeaRepository()
	edgeRepo := repository.NewSpreadEdgeRepository()
	aggregator := reach.NewAggregator(ideaRepo, edgeRepo)
	return NewIdeaDomain(
		ideaRepo,
		edgeRepo,
		chain.NewOrchestrator(ideaRepo, edgeRepo, aggregator),
		aggregator,
		stg,
	)
}

func as(ctx context.Context, acc account.Account) context.Context {
	return testutil.WithAccount(ctx, &acc)
}

func anonymous(ctx context.Context) context.Context {
	return testutil.WithAccount(ctx, nil)
}

func requireCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, errorx.CodeOf(err), err.Error())
}

func Test_ideaDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestIdeaDomain(ctx)

	resp, err := d.Create(as(ctx, testutil.Carol), &model.CreateIdeaRequest{
		Title:           "Street library",
		Description:     "A shelf of books on every corner",
		IsPublic:        true,
		AttachmentPaths: []string{"ideas/shelf.png"},
	})
	require.NoError(t, err)
	require.Equal(t, testutil.Carol.ID, resp.Idea.OwnerID)
	require.Equal(t, "Uncategorized", resp.Idea.Category)
	require.Equal(t, []string{"ideas/shelf.png"}, resp.Idea.AttachmentPaths)
	require.Equal(t, []string{"https://cdn.sparkloop.test/file"}, resp.Idea.AttachmentURLs)

	classification, err := d.GetViewerClassification(as(ctx, testutil.Carol),
		&model.GetViewerClassificationRequest{IdeaID: resp.Idea.ID})
	require.NoError(t, err)
	require.Equal(t, string(viewer.Creator), classification.Relationship)

	stats, err := d.GetStats(anonymous(ctx), &model.GetIdeaStatsRequest{IdeaID: resp.Idea.ID})
	require.NoError(t, err)
	require.Equal(t, model.ReachStats{ReferralCount: 0, UniqueReach: 1}, stats.Stats)

	_, err = d.Create(anonymous(ctx), &model.CreateIdeaRequest{Title: "Nobody"})
	requireCode(t, err, errorx.Unauthenticated)
}

func Test_ideaDomain_Get(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestIdeaDomain(ctx)

	tests := []struct {
		name         string
		ctx          context.Context
		ideaID       string
		relationship viewer.Relationship
		canShare     bool
		stats        model.ReachStats
		wantErr      errorx.Code
	}{
		{
			name:         "public idea to anonymous",
			ctx:          anonymous(ctx),
			ideaID:       testutil.PublicIdea.ID,
			relationship: viewer.PublicVisitor,
			canShare:     true,
			stats:        model.ReachStats{ReferralCount: 2, UniqueReach: 2},
		},
		{
			name:         "public idea to referred account",
			ctx:          as(ctx, testutil.Bob),
			ideaID:       testutil.PublicIdea.ID,
			relationship: viewer.ReferredPending,
			canShare:     true,
			stats:        model.ReachStats{ReferralCount: 2, UniqueReach: 2},
		},
		{
			name:         "private idea to creator",
			ctx:          as(ctx, testutil.Alice),
			ideaID:       testutil.PrivateIdea.ID,
			relationship: viewer.Creator,
			canShare:     true,
			stats:        model.ReachStats{ReferralCount: 0, UniqueReach: 1},
		},
		{
			name:         "stopped idea cannot be shared",
			ctx:          as(ctx, testutil.Alice),
			ideaID:       testutil.StoppedIdea.ID,
			relationship: viewer.PublicVisitor,
			canShare:     false,
			stats:        model.ReachStats{ReferralCount: 0, UniqueReach: 1},
		},
		{
			name:    "private idea to anonymous",
			ctx:     anonymous(ctx),
			ideaID:  testutil.PrivateIdea.ID,
			wantErr: errorx.Unauthenticated,
		},
		{
			name:    "private idea to stranger",
			ctx:     as(ctx, testutil.Bob),
			ideaID:  testutil.PrivateIdea.ID,
			wantErr: errorx.PermissionDenied,
		},
		{
			name:    "missing idea",
			ctx:     as(ctx, testutil.Alice),
			ideaID:  "missing",
			wantErr: errorx.NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := d.Get(tt.ctx, &model.GetIdeaRequest{IdeaID: tt.ideaID})
			if tt.wantErr != 0 {
				requireCode(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.ideaID, resp.Idea.ID)
			require.Equal(t, string(tt.relationship), resp.Relationship)
			require.Equal(t, tt.canShare, resp.CanShare)
			require.Equal(t, tt.stats, resp.Stats)
		})
	}
}

func Test_ideaDomain_Share(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestIdeaDomain(ctx)

	// Anonymous visitors may share public ideas.
	resp, err := d.Share(anonymous(ctx), &model.ShareIdeaRequest{
		IdeaID: testutil.PublicIdea.ID,
		Emails: []string{" Dave@X.com "},
	})
	require.NoError(t, err)
	require.Equal(t, model.ReachStats{ReferralCount: 3, UniqueReach: 3}, resp.Stats)

	_, err = d.Share(as(ctx, testutil.Bob), &model.ShareIdeaRequest{
		IdeaID: testutil.PublicIdea.ID,
		Emails: []string{"dave@x.com"},
	})
	requireCode(t, err, errorx.DuplicateReferral)

	_, err = d.Share(as(ctx, testutil.Alice), &model.ShareIdeaRequest{
		IdeaID: testutil.StoppedIdea.ID,
		Emails: []string{"erin@x.com"},
	})
	requireCode(t, err, errorx.ChainStopped)

	_, err = d.Share(anonymous(ctx), &model.ShareIdeaRequest{
		IdeaID: testutil.PrivateIdea.ID,
		Emails: []string{"erin@x.com"},
	})
	requireCode(t, err, errorx.NotFound)
}

func Test_ideaDomain_OwnerOperations(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestIdeaDomain(ctx)

	_, err := d.StopChain(anonymous(ctx), &model.StopChainRequest{IdeaID: testutil.PublicIdea.ID})
	requireCode(t, err, errorx.Unauthenticated)

	_, err = d.StopChain(as(ctx, testutil.Bob), &model.StopChainRequest{IdeaID: testutil.PublicIdea.ID})
	requireCode(t, err, errorx.PermissionDenied)

	_, err = d.StopChain(as(ctx, testutil.Alice), &model.StopChainRequest{IdeaID: testutil.PublicIdea.ID})
	require.NoError(t, err)

	private := false
	toggled, err := d.ToggleVisibility(as(ctx, testutil.Alice), &model.ToggleVisibilityRequest{
		IdeaID:   testutil.PublicIdea.ID,
		IsPublic: &private,
	})
	require.NoError(t, err)
	require.False(t, toggled.Idea.IsPublic)
	require.True(t, toggled.Idea.ChainStopped)

	toggled, err = d.ToggleVisibility(as(ctx, testutil.Alice), &model.ToggleVisibilityRequest{
		IdeaID: testutil.PublicIdea.ID,
	})
	require.NoError(t, err)
	require.True(t, toggled.Idea.IsPublic)

	updated, err := d.UpdateAttachments(as(ctx, testutil.Alice), &model.UpdateAttachmentsRequest{
		IdeaID:          testutil.PublicIdea.ID,
		AttachmentPaths: []string{"ideas/a.png", "ideas/b.png"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ideas/a.png", "ideas/b.png"}, updated.Idea.AttachmentPaths)

	_, err = d.Delete(as(ctx, testutil.Bob), &model.DeleteIdeaRequest{IdeaID: testutil.PublicIdea.ID})
	requireCode(t, err, errorx.PermissionDenied)

	_, err = d.Delete(as(ctx, testutil.Alice), &model.DeleteIdeaRequest{IdeaID: testutil.PublicIdea.ID})
	require.NoError(t, err)

	_, err = d.Get(as(ctx, testutil.Alice), &model.GetIdeaRequest{IdeaID: testutil.PublicIdea.ID})
	requireCode(t, err, errorx.NotFound)
}

func Test_ideaDomain_View(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestIdeaDomain(ctx)

	resp, err := d.View(anonymous(ctx), &model.ViewIdeaRequest{IdeaID: testutil.PublicIdea.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.ViewCount)

	resp, err = d.View(as(ctx, testutil.Bob), &model.ViewIdeaRequest{IdeaID: testutil.PublicIdea.ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.ViewCount)

	_, err = d.View(anonymous(ctx), &model.ViewIdeaRequest{IdeaID: testutil.PrivateIdea.ID})
	requireCode(t, err, errorx.Unauthenticated)

	idea, err := repository.NewIdeaRepository().GetByID(ctx, testutil.PrivateIdea.ID)
	require.NoError(t, err)
	require.Zero(t, idea.ViewCount)
}

func Test_ideaDomain_GetMyIdeas(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestIdeaDomain(ctx)

	resp, err := d.GetMyIdeas(as(ctx, testutil.Alice), &model.GetMyIdeasRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Ideas, 2)

	stats := map[string]model.ReachStats{}
	for _, i := range resp.Ideas {
		require.Equal(t, testutil.Alice.ID, i.Idea.OwnerID)
		stats[i.Idea.ID] = i.Stats
	}
	require.Equal(t, model.ReachStats{ReferralCount: 2, UniqueReach: 2}, stats[testutil.PublicIdea.ID])
	require.Equal(t, model.ReachStats{ReferralCount: 0, UniqueReach: 1}, stats[testutil.PrivateIdea.ID])

	_, err = d.GetMyIdeas(as(ctx, testutil.Alice), &model.GetMyIdeasRequest{Limit: 51})
	requireCode(t, err, errorx.BadRequest)

	_, err = d.GetMyIdeas(anonymous(ctx), &model.GetMyIdeasRequest{})
	requireCode(t, err, errorx.Unauthenticated)
}

func Test_ideaDomain_GetPublicIdeas(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestIdeaDomain(ctx)

	resp, err := d.GetPublicIdeas(anonymous(ctx), &model.GetPublicIdeasRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Ideas, 2)
	for _, i := range resp.Ideas {
		require.True(t, i.Idea.IsPublic)
	}

	resp, err = d.GetPublicIdeas(anonymous(ctx), &model.GetPublicIdeasRequest{Category: "Environment"})
	require.NoError(t, err)
	require.Len(t, resp.Ideas, 1)
	require.Equal(t, testutil.PublicIdea.ID, resp.Ideas[0].Idea.ID)

	resp, err = d.GetPublicIdeas(anonymous(ctx), &model.GetPublicIdeasRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Ideas, 1)

	_, err = d.GetPublicIdeas(anonymous(ctx), &model.GetPublicIdeasRequest{Limit: -1})
	requireCode(t, err, errorx.BadRequest)
}

func Test_ideaDomain_GetStats(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestIdeaDomain(ctx)

	resp, err := d.GetStats(anonymous(ctx), &model.GetIdeaStatsRequest{IdeaID: "missing"})
	require.NoError(t, err)
	require.Equal(t, model.ReachStats{}, resp.Stats)

	_, err = d.GetStats(as(ctx, testutil.Carol), &model.GetIdeaStatsRequest{IdeaID: testutil.PrivateIdea.ID})
	requireCode(t, err, errorx.PermissionDenied)
}

func Test_ideaDomain_GetReferredIdeas(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestIdeaDomain(ctx)

	resp, err := d.GetReferredIdeas(as(ctx, testutil.Bob), &model.GetReferredIdeasRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Ideas, 1)
	require.Equal(t, testutil.PublicIdea.ID, resp.Ideas[0].Idea.ID)
	require.Equal(t, string(entity.SpreadPending), resp.Ideas[0].Status)

	// Sharing activates the edge of the sharer.
	_, err = d.Share(as(ctx, testutil.Bob), &model.ShareIdeaRequest{
		IdeaID: testutil.PublicIdea.ID,
		Emails: []string{"carol@x.com"},
	})
	require.NoError(t, err)

	resp, err = d.GetReferredIdeas(as(ctx, testutil.Bob), &model.GetReferredIdeasRequest{})
	require.NoError(t, err)
	require.Equal(t, string(entity.SpreadShared), resp.Ideas[0].Status)

	resp, err = d.GetReferredIdeas(as(ctx, testutil.Alice), &model.GetReferredIdeasRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Ideas)

	_, err = d.GetReferredIdeas(anonymous(ctx), &model.GetReferredIdeasRequest{})
	requireCode(t, err, errorx.Unauthenticated)
}

func Test_ideaDomain_GetViewerClassification(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestIdeaDomain(ctx)

	resp, err := d.GetViewerClassification(anonymous(ctx),
		&model.GetViewerClassificationRequest{IdeaID: testutil.PrivateIdea.ID})
	require.NoError(t, err)
	require.Equal(t, &model.GetViewerClassificationResponse{
		Relationship: string(viewer.Unauthenticated),
		CanView:      false,
		CanShare:     false,
	}, resp)

	resp, err = d.GetViewerClassification(as(ctx, testutil.Bob),
		&model.GetViewerClassificationRequest{IdeaID: testutil.PublicIdea.ID})
	require.NoError(t, err)
	require.Equal(t, string(viewer.ReferredPending), resp.Relationship)
	require.True(t, resp.CanShare)

	_, err = d.GetViewerClassification(anonymous(ctx),
		&model.GetViewerClassificationRequest{IdeaID: "missing"})
	requireCode(t, err, errorx.NotFound)
}
