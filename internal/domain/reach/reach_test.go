package reach

import (
	"testing"

	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/internal/repository"
	"github.com/sparkloop/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func selfEntry(email string) entity.SpreadEdge {
	return entity.SpreadEdge{ReferredEmail: email, Status: entity.SpreadPending}
}

func referral(referrer entity.Referrer, email string) entity.SpreadEdge {
	return entity.SpreadEdge{ReferrerID: referrer.Column(), ReferredEmail: email, Status: entity.SpreadPending}
}

func TestCompute(t *testing.T) {
	alice := entity.AccountReferrer("alice")
	tests := []struct {
		name  string
		edges []entity.SpreadEdge
		want  Stats
	}{
		{
			name:  "no edges",
			edges: nil,
			want:  Stats{ReferralCount: 0, UniqueReach: 1},
		},
		{
			name:  "only creator",
			edges: []entity.SpreadEdge{selfEntry("alice@x.com")},
			want:  Stats{ReferralCount: 0, UniqueReach: 1},
		},
		{
			name: "creator and two referrals",
			edges: []entity.SpreadEdge{
				selfEntry("alice@x.com"),
				referral(alice, "bob@x.com"),
				referral(alice, "carol@x.com"),
			},
			want: Stats{ReferralCount: 3, UniqueReach: 3},
		},
		{
			name: "emails compared case-insensitively",
			edges: []entity.SpreadEdge{
				selfEntry("alice@x.com"),
				referral(alice, "bob@x.com"),
				referral(entity.AnonymousReferrer(), "BOB@x.com"),
			},
			want: Stats{ReferralCount: 3, UniqueReach: 2},
		},
		{
			name: "creator referred back by someone else",
			edges: []entity.SpreadEdge{
				selfEntry("alice@x.com"),
				referral(entity.AccountReferrer("bob"), "alice@x.com"),
			},
			want: Stats{ReferralCount: 2, UniqueReach: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Compute(tt.edges))
		})
	}
}

func Test_aggregator_ComputeStats(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	a := NewAggregator(repository.NewIdeaRepository(), repository.NewSpreadEdgeRepository())

	stats, err := a.ComputeStats(ctx, testutil.PublicIdea.ID)
	require.NoError(t, err)
	require.Equal(t, Stats{ReferralCount: 2, UniqueReach: 2}, stats)

	stats, err = a.ComputeStats(ctx, testutil.PrivateIdea.ID)
	require.NoError(t, err)
	require.Equal(t, Stats{ReferralCount: 0, UniqueReach: 1}, stats)

	stats, err = a.ComputeStats(ctx, "unknown")
	require.NoError(t, err)
	require.Equal(t, Stats{}, stats)
}
