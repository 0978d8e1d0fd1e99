package viewer

import (
	"database/sql"
	"testing"

	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/pkg/account"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	alice := entity.AccountReferrer("alice")
	edges := []entity.SpreadEdge{
		{ReferredEmail: "alice@x.com", Status: entity.SpreadPending},
		{ReferrerID: alice.Column(), ReferredEmail: "bob@x.com", Status: entity.SpreadPending},
		{ReferrerID: alice.Column(), ReferredEmail: "carol@x.com", Status: entity.SpreadShared},
		{
			ReferrerID:        alice.Column(),
			ReferredEmail:     "dave@old.com",
			ReferredAccountID: sql.NullString{Valid: true, String: "dave"},
			Status:            entity.SpreadShared,
		},
	}

	public := &entity.Idea{OwnerID: "alice", IsPublic: true}
	private := &entity.Idea{OwnerID: "alice", IsPublic: false}

	tests := []struct {
		name   string
		viewer Viewer
		idea   *entity.Idea
		want   Relationship
	}{
		{
			name:   "owner",
			viewer: Viewer{AccountID: "alice", Email: "alice@x.com"},
			idea:   private,
			want:   Creator,
		},
		{
			name:   "pending referral",
			viewer: Viewer{AccountID: "bob", Email: "bob@x.com"},
			idea:   private,
			want:   ReferredPending,
		},
		{
			name:   "email compared case-insensitively",
			viewer: Viewer{AccountID: "bob", Email: "Bob@X.com"},
			idea:   private,
			want:   ReferredPending,
		},
		{
			name:   "shared referral",
			viewer: Viewer{AccountID: "carol", Email: "carol@x.com"},
			idea:   public,
			want:   ReferredShared,
		},
		{
			name:   "linked account with a changed email",
			viewer: Viewer{AccountID: "dave", Email: "dave@new.com"},
			idea:   private,
			want:   ReferredShared,
		},
		{
			name:   "someone else with the email of a linked edge",
			viewer: Viewer{AccountID: "mallory", Email: "dave@old.com"},
			idea:   private,
			want:   Unauthenticated,
		},
		{
			name:   "anonymous on public idea",
			viewer: Viewer{},
			idea:   public,
			want:   PublicVisitor,
		},
		{
			name:   "anonymous on private idea",
			viewer: Viewer{},
			idea:   private,
			want:   Unauthenticated,
		},
		{
			name:   "stranger on public idea",
			viewer: Viewer{AccountID: "eve", Email: "eve@x.com"},
			idea:   public,
			want:   PublicVisitor,
		},
		{
			name:   "stranger on private idea",
			viewer: Viewer{AccountID: "eve", Email: "eve@x.com"},
			idea:   private,
			want:   Unauthenticated,
		},
		{
			name:   "creator email used by another account",
			viewer: Viewer{AccountID: "eve", Email: "alice@x.com"},
			idea:   private,
			want:   Unauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.viewer, tt.idea, edges))
		})
	}
}

func TestRelationship(t *testing.T) {
	require.False(t, Unauthenticated.CanView())
	require.True(t, PublicVisitor.CanView())

	require.True(t, ReferredPending.CanShare())
	require.False(t, ReferredShared.CanShare())
	require.False(t, Unauthenticated.CanShare())
}

func TestFromAccount(t *testing.T) {
	require.True(t, FromAccount(nil).IsAnonymous())

	v := FromAccount(&account.Account{ID: "bob", Email: " Bob@X.com "})
	require.Equal(t, Viewer{AccountID: "bob", Email: "bob@x.com"}, v)
}
