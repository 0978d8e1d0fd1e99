package testutil

import (
	"context"

	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/pkg/account"
	"github.com/sparkloop/backend/pkg/xcontext"
)

var (
	Alice = account.Account{ID: "alice", Email: "alice@x.com", DisplayName: "Alice"}
	Bob   = account.Account{ID: "bob", Email: "bob@x.com", DisplayName: "Bob"}
	Carol = account.Account{ID: "carol", Email: "carol@x.com", DisplayName: "Carol"}
)

var (
	// PublicIdea is owned by Alice, who referred Bob.
	PublicIdea = entity.Idea{
		Base:        entity.Base{ID: "public_idea"},
		OwnerID:     Alice.ID,
		Title:       "Community garden",
		Description: "Turn the parking lot into a garden",
		Category:    "Environment",
		IsPublic:    true,
	}

	// PrivateIdea is owned by Alice and has only her self-entry.
	PrivateIdea = entity.Idea{
		Base:        entity.Base{ID: "private_idea"},
		OwnerID:     Alice.ID,
		Title:       "Tool library",
		Description: "Lend tools to neighbours",
		Category:    "Community",
		IsPublic:    false,
	}

	// StoppedIdea is owned by Bob and does not accept referrals anymore.
	StoppedIdea = entity.Idea{
		Base:         entity.Base{ID: "stopped_idea"},
		OwnerID:      Bob.ID,
		Title:        "Book swap",
		Description:  "Swap books every friday",
		Category:     "Education",
		IsPublic:     true,
		ChainStopped: true,
	}

	Ideas = []entity.Idea{PublicIdea, PrivateIdea, StoppedIdea}

	SpreadEdges = []entity.SpreadEdge{
		{
			ID:            1,
			IdeaID:        PublicIdea.ID,
			ReferredEmail: Alice.Email,
			Status:        entity.SpreadPending,
		},
		{
			ID:            2,
			IdeaID:        PublicIdea.ID,
			ReferrerID:    entity.AccountReferrer(Alice.ID).Column(),
			ReferredEmail: Bob.Email,
			Status:        entity.SpreadPending,
		},
		{
			ID:            3,
			IdeaID:        PrivateIdea.ID,
			ReferredEmail: Alice.Email,
			Status:        entity.SpreadPending,
		},
		{
			ID:            4,
			IdeaID:        StoppedIdea.ID,
			ReferredEmail: Bob.Email,
			Status:        entity.SpreadPending,
		},
	}
)

// CreateFixtureDb inserts Ideas and SpreadEdges into the database of ctx.
func CreateFixtureDb(ctx context.Context) {
	ideas := make([]entity.Idea, len(Ideas))
	copy(ideas, Ideas)
	if err := xcontext.DB(ctx).Create(&ideas).Error; err != nil {
		panic(err)
	}

	edges := make([]entity.SpreadEdge, len(SpreadEdges))
	copy(edges, SpreadEdges)
	if err := xcontext.DB(ctx).Create(&edges).Error; err != nil {
		panic(err)
	}
}
