package chain

import (
	"context"

	"github.com/sparkloop/backend/internal/entity"
)

type ShareEvent struct {
	Idea         entity.Idea
	Referrer     entity.Referrer
	ReferrerName string
	Edges        []entity.SpreadEdge
}

// Listener is notified after a chain change has been committed. Listeners
// cannot fail the operation, they log their own errors. OnShared runs in
// background once the share answered, OnDeleted runs before the delete
// answers.
type Listener interface {
	OnShared(ctx context.Context, event ShareEvent)
	OnDeleted(ctx context.Context, idea entity.Idea, edges []entity.SpreadEdge)
}
