package migration

import (
	"context"

	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.Idea{},
		&entity.SpreadEdge{},
		&entity.Migration{},
	)
}
