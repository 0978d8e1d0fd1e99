package middleware

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sparkloop/backend/pkg/router"
	"github.com/sparkloop/backend/pkg/xcontext"
)

// WithSnowFlake shares one id generator between all requests.
func WithSnowFlake(node *snowflake.Node) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithSnowFlake(ctx, node), nil
	}
}
