package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/sparkloop/backend/internal/common"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/router"
	"github.com/sparkloop/backend/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		startTime := xcontext.StartTime(ctx)
		path := xcontext.HTTPRequest(ctx).URL.Path

		code := 0
		if err := xcontext.Error(ctx); err != nil {
			code = int(errorx.CodeOf(err))
		}

		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(path, fmt.Sprint(code)).Inc()

		if !startTime.IsZero() {
			common.PromHistograms[common.HTTPRequestDurationSeconds].
				WithLabelValues(path, fmt.Sprint(code)).Observe(time.Since(startTime).Seconds())
		}
	}
}
