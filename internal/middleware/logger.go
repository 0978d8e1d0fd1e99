package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/router"
	"github.com/sparkloop/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)
		if start := xcontext.StartTime(ctx); !start.IsZero() {
			info = fmt.Sprintf("%s | %s", info, time.Since(start))
		}

		err := xcontext.Error(ctx)
		switch {
		case err == nil:
			xcontext.Logger(ctx).Infof("%s", info)
		case errorx.CodeOf(err) == errorx.Unknown.Code:
			xcontext.Logger(ctx).Errorf("%s | %v", info, err)
		case errorx.CodeOf(err).HTTPStatus() >= 500:
			xcontext.Logger(ctx).Errorf("%s | %d", info, errorx.CodeOf(err))
		default:
			xcontext.Logger(ctx).Warnf("%s | %d", info, errorx.CodeOf(err))
		}
	}
}
