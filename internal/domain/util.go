package domain

import (
	"context"

	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/xcontext"
)

// checkPagination fills the default limit and rejects the invalid values.
func checkPagination(ctx context.Context, offset, limit *int) error {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if *limit == 0 {
		*limit = apiCfg.DefaultLimit
	}

	if *limit < 0 {
		return errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if *limit > apiCfg.MaxLimit {
		return errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	if *offset < 0 {
		return errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	return nil
}

func requireAccountID(ctx context.Context) (string, error) {
	accountID := xcontext.RequestUserID(ctx)
	if accountID == "" {
		return "", errorx.New(errorx.Unauthenticated, "Need to authenticate")
	}

	return accountID, nil
}
