package middleware

import (
	"context"

	"github.com/sparkloop/backend/pkg/account"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/router"
	"github.com/sparkloop/backend/pkg/xcontext"
)

type AuthVerifier struct {
	directory account.Directory
	optional  bool
}

func NewAuthVerifier(directory account.Directory) *AuthVerifier {
	return &AuthVerifier{directory: directory}
}

// Optional lets anonymous requests through. An invalid token is treated as
// no token.
func (a *AuthVerifier) Optional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		acc, err := a.directory.CurrentAccount(ctx, xcontext.HTTPRequest(ctx))
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot resolve the request account: %v", err)
			acc = nil
		}

		if acc == nil {
			if a.optional {
				return ctx, nil
			}
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return xcontext.WithRequestAccount(ctx, acc), nil
	}
}
