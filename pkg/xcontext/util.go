package xcontext

import (
	"context"

	"github.com/sparkloop/backend/pkg/account"
)

type (
	requestAccountKey struct{}
	responseKey       struct{}
	errorKey          struct{}
)

// WithRequestAccount stores the identity resolved from the Account Directory
// for this request.
func WithRequestAccount(ctx context.Context, acc *account.Account) context.Context {
	return context.WithValue(ctx, requestAccountKey{}, acc)
}

// RequestAccount returns nil for anonymous requests.
func RequestAccount(ctx context.Context) *account.Account {
	acc, _ := ctx.Value(requestAccountKey{}).(*account.Account)
	return acc
}

func RequestUserID(ctx context.Context) string {
	if acc := RequestAccount(ctx); acc != nil {
		return acc.ID
	}

	return ""
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func GetResponse(ctx context.Context) any {
	return ctx.Value(responseKey{})
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, _ := ctx.Value(errorKey{}).(error)
	return err
}
