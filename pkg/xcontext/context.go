package xcontext

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sparkloop/backend/config"
	"github.com/sparkloop/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	snowflakeKey     struct{}
	httpRequestKey   struct{}
	startTimeKey     struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Default()
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.SILENCE, false)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction if WithDBTransaction was called on this
// context, otherwise the root database handle. The handle is bound to ctx so
// queries honor its deadline.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB); ok {
		return tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction. Every DB(ctx) call on the returned
// context uses it until it is committed or rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	tx := DB(ctx).Begin()
	return context.WithValue(ctx, dbTransactionKey{}, tx)
}

func WithCommitDBTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return tx.Commit().Error
}

// WithRollbackDBTransaction is safe to defer after a commit, the rollback of
// a finished transaction is ignored.
func WithRollbackDBTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	err := tx.Rollback().Error
	if errors.Is(err, sql.ErrTxDone) || errors.Is(err, gorm.ErrInvalidTransaction) {
		return nil
	}

	return err
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	node, _ := ctx.Value(snowflakeKey{}).(*snowflake.Node)
	return node
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	r, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return r
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t, _ := ctx.Value(startTimeKey{}).(time.Time)
	return t
}
