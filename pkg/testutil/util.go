package testutil

import (
	"context"

	"github.com/sparkloop/backend/config"
	"github.com/sparkloop/backend/migration"
	"github.com/sparkloop/backend/pkg/account"
	"github.com/sparkloop/backend/pkg/idutil"
	"github.com/sparkloop/backend/pkg/logger"
	"github.com/sparkloop/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Auth.TokenSecret = "secret"
	cfg.ApiServer.DefaultLimit = 10
	cfg.ApiServer.MaxLimit = 50
	cfg.Idea.PublicURL = "https://sparkloop.test"
	return cfg
}

// MockContext returns a context with a migrated in-memory database. The pool
// is limited to one connection since every connection to ":memory:" opens a
// different database.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	node, err := idutil.NewSnowflakeNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE, false))
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithAccount(acc account.Account) context.Context {
	return xcontext.WithRequestAccount(MockContext(), &acc)
}

// WithAccount switches the request account of an existing mock context,
// keeping its database.
func WithAccount(ctx context.Context, acc *account.Account) context.Context {
	return xcontext.WithRequestAccount(ctx, acc)
}
