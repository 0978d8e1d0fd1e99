package main

import (
	"context"
	"log"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/sparkloop/backend/config"
	"github.com/sparkloop/backend/internal/domain"
	"github.com/sparkloop/backend/internal/domain/chain"
	"github.com/sparkloop/backend/internal/domain/leaderboard"
	"github.com/sparkloop/backend/internal/domain/notifier"
	"github.com/sparkloop/backend/internal/domain/reach"
	"github.com/sparkloop/backend/internal/repository"
	"github.com/sparkloop/backend/pkg/account"
	"github.com/sparkloop/backend/pkg/authenticator"
	"github.com/sparkloop/backend/pkg/idutil"
	"github.com/sparkloop/backend/pkg/logger"
	"github.com/sparkloop/backend/pkg/mailer"
	"github.com/sparkloop/backend/pkg/router"
	"github.com/sparkloop/backend/pkg/storage"
	"github.com/sparkloop/backend/pkg/xcontext"
	"github.com/sparkloop/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs   *config.Configs
	logger    logger.Logger
	db        *gorm.DB
	snowflake *snowflake.Node

	redisClient xredis.Client
	storage     storage.Storage
	mailer      mailer.Sender
	directory   account.Directory

	ideaRepo       repository.IdeaRepository
	spreadEdgeRepo repository.SpreadEdgeRepository

	aggregator   reach.Aggregator
	leaderboard  leaderboard.Leaderboard
	orchestrator chain.Orchestrator

	ideaDomain      domain.IdeaDomain
	fileDomain      domain.FileDomain
	statisticDomain domain.StatisticDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		log.Fatalf("Cannot load configurations: %v", err)
	}

	s.configs = &cfg
	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.ParseLevel(s.configs.LogLevel), s.configs.Env == "local")
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) newDatabase() *gorm.DB {
	var dialector gorm.Dialector
	switch s.configs.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(s.configs.Database.ConnectionString())
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       s.configs.Database.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	default:
		log.Fatalf("Unsupported database driver %q", s.configs.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}

	if s.configs.Database.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Cannot get sql database: %v", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db
}

func (s *srv) loadDatabase() {
	s.db = s.newDatabase()
	s.ctx = xcontext.WithDB(s.ctx, s.db)
}

func (s *srv) loadSnowflake() {
	node, err := idutil.NewSnowflakeNode(s.configs.Snowflake.NodeID)
	if err != nil {
		log.Fatalf("Cannot create snowflake node: %v", err)
	}

	s.snowflake = node
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadRedis() {
	if !s.configs.Redis.Enable {
		s.logger.Infof("Redis is disabled, the spreader leaderboard is empty")
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		log.Fatalf("Cannot connect to redis: %v", err)
	}

	s.redisClient = client
}

func (s *srv) loadStorage() {
	s3Storage, err := storage.NewS3Storage(s.configs.Storage)
	if err != nil {
		log.Fatalf("Cannot create storage: %v", err)
	}

	s.storage = s3Storage
}

func (s *srv) loadMailer() {
	s.mailer = mailer.NewSMTPSender(s.configs.Mail)
	if !s.mailer.IsConfigured() {
		s.logger.Infof("SMTP host is not set, referral mails are disabled")
	}
}

func (s *srv) loadDirectory() {
	engine := authenticator.NewTokenEngine[account.Account](
		s.configs.Auth.TokenSecret,
		s.configs.Auth.TokenIssuer,
		s.configs.Auth.AccessToken.Expiration,
	)
	s.directory = account.NewTokenDirectory(engine, s.configs.Auth.AccessToken.Name)
}

func (s *srv) loadRepos() {
	s.ideaRepo = repository.NewIdeaRepository()
	s.spreadEdgeRepo = repository.NewSpreadEdgeRepository()
}

func (s *srv) loadDomains() {
	s.aggregator = reach.NewAggregator(s.ideaRepo, s.spreadEdgeRepo)
	s.leaderboard = leaderboard.New(s.spreadEdgeRepo, s.redisClient)
	s.orchestrator = chain.NewOrchestrator(
		s.ideaRepo,
		s.spreadEdgeRepo,
		s.aggregator,
		s.leaderboard,
		notifier.New(s.mailer),
	)

	s.ideaDomain = domain.NewIdeaDomain(
		s.ideaRepo, s.spreadEdgeRepo, s.orchestrator, s.aggregator, s.storage)
	s.fileDomain = domain.NewFileDomain(s.storage)
	s.statisticDomain = domain.NewStatisticDomain(s.ideaRepo, s.spreadEdgeRepo, s.leaderboard)
}
