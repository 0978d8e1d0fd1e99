package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sparkloop/backend/internal/common"
	"github.com/sparkloop/backend/internal/middleware"
	"github.com/sparkloop/backend/migration"
	"github.com/sparkloop/backend/pkg/prometheus"
	"github.com/sparkloop/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.loadSnowflake()
	s.loadRedis()
	s.loadStorage()
	s.loadMailer()
	s.loadDirectory()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	if err := migration.Migrate(s.ctx); err != nil {
		return err
	}

	s.server = &http.Server{
		Addr: s.configs.ApiServer.Address(),
		Handler: cors.New(cors.Options{
			AllowedOrigins:   s.configs.ApiServer.AllowOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
		}).Handler(s.router.Handler()),
	}

	stopped := make(chan struct{})
	go s.waitForShutdown(stopped)

	s.logger.Infof("Starting server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	s.logger.Infof("Server stopped")
	return nil
}

func (s *srv) waitForShutdown(stopped chan<- struct{}) {
	defer close(stopped)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Errorf("Cannot shutdown server: %v", err)
	}

	// Pending referral mails and leaderboard updates finish before exit.
	s.orchestrator.Wait()
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.Before(middleware.WithStartTime())
	s.router.Before(middleware.WithSnowFlake(s.snowflake))
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Static(http.MethodGet, "/metrics", prometheus.NewHandler(common.PromCollectors()...))

	// These following APIs need an authenticated account.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.NewAuthVerifier(s.directory).Middleware())
	{
		// Idea API
		router.POST(authRouter, "/createIdea", s.ideaDomain.Create)
		router.POST(authRouter, "/stopChain", s.ideaDomain.StopChain)
		router.POST(authRouter, "/deleteIdea", s.ideaDomain.Delete)
		router.POST(authRouter, "/toggleVisibility", s.ideaDomain.ToggleVisibility)
		router.POST(authRouter, "/updateAttachments", s.ideaDomain.UpdateAttachments)
		router.GET(authRouter, "/getMyIdeas", s.ideaDomain.GetMyIdeas)
		router.GET(authRouter, "/referredIdeas", s.ideaDomain.GetReferredIdeas)

		// File API
		router.POST(authRouter, "/uploadAttachment", s.fileDomain.UploadAttachment)
	}

	// These following APIs are open to anonymous visitors.
	publicRouter := s.router.Branch()
	publicRouter.Before(middleware.NewAuthVerifier(s.directory).Optional().Middleware())
	{
		// Idea API
		router.POST(publicRouter, "/shareIdea", s.ideaDomain.Share)
		router.POST(publicRouter, "/viewIdea", s.ideaDomain.View)
		router.GET(publicRouter, "/getIdea", s.ideaDomain.Get)
		router.GET(publicRouter, "/getPublicIdeas", s.ideaDomain.GetPublicIdeas)
		router.GET(publicRouter, "/ideaStats", s.ideaDomain.GetStats)
		router.GET(publicRouter, "/viewerClassification", s.ideaDomain.GetViewerClassification)

		// Statistic API
		router.GET(publicRouter, "/platformStats", s.statisticDomain.GetPlatformStats)
		router.GET(publicRouter, "/spreaderLeaderboard", s.statisticDomain.GetSpreaderLeaderboard)
	}
}
