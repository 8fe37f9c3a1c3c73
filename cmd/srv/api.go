package main

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/theraswitchrx/backend/internal/middleware"
	"github.com/theraswitchrx/backend/pkg/router"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadDatabase()
	s.migrateDB()
	s.loadAuth()
	s.loadSearchIndex()
	s.loadEndpoints()
	s.loadRedis()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	defer s.searchCaller.Close()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: cors.AllowAll().Handler(s.router.Handler()),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}
	xcontext.Logger(s.ctx).Infof("Server stopped")

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	// Pages
	s.router.File("/", "./web/index.html")
	s.router.File("/get-api-key", "./web/get_api_key.html")
	s.router.File("/api/docs", "./web/api_docs.html")

	// Public API. Visitors get a session id so anonymous usage can still be
	// grouped in the logs.
	publicRouter := s.router.Branch()
	publicRouter.Before(middleware.HandleVisitorSession())
	{
		router.POST(publicRouter, "/api/search", s.recommendationDomain.Search)
		router.GET(publicRouter, "/api/health", s.statisticDomain.GetHealth)
		router.GET(publicRouter, "/api/v1/health", s.statisticDomain.GetHealth)
		router.GET(publicRouter, "/api/v1/stats", s.statisticDomain.GetStats)
		router.POST(publicRouter, "/api/v1/get-api-key", s.apiKeyDomain.Issue)
	}

	// These following APIs need authentication with an API key.
	keyAuthRouter := s.router.Branch()
	keyAuthRouter.Before(middleware.NewAuthVerifier().
		WithAPIKey(s.apiKeyRepo, s.usageRecorder).Middleware())
	{
		router.POST(keyAuthRouter, "/api/v1/search", s.recommendationDomain.Search)
		router.GET(keyAuthRouter, "/api/v1/medicine/{medicine_name}", s.recommendationDomain.GetMedicine)
		router.POST(keyAuthRouter, "/api/v1/alternatives", s.recommendationDomain.GetAlternatives)
		router.GET(keyAuthRouter, "/api/v1/key-info", s.apiKeyDomain.GetKeyInfo)
	}

	// Key management needs an admin access token.
	adminRouter := s.router.Branch()
	adminRouter.Before(middleware.NewAuthVerifier().WithAccessToken().Middleware())
	adminRouter.Before(middleware.OnlyAdmin())
	{
		router.POST(adminRouter, "/api/v1/keys/revoke", s.apiKeyDomain.Revoke)
		router.GET(adminRouter, "/api/v1/keys/usage", s.apiKeyDomain.GetUsageLogs)
	}
}
