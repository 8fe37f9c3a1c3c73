package main

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/theraswitchrx/backend/config"
	"github.com/theraswitchrx/backend/internal/common"
	"github.com/theraswitchrx/backend/internal/domain"
	"github.com/theraswitchrx/backend/internal/domain/recommend"
	"github.com/theraswitchrx/backend/internal/domain/search"
	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/api/groq"
	"github.com/theraswitchrx/backend/pkg/api/huggingface"
	"github.com/theraswitchrx/backend/pkg/authenticator"
	"github.com/theraswitchrx/backend/pkg/kafka"
	"github.com/theraswitchrx/backend/pkg/logger"
	"github.com/theraswitchrx/backend/pkg/pubsub"
	"github.com/theraswitchrx/backend/pkg/router"
	"github.com/theraswitchrx/backend/pkg/storage"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/theraswitchrx/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	apiKeyRepo   repository.APIKeyRepository
	medicineRepo repository.MedicineRepository
	usageLogRepo repository.UsageLogRepository

	apiKeyDomain         domain.APIKeyDomain
	recommendationDomain domain.RecommendationDomain
	statisticDomain      domain.StatisticDomain

	searchCaller  search.Caller
	completers    []recommend.Completer
	redisClient   xredis.Client
	publisher     pubsub.Publisher
	subscriber    pubsub.Subscriber
	objectStorage storage.Storage
	usageRecorder common.UsageRecorder

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithConfigs(s.ctx, *cfg)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "development" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.ConnectionString())
	default:
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(xcontext.DB(s.ctx)); err != nil {
		panic(err)
	}
}

func (s *srv) loadAuth() {
	cfg := xcontext.Configs(s.ctx)
	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	s.ctx = xcontext.WithSessionStore(s.ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadSearchIndex() {
	s.searchCaller = search.NewBleveIndex(s.ctx)
}

func (s *srv) loadEndpoints() {
	cfg := xcontext.Configs(s.ctx)

	if cfg.Groq.APIKey != "" {
		s.completers = append(s.completers, recommend.NewGroqCompleter(groq.New(cfg.Groq)))
	} else {
		xcontext.Logger(s.ctx).Warnf("No groq api key is configured")
	}

	if cfg.HuggingFace.APIToken != "" {
		s.completers = append(s.completers,
			recommend.NewHuggingFaceCompleter(huggingface.New(cfg.HuggingFace)))
	} else {
		xcontext.Logger(s.ctx).Warnf("No huggingface api token is configured")
	}

	if len(s.completers) == 0 {
		xcontext.Logger(s.ctx).Warnf("No completion backend is available, answers will use the fallback")
	}
}

func (s *srv) loadRedis() {
	if xcontext.Configs(s.ctx).Redis.Addr == "" {
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
}

func (s *srv) loadStorage() {
	cfg := xcontext.Configs(s.ctx).Storage
	if cfg.Endpoint == "" {
		return
	}

	s.objectStorage = storage.NewS3Storage(cfg)
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if cfg.Addr == "" {
		return
	}

	publisher, err := kafka.NewPublisher("api", []string{cfg.Addr})
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadRepos() {
	s.apiKeyRepo = repository.NewAPIKeyRepository()
	s.medicineRepo = repository.NewMedicineRepository()
	s.usageLogRepo = repository.NewUsageLogRepository()
}

func (s *srv) loadDomains() {
	if s.publisher != nil {
		s.usageRecorder = common.NewPublisherUsageRecorder(s.publisher)
	} else {
		s.usageRecorder = common.NewDatabaseUsageRecorder(s.usageLogRepo)
	}

	recommender := recommend.NewRecommender(s.ctx, s.searchCaller, s.medicineRepo, s.completers...)

	s.apiKeyDomain = domain.NewAPIKeyDomain(s.apiKeyRepo, s.usageLogRepo)
	s.recommendationDomain = domain.NewRecommendationDomain(recommender, s.medicineRepo, s.redisClient)
	s.statisticDomain = domain.NewStatisticDomain(
		s.apiKeyRepo, s.usageLogRepo, s.medicineRepo,
		s.searchCaller, s.redisClient, len(s.completers) > 0,
	)
}
