package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/pkg/kafka"
	"github.com/theraswitchrx/backend/pkg/pubsub"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	s.loadDatabase()
	s.migrateDB()
	s.loadRepos()

	cfg := xcontext.Configs(s.ctx).Kafka
	subscriber, err := kafka.NewSubscriber(
		"subscriber",
		[]string{cfg.Addr},
		[]string{cfg.UsageTopic},
		s.handleUsagePack,
	)
	if err != nil {
		return err
	}
	s.subscriber = subscriber

	s.subscriber.Subscribe(s.ctx)
	xcontext.Logger(s.ctx).Infof("Started usage subscriber on topic %s", cfg.UsageTopic)

	termSignal := make(chan os.Signal, 1)
	signal.Notify(termSignal, syscall.SIGINT, syscall.SIGTERM)
	<-termSignal

	return s.subscriber.Stop(s.ctx)
}

func (s *srv) handleUsagePack(_ context.Context, pack *pubsub.Pack, t time.Time) {
	var log entity.UsageLog
	if err := json.Unmarshal(pack.Msg, &log); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot decode usage pack: %v", err)
		return
	}

	if log.CreatedAt.IsZero() {
		log.CreatedAt = t
	}

	if err := s.usageLogRepo.Create(s.ctx, &log); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot save usage log: %v", err)
	}
}
