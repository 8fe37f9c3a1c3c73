package common

import (
	"context"
	"encoding/json"

	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/pubsub"
	"github.com/theraswitchrx/backend/pkg/xcontext"
)

// UsageRecorder persists one usage log entry per authenticated request.
type UsageRecorder interface {
	Record(ctx context.Context, log *entity.UsageLog) error
}

type databaseUsageRecorder struct {
	usageLogRepo repository.UsageLogRepository
}

// NewDatabaseUsageRecorder writes usage logs straight to the database. Used
// when no broker is configured.
func NewDatabaseUsageRecorder(usageLogRepo repository.UsageLogRepository) *databaseUsageRecorder {
	return &databaseUsageRecorder{usageLogRepo: usageLogRepo}
}

func (r *databaseUsageRecorder) Record(ctx context.Context, log *entity.UsageLog) error {
	if log.ID == 0 {
		log.ID = xcontext.SnowFlake(ctx).Generate().Int64()
	}

	return r.usageLogRepo.Create(ctx, log)
}

type publisherUsageRecorder struct {
	publisher pubsub.Publisher
}

// NewPublisherUsageRecorder hands usage logs to the message broker so the
// subscriber process can persist them off the request path.
func NewPublisherUsageRecorder(publisher pubsub.Publisher) *publisherUsageRecorder {
	return &publisherUsageRecorder{publisher: publisher}
}

func (r *publisherUsageRecorder) Record(ctx context.Context, log *entity.UsageLog) error {
	if log.ID == 0 {
		log.ID = xcontext.SnowFlake(ctx).Generate().Int64()
	}

	msg, err := json.Marshal(log)
	if err != nil {
		return err
	}

	topic := xcontext.Configs(ctx).Kafka.UsageTopic
	return r.publisher.Publish(ctx, topic, &pubsub.Pack{
		Key: []byte(log.KeyID),
		Msg: msg,
	})
}
