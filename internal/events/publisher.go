package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChannelFeedbackReady carries notifications that an interview's
// feedback record has been generated and linked.
const ChannelFeedbackReady = "feedback_ready"

type FeedbackReadyEvent struct {
	InterviewID  string  `json:"interviewId"`
	FeedbackID   string  `json:"feedbackId"`
	UserID       string  `json:"userId"`
	OverallScore float64 `json:"overallScore"`
}

// Publisher announces feedback availability so clients can subscribe
// instead of polling. Publish failures are logged and swallowed; events
// are best-effort.
type Publisher interface {
	FeedbackReady(ctx context.Context, event FeedbackReadyEvent)
}

type RedisPublisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(redisAddr string, logger *zap.Logger) *RedisPublisher {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	return &RedisPublisher{rdb: rdb, logger: logger}
}

func (p *RedisPublisher) FeedbackReady(ctx context.Context, event FeedbackReadyEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal feedback_ready event", zap.Error(err))
		return
	}
	if err := p.rdb.Publish(ctx, ChannelFeedbackReady, payload).Err(); err != nil {
		p.logger.Warn("failed to publish feedback_ready event",
			zap.String("interview_id", event.InterviewID),
			zap.Error(err))
	}
}

// NoopPublisher is used when no redis address is configured.
type NoopPublisher struct{}

func (NoopPublisher) FeedbackReady(context.Context, FeedbackReadyEvent) {}
