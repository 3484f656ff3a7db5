// Package scheduler enqueues and executes background refresh jobs via
// asynq. A cron entry keeps the dashboard current; the client lets other
// components request an out-of-band refresh.
package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"
)

// redisClientOpt translates a redis URL into asynq connection options so
// both sides share the single REDIS_URL setting.
func redisClientOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

// Client enqueues refresh tasks.
type Client struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
}

func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetAsynqQueueName(),
		log:    log,
	}, nil
}

// TriggerRefresh enqueues an immediate pipeline refresh. Tasks are unique
// per queue so a burst of triggers collapses into one run.
func (c *Client) TriggerRefresh(ctx context.Context, requestedBy string) error {
	task, err := NewPipelineRefreshTask(requestedBy)
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(2),
		asynq.Unique(refreshUniqueWindow),
	)
	if err != nil {
		return fmt.Errorf("enqueue pipeline refresh: %w", err)
	}
	c.log.Info("pipeline refresh enqueued", "task_id", info.ID, "queue", info.Queue, "requested_by", requestedBy)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
