package scheduler

import "testing"

type schedulerConfig struct {
	redisURL string
	queue    string
	cron     string
}

func (c schedulerConfig) GetRedisURL() string        { return c.redisURL }
func (c schedulerConfig) GetAsynqQueueName() string  { return c.queue }
func (c schedulerConfig) GetRefreshCronSpec() string { return c.cron }

func TestRedisClientOpt(t *testing.T) {
	cfg := schedulerConfig{redisURL: "redis://:hunter2@redis.internal:6380/3"}

	opt, err := redisClientOpt(cfg)
	if err != nil {
		t.Fatalf("redisClientOpt() error = %v", err)
	}
	if opt.Addr != "redis.internal:6380" {
		t.Fatalf("addr = %q, want redis.internal:6380", opt.Addr)
	}
	if opt.Password != "hunter2" {
		t.Fatalf("password = %q, want hunter2", opt.Password)
	}
	if opt.DB != 3 {
		t.Fatalf("db = %d, want 3", opt.DB)
	}
}

func TestRedisClientOpt_InvalidURL(t *testing.T) {
	if _, err := redisClientOpt(schedulerConfig{redisURL: "not-a-url"}); err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}

func TestPipelineRefreshPayload(t *testing.T) {
	task, err := NewPipelineRefreshTask("cron")
	if err != nil {
		t.Fatalf("NewPipelineRefreshTask() error = %v", err)
	}
	if task.Type() != TaskPipelineRefresh {
		t.Fatalf("task type = %q, want %q", task.Type(), TaskPipelineRefresh)
	}

	payload, err := ParsePipelineRefreshPayload(task)
	if err != nil {
		t.Fatalf("ParsePipelineRefreshPayload() error = %v", err)
	}
	if payload.RequestedBy != "cron" {
		t.Fatalf("requested_by = %q, want cron", payload.RequestedBy)
	}
}
