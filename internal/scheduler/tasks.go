package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TaskPipelineRefresh runs a full collect, enrich, and publish cycle.
	TaskPipelineRefresh = "pipeline:refresh"
)

// PipelineRefreshPayload carries the origin of a refresh so worker logs can
// tell cron runs from operator-triggered ones.
type PipelineRefreshPayload struct {
	RequestedBy string `json:"requested_by"`
}

func NewPipelineRefreshTask(requestedBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(PipelineRefreshPayload{RequestedBy: requestedBy})
	if err != nil {
		return nil, fmt.Errorf("marshal pipeline refresh payload: %w", err)
	}
	return asynq.NewTask(TaskPipelineRefresh, payload), nil
}

func ParsePipelineRefreshPayload(t *asynq.Task) (PipelineRefreshPayload, error) {
	var p PipelineRefreshPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return PipelineRefreshPayload{}, fmt.Errorf("unmarshal pipeline refresh payload: %w", err)
	}
	return p, nil
}
