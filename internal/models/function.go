package models

import "time"

// Result statuses written back onto the evaluated tag.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// FunctionConfig describes one computation attached to a report tag. Tag id
// fields reference other tags in the same roster that supply inputs; literal
// fields override or replace tag-supplied values. The LastRun* fields are the
// snapshot of the previous run and are never read during computation.
type FunctionConfig struct {
	TagID        string `json:"tag_id"`
	FunctionType string `json:"function_type"`

	LocationTagIDs []string `json:"location_tag_ids,omitempty"`
	StartTagID     string   `json:"start_tag_id,omitempty"`
	EndTagID       string   `json:"end_tag_id,omitempty"`
	ThresholdTagID string   `json:"threshold_tag_id,omitempty"`
	CenterTagID    string   `json:"center_tag_id,omitempty"`
	MaxTempTagID   string   `json:"max_temp_tag_id,omitempty"`
	MinTempTagID   string   `json:"min_temp_tag_id,omitempty"`
	StartPowerTagID string  `json:"start_power_tag_id,omitempty"`
	EndPowerTagID   string  `json:"end_power_tag_id,omitempty"`
	TimeTagID      string   `json:"time_tag_id,omitempty"`

	Threshold     *float64 `json:"threshold,omitempty"`
	MaxTemp       *float64 `json:"max_temp,omitempty"`
	MinTemp       *float64 `json:"min_temp,omitempty"`
	DecimalPlaces *int     `json:"decimal_places,omitempty"`

	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	LastStatus  string     `json:"last_status,omitempty"`
	LastMessage string     `json:"last_message,omitempty"`
	LastResult  any        `json:"last_result,omitempty"`
}

// FunctionResult is the engine's sole output artifact for one evaluation.
type FunctionResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// RunRecord is one persisted evaluation attempt for audit and retry review.
type RunRecord struct {
	ID      string    `json:"id"`
	TagID   string    `json:"tag_id"`
	TaskID  string    `json:"task_id"`
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Detail  string    `json:"detail"`
	Result  string    `json:"result"`
	RanAt   time.Time `json:"ran_at"`
}

// EvalTask is one queued asynchronous evaluation request.
type EvalTask struct {
	RequestID  string         `json:"request_id"`
	TaskID     string         `json:"task_id"`
	TemplateID string         `json:"template_id"`
	Config     FunctionConfig `json:"config"`
}
