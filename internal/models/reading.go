package models

import "time"

// Reading is one sensor sample collected during a monitoring task.
type Reading struct {
	TaskID      string    `json:"task_id"`
	DeviceID    string    `json:"device_id"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
}
