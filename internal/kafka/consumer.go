package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"report-function-service/internal/db"
	"report-function-service/internal/logging"
	"report-function-service/internal/models"
)

// readingWire accepts the sensor pipeline's JSON, where timestamps arrive as
// RFC3339 strings or epoch milliseconds.
type readingWire struct {
	TaskID      string  `json:"task_id"`
	DeviceID    string  `json:"device_id"`
	Timestamp   any     `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// Consumer ingests sensor readings from the monitoring pipeline into the
// store. The evaluation engine never talks to Kafka directly.
type Consumer struct {
	reader *kafka.Reader
	db     *db.DB
	logger *logging.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewConsumer(brokers []string, topic, groupID string, database *db.DB, logger *logging.Logger) *Consumer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		db:     database,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Consumer) Start(wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Infof("Kafka consumer started")
		for {
			msg, err := c.reader.ReadMessage(c.ctx)
			if err != nil {
				if c.ctx.Err() != nil {
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				continue
			}

			var wire readingWire
			if err := json.Unmarshal(msg.Value, &wire); err != nil {
				c.logger.Errorf("Unmarshal reading failed: %v", err)
				continue
			}
			if wire.TaskID == "" || wire.DeviceID == "" {
				c.logger.Errorf("Invalid reading: missing task_id or device_id")
				continue
			}
			ts, ok := parseTimestamp(wire.Timestamp)
			if !ok {
				c.logger.Errorf("Invalid reading timestamp for device %s", wire.DeviceID)
				continue
			}

			reading := models.Reading{
				TaskID:      wire.TaskID,
				DeviceID:    wire.DeviceID,
				Timestamp:   ts,
				Temperature: wire.Temperature,
				Humidity:    wire.Humidity,
			}
			if err := c.db.InsertReading(c.ctx, reading); err != nil {
				c.logger.Errorf("Insert reading failed: %v", err)
			}
		}
	}()
}

func parseTimestamp(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, true
		}
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", v, time.Local); err == nil {
			return t, true
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(v)).In(time.Local), true
	default:
		return time.Time{}, false
	}
}

func (c *Consumer) Close() {
	c.cancel()
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Kafka reader close failed: %v", err)
	}
}
