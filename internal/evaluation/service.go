package evaluation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"report-function-service/internal/config"
	"report-function-service/internal/db"
	"report-function-service/internal/function"
	"report-function-service/internal/logging"
	"report-function-service/internal/models"
	"report-function-service/internal/utils"
)

// Alerter is the optional failure-notification sink (telegram in prod).
type Alerter interface {
	Send(ctx context.Context, text string) error
}

// Service runs queued tag evaluations on a worker pool, persists outcomes,
// and pushes results to websocket subscribers.
type Service struct {
	db        *db.DB
	logger    *logging.Logger
	config    config.Config
	evaluator *function.Evaluator
	tasks     chan models.EvalTask
	ctx       context.Context
	cancel    context.CancelFunc
	wg        *sync.WaitGroup
	wsManager *WSManager
	alerter   Alerter
}

// New constructs an evaluation Service.
func New(database *db.DB, logger *logging.Logger, cfg config.Config, alerter Alerter) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		db:        database,
		logger:    logger,
		config:    cfg,
		evaluator: function.NewEvaluator(database, function.NewDefaults()),
		tasks:     make(chan models.EvalTask, cfg.Evaluation.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		wsManager: NewWSManager(logger),
		alerter:   alerter,
	}
}

// Evaluator exposes the engine for synchronous preview evaluations.
func (s *Service) Evaluator() *function.Evaluator {
	return s.evaluator
}

// WSManager exposes the websocket registry to the API layer.
func (s *Service) WSManager() *WSManager {
	return s.wsManager
}

// Start launches the worker pool.
func (s *Service) Start(wg *sync.WaitGroup) {
	s.wg = wg
	for i := 0; i < s.config.Evaluation.MaxWorkers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop cancels the workers.
func (s *Service) Stop() {
	s.cancel()
}

// QueueTask enqueues an evaluation request for processing.
func (s *Service) QueueTask(task models.EvalTask) error {
	select {
	case s.tasks <- task:
		s.logger.Infof("Queued evaluation: request_id=%s tag=%s", task.RequestID, task.Config.TagID)
		return nil
	default:
		s.logger.Errorf("Queue full, dropping evaluation: request_id=%s", task.RequestID)
		return fmt.Errorf("evaluation queue full")
	}
}

// worker processes evaluation tasks until context is cancelled.
func (s *Service) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Infof("Worker %d stopped", id)
			return
		case task := <-s.tasks:
			s.handleTask(task)
		}
	}
}

// handleTask evaluates one tag, writes the value and run snapshot back, and
// notifies subscribers.
func (s *Service) handleTask(task models.EvalTask) {
	tags, err := s.db.GetTagsByTemplate(s.ctx, task.TemplateID)
	if err != nil {
		s.logger.Errorf("Failed to load tags for template %s: %v", task.TemplateID, err)
		return
	}
	roster := function.NewRoster(tags)

	result := s.evaluator.Execute(s.ctx, task.TaskID, &task.Config, roster)

	if result.Status == models.StatusSuccess {
		if tag, ok := roster[task.Config.TagID]; ok {
			if err := utils.Retry(s.logger, 3, time.Second, func() error {
				return s.db.UpdateTagValue(s.ctx, tag.ID, tag.Value)
			}); err != nil {
				s.logger.Errorf("Failed to persist tag %s: %v", tag.ID, err)
			}
		}
	}

	run := models.RunRecord{
		ID:      uuid.New().String(),
		TagID:   task.Config.TagID,
		TaskID:  task.TaskID,
		Status:  result.Status,
		Message: result.Message,
		Detail:  result.Detail,
		Result:  db.SerializeValue(result.Value),
		RanAt:   time.Now(),
	}
	if err := utils.Retry(s.logger, 3, time.Second, func() error {
		return s.db.InsertRun(s.ctx, run)
	}); err != nil {
		s.logger.Errorf("Failed to record run for tag %s: %v", task.Config.TagID, err)
	}

	s.wsManager.Broadcast(task.TemplateID, map[string]any{
		"request_id": task.RequestID,
		"tag_id":     task.Config.TagID,
		"result":     result,
	})

	if result.Status == models.StatusError && s.alerter != nil {
		text := fmt.Sprintf("函数计算失败\n标签：%s\n任务：%s\n原因：%s", task.Config.TagID, task.TaskID, result.Message)
		if err := s.alerter.Send(s.ctx, text); err != nil {
			s.logger.Warnf("Failed to send failure alert: %v", err)
		}
	}

	s.logger.Infof("Evaluation finished: request_id=%s tag=%s status=%s", task.RequestID, task.Config.TagID, result.Status)
}

// SetAlerter installs the failure-notification sink.
func (s *Service) SetAlerter(a Alerter) {
	s.alerter = a
}
