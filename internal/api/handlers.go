package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"report-function-service/internal/db"
	"report-function-service/internal/evaluation"
	"report-function-service/internal/function"
	"report-function-service/internal/logging"
	"report-function-service/internal/models"
)

type Handler struct {
	db     *db.DB
	logger *logging.Logger
	svc    *evaluation.Service
}

func NewHandler(db *db.DB, logger *logging.Logger, svc *evaluation.Service) *Handler {
	return &Handler{db: db, logger: logger, svc: svc}
}

// evaluateRequest is the body for both the queued and the preview endpoints.
type evaluateRequest struct {
	RequestID  string                `json:"request_id"`
	TaskID     string                `json:"task_id" binding:"required"`
	TemplateID string                `json:"template_id" binding:"required"`
	Config     models.FunctionConfig `json:"config" binding:"required"`
}

// QueueEvaluation enqueues an asynchronous evaluation; the outcome is pushed
// over the template's websocket and recorded in the run history.
func (h *Handler) QueueEvaluation(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid evaluation request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	task := models.EvalTask{
		RequestID:  req.RequestID,
		TaskID:     req.TaskID,
		TemplateID: req.TemplateID,
		Config:     req.Config,
	}
	if err := h.svc.QueueTask(task); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"request_id": req.RequestID})
}

// PreviewEvaluation runs the pure variant: same computation, no tag
// mutation, no run record.
func (h *Handler) PreviewEvaluation(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid preview request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	tags, err := h.db.GetTagsByTemplate(c.Request.Context(), req.TemplateID)
	if err != nil {
		h.logger.Errorf("Failed to load tags for template %s: %v", req.TemplateID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tags"})
		return
	}
	roster := function.NewRoster(tags)
	result := h.svc.Evaluator().Evaluate(c.Request.Context(), req.TaskID, &req.Config, roster)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetTagsByTemplate(c *gin.Context) {
	templateID := c.Param("template_id")
	tags, err := h.db.GetTagsByTemplate(c.Request.Context(), templateID)
	if err != nil {
		h.logger.Errorf("Failed to get tags for template %s: %v", templateID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tags"})
		return
	}
	h.logger.Infof("Retrieved %d tags for template %s", len(tags), templateID)
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) GetRunsByTag(c *gin.Context) {
	tagID := c.Param("tag_id")
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := h.db.GetRunsByTag(c.Request.Context(), tagID, limit)
	if err != nil {
		h.logger.Errorf("Failed to get runs for tag %s: %v", tagID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get runs"})
		return
	}
	h.logger.Infof("Retrieved %d runs for tag %s", len(runs), tagID)
	c.JSON(http.StatusOK, runs)
}

// GetFunctionKinds lists the closed set of supported function kinds so the
// editor can populate its picker.
func (h *Handler) GetFunctionKinds(c *gin.Context) {
	c.JSON(http.StatusOK, function.Kinds())
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Subscribe upgrades to a websocket delivering evaluation results for one
// template.
func (h *Handler) Subscribe(c *gin.Context) {
	templateID := c.Query("template_id")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template_id is required"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	ws := h.svc.WSManager()
	ws.Register(templateID, conn)
	go func() {
		defer ws.Unregister(templateID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
