package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"eisenhower-board/internal/board"
	"eisenhower-board/internal/models"
	"eisenhower-board/internal/repository"
	"eisenhower-board/internal/ui"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PageHandler serves the board page and the payload it embeds.
type PageHandler struct {
	repo repository.Repository
	log  *zap.Logger
}

func NewPageHandler(repo repository.Repository, log *zap.Logger) *PageHandler {
	return &PageHandler{repo: repo, log: log}
}

func (h *PageHandler) payload(c *gin.Context) (models.BoardPayload, bool) {
	ctx := c.Request.Context()
	tasks, err := h.repo.ListTasks(ctx)
	if err != nil {
		h.log.Error("list tasks", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "タスクの取得に失敗しました")
		return models.BoardPayload{}, false
	}
	staff, err := h.repo.ListStaff(ctx)
	if err != nil {
		h.log.Error("list staff", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "スタッフの取得に失敗しました")
		return models.BoardPayload{}, false
	}
	tasks = withOwners(tasks, staff)
	sortForAPI(tasks)
	return models.BoardPayload{
		Tasks:        tasks,
		Staff:        staff,
		Presentation: models.DefaultPresentation(),
	}, true
}

// Bootstrap handles GET /api/bootstrap
func (h *PageHandler) Bootstrap(c *gin.Context) {
	p, ok := h.payload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

// Index handles GET /. The board is rendered server side from the same
// payload the page embeds for the client.
func (h *PageHandler) Index(c *gin.Context) {
	p, ok := h.payload(c)
	if !ok {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		h.log.Error("marshal payload", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "ページの生成に失敗しました")
		return
	}

	store := board.LoadPayload(raw, h.log)
	active := ui.ViewID(c.DefaultQuery("tab", string(ui.ViewOverview)))
	if !ui.ValidTab(active) {
		active = ui.ViewOverview
	}

	var buf bytes.Buffer
	if err := ui.RenderPage(&buf, store, active, raw); err != nil {
		h.log.Error("render page", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "ページの生成に失敗しました")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
