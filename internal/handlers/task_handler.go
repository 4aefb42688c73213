package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"eisenhower-board/internal/models"
	"eisenhower-board/internal/realtime"
	"eisenhower-board/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	OwnerID     int64               `json:"owner_id"`
	CreatedBy   string              `json:"created_by"`
	DueDate     *string             `json:"due_date"`
	Status      models.TaskStatus   `json:"status"`
	Department  string              `json:"department"`
	Priority    models.TaskPriority `json:"priority"`
	Quadrant    int                 `json:"quadrant"`
}

// UpdateTaskRequest represents the request payload for updating a task.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	OwnerID     *int64               `json:"owner_id"`
	CreatedBy   *string              `json:"created_by"`
	DueDate     *string              `json:"due_date"`
	Status      *models.TaskStatus   `json:"status"`
	Department  *string              `json:"department"`
	Priority    *models.TaskPriority `json:"priority"`
	Quadrant    *int                 `json:"quadrant"`
}

// MoveTaskRequest is the body of PATCH /api/tasks/:id/quadrant.
type MoveTaskRequest struct {
	Quadrant int `json:"quadrant"`
}

type TaskHandler struct {
	repo   repository.Repository
	events realtime.Publisher
	log    *zap.Logger
}

func NewTaskHandler(repo repository.Repository, events realtime.Publisher, log *zap.Logger) *TaskHandler {
	return &TaskHandler{repo: repo, events: events, log: log}
}

func validDueDate(s *string) bool {
	if s == nil || *s == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", *s)
	return err == nil
}

func normalizeDueDate(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// applyTaskDefaults fills fields older records or sparse requests omit.
func applyTaskDefaults(t *models.Task) {
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.Quadrant == 0 {
		t.Quadrant = models.DefaultQuadrant
	}
}

func validateTaskFields(t *models.Task) string {
	switch {
	case strings.TrimSpace(t.Title) == "":
		return "タイトルは必須です"
	case models.TitleTooLong(t.Title):
		return "タイトルは80文字以内で入力してください"
	case models.DescriptionTooLong(t.Description):
		return "説明は500文字以内で入力してください"
	case !models.ValidStatus(t.Status):
		return "ステータスが不正です"
	case !models.ValidPriority(t.Priority):
		return "優先度が不正です"
	case !models.ValidQuadrant(t.Quadrant):
		return "象限は1〜4で指定してください"
	case !validDueDate(t.DueDate):
		return "期限日の形式が不正です"
	}
	return ""
}

func (h *TaskHandler) ensureOwner(c *gin.Context, ownerID int64) bool {
	_, err := h.repo.GetStaff(c.Request.Context(), ownerID)
	if errors.Is(err, repository.ErrStaffNotFound) {
		respondError(c, http.StatusBadRequest, "owner_id が存在しません")
		return false
	}
	if err != nil {
		h.log.Error("lookup owner", zap.Int64("owner_id", ownerID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "担当者の取得に失敗しました")
		return false
	}
	return true
}

// List handles GET /api/tasks. Tasks come sorted by quadrant then due date
// and carry their owner.
func (h *TaskHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	tasks, err := h.repo.ListTasks(ctx)
	if err != nil {
		h.log.Error("list tasks", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "タスクの取得に失敗しました")
		return
	}
	staff, err := h.repo.ListStaff(ctx)
	if err != nil {
		h.log.Error("list staff", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "スタッフの取得に失敗しました")
		return
	}
	tasks = withOwners(tasks, staff)
	sortForAPI(tasks)
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func sortForAPI(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Quadrant != tasks[j].Quadrant {
			return tasks[i].Quadrant < tasks[j].Quadrant
		}
		return dueKey(tasks[i]) < dueKey(tasks[j])
	})
}

func dueKey(t models.Task) string {
	if t.DueDate == nil {
		return ""
	}
	return *t.DueDate
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "リクエストの形式が不正です")
		return
	}

	task := models.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		OwnerID:     req.OwnerID,
		CreatedBy:   req.CreatedBy,
		DueDate:     normalizeDueDate(req.DueDate),
		Status:      req.Status,
		Department:  req.Department,
		Priority:    req.Priority,
		Quadrant:    req.Quadrant,
	}
	applyTaskDefaults(&task)
	if msg := validateTaskFields(&task); msg != "" {
		respondError(c, http.StatusUnprocessableEntity, msg)
		return
	}
	if !h.ensureOwner(c, task.OwnerID) {
		return
	}

	ctx := c.Request.Context()
	if err := h.repo.CreateTask(ctx, &task); err != nil {
		h.log.Error("create task", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "タスクの作成に失敗しました")
		return
	}
	if err := attachOwner(ctx, h.repo, &task); err != nil {
		h.log.Warn("attach owner", zap.Int64("task_id", task.ID), zap.Error(err))
	}
	h.events.Publish(realtime.EventCreated, realtime.EntityTask, task.ID)
	c.JSON(http.StatusCreated, task)
}

// Update handles PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "リクエストの形式が不正です")
		return
	}

	ctx := c.Request.Context()
	existing, err := h.repo.GetTask(ctx, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		respondError(c, http.StatusNotFound, "タスクが見つかりません")
		return
	}
	if err != nil {
		h.log.Error("get task", zap.Int64("task_id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "タスクの取得に失敗しました")
		return
	}

	task := *existing
	task.Owner = nil
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.OwnerID != nil {
		task.OwnerID = *req.OwnerID
	}
	if req.CreatedBy != nil {
		task.CreatedBy = *req.CreatedBy
	}
	if req.DueDate != nil {
		task.DueDate = normalizeDueDate(req.DueDate)
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Department != nil {
		task.Department = *req.Department
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Quadrant != nil {
		task.Quadrant = *req.Quadrant
	}
	applyTaskDefaults(&task)
	if msg := validateTaskFields(&task); msg != "" {
		respondError(c, http.StatusUnprocessableEntity, msg)
		return
	}
	if req.OwnerID != nil && !h.ensureOwner(c, task.OwnerID) {
		return
	}

	if err := h.repo.UpdateTask(ctx, &task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "タスクが見つかりません")
			return
		}
		h.log.Error("update task", zap.Int64("task_id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "タスクの更新に失敗しました")
		return
	}
	if err := attachOwner(ctx, h.repo, &task); err != nil {
		h.log.Warn("attach owner", zap.Int64("task_id", id), zap.Error(err))
	}
	h.events.Publish(realtime.EventUpdated, realtime.EntityTask, task.ID)
	c.JSON(http.StatusOK, task)
}

// Move handles PATCH /api/tasks/:id/quadrant
func (h *TaskHandler) Move(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "リクエストの形式が不正です")
		return
	}
	if !models.ValidQuadrant(req.Quadrant) {
		respondError(c, http.StatusUnprocessableEntity, "象限は1〜4で指定してください")
		return
	}

	ctx := c.Request.Context()
	task, err := h.repo.MoveTask(ctx, id, req.Quadrant)
	if errors.Is(err, repository.ErrTaskNotFound) {
		respondError(c, http.StatusNotFound, "タスクが見つかりません")
		return
	}
	if err != nil {
		h.log.Error("move task", zap.Int64("task_id", id), zap.Int("quadrant", req.Quadrant), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "タスクの移動に失敗しました")
		return
	}
	if err := attachOwner(ctx, h.repo, task); err != nil {
		h.log.Warn("attach owner", zap.Int64("task_id", id), zap.Error(err))
	}
	h.events.Publish(realtime.EventMoved, realtime.EntityTask, task.ID)
	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.repo.DeleteTask(c.Request.Context(), id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		respondError(c, http.StatusNotFound, "タスクが見つかりません")
		return
	}
	if err != nil {
		h.log.Error("delete task", zap.Int64("task_id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "タスクの削除に失敗しました")
		return
	}
	h.events.Publish(realtime.EventDeleted, realtime.EntityTask, id)
	c.Status(http.StatusNoContent)
}
