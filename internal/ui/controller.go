package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"eisenhower-board/internal/apiclient"
	"eisenhower-board/internal/board"
	"eisenhower-board/internal/models"

	"go.uber.org/zap"
)

var (
	// ErrInFlight is returned when a mutation for the same entity is
	// already waiting on the server.
	ErrInFlight = errors.New("a request for this item is already in progress")

	ErrNoConfirmation = errors.New("no deletion awaiting confirmation")
	ErrInvalidDrop    = errors.New("drop payload does not name a task")
	ErrUnknownTask    = errors.New("task is not on the board")
	ErrUnknownStaff   = errors.New("staff member is not on the roster")
	ErrUnknownTab     = errors.New("unknown tab")
)

// ValidationError is a client-side check that failed before any request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// API is the subset of the REST client the controller needs.
type API interface {
	CreateTask(ctx context.Context, in apiclient.TaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, in apiclient.TaskInput) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	MoveTask(ctx context.Context, id int64, quadrant int) (models.Task, error)
	CreateStaff(ctx context.Context, in apiclient.StaffInput) (models.Staff, error)
	UpdateStaff(ctx context.Context, id int64, in apiclient.StaffInput) (models.Staff, error)
	DeleteStaff(ctx context.Context, id int64) error
}

// EntityKind distinguishes tasks from staff in forms and confirmations.
type EntityKind string

const (
	KindTask  EntityKind = "task"
	KindStaff EntityKind = "staff"
)

// FormState is the observable state of a create/edit form. ID is zero when
// the form creates a new record.
type FormState struct {
	Open  bool
	ID    int64
	Error string
	Busy  bool

	session uint64
}

// Confirmation is the two-step delete surface.
type Confirmation struct {
	Open bool
	Kind EntityKind
	ID   int64
	Busy bool
}

// Controller applies user gestures: it calls the API, mutates the store
// with the server's response and re-renders the visible views. Nothing
// else mutates the store.
type Controller struct {
	store    *board.Store
	api      API
	renderer *Renderer
	log      *zap.Logger

	mu        sync.Mutex
	active    ViewID
	taskForm  FormState
	staffForm FormState
	confirm   Confirmation
	notice    string
	dragging  string
	inflight  map[string]struct{}
	sessions  uint64
}

// NewController wires the controller. The overview tab starts active.
func NewController(store *board.Store, api API, renderer *Renderer, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store:    store,
		api:      api,
		renderer: renderer,
		log:      log,
		active:   ViewOverview,
		inflight: make(map[string]struct{}),
	}
}

// Start paints the board and the active tab for the first time.
func (c *Controller) Start() error {
	return errors.Join(c.renderer.Render(ViewBoard), c.renderer.Render(c.ActiveTab()))
}

func (c *Controller) ActiveTab() ViewID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) TaskForm() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.taskForm
}

func (c *Controller) StaffForm() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staffForm
}

func (c *Controller) Confirmation() Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirm
}

// Notice is the last error not tied to an open form (moves and deletes).
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

func (c *Controller) ClearNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = ""
}

// SwitchTab activates one tab and renders it fresh. No request is made.
func (c *Controller) SwitchTab(id ViewID) error {
	if !ValidTab(id) {
		return fmt.Errorf("%w: %s", ErrUnknownTab, id)
	}
	c.mu.Lock()
	c.active = id
	c.mu.Unlock()
	return c.renderer.Render(id)
}

// SetStaffFilter changes the roster name filter.
func (c *Controller) SetStaffFilter(text string) error {
	c.renderer.UpdateOptions(func(o *board.Options) { o.StaffFilter = text })
	return c.rerenderOption(ViewStaff)
}

// SetStaffSort changes the roster ordering.
func (c *Controller) SetStaffSort(by board.StaffSort) error {
	c.renderer.UpdateOptions(func(o *board.Options) { o.StaffSort = by })
	return c.rerenderOption(ViewStaff)
}

// SetCompletedSort changes the completed-list ordering.
func (c *Controller) SetCompletedSort(by board.CompletedSort) error {
	c.renderer.UpdateOptions(func(o *board.Options) { o.CompletedSort = by })
	return c.rerenderOption(ViewCompleted)
}

func (c *Controller) rerenderOption(id ViewID) error {
	if c.ActiveTab() == id {
		return c.renderer.Render(id)
	}
	c.renderer.MarkStale(id)
	return nil
}

// OpenTaskForm opens the task form for editing id, or for creating when id
// is zero.
func (c *Controller) OpenTaskForm(id int64) error {
	if id != 0 {
		if _, ok := c.store.Task(id); !ok {
			return ErrUnknownTask
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions++
	c.taskForm = FormState{Open: true, ID: id, session: c.sessions}
	return nil
}

func (c *Controller) CloseTaskForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taskForm = FormState{}
}

// OpenStaffForm opens the staff form for editing id, or for creating when
// id is zero.
func (c *Controller) OpenStaffForm(id int64) error {
	if id != 0 {
		if _, ok := c.store.StaffMember(id); !ok {
			return ErrUnknownStaff
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions++
	c.staffForm = FormState{Open: true, ID: id, session: c.sessions}
	return nil
}

func (c *Controller) CloseStaffForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staffForm = FormState{}
}

// ValidateTask runs the client-side checks done before any request.
func ValidateTask(in apiclient.TaskInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "タイトルを入力してください"}
	}
	if in.OwnerID == 0 {
		return &ValidationError{Field: "owner_id", Message: "担当者を選択してください"}
	}
	return nil
}

// ValidateStaff runs the client-side checks for the staff form.
func ValidateStaff(in apiclient.StaffInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "名前を入力してください"}
	}
	return nil
}

// SaveTask creates (id == 0) or updates a task. On success the store takes
// the server's representation, the form closes and visible views refresh.
// On failure the store is untouched and the form shows the error.
func (c *Controller) SaveTask(ctx context.Context, id int64, in apiclient.TaskInput) (models.Task, error) {
	form := &c.taskForm
	session := c.formSession(form, id)
	if err := ValidateTask(in); err != nil {
		c.formResult(form, session, false, err.Error())
		return models.Task{}, err
	}

	key := entityKey(KindTask, id)
	if !c.begin(key, form, session) {
		return models.Task{}, ErrInFlight
	}

	var (
		task models.Task
		err  error
	)
	if id == 0 {
		task, err = c.api.CreateTask(ctx, in)
	} else {
		task, err = c.api.UpdateTask(ctx, id, in)
	}
	c.end(key, form, session)
	if err != nil {
		c.log.Warn("save task failed", zap.Int64("task_id", id), zap.Error(err))
		c.formResult(form, session, false, apiclient.Message(err))
		return models.Task{}, err
	}

	if id == 0 || !c.store.ReplaceTask(task) {
		c.store.AppendTask(task)
	}
	c.formResult(form, session, true, "")
	c.refresh()
	return task, nil
}

// SaveStaff creates (id == 0) or updates a staff member. The request is a
// multipart form so a photo can ride along.
func (c *Controller) SaveStaff(ctx context.Context, id int64, in apiclient.StaffInput) (models.Staff, error) {
	form := &c.staffForm
	session := c.formSession(form, id)
	if err := ValidateStaff(in); err != nil {
		c.formResult(form, session, false, err.Error())
		return models.Staff{}, err
	}

	key := entityKey(KindStaff, id)
	if !c.begin(key, form, session) {
		return models.Staff{}, ErrInFlight
	}

	var (
		staff models.Staff
		err   error
	)
	if id == 0 {
		staff, err = c.api.CreateStaff(ctx, in)
	} else {
		staff, err = c.api.UpdateStaff(ctx, id, in)
	}
	c.end(key, form, session)
	if err != nil {
		c.log.Warn("save staff failed", zap.Int64("staff_id", id), zap.Error(err))
		c.formResult(form, session, false, apiclient.Message(err))
		return models.Staff{}, err
	}

	if id == 0 || !c.store.ReplaceStaffMember(staff) {
		c.store.AppendStaff(staff)
	}
	c.formResult(form, session, true, "")
	c.refresh()
	return staff, nil
}

// RequestDelete opens the confirmation surface; nothing is deleted yet.
func (c *Controller) RequestDelete(kind EntityKind, id int64) error {
	switch kind {
	case KindTask:
		if _, ok := c.store.Task(id); !ok {
			return ErrUnknownTask
		}
	case KindStaff:
		if _, ok := c.store.StaffMember(id); !ok {
			return ErrUnknownStaff
		}
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirm = Confirmation{Open: true, Kind: kind, ID: id}
	return nil
}

// CancelDelete closes the confirmation surface without deleting.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.confirm.Busy {
		c.confirm = Confirmation{}
	}
}

// ConfirmDelete deletes the item awaiting confirmation. The confirmation
// closes whether or not the request succeeds; a failure leaves the store
// unchanged and sets the notice.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	pending := c.confirm
	if !pending.Open {
		c.mu.Unlock()
		return ErrNoConfirmation
	}
	key := entityKey(pending.Kind, pending.ID)
	if _, busy := c.inflight[key]; busy {
		c.mu.Unlock()
		return ErrInFlight
	}
	c.inflight[key] = struct{}{}
	c.confirm.Busy = true
	c.mu.Unlock()

	var err error
	if pending.Kind == KindStaff {
		err = c.api.DeleteStaff(ctx, pending.ID)
	} else {
		err = c.api.DeleteTask(ctx, pending.ID)
	}

	c.mu.Lock()
	delete(c.inflight, key)
	if c.confirm.Kind == pending.Kind && c.confirm.ID == pending.ID {
		c.confirm = Confirmation{}
	}
	if err != nil {
		c.notice = apiclient.Message(err)
	} else {
		c.closeFormsFor(pending.Kind, pending.ID)
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("delete failed", zap.String("kind", string(pending.Kind)), zap.Int64("id", pending.ID), zap.Error(err))
		return err
	}
	if pending.Kind == KindStaff {
		c.store.RemoveStaff(pending.ID)
	} else {
		c.store.RemoveTask(pending.ID)
	}
	c.refresh()
	return nil
}

// BeginDrag marks taskID as the dragged card and returns the payload to put
// on the drag transfer.
func (c *Controller) BeginDrag(taskID int64) (string, error) {
	if _, ok := c.store.Task(taskID); !ok {
		return "", ErrUnknownTask
	}
	payload := board.DragPayload(taskID)
	c.mu.Lock()
	c.dragging = payload
	c.mu.Unlock()
	return payload, nil
}

// Drop handles a completed drop on a quadrant: it resolves the payload to a
// task id and issues exactly one move.
func (c *Controller) Drop(ctx context.Context, quadrant int, payload string) (models.Task, error) {
	c.mu.Lock()
	if payload == "" {
		payload = c.dragging
	}
	c.dragging = ""
	c.mu.Unlock()

	id, ok := board.ParseDragPayload(payload)
	if !ok {
		return models.Task{}, ErrInvalidDrop
	}
	return c.MoveTask(ctx, id, quadrant)
}

// MoveTask changes a task's quadrant. On failure the store keeps the old
// quadrant, so the card stays where it was.
func (c *Controller) MoveTask(ctx context.Context, id int64, quadrant int) (models.Task, error) {
	if !models.ValidQuadrant(quadrant) {
		return models.Task{}, &ValidationError{Field: "quadrant", Message: "象限は1〜4で指定してください"}
	}
	if _, ok := c.store.Task(id); !ok {
		return models.Task{}, ErrUnknownTask
	}
	key := entityKey(KindTask, id)
	if !c.begin(key, nil, 0) {
		return models.Task{}, ErrInFlight
	}
	task, err := c.api.MoveTask(ctx, id, quadrant)
	c.end(key, nil, 0)
	if err != nil {
		c.log.Warn("move task failed", zap.Int64("task_id", id), zap.Int("quadrant", quadrant), zap.Error(err))
		c.mu.Lock()
		c.notice = apiclient.Message(err)
		c.mu.Unlock()
		return models.Task{}, err
	}
	if !c.store.ReplaceTask(task) {
		c.store.AppendTask(task)
	}
	c.refresh()
	return task, nil
}

// refresh re-renders the board and the active tab; every other tab goes
// stale and is rebuilt when activated.
func (c *Controller) refresh() {
	active := c.ActiveTab()
	for _, id := range Tabs {
		if id != active {
			c.renderer.MarkStale(id)
		}
	}
	for _, id := range []ViewID{ViewBoard, active} {
		if err := c.renderer.Render(id); err != nil {
			c.log.Error("render failed", zap.String("view", string(id)), zap.Error(err))
		}
	}
}

func entityKey(kind EntityKind, id int64) string {
	if id == 0 {
		return string(kind) + ":new"
	}
	return fmt.Sprintf("%s:%d", kind, id)
}

// formSession returns the session of form when it is open on id, zero
// otherwise.
func (c *Controller) formSession(form *FormState, id int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if form.Open && form.ID == id {
		return form.session
	}
	return 0
}

func (c *Controller) begin(key string, form *FormState, session uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return false
	}
	c.inflight[key] = struct{}{}
	if form != nil && session != 0 && form.session == session {
		form.Busy = true
	}
	return true
}

func (c *Controller) end(key string, form *FormState, session uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
	if form != nil && session != 0 && form.session == session {
		form.Busy = false
	}
}

// formResult closes the form on success or records the error. A form that
// was closed or reopened since the request started is left alone.
func (c *Controller) formResult(form *FormState, session uint64, ok bool, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if session == 0 || !form.Open || form.session != session {
		return
	}
	if ok {
		*form = FormState{}
		return
	}
	form.Error = message
}

func (c *Controller) closeFormsFor(kind EntityKind, id int64) {
	if kind == KindTask && c.taskForm.Open && c.taskForm.ID == id {
		c.taskForm = FormState{}
	}
	if kind == KindStaff && c.staffForm.Open && c.staffForm.ID == id {
		c.staffForm = FormState{}
	}
}
