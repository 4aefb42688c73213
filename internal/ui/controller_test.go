package ui_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"eisenhower-board/internal/apiclient"
	"eisenhower-board/internal/board"
	"eisenhower-board/internal/models"
	"eisenhower-board/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) CreateTask(ctx context.Context, in apiclient.TaskInput) (models.Task, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockAPI) UpdateTask(ctx context.Context, id int64, in apiclient.TaskInput) (models.Task, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockAPI) DeleteTask(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) MoveTask(ctx context.Context, id int64, quadrant int) (models.Task, error) {
	args := m.Called(ctx, id, quadrant)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockAPI) CreateStaff(ctx context.Context, in apiclient.StaffInput) (models.Staff, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Staff), args.Error(1)
}

func (m *MockAPI) UpdateStaff(ctx context.Context, id int64, in apiclient.StaffInput) (models.Staff, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(models.Staff), args.Error(1)
}

func (m *MockAPI) DeleteStaff(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type paintLog struct {
	mu  sync.Mutex
	ids []ui.ViewID
}

func (p *paintLog) Paint(id ui.ViewID, model any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
	return nil
}

func (p *paintLog) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = nil
}

func (p *paintLog) painted() []ui.ViewID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ui.ViewID(nil), p.ids...)
}

func seededStore() *board.Store {
	store := board.NewStore()
	store.ReplaceStaff([]models.Staff{
		{ID: 1, Name: "Aoi", Department: "Sales"},
		{ID: 2, Name: "Ren", Department: "Dev"},
	})
	store.ReplaceTasks([]models.Task{
		{ID: 10, Title: "Ship release", OwnerID: 1, Status: models.StatusTodo, Priority: models.PriorityHigh, Quadrant: 1},
		{ID: 11, Title: "Clean inbox", OwnerID: 2, Status: models.StatusInProgress, Priority: models.PriorityLow, Quadrant: 4},
	})
	return store
}

func setupController(t *testing.T) (*ui.Controller, *MockAPI, *board.Store, *ui.Renderer, *paintLog) {
	t.Helper()
	store := seededStore()
	painter := &paintLog{}
	renderer := ui.NewRenderer(store, painter)
	api := new(MockAPI)
	c := ui.NewController(store, api, renderer, nil)
	require.NoError(t, c.Start())
	painter.reset()
	return c, api, store, renderer, painter
}

func TestSaveTask_CreateAppendsAndRefreshes(t *testing.T) {
	c, api, store, renderer, painter := setupController(t)
	in := apiclient.TaskInput{Title: "Write report", OwnerID: 2, Quadrant: 2}
	created := models.Task{ID: 12, Title: "Write report", OwnerID: 2, Status: models.StatusTodo, Priority: models.PriorityMedium, Quadrant: 2}
	api.On("CreateTask", mock.Anything, in).Return(created, nil).Once()

	require.NoError(t, c.OpenTaskForm(0))
	got, err := c.SaveTask(context.Background(), 0, in)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	stored, ok := store.Task(12)
	require.True(t, ok)
	assert.Equal(t, 2, stored.Quadrant)
	assert.False(t, c.TaskForm().Open)

	assert.Equal(t, []ui.ViewID{ui.ViewBoard, ui.ViewOverview}, painter.painted())
	assert.Equal(t, ui.Rendered, renderer.State(ui.ViewBoard))
	assert.Equal(t, ui.Rendered, renderer.State(ui.ViewOverview))
	assert.Equal(t, ui.Stale, renderer.State(ui.ViewCompleted))

	view := renderer.Model(ui.ViewBoard).(board.BoardView)
	assert.Equal(t, 3, view.Total)
	api.AssertExpectations(t)
}

func TestSaveTask_UpdateReplacesByID(t *testing.T) {
	c, api, store, _, _ := setupController(t)
	in := apiclient.TaskInput{Title: "Ship release v2", OwnerID: 1, Status: models.StatusDone}
	updated := models.Task{ID: 10, Title: "Ship release v2", OwnerID: 1, Status: models.StatusDone, Priority: models.PriorityHigh, Quadrant: 1}
	api.On("UpdateTask", mock.Anything, int64(10), in).Return(updated, nil).Once()

	require.NoError(t, c.OpenTaskForm(10))
	_, err := c.SaveTask(context.Background(), 10, in)
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Len(t, snap.Tasks, 2)
	stored, _ := store.Task(10)
	assert.Equal(t, "Ship release v2", stored.Title)
	assert.True(t, stored.Done())
}

func TestSaveTask_ValidationSkipsNetwork(t *testing.T) {
	c, api, store, _, painter := setupController(t)
	require.NoError(t, c.OpenTaskForm(0))

	_, err := c.SaveTask(context.Background(), 0, apiclient.TaskInput{Title: "  ", OwnerID: 1})
	var verr *ui.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = c.SaveTask(context.Background(), 0, apiclient.TaskInput{Title: "x"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "owner_id", verr.Field)

	form := c.TaskForm()
	assert.True(t, form.Open)
	assert.Equal(t, verr.Message, form.Error)
	assert.Len(t, store.Snapshot().Tasks, 2)
	assert.Empty(t, painter.painted())
	api.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
}

func TestSaveTask_ServerErrorKeepsFormOpen(t *testing.T) {
	c, api, store, _, painter := setupController(t)
	in := apiclient.TaskInput{Title: "Dup", OwnerID: 1}
	api.On("UpdateTask", mock.Anything, int64(10), in).
		Return(models.Task{}, &apiclient.APIError{Status: http.StatusBadRequest, Detail: "owner not found"}).Once()

	require.NoError(t, c.OpenTaskForm(10))
	_, err := c.SaveTask(context.Background(), 10, in)
	require.Error(t, err)

	form := c.TaskForm()
	assert.True(t, form.Open)
	assert.False(t, form.Busy)
	assert.Equal(t, "owner not found", form.Error)
	stored, _ := store.Task(10)
	assert.Equal(t, "Ship release", stored.Title)
	assert.Empty(t, painter.painted())
}

func TestSaveTask_GenericMessageWithoutDetail(t *testing.T) {
	c, api, _, _, _ := setupController(t)
	in := apiclient.TaskInput{Title: "New", OwnerID: 1}
	api.On("CreateTask", mock.Anything, in).Return(models.Task{}, errors.New("connection refused")).Once()

	require.NoError(t, c.OpenTaskForm(0))
	_, err := c.SaveTask(context.Background(), 0, in)
	require.Error(t, err)
	assert.Equal(t, apiclient.GenericErrorMessage, c.TaskForm().Error)
}

func TestSaveTask_InFlightAndLateResponse(t *testing.T) {
	c, api, store, _, _ := setupController(t)
	in := apiclient.TaskInput{Title: "Slow", OwnerID: 1}
	started := make(chan struct{})
	release := make(chan struct{})
	api.On("CreateTask", mock.Anything, in).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(models.Task{ID: 99, Title: "Slow", OwnerID: 1, Quadrant: 4}, nil).Once()

	require.NoError(t, c.OpenTaskForm(0))
	done := make(chan error, 1)
	go func() {
		_, err := c.SaveTask(context.Background(), 0, in)
		done <- err
	}()
	<-started

	assert.True(t, c.TaskForm().Busy)
	_, err := c.SaveTask(context.Background(), 0, in)
	assert.ErrorIs(t, err, ui.ErrInFlight)

	c.CloseTaskForm()
	close(release)
	require.NoError(t, <-done)

	_, ok := store.Task(99)
	assert.True(t, ok)
	assert.False(t, c.TaskForm().Open)
	api.AssertNumberOfCalls(t, "CreateTask", 1)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	c, api, store, _, _ := setupController(t)

	require.NoError(t, c.RequestDelete(ui.KindTask, 10))
	assert.True(t, c.Confirmation().Open)
	c.CancelDelete()
	assert.False(t, c.Confirmation().Open)
	assert.ErrorIs(t, c.ConfirmDelete(context.Background()), ui.ErrNoConfirmation)

	_, ok := store.Task(10)
	assert.True(t, ok)
	api.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
}

func TestConfirmDelete_Success(t *testing.T) {
	c, api, store, renderer, _ := setupController(t)
	api.On("DeleteStaff", mock.Anything, int64(2)).Return(nil).Once()

	require.NoError(t, c.RequestDelete(ui.KindStaff, 2))
	require.NoError(t, c.ConfirmDelete(context.Background()))

	_, ok := store.StaffMember(2)
	assert.False(t, ok)
	assert.False(t, c.Confirmation().Open)

	view := renderer.Model(ui.ViewBoard).(board.BoardView)
	for _, q := range view.Quadrants {
		for _, card := range q.Cards {
			if card.ID == 11 {
				assert.Equal(t, board.UnknownOwner, card.OwnerName)
			}
		}
	}
}

func TestConfirmDelete_TaskLeavesEveryView(t *testing.T) {
	c, api, store, renderer, _ := setupController(t)
	store.AppendTask(models.Task{ID: 12, Title: "Old report", OwnerID: 1, Status: models.StatusDone, Priority: models.PriorityMedium, Quadrant: 1})
	api.On("DeleteTask", mock.Anything, int64(10)).Return(nil).Once()
	api.On("DeleteTask", mock.Anything, int64(12)).Return(nil).Once()

	for _, id := range []int64{10, 12} {
		require.NoError(t, c.RequestDelete(ui.KindTask, id))
		require.NoError(t, c.ConfirmDelete(context.Background()))
		_, ok := store.Task(id)
		assert.False(t, ok)
	}
	api.AssertExpectations(t)

	boardView := renderer.Model(ui.ViewBoard).(board.BoardView)
	assert.Equal(t, 1, boardView.Total)
	for _, q := range boardView.Quadrants {
		for _, card := range q.Cards {
			assert.NotEqual(t, int64(10), card.ID)
		}
	}
	assert.True(t, boardView.Quadrants[0].Empty)

	overview := renderer.Model(ui.ViewOverview).(board.OverviewView)
	assert.Equal(t, 0, overview.Quadrants[0].Count)

	snap := store.Snapshot()
	for _, e := range board.BuildDangerList(snap).Entries {
		assert.Zero(t, e.Count, e.Name)
	}
	completed := board.BuildCompleted(snap, board.DefaultOptions())
	assert.True(t, completed.Empty)
	assert.Empty(t, completed.Items)
}

func TestConfirmDelete_FailureClosesAndKeepsStore(t *testing.T) {
	c, api, store, _, painter := setupController(t)
	api.On("DeleteTask", mock.Anything, int64(10)).
		Return(&apiclient.APIError{Status: http.StatusNotFound, Detail: "Task not found"}).Once()

	require.NoError(t, c.RequestDelete(ui.KindTask, 10))
	require.Error(t, c.ConfirmDelete(context.Background()))

	assert.False(t, c.Confirmation().Open)
	assert.Equal(t, "Task not found", c.Notice())
	_, ok := store.Task(10)
	assert.True(t, ok)
	assert.Empty(t, painter.painted())
}

func TestDrop_IssuesOneMove(t *testing.T) {
	c, api, store, renderer, _ := setupController(t)
	moved := models.Task{ID: 11, Title: "Clean inbox", OwnerID: 2, Status: models.StatusInProgress, Priority: models.PriorityLow, Quadrant: 2}
	api.On("MoveTask", mock.Anything, int64(11), 2).Return(moved, nil).Once()

	payload, err := c.BeginDrag(11)
	require.NoError(t, err)
	_, err = c.Drop(context.Background(), 2, payload)
	require.NoError(t, err)

	stored, _ := store.Task(11)
	assert.Equal(t, 2, stored.Quadrant)
	view := renderer.Model(ui.ViewBoard).(board.BoardView)
	require.Len(t, view.Quadrants[1].Cards, 1)
	assert.Equal(t, int64(11), view.Quadrants[1].Cards[0].ID)
	api.AssertNumberOfCalls(t, "MoveTask", 1)
}

func TestDrop_InvalidPayload(t *testing.T) {
	c, api, _, _, _ := setupController(t)

	_, err := c.Drop(context.Background(), 2, "not-a-task")
	assert.ErrorIs(t, err, ui.ErrInvalidDrop)
	api.AssertNotCalled(t, "MoveTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestMoveTask_FailureKeepsQuadrant(t *testing.T) {
	c, api, store, renderer, _ := setupController(t)
	api.On("MoveTask", mock.Anything, int64(10), 3).
		Return(models.Task{}, &apiclient.APIError{Status: http.StatusInternalServerError}).Once()

	_, err := c.MoveTask(context.Background(), 10, 3)
	require.Error(t, err)

	stored, _ := store.Task(10)
	assert.Equal(t, 1, stored.Quadrant)
	assert.Equal(t, apiclient.GenericErrorMessage, c.Notice())

	require.NoError(t, renderer.Render(ui.ViewBoard))
	view := renderer.Model(ui.ViewBoard).(board.BoardView)
	assert.Equal(t, int64(10), view.Quadrants[0].Cards[0].ID)
	assert.True(t, view.Quadrants[2].Empty)
}

func TestMoveTask_RejectsQuadrantOutOfRange(t *testing.T) {
	c, api, _, _, _ := setupController(t)

	_, err := c.MoveTask(context.Background(), 10, 5)
	var verr *ui.ValidationError
	assert.ErrorAs(t, err, &verr)
	api.AssertNotCalled(t, "MoveTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveStaff_CreateAndValidation(t *testing.T) {
	c, api, store, _, _ := setupController(t)

	_, err := c.SaveStaff(context.Background(), 0, apiclient.StaffInput{Department: "Ops"})
	var verr *ui.ValidationError
	require.ErrorAs(t, err, &verr)

	in := apiclient.StaffInput{Name: "Mio", Department: "Ops"}
	api.On("CreateStaff", mock.Anything, in).Return(models.Staff{ID: 3, Name: "Mio", Department: "Ops"}, nil).Once()
	require.NoError(t, c.OpenStaffForm(0))
	_, err = c.SaveStaff(context.Background(), 0, in)
	require.NoError(t, err)

	_, ok := store.StaffMember(3)
	assert.True(t, ok)
	assert.False(t, c.StaffForm().Open)
}

func TestSwitchTab_RendersWithoutNetwork(t *testing.T) {
	c, api, _, renderer, painter := setupController(t)

	require.NoError(t, c.SwitchTab(ui.ViewDanger))
	assert.Equal(t, ui.ViewDanger, c.ActiveTab())
	assert.Equal(t, []ui.ViewID{ui.ViewDanger}, painter.painted())
	assert.Equal(t, ui.Rendered, renderer.State(ui.ViewDanger))

	assert.ErrorIs(t, c.SwitchTab(ui.ViewBoard), ui.ErrUnknownTab)
	assert.Empty(t, api.Calls)
}

func TestSetStaffFilter(t *testing.T) {
	c, _, _, renderer, painter := setupController(t)

	require.NoError(t, c.SetStaffFilter("ao"))
	assert.Empty(t, painter.painted())
	assert.Equal(t, ui.Stale, renderer.State(ui.ViewStaff))

	require.NoError(t, c.SwitchTab(ui.ViewStaff))
	roster := renderer.Model(ui.ViewStaff).(board.StaffRosterView)
	require.Len(t, roster.Members, 1)
	assert.Equal(t, "Aoi", roster.Members[0].Name)

	require.NoError(t, c.SetStaffSort(board.StaffSort{Key: board.StaffByDepartment, Desc: true}))
	assert.Equal(t, 2, renderer.PaintCount(ui.ViewStaff))
}
