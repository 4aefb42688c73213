package apiclient_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"eisenhower-board/internal/apiclient"
	"eisenhower-board/internal/handlers"
	"eisenhower-board/internal/models"
	"eisenhower-board/internal/realtime"
	"eisenhower-board/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpdateTask_ClearsTextFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, err := repository.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	log := zap.NewNop()
	tasks := handlers.NewTaskHandler(repo, realtime.NewHub(log), log)
	r := gin.New()
	r.PUT("/api/tasks/:id", tasks.Update)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	owner := models.Staff{Name: "Aoi"}
	require.NoError(t, repo.CreateStaff(ctx, &owner))
	task := models.Task{
		Title: "Report", Description: "old", CreatedBy: "bob", OwnerID: owner.ID,
		Status: models.StatusTodo, Priority: models.PriorityMedium, Quadrant: 2,
	}
	require.NoError(t, repo.CreateTask(ctx, &task))

	c := apiclient.New(srv.URL)
	updated, err := c.UpdateTask(ctx, task.ID, apiclient.TaskInput{
		Title:    "Report",
		OwnerID:  owner.ID,
		Status:   models.StatusTodo,
		Priority: models.PriorityMedium,
		Quadrant: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "", updated.Description)
	require.Equal(t, "", updated.CreatedBy)

	stored, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, "", stored.Description)
	require.Equal(t, "", stored.CreatedBy)
}
