package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eisenhower-board/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, setup func(r *gin.Engine)) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithToken("tok"))
}

func TestCreateTask_SendsJSON(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.POST("/api/tasks", func(c *gin.Context) {
			assert.Equal(t, "application/json", c.GetHeader("Content-Type"))
			assert.Equal(t, "Bearer tok", c.GetHeader("Authorization"))
			var in TaskInput
			assert.NoError(t, c.ShouldBindJSON(&in))
			c.JSON(http.StatusCreated, models.Task{ID: 7, Title: in.Title, OwnerID: in.OwnerID, Quadrant: in.Quadrant})
		})
	})

	task, err := c.CreateTask(context.Background(), TaskInput{Title: "Plan", OwnerID: 2, Quadrant: 2})
	require.NoError(t, err)
	require.Equal(t, int64(7), task.ID)
	require.Equal(t, "Plan", task.Title)
}

func TestDeleteTask_NoContent(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.DELETE("/api/tasks/:id", func(c *gin.Context) {
			assert.Equal(t, "3", c.Param("id"))
			c.Status(http.StatusNoContent)
		})
	})
	require.NoError(t, c.DeleteTask(context.Background(), 3))
}

func TestMoveTask_ErrorDetail(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.PATCH("/api/tasks/:id/quadrant", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "タスクが見つかりません"})
		})
	})
	_, err := c.MoveTask(context.Background(), 9, 3)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "タスクが見つかりません", Message(err))
}

func TestErrorWithoutDetail_FallsBack(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.PUT("/api/tasks/:id", func(c *gin.Context) {
			c.String(http.StatusInternalServerError, "boom")
		})
	})
	_, err := c.UpdateTask(context.Background(), 1, TaskInput{Title: "x", OwnerID: 1})
	require.Error(t, err)
	require.Equal(t, GenericErrorMessage, Message(err))
	require.Equal(t, GenericErrorMessage, Message(errors.New("dial tcp: refused")))
}

func TestCreateStaff_Multipart(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.POST("/api/staff", func(c *gin.Context) {
			assert.True(t, strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data; boundary="))
			assert.Equal(t, "Aoi", c.PostForm("name"))
			assert.Equal(t, "Ops", c.PostForm("department"))
			assert.Equal(t, "true", c.PostForm("generate_avatars"))
			fh, err := c.FormFile("photo")
			assert.NoError(t, err)
			assert.Equal(t, "aoi.png", fh.Filename)
			f, err := fh.Open()
			assert.NoError(t, err)
			defer f.Close()
			data, _ := io.ReadAll(f)
			assert.Equal(t, "PNGDATA", string(data))
			c.JSON(http.StatusCreated, models.Staff{ID: 4, Name: "Aoi", Photo: "x.png"})
		})
	})

	staff, err := c.CreateStaff(context.Background(), StaffInput{
		Name:            "Aoi",
		Department:      "Ops",
		Photo:           &Upload{Filename: "aoi.png", Content: strings.NewReader("PNGDATA")},
		GenerateAvatars: true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(4), staff.ID)
}

func TestBootstrap(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.GET("/api/bootstrap", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", []byte(`{"tasks":[],"staff":[]}`))
		})
	})
	raw, err := c.Bootstrap(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"tasks":[],"staff":[]}`, string(raw))
}
