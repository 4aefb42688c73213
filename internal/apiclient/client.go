// Package apiclient is a thin wrapper over the board's REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"eisenhower-board/internal/models"
)

// GenericErrorMessage is shown when a failed response has no usable detail.
const GenericErrorMessage = "通信に失敗しました。時間をおいて再度お試しください。"

// APIError is a non-2xx response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// Message returns the user-facing text for err: the server's detail when
// present, the generic fallback otherwise.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return GenericErrorMessage
}

// TaskInput is the JSON body for creating or updating a task.
type TaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	OwnerID     int64               `json:"owner_id"`
	CreatedBy   string              `json:"created_by"`
	DueDate     *string             `json:"due_date,omitempty"`
	Status      models.TaskStatus   `json:"status,omitempty"`
	Priority    models.TaskPriority `json:"priority,omitempty"`
	Quadrant    int                 `json:"quadrant,omitempty"`
}

// Upload is a file sent with a staff form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// StaffInput is the multipart form for creating or updating a staff member.
type StaffInput struct {
	Name            string
	Department      string
	Photo           *Upload
	GenerateAvatars bool
}

// Client talks to one board server.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bootstrap fetches the raw initial payload, the same blob the page embeds.
func (c *Client) Bootstrap(ctx context.Context) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/bootstrap", nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readErrorResponse(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (models.Task, error) {
	var task models.Task
	err := c.doJSON(ctx, http.MethodPost, "/api/tasks", in, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, id int64, in TaskInput) (models.Task, error) {
	var task models.Task
	err := c.doJSON(ctx, http.MethodPut, taskPath(id), in, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// MoveTask changes only the quadrant of a task.
func (c *Client) MoveTask(ctx context.Context, id int64, quadrant int) (models.Task, error) {
	var task models.Task
	body := map[string]int{"quadrant": quadrant}
	err := c.doJSON(ctx, http.MethodPatch, taskPath(id)+"/quadrant", body, &task)
	return task, err
}

func (c *Client) CreateStaff(ctx context.Context, in StaffInput) (models.Staff, error) {
	var staff models.Staff
	err := c.doMultipart(ctx, http.MethodPost, "/api/staff", in, &staff)
	return staff, err
}

func (c *Client) UpdateStaff(ctx context.Context, id int64, in StaffInput) (models.Staff, error) {
	var staff models.Staff
	err := c.doMultipart(ctx, http.MethodPut, staffPath(id), in, &staff)
	return staff, err
}

func (c *Client) DeleteStaff(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, staffPath(id), nil, nil)
}

// GenerateTestImage asks the server to generate one image from prompt.
func (c *Client) GenerateTestImage(ctx context.Context, prompt string) (models.GeneratedImage, error) {
	var out models.GeneratedImage
	err := c.doJSON(ctx, http.MethodPost, "/api/gemini/test-image", map[string]string{"prompt": prompt}, &out)
	return out, err
}

func taskPath(id int64) string  { return "/api/tasks/" + strconv.FormatInt(id, 10) }
func staffPath(id int64) string { return "/api/staff/" + strconv.FormatInt(id, 10) }

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, dest any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return c.do(req, dest)
}

// doMultipart sends a staff form. The content type comes from the multipart
// writer (it carries the boundary), never application/json.
func (c *Client) doMultipart(ctx context.Context, method, path string, in StaffInput, dest any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("name", in.Name); err != nil {
		return err
	}
	if err := w.WriteField("department", in.Department); err != nil {
		return err
	}
	if in.GenerateAvatars {
		if err := w.WriteField("generate_avatars", "true"); err != nil {
			return err
		}
	}
	if in.Photo != nil {
		part, err := w.CreateFormFile("photo", in.Photo.Filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, in.Photo.Content); err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	req, err := c.newRequest(ctx, method, path, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

func readErrorResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if detail, ok := payload.Detail.(string); ok {
			apiErr.Detail = detail
		}
	}
	return apiErr
}
