// Package gemini calls a Gemini image model through the genai SDK to
// produce staff avatars.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("GEMINI_API_KEY が設定されていません")

// ErrNoImage is returned when a successful response carries no image part.
var ErrNoImage = errors.New("画像データが返されませんでした")

type Settings struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// APIError is a non-2xx response from the model endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("gemini api error (status=%d)", e.Status)
}

// InlineImage is an image sent alongside the prompt.
type InlineImage struct {
	MimeType string
	Data     []byte
}

type Client struct {
	settings Settings
	models   *genai.Models
	initErr  error
	log      *zap.Logger
}

func New(settings Settings, log *zap.Logger) *Client {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{settings: settings, log: log}
	if settings.APIKey == "" {
		return c
	}

	base, version := splitEndpoint(settings.Endpoint)
	gc, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     settings.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    base,
			APIVersion: version,
		},
	})
	if err != nil {
		c.initErr = fmt.Errorf("gemini client: %w", err)
		return c
	}
	c.models = gc.Models
	return c
}

// splitEndpoint turns ".../v1beta" into the base URL and the API version.
// An endpoint without a trailing version segment leaves the version to the
// SDK default.
func splitEndpoint(endpoint string) (base, version string) {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return "", ""
	}
	i := strings.LastIndex(endpoint, "/")
	if i < 0 {
		return endpoint + "/", ""
	}
	last := endpoint[i+1:]
	if len(last) > 1 && last[0] == 'v' && last[1] >= '0' && last[1] <= '9' {
		return endpoint[:i+1], last
	}
	return endpoint + "/", ""
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.settings.APIKey != ""
}

// Generate sends prompt, and image when non-nil, and returns the first
// image in the response.
func (c *Client) Generate(ctx context.Context, prompt string, image *InlineImage) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if c.initErr != nil {
		return nil, c.initErr
	}

	parts := []*genai.Part{{Text: prompt}}
	if image != nil {
		mime := image.MimeType
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: image.Data}})
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.settings.Model, contents, nil)
	c.log.Debug("gemini generateContent",
		zap.Duration("latency", time.Since(start)),
		zap.Bool("with_image", image != nil),
		zap.Error(err),
	)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return p.InlineData.Data, nil
			}
		}
	}
	return nil, ErrNoImage
}

// wrapAPIError converts SDK status errors into *APIError so callers do not
// depend on the SDK types.
func wrapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Status: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &APIError{Status: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return fmt.Errorf("gemini request: %w", err)
}

// QuadrantPrompts returns the four avatar prompts for staffName, keyed by
// quadrant number.
func QuadrantPrompts(staffName string) map[int]string {
	intro := fmt.Sprintf("この画像の人物「%s」をもとに、同じ人物であることが分かるように顔立ちや雰囲気を保ったまま、"+
		"表情や状況だけを編集してください。背景はオフィスや仕事中の雰囲気で構いません。", staffName)
	return map[int]string{
		1: intro + "アイゼンハワーマトリクスの第1象限（重要かつ緊急）にふさわしい画像にします。" +
			"人物は怒っていて、時間や締め切りに追われているような緊迫した表情にしてください。",
		2: intro + "アイゼンハワーマトリクスの第2象限（重要だが緊急ではない）にふさわしい画像にします。" +
			"人物は前向きでやる気に満ちた、落ち着いて計画的に仕事を進めているような表情にしてください。",
		3: intro + "アイゼンハワーマトリクスの第3象限（緊急だが重要ではない）にふさわしい画像にします。" +
			"人物は電話や通知、雑務に追われて少し困っているような表情にしてください。",
		4: intro + "アイゼンハワーマトリクスの第4象限（重要でも緊急でもない）にふさわしい画像にします。" +
			"人物がデスクでお茶を飲みながらリラックスしている、穏やかな表情の様子にしてください。",
	}
}

// GenerateQuadrantAvatars produces one variant of photo per quadrant. Calls
// are sequential and the first failure aborts the batch.
func (c *Client) GenerateQuadrantAvatars(ctx context.Context, photo InlineImage, staffName string) (map[int][]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	prompts := QuadrantPrompts(staffName)
	out := make(map[int][]byte, len(prompts))
	for q := 1; q <= 4; q++ {
		img, err := c.Generate(ctx, prompts[q], &photo)
		if err != nil {
			return nil, fmt.Errorf("quadrant %d: %w", q, err)
		}
		out[q] = img
	}
	return out, nil
}
