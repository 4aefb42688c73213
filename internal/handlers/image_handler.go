package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"eisenhower-board/internal/cache"
	"eisenhower-board/internal/gemini"
	"eisenhower-board/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	imageCacheTTL    = 10 * time.Minute
	imageLoadTimeout = 2 * time.Minute
)

// TestImageRequest is the body of POST /api/gemini/test-image.
type TestImageRequest struct {
	Prompt string `json:"prompt"`
}

// ImageHandler exposes a prompt-only image generation check.
type ImageHandler struct {
	images  ImageGenerator
	uploads *UploadStore
	cache   *cache.TTLCache[models.GeneratedImage]
	timeout time.Duration
	log     *zap.Logger
}

func NewImageHandler(images ImageGenerator, uploads *UploadStore, log *zap.Logger) *ImageHandler {
	return &ImageHandler{
		images:  images,
		uploads: uploads,
		cache:   cache.New[models.GeneratedImage](),
		timeout: imageLoadTimeout,
		log:     log,
	}
}

// TestImage handles POST /api/gemini/test-image. Repeated prompts within
// the cache window return the stored image without another upstream call.
func (h *ImageHandler) TestImage(c *gin.Context) {
	var req TestImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "リクエストの形式が不正です")
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		respondError(c, http.StatusUnprocessableEntity, "プロンプトを入力してください")
		return
	}
	if h.images == nil || !h.images.Configured() {
		respondError(c, http.StatusServiceUnavailable, gemini.ErrNotConfigured.Error())
		return
	}

	// Waiters on the same prompt share this call, so it must outlive the
	// request that started it.
	ctx := context.WithoutCancel(c.Request.Context())
	img, err := h.cache.GetOrLoad(prompt, imageCacheTTL, func() (models.GeneratedImage, error) {
		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		data, err := h.images.Generate(ctx, prompt, nil)
		if err != nil {
			return models.GeneratedImage{}, err
		}
		name, err := h.uploads.SaveBytes(data, ".png")
		if err != nil {
			return models.GeneratedImage{}, err
		}
		return models.GeneratedImage{Filename: name, URL: "/static/uploads/" + name}, nil
	})
	if err != nil {
		h.log.Error("generate test image", zap.Error(err))
		var apiErr *gemini.APIError
		if errors.As(err, &apiErr) || errors.Is(err, gemini.ErrNoImage) {
			respondError(c, http.StatusBadGateway, err.Error())
			return
		}
		respondError(c, http.StatusBadGateway, "画像の生成に失敗しました")
		return
	}
	c.JSON(http.StatusOK, img)
}
