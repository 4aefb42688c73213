package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"eisenhower-board/internal/gemini"
	"eisenhower-board/internal/models"
	"eisenhower-board/internal/realtime"
	"eisenhower-board/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageGenerator produces images from prompts; *gemini.Client implements it.
type ImageGenerator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string, image *gemini.InlineImage) ([]byte, error)
	GenerateQuadrantAvatars(ctx context.Context, photo gemini.InlineImage, staffName string) (map[int][]byte, error)
}

type StaffHandler struct {
	repo    repository.Repository
	uploads *UploadStore
	images  ImageGenerator
	events  realtime.Publisher
	log     *zap.Logger
}

func NewStaffHandler(repo repository.Repository, uploads *UploadStore, images ImageGenerator, events realtime.Publisher, log *zap.Logger) *StaffHandler {
	return &StaffHandler{repo: repo, uploads: uploads, images: images, events: events, log: log}
}

// List handles GET /api/staff
func (h *StaffHandler) List(c *gin.Context) {
	staff, err := h.repo.ListStaff(c.Request.Context())
	if err != nil {
		h.log.Error("list staff", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "スタッフの取得に失敗しました")
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

// Create handles POST /api/staff (multipart)
func (h *StaffHandler) Create(c *gin.Context) {
	staff := models.Staff{}
	if !h.applyForm(c, &staff, true) {
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.CreateStaff(ctx, &staff); err != nil {
		h.log.Error("create staff", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "スタッフの作成に失敗しました")
		return
	}
	h.events.Publish(realtime.EventCreated, realtime.EntityStaff, staff.ID)
	c.JSON(http.StatusCreated, staff)
}

// Update handles PUT /api/staff/:id (multipart, every field optional)
func (h *StaffHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	existing, err := h.repo.GetStaff(ctx, id)
	if errors.Is(err, repository.ErrStaffNotFound) {
		respondError(c, http.StatusNotFound, "スタッフが見つかりません")
		return
	}
	if err != nil {
		h.log.Error("get staff", zap.Int64("staff_id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "スタッフの取得に失敗しました")
		return
	}

	staff := *existing
	if !h.applyForm(c, &staff, false) {
		return
	}
	if err := h.repo.UpdateStaff(ctx, &staff); err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			respondError(c, http.StatusNotFound, "スタッフが見つかりません")
			return
		}
		h.log.Error("update staff", zap.Int64("staff_id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "スタッフの更新に失敗しました")
		return
	}
	h.events.Publish(realtime.EventUpdated, realtime.EntityStaff, staff.ID)
	c.JSON(http.StatusOK, staff)
}

// Delete handles DELETE /api/staff/:id. Tasks owned by the member are kept
// and show no owner.
func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.repo.DeleteStaff(c.Request.Context(), id)
	if errors.Is(err, repository.ErrStaffNotFound) {
		respondError(c, http.StatusNotFound, "スタッフが見つかりません")
		return
	}
	if err != nil {
		h.log.Error("delete staff", zap.Int64("staff_id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "スタッフの削除に失敗しました")
		return
	}
	h.events.Publish(realtime.EventDeleted, realtime.EntityStaff, id)
	c.Status(http.StatusNoContent)
}

// applyForm copies the multipart fields onto staff, saving uploads and
// generating avatars when asked. It writes the error response itself.
func (h *StaffHandler) applyForm(c *gin.Context, staff *models.Staff, create bool) bool {
	if name, ok := c.GetPostForm("name"); ok || create {
		name = strings.TrimSpace(name)
		if name == "" {
			respondError(c, http.StatusUnprocessableEntity, "名前は必須です")
			return false
		}
		staff.Name = name
	}
	if dept, ok := c.GetPostForm("department"); ok {
		staff.Department = strings.TrimSpace(dept)
	}

	photo, ok := h.saveUpload(c, "photo")
	if !ok {
		return false
	}
	if photo != "" {
		staff.Photo = photo
	}
	for q := models.MinQuadrant; q <= models.MaxQuadrant; q++ {
		name, ok := h.saveUpload(c, "photo_q"+strconv.Itoa(q))
		if !ok {
			return false
		}
		if name != "" {
			staff.SetQuadrantPhoto(q, name)
		}
	}

	generate, _ := strconv.ParseBool(c.PostForm("generate_avatars"))
	if generate {
		return h.generateAvatars(c, staff)
	}
	return true
}

// saveUpload returns "" with ok=true when the field is absent.
func (h *StaffHandler) saveUpload(c *gin.Context, field string) (string, bool) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", true
	}
	if err != nil {
		respondError(c, http.StatusBadRequest, "ファイルの読み込みに失敗しました")
		return "", false
	}
	return h.storeFile(c, fh)
}

func (h *StaffHandler) storeFile(c *gin.Context, fh *multipart.FileHeader) (string, bool) {
	name, err := h.uploads.SaveFile(fh)
	if errors.Is(err, ErrUnsupportedImage) {
		respondError(c, http.StatusBadRequest, err.Error())
		return "", false
	}
	if err != nil {
		h.log.Error("save upload", zap.String("filename", fh.Filename), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "ファイルの保存に失敗しました")
		return "", false
	}
	return name, true
}

func (h *StaffHandler) generateAvatars(c *gin.Context, staff *models.Staff) bool {
	if h.images == nil || !h.images.Configured() {
		h.log.Warn("avatar generation requested but image generator is not configured")
		return true
	}
	if staff.Photo == "" {
		respondError(c, http.StatusBadRequest, "アバター生成には写真が必要です")
		return false
	}
	data, mimeType, err := h.uploads.Read(staff.Photo)
	if err != nil {
		h.log.Error("read staff photo", zap.String("photo", staff.Photo), zap.Error(err))
		respondError(c, http.StatusBadRequest, "写真が見つかりません")
		return false
	}

	avatars, err := h.images.GenerateQuadrantAvatars(c.Request.Context(), gemini.InlineImage{MimeType: mimeType, Data: data}, staff.Name)
	if err != nil {
		h.log.Error("generate avatars", zap.String("staff", staff.Name), zap.Error(err))
		respondError(c, http.StatusBadGateway, "アバター画像の生成に失敗しました: "+err.Error())
		return false
	}
	for q, img := range avatars {
		name, err := h.uploads.SaveBytes(img, ".png")
		if err != nil {
			h.log.Error("save avatar", zap.Int("quadrant", q), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "ファイルの保存に失敗しました")
			return false
		}
		staff.SetQuadrantPhoto(q, name)
	}
	return true
}
