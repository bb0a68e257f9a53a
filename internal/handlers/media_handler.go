package handlers

import (
	"context"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"media-vault/internal/apperrors"
	"media-vault/internal/middleware"
	"media-vault/internal/models"
	"media-vault/internal/services"
	"media-vault/internal/utils"
)

// MediaService is the slice of the service layer the media endpoints need.
type MediaService interface {
	Upload(ctx context.Context, userID string, in services.UploadInput) (*models.Media, error)
	List(ctx context.Context, userID string, p models.PageParams, mediaType models.MediaType) (*models.MediaList, error)
	Search(ctx context.Context, userID, query string, p models.PageParams) (*models.MediaList, error)
	Get(ctx context.Context, userID, id string) (*models.Media, error)
	Update(ctx context.Context, userID, id string, upd models.MediaUpdate) (*models.Media, error)
	Delete(ctx context.Context, userID, id string) error
}

type MediaHandler struct {
	svc MediaService
}

func NewMediaHandler(svc MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// POST /api/media (multipart/form-data: file, description?, tags?)
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperrors.BadRequest("A file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return apperrors.Internal("Failed to upload media", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return apperrors.Internal("Failed to upload media", err)
	}

	m, err := h.svc.Upload(c.Context(), middleware.UserID(c), services.UploadInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Data:        data,
		Description: c.FormValue("description"),
		RawTags:     c.FormValue("tags"),
	})
	if err != nil {
		return err
	}
	return utils.JSON(c, fiber.StatusCreated, m)
}

// GET /api/media?page=&pageSize=&mediaType=
func (h *MediaHandler) List(c *fiber.Ctx) error {
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	mediaType, err := parseMediaType(c.Query("mediaType"))
	if err != nil {
		return err
	}

	list, err := h.svc.List(c.Context(), middleware.UserID(c), p, mediaType)
	if err != nil {
		return err
	}
	return utils.JSON(c, fiber.StatusOK, list)
}

// GET /api/media/search?query=&page=&pageSize=
func (h *MediaHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return apperrors.BadRequest("Search query is required")
	}
	p, err := parsePagination(c)
	if err != nil {
		return err
	}

	list, err := h.svc.Search(c.Context(), middleware.UserID(c), query, p)
	if err != nil {
		return err
	}
	return utils.JSON(c, fiber.StatusOK, list)
}

// GET /api/media/:id
func (h *MediaHandler) Get(c *fiber.Ctx) error {
	m, err := h.svc.Get(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return utils.JSON(c, fiber.StatusOK, m)
}

// PUT /api/media/:id
func (h *MediaHandler) Update(c *fiber.Ctx) error {
	var upd models.MediaUpdate
	if err := c.BodyParser(&upd); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	m, err := h.svc.Update(c.Context(), middleware.UserID(c), c.Params("id"), upd)
	if err != nil {
		return err
	}
	return utils.JSON(c, fiber.StatusOK, m)
}

// DELETE /api/media/:id
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return utils.NoContent(c)
}
