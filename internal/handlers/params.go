package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"media-vault/internal/apperrors"
	"media-vault/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func parsePagination(c *fiber.Ctx) (models.PageParams, error) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return models.PageParams{}, apperrors.BadRequest("page must be an integer greater than or equal to 1")
	}
	size, err := strconv.Atoi(c.Query("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 || size > maxPageSize {
		return models.PageParams{}, apperrors.BadRequest("pageSize must be an integer between 1 and 100")
	}
	return models.PageParams{Page: page, PageSize: size}, nil
}

func parseMediaType(raw string) (models.MediaType, error) {
	switch raw {
	case "":
		return "", nil
	case "image":
		return models.MediaTypeImage, nil
	case "video":
		return models.MediaTypeVideo, nil
	default:
		return "", apperrors.BadRequest("mediaType must be either 'image' or 'video'")
	}
}
