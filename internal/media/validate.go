package media

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"media-vault/internal/apperrors"
	"media-vault/internal/models"
)

var imageMIME = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var videoMIME = map[string]bool{
	"video/mp4":       true,
	"video/mpeg":      true,
	"video/quicktime": true,
	"video/webm":      true,
}

var imageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var videoExt = map[string]bool{
	".mp4":  true,
	".mpeg": true,
	".mov":  true,
	".webm": true,
}

// DetectType classifies an upload as image or video from its declared MIME
// type, falling back to the filename extension when the MIME type is not
// recognized.
func DetectType(filename, contentType string) (models.MediaType, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case imageMIME[ct]:
		return models.MediaTypeImage, nil
	case videoMIME[ct]:
		return models.MediaTypeVideo, nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExt[ext]:
		return models.MediaTypeImage, nil
	case videoExt[ext]:
		return models.MediaTypeVideo, nil
	}

	return "", apperrors.BadRequest(
		"File type not supported. Allowed: images (jpeg, png, gif, webp) and videos (mp4, mpeg, mov, webm)")
}

// CheckSize rejects empty uploads and uploads over the configured limit.
func CheckSize(size, maxBytes int64) error {
	if size <= 0 {
		return apperrors.BadRequest("File is empty")
	}
	if size > maxBytes {
		return apperrors.BadRequest(fmt.Sprintf("File too large. Maximum size is %dMB", maxBytes/(1024*1024)))
	}
	return nil
}

// ParseTags decodes the optional multipart tags field, which must be a JSON
// array of strings. An empty field means no tags.
func ParseTags(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, apperrors.BadRequest("Invalid tags format. Must be a JSON array.")
	}
	return tags, nil
}
