package services

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"media-vault/internal/apperrors"
	"media-vault/internal/media"
	"media-vault/internal/models"
	"media-vault/internal/repository"
	"media-vault/internal/storage"
)

type MediaService struct {
	repo       repository.MediaStore
	blobs      storage.BlobStore
	maxBytes   int64
	thumbWidth int
	log        *zap.SugaredLogger
}

func NewMediaService(repo repository.MediaStore, blobs storage.BlobStore, maxBytes int64, thumbWidth int, log *zap.SugaredLogger) *MediaService {
	return &MediaService{repo: repo, blobs: blobs, maxBytes: maxBytes, thumbWidth: thumbWidth, log: log}
}

// UploadInput is one multipart upload as the handler received it.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
	Description string
	RawTags     string
}

// Upload validates the file, writes it to blob storage, generates a
// thumbnail for images and persists the metadata record. Validation
// failures reject the request before anything is written.
func (s *MediaService) Upload(ctx context.Context, userID string, in UploadInput) (*models.Media, error) {
	mediaType, err := media.DetectType(in.FileName, in.ContentType)
	if err != nil {
		return nil, err
	}
	if err := media.CheckSize(in.Size, s.maxBytes); err != nil {
		return nil, err
	}
	tags, err := media.ParseTags(in.RawTags)
	if err != nil {
		return nil, err
	}

	storedName, blobURL, err := s.blobs.Upload(ctx, bytes.NewReader(in.Data), userID, in.FileName, in.ContentType)
	if err != nil {
		return nil, apperrors.Internal("Failed to upload media", err)
	}

	var thumbStored, thumbURL string
	if mediaType == models.MediaTypeImage {
		thumbStored, thumbURL = s.uploadThumbnail(ctx, userID, in)
	}

	now := time.Now().UTC()
	m := &models.Media{
		ID:                uuid.NewString(),
		UserID:            userID,
		FileName:          storedName,
		OriginalFileName:  in.FileName,
		MediaType:         mediaType,
		FileSize:          in.Size,
		MimeType:          in.ContentType,
		BlobURL:           blobURL,
		ThumbnailURL:      thumbURL,
		ThumbnailFileName: thumbStored,
		Description:       in.Description,
		Tags:              tags,
		UploadedAt:        now,
		UpdatedAt:         now,
	}
	if err := s.repo.CreateMedia(ctx, m); err != nil {
		return nil, apperrors.Internal("Failed to upload media", err)
	}

	s.log.Infow("media uploaded",
		"mediaId", m.ID, "userId", userID, "type", mediaType, "size", in.Size)
	return m, nil
}

// uploadThumbnail is best effort: a file that decodes as no known image
// format, or a failed thumbnail write, never fails the upload.
func (s *MediaService) uploadThumbnail(ctx context.Context, userID string, in UploadInput) (string, string) {
	data, err := media.Thumbnail(in.Data, s.thumbWidth)
	if err != nil {
		s.log.Warnw("thumbnail generation failed", "file", in.FileName, "err", err)
		return "", ""
	}
	storedName, url, err := s.blobs.Upload(ctx, bytes.NewReader(data), userID, media.ThumbUploadName(in.FileName), "image/jpeg")
	if err != nil {
		s.log.Warnw("thumbnail upload failed", "file", in.FileName, "err", err)
		return "", ""
	}
	return storedName, url
}

func (s *MediaService) List(ctx context.Context, userID string, p models.PageParams, mediaType models.MediaType) (*models.MediaList, error) {
	items, total, err := s.repo.ListByUser(ctx, userID, repository.ListQuery{
		MediaType: mediaType,
		Skip:      p.Skip(),
		Limit:     p.Limit(),
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve media list", err)
	}
	return &models.MediaList{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

func (s *MediaService) Search(ctx context.Context, userID, query string, p models.PageParams) (*models.MediaList, error) {
	items, total, err := s.repo.SearchByUser(ctx, userID, repository.SearchQuery{
		Text:  query,
		Skip:  p.Skip(),
		Limit: p.Limit(),
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to search media", err)
	}
	return &models.MediaList{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

func (s *MediaService) Get(ctx context.Context, userID, id string) (*models.Media, error) {
	return s.getOwned(ctx, id, userID)
}

func (s *MediaService) Update(ctx context.Context, userID, id string, upd models.MediaUpdate) (*models.Media, error) {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return nil, err
	}

	m, err := s.repo.UpdateMedia(ctx, id, userID, repository.MediaPatch{
		Description: upd.Description,
		Tags:        upd.Tags,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Media resource not found")
		}
		return nil, apperrors.Internal("Failed to update media", err)
	}
	return m, nil
}

// Delete removes the blob, then the thumbnail, then the metadata record.
// A missing thumbnail object is logged and ignored; a failed blob delete
// aborts so the record keeps pointing at the still-existing file.
func (s *MediaService) Delete(ctx context.Context, userID, id string) error {
	m, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, m.FileName); err != nil {
		return apperrors.Internal("Failed to delete media", err)
	}

	if thumb := thumbStoredName(m); thumb != "" {
		if err := s.blobs.Delete(ctx, thumb); err != nil {
			s.log.Warnw("thumbnail deletion failed", "mediaId", m.ID, "object", thumb, "err", err)
		}
	}

	if err := s.repo.DeleteMedia(ctx, id, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.Internal("Failed to delete media", err)
	}

	s.log.Infow("media deleted", "mediaId", id, "userId", userID)
	return nil
}

// getOwned is the single ownership gate for id-scoped operations: missing
// records are 404, records owned by another user are 403.
func (s *MediaService) getOwned(ctx context.Context, id, userID string) (*models.Media, error) {
	m, err := s.repo.GetMediaByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Media resource not found")
		}
		return nil, apperrors.Internal("Failed to retrieve media", err)
	}
	if m.UserID != userID {
		return nil, apperrors.Forbidden("Access denied: insufficient permissions for this media")
	}
	return m, nil
}

// thumbStoredName prefers the recorded thumbnail object name and falls
// back to deriving it from the original object name for older records.
func thumbStoredName(m *models.Media) string {
	if m.ThumbnailFileName != "" {
		return m.ThumbnailFileName
	}
	if m.ThumbnailURL == "" {
		return ""
	}
	return media.DeriveThumbStoredName(m.FileName, m.OriginalFileName)
}
