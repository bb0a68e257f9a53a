package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"media-vault/internal/apperrors"
	"media-vault/internal/models"
	"media-vault/internal/repository"
)

type mockMediaStore struct {
	createFn  func(ctx context.Context, m *models.Media) error
	getByIDFn func(ctx context.Context, id string) (*models.Media, error)
	updateFn  func(ctx context.Context, id, userID string, patch repository.MediaPatch) (*models.Media, error)
	deleteFn  func(ctx context.Context, id, userID string) error
	listFn    func(ctx context.Context, userID string, q repository.ListQuery) ([]*models.Media, int64, error)
	searchFn  func(ctx context.Context, userID string, q repository.SearchQuery) ([]*models.Media, int64, error)
}

func (m *mockMediaStore) CreateMedia(ctx context.Context, md *models.Media) error {
	if m.createFn != nil {
		return m.createFn(ctx, md)
	}
	return nil
}

func (m *mockMediaStore) GetMediaByID(ctx context.Context, id string) (*models.Media, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockMediaStore) UpdateMedia(ctx context.Context, id, userID string, patch repository.MediaPatch) (*models.Media, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, userID, patch)
	}
	return nil, repository.ErrNotFound
}

func (m *mockMediaStore) DeleteMedia(ctx context.Context, id, userID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func (m *mockMediaStore) ListByUser(ctx context.Context, userID string, q repository.ListQuery) ([]*models.Media, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, q)
	}
	return nil, 0, nil
}

func (m *mockMediaStore) SearchByUser(ctx context.Context, userID string, q repository.SearchQuery) ([]*models.Media, int64, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, userID, q)
	}
	return nil, 0, nil
}

type blobUpload struct {
	filename    string
	contentType string
	size        int
}

type mockBlobStore struct {
	uploadFn func(ctx context.Context, r io.Reader, ownerID, filename, contentType string) (string, string, error)
	deleteFn func(ctx context.Context, storedName string) error

	uploads []blobUpload
	deletes []string
}

func (m *mockBlobStore) Upload(ctx context.Context, r io.Reader, ownerID, filename, contentType string) (string, string, error) {
	data, _ := io.ReadAll(r)
	m.uploads = append(m.uploads, blobUpload{filename: filename, contentType: contentType, size: len(data)})
	if m.uploadFn != nil {
		return m.uploadFn(ctx, bytes.NewReader(data), ownerID, filename, contentType)
	}
	return ownerID + "/fixed_" + filename, "https://blobs.test/" + ownerID + "/fixed_" + filename, nil
}

func (m *mockBlobStore) Delete(ctx context.Context, storedName string) error {
	m.deletes = append(m.deletes, storedName)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, storedName)
	}
	return nil
}

func newTestMediaService(repo *mockMediaStore, blobs *mockBlobStore) *MediaService {
	return NewMediaService(repo, blobs, 50*1024*1024, 64, zap.NewNop().Sugar())
}

func pngData(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 128, 96))
	for x := 0; x < 128; x++ {
		for y := 0; y < 96; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func assertAppError(t *testing.T, err error, code string, status int) *apperrors.Error {
	t.Helper()
	var ae *apperrors.Error
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *apperrors.Error", err)
	}
	if ae.Code != code || ae.Status != status {
		t.Fatalf("got %s/%d, want %s/%d", ae.Code, ae.Status, code, status)
	}
	return ae
}

func TestUploadImageStoresFileThumbnailAndRecord(t *testing.T) {
	var created *models.Media
	repo := &mockMediaStore{
		createFn: func(_ context.Context, m *models.Media) error {
			created = m
			return nil
		},
	}
	blobs := &mockBlobStore{}
	svc := newTestMediaService(repo, blobs)

	data := pngData(t)
	m, err := svc.Upload(context.Background(), "user-1", UploadInput{
		FileName:    "cat.png",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Data:        data,
		Description: "my cat",
		RawTags:     `["pets","cats"]`,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if len(blobs.uploads) != 2 {
		t.Fatalf("blob uploads = %d, want original + thumbnail", len(blobs.uploads))
	}
	if blobs.uploads[0].filename != "cat.png" {
		t.Errorf("original upload filename = %q", blobs.uploads[0].filename)
	}
	if blobs.uploads[1].filename != "thumb_cat.png" || blobs.uploads[1].contentType != "image/jpeg" {
		t.Errorf("thumbnail upload = %+v", blobs.uploads[1])
	}

	if created == nil {
		t.Fatal("metadata record not persisted")
	}
	if m.MediaType != models.MediaTypeImage {
		t.Errorf("media type = %q", m.MediaType)
	}
	if m.FileName != "user-1/fixed_cat.png" {
		t.Errorf("stored name = %q", m.FileName)
	}
	if m.OriginalFileName != "cat.png" {
		t.Errorf("original name = %q", m.OriginalFileName)
	}
	if m.ThumbnailURL == "" || m.ThumbnailFileName != "user-1/fixed_thumb_cat.png" {
		t.Errorf("thumbnail bookkeeping = %q / %q", m.ThumbnailURL, m.ThumbnailFileName)
	}
	if len(m.Tags) != 2 || m.Tags[0] != "pets" {
		t.Errorf("tags = %v", m.Tags)
	}
	if m.UploadedAt.IsZero() || !m.UploadedAt.Equal(m.UpdatedAt) {
		t.Errorf("timestamps = %v / %v", m.UploadedAt, m.UpdatedAt)
	}
}

func TestUploadVideoSkipsThumbnail(t *testing.T) {
	repo := &mockMediaStore{}
	blobs := &mockBlobStore{}
	svc := newTestMediaService(repo, blobs)

	m, err := svc.Upload(context.Background(), "user-1", UploadInput{
		FileName:    "clip.mp4",
		ContentType: "video/mp4",
		Size:        1024,
		Data:        bytes.Repeat([]byte{0xff}, 1024),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(blobs.uploads) != 1 {
		t.Errorf("blob uploads = %d, want 1", len(blobs.uploads))
	}
	if m.ThumbnailURL != "" || m.ThumbnailFileName != "" {
		t.Errorf("video must have no thumbnail, got %q / %q", m.ThumbnailURL, m.ThumbnailFileName)
	}
}

func TestUploadBrokenImageStillSucceeds(t *testing.T) {
	repo := &mockMediaStore{}
	blobs := &mockBlobStore{}
	svc := newTestMediaService(repo, blobs)

	// declared as an image but undecodable, thumbnail is skipped
	m, err := svc.Upload(context.Background(), "user-1", UploadInput{
		FileName:    "broken.png",
		ContentType: "image/png",
		Size:        64,
		Data:        bytes.Repeat([]byte{0x01}, 64),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(blobs.uploads) != 1 {
		t.Errorf("blob uploads = %d, want only the original", len(blobs.uploads))
	}
	if m.ThumbnailURL != "" {
		t.Errorf("thumbnail url = %q, want empty", m.ThumbnailURL)
	}
}

func TestUploadValidationRejectsBeforeBlobWrite(t *testing.T) {
	tests := []struct {
		name  string
		input UploadInput
	}{
		{"unsupported type", UploadInput{FileName: "notes.txt", ContentType: "text/plain", Size: 10, Data: []byte("0123456789")}},
		{"oversize", UploadInput{FileName: "big.png", ContentType: "image/png", Size: 51 * 1024 * 1024}},
		{"empty file", UploadInput{FileName: "empty.png", ContentType: "image/png", Size: 0}},
		{"bad tags", UploadInput{FileName: "cat.png", ContentType: "image/png", Size: 10, Data: []byte("0123456789"), RawTags: "{not json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := &mockBlobStore{}
			svc := newTestMediaService(&mockMediaStore{}, blobs)

			_, err := svc.Upload(context.Background(), "user-1", tt.input)
			assertAppError(t, err, apperrors.CodeBadRequest, http.StatusBadRequest)
			if len(blobs.uploads) != 0 {
				t.Errorf("blob upload happened despite validation failure")
			}
		})
	}
}

func TestUploadBlobFailure(t *testing.T) {
	blobs := &mockBlobStore{
		uploadFn: func(context.Context, io.Reader, string, string, string) (string, string, error) {
			return "", "", errors.New("bucket unreachable")
		},
	}
	svc := newTestMediaService(&mockMediaStore{}, blobs)

	_, err := svc.Upload(context.Background(), "user-1", UploadInput{
		FileName:    "clip.mp4",
		ContentType: "video/mp4",
		Size:        4,
		Data:        []byte("data"),
	})
	ae := assertAppError(t, err, apperrors.CodeInternal, http.StatusInternalServerError)
	if ae.Message != "Failed to upload media" {
		t.Errorf("message = %q", ae.Message)
	}
}

func ownedMedia() *models.Media {
	return &models.Media{
		ID:               "media-1",
		UserID:           "user-1",
		FileName:         "user-1/ab12_cat.png",
		OriginalFileName: "cat.png",
		MediaType:        models.MediaTypeImage,
		UploadedAt:       time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
}

func TestGetOwnershipGate(t *testing.T) {
	repo := &mockMediaStore{
		getByIDFn: func(_ context.Context, id string) (*models.Media, error) {
			if id == "media-1" {
				return ownedMedia(), nil
			}
			return nil, repository.ErrNotFound
		},
	}
	svc := newTestMediaService(repo, &mockBlobStore{})

	t.Run("owner sees record", func(t *testing.T) {
		m, err := svc.Get(context.Background(), "user-1", "media-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if m.ID != "media-1" {
			t.Errorf("id = %q", m.ID)
		}
	})

	t.Run("missing record is 404", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "user-1", "missing")
		ae := assertAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
		if ae.Message != "Media resource not found" {
			t.Errorf("message = %q", ae.Message)
		}
	})

	t.Run("foreign record is 403", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "user-2", "media-1")
		ae := assertAppError(t, err, apperrors.CodeForbidden, http.StatusForbidden)
		if !strings.HasPrefix(ae.Message, "Access denied") {
			t.Errorf("message = %q", ae.Message)
		}
	})
}

func TestUpdatePartialPatch(t *testing.T) {
	var gotPatch repository.MediaPatch
	repo := &mockMediaStore{
		getByIDFn: func(_ context.Context, _ string) (*models.Media, error) {
			return ownedMedia(), nil
		},
		updateFn: func(_ context.Context, _, _ string, patch repository.MediaPatch) (*models.Media, error) {
			gotPatch = patch
			m := ownedMedia()
			m.Description = "updated"
			return m, nil
		},
	}
	svc := newTestMediaService(repo, &mockBlobStore{})

	desc := "updated"
	m, err := svc.Update(context.Background(), "user-1", "media-1", models.MediaUpdate{Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.Description != "updated" {
		t.Errorf("description = %q", m.Description)
	}
	if gotPatch.Description == nil || *gotPatch.Description != "updated" {
		t.Errorf("patch description = %v", gotPatch.Description)
	}
	if gotPatch.Tags != nil {
		t.Error("omitted tags must stay nil in the patch")
	}
	if gotPatch.UpdatedAt.IsZero() {
		t.Error("patch must refresh updatedAt")
	}
}

func TestUpdateForeignRecordRejected(t *testing.T) {
	updateCalled := false
	repo := &mockMediaStore{
		getByIDFn: func(_ context.Context, _ string) (*models.Media, error) {
			return ownedMedia(), nil
		},
		updateFn: func(_ context.Context, _, _ string, _ repository.MediaPatch) (*models.Media, error) {
			updateCalled = true
			return nil, nil
		},
	}
	svc := newTestMediaService(repo, &mockBlobStore{})

	desc := "sneaky"
	_, err := svc.Update(context.Background(), "user-2", "media-1", models.MediaUpdate{Description: &desc})
	assertAppError(t, err, apperrors.CodeForbidden, http.StatusForbidden)
	if updateCalled {
		t.Error("update must not run for a foreign record")
	}
}

func TestDeleteRemovesBlobsAndRecord(t *testing.T) {
	record := ownedMedia()
	record.ThumbnailURL = "https://blobs.test/user-1/ab12_thumb_cat.png"
	record.ThumbnailFileName = "user-1/ab12_thumb_cat.png"

	deletedID := ""
	repo := &mockMediaStore{
		getByIDFn: func(_ context.Context, _ string) (*models.Media, error) {
			return record, nil
		},
		deleteFn: func(_ context.Context, id, userID string) error {
			deletedID = id + "/" + userID
			return nil
		},
	}
	blobs := &mockBlobStore{}
	svc := newTestMediaService(repo, blobs)

	if err := svc.Delete(context.Background(), "user-1", "media-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(blobs.deletes) != 2 {
		t.Fatalf("blob deletes = %v", blobs.deletes)
	}
	if blobs.deletes[0] != "user-1/ab12_cat.png" || blobs.deletes[1] != "user-1/ab12_thumb_cat.png" {
		t.Errorf("deleted objects = %v", blobs.deletes)
	}
	if deletedID != "media-1/user-1" {
		t.Errorf("metadata delete = %q", deletedID)
	}
}

func TestDeleteDerivesLegacyThumbnailName(t *testing.T) {
	record := ownedMedia()
	record.ThumbnailURL = "https://blobs.test/user-1/ab12_thumb_cat.png"
	record.ThumbnailFileName = "" // record predates explicit bookkeeping

	repo := &mockMediaStore{
		getByIDFn: func(_ context.Context, _ string) (*models.Media, error) { return record, nil },
	}
	blobs := &mockBlobStore{}
	svc := newTestMediaService(repo, blobs)

	if err := svc.Delete(context.Background(), "user-1", "media-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(blobs.deletes) != 2 || blobs.deletes[1] != "user-1/ab12_thumb_cat.png" {
		t.Errorf("deletes = %v", blobs.deletes)
	}
}

func TestDeleteWithoutThumbnail(t *testing.T) {
	repo := &mockMediaStore{
		getByIDFn: func(_ context.Context, _ string) (*models.Media, error) { return ownedMedia(), nil },
	}
	blobs := &mockBlobStore{}
	svc := newTestMediaService(repo, blobs)

	if err := svc.Delete(context.Background(), "user-1", "media-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(blobs.deletes) != 1 {
		t.Errorf("deletes = %v, want only the original object", blobs.deletes)
	}
}

func TestDeleteBlobFailureKeepsRecord(t *testing.T) {
	recordDeleted := false
	repo := &mockMediaStore{
		getByIDFn: func(_ context.Context, _ string) (*models.Media, error) { return ownedMedia(), nil },
		deleteFn: func(_ context.Context, _, _ string) error {
			recordDeleted = true
			return nil
		},
	}
	blobs := &mockBlobStore{
		deleteFn: func(_ context.Context, _ string) error { return errors.New("storage down") },
	}
	svc := newTestMediaService(repo, blobs)

	err := svc.Delete(context.Background(), "user-1", "media-1")
	assertAppError(t, err, apperrors.CodeInternal, http.StatusInternalServerError)
	if recordDeleted {
		t.Error("metadata must survive when the blob delete fails")
	}
}

func TestListPassesPaginationWindow(t *testing.T) {
	var gotQuery repository.ListQuery
	repo := &mockMediaStore{
		listFn: func(_ context.Context, userID string, q repository.ListQuery) ([]*models.Media, int64, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q", userID)
			}
			gotQuery = q
			return []*models.Media{ownedMedia()}, 41, nil
		},
	}
	svc := newTestMediaService(repo, &mockBlobStore{})

	list, err := svc.List(context.Background(), "user-1", models.PageParams{Page: 3, PageSize: 10}, models.MediaTypeImage)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotQuery.Skip != 20 || gotQuery.Limit != 10 {
		t.Errorf("window = skip %d limit %d", gotQuery.Skip, gotQuery.Limit)
	}
	if gotQuery.MediaType != models.MediaTypeImage {
		t.Errorf("media type = %q", gotQuery.MediaType)
	}
	if list.Total != 41 || list.Page != 3 || list.PageSize != 10 {
		t.Errorf("list meta = %+v", list)
	}
}

func TestSearchPassesQuery(t *testing.T) {
	repo := &mockMediaStore{
		searchFn: func(_ context.Context, userID string, q repository.SearchQuery) ([]*models.Media, int64, error) {
			if q.Text != "sunset" || q.Skip != 0 || q.Limit != 20 {
				t.Errorf("query = %+v", q)
			}
			return []*models.Media{}, 0, nil
		},
	}
	svc := newTestMediaService(repo, &mockBlobStore{})

	list, err := svc.Search(context.Background(), "user-1", "sunset", models.PageParams{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if list.Items == nil {
		t.Error("items must be non-nil even when empty")
	}
}
