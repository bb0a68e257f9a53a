package models

import "time"

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Media is the metadata document persisted for every uploaded file.
// FileName is the blob object name; OriginalFileName is what the client
// uploaded. ThumbnailFileName records the thumbnail object name so delete
// never has to guess it from the original name.
type Media struct {
	ID                string    `bson:"_id" json:"id"`
	UserID            string    `bson:"userId" json:"userId"`
	FileName          string    `bson:"fileName" json:"fileName"`
	OriginalFileName  string    `bson:"originalFileName" json:"originalFileName"`
	MediaType         MediaType `bson:"mediaType" json:"mediaType"`
	FileSize          int64     `bson:"fileSize" json:"fileSize"`
	MimeType          string    `bson:"mimeType" json:"mimeType"`
	BlobURL           string    `bson:"blobUrl" json:"blobUrl"`
	ThumbnailURL      string    `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	ThumbnailFileName string    `bson:"thumbnailFileName,omitempty" json:"-"`
	Description       string    `bson:"description,omitempty" json:"description,omitempty"`
	Tags              []string  `bson:"tags,omitempty" json:"tags"`
	UploadedAt        time.Time `bson:"uploadedAt" json:"uploadedAt"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MediaUpdate carries the mutable metadata fields. Pointer and nil-slice
// semantics distinguish "field omitted" from "field set to empty".
type MediaUpdate struct {
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

type MediaList struct {
	Items    []*Media `json:"items"`
	Total    int64    `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

// PageParams is a validated pagination window.
type PageParams struct {
	Page     int
	PageSize int
}

func (p PageParams) Skip() int64 {
	return int64(p.Page-1) * int64(p.PageSize)
}

func (p PageParams) Limit() int64 {
	return int64(p.PageSize)
}
