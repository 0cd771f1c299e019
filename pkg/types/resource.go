package types

import "time"

type ResourceType string

const (
	ResourceTypeDocument ResourceType = "document"
	ResourceTypeVideo    ResourceType = "video"
	ResourceTypeAudio    ResourceType = "audio"
	ResourceTypeImage    ResourceType = "image"
	ResourceTypeLink     ResourceType = "link"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeDocument, ResourceTypeVideo, ResourceTypeAudio, ResourceTypeImage, ResourceTypeLink:
		return true
	}
	return false
}

type ResourceCategory struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description"`
	SortOrder   int       `db:"sort_order" json:"sortOrder"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type Resource struct {
	ID            int64      `db:"id" json:"id"`
	CategoryID    int64      `db:"category_id" json:"categoryId"`
	Title         string     `db:"title" json:"title"`
	Description   *string    `db:"description" json:"description"`
	ResourceTypes StringList `db:"resource_types" json:"resourceTypes"`
	ExternalURL   *string    `db:"external_url" json:"externalUrl"`
	ThumbnailURL  *string    `db:"thumbnail_url" json:"thumbnailUrl"`
	DownloadCount int64      `db:"download_count" json:"downloadCount"`
	ViewCount     int64      `db:"view_count" json:"viewCount"`
	IsPublished   bool       `db:"is_published" json:"isPublished"`
	CreatedBy     *int64     `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

type ResourceFile struct {
	ID            int64     `db:"id" json:"id"`
	ResourceID    int64     `db:"resource_id" json:"resourceId"`
	FileName      string    `db:"file_name" json:"fileName"`
	StorageKey    string    `db:"storage_key" json:"storageKey"`
	FileSize      int64     `db:"file_size" json:"fileSize"`
	MimeType      string    `db:"mime_type" json:"mimeType"`
	SortOrder     int       `db:"sort_order" json:"sortOrder"`
	DownloadCount int64     `db:"download_count" json:"downloadCount"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

type ResourceFilter struct {
	CategoryID   *int64       `form:"categoryId"`
	ResourceType ResourceType `form:"type"`
	Published    *bool        `form:"published"`
	Search       string       `form:"q"`
}
