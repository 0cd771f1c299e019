package dto

import (
	"time"

	"sharehope/internal/utils"
	"sharehope/pkg/types"
)

type CreateResourceCategoryRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

func (r CreateResourceCategoryRequest) ToModel() *types.ResourceCategory {
	c := &types.ResourceCategory{
		Name:        trim(r.Name),
		Slug:        types.NormalizeSlug(r.Slug),
		Description: utils.TrimmedPtr(r.Description),
		IsActive:    true,
	}
	if r.SortOrder != nil {
		c.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
	return c
}

type UpdateResourceCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

func (r UpdateResourceCategoryRequest) Apply(c *types.ResourceCategory) {
	if r.Name != nil {
		c.Name = trim(*r.Name)
	}
	if r.Slug != nil {
		c.Slug = types.NormalizeSlug(*r.Slug)
	}
	if r.Description != nil {
		c.Description = utils.TrimmedPtr(r.Description)
	}
	if r.SortOrder != nil {
		c.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
}

type ResourceCategoryResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description"`
	SortOrder     int       `json:"sortOrder"`
	IsActive      bool      `json:"isActive"`
	ResourceCount *int64    `json:"resourceCount,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewResourceCategoryResponse(c *types.ResourceCategory) *ResourceCategoryResponse {
	if c == nil {
		return nil
	}
	return &ResourceCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type FileRequest struct {
	FileName   string `json:"fileName"`
	StorageKey string `json:"storageKey"`
	FileSize   int64  `json:"fileSize"`
	MimeType   string `json:"mimeType"`
	SortOrder  int    `json:"sortOrder"`
}

func (r FileRequest) ToModel(resourceID int64) *types.ResourceFile {
	return &types.ResourceFile{
		ResourceID: resourceID,
		FileName:   trim(r.FileName),
		StorageKey: trim(r.StorageKey),
		FileSize:   r.FileSize,
		MimeType:   trim(r.MimeType),
		SortOrder:  r.SortOrder,
	}
}

type CreateResourceRequest struct {
	CategoryID    int64                `json:"categoryId"`
	Title         string               `json:"title"`
	Description   *string              `json:"description"`
	ResourceTypes []types.ResourceType `json:"resourceTypes"`
	ExternalURL   *string              `json:"externalUrl"`
	ThumbnailURL  *string              `json:"thumbnailUrl"`
	IsPublished   *bool                `json:"isPublished"`
	CreatedBy     *int64               `json:"-"`

	Files []FileRequest `json:"files"`
}

// ToModel publishes by default.
func (r CreateResourceRequest) ToModel() *types.Resource {
	res := &types.Resource{
		CategoryID:    r.CategoryID,
		Title:         trim(r.Title),
		Description:   utils.TrimmedPtr(r.Description),
		ResourceTypes: resourceTypeList(r.ResourceTypes),
		ExternalURL:   utils.TrimmedPtr(r.ExternalURL),
		ThumbnailURL:  utils.TrimmedPtr(r.ThumbnailURL),
		IsPublished:   true,
		CreatedBy:     r.CreatedBy,
	}
	if r.IsPublished != nil {
		res.IsPublished = *r.IsPublished
	}
	return res
}

type UpdateResourceRequest struct {
	CategoryID    *int64               `json:"categoryId"`
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	ResourceTypes []types.ResourceType `json:"resourceTypes"`
	ExternalURL   *string              `json:"externalUrl"`
	ThumbnailURL  *string              `json:"thumbnailUrl"`
	IsPublished   *bool                `json:"isPublished"`
}

func (r UpdateResourceRequest) Apply(res *types.Resource) {
	if r.CategoryID != nil {
		res.CategoryID = *r.CategoryID
	}
	if r.Title != nil {
		res.Title = trim(*r.Title)
	}
	if r.Description != nil {
		res.Description = utils.TrimmedPtr(r.Description)
	}
	if r.ResourceTypes != nil {
		res.ResourceTypes = resourceTypeList(r.ResourceTypes)
	}
	if r.ExternalURL != nil {
		res.ExternalURL = utils.TrimmedPtr(r.ExternalURL)
	}
	if r.ThumbnailURL != nil {
		res.ThumbnailURL = utils.TrimmedPtr(r.ThumbnailURL)
	}
	if r.IsPublished != nil {
		res.IsPublished = *r.IsPublished
	}
}

func resourceTypeList(in []types.ResourceType) types.StringList {
	out := make(types.StringList, 0, len(in))
	for _, t := range in {
		if !out.Contains(string(t)) {
			out = append(out, string(t))
		}
	}
	return out
}

type ResourceResponse struct {
	ID            int64     `json:"id"`
	CategoryID    int64     `json:"categoryId"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	ResourceTypes []string  `json:"resourceTypes"`
	ExternalURL   *string   `json:"externalUrl"`
	ThumbnailURL  *string   `json:"thumbnailUrl"`
	DownloadCount int64     `json:"downloadCount"`
	ViewCount     int64     `json:"viewCount"`
	IsPublished   bool      `json:"isPublished"`
	CreatedBy     *int64    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Category *ResourceCategoryResponse `json:"category,omitempty"`
	Files    []*ResourceFileResponse   `json:"files,omitempty"`
}

func NewResourceResponse(r *types.Resource) *ResourceResponse {
	if r == nil {
		return nil
	}
	resourceTypes := []string(r.ResourceTypes)
	if resourceTypes == nil {
		resourceTypes = []string{}
	}
	return &ResourceResponse{
		ID:            r.ID,
		CategoryID:    r.CategoryID,
		Title:         r.Title,
		Description:   r.Description,
		ResourceTypes: resourceTypes,
		ExternalURL:   r.ExternalURL,
		ThumbnailURL:  r.ThumbnailURL,
		DownloadCount: r.DownloadCount,
		ViewCount:     r.ViewCount,
		IsPublished:   r.IsPublished,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ResourceFileResponse hides the storage key; downloads go through a
// presigned URL.
type ResourceFileResponse struct {
	ID            int64     `json:"id"`
	ResourceID    int64     `json:"resourceId"`
	FileName      string    `json:"fileName"`
	FileSize      int64     `json:"fileSize"`
	MimeType      string    `json:"mimeType"`
	SortOrder     int       `json:"sortOrder"`
	DownloadCount int64     `json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewResourceFileResponse(f *types.ResourceFile) *ResourceFileResponse {
	if f == nil {
		return nil
	}
	return &ResourceFileResponse{
		ID:            f.ID,
		ResourceID:    f.ResourceID,
		FileName:      f.FileName,
		FileSize:      f.FileSize,
		MimeType:      f.MimeType,
		SortOrder:     f.SortOrder,
		DownloadCount: f.DownloadCount,
		CreatedAt:     f.CreatedAt,
	}
}

type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
