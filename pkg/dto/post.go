package dto

import (
	"time"

	"sharehope/internal/utils"
	"sharehope/pkg/types"
)

type CreatePostRequest struct {
	CategoryID     int64            `json:"categoryId"`
	UserID         int64            `json:"userId"`
	Title          string           `json:"title"`
	Slug           *string          `json:"slug"`
	Content        string           `json:"content"`
	Summary        *string          `json:"summary"`
	ThumbnailURL   *string          `json:"thumbnailUrl"`
	Status         types.PostStatus `json:"status"`
	IsNotice       bool             `json:"isNotice"`
	AttachmentURLs []string         `json:"attachmentUrls"`
}

// ToModel defaults the status to draft.
func (r CreatePostRequest) ToModel() *types.Post {
	p := &types.Post{
		CategoryID:     r.CategoryID,
		UserID:         r.UserID,
		Title:          trim(r.Title),
		Slug:           utils.TrimmedPtr(r.Slug),
		Content:        r.Content,
		Summary:        utils.TrimmedPtr(r.Summary),
		ThumbnailURL:   utils.TrimmedPtr(r.ThumbnailURL),
		Status:         r.Status,
		IsNotice:       r.IsNotice,
		AttachmentURLs: types.StringList(r.AttachmentURLs),
	}
	if p.Status == "" {
		p.Status = types.PostStatusDraft
	}
	if p.AttachmentURLs == nil {
		p.AttachmentURLs = types.StringList{}
	}
	return p
}

type UpdatePostRequest struct {
	CategoryID     *int64            `json:"categoryId"`
	Title          *string           `json:"title"`
	Slug           *string           `json:"slug"`
	Content        *string           `json:"content"`
	Summary        *string           `json:"summary"`
	ThumbnailURL   *string           `json:"thumbnailUrl"`
	Status         *types.PostStatus `json:"status"`
	IsNotice       *bool             `json:"isNotice"`
	AttachmentURLs []string          `json:"attachmentUrls"`
}

func (r UpdatePostRequest) Apply(p *types.Post) {
	if r.CategoryID != nil {
		p.CategoryID = *r.CategoryID
	}
	if r.Title != nil {
		p.Title = trim(*r.Title)
	}
	if r.Slug != nil {
		p.Slug = utils.TrimmedPtr(r.Slug)
	}
	if r.Content != nil {
		p.Content = *r.Content
	}
	if r.Summary != nil {
		p.Summary = utils.TrimmedPtr(r.Summary)
	}
	if r.ThumbnailURL != nil {
		p.ThumbnailURL = utils.TrimmedPtr(r.ThumbnailURL)
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	if r.IsNotice != nil {
		p.IsNotice = *r.IsNotice
	}
	if r.AttachmentURLs != nil {
		p.AttachmentURLs = types.StringList(r.AttachmentURLs)
	}
}

type PostResponse struct {
	ID             int64            `json:"id"`
	CategoryID     int64            `json:"categoryId"`
	UserID         int64            `json:"userId"`
	Title          string           `json:"title"`
	Slug           *string          `json:"slug"`
	Content        string           `json:"content"`
	Summary        *string          `json:"summary"`
	ThumbnailURL   *string          `json:"thumbnailUrl"`
	Status         types.PostStatus `json:"status"`
	IsNotice       bool             `json:"isNotice"`
	ViewCount      int64            `json:"viewCount"`
	AttachmentURLs []string         `json:"attachmentUrls"`
	PublishedAt    *time.Time       `json:"publishedAt"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`

	Category *CategoryResponse `json:"category,omitempty"`
	Author   *UserSummary      `json:"author,omitempty"`
}

func NewPostResponse(p *types.Post) *PostResponse {
	if p == nil {
		return nil
	}

	attachments := []string(p.AttachmentURLs)
	if attachments == nil {
		attachments = []string{}
	}

	return &PostResponse{
		ID:             p.ID,
		CategoryID:     p.CategoryID,
		UserID:         p.UserID,
		Title:          p.Title,
		Slug:           p.Slug,
		Content:        p.Content,
		Summary:        p.Summary,
		ThumbnailURL:   p.ThumbnailURL,
		Status:         p.Status,
		IsNotice:       p.IsNotice,
		ViewCount:      p.ViewCount,
		AttachmentURLs: attachments,
		PublishedAt:    p.PublishedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
