package service

import (
	"context"
	"fmt"

	"sharehope/pkg/dto"
	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
)

type PostRepository interface {
	Post(ctx context.Context, id int64) (*types.Post, error)
	Posts(ctx context.Context, filter types.PostFilter, page types.PageRequest) (*types.Page[types.Post], error)
	CreatePost(ctx context.Context, post *types.Post) error
	UpdatePost(ctx context.Context, post *types.Post) error
	DeletePost(ctx context.Context, id int64) error
	IncrementViewCount(ctx context.Context, id int64) error
}

type CategoryLookup interface {
	CategoryByID(ctx context.Context, id int64) (*types.Category, error)
}

type UserLookup interface {
	User(ctx context.Context, id int64) (*types.User, error)
	UsersByIDs(ctx context.Context, ids []int64) ([]*types.User, error)
}

type PostService struct {
	logger     logrus.FieldLogger
	posts      PostRepository
	categories CategoryLookup
	users      UserLookup
}

func NewPostService(logger logrus.FieldLogger, posts PostRepository, categories CategoryLookup, users UserLookup) *PostService {
	return &PostService{
		logger:     logger,
		posts:      posts,
		categories: categories,
		users:      users,
	}
}

func (s *PostService) Create(ctx context.Context, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	post := req.ToModel()
	if err := validatePost(post); err != nil {
		return nil, err
	}

	category, err := s.category(ctx, post.CategoryID)
	if err != nil {
		return nil, err
	}

	if post.Status == types.PostStatusPublished {
		ts := now()
		post.PublishedAt = &ts
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"post_id": post.ID, "category_id": post.CategoryID}).Info("post created")

	out := dto.NewPostResponse(post)
	out.Category = dto.NewCategoryResponse(category)
	return out, nil
}

// Get is a pure read. Views are recorded separately with RecordView.
func (s *PostService) Get(ctx context.Context, id int64) (*dto.PostResponse, error) {
	post, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	out := dto.NewPostResponse(post)

	category, err := s.categories.CategoryByID(ctx, post.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post category: %w", err)
	}
	out.Category = dto.NewCategoryResponse(category)

	author, err := s.users.User(ctx, post.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post author: %w", err)
	}
	out.Author = dto.NewUserSummary(author)

	return out, nil
}

// RecordView counts a view of a published post. Drafts read as missing.
func (s *PostService) RecordView(ctx context.Context, id int64) error {
	post, err := s.mustGet(ctx, id)
	if err != nil {
		return err
	}

	if post.Status != types.PostStatusPublished {
		return types.NotFound("post", id)
	}

	if err := s.posts.IncrementViewCount(ctx, id); err != nil {
		return fmt.Errorf("failed to record post view: %w", err)
	}

	return nil
}

// List attaches author summaries with one batched lookup.
func (s *PostService) List(ctx context.Context, filter types.PostFilter, page types.PageRequest) (*types.Page[dto.PostResponse], error) {
	if err := filter.DateRange.Validate(); err != nil {
		return nil, err
	}

	posts, err := s.posts.Posts(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	out := types.MapPage(posts, dto.NewPostResponse)
	if len(out.Data) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(posts.Data))
	seen := map[int64]bool{}
	for _, post := range posts.Data {
		if !seen[post.UserID] {
			seen[post.UserID] = true
			ids = append(ids, post.UserID)
		}
	}

	authors, err := s.users.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post authors: %w", err)
	}

	byID := make(map[int64]*types.User, len(authors))
	for _, author := range authors {
		byID[author.ID] = author
	}

	for _, post := range out.Data {
		post.Author = dto.NewUserSummary(byID[post.UserID])
	}

	return out, nil
}

func (s *PostService) Update(ctx context.Context, id int64, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	oldCategory := post.CategoryID
	req.Apply(post)

	if err := validatePost(post); err != nil {
		return nil, err
	}

	if post.CategoryID != oldCategory {
		if _, err := s.category(ctx, post.CategoryID); err != nil {
			return nil, err
		}
	}

	if post.Status == types.PostStatusPublished && post.PublishedAt == nil {
		ts := now()
		post.PublishedAt = &ts
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.logger.WithField("post_id", post.ID).Info("post updated")

	return dto.NewPostResponse(post), nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := validID("post", id); err != nil {
		return err
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.WithField("post_id", id).Info("post deleted")

	return nil
}

func (s *PostService) mustGet(ctx context.Context, id int64) (*types.Post, error) {
	if err := validID("post", id); err != nil {
		return nil, err
	}

	post, err := s.posts.Post(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}

	if post == nil {
		return nil, types.NotFound("post", id)
	}

	return post, nil
}

func (s *PostService) category(ctx context.Context, id int64) (*types.Category, error) {
	if id <= 0 {
		return nil, types.Invalid("categoryId", "category is required")
	}

	category, err := s.categories.CategoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post category: %w", err)
	}

	if category == nil {
		return nil, types.Invalid("categoryId", fmt.Sprintf("category %d does not exist", id))
	}

	return category, nil
}

func validatePost(p *types.Post) error {
	if err := firstError(
		required("title", p.Title),
		maxLength("title", p.Title, 255),
		required("content", p.Content),
	); err != nil {
		return err
	}

	if p.UserID <= 0 {
		return types.Invalid("userId", "post author is required")
	}

	if !p.Status.Valid() {
		return types.Invalid("status", fmt.Sprintf("unknown post status %q", p.Status))
	}

	return nil
}
