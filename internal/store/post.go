package store

import (
	"context"

	"sharehope/internal/db"
	"sharehope/internal/utils"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const postTableName = "posts"

type PostRepository struct {
	table[types.Post]
}

func NewPostRepository(d *db.DB) *PostRepository {
	return &PostRepository{table: newTable[types.Post](d, postTableName, "post")}
}

func (r *PostRepository) Post(ctx context.Context, id int64) (*types.Post, error) {
	return r.byID(ctx, id)
}

// Posts lists notices first, then newest publication, with id as the
// tie-breaker.
func (r *PostRepository) Posts(ctx context.Context, filter types.PostFilter, page types.PageRequest) (*types.Page[types.Post], error) {
	var conds sq.And
	if filter.CategoryID != nil {
		conds = append(conds, sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.UserID != nil {
		conds = append(conds, sq.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != "" {
		conds = append(conds, sq.Eq{"status": filter.Status})
	}
	if filter.IsNotice != nil {
		conds = append(conds, sq.Eq{"is_notice": *filter.IsNotice})
	}
	if filter.Search != "" {
		conds = append(conds, r.db.Dialect().FullText(filter.Search, "title", "content"))
	}
	conds = append(conds, dateRange("created_at", filter.DateRange)...)

	return r.page(ctx, whereAll(conds), page, "is_notice DESC", "published_at DESC", "id DESC")
}

func (r *PostRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	return r.count(ctx, sq.Eq{"category_id": categoryID})
}

func (r *PostRepository) CreatePost(ctx context.Context, post *types.Post) error {
	ts := now()
	post.CreatedAt = ts
	post.UpdatedAt = ts
	if post.AttachmentURLs == nil {
		post.AttachmentURLs = types.StringList{}
	}

	id, err := r.insert(ctx, post)
	if err != nil {
		return err
	}

	post.ID = id
	return nil
}

// UpdatePost never writes view_count; views only move through IncrementViewCount.
func (r *PostRepository) UpdatePost(ctx context.Context, post *types.Post) error {
	post.UpdatedAt = now()
	return r.set(ctx, post.ID, utils.StructToMap(post, "id", "created_at", "view_count"))
}

func (r *PostRepository) SavePost(ctx context.Context, post *types.Post) error {
	if post.ID == 0 {
		return r.CreatePost(ctx, post)
	}
	return r.UpdatePost(ctx, post)
}

func (r *PostRepository) DeletePost(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

func (r *PostRepository) IncrementViewCount(ctx context.Context, id int64) error {
	return r.increment(ctx, id, "view_count")
}
