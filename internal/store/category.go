package store

import (
	"context"
	"fmt"

	"sharehope/internal/db"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const categoryTableName = "categories"

type CategoryRepository struct {
	table[types.Category]
}

func NewCategoryRepository(d *db.DB) *CategoryRepository {
	return &CategoryRepository{table: newTable[types.Category](d, categoryTableName, "category")}
}

func (r *CategoryRepository) CategoryByID(ctx context.Context, id int64) (*types.Category, error) {
	return r.byID(ctx, id)
}

func (r *CategoryRepository) CategoryBySlug(ctx context.Context, slug string) (*types.Category, error) {
	return r.get(ctx, sq.Eq{"slug": slug})
}

func (r *CategoryRepository) Categories(ctx context.Context, filter types.CategoryFilter, page types.PageRequest) (*types.Page[types.Category], error) {
	return r.page(ctx, r.filter(filter), page, "sort_order ASC", "name ASC", "id ASC")
}

// AllCategories returns every category matching filter, for building trees.
func (r *CategoryRepository) AllCategories(ctx context.Context, filter types.CategoryFilter) ([]*types.Category, error) {
	return r.list(ctx, r.filter(filter), "sort_order ASC", "name ASC", "id ASC")
}

func (r *CategoryRepository) filter(filter types.CategoryFilter) sq.Sqlizer {
	var conds sq.And
	if filter.Type != "" {
		conds = append(conds, sq.Eq{"type": filter.Type})
	}
	if filter.ParentID != nil {
		conds = append(conds, sq.Eq{"parent_id": *filter.ParentID})
	}
	if filter.Active != nil {
		conds = append(conds, sq.Eq{"is_active": *filter.Active})
	}
	if filter.Search != "" {
		conds = append(conds, r.db.Dialect().Contains(filter.Search, "name", "slug"))
	}
	return whereAll(conds)
}

// SlugTaken reports whether another category already uses slug.
func (r *CategoryRepository) SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error) {
	conds := sq.And{sq.Eq{"slug": slug}}
	if excludeID != 0 {
		conds = append(conds, sq.NotEq{"id": excludeID})
	}
	return r.exists(ctx, conds)
}

func (r *CategoryRepository) ChildrenCount(ctx context.Context, id int64) (int64, error) {
	return r.count(ctx, sq.Eq{"parent_id": id})
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *types.Category) error {
	ts := now()
	category.CreatedAt = ts
	category.UpdatedAt = ts

	id, err := r.insert(ctx, category)
	if err != nil {
		return err
	}

	category.ID = id
	return nil
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, category *types.Category) error {
	category.UpdatedAt = now()
	return r.update(ctx, category.ID, category)
}

func (r *CategoryRepository) SaveCategory(ctx context.Context, category *types.Category) error {
	if category.ID == 0 {
		return r.CreateCategory(ctx, category)
	}
	return r.UpdateCategory(ctx, category)
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

// UpsertCategoryBySlug inserts category or overwrites the row that already
// owns its slug, leaving id and created_at untouched.
func (r *CategoryRepository) UpsertCategoryBySlug(ctx context.Context, category *types.Category) error {
	existing, err := r.CategoryBySlug(ctx, category.Slug)
	if err != nil {
		return err
	}

	if existing == nil {
		return r.CreateCategory(ctx, category)
	}

	category.ID = existing.ID
	category.CreatedAt = existing.CreatedAt
	if err := r.UpdateCategory(ctx, category); err != nil {
		return fmt.Errorf("failed to upsert category %s: %w", category.Slug, err)
	}

	return nil
}
