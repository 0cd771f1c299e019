package store

import (
	"context"

	"sharehope/internal/db"
	"sharehope/internal/utils"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const (
	resourceCategoryTableName = "resource_categories"
	resourceTableName         = "resources"
	resourceFileTableName     = "resource_files"
)

type ResourceCategoryRepository struct {
	table[types.ResourceCategory]
}

func NewResourceCategoryRepository(d *db.DB) *ResourceCategoryRepository {
	return &ResourceCategoryRepository{
		table: newTable[types.ResourceCategory](d, resourceCategoryTableName, "resource category"),
	}
}

func (r *ResourceCategoryRepository) ResourceCategory(ctx context.Context, id int64) (*types.ResourceCategory, error) {
	return r.byID(ctx, id)
}

func (r *ResourceCategoryRepository) ResourceCategoryBySlug(ctx context.Context, slug string) (*types.ResourceCategory, error) {
	return r.get(ctx, sq.Eq{"slug": slug})
}

func (r *ResourceCategoryRepository) ResourceCategories(ctx context.Context, activeOnly bool) ([]*types.ResourceCategory, error) {
	var cond sq.Sqlizer
	if activeOnly {
		cond = sq.Eq{"is_active": true}
	}
	return r.list(ctx, cond, "sort_order ASC", "name ASC", "id ASC")
}

func (r *ResourceCategoryRepository) SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error) {
	conds := sq.And{sq.Eq{"slug": slug}}
	if excludeID != 0 {
		conds = append(conds, sq.NotEq{"id": excludeID})
	}
	return r.exists(ctx, conds)
}

func (r *ResourceCategoryRepository) CreateResourceCategory(ctx context.Context, category *types.ResourceCategory) error {
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

func (r *ResourceCategoryRepository) UpdateResourceCategory(ctx context.Context, category *types.ResourceCategory) error {
	category.UpdatedAt = now()
	return r.update(ctx, category.ID, category)
}

func (r *ResourceCategoryRepository) SaveResourceCategory(ctx context.Context, category *types.ResourceCategory) error {
	if category.ID == 0 {
		return r.CreateResourceCategory(ctx, category)
	}
	return r.UpdateResourceCategory(ctx, category)
}

func (r *ResourceCategoryRepository) DeleteResourceCategory(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

type ResourceRepository struct {
	table[types.Resource]
}

func NewResourceRepository(d *db.DB) *ResourceRepository {
	return &ResourceRepository{table: newTable[types.Resource](d, resourceTableName, "resource")}
}

func (r *ResourceRepository) Resource(ctx context.Context, id int64) (*types.Resource, error) {
	return r.byID(ctx, id)
}

func (r *ResourceRepository) Resources(ctx context.Context, filter types.ResourceFilter, page types.PageRequest) (*types.Page[types.Resource], error) {
	var conds sq.And
	if filter.CategoryID != nil {
		conds = append(conds, sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.ResourceType != "" {
		conds = append(conds, r.db.Dialect().JSONArrayContains("resource_types", string(filter.ResourceType)))
	}
	if filter.Published != nil {
		conds = append(conds, sq.Eq{"is_published": *filter.Published})
	}
	if filter.Search != "" {
		conds = append(conds, r.db.Dialect().Contains(filter.Search, "title", "description"))
	}

	return r.page(ctx, whereAll(conds), page, "created_at DESC", "id DESC")
}

func (r *ResourceRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	return r.count(ctx, sq.Eq{"category_id": categoryID})
}

func (r *ResourceRepository) CreateResource(ctx context.Context, resource *types.Resource) error {
	ts := now()
	resource.CreatedAt = ts
	resource.UpdatedAt = ts
	if resource.ResourceTypes == nil {
		resource.ResourceTypes = types.StringList{}
	}

	id, err := r.insert(ctx, resource)
	if err != nil {
		return err
	}

	resource.ID = id
	return nil
}

// UpdateResource leaves the counters to the increment methods.
func (r *ResourceRepository) UpdateResource(ctx context.Context, resource *types.Resource) error {
	resource.UpdatedAt = now()
	return r.set(ctx, resource.ID, utils.StructToMap(resource, "id", "created_at", "view_count", "download_count"))
}

func (r *ResourceRepository) SaveResource(ctx context.Context, resource *types.Resource) error {
	if resource.ID == 0 {
		return r.CreateResource(ctx, resource)
	}
	return r.UpdateResource(ctx, resource)
}

func (r *ResourceRepository) DeleteResource(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

func (r *ResourceRepository) IncrementViewCount(ctx context.Context, id int64) error {
	return r.increment(ctx, id, "view_count")
}

func (r *ResourceRepository) IncrementDownloadCount(ctx context.Context, id int64) error {
	return r.increment(ctx, id, "download_count")
}

type ResourceFileRepository struct {
	table[types.ResourceFile]
}

func NewResourceFileRepository(d *db.DB) *ResourceFileRepository {
	return &ResourceFileRepository{table: newTable[types.ResourceFile](d, resourceFileTableName, "resource file")}
}

func (r *ResourceFileRepository) ResourceFile(ctx context.Context, id int64) (*types.ResourceFile, error) {
	return r.byID(ctx, id)
}

func (r *ResourceFileRepository) FilesByResource(ctx context.Context, resourceID int64) ([]*types.ResourceFile, error) {
	return r.list(ctx, sq.Eq{"resource_id": resourceID}, "sort_order ASC", "id ASC")
}

func (r *ResourceFileRepository) CreateResourceFile(ctx context.Context, file *types.ResourceFile) error {
	file.CreatedAt = now()

	id, err := r.insert(ctx, file)
	if err != nil {
		return err
	}

	file.ID = id
	return nil
}

func (r *ResourceFileRepository) DeleteResourceFile(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

func (r *ResourceFileRepository) DeleteFilesByResource(ctx context.Context, resourceID int64) error {
	query := r.db.Builder().
		Delete(r.name).
		Where(sq.Eq{"resource_id": resourceID})

	_, err := r.db.Exec(ctx, query)
	return err
}

func (r *ResourceFileRepository) IncrementDownloadCount(ctx context.Context, id int64) error {
	return r.increment(ctx, id, "download_count")
}
