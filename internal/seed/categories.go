package seed

import (
	"context"
	"fmt"

	"sharehope/internal/utils"
	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
)

type CategoryRepository interface {
	UpsertCategoryBySlug(ctx context.Context, category *types.Category) error
}

// DefaultCategories is the board layout every installation starts with.
// Slugs are the stable key: renaming a category here updates the row that
// owns the slug, and categories created by admins are never touched.
func DefaultCategories() []types.Category {
	return []types.Category{
		{Name: "공지사항", Slug: "notice", Type: types.CategoryTypeNotice, SortOrder: 1, IsActive: true,
			Description: utils.StringPtr("기관 공지 및 안내")},
		{Name: "소식", Slug: "news", Type: types.CategoryTypeNews, SortOrder: 2, IsActive: true,
			Description: utils.StringPtr("활동 소식과 보도자료")},
		{Name: "미디어", Slug: "media", Type: types.CategoryTypeMedia, SortOrder: 3, IsActive: true},
		{Name: "자유게시판", Slug: "board", Type: types.CategoryTypeBoard, SortOrder: 4, IsActive: true},
		{Name: "갤러리", Slug: "gallery", Type: types.CategoryTypeGallery, SortOrder: 5, IsActive: true},
		{Name: "자료실", Slug: "resources", Type: types.CategoryTypeResource, SortOrder: 6, IsActive: true},
	}
}

// SeedCategories upserts DefaultCategories by slug.
func SeedCategories(ctx context.Context, logger logrus.FieldLogger, repo CategoryRepository) error {
	categories := DefaultCategories()

	logger.WithField("count", len(categories)).Info("syncing categories")

	for i := range categories {
		category := &categories[i]
		if err := repo.UpsertCategoryBySlug(ctx, category); err != nil {
			return fmt.Errorf("failed to upsert category %s: %w", category.Slug, err)
		}

		logger.WithFields(logrus.Fields{
			"category_id": category.ID,
			"slug":        category.Slug,
		}).Debug("category synced")
	}

	return nil
}
