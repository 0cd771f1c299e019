package seed

import (
	"context"
	"fmt"

	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
)

type ResourceCategoryRepository interface {
	ResourceCategoryBySlug(ctx context.Context, slug string) (*types.ResourceCategory, error)
	SaveResourceCategory(ctx context.Context, category *types.ResourceCategory) error
}

func DefaultResourceCategories() []types.ResourceCategory {
	return []types.ResourceCategory{
		{Name: "교육자료", Slug: "education", SortOrder: 1, IsActive: true},
		{Name: "상담자료", Slug: "counseling", SortOrder: 2, IsActive: true},
		{Name: "양식", Slug: "forms", SortOrder: 3, IsActive: true},
		{Name: "연구보고서", Slug: "research", SortOrder: 4, IsActive: true},
	}
}

func SeedResourceCategories(ctx context.Context, logger logrus.FieldLogger, repo ResourceCategoryRepository) error {
	categories := DefaultResourceCategories()

	logger.WithField("count", len(categories)).Info("syncing resource categories")

	for i := range categories {
		category := &categories[i]

		existing, err := repo.ResourceCategoryBySlug(ctx, category.Slug)
		if err != nil {
			return fmt.Errorf("failed to fetch resource category %s: %w", category.Slug, err)
		}
		if existing != nil {
			category.ID = existing.ID
			category.CreatedAt = existing.CreatedAt
		}

		if err := repo.SaveResourceCategory(ctx, category); err != nil {
			return fmt.Errorf("failed to save resource category %s: %w", category.Slug, err)
		}
	}

	return nil
}
