package service

import (
	"context"
	"fmt"

	"sharehope/pkg/dto"
	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
)

type CategoryRepository interface {
	CategoryByID(ctx context.Context, id int64) (*types.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*types.Category, error)
	Categories(ctx context.Context, filter types.CategoryFilter, page types.PageRequest) (*types.Page[types.Category], error)
	AllCategories(ctx context.Context, filter types.CategoryFilter) ([]*types.Category, error)
	SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error)
	ChildrenCount(ctx context.Context, id int64) (int64, error)
	CreateCategory(ctx context.Context, category *types.Category) error
	UpdateCategory(ctx context.Context, category *types.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type CategoryService struct {
	logger     logrus.FieldLogger
	categories CategoryRepository
}

func NewCategoryService(logger logrus.FieldLogger, categories CategoryRepository) *CategoryService {
	return &CategoryService{logger: logger, categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := req.ToModel()
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	if err := s.checkSlug(ctx, category.Slug, 0); err != nil {
		return nil, err
	}

	if category.ParentID != nil {
		if err := s.checkAncestry(ctx, 0, *category.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.categories.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"category_id": category.ID, "slug": category.Slug}).Info("category created")

	return dto.NewCategoryResponse(category), nil
}

// Get attaches the parent and the direct children.
func (s *CategoryService) Get(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withRelations(ctx, category)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*dto.CategoryResponse, error) {
	category, err := s.categories.CategoryBySlug(ctx, types.NormalizeSlug(slug))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category by slug: %w", err)
	}

	if category == nil {
		return nil, types.NotFound("category", slug)
	}

	return s.withRelations(ctx, category)
}

func (s *CategoryService) List(ctx context.Context, filter types.CategoryFilter, page types.PageRequest) (*types.Page[dto.CategoryResponse], error) {
	categories, err := s.categories.Categories(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return types.MapPage(categories, dto.NewCategoryResponse), nil
}

func (s *CategoryService) Tree(ctx context.Context, filter types.CategoryFilter) ([]*dto.CategoryResponse, error) {
	filter.ParentID = nil

	categories, err := s.categories.AllCategories(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return dto.CategoryTree(categories), nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	oldSlug := category.Slug
	req.Apply(category)

	if err := validateCategory(category); err != nil {
		return nil, err
	}

	if category.Slug != oldSlug {
		if err := s.checkSlug(ctx, category.Slug, category.ID); err != nil {
			return nil, err
		}
	}

	if category.ParentID != nil {
		if err := s.checkAncestry(ctx, category.ID, *category.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.logger.WithField("category_id", category.ID).Info("category updated")

	return dto.NewCategoryResponse(category), nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.mustGet(ctx, id); err != nil {
		return err
	}

	children, err := s.categories.ChildrenCount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count child categories: %w", err)
	}

	if children > 0 {
		return types.Conflict("category", "category has child categories")
	}

	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.WithField("category_id", id).Info("category deleted")

	return nil
}

func (s *CategoryService) mustGet(ctx context.Context, id int64) (*types.Category, error) {
	if err := validID("category", id); err != nil {
		return nil, err
	}

	category, err := s.categories.CategoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}

	if category == nil {
		return nil, types.NotFound("category", id)
	}

	return category, nil
}

func (s *CategoryService) withRelations(ctx context.Context, category *types.Category) (*dto.CategoryResponse, error) {
	out := dto.NewCategoryResponse(category)

	if category.ParentID != nil {
		parent, err := s.categories.CategoryByID(ctx, *category.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch parent category: %w", err)
		}
		out.Parent = dto.NewCategoryResponse(parent)
	}

	children, err := s.categories.AllCategories(ctx, types.CategoryFilter{ParentID: &category.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch child categories: %w", err)
	}

	out.Children = make([]*dto.CategoryResponse, 0, len(children))
	for _, child := range children {
		out.Children = append(out.Children, dto.NewCategoryResponse(child))
	}

	return out, nil
}

func (s *CategoryService) checkSlug(ctx context.Context, slug string, excludeID int64) error {
	taken, err := s.categories.SlugTaken(ctx, slug, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check category slug: %w", err)
	}

	if taken {
		return types.Conflict("category", "category with this slug already exists")
	}

	return nil
}

// checkAncestry walks up from parentID and rejects the move when id shows up
// in the chain.
func (s *CategoryService) checkAncestry(ctx context.Context, id, parentID int64) error {
	seen := map[int64]bool{}
	for current := &parentID; current != nil; {
		if *current == id {
			return types.Invalid("parentId", "category cannot be moved under itself or its descendants")
		}

		if seen[*current] {
			return types.Invalid("parentId", "category hierarchy contains a cycle")
		}
		seen[*current] = true

		ancestor, err := s.categories.CategoryByID(ctx, *current)
		if err != nil {
			return fmt.Errorf("failed to fetch ancestor category: %w", err)
		}

		if ancestor == nil {
			return types.Invalid("parentId", fmt.Sprintf("parent category %d does not exist", *current))
		}

		current = ancestor.ParentID
	}

	return nil
}

func validateCategory(c *types.Category) error {
	if err := firstError(
		required("name", c.Name),
		maxLength("name", c.Name, 100),
		required("slug", c.Slug),
	); err != nil {
		return err
	}

	if !types.ValidSlug(c.Slug) {
		return types.Invalid("slug", "slug may only contain lowercase letters, digits and hyphens")
	}

	if !c.Type.Valid() {
		return types.Invalid("type", fmt.Sprintf("unknown category type %q", c.Type))
	}

	return nil
}
