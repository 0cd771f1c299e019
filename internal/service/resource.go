package service

import (
	"context"
	"fmt"
	"time"

	"sharehope/pkg/dto"
	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
)

type ResourceCategoryRepository interface {
	ResourceCategory(ctx context.Context, id int64) (*types.ResourceCategory, error)
	ResourceCategories(ctx context.Context, activeOnly bool) ([]*types.ResourceCategory, error)
	SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error)
	CreateResourceCategory(ctx context.Context, category *types.ResourceCategory) error
	UpdateResourceCategory(ctx context.Context, category *types.ResourceCategory) error
	DeleteResourceCategory(ctx context.Context, id int64) error
}

type ResourceRepository interface {
	Resource(ctx context.Context, id int64) (*types.Resource, error)
	Resources(ctx context.Context, filter types.ResourceFilter, page types.PageRequest) (*types.Page[types.Resource], error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	CreateResource(ctx context.Context, resource *types.Resource) error
	UpdateResource(ctx context.Context, resource *types.Resource) error
	DeleteResource(ctx context.Context, id int64) error
	IncrementViewCount(ctx context.Context, id int64) error
	IncrementDownloadCount(ctx context.Context, id int64) error
}

type ResourceFileRepository interface {
	ResourceFile(ctx context.Context, id int64) (*types.ResourceFile, error)
	FilesByResource(ctx context.Context, resourceID int64) ([]*types.ResourceFile, error)
	CreateResourceFile(ctx context.Context, file *types.ResourceFile) error
	DeleteResourceFile(ctx context.Context, id int64) error
	DeleteFilesByResource(ctx context.Context, resourceID int64) error
	IncrementDownloadCount(ctx context.Context, id int64) error
}

// Presigner hands out short-lived download URLs for stored files.
type Presigner interface {
	PresignDownload(ctx context.Context, key, fileName string) (url string, expiresAt time.Time, err error)
}

type ResourceService struct {
	logger     logrus.FieldLogger
	tx         Transactor
	categories ResourceCategoryRepository
	resources  ResourceRepository
	files      ResourceFileRepository
	presigner  Presigner
}

// NewResourceService accepts a nil presigner; downloads then return the
// stored key as is.
func NewResourceService(
	logger logrus.FieldLogger,
	tx Transactor,
	categories ResourceCategoryRepository,
	resources ResourceRepository,
	files ResourceFileRepository,
	presigner Presigner,
) *ResourceService {
	return &ResourceService{
		logger:     logger,
		tx:         tx,
		categories: categories,
		resources:  resources,
		files:      files,
		presigner:  presigner,
	}
}

func (s *ResourceService) CreateCategory(ctx context.Context, req dto.CreateResourceCategoryRequest) (*dto.ResourceCategoryResponse, error) {
	category := req.ToModel()
	if err := validateResourceCategory(category); err != nil {
		return nil, err
	}

	if err := s.checkSlug(ctx, category.Slug, 0); err != nil {
		return nil, err
	}

	if err := s.categories.CreateResourceCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create resource category: %w", err)
	}

	s.logger.WithField("resource_category_id", category.ID).Info("resource category created")

	return dto.NewResourceCategoryResponse(category), nil
}

func (s *ResourceService) GetCategory(ctx context.Context, id int64) (*dto.ResourceCategoryResponse, error) {
	category, err := s.mustGetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.resources.CountByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count resources: %w", err)
	}

	out := dto.NewResourceCategoryResponse(category)
	out.ResourceCount = &count
	return out, nil
}

func (s *ResourceService) ListCategories(ctx context.Context, activeOnly bool) ([]*dto.ResourceCategoryResponse, error) {
	categories, err := s.categories.ResourceCategories(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list resource categories: %w", err)
	}

	out := make([]*dto.ResourceCategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.NewResourceCategoryResponse(c))
	}

	return out, nil
}

func (s *ResourceService) UpdateCategory(ctx context.Context, id int64, req dto.UpdateResourceCategoryRequest) (*dto.ResourceCategoryResponse, error) {
	category, err := s.mustGetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	oldSlug := category.Slug
	req.Apply(category)

	if err := validateResourceCategory(category); err != nil {
		return nil, err
	}

	if category.Slug != oldSlug {
		if err := s.checkSlug(ctx, category.Slug, category.ID); err != nil {
			return nil, err
		}
	}

	if err := s.categories.UpdateResourceCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update resource category: %w", err)
	}

	return dto.NewResourceCategoryResponse(category), nil
}

func (s *ResourceService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.mustGetCategory(ctx, id); err != nil {
		return err
	}

	count, err := s.resources.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count resources: %w", err)
	}

	if count > 0 {
		return types.Conflict("resource category", "resource category still has resources")
	}

	if err := s.categories.DeleteResourceCategory(ctx, id); err != nil {
		return fmt.Errorf("failed to delete resource category: %w", err)
	}

	s.logger.WithField("resource_category_id", id).Info("resource category deleted")

	return nil
}

// Create stores the resource and its files in one transaction.
func (s *ResourceService) Create(ctx context.Context, req dto.CreateResourceRequest) (*dto.ResourceResponse, error) {
	resource := req.ToModel()
	if err := validateResource(resource); err != nil {
		return nil, err
	}

	if len(req.Files) == 0 && resource.ExternalURL == nil {
		return nil, types.Invalid("files", "a resource needs at least one file or an external link")
	}

	for _, f := range req.Files {
		if err := validateFile(f); err != nil {
			return nil, err
		}
	}

	category, err := s.categoryForResource(ctx, resource.CategoryID)
	if err != nil {
		return nil, err
	}

	files := make([]*types.ResourceFile, 0, len(req.Files))
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.resources.CreateResource(ctx, resource); err != nil {
			return fmt.Errorf("failed to create resource: %w", err)
		}

		for _, f := range req.Files {
			file := f.ToModel(resource.ID)
			if err := s.files.CreateResourceFile(ctx, file); err != nil {
				return fmt.Errorf("failed to create resource file: %w", err)
			}
			files = append(files, file)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"resource_id": resource.ID, "files": len(files)}).Info("resource created")

	out := dto.NewResourceResponse(resource)
	out.Category = dto.NewResourceCategoryResponse(category)
	out.Files = fileResponses(files)
	return out, nil
}

func (s *ResourceService) Get(ctx context.Context, id int64) (*dto.ResourceResponse, error) {
	resource, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withRelations(ctx, resource)
}

// GetPublished hides unpublished resources behind NotFound.
func (s *ResourceService) GetPublished(ctx context.Context, id int64) (*dto.ResourceResponse, error) {
	resource, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	if !resource.IsPublished {
		return nil, types.NotFound("resource", id)
	}

	return s.withRelations(ctx, resource)
}

func (s *ResourceService) List(ctx context.Context, filter types.ResourceFilter, page types.PageRequest) (*types.Page[dto.ResourceResponse], error) {
	if filter.ResourceType != "" && !filter.ResourceType.Valid() {
		return nil, types.Invalid("type", fmt.Sprintf("unknown resource type %q", filter.ResourceType))
	}

	resources, err := s.resources.Resources(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	return types.MapPage(resources, dto.NewResourceResponse), nil
}

func (s *ResourceService) Update(ctx context.Context, id int64, req dto.UpdateResourceRequest) (*dto.ResourceResponse, error) {
	resource, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	oldCategory := resource.CategoryID
	req.Apply(resource)

	if err := validateResource(resource); err != nil {
		return nil, err
	}

	if resource.CategoryID != oldCategory {
		if _, err := s.categoryForResource(ctx, resource.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.resources.UpdateResource(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}

	s.logger.WithField("resource_id", resource.ID).Info("resource updated")

	return dto.NewResourceResponse(resource), nil
}

// Delete removes the files first, then the resource.
func (s *ResourceService) Delete(ctx context.Context, id int64) error {
	if err := validID("resource", id); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.files.DeleteFilesByResource(ctx, id); err != nil {
			return fmt.Errorf("failed to delete resource files: %w", err)
		}

		if err := s.resources.DeleteResource(ctx, id); err != nil {
			return fmt.Errorf("failed to delete resource: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithField("resource_id", id).Info("resource deleted")

	return nil
}

func (s *ResourceService) AddFile(ctx context.Context, resourceID int64, req dto.FileRequest) (*dto.ResourceFileResponse, error) {
	if err := validateFile(req); err != nil {
		return nil, err
	}

	if _, err := s.mustGet(ctx, resourceID); err != nil {
		return nil, err
	}

	file := req.ToModel(resourceID)
	if err := s.files.CreateResourceFile(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to create resource file: %w", err)
	}

	return dto.NewResourceFileResponse(file), nil
}

func (s *ResourceService) DeleteFile(ctx context.Context, resourceID, fileID int64) error {
	if _, err := s.file(ctx, resourceID, fileID); err != nil {
		return err
	}

	if err := s.files.DeleteResourceFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete resource file: %w", err)
	}

	return nil
}

// RecordView counts a view of a published resource. Unpublished resources
// read as missing.
func (s *ResourceService) RecordView(ctx context.Context, id int64) error {
	resource, err := s.mustGet(ctx, id)
	if err != nil {
		return err
	}

	if !resource.IsPublished {
		return types.NotFound("resource", id)
	}

	if err := s.resources.IncrementViewCount(ctx, id); err != nil {
		return fmt.Errorf("failed to record resource view: %w", err)
	}

	return nil
}

// RecordDownload bumps the file and resource counters together and returns
// where the file can be fetched.
func (s *ResourceService) RecordDownload(ctx context.Context, resourceID, fileID int64) (*dto.DownloadResponse, error) {
	file, err := s.file(ctx, resourceID, fileID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.files.IncrementDownloadCount(ctx, file.ID); err != nil {
			return fmt.Errorf("failed to count file download: %w", err)
		}

		if err := s.resources.IncrementDownloadCount(ctx, resourceID); err != nil {
			return fmt.Errorf("failed to count resource download: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.presigner == nil {
		return &dto.DownloadResponse{URL: file.StorageKey}, nil
	}

	url, expiresAt, err := s.presigner.PresignDownload(ctx, file.StorageKey, file.FileName)
	if err != nil {
		return nil, types.Wrap(types.ErrUnavailable, "file storage unavailable", err)
	}

	return &dto.DownloadResponse{URL: url, ExpiresAt: expiresAt}, nil
}

func (s *ResourceService) mustGet(ctx context.Context, id int64) (*types.Resource, error) {
	if err := validID("resource", id); err != nil {
		return nil, err
	}

	resource, err := s.resources.Resource(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource: %w", err)
	}

	if resource == nil {
		return nil, types.NotFound("resource", id)
	}

	return resource, nil
}

func (s *ResourceService) mustGetCategory(ctx context.Context, id int64) (*types.ResourceCategory, error) {
	if err := validID("resource category", id); err != nil {
		return nil, err
	}

	category, err := s.categories.ResourceCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource category: %w", err)
	}

	if category == nil {
		return nil, types.NotFound("resource category", id)
	}

	return category, nil
}

func (s *ResourceService) categoryForResource(ctx context.Context, id int64) (*types.ResourceCategory, error) {
	if id <= 0 {
		return nil, types.Invalid("categoryId", "category is required")
	}

	category, err := s.categories.ResourceCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource category: %w", err)
	}

	if category == nil {
		return nil, types.Invalid("categoryId", fmt.Sprintf("resource category %d does not exist", id))
	}

	return category, nil
}

func (s *ResourceService) file(ctx context.Context, resourceID, fileID int64) (*types.ResourceFile, error) {
	if err := validID("resource file", fileID); err != nil {
		return nil, err
	}

	file, err := s.files.ResourceFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource file: %w", err)
	}

	if file == nil || file.ResourceID != resourceID {
		return nil, types.NotFound("resource file", fileID)
	}

	return file, nil
}

func (s *ResourceService) withRelations(ctx context.Context, resource *types.Resource) (*dto.ResourceResponse, error) {
	out := dto.NewResourceResponse(resource)

	category, err := s.categories.ResourceCategory(ctx, resource.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource category: %w", err)
	}
	out.Category = dto.NewResourceCategoryResponse(category)

	files, err := s.files.FilesByResource(ctx, resource.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource files: %w", err)
	}
	out.Files = fileResponses(files)

	return out, nil
}

func (s *ResourceService) checkSlug(ctx context.Context, slug string, excludeID int64) error {
	taken, err := s.categories.SlugTaken(ctx, slug, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check resource category slug: %w", err)
	}

	if taken {
		return types.Conflict("resource category", "resource category with this slug already exists")
	}

	return nil
}

func fileResponses(files []*types.ResourceFile) []*dto.ResourceFileResponse {
	out := make([]*dto.ResourceFileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, dto.NewResourceFileResponse(f))
	}
	return out
}

func validateResourceCategory(c *types.ResourceCategory) error {
	if err := firstError(
		required("name", c.Name),
		required("slug", c.Slug),
	); err != nil {
		return err
	}

	if !types.ValidSlug(c.Slug) {
		return types.Invalid("slug", "slug may only contain lowercase letters, digits and hyphens")
	}

	return nil
}

func validateResource(r *types.Resource) error {
	if err := firstError(
		required("title", r.Title),
		maxLength("title", r.Title, 255),
	); err != nil {
		return err
	}

	if len(r.ResourceTypes) == 0 {
		return types.Invalid("resourceTypes", "at least one resource type is required")
	}

	for _, t := range r.ResourceTypes {
		if !types.ResourceType(t).Valid() {
			return types.Invalid("resourceTypes", fmt.Sprintf("unknown resource type %q", t))
		}
	}

	return nil
}

func validateFile(f dto.FileRequest) error {
	if err := firstError(
		required("fileName", f.FileName),
		required("storageKey", f.StorageKey),
	); err != nil {
		return err
	}

	if f.FileSize < 0 {
		return types.Invalid("fileSize", "file size cannot be negative")
	}

	return nil
}
