package service

import (
	"context"
	"errors"
	"testing"

	"sharehope/internal/utils"
	"sharehope/pkg/dto"
	"sharehope/pkg/types"
)

type resourceFixture struct {
	svc        *ResourceService
	tx         *fakeTx
	categories *fakeResourceCategories
	resources  *fakeResources
	files      *fakeFiles
}

func newResourceFixture(presigner Presigner) *resourceFixture {
	f := &resourceFixture{
		tx:         &fakeTx{},
		categories: newFakeResourceCategories(),
		resources:  newFakeResources(),
		files:      newFakeFiles(),
	}
	f.svc = NewResourceService(testLogger(), f.tx, f.categories, f.resources, f.files, presigner)
	return f
}

func (f *resourceFixture) sermon(t *testing.T) *dto.ResourceResponse {
	t.Helper()

	category, err := f.svc.CreateCategory(context.Background(), dto.CreateResourceCategoryRequest{Name: "설교", Slug: "sermons"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	out, err := f.svc.Create(context.Background(), dto.CreateResourceRequest{
		CategoryID:    category.ID,
		Title:         "주일 설교",
		ResourceTypes: []types.ResourceType{types.ResourceTypeDocument, types.ResourceTypeAudio},
		Files: []dto.FileRequest{
			{FileName: "sermon.pdf", StorageKey: "resources/sermon.pdf", FileSize: 2048, MimeType: "application/pdf"},
			{FileName: "sermon.mp3", StorageKey: "resources/sermon.mp3", FileSize: 4096, MimeType: "audio/mpeg", SortOrder: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return out
}

func TestCreateResourceWithFiles(t *testing.T) {
	f := newResourceFixture(nil)
	out := f.sermon(t)

	if !out.IsPublished || len(out.Files) != 2 || out.Category == nil {
		t.Fatalf("unexpected resource: %+v", out)
	}
	if f.tx.calls != 1 {
		t.Fatalf("expected resource and files in one transaction, got %d", f.tx.calls)
	}

	category, err := f.svc.GetCategory(context.Background(), out.CategoryID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if category.ResourceCount == nil || *category.ResourceCount != 1 {
		t.Fatalf("unexpected resource count: %v", category.ResourceCount)
	}

	if err := f.svc.DeleteCategory(context.Background(), out.CategoryID); !errors.Is(err, types.ErrConflict) {
		t.Fatalf("expected conflict deleting a category in use, got %v", err)
	}
}

func TestCreateResourceValidation(t *testing.T) {
	f := newResourceFixture(nil)
	category, _ := f.svc.CreateCategory(context.Background(), dto.CreateResourceCategoryRequest{Name: "찬양", Slug: "worship"})

	tests := []struct {
		name  string
		req   dto.CreateResourceRequest
		field string
	}{
		{"no file or link", dto.CreateResourceRequest{CategoryID: category.ID, Title: "t", ResourceTypes: []types.ResourceType{types.ResourceTypeVideo}}, "files"},
		{"no types", dto.CreateResourceRequest{CategoryID: category.ID, Title: "t", ExternalURL: utils.StringPtr("https://youtu.be/x")}, "resourceTypes"},
		{"unknown category", dto.CreateResourceRequest{CategoryID: 404, Title: "t", ResourceTypes: []types.ResourceType{types.ResourceTypeLink}, ExternalURL: utils.StringPtr("https://youtu.be/x")}, "categoryId"},
		{"file without key", dto.CreateResourceRequest{CategoryID: category.ID, Title: "t", ResourceTypes: []types.ResourceType{types.ResourceTypeDocument}, Files: []dto.FileRequest{{FileName: "a.pdf"}}}, "storageKey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.req)
			if !errors.Is(err, types.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if e, _ := types.AsError(err); e.Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, e.Field)
			}
		})
	}

	if len(f.resources.all(nil)) != 0 {
		t.Fatal("invalid resources were stored")
	}
}

func TestRecordDownloadWithoutStorage(t *testing.T) {
	f := newResourceFixture(nil)
	out := f.sermon(t)
	file := out.Files[0]

	download, err := f.svc.RecordDownload(context.Background(), out.ID, file.ID)
	if err != nil {
		t.Fatalf("RecordDownload: %v", err)
	}
	if download.URL != "resources/sermon.pdf" || !download.ExpiresAt.IsZero() {
		t.Fatalf("expected the raw key, got %+v", download)
	}

	if f.files.get(file.ID).DownloadCount != 1 || f.resources.get(out.ID).DownloadCount != 1 {
		t.Fatal("download counters not incremented")
	}
}

func TestRecordDownloadPresigns(t *testing.T) {
	presigner := &fakePresigner{}
	f := newResourceFixture(presigner)
	out := f.sermon(t)

	download, err := f.svc.RecordDownload(context.Background(), out.ID, out.Files[1].ID)
	if err != nil {
		t.Fatalf("RecordDownload: %v", err)
	}
	if len(presigner.keys) != 1 || presigner.keys[0] != "resources/sermon.mp3" {
		t.Fatalf("unexpected presign calls: %v", presigner.keys)
	}
	if download.ExpiresAt.IsZero() {
		t.Fatal("expected an expiry")
	}

	if _, err := f.svc.RecordDownload(context.Background(), out.ID+1, out.Files[1].ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected file of another resource to be not found, got %v", err)
	}
}

func TestGetPublishedHidesDrafts(t *testing.T) {
	f := newResourceFixture(nil)
	out := f.sermon(t)
	ctx := context.Background()

	if _, err := f.svc.Update(ctx, out.ID, dto.UpdateResourceRequest{IsPublished: utils.BoolPtr(false)}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := f.svc.GetPublished(ctx, out.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected draft to be hidden, got %v", err)
	}
	if _, err := f.svc.Get(ctx, out.ID); err != nil {
		t.Fatalf("admin Get: %v", err)
	}

	if err := f.svc.RecordView(ctx, out.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected draft view to be rejected, got %v", err)
	}
	if got := f.resources.get(out.ID).ViewCount; got != 0 {
		t.Fatalf("draft view counted: %d", got)
	}

	if _, err := f.svc.Update(ctx, out.ID, dto.UpdateResourceRequest{IsPublished: utils.BoolPtr(true)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := f.svc.RecordView(ctx, out.ID); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if got := f.resources.get(out.ID).ViewCount; got != 1 {
		t.Fatalf("expected one view, got %d", got)
	}
}

func TestDeleteResourceRemovesFiles(t *testing.T) {
	f := newResourceFixture(nil)
	out := f.sermon(t)

	if err := f.svc.Delete(context.Background(), out.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.files.all(nil)) != 0 || f.resources.get(out.ID) != nil {
		t.Fatal("resource or files left behind")
	}
}
