package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"sharehope/internal/utils"
	"sharehope/pkg/dto"
	"sharehope/pkg/types"
)

func newPostFixture(t *testing.T) (*PostService, *fakePosts, *types.Category, *types.User) {
	t.Helper()

	categories := newFakeCategories()
	users := newFakeUsers()
	posts := newFakePosts()

	category := &types.Category{Name: "공지사항", Slug: "notice", Type: types.CategoryTypeNotice, IsActive: true}
	categories.insert(category)

	author := &types.User{Email: "pastor@example.org", Name: utils.StringPtr("김목사"), Role: types.UserRoleAdmin}
	users.insert(author)

	return NewPostService(testLogger(), posts, categories, users), posts, category, author
}

func TestCreatePublishedPostStampsPublishedAt(t *testing.T) {
	svc, _, category, author := newPostFixture(t)

	out, err := svc.Create(context.Background(), dto.CreatePostRequest{
		CategoryID: category.ID,
		UserID:     author.ID,
		Title:      "부활절 예배 안내",
		Content:    "본문",
		Status:     types.PostStatusPublished,
		IsNotice:   true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if out.PublishedAt == nil || !out.PublishedAt.Equal(fixedNow) {
		t.Fatalf("publishedAt not stamped: %v", out.PublishedAt)
	}
	if out.Category == nil || out.Category.Slug != "notice" {
		t.Fatalf("category not attached: %+v", out.Category)
	}
	if out.AttachmentURLs == nil {
		t.Fatal("attachments should encode as an empty list")
	}
}

func TestCreateDraftPostLeavesPublishedAtEmpty(t *testing.T) {
	svc, _, category, author := newPostFixture(t)

	out, err := svc.Create(context.Background(), dto.CreatePostRequest{CategoryID: category.ID, UserID: author.ID, Title: "초안", Content: "본문"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Status != types.PostStatusDraft || out.PublishedAt != nil {
		t.Fatalf("unexpected draft: %+v", out)
	}
}

func TestCreatePostReferences(t *testing.T) {
	svc, _, category, author := newPostFixture(t)

	tests := []struct {
		name  string
		req   dto.CreatePostRequest
		field string
	}{
		{"missing category", dto.CreatePostRequest{CategoryID: 404, UserID: author.ID, Title: "t", Content: "c"}, "categoryId"},
		{"missing author", dto.CreatePostRequest{CategoryID: category.ID, Title: "t", Content: "c"}, "userId"},
		{"missing title", dto.CreatePostRequest{CategoryID: category.ID, UserID: author.ID, Content: "c"}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			if !errors.Is(err, types.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if e, _ := types.AsError(err); e.Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, e.Field)
			}
		})
	}
}

func TestRecordViewConcurrent(t *testing.T) {
	svc, posts, category, author := newPostFixture(t)
	ctx := context.Background()

	out, err := svc.Create(ctx, dto.CreatePostRequest{CategoryID: category.ID, UserID: author.ID, Title: "t", Content: "c", Status: types.PostStatusPublished})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const views = 50

	var wg sync.WaitGroup
	for i := 0; i < views; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.RecordView(ctx, out.ID); err != nil {
				t.Errorf("RecordView: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := posts.get(out.ID).ViewCount; got != views {
		t.Fatalf("expected %d views, got %d", views, got)
	}

	got, err := svc.Get(ctx, out.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ViewCount != views {
		t.Fatalf("Get should not count a view, got %d", got.ViewCount)
	}
	if got.Author == nil || got.Author.Name == nil || *got.Author.Name != "김목사" {
		t.Fatalf("author not attached: %+v", got.Author)
	}
}

func TestRecordViewSkipsDrafts(t *testing.T) {
	svc, posts, category, author := newPostFixture(t)

	out, err := svc.Create(context.Background(), dto.CreatePostRequest{CategoryID: category.ID, UserID: author.ID, Title: "초안", Content: "본문"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.RecordView(context.Background(), out.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected draft to read as missing, got %v", err)
	}
	if got := posts.get(out.ID).ViewCount; got != 0 {
		t.Fatalf("draft view counted: %d", got)
	}
}

func TestRecordViewMissingPost(t *testing.T) {
	svc, _, _, _ := newPostFixture(t)

	if err := svc.RecordView(context.Background(), 77); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
