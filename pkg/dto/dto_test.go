package dto

import (
	"testing"
	"time"

	"sharehope/internal/utils"
	"sharehope/pkg/types"
)

func TestMasking(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"name korean", MaskName, "홍길동", "홍**"},
		{"name single", MaskName, "김", "김"},
		{"name blank", MaskName, "  ", ""},
		{"phone dashed", MaskPhone, "010-1234-5678", "***-****-5678"},
		{"phone short", MaskPhone, "1234", "1234"},
		{"account", func(s string) string { return MaskTail(s, 4) }, "110234567890", "********7890"},
		{"account short", func(s string) string { return MaskTail(s, 4) }, "123", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPublicConsultationHidesPrivateFields(t *testing.T) {
	admin := int64(3)
	c := &types.Consultation{
		ID:                1,
		UserID:            utils.Ptr(int64(9)),
		Name:              "홍길동",
		Phone:             "010-1234-5678",
		Email:             utils.Ptr("hong@example.org"),
		Title:             "상담 요청",
		Status:            types.ConsultationStatusAssigned,
		AssignedTo:        &admin,
		ConsultationNotes: utils.Ptr("internal"),
	}

	out := NewPublicConsultationResponse(c)
	if out.Name != "홍**" {
		t.Fatalf("name not masked: %q", out.Name)
	}
	if out.Phone == nil || *out.Phone != "***-****-5678" {
		t.Fatalf("phone not masked: %v", out.Phone)
	}
	if out.Email != nil || out.UserID != nil || out.AssignedTo != nil || out.ConsultationNotes != nil {
		t.Fatalf("private fields leaked: %+v", out)
	}

	c.NamePublic, c.PhonePublic, c.EmailPublic = true, true, true
	out = NewPublicConsultationResponse(c)
	if out.Name != "홍길동" || *out.Phone != "010-1234-5678" || out.Email == nil {
		t.Fatalf("public fields were masked: %+v", out)
	}
}

func TestDonationResponseMasksAccount(t *testing.T) {
	d := &types.Donation{ID: 1, AccountNumber: utils.Ptr("110-234-567890")}

	out := NewDonationResponse(d)
	if out.AccountNumber == nil || *out.AccountNumber != "**********7890" {
		t.Fatalf("unexpected account number %v", out.AccountNumber)
	}
	if *d.AccountNumber != "110-234-567890" {
		t.Fatal("model was modified")
	}

	if NewDonationResponse(&types.Donation{}).AccountNumber != nil {
		t.Fatal("expected nil account number")
	}
}

func TestCategoryTree(t *testing.T) {
	root := &types.Category{ID: 1, Name: "게시판"}
	notice := &types.Category{ID: 2, Name: "공지사항", ParentID: utils.Ptr(int64(1))}
	news := &types.Category{ID: 3, Name: "소식", ParentID: utils.Ptr(int64(1))}
	orphan := &types.Category{ID: 4, Name: "고아", ParentID: utils.Ptr(int64(99))}

	tree := CategoryTree([]*types.Category{root, notice, news, orphan})
	if len(tree) != 2 || tree[0].ID != 1 || tree[1].ID != 4 {
		t.Fatalf("unexpected roots: %+v", tree)
	}
	if len(tree[0].Children) != 2 || tree[0].Children[0].ID != 2 || tree[0].Children[1].ID != 3 {
		t.Fatalf("unexpected children: %+v", tree[0].Children)
	}
}

func TestMenuTreeSelfParentIsRoot(t *testing.T) {
	self := &types.Menu{ID: 5, Title: "loop", ParentID: utils.Ptr(int64(5))}

	tree := MenuTree([]*types.Menu{self})
	if len(tree) != 1 || len(tree[0].Children) != 0 {
		t.Fatalf("unexpected tree: %+v", tree)
	}
}

func TestUpdateCategoryClearsParent(t *testing.T) {
	c := &types.Category{ID: 2, ParentID: utils.Ptr(int64(1)), Name: "공지사항"}

	UpdateCategoryRequest{ParentID: utils.Ptr(int64(0))}.Apply(c)
	if c.ParentID != nil {
		t.Fatalf("parent not cleared: %v", *c.ParentID)
	}
	if c.Name != "공지사항" {
		t.Fatalf("unset field changed: %q", c.Name)
	}
}

func TestProfileAgreementTimestamps(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)
	p := &types.UserProfile{PrivacyAgreedAt: &earlier}

	ProfileRequest{PrivacyAgreed: utils.Ptr(true), MarketingAgreed: utils.Ptr(true)}.Apply(p, now)
	if !p.PrivacyAgreedAt.Equal(earlier) {
		t.Fatalf("existing agreement overwritten: %v", p.PrivacyAgreedAt)
	}
	if p.MarketingAgreedAt == nil || !p.MarketingAgreedAt.Equal(now) {
		t.Fatalf("marketing agreement not stamped: %v", p.MarketingAgreedAt)
	}

	ProfileRequest{MarketingAgreed: utils.Ptr(false)}.Apply(p, now)
	if p.MarketingAgreedAt != nil {
		t.Fatal("withdrawn agreement kept")
	}
}

func TestResourceTypesDeduplicated(t *testing.T) {
	res := CreateResourceRequest{
		Title:         " 주보 ",
		ResourceTypes: []types.ResourceType{types.ResourceTypeDocument, types.ResourceTypeDocument, types.ResourceTypeImage},
	}.ToModel()

	if res.Title != "주보" || len(res.ResourceTypes) != 2 || !res.IsPublished {
		t.Fatalf("unexpected resource: %+v", res)
	}
}
