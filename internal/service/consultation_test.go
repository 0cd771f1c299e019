package service

import (
	"context"
	"errors"
	"testing"

	"sharehope/internal/utils"
	"sharehope/pkg/dto"
	"sharehope/pkg/types"
)

type consultationFixture struct {
	svc           *ConsultationService
	tx            *fakeTx
	consultations *fakeConsultations
	responses     *fakeResponses
	followups     *fakeFollowups
	users         *fakeUsers
}

func newConsultationFixture() *consultationFixture {
	f := &consultationFixture{
		tx:            &fakeTx{},
		consultations: newFakeConsultations(),
		responses:     newFakeResponses(),
		followups:     newFakeFollowups(),
		users:         newFakeUsers(),
	}
	f.svc = NewConsultationService(testLogger(), f.tx, f.consultations, f.responses, f.followups, f.users)
	return f
}

func validSubmission() dto.SubmitConsultationRequest {
	return dto.SubmitConsultationRequest{
		Name:            "홍길동",
		Phone:           "010-1234-5678",
		InquiryCategory: types.InquiryCategoryFaith,
		Content:         "신앙 상담을 받고 싶습니다.\n자세한 내용은 통화로 말씀드리겠습니다.",
		PrivacyAgreed:   true,
	}
}

func TestSubmitConsultationDefaults(t *testing.T) {
	f := newConsultationFixture()

	out, err := f.svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if out.Status != types.ConsultationStatusPending {
		t.Fatalf("expected pending, got %s", out.Status)
	}
	if out.Title != "신앙 상담을 받고 싶습니다." {
		t.Fatalf("unexpected derived title %q", out.Title)
	}
	if out.Name != "홍**" || *out.Phone != "***-****-5678" {
		t.Fatalf("contact details not masked: %q %q", out.Name, *out.Phone)
	}

	stored := f.consultations.get(out.ID)
	if stored.InquiryChannel != types.InquiryChannelWebsite || stored.ConsultationType != types.ConsultationTypeOnline {
		t.Fatalf("defaults not applied: %+v", stored)
	}

	if len(out.AccessToken) != utils.ConsultationTokenSize || out.AccessToken != stored.AccessToken {
		t.Fatalf("access token not issued: %q stored %q", out.AccessToken, stored.AccessToken)
	}
}

func TestGetPublicRequiresAccessToken(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := f.svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if first.AccessToken == second.AccessToken {
		t.Fatal("consultations share an access token")
	}

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"token of another consultation", second.AccessToken},
		{"truncated token", first.AccessToken[:10]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.GetPublic(ctx, first.ID, tt.token)
			if !errors.Is(err, types.ErrNotFound) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}

	out, err := f.svc.GetPublic(ctx, first.ID, first.AccessToken)
	if err != nil {
		t.Fatalf("GetPublic: %v", err)
	}
	if out.AccessToken != "" || out.Email != nil {
		t.Fatalf("public view leaks private fields: %+v", out)
	}
}

func TestSubmitConsultationValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.SubmitConsultationRequest)
		field  string
	}{
		{"privacy not agreed", func(r *dto.SubmitConsultationRequest) { r.PrivacyAgreed = false }, "privacyAgreed"},
		{"blank name", func(r *dto.SubmitConsultationRequest) { r.Name = "  " }, "name"},
		{"missing phone", func(r *dto.SubmitConsultationRequest) { r.Phone = "" }, "phone"},
		{"missing content", func(r *dto.SubmitConsultationRequest) { r.Content = "" }, "content"},
		{"unknown category", func(r *dto.SubmitConsultationRequest) { r.InquiryCategory = "gossip" }, "inquiryCategory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConsultationFixture()

			req := validSubmission()
			tt.mutate(&req)

			_, err := f.svc.Submit(context.Background(), req)
			if !errors.Is(err, types.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}

			e, _ := types.AsError(err)
			if e.Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, e.Field)
			}

			if len(f.consultations.all(nil)) != 0 {
				t.Fatal("invalid consultation was stored")
			}
		})
	}
}

func TestCompletedConsultationIsClosed(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	completed := types.ConsultationStatusCompleted
	out, err := f.svc.Patch(ctx, submitted.ID, dto.PatchConsultationRequest{
		Status:            &completed,
		ConsultationNotes: utils.StringPtr("전화로 상담 완료"),
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}

	if out.CompletedAt == nil || !out.CompletedAt.Equal(fixedNow) {
		t.Fatalf("completedAt not stamped: %v", out.CompletedAt)
	}
	if out.ConsultationNotes == nil || *out.ConsultationNotes != "전화로 상담 완료" {
		t.Fatalf("notes not saved: %v", out.ConsultationNotes)
	}

	_, err = f.svc.AddResponse(ctx, submitted.ID, dto.AddResponseRequest{ResponseType: types.ResponseTypeAnswer, Content: "추가 답변"})
	if !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected response on completed consultation to be rejected, got %v", err)
	}

	_, err = f.svc.ScheduleFollowup(ctx, submitted.ID, dto.ScheduleFollowupRequest{})
	if !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected followup on completed consultation to be rejected, got %v", err)
	}

	pending := types.ConsultationStatusPending
	_, err = f.svc.Patch(ctx, submitted.ID, dto.PatchConsultationRequest{Status: &pending})
	if !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected reopening to be rejected, got %v", err)
	}

	if len(f.responses.all(nil)) != 0 || len(f.followups.all(nil)) != 0 {
		t.Fatal("rejected children were stored")
	}
}

func TestAnswerMovesConsultationInProgress(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := f.svc.AddResponse(ctx, submitted.ID, dto.AddResponseRequest{ResponseType: types.ResponseTypeFollowupQuestion, Content: "연락 가능한 시간이 언제인가요?"}); err != nil {
		t.Fatalf("AddResponse question: %v", err)
	}
	if got := f.consultations.get(submitted.ID).Status; got != types.ConsultationStatusPending {
		t.Fatalf("question should not change status, got %s", got)
	}

	if _, err := f.svc.AddResponse(ctx, submitted.ID, dto.AddResponseRequest{ResponseType: types.ResponseTypeAnswer, Content: "답변드립니다.", IsPublic: true}); err != nil {
		t.Fatalf("AddResponse answer: %v", err)
	}
	if got := f.consultations.get(submitted.ID).Status; got != types.ConsultationStatusInProgress {
		t.Fatalf("expected in_progress, got %s", got)
	}

	if f.tx.calls != 2 {
		t.Fatalf("expected each response in its own transaction, got %d", f.tx.calls)
	}

	public, err := f.svc.GetPublic(ctx, submitted.ID, submitted.AccessToken)
	if err != nil {
		t.Fatalf("GetPublic: %v", err)
	}
	if len(public.Responses) != 1 || public.Responses[0].ResponderID != nil {
		t.Fatalf("public view should only carry the public answer: %+v", public.Responses)
	}

	admin, err := f.svc.Get(ctx, submitted.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(admin.Responses) != 2 {
		t.Fatalf("admin view should carry every response, got %d", len(admin.Responses))
	}
}

func TestAnswerDoesNotReopenConcurrentlyCancelledConsultation(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	cancelled := types.ConsultationStatusCancelled
	f.responses.beforeCreate = func(ctx context.Context) {
		f.responses.beforeCreate = nil
		if _, err := f.svc.Patch(ctx, submitted.ID, dto.PatchConsultationRequest{
			Status:            &cancelled,
			ConsultationNotes: utils.StringPtr("신청자 요청으로 취소"),
		}); err != nil {
			t.Errorf("Patch: %v", err)
		}
	}

	if _, err := f.svc.AddResponse(ctx, submitted.ID, dto.AddResponseRequest{ResponseType: types.ResponseTypeAnswer, Content: "답변드립니다."}); err != nil {
		t.Fatalf("AddResponse: %v", err)
	}

	stored := f.consultations.get(submitted.ID)
	if stored.Status != types.ConsultationStatusCancelled {
		t.Fatalf("cancelled consultation moved to %s", stored.Status)
	}
	if stored.ConsultationNotes == nil || *stored.ConsultationNotes != "신청자 요청으로 취소" {
		t.Fatalf("notes overwritten: %v", stored.ConsultationNotes)
	}
	if f.consultations.updates != 1 {
		t.Fatalf("answer rewrote the consultation row, %d full updates", f.consultations.updates)
	}
}

func TestPatchLocksConsultation(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := f.svc.Patch(ctx, submitted.ID, dto.PatchConsultationRequest{ConsultationNotes: utils.StringPtr("메모")}); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	if f.tx.calls != 1 || f.consultations.locks != 1 {
		t.Fatalf("expected one locked read in one transaction, got %d tx %d locks", f.tx.calls, f.consultations.locks)
	}
}

func TestTerminalConsultationOnlyAcceptsNotes(t *testing.T) {
	admin := &types.User{Email: "admin@example.org", Name: utils.StringPtr("admin"), Role: types.UserRoleAdmin}
	category := types.InquiryCategoryFamily
	kind := types.ConsultationTypePhone

	tests := []struct {
		name string
		req  func(adminID int64) dto.PatchConsultationRequest
	}{
		{"assignee", func(id int64) dto.PatchConsultationRequest { return dto.PatchConsultationRequest{AssignedTo: &id} }},
		{"inquiry category", func(int64) dto.PatchConsultationRequest { return dto.PatchConsultationRequest{InquiryCategory: &category} }},
		{"consultation type", func(int64) dto.PatchConsultationRequest { return dto.PatchConsultationRequest{ConsultationType: &kind} }},
	}

	for _, status := range []types.ConsultationStatus{types.ConsultationStatusCompleted, types.ConsultationStatusCancelled} {
		for _, tt := range tests {
			t.Run(string(status)+"/"+tt.name, func(t *testing.T) {
				f := newConsultationFixture()
				ctx := context.Background()
				f.users.insert(admin)

				submitted, err := f.svc.Submit(ctx, validSubmission())
				if err != nil {
					t.Fatalf("Submit: %v", err)
				}

				terminal := status
				if _, err := f.svc.Patch(ctx, submitted.ID, dto.PatchConsultationRequest{Status: &terminal}); err != nil {
					t.Fatalf("Patch status: %v", err)
				}
				before := *f.consultations.get(submitted.ID)

				_, err = f.svc.Patch(ctx, submitted.ID, tt.req(admin.ID))
				var typed *types.Error
				if !errors.As(err, &typed) || typed.Kind != types.ErrValidation || typed.Field != "status" {
					t.Fatalf("expected status validation error, got %v", err)
				}

				after := *f.consultations.get(submitted.ID)
				if after.InquiryCategory != before.InquiryCategory || after.ConsultationType != before.ConsultationType || after.AssignedTo != nil {
					t.Fatalf("terminal consultation changed: %+v", after)
				}

				out, err := f.svc.Patch(ctx, submitted.ID, dto.PatchConsultationRequest{ConsultationNotes: utils.StringPtr("사후 메모")})
				if err != nil {
					t.Fatalf("notes on %s consultation: %v", status, err)
				}
				if out.ConsultationNotes == nil || *out.ConsultationNotes != "사후 메모" {
					t.Fatalf("notes not saved: %v", out.ConsultationNotes)
				}
			})
		}
	}
}

func TestAssignRequiresAdministrator(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()

	member := &types.User{Email: "member@example.org", Name: utils.StringPtr("member"), Role: types.UserRoleUser}
	admin := &types.User{Email: "admin@example.org", Name: utils.StringPtr("admin"), Role: types.UserRoleAdmin}
	f.users.insert(member)
	f.users.insert(admin)

	submitted, err := f.svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := f.svc.Assign(ctx, submitted.ID, member.ID); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected non-admin assignment to fail, got %v", err)
	}
	if _, err := f.svc.Assign(ctx, submitted.ID, 999); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected unknown assignee to fail, got %v", err)
	}

	out, err := f.svc.Assign(ctx, submitted.ID, admin.ID)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if out.Status != types.ConsultationStatusAssigned || out.AssignedTo == nil || *out.AssignedTo != admin.ID {
		t.Fatalf("unexpected assignment: %+v", out)
	}
}

func TestFollowupsAreNumberedAndCompleted(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()

	submitted, err := f.svc.Submit(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	first, err := f.svc.ScheduleFollowup(ctx, submitted.ID, dto.ScheduleFollowupRequest{})
	if err != nil {
		t.Fatalf("ScheduleFollowup: %v", err)
	}
	second, err := f.svc.ScheduleFollowup(ctx, submitted.ID, dto.ScheduleFollowupRequest{})
	if err != nil {
		t.Fatalf("ScheduleFollowup: %v", err)
	}
	if first.FollowupOrder != 1 || second.FollowupOrder != 2 {
		t.Fatalf("unexpected order: %d, %d", first.FollowupOrder, second.FollowupOrder)
	}

	done := types.FollowupStatusCompleted
	updated, err := f.svc.UpdateFollowup(ctx, submitted.ID, first.ID, dto.UpdateFollowupRequest{Status: &done})
	if err != nil {
		t.Fatalf("UpdateFollowup: %v", err)
	}
	if updated.MetAt == nil || !updated.MetAt.Equal(fixedNow) {
		t.Fatalf("metAt not stamped: %v", updated.MetAt)
	}

	if err := f.svc.DeleteFollowup(ctx, submitted.ID+1, second.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected followup of another consultation to be not found, got %v", err)
	}
}

func TestGetMissingConsultation(t *testing.T) {
	f := newConsultationFixture()

	_, err := f.svc.Get(context.Background(), 42)
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = f.svc.Get(context.Background(), 0)
	if !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected invalid id, got %v", err)
	}
}

func TestHeadline(t *testing.T) {
	tests := []struct {
		content string
		max     int
		want    string
	}{
		{"  short  ", 10, "short"},
		{"첫 줄\n둘째 줄", 10, "첫 줄"},
		{"가나다라마바사", 3, "가나다"},
		{"", 5, ""},
	}

	for _, tt := range tests {
		if got := headline(tt.content, tt.max); got != tt.want {
			t.Errorf("headline(%q, %d) = %q, want %q", tt.content, tt.max, got, tt.want)
		}
	}
}
