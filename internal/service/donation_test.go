package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sharehope/internal/utils"
	"sharehope/pkg/dto"
	"sharehope/pkg/types"
)

func newDonationFixture() (*DonationService, *fakeTx, *fakeSponsors, *fakeDonations) {
	tx := &fakeTx{}
	sponsors := newFakeSponsors()
	donations := newFakeDonations()
	return NewDonationService(testLogger(), tx, sponsors, donations), tx, sponsors, donations
}

func cmsApplication() dto.ApplyDonationRequest {
	day := 10
	return dto.ApplyDonationRequest{
		Sponsor: dto.SponsorRequest{
			Name:          "이후원",
			Phone:         "010-9876-5432",
			PrivacyAgreed: true,
		},
		Donation: dto.DonationRequest{
			DonationType:  types.DonationTypeRegular,
			PaymentMethod: types.PaymentMethodCMS,
			Amount:        30000,
			BankName:      utils.StringPtr("국민은행"),
			AccountNumber: utils.StringPtr("110-123-456789"),
			AccountHolder: utils.StringPtr("이후원"),
			WithdrawalDay: &day,
		},
	}
}

func TestApplyCMSDonation(t *testing.T) {
	svc, tx, sponsors, donations := newDonationFixture()

	out, err := svc.Apply(context.Background(), cmsApplication())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if tx.calls != 1 {
		t.Fatalf("expected one transaction, got %d", tx.calls)
	}

	stored := donations.get(out.ID)
	if stored == nil || stored.SponsorID == 0 || sponsors.get(stored.SponsorID) == nil {
		t.Fatalf("donation not linked to its sponsor: %+v", stored)
	}
	if stored.Status != types.DonationStatusPending {
		t.Fatalf("expected pending, got %s", stored.Status)
	}

	if out.AccountNumber == nil || *out.AccountNumber != "**********6789" {
		t.Fatalf("account number not masked: %v", out.AccountNumber)
	}

	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if out.NextDebitDate == nil || !out.NextDebitDate.Equal(want) {
		t.Fatalf("expected next debit %v, got %v", want, out.NextDebitDate)
	}

	if out.Sponsor == nil || out.Sponsor.SponsorType != types.SponsorTypeIndividual {
		t.Fatalf("sponsor not attached with default type: %+v", out.Sponsor)
	}
}

func TestApplyDonationValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.ApplyDonationRequest)
		field  string
	}{
		{"cms one time", func(r *dto.ApplyDonationRequest) { r.Donation.DonationType = types.DonationTypeOneTime }, "paymentMethod"},
		{"cms without bank", func(r *dto.ApplyDonationRequest) { r.Donation.BankName = nil }, "bankName"},
		{"cms without account", func(r *dto.ApplyDonationRequest) { r.Donation.AccountNumber = utils.StringPtr("  ") }, "accountNumber"},
		{"cms bad withdrawal day", func(r *dto.ApplyDonationRequest) { r.Donation.WithdrawalDay = utils.Ptr(3) }, "withdrawalDay"},
		{"zero amount", func(r *dto.ApplyDonationRequest) { r.Donation.Amount = 0 }, "amount"},
		{"privacy not agreed", func(r *dto.ApplyDonationRequest) { r.Sponsor.PrivacyAgreed = false }, "privacyAgreed"},
		{"organization without name", func(r *dto.ApplyDonationRequest) { r.Sponsor.SponsorType = types.SponsorTypeOrganization }, "organizationName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, tx, sponsors, _ := newDonationFixture()

			req := cmsApplication()
			tt.mutate(&req)

			_, err := svc.Apply(context.Background(), req)
			if !errors.Is(err, types.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if e, _ := types.AsError(err); e.Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, e.Field)
			}

			if tx.calls != 0 || len(sponsors.all(nil)) != 0 {
				t.Fatal("invalid application reached the database")
			}
		})
	}
}

func TestApplyDonationBankTransfer(t *testing.T) {
	svc, _, _, _ := newDonationFixture()

	req := dto.ApplyDonationRequest{
		Sponsor:  dto.SponsorRequest{Name: "박교회", Phone: "02-123-4567", PrivacyAgreed: true},
		Donation: dto.DonationRequest{DonationType: types.DonationTypeOneTime, PaymentMethod: types.PaymentMethodBankTransfer, Amount: 100000},
	}

	out, err := svc.Apply(context.Background(), req)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.NextDebitDate != nil {
		t.Fatalf("bank transfer should have no debit date, got %v", out.NextDebitDate)
	}
}

func TestApplyDonationPropagatesFailure(t *testing.T) {
	svc, tx, _, donations := newDonationFixture()
	donations.createErr = types.Unavailable(errors.New("connection reset"))

	_, err := svc.Apply(context.Background(), cmsApplication())
	if !errors.Is(err, types.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected the failure inside the transaction, got %d calls", tx.calls)
	}
}

func TestUpdateDonationStatusStampsPaidAt(t *testing.T) {
	svc, _, _, _ := newDonationFixture()
	ctx := context.Background()

	applied, err := svc.Apply(ctx, cmsApplication())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	out, err := svc.UpdateStatus(ctx, applied.ID, dto.UpdateDonationStatusRequest{Status: types.DonationStatusCompleted})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if out.PaidAt == nil || !out.PaidAt.Equal(fixedNow) {
		t.Fatalf("paidAt not stamped: %v", out.PaidAt)
	}
	if out.NextDebitDate != nil {
		t.Fatal("completed donation should have no next debit date")
	}

	if _, err := svc.UpdateStatus(ctx, applied.ID, dto.UpdateDonationStatusRequest{Status: "refunded"}); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	next, err := svc.NextDebitDate(ctx, applied.ID, fixedNow)
	if err != nil || next != nil {
		t.Fatalf("expected no debit date for completed donation, got %v, %v", next, err)
	}
}

func TestGetSponsorWithDonations(t *testing.T) {
	svc, _, _, _ := newDonationFixture()
	ctx := context.Background()

	applied, err := svc.Apply(ctx, cmsApplication())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	sponsor, err := svc.GetSponsor(ctx, applied.SponsorID)
	if err != nil {
		t.Fatalf("GetSponsor: %v", err)
	}
	if len(sponsor.Donations) != 1 || sponsor.Donations[0].ID != applied.ID {
		t.Fatalf("unexpected donations: %+v", sponsor.Donations)
	}

	if _, err := svc.GetSponsor(ctx, 404); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
