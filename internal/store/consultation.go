package store

import (
	"context"
	"fmt"

	"sharehope/internal/db"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const (
	consultationTableName         = "consultations"
	consultationResponseTableName = "consultation_responses"
	consultationFollowupTableName = "consultation_followups"
)

type ConsultationRepository struct {
	table[types.Consultation]
}

func NewConsultationRepository(d *db.DB) *ConsultationRepository {
	return &ConsultationRepository{table: newTable[types.Consultation](d, consultationTableName, "consultation")}
}

func (r *ConsultationRepository) Consultation(ctx context.Context, id int64) (*types.Consultation, error) {
	return r.byID(ctx, id)
}

// ConsultationForUpdate holds the row lock until the surrounding
// transaction ends.
func (r *ConsultationRepository) ConsultationForUpdate(ctx context.Context, id int64) (*types.Consultation, error) {
	return r.lockByID(ctx, id)
}

// TransitionConsultation moves status to `to` only while the row is still in
// one of from. It reports whether the row changed.
func (r *ConsultationRepository) TransitionConsultation(ctx context.Context, id int64, to types.ConsultationStatus, from ...types.ConsultationStatus) (bool, error) {
	query := r.db.Builder().
		Update(r.name).
		Set("status", to).
		Set("updated_at", now()).
		Where(sq.Eq{"id": id, "status": from})

	n, err := r.db.Exec(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to transition consultation status: %w", err)
	}

	return n > 0, nil
}

func (r *ConsultationRepository) Consultations(ctx context.Context, filter types.ConsultationFilter, page types.PageRequest) (*types.Page[types.Consultation], error) {
	var conds sq.And
	if filter.Status != "" {
		conds = append(conds, sq.Eq{"status": filter.Status})
	}
	if filter.ConsultationType != "" {
		conds = append(conds, sq.Eq{"consultation_type": filter.ConsultationType})
	}
	if filter.InquiryCategory != "" {
		conds = append(conds, sq.Eq{"inquiry_category": filter.InquiryCategory})
	}
	if filter.AssignedTo != nil {
		conds = append(conds, sq.Eq{"assigned_to": *filter.AssignedTo})
	}
	if filter.UserID != nil {
		conds = append(conds, sq.Eq{"user_id": *filter.UserID})
	}
	if filter.Search != "" {
		conds = append(conds, r.db.Dialect().Contains(filter.Search, "title", "content", "name"))
	}
	conds = append(conds, dateRange("created_at", filter.DateRange)...)

	return r.page(ctx, whereAll(conds), page, "created_at DESC", "id DESC")
}

func (r *ConsultationRepository) CreateConsultation(ctx context.Context, consultation *types.Consultation) error {
	ts := now()
	consultation.CreatedAt = ts
	consultation.UpdatedAt = ts

	id, err := r.insert(ctx, consultation)
	if err != nil {
		return err
	}

	consultation.ID = id
	return nil
}

func (r *ConsultationRepository) UpdateConsultation(ctx context.Context, consultation *types.Consultation) error {
	consultation.UpdatedAt = now()
	return r.update(ctx, consultation.ID, consultation)
}

func (r *ConsultationRepository) SaveConsultation(ctx context.Context, consultation *types.Consultation) error {
	if consultation.ID == 0 {
		return r.CreateConsultation(ctx, consultation)
	}
	return r.UpdateConsultation(ctx, consultation)
}

func (r *ConsultationRepository) DeleteConsultation(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

type ConsultationResponseRepository struct {
	table[types.ConsultationResponse]
}

func NewConsultationResponseRepository(d *db.DB) *ConsultationResponseRepository {
	return &ConsultationResponseRepository{
		table: newTable[types.ConsultationResponse](d, consultationResponseTableName, "consultation response"),
	}
}

func (r *ConsultationResponseRepository) Response(ctx context.Context, id int64) (*types.ConsultationResponse, error) {
	return r.byID(ctx, id)
}

// ResponsesByConsultation returns the thread oldest first.
func (r *ConsultationResponseRepository) ResponsesByConsultation(ctx context.Context, consultationID int64, publicOnly bool) ([]*types.ConsultationResponse, error) {
	conds := sq.And{sq.Eq{"consultation_id": consultationID}}
	if publicOnly {
		conds = append(conds, sq.Eq{"is_public": true})
	}
	return r.list(ctx, conds, "created_at ASC", "id ASC")
}

func (r *ConsultationResponseRepository) CreateResponse(ctx context.Context, response *types.ConsultationResponse) error {
	response.CreatedAt = now()

	id, err := r.insert(ctx, response)
	if err != nil {
		return err
	}

	response.ID = id
	return nil
}

func (r *ConsultationResponseRepository) DeleteResponse(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

type ConsultationFollowupRepository struct {
	table[types.ConsultationFollowup]
}

func NewConsultationFollowupRepository(d *db.DB) *ConsultationFollowupRepository {
	return &ConsultationFollowupRepository{
		table: newTable[types.ConsultationFollowup](d, consultationFollowupTableName, "consultation followup"),
	}
}

func (r *ConsultationFollowupRepository) Followup(ctx context.Context, id int64) (*types.ConsultationFollowup, error) {
	return r.byID(ctx, id)
}

func (r *ConsultationFollowupRepository) FollowupsByConsultation(ctx context.Context, consultationID int64) ([]*types.ConsultationFollowup, error) {
	return r.list(ctx, sq.Eq{"original_consultation_id": consultationID}, "followup_order ASC", "id ASC")
}

// NextFollowupOrder returns one past the highest order recorded for the
// consultation, starting at 1.
func (r *ConsultationFollowupRepository) NextFollowupOrder(ctx context.Context, consultationID int64) (int, error) {
	query := r.db.Builder().
		Select("COALESCE(MAX(followup_order), 0) + 1").
		From(r.name).
		Where(sq.Eq{"original_consultation_id": consultationID})

	var next int
	if err := r.db.Scalar(ctx, &next, query); err != nil {
		return 0, fmt.Errorf("failed to compute next followup order: %w", err)
	}

	return next, nil
}

func (r *ConsultationFollowupRepository) CreateFollowup(ctx context.Context, followup *types.ConsultationFollowup) error {
	ts := now()
	followup.CreatedAt = ts
	followup.UpdatedAt = ts

	id, err := r.insert(ctx, followup)
	if err != nil {
		return err
	}

	followup.ID = id
	return nil
}

func (r *ConsultationFollowupRepository) UpdateFollowup(ctx context.Context, followup *types.ConsultationFollowup) error {
	followup.UpdatedAt = now()
	return r.update(ctx, followup.ID, followup)
}

func (r *ConsultationFollowupRepository) SaveFollowup(ctx context.Context, followup *types.ConsultationFollowup) error {
	if followup.ID == 0 {
		return r.CreateFollowup(ctx, followup)
	}
	return r.UpdateFollowup(ctx, followup)
}

func (r *ConsultationFollowupRepository) DeleteFollowup(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}
