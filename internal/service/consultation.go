package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"sharehope/internal/utils"
	"sharehope/pkg/dto"
	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
)

type ConsultationRepository interface {
	Consultation(ctx context.Context, id int64) (*types.Consultation, error)
	ConsultationForUpdate(ctx context.Context, id int64) (*types.Consultation, error)
	Consultations(ctx context.Context, filter types.ConsultationFilter, page types.PageRequest) (*types.Page[types.Consultation], error)
	CreateConsultation(ctx context.Context, consultation *types.Consultation) error
	UpdateConsultation(ctx context.Context, consultation *types.Consultation) error
	TransitionConsultation(ctx context.Context, id int64, to types.ConsultationStatus, from ...types.ConsultationStatus) (bool, error)
	DeleteConsultation(ctx context.Context, id int64) error
}

type ConsultationResponseRepository interface {
	Response(ctx context.Context, id int64) (*types.ConsultationResponse, error)
	ResponsesByConsultation(ctx context.Context, consultationID int64, publicOnly bool) ([]*types.ConsultationResponse, error)
	CreateResponse(ctx context.Context, response *types.ConsultationResponse) error
	DeleteResponse(ctx context.Context, id int64) error
}

type ConsultationFollowupRepository interface {
	Followup(ctx context.Context, id int64) (*types.ConsultationFollowup, error)
	FollowupsByConsultation(ctx context.Context, consultationID int64) ([]*types.ConsultationFollowup, error)
	NextFollowupOrder(ctx context.Context, consultationID int64) (int, error)
	CreateFollowup(ctx context.Context, followup *types.ConsultationFollowup) error
	UpdateFollowup(ctx context.Context, followup *types.ConsultationFollowup) error
	DeleteFollowup(ctx context.Context, id int64) error
}

type ConsultationService struct {
	logger        logrus.FieldLogger
	tx            Transactor
	consultations ConsultationRepository
	responses     ConsultationResponseRepository
	followups     ConsultationFollowupRepository
	users         UserLookup
}

func NewConsultationService(
	logger logrus.FieldLogger,
	tx Transactor,
	consultations ConsultationRepository,
	responses ConsultationResponseRepository,
	followups ConsultationFollowupRepository,
	users UserLookup,
) *ConsultationService {
	return &ConsultationService{
		logger:        logger,
		tx:            tx,
		consultations: consultations,
		responses:     responses,
		followups:     followups,
		users:         users,
	}
}

const untitledLength = 50

func (s *ConsultationService) Submit(ctx context.Context, req dto.SubmitConsultationRequest) (*dto.ConsultationResponse, error) {
	consultation := req.ToModel()
	if consultation.Title == "" {
		consultation.Title = headline(consultation.Content, untitledLength)
	}

	if err := validateConsultation(consultation); err != nil {
		return nil, err
	}

	token, err := utils.Token(utils.ConsultationTokenSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate consultation access token: %w", err)
	}
	consultation.AccessToken = token

	if err := s.consultations.CreateConsultation(ctx, consultation); err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"consultation_id": consultation.ID,
		"category":        consultation.InquiryCategory,
	}).Info("consultation submitted")

	out := dto.NewPublicConsultationResponse(consultation)
	out.AccessToken = consultation.AccessToken

	return out, nil
}

// Get returns the admin view with the full response thread and follow-ups.
func (s *ConsultationService) Get(ctx context.Context, id int64) (*dto.ConsultationResponse, error) {
	consultation, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	out := dto.NewConsultationResponse(consultation)

	responses, err := s.responses.ResponsesByConsultation(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consultation responses: %w", err)
	}
	out.Responses = responseEntries(responses)

	followups, err := s.followups.FollowupsByConsultation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consultation followups: %w", err)
	}

	out.Followups = make([]*dto.FollowupEntry, 0, len(followups))
	for _, f := range followups {
		out.Followups = append(out.Followups, dto.NewFollowupEntry(f))
	}

	return out, nil
}

// GetPublic is the submitter's view. token must be the access token handed
// out by Submit; any other value reads as a missing consultation. Private
// contact fields are masked and only public responses are carried.
func (s *ConsultationService) GetPublic(ctx context.Context, id int64, token string) (*dto.ConsultationResponse, error) {
	consultation, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	if !tokenMatches(consultation.AccessToken, token) {
		return nil, types.NotFound("consultation", id)
	}

	out := dto.NewPublicConsultationResponse(consultation)

	responses, err := s.responses.ResponsesByConsultation(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consultation responses: %w", err)
	}
	out.Responses = responseEntries(responses)
	for _, r := range out.Responses {
		r.ResponderID = nil
	}

	return out, nil
}

func (s *ConsultationService) List(ctx context.Context, filter types.ConsultationFilter, page types.PageRequest) (*types.Page[dto.ConsultationResponse], error) {
	if err := filter.DateRange.Validate(); err != nil {
		return nil, err
	}

	consultations, err := s.consultations.Consultations(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}

	return types.MapPage(consultations, dto.NewConsultationResponse), nil
}

// Patch applies an admin update under a row lock. Status changes are checked
// by types.ValidateConsultationTransition and completion stamps completed_at.
// Once completed or cancelled only the notes may change.
func (s *ConsultationService) Patch(ctx context.Context, id int64, req dto.PatchConsultationRequest) (*dto.ConsultationResponse, error) {
	var (
		consultation *types.Consultation
		from         types.ConsultationStatus
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		consultation, err = s.lock(ctx, id)
		if err != nil {
			return err
		}

		from = consultation.Status
		if err := s.applyPatch(ctx, consultation, req); err != nil {
			return err
		}

		if err := s.consultations.UpdateConsultation(ctx, consultation); err != nil {
			return fmt.Errorf("failed to update consultation: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != consultation.Status {
		s.logger.WithFields(logrus.Fields{
			"consultation_id": consultation.ID,
			"from":            from,
			"to":              consultation.Status,
		}).Info("consultation status changed")
	}

	return dto.NewConsultationResponse(consultation), nil
}

func (s *ConsultationService) applyPatch(ctx context.Context, consultation *types.Consultation, req dto.PatchConsultationRequest) error {
	from := consultation.Status

	if from.Terminal() && (req.AssignedTo != nil || req.InquiryCategory != nil || req.ConsultationType != nil) {
		return types.Invalid("status", fmt.Sprintf("consultation is %s and only its notes can change", from))
	}

	if req.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *req.AssignedTo); err != nil {
			return err
		}
		consultation.AssignedTo = req.AssignedTo
		if req.Status == nil && from == types.ConsultationStatusPending {
			consultation.Status = types.ConsultationStatusAssigned
		}
	}

	if req.Status != nil {
		consultation.Status = *req.Status
	}

	if err := types.ValidateConsultationTransition(from, consultation.Status); err != nil {
		return err
	}

	if req.ConsultationNotes != nil {
		consultation.ConsultationNotes = utils.TrimmedPtr(req.ConsultationNotes)
	}

	if req.InquiryCategory != nil {
		if !req.InquiryCategory.Valid() {
			return types.Invalid("inquiryCategory", fmt.Sprintf("unknown inquiry category %q", *req.InquiryCategory))
		}
		consultation.InquiryCategory = *req.InquiryCategory
	}

	if req.ConsultationType != nil {
		if !req.ConsultationType.Valid() {
			return types.Invalid("consultationType", fmt.Sprintf("unknown consultation type %q", *req.ConsultationType))
		}
		consultation.ConsultationType = *req.ConsultationType
	}

	if consultation.Status == types.ConsultationStatusCompleted && from != types.ConsultationStatusCompleted {
		ts := now()
		consultation.CompletedAt = &ts
	}

	return nil
}

func (s *ConsultationService) Assign(ctx context.Context, id, userID int64) (*dto.ConsultationResponse, error) {
	return s.Patch(ctx, id, dto.PatchConsultationRequest{AssignedTo: &userID})
}

// AddResponse appends to the thread. An answer on a pending or assigned
// consultation moves it to in_progress in the same transaction; only the
// status column is written.
func (s *ConsultationService) AddResponse(ctx context.Context, id int64, req dto.AddResponseRequest) (*dto.ResponseEntry, error) {
	response := req.ToModel(id)
	if err := validateResponse(response); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		consultation, err := s.open(ctx, id)
		if err != nil {
			return err
		}

		if err := s.responses.CreateResponse(ctx, response); err != nil {
			return fmt.Errorf("failed to create consultation response: %w", err)
		}

		if response.ResponseType != types.ResponseTypeAnswer {
			return nil
		}

		switch consultation.Status {
		case types.ConsultationStatusPending, types.ConsultationStatusAssigned:
		default:
			return nil
		}

		_, err = s.consultations.TransitionConsultation(ctx, id,
			types.ConsultationStatusInProgress,
			types.ConsultationStatusPending, types.ConsultationStatusAssigned,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"consultation_id": id,
		"response_id":     response.ID,
		"type":            response.ResponseType,
	}).Info("consultation response added")

	return dto.NewResponseEntry(response), nil
}

func (s *ConsultationService) DeleteResponse(ctx context.Context, consultationID, responseID int64) error {
	response, err := s.responses.Response(ctx, responseID)
	if err != nil {
		return fmt.Errorf("failed to fetch consultation response: %w", err)
	}

	if response == nil || response.ConsultationID != consultationID {
		return types.NotFound("consultation response", responseID)
	}

	if err := s.responses.DeleteResponse(ctx, responseID); err != nil {
		return fmt.Errorf("failed to delete consultation response: %w", err)
	}

	return nil
}

// ScheduleFollowup numbers follow-ups per consultation starting at 1.
func (s *ConsultationService) ScheduleFollowup(ctx context.Context, id int64, req dto.ScheduleFollowupRequest) (*dto.FollowupEntry, error) {
	if req.MeetingType != nil && !req.MeetingType.Valid() {
		return nil, types.Invalid("meetingType", fmt.Sprintf("unknown meeting type %q", *req.MeetingType))
	}

	followup := &types.ConsultationFollowup{
		OriginalConsultationID: id,
		MeetingType:            req.MeetingType,
		ScheduledAt:            req.ScheduledAt,
		Notes:                  utils.TrimmedPtr(req.Notes),
		Status:                 types.FollowupStatusScheduled,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.open(ctx, id); err != nil {
			return err
		}

		order, err := s.followups.NextFollowupOrder(ctx, id)
		if err != nil {
			return err
		}
		followup.FollowupOrder = order

		if err := s.followups.CreateFollowup(ctx, followup); err != nil {
			return fmt.Errorf("failed to create consultation followup: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"consultation_id": id,
		"followup_id":     followup.ID,
		"order":           followup.FollowupOrder,
	}).Info("consultation followup scheduled")

	return dto.NewFollowupEntry(followup), nil
}

func (s *ConsultationService) UpdateFollowup(ctx context.Context, consultationID, followupID int64, req dto.UpdateFollowupRequest) (*dto.FollowupEntry, error) {
	followup, err := s.followup(ctx, consultationID, followupID)
	if err != nil {
		return nil, err
	}

	req.Apply(followup)

	if !followup.Status.Valid() {
		return nil, types.Invalid("status", fmt.Sprintf("unknown followup status %q", followup.Status))
	}

	if followup.MeetingType != nil && !followup.MeetingType.Valid() {
		return nil, types.Invalid("meetingType", fmt.Sprintf("unknown meeting type %q", *followup.MeetingType))
	}

	if followup.Status == types.FollowupStatusCompleted && followup.MetAt == nil {
		ts := now()
		followup.MetAt = &ts
	}

	if err := s.followups.UpdateFollowup(ctx, followup); err != nil {
		return nil, fmt.Errorf("failed to update consultation followup: %w", err)
	}

	return dto.NewFollowupEntry(followup), nil
}

func (s *ConsultationService) DeleteFollowup(ctx context.Context, consultationID, followupID int64) error {
	if _, err := s.followup(ctx, consultationID, followupID); err != nil {
		return err
	}

	if err := s.followups.DeleteFollowup(ctx, followupID); err != nil {
		return fmt.Errorf("failed to delete consultation followup: %w", err)
	}

	return nil
}

func (s *ConsultationService) Delete(ctx context.Context, id int64) error {
	if err := validID("consultation", id); err != nil {
		return err
	}

	if err := s.consultations.DeleteConsultation(ctx, id); err != nil {
		return fmt.Errorf("failed to delete consultation: %w", err)
	}

	s.logger.WithField("consultation_id", id).Info("consultation deleted")

	return nil
}

func (s *ConsultationService) mustGet(ctx context.Context, id int64) (*types.Consultation, error) {
	if err := validID("consultation", id); err != nil {
		return nil, err
	}

	consultation, err := s.consultations.Consultation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consultation: %w", err)
	}

	if consultation == nil {
		return nil, types.NotFound("consultation", id)
	}

	return consultation, nil
}

// lock reads the consultation with a row lock held until ctx's transaction
// ends.
func (s *ConsultationService) lock(ctx context.Context, id int64) (*types.Consultation, error) {
	if err := validID("consultation", id); err != nil {
		return nil, err
	}

	consultation, err := s.consultations.ConsultationForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock consultation: %w", err)
	}

	if consultation == nil {
		return nil, types.NotFound("consultation", id)
	}

	return consultation, nil
}

// open locks a consultation that still accepts responses and follow-ups.
func (s *ConsultationService) open(ctx context.Context, id int64) (*types.Consultation, error) {
	consultation, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}

	if consultation.Status.Terminal() {
		return nil, types.Invalid("status", fmt.Sprintf("consultation is %s and no longer accepts changes", consultation.Status))
	}

	return consultation, nil
}

func (s *ConsultationService) followup(ctx context.Context, consultationID, followupID int64) (*types.ConsultationFollowup, error) {
	if err := validID("followup", followupID); err != nil {
		return nil, err
	}

	followup, err := s.followups.Followup(ctx, followupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consultation followup: %w", err)
	}

	if followup == nil || followup.OriginalConsultationID != consultationID {
		return nil, types.NotFound("consultation followup", followupID)
	}

	return followup, nil
}

func (s *ConsultationService) checkAssignee(ctx context.Context, userID int64) error {
	user, err := s.users.User(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch assignee: %w", err)
	}

	if user == nil {
		return types.Invalid("assignedTo", fmt.Sprintf("user %d does not exist", userID))
	}

	if user.Role != types.UserRoleAdmin {
		return types.Invalid("assignedTo", "consultations can only be assigned to administrators")
	}

	return nil
}

func validateConsultation(c *types.Consultation) error {
	if err := firstError(
		required("name", c.Name),
		maxLength("name", c.Name, 50),
		required("phone", c.Phone),
		maxLength("phone", c.Phone, 20),
		required("content", c.Content),
		maxLength("title", c.Title, 255),
	); err != nil {
		return err
	}

	if !c.PrivacyAgreed {
		return types.Invalid("privacyAgreed", "privacy agreement is required")
	}

	if !c.ConsultationType.Valid() {
		return types.Invalid("consultationType", fmt.Sprintf("unknown consultation type %q", c.ConsultationType))
	}

	if !c.InquiryCategory.Valid() {
		return types.Invalid("inquiryCategory", fmt.Sprintf("unknown inquiry category %q", c.InquiryCategory))
	}

	if !c.InquiryChannel.Valid() {
		return types.Invalid("inquiryChannel", fmt.Sprintf("unknown inquiry channel %q", c.InquiryChannel))
	}

	return nil
}

func validateResponse(r *types.ConsultationResponse) error {
	if !r.ResponseType.Valid() {
		return types.Invalid("responseType", fmt.Sprintf("unknown response type %q", r.ResponseType))
	}
	return required("content", r.Content)
}

func tokenMatches(stored, given string) bool {
	if stored == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func responseEntries(responses []*types.ConsultationResponse) []*dto.ResponseEntry {
	out := make([]*dto.ResponseEntry, 0, len(responses))
	for _, r := range responses {
		out = append(out, dto.NewResponseEntry(r))
	}
	return out
}

// headline returns the first line of content cut to max runes.
func headline(content string, max int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	runes := []rune(strings.TrimSpace(line))
	if len(runes) > max {
		return string(runes[:max])
	}
	return string(runes)
}
