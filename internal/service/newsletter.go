package service

import (
	"context"
	"fmt"
	"net/mail"

	"sharehope/internal/utils"
	"sharehope/pkg/dto"
	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
)

type NewsletterRepository interface {
	SubscriberByEmail(ctx context.Context, email string) (*types.NewsletterSubscriber, error)
	SubscriberByToken(ctx context.Context, token string) (*types.NewsletterSubscriber, error)
	Subscribers(ctx context.Context, filter types.SubscriberFilter, page types.PageRequest) (*types.Page[types.NewsletterSubscriber], error)
	CreateSubscriber(ctx context.Context, subscriber *types.NewsletterSubscriber) error
	UpdateSubscriber(ctx context.Context, subscriber *types.NewsletterSubscriber) error
	DeleteSubscriber(ctx context.Context, id int64) error
}

type NewsletterService struct {
	logger      logrus.FieldLogger
	subscribers NewsletterRepository
}

func NewNewsletterService(logger logrus.FieldLogger, subscribers NewsletterRepository) *NewsletterService {
	return &NewsletterService{logger: logger, subscribers: subscribers}
}

// Subscribe re-activates an address that unsubscribed earlier and rejects
// one that is still subscribed. Each subscription gets a fresh token.
func (s *NewsletterService) Subscribe(ctx context.Context, req dto.SubscribeRequest) (*dto.SubscriberResponse, error) {
	email, name := req.Normalized()
	if err := required("email", email); err != nil {
		return nil, err
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, types.Invalid("email", "email address is malformed")
	}

	existing, err := s.subscribers.SubscriberByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriber: %w", err)
	}

	ts := now()

	if existing != nil {
		if existing.Status == types.SubscriberStatusSubscribed {
			return nil, types.Conflict("newsletter subscriber", "email is already subscribed")
		}

		existing.Status = types.SubscriberStatusSubscribed
		existing.SubscribedAt = ts
		existing.UnsubscribedAt = nil
		existing.UnsubscribeToken = utils.NanoID()
		if name != nil {
			existing.Name = name
		}

		if err := s.subscribers.UpdateSubscriber(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to resubscribe: %w", err)
		}

		s.logger.WithField("subscriber_id", existing.ID).Info("newsletter resubscribed")

		return dto.NewSubscriberResponse(existing), nil
	}

	subscriber := &types.NewsletterSubscriber{
		Email:            email,
		Name:             name,
		Status:           types.SubscriberStatusSubscribed,
		UnsubscribeToken: utils.NanoID(),
		SubscribedAt:     ts,
	}

	if err := s.subscribers.CreateSubscriber(ctx, subscriber); err != nil {
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}

	s.logger.WithField("subscriber_id", subscriber.ID).Info("newsletter subscribed")

	return dto.NewSubscriberResponse(subscriber), nil
}

// Unsubscribe is idempotent for a known token.
func (s *NewsletterService) Unsubscribe(ctx context.Context, token string) error {
	if err := required("token", token); err != nil {
		return err
	}

	subscriber, err := s.subscribers.SubscriberByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to fetch subscriber: %w", err)
	}

	if subscriber == nil {
		return types.NotFound("newsletter subscription", "token")
	}

	if subscriber.Status == types.SubscriberStatusUnsubscribed {
		return nil
	}

	ts := now()
	subscriber.Status = types.SubscriberStatusUnsubscribed
	subscriber.UnsubscribedAt = &ts

	if err := s.subscribers.UpdateSubscriber(ctx, subscriber); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	s.logger.WithField("subscriber_id", subscriber.ID).Info("newsletter unsubscribed")

	return nil
}

func (s *NewsletterService) List(ctx context.Context, filter types.SubscriberFilter, page types.PageRequest) (*types.Page[dto.SubscriberResponse], error) {
	subscribers, err := s.subscribers.Subscribers(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return types.MapPage(subscribers, dto.NewSubscriberResponse), nil
}

func (s *NewsletterService) Delete(ctx context.Context, id int64) error {
	if err := validID("newsletter subscriber", id); err != nil {
		return err
	}

	if err := s.subscribers.DeleteSubscriber(ctx, id); err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}

	return nil
}
