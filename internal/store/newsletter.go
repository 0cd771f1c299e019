package store

import (
	"context"
	"strings"

	"sharehope/internal/db"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const newsletterTableName = "newsletter_subscribers"

type NewsletterRepository struct {
	table[types.NewsletterSubscriber]
}

func NewNewsletterRepository(d *db.DB) *NewsletterRepository {
	return &NewsletterRepository{table: newTable[types.NewsletterSubscriber](d, newsletterTableName, "newsletter subscriber")}
}

func (r *NewsletterRepository) Subscriber(ctx context.Context, id int64) (*types.NewsletterSubscriber, error) {
	return r.byID(ctx, id)
}

func (r *NewsletterRepository) SubscriberByEmail(ctx context.Context, email string) (*types.NewsletterSubscriber, error) {
	return r.get(ctx, sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *NewsletterRepository) SubscriberByToken(ctx context.Context, token string) (*types.NewsletterSubscriber, error) {
	return r.get(ctx, sq.Eq{"unsubscribe_token": token})
}

func (r *NewsletterRepository) Subscribers(ctx context.Context, filter types.SubscriberFilter, page types.PageRequest) (*types.Page[types.NewsletterSubscriber], error) {
	var conds sq.And
	if filter.Status != "" {
		conds = append(conds, sq.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		conds = append(conds, r.db.Dialect().Contains(filter.Search, "email", "name"))
	}

	return r.page(ctx, whereAll(conds), page, "subscribed_at DESC", "id DESC")
}

func (r *NewsletterRepository) CreateSubscriber(ctx context.Context, subscriber *types.NewsletterSubscriber) error {
	ts := now()
	subscriber.CreatedAt = ts
	subscriber.UpdatedAt = ts
	subscriber.Email = strings.ToLower(strings.TrimSpace(subscriber.Email))

	id, err := r.insert(ctx, subscriber)
	if err != nil {
		return err
	}

	subscriber.ID = id
	return nil
}

func (r *NewsletterRepository) UpdateSubscriber(ctx context.Context, subscriber *types.NewsletterSubscriber) error {
	subscriber.UpdatedAt = now()
	return r.update(ctx, subscriber.ID, subscriber)
}

func (r *NewsletterRepository) SaveSubscriber(ctx context.Context, subscriber *types.NewsletterSubscriber) error {
	if subscriber.ID == 0 {
		return r.CreateSubscriber(ctx, subscriber)
	}
	return r.UpdateSubscriber(ctx, subscriber)
}

func (r *NewsletterRepository) DeleteSubscriber(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}
