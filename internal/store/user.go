package store

import (
	"context"
	"fmt"
	"strings"

	"sharehope/internal/db"
	"sharehope/internal/utils"
	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

const (
	userTableName        = "users"
	userProfileTableName = "user_profiles"
)

type UserRepository struct {
	table[types.User]
}

func NewUserRepository(d *db.DB) *UserRepository {
	return &UserRepository{table: newTable[types.User](d, userTableName, "user")}
}

func (r *UserRepository) User(ctx context.Context, id int64) (*types.User, error) {
	return r.byID(ctx, id)
}

// UserByEmail matches case-insensitively; emails are stored lowercased.
func (r *UserRepository) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	return r.get(ctx, sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepository) UsersByIDs(ctx context.Context, ids []int64) ([]*types.User, error) {
	if len(ids) == 0 {
		return []*types.User{}, nil
	}
	return r.list(ctx, sq.Eq{"id": ids}, "id ASC")
}

func (r *UserRepository) Users(ctx context.Context, filter types.UserFilter, page types.PageRequest) (*types.Page[types.User], error) {
	var conds sq.And
	if filter.Role != "" {
		conds = append(conds, sq.Eq{"role": filter.Role})
	}
	if filter.Status != "" {
		conds = append(conds, sq.Eq{"status": filter.Status})
	}
	if filter.LoginType != "" {
		conds = append(conds, sq.Eq{"login_type": filter.LoginType})
	}
	if filter.Search != "" {
		conds = append(conds, r.db.Dialect().Contains(filter.Search, "email", "username", "name"))
	}

	return r.page(ctx, whereAll(conds), page, "created_at DESC", "id DESC")
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	conds := sq.And{sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))}}
	if excludeID != 0 {
		conds = append(conds, sq.NotEq{"id": excludeID})
	}
	return r.exists(ctx, conds)
}

func (r *UserRepository) CreateUser(ctx context.Context, user *types.User) error {
	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	id, err := r.insert(ctx, user)
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// UpdateUser leaves password_hash alone; use SetPasswordHash.
func (r *UserRepository) UpdateUser(ctx context.Context, user *types.User) error {
	user.UpdatedAt = now()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return r.set(ctx, user.ID, utils.StructToMap(user, "id", "created_at", "password_hash"))
}

func (r *UserRepository) SaveUser(ctx context.Context, user *types.User) error {
	if user.ID == 0 {
		return r.CreateUser(ctx, user)
	}
	return r.UpdateUser(ctx, user)
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return r.set(ctx, id, map[string]any{
		"password_hash": hash,
		"updated_at":    now(),
	})
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	return r.delete(ctx, id)
}

// UserProfileRepository is keyed by user_id rather than its own id.
type UserProfileRepository struct {
	table[types.UserProfile]
}

func NewUserProfileRepository(d *db.DB) *UserProfileRepository {
	return &UserProfileRepository{table: newTable[types.UserProfile](d, userProfileTableName, "user profile")}
}

func (r *UserProfileRepository) Profile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	return r.get(ctx, sq.Eq{"user_id": userID})
}

func (r *UserProfileRepository) CreateProfile(ctx context.Context, profile *types.UserProfile) error {
	ts := now()
	profile.CreatedAt = ts
	profile.UpdatedAt = ts

	query := r.db.Builder().
		Insert(r.name).
		SetMap(utils.StructToMap(profile))

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to insert user profile: %w", err)
	}

	return nil
}

func (r *UserProfileRepository) UpdateProfile(ctx context.Context, profile *types.UserProfile) error {
	profile.UpdatedAt = now()

	query := r.db.Builder().
		Update(r.name).
		SetMap(utils.StructToMap(profile, "user_id", "created_at")).
		Where(sq.Eq{"user_id": profile.UserID})

	n, err := r.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	if n == 0 {
		return types.NotFound("user profile", profile.UserID)
	}

	return nil
}

// SaveProfile creates the profile on first write and updates it afterwards.
func (r *UserProfileRepository) SaveProfile(ctx context.Context, profile *types.UserProfile) error {
	existing, err := r.Profile(ctx, profile.UserID)
	if err != nil {
		return err
	}

	if existing == nil {
		return r.CreateProfile(ctx, profile)
	}

	profile.CreatedAt = existing.CreatedAt
	return r.UpdateProfile(ctx, profile)
}
