package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"sharehope/pkg/dto"
	"sharehope/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var passwordCost = bcrypt.DefaultCost

type UserRepository interface {
	User(ctx context.Context, id int64) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	UsersByIDs(ctx context.Context, ids []int64) ([]*types.User, error)
	Users(ctx context.Context, filter types.UserFilter, page types.PageRequest) (*types.Page[types.User], error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	CreateUser(ctx context.Context, user *types.User) error
	UpdateUser(ctx context.Context, user *types.User) error
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	DeleteUser(ctx context.Context, id int64) error
}

type UserProfileRepository interface {
	Profile(ctx context.Context, userID int64) (*types.UserProfile, error)
	CreateProfile(ctx context.Context, profile *types.UserProfile) error
	SaveProfile(ctx context.Context, profile *types.UserProfile) error
}

type UserService struct {
	logger   logrus.FieldLogger
	tx       Transactor
	users    UserRepository
	profiles UserProfileRepository
}

func NewUserService(logger logrus.FieldLogger, tx Transactor, users UserRepository, profiles UserProfileRepository) *UserService {
	return &UserService{
		logger:   logger,
		tx:       tx,
		users:    users,
		profiles: profiles,
	}
}

// Create stores the user and its profile in one transaction. Accounts that
// sign in with email need a password; social logins may omit it.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	user := req.ToModel()
	if err := validateUser(user); err != nil {
		return nil, err
	}

	if user.LoginType == types.LoginTypeEmail || req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.checkEmail(ctx, user.Email, 0); err != nil {
		return nil, err
	}

	profile := &types.UserProfile{}
	if req.Profile != nil {
		req.Profile.Apply(profile, now())
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		profile.UserID = user.ID
		if err := s.profiles.CreateProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to create user profile: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user created")

	out := dto.NewUserResponse(user)
	out.Profile = dto.NewProfileResponse(profile)
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withProfile(ctx, user)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if user == nil {
		return nil, types.NotFound("user", email)
	}

	return s.withProfile(ctx, user)
}

func (s *UserService) List(ctx context.Context, filter types.UserFilter, page types.PageRequest) (*types.Page[dto.UserResponse], error) {
	users, err := s.users.Users(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return types.MapPage(users, dto.NewUserResponse), nil
}

func (s *UserService) Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	oldEmail := user.Email
	req.Apply(user)

	if err := validateUser(user); err != nil {
		return nil, err
	}

	if user.Email != oldEmail {
		if err := s.checkEmail(ctx, user.Email, user.ID); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("user updated")

	return dto.NewUserResponse(user), nil
}

// UpdateProfile creates the profile on first write.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req dto.ProfileRequest) (*dto.ProfileResponse, error) {
	if _, err := s.mustGet(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	if profile == nil {
		profile = &types.UserProfile{UserID: userID}
	}

	req.Apply(profile, now())

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save user profile: %w", err)
	}

	return dto.NewProfileResponse(profile), nil
}

// ChangePassword requires the current password.
func (s *UserService) ChangePassword(ctx context.Context, id int64, req dto.ChangePasswordRequest) error {
	user, err := s.mustGet(ctx, id)
	if err != nil {
		return err
	}

	if user.PasswordHash == "" {
		return types.Invalid("currentPassword", "account has no password set")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return types.Invalid("currentPassword", "current password is incorrect")
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	return s.setPassword(ctx, id, req.NewPassword)
}

// ResetPassword is the administrative override and skips the current
// password check.
func (s *UserService) ResetPassword(ctx context.Context, id int64, password string) error {
	if _, err := s.mustGet(ctx, id); err != nil {
		return err
	}
	return s.setPassword(ctx, id, password)
}

func (s *UserService) ChangeStatus(ctx context.Context, id int64, req dto.ChangeStatusRequest) (*dto.UserResponse, error) {
	if !req.Status.Valid() {
		return nil, types.Invalid("status", fmt.Sprintf("unknown user status %q", req.Status))
	}

	user, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	from := user.Status
	user.Status = req.Status

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": id, "from": from, "to": user.Status}).Info("user status changed")

	return dto.NewUserResponse(user), nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := validID("user", id); err != nil {
		return err
	}

	if err := s.users.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.WithField("user_id", id).Info("user deleted")

	return nil
}

func (s *UserService) setPassword(ctx context.Context, id int64, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	if err := s.users.SetPasswordHash(ctx, id, hash); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}

	s.logger.WithField("user_id", id).Info("user password changed")

	return nil
}

func (s *UserService) mustGet(ctx context.Context, id int64) (*types.User, error) {
	if err := validID("user", id); err != nil {
		return nil, err
	}

	user, err := s.users.User(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if user == nil {
		return nil, types.NotFound("user", id)
	}

	return user, nil
}

func (s *UserService) withProfile(ctx context.Context, user *types.User) (*dto.UserResponse, error) {
	profile, err := s.profiles.Profile(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	out := dto.NewUserResponse(user)
	out.Profile = dto.NewProfileResponse(profile)
	return out, nil
}

func (s *UserService) checkEmail(ctx context.Context, email string, excludeID int64) error {
	taken, err := s.users.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check user email: %w", err)
	}

	if taken {
		return types.Conflict("user", "user with this email already exists")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	if len([]rune(password)) < minPasswordLength {
		return "", types.Invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", types.Invalid("password", "password is too long")
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

func validateUser(u *types.User) error {
	if err := required("email", u.Email); err != nil {
		return err
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return types.Invalid("email", "email address is malformed")
	}

	if !u.Role.Valid() {
		return types.Invalid("role", fmt.Sprintf("unknown role %q", u.Role))
	}

	if !u.Status.Valid() {
		return types.Invalid("status", fmt.Sprintf("unknown user status %q", u.Status))
	}

	if !u.LoginType.Valid() {
		return types.Invalid("loginType", fmt.Sprintf("unknown login type %q", u.LoginType))
	}

	return nil
}
