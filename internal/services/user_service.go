package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yukikurage/task-manager-api/internal/auth"
	"github.com/yukikurage/task-manager-api/internal/constants"
	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnableToLogin        = errors.New("unable to login")
	ErrUnauthenticated      = errors.New("please authenticate")
	ErrEmailTaken           = errors.New("email already in use")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrAvatarTooLarge       = errors.New("file too large")
	ErrAvatarType           = errors.New("please upload an image")
	ErrAvatarNotFound       = errors.New("avatar not found")
)

var avatarTypes = []string{"image/png", "image/jpeg"}

// UserService handles registration, credentials, session tokens and profiles.
type UserService struct {
	store          repository.Store
	tokens         *auth.Manager
	maxAvatarBytes int64
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store, tokens *auth.Manager, maxAvatarBytes int64) *UserService {
	if maxAvatarBytes <= 0 {
		maxAvatarBytes = constants.DefaultMaxAvatarBytes
	}
	return &UserService{
		store:          store,
		tokens:         tokens,
		maxAvatarBytes: maxAvatarBytes,
	}
}

// MaxAvatarBytes is the largest accepted avatar upload.
func (s *UserService) MaxAvatarBytes() int64 {
	return s.maxAvatarBytes
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// Register validates and stores a new user and issues its first token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	user := &models.User{
		Name:  strings.TrimSpace(input.Name),
		Email: NormalizeEmail(input.Email),
		Age:   input.Age,
	}

	var errs FieldErrors
	errs = errs.Add(ValidateName(user.Name))
	errs = errs.Add(ValidateEmail(user.Email))
	errs = errs.Add(ValidateAge(user.Age))
	errs = errs.Add(ValidatePassword(input.Password))
	if err := errs.Err(); err != nil {
		return nil, "", err
	}

	if err := s.ensureEmailAvailable(ctx, user.Email, ""); err != nil {
		return nil, "", err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}
	user.Password = hash

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateAuthToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// FindByCredentials returns the user owning email when password matches.
// Unknown email and wrong password yield the same ErrUnableToLogin.
func (s *UserService) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.Users().FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnableToLogin
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrUnableToLogin
	}

	return user, nil
}

// Login verifies credentials and issues a new token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.GenerateAuthToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GenerateAuthToken signs a token for user and stores it with the user's tokens.
func (s *UserService) GenerateAuthToken(ctx context.Context, user *models.User) (string, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.store.Users().AddToken(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	user.Tokens = append(user.Tokens, models.UserToken{UserID: user.ID, Token: token})

	return token, nil
}

// Authenticate resolves the user holding a verified, still stored token.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, errors.Join(ErrUnauthenticated, err)
	}

	user, err := s.store.Users().FindByIDAndToken(ctx, claims.UserID, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// Logout revokes the token used for the current request.
func (s *UserService) Logout(ctx context.Context, user *models.User, token string) error {
	if err := s.store.Users().RemoveToken(ctx, user.ID, token); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// LogoutAll revokes every token of user.
func (s *UserService) LogoutAll(ctx context.Context, user *models.User) error {
	if err := s.store.Users().ClearTokens(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	user.Tokens = nil
	return nil
}

type userUpdates struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}

// UpdateProfile applies a partial update limited to UserUpdatableFields.
// The password is re-hashed when present.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, raw map[string]json.RawMessage) (*models.User, error) {
	var updates userUpdates
	if err := decodeUpdates(raw, UserUpdatableFields, &updates); err != nil {
		return nil, err
	}

	updated := *user
	var errs FieldErrors
	if updates.Name != nil {
		updated.Name = strings.TrimSpace(*updates.Name)
		errs = errs.Add(ValidateName(updated.Name))
	}
	if updates.Email != nil {
		updated.Email = NormalizeEmail(*updates.Email)
		errs = errs.Add(ValidateEmail(updated.Email))
	}
	if updates.Age != nil {
		updated.Age = *updates.Age
		errs = errs.Add(ValidateAge(updated.Age))
	}
	if updates.Password != nil {
		errs = errs.Add(ValidatePassword(*updates.Password))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if updated.Email != user.Email {
		if err := s.ensureEmailAvailable(ctx, updated.Email, user.ID); err != nil {
			return nil, err
		}
	}

	if updates.Password != nil {
		hash, err := hashPassword(*updates.Password)
		if err != nil {
			return nil, err
		}
		updated.Password = hash
	}

	if err := s.store.Users().UpdateProfile(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return &updated, nil
}

// DeleteUser removes user together with every task it owns.
func (s *UserService) DeleteUser(ctx context.Context, user *models.User) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Tasks().DeleteByOwner(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}
		if err := tx.Users().Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// SetAvatar stores a PNG or JPEG image as the user's avatar.
func (s *UserService) SetAvatar(ctx context.Context, user *models.User, data []byte) error {
	if int64(len(data)) > s.maxAvatarBytes {
		return ErrAvatarTooLarge
	}
	if len(data) == 0 || !mimetype.EqualsAny(mimetype.Detect(data).String(), avatarTypes...) {
		return ErrAvatarType
	}

	if err := s.store.Users().SetAvatar(ctx, user.ID, data); err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}
	user.Avatar = data
	return nil
}

// ClearAvatar removes the user's avatar.
func (s *UserService) ClearAvatar(ctx context.Context, user *models.User) error {
	if err := s.store.Users().SetAvatar(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	user.Avatar = nil
	return nil
}

// GetAvatar returns the avatar bytes of a user and their detected content type.
func (s *UserService) GetAvatar(ctx context.Context, userID string) ([]byte, string, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrAvatarNotFound
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}
	if len(user.Avatar) == 0 {
		return nil, "", ErrAvatarNotFound
	}

	return user.Avatar, mimetype.Detect(user.Avatar).String(), nil
}

func (s *UserService) ensureEmailAvailable(ctx context.Context, email, selfID string) error {
	existing, err := s.store.Users().FindByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != selfID:
		return ErrEmailTaken
	case err == nil, errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check email: %w", err)
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), constants.PasswordHashCost)
	if err != nil {
		return "", errors.Join(ErrFailedToHashPassword, err)
	}
	return string(hashed), nil
}
