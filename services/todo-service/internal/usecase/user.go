package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/repository"
	"github.com/vasapolrittideah/todo-api/shared/auth"
	"github.com/vasapolrittideah/todo-api/shared/security"
	"github.com/vasapolrittideah/todo-api/shared/validator"
)

// UserUsecase defines the user directory: registration, credential checks
// and the set of active tokens held by each user.
type UserUsecase interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*model.User, error)
	FindByCredentials(ctx context.Context, params LoginParams) (*model.User, error)
	// GenerateAuthToken issues a new auth token and stores it in the user's
	// active tokens. Earlier tokens stay valid.
	GenerateAuthToken(ctx context.Context, user *model.User) (string, error)
	// RemoveToken revokes token. Revoking an unknown token succeeds.
	RemoveToken(ctx context.Context, user *model.User, token string) error
	// FindByToken resolves a token to its user. It fails with
	// ErrUnauthorized unless the token verifies and is still active.
	FindByToken(ctx context.Context, token string) (*model.User, error)
	ChangePassword(ctx context.Context, user *model.User, params ChangePasswordParams) error
}

// CreateUserParams defines the parameters for user registration.
type CreateUserParams struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// ChangePasswordParams defines the parameters for a password change.
type ChangePasswordParams struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
}

type userUsecase struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	jwtAuth  *auth.JWTAuthenticator
	validate *validator.Validator
}

func NewUserUsecase(
	userRepo repository.UserRepository,
	hasher security.PasswordHasher,
	jwtAuth *auth.JWTAuthenticator,
	validate *validator.Validator,
) UserUsecase {
	return &userUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		jwtAuth:  jwtAuth,
		validate: validate,
	}
}

func (u *userUsecase) CreateUser(ctx context.Context, params CreateUserParams) (*model.User, error) {
	params.Email = normalizeEmail(params.Email)
	if err := u.validate.Struct(params); err != nil {
		return nil, validationError(err)
	}

	passwordHash, err := u.hasher.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:        params.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) FindByCredentials(ctx context.Context, params LoginParams) (*model.User, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if ok, err := u.hasher.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (u *userUsecase) GenerateAuthToken(ctx context.Context, user *model.User) (string, error) {
	token, err := u.jwtAuth.GenerateToken(user.ID.Hex(), auth.AccessAuth)
	if err != nil {
		return "", err
	}

	entry := model.Token{Access: auth.AccessAuth, Token: token}
	if err := u.userRepo.PushToken(ctx, user.ID.Hex(), entry); err != nil {
		return "", fmt.Errorf("failed to store auth token: %w", err)
	}

	user.Tokens = append(user.Tokens, entry)

	return token, nil
}

func (u *userUsecase) RemoveToken(ctx context.Context, user *model.User, token string) error {
	if err := u.userRepo.PullToken(ctx, user.ID.Hex(), token); err != nil {
		return fmt.Errorf("failed to remove auth token: %w", err)
	}

	user.Tokens = slices.DeleteFunc(user.Tokens, func(t model.Token) bool {
		return t.Token == token
	})

	return nil
}

func (u *userUsecase) FindByToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := u.jwtAuth.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if claims.Access != auth.AccessAuth {
		return nil, fmt.Errorf("%w: unexpected token purpose %q", ErrUnauthorized, claims.Access)
	}

	user, err := u.userRepo.GetUserByToken(ctx, claims.UserID, auth.AccessAuth, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: token is not active", ErrUnauthorized)
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) ChangePassword(ctx context.Context, user *model.User, params ChangePasswordParams) error {
	if err := u.validate.Struct(params); err != nil {
		return validationError(err)
	}

	if ok, err := u.hasher.VerifyPassword(params.CurrentPassword, user.PasswordHash); err != nil {
		return err
	} else if !ok {
		return ErrInvalidCredentials
	}

	passwordHash, err := u.hasher.HashPassword(params.NewPassword)
	if err != nil {
		return err
	}

	updated, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	})
	if err != nil {
		return err
	}

	user.PasswordHash = updated.PasswordHash

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
