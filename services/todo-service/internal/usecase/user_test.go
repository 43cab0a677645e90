package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/repository"
	"github.com/vasapolrittideah/todo-api/shared/auth"
	"github.com/vasapolrittideah/todo-api/shared/security"
	"github.com/vasapolrittideah/todo-api/shared/validator"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type failingHasher struct {
	security.PasswordHasher
}

func (failingHasher) HashPassword(string) (string, error) { return "", errBoom{} }

type fixture struct {
	users   repository.UserRepository
	jwtAuth *auth.JWTAuthenticator
	now     time.Time
	uc      UserUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users: repository.NewUserMemoryRepository(),
		now:   time.Now(),
	}
	f.jwtAuth = auth.NewJWTAuthenticator("test-secret", "todo-service", auth.WithClock(func() time.Time { return f.now }))
	f.uc = NewUserUsecase(f.users, security.NewBcryptHasher(bcrypt.MinCost), f.jwtAuth, validator.New())

	return f
}

func (f *fixture) register(t *testing.T, email, password string) *model.User {
	t.Helper()

	user, err := f.uc.CreateUser(context.Background(), CreateUserParams{Email: email, Password: password})
	require.NoError(t, err)

	return user
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.register(t, "  A@Test.com ", "secret1")
	assert.Equal(t, "a@test.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	stored, err := f.users.GetUserByEmail(ctx, "a@test.com")
	require.NoError(t, err)
	ok, err := security.VerifyPassword("secret1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, stored.Tokens)

	_, err = f.uc.CreateUser(ctx, CreateUserParams{Email: "a@test.com", Password: "another1"})
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestCreateUser_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		params CreateUserParams
	}{
		{name: "malformed email", params: CreateUserParams{Email: "not-an-email", Password: "secret1"}},
		{name: "empty email", params: CreateUserParams{Email: "   ", Password: "secret1"}},
		{name: "short password", params: CreateUserParams{Email: "b@test.com", Password: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateUser(context.Background(), tt.params)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := f.users.GetUserByEmail(context.Background(), "b@test.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateUser_HashFailureAbortsSave(t *testing.T) {
	users := repository.NewUserMemoryRepository()
	uc := NewUserUsecase(users, failingHasher{}, auth.NewJWTAuthenticator("k", "todo-service"), validator.New())

	_, err := uc.CreateUser(context.Background(), CreateUserParams{Email: "c@test.com", Password: "secret1"})
	require.ErrorIs(t, err, errBoom{})

	_, err = users.GetUserByEmail(context.Background(), "c@test.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindByCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.register(t, "a@test.com", "secret1")

	user, err := f.uc.FindByCredentials(ctx, LoginParams{Email: "A@test.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, wrongPassword := f.uc.FindByCredentials(ctx, LoginParams{Email: "a@test.com", Password: "secret2"})
	_, unknownEmail := f.uc.FindByCredentials(ctx, LoginParams{Email: "z@test.com", Password: "secret1"})

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestGenerateAuthToken_MultipleSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@test.com", "secret1")

	const n = 3
	tokens := make([]string, 0, n)
	for range n {
		tok, err := f.uc.GenerateAuthToken(ctx, user)
		require.NoError(t, err)
		tokens = append(tokens, tok)
	}

	assert.Len(t, user.Tokens, n)
	seen := map[string]bool{}
	for _, tok := range tokens {
		assert.False(t, seen[tok])
		seen[tok] = true

		got, err := f.uc.FindByToken(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	}

	stored, err := f.users.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, stored.Tokens, n)
	for _, entry := range stored.Tokens {
		assert.Equal(t, auth.AccessAuth, entry.Access)
	}
}

func TestRemoveToken_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@test.com", "secret1")

	keep, err := f.uc.GenerateAuthToken(ctx, user)
	require.NoError(t, err)
	drop, err := f.uc.GenerateAuthToken(ctx, user)
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveToken(ctx, user, drop))
	once, err := f.users.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveToken(ctx, user, drop))
	twice, err := f.users.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, once.Tokens, twice.Tokens)
	assert.Equal(t, []model.Token{{Access: auth.AccessAuth, Token: keep}}, twice.Tokens)

	_, err = f.uc.FindByToken(ctx, drop)
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.uc.FindByToken(ctx, keep)
	require.NoError(t, err)
}

func TestFindByToken_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@test.com", "secret1")

	valid, err := f.uc.GenerateAuthToken(ctx, user)
	require.NoError(t, err)

	// Signed with the right secret but never stored for the user.
	unstored, err := f.jwtAuth.GenerateToken(user.ID.Hex(), auth.AccessAuth)
	require.NoError(t, err)

	otherPurpose, err := f.jwtAuth.GenerateToken(user.ID.Hex(), "reset")
	require.NoError(t, err)
	require.NoError(t, f.users.PushToken(ctx, user.ID.Hex(), model.Token{Access: "reset", Token: otherPurpose}))

	forged, err := auth.NewJWTAuthenticator("other-secret", "todo-service").GenerateToken(user.ID.Hex(), auth.AccessAuth)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "malformed", token: "garbage"},
		{name: "bad signature", token: forged},
		{name: "not active", token: unstored},
		{name: "wrong purpose", token: otherPurpose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.FindByToken(ctx, tt.token)
			require.ErrorIs(t, err, ErrUnauthorized)
		})
	}

	t.Run("expired", func(t *testing.T) {
		f.now = f.now.Add(auth.TokenTTL + time.Second)
		t.Cleanup(func() { f.now = time.Now() })

		_, err := f.uc.FindByToken(ctx, valid)
		require.ErrorIs(t, err, ErrUnauthorized)
		require.ErrorIs(t, err, auth.ErrTokenExpired)
	})
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@test.com", "secret1")

	err := f.uc.ChangePassword(ctx, user, ChangePasswordParams{CurrentPassword: "wrong!", NewPassword: "secret2"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	err = f.uc.ChangePassword(ctx, user, ChangePasswordParams{CurrentPassword: "secret1", NewPassword: "123"})
	require.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.uc.ChangePassword(ctx, user, ChangePasswordParams{CurrentPassword: "secret1", NewPassword: "secret2"}))

	_, err = f.uc.FindByCredentials(ctx, LoginParams{Email: "a@test.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.uc.FindByCredentials(ctx, LoginParams{Email: "a@test.com", Password: "secret2"})
	require.NoError(t, err)
}

func TestChangePassword_HashFailureKeepsOldHash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@test.com", "secret1")
	oldHash := user.PasswordHash

	uc := NewUserUsecase(f.users, failingHasher{PasswordHasher: security.NewBcryptHasher(bcrypt.MinCost)}, f.jwtAuth, validator.New())

	err := uc.ChangePassword(ctx, user, ChangePasswordParams{CurrentPassword: "secret1", NewPassword: "secret2"})
	require.True(t, errors.Is(err, errBoom{}))

	stored, err := f.users.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, oldHash, stored.PasswordHash)
}
