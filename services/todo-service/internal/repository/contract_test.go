package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"
)

func testUserRepository(t *testing.T, repo UserRepository) {
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, &model.User{Email: "personone@test.com", PasswordHash: "hash"})
	require.NoError(t, err)
	require.False(t, user.ID.IsZero())
	id := user.ID.Hex()

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, &model.User{Email: "personone@test.com", PasswordHash: "other"})
		require.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("lookups", func(t *testing.T) {
		got, err := repo.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "personone@test.com", got.Email)
		assert.Empty(t, got.Tokens)

		got, err = repo.GetUserByEmail(ctx, "personone@test.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = repo.GetUserByEmail(ctx, "nobody@test.com")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = repo.GetUser(ctx, bson.NewObjectID().Hex())
		require.ErrorIs(t, err, ErrNotFound)

		_, err = repo.GetUser(ctx, "123")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("token membership", func(t *testing.T) {
		require.NoError(t, repo.PushToken(ctx, id, model.Token{Access: "auth", Token: "t1"}))
		require.NoError(t, repo.PushToken(ctx, id, model.Token{Access: "auth", Token: "t2"}))

		got, err := repo.GetUserByToken(ctx, id, "auth", "t1")
		require.NoError(t, err)
		assert.Len(t, got.Tokens, 2)

		_, err = repo.GetUserByToken(ctx, id, "reset", "t1")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = repo.GetUserByToken(ctx, bson.NewObjectID().Hex(), "auth", "t1")
		require.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, repo.PullToken(ctx, id, "t1"))
		require.NoError(t, repo.PullToken(ctx, id, "t1"))

		_, err = repo.GetUserByToken(ctx, id, "auth", "t1")
		require.ErrorIs(t, err, ErrNotFound)

		got, err = repo.GetUserByToken(ctx, id, "auth", "t2")
		require.NoError(t, err)
		assert.Equal(t, []model.Token{{Access: "auth", Token: "t2"}}, got.Tokens)

		require.ErrorIs(t, repo.PushToken(ctx, bson.NewObjectID().Hex(), model.Token{}), ErrNotFound)
		require.ErrorIs(t, repo.PullToken(ctx, "bad-id", "t2"), ErrNotFound)
	})

	t.Run("update password hash", func(t *testing.T) {
		hash := "new-hash"
		got, err := repo.UpdateUser(ctx, id, UpdateUserParams{PasswordHash: &hash})
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)

		_, err = repo.UpdateUser(ctx, id, UpdateUserParams{})
		require.Error(t, err)
	})
}

func testTodoRepository(t *testing.T, repo TodoRepository) {
	ctx := context.Background()
	owner := bson.NewObjectID()
	stranger := bson.NewObjectID()

	first, err := repo.CreateTodo(ctx, &model.Todo{Text: "first", CreatedBy: owner})
	require.NoError(t, err)
	second, err := repo.CreateTodo(ctx, &model.Todo{Text: "second", CreatedBy: owner})
	require.NoError(t, err)
	foreign, err := repo.CreateTodo(ctx, &model.Todo{Text: "foreign", CreatedBy: stranger})
	require.NoError(t, err)

	t.Run("list is scoped to creator", func(t *testing.T) {
		todos, err := repo.ListTodos(ctx, owner)
		require.NoError(t, err)
		require.Len(t, todos, 2)
		assert.Equal(t, first.ID, todos[0].ID)
		assert.Equal(t, second.ID, todos[1].ID)

		todos, err = repo.ListTodos(ctx, bson.NewObjectID())
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)
	})

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetTodo(ctx, first.ID.Hex(), owner)
		require.NoError(t, err)
		assert.Equal(t, "first", got.Text)
		assert.False(t, got.Completed)
		assert.Nil(t, got.CompletedAt)

		_, err = repo.GetTodo(ctx, foreign.ID.Hex(), owner)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = repo.GetTodo(ctx, "9827349", owner)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		text := "first, edited"
		at := time.Now().UTC().Truncate(time.Millisecond)

		got, err := repo.UpdateTodo(ctx, first.ID.Hex(), owner, UpdateTodoParams{
			Text:        &text,
			Completed:   true,
			CompletedAt: &at,
		})
		require.NoError(t, err)
		assert.Equal(t, text, got.Text)
		assert.True(t, got.Completed)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, at.Equal(*got.CompletedAt))

		got, err = repo.UpdateTodo(ctx, first.ID.Hex(), owner, UpdateTodoParams{})
		require.NoError(t, err)
		assert.Equal(t, text, got.Text)
		assert.False(t, got.Completed)
		assert.Nil(t, got.CompletedAt)

		_, err = repo.UpdateTodo(ctx, foreign.ID.Hex(), owner, UpdateTodoParams{Completed: true, CompletedAt: &at})
		require.ErrorIs(t, err, ErrNotFound)

		untouched, err := repo.GetTodo(ctx, foreign.ID.Hex(), stranger)
		require.NoError(t, err)
		assert.False(t, untouched.Completed)
	})

	t.Run("delete", func(t *testing.T) {
		_, err := repo.DeleteTodo(ctx, foreign.ID.Hex(), owner)
		require.ErrorIs(t, err, ErrNotFound)

		deleted, err := repo.DeleteTodo(ctx, second.ID.Hex(), owner)
		require.NoError(t, err)
		assert.Equal(t, "second", deleted.Text)

		_, err = repo.GetTodo(ctx, second.ID.Hex(), owner)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = repo.DeleteTodo(ctx, second.ID.Hex(), owner)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = repo.GetTodo(ctx, foreign.ID.Hex(), stranger)
		require.NoError(t, err)
	})
}
