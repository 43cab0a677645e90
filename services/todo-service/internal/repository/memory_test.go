package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"
)

func TestUserMemoryRepository(t *testing.T) {
	testUserRepository(t, NewUserMemoryRepository())
}

func TestTodoMemoryRepository(t *testing.T) {
	testTodoRepository(t, NewTodoMemoryRepository())
}

func TestUserMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserMemoryRepository()

	user, err := repo.CreateUser(ctx, &model.User{Email: "a@test.com"})
	require.NoError(t, err)
	require.NoError(t, repo.PushToken(ctx, user.ID.Hex(), model.Token{Access: "auth", Token: "t1"}))

	got, err := repo.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	got.Tokens[0].Token = "mutated"

	again, err := repo.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "t1", again.Tokens[0].Token)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, store.Close(context.Background()))
	assert.NotNil(t, store.Users)
	assert.NotNil(t, store.Todos)
}
