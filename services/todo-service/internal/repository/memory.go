package repository

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"
)

// The in-memory repositories mirror the Mongo ones operation for operation.
// A single mutex per repository makes each call atomic, and documents are
// copied on the way in and out so callers never share state with the store.

type userMemoryRepository struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*model.User
}

func NewUserMemoryRepository() UserRepository {
	return &userMemoryRepository{users: make(map[bson.ObjectID]*model.User)}
}

func (r *userMemoryRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, ErrDuplicateKey
		}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Tokens == nil {
		user.Tokens = []model.Token{}
	}

	r.users[user.ID] = cloneUser(user)

	return user, nil
}

func (r *userMemoryRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[objectID]
	if !ok {
		return nil, ErrNotFound
	}

	return cloneUser(user), nil
}

func (r *userMemoryRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}

	return nil, ErrNotFound
}

func (r *userMemoryRepository) GetUserByToken(_ context.Context, id, access, token string) (*model.User, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[objectID]
	if !ok || !user.HasToken(access, token) {
		return nil, ErrNotFound
	}

	return cloneUser(user), nil
}

func (r *userMemoryRepository) UpdateUser(_ context.Context, id string, params UpdateUserParams) (*model.User, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	if params.PasswordHash == nil {
		return nil, errors.New("no user fields to update")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[objectID]
	if !ok {
		return nil, ErrNotFound
	}

	user.PasswordHash = *params.PasswordHash
	user.UpdatedAt = time.Now()

	return cloneUser(user), nil
}

func (r *userMemoryRepository) PushToken(_ context.Context, id string, token model.Token) error {
	objectID, err := parseObjectID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[objectID]
	if !ok {
		return ErrNotFound
	}

	user.Tokens = append(user.Tokens, token)
	user.UpdatedAt = time.Now()

	return nil
}

func (r *userMemoryRepository) PullToken(_ context.Context, id, token string) error {
	objectID, err := parseObjectID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[objectID]
	if !ok {
		return ErrNotFound
	}

	user.Tokens = slices.DeleteFunc(user.Tokens, func(t model.Token) bool {
		return t.Token == token
	})
	user.UpdatedAt = time.Now()

	return nil
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Tokens = slices.Clone(u.Tokens)

	return &c
}

type todoMemoryRepository struct {
	mu    sync.Mutex
	todos map[bson.ObjectID]*model.Todo
}

func NewTodoMemoryRepository() TodoRepository {
	return &todoMemoryRepository{todos: make(map[bson.ObjectID]*model.Todo)}
}

func (r *todoMemoryRepository) CreateTodo(_ context.Context, todo *model.Todo) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	todo.ID = bson.NewObjectID()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	r.todos[todo.ID] = cloneTodo(todo)

	return todo, nil
}

func (r *todoMemoryRepository) ListTodos(_ context.Context, createdBy bson.ObjectID) ([]*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todos := []*model.Todo{}
	for _, todo := range r.todos {
		if todo.CreatedBy == createdBy {
			todos = append(todos, cloneTodo(todo))
		}
	}

	slices.SortFunc(todos, func(a, b *model.Todo) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	return todos, nil
}

func (r *todoMemoryRepository) GetTodo(_ context.Context, id string, createdBy bson.ObjectID) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, err := r.owned(id, createdBy)
	if err != nil {
		return nil, err
	}

	return cloneTodo(todo), nil
}

func (r *todoMemoryRepository) UpdateTodo(
	_ context.Context,
	id string,
	createdBy bson.ObjectID,
	params UpdateTodoParams,
) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, err := r.owned(id, createdBy)
	if err != nil {
		return nil, err
	}

	if params.Text != nil {
		todo.Text = *params.Text
	}
	todo.Completed = params.Completed
	todo.CompletedAt = cloneTime(params.CompletedAt)
	todo.UpdatedAt = time.Now()

	return cloneTodo(todo), nil
}

func (r *todoMemoryRepository) DeleteTodo(_ context.Context, id string, createdBy bson.ObjectID) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, err := r.owned(id, createdBy)
	if err != nil {
		return nil, err
	}

	delete(r.todos, todo.ID)

	return cloneTodo(todo), nil
}

// owned must be called with r.mu held.
func (r *todoMemoryRepository) owned(id string, createdBy bson.ObjectID) (*model.Todo, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	todo, ok := r.todos[objectID]
	if !ok || todo.CreatedBy != createdBy {
		return nil, ErrNotFound
	}

	return todo, nil
}

func cloneTodo(t *model.Todo) *model.Todo {
	c := *t
	c.CompletedAt = cloneTime(t.CompletedAt)

	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t

	return &c
}
