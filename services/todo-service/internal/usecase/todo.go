package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/repository"
	"github.com/vasapolrittideah/todo-api/shared/validator"
)

// TodoUsecase defines the todo operations available to an authenticated
// user. Todos belonging to other users are reported as ErrTodoNotFound.
type TodoUsecase interface {
	CreateTodo(ctx context.Context, params CreateTodoParams) (*model.Todo, error)
	ListTodos(ctx context.Context, createdBy bson.ObjectID) ([]*model.Todo, error)
	GetTodo(ctx context.Context, id string, createdBy bson.ObjectID) (*model.Todo, error)
	UpdateTodo(ctx context.Context, id string, createdBy bson.ObjectID, params UpdateTodoParams) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id string, createdBy bson.ObjectID) (*model.Todo, error)
}

// CreateTodoParams defines the parameters for creating a todo.
type CreateTodoParams struct {
	Text      string        `json:"text" validate:"required"`
	CreatedBy bson.ObjectID `json:"-"`
}

// UpdateTodoParams replaces text (when not nil) and the completion state of
// a todo. Completed false, including when the caller did not send it,
// clears the completion.
type UpdateTodoParams struct {
	Text      *string `json:"text" validate:"omitnil,min=1"`
	Completed bool    `json:"completed"`
}

type todoUsecase struct {
	todoRepo repository.TodoRepository
	validate *validator.Validator
	now      func() time.Time
}

func NewTodoUsecase(todoRepo repository.TodoRepository, validate *validator.Validator) TodoUsecase {
	return &todoUsecase{
		todoRepo: todoRepo,
		validate: validate,
		now:      time.Now,
	}
}

func (u *todoUsecase) CreateTodo(ctx context.Context, params CreateTodoParams) (*model.Todo, error) {
	params.Text = strings.TrimSpace(params.Text)
	if err := u.validate.Struct(params); err != nil {
		return nil, validationError(err)
	}

	return u.todoRepo.CreateTodo(ctx, &model.Todo{
		Text:      params.Text,
		CreatedBy: params.CreatedBy,
	})
}

func (u *todoUsecase) ListTodos(ctx context.Context, createdBy bson.ObjectID) ([]*model.Todo, error) {
	return u.todoRepo.ListTodos(ctx, createdBy)
}

func (u *todoUsecase) GetTodo(ctx context.Context, id string, createdBy bson.ObjectID) (*model.Todo, error) {
	todo, err := u.todoRepo.GetTodo(ctx, id, createdBy)
	if err != nil {
		return nil, mapTodoError(err)
	}

	return todo, nil
}

func (u *todoUsecase) UpdateTodo(
	ctx context.Context,
	id string,
	createdBy bson.ObjectID,
	params UpdateTodoParams,
) (*model.Todo, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, ErrTodoNotFound
	}

	if params.Text != nil {
		text := strings.TrimSpace(*params.Text)
		params.Text = &text
	}
	if err := u.validate.Struct(params); err != nil {
		return nil, validationError(err)
	}

	update := repository.UpdateTodoParams{Text: params.Text}
	if params.Completed {
		completedAt := u.now()
		update.Completed = true
		update.CompletedAt = &completedAt
	}

	todo, err := u.todoRepo.UpdateTodo(ctx, id, createdBy, update)
	if err != nil {
		return nil, mapTodoError(err)
	}

	return todo, nil
}

func (u *todoUsecase) DeleteTodo(ctx context.Context, id string, createdBy bson.ObjectID) (*model.Todo, error) {
	todo, err := u.todoRepo.DeleteTodo(ctx, id, createdBy)
	if err != nil {
		return nil, mapTodoError(err)
	}

	return todo, nil
}

func mapTodoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTodoNotFound
	}

	return err
}
