package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/middleware"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/usecase"
	sharedmiddleware "github.com/vasapolrittideah/todo-api/shared/middleware"
	"github.com/vasapolrittideah/todo-api/shared/validator"
)

type RouterParams struct {
	UserUsecase usecase.UserUsecase
	TodoUsecase usecase.TodoUsecase
	Store       Pinger
	Validator   *validator.Validator
	Logger      *zerolog.Logger
}

// NewRouter mounts the user, todo and health routes. Everything except
// registration, login and health requires an active x-auth token.
func NewRouter(params RouterParams) http.Handler {
	users := NewUserHandler(params.UserUsecase, params.Validator, params.Logger)
	todos := NewTodoHandler(params.TodoUsecase, params.Logger)

	r := chi.NewRouter()
	r.Use(sharedmiddleware.RequestLogger(params.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", Health(params.Store, params.Logger))

	r.Post("/users", users.Register)
	r.Post("/users/login", users.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(params.UserUsecase, params.Logger))

		r.Get("/users/me", users.Me)
		r.Delete("/users/me/token", users.Logout)
		r.Patch("/users/me/password", users.ChangePassword)

		r.Route("/todos", func(r chi.Router) {
			r.Post("/", todos.Create)
			r.Get("/", todos.List)
			r.Get("/{id}", todos.Get)
			r.Delete("/{id}", todos.Delete)
			r.Patch("/{id}", todos.Update)
		})
	})

	return r
}
