package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/middleware"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/payload"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/usecase"
	"github.com/vasapolrittideah/todo-api/shared/logger"
	"github.com/vasapolrittideah/todo-api/shared/utilities"
	"github.com/vasapolrittideah/todo-api/shared/validator"
)

// TodoHandler serves the /todos routes. Todos are always scoped to the
// authenticated user; anything else is reported as 404.
type TodoHandler struct {
	todoUsecase usecase.TodoUsecase
	logger      *zerolog.Logger
}

func NewTodoHandler(todoUsecase usecase.TodoUsecase, logger *zerolog.Logger) *TodoHandler {
	return &TodoHandler{
		todoUsecase: todoUsecase,
		logger:      logger,
	}
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utilities.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	var req payload.CreateTodoRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		log.Debug().Err(err).Msg("invalid create todo request")
		h.writeError(w, r, "invalid request body")
		return
	}

	todo, err := h.todoUsecase.CreateTodo(r.Context(), usecase.CreateTodoParams{
		Text:      req.Text,
		CreatedBy: identity.User.ID,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			log.Debug().Err(err).Msg("rejected todo")
			h.writeError(w, r, validationMessage(err))
			return
		}

		log.Error().Err(err).Msg("failed to create todo")
		h.writeError(w, r, "failed to create todo")
		return
	}

	h.writeJSON(w, r, payload.NewTodoResponse(todo))
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utilities.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	todos, err := h.todoUsecase.ListTodos(r.Context(), identity.User.ID)
	if err != nil {
		logger.FromContext(r.Context(), h.logger).Error().Err(err).Msg("failed to list todos")
		utilities.WriteStatus(w, http.StatusBadRequest)
		return
	}

	h.writeJSON(w, r, payload.NewTodoListResponse(todos))
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utilities.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	todo, err := h.todoUsecase.GetTodo(r.Context(), chi.URLParam(r, "id"), identity.User.ID)
	if err != nil {
		h.writeLookupError(w, r, err, "failed to get todo")
		return
	}

	h.writeJSON(w, r, payload.TodoEnvelope{Todo: payload.NewTodoResponse(todo)})
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utilities.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	todo, err := h.todoUsecase.DeleteTodo(r.Context(), chi.URLParam(r, "id"), identity.User.ID)
	if err != nil {
		h.writeLookupError(w, r, err, "failed to delete todo")
		return
	}

	h.writeJSON(w, r, payload.TodoEnvelope{Todo: payload.NewTodoResponse(todo)})
}

// Update replaces text (when sent) and the completion state of a todo.
// Omitting completed, or sending anything but true, clears the completion.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utilities.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	var req payload.UpdateTodoRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, utilities.ErrEmptyBody) {
		log.Debug().Err(err).Msg("invalid update todo request")
		h.writeError(w, r, "invalid request body")
		return
	}

	todo, err := h.todoUsecase.UpdateTodo(r.Context(), chi.URLParam(r, "id"), identity.User.ID, usecase.UpdateTodoParams{
		Text:      req.Text,
		Completed: req.IsCompleted(),
	})
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			log.Debug().Err(err).Msg("rejected todo update")
			h.writeError(w, r, validationMessage(err))
			return
		}

		h.writeLookupError(w, r, err, "failed to update todo")
		return
	}

	h.writeJSON(w, r, payload.TodoEnvelope{Todo: payload.NewTodoResponse(todo)})
}

func (h *TodoHandler) writeLookupError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, usecase.ErrTodoNotFound) {
		utilities.WriteStatus(w, http.StatusNotFound)
		return
	}

	logger.FromContext(r.Context(), h.logger).Error().Err(err).Msg(msg)
	utilities.WriteStatus(w, http.StatusBadRequest)
}

func (h *TodoHandler) writeError(w http.ResponseWriter, r *http.Request, msg string) {
	if err := utilities.WriteError(w, http.StatusBadRequest, msg); err != nil {
		logger.FromContext(r.Context(), h.logger).Warn().Err(err).Msg("failed to write response")
	}
}

func (h *TodoHandler) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	if err := utilities.WriteJSON(w, http.StatusOK, v); err != nil {
		logger.FromContext(r.Context(), h.logger).Warn().Err(err).Msg("failed to write response")
	}
}

// validationMessage returns the rule failures without the sentinel prefix.
func validationMessage(err error) string {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	return err.Error()
}
