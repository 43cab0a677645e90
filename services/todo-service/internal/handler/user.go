package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/middleware"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/payload"
	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/usecase"
	"github.com/vasapolrittideah/todo-api/shared/logger"
	"github.com/vasapolrittideah/todo-api/shared/utilities"
	"github.com/vasapolrittideah/todo-api/shared/validator"
)

// UserHandler serves registration, login and the /users/me routes. Every
// failure on these routes answers 400 with an empty body.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	validate    *validator.Validator
	logger      *zerolog.Logger
}

func NewUserHandler(
	userUsecase usecase.UserUsecase,
	validate *validator.Validator,
	logger *zerolog.Logger,
) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validate:    validate,
		logger:      logger,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	var req payload.RegisterRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		log.Debug().Err(err).Msg("invalid register request")
		utilities.WriteStatus(w, http.StatusBadRequest)
		return
	}

	user, err := h.userUsecase.CreateUser(r.Context(), usecase.CreateUserParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) || errors.Is(err, usecase.ErrUserAlreadyExists) {
			log.Debug().Err(err).Msg("rejected registration")
		} else {
			log.Error().Err(err).Msg("failed to create user")
		}
		utilities.WriteStatus(w, http.StatusBadRequest)
		return
	}

	h.respondWithToken(w, r, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	var req payload.LoginRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		log.Debug().Err(err).Msg("invalid login request")
		utilities.WriteStatus(w, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Debug().Err(err).Msg("invalid login request")
		utilities.WriteStatus(w, http.StatusBadRequest)
		return
	}

	user, err := h.userUsecase.FindByCredentials(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			log.Debug().Err(err).Msg("rejected login")
		} else {
			log.Error().Err(err).Msg("failed to check credentials")
		}
		utilities.WriteStatus(w, http.StatusBadRequest)
		return
	}

	h.respondWithToken(w, r, user)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utilities.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	h.writeJSON(w, r, http.StatusOK, payload.NewUserResponse(identity.User))
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utilities.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	if err := h.userUsecase.RemoveToken(r.Context(), identity.User, identity.Token); err != nil {
		logger.FromContext(r.Context(), h.logger).Error().Err(err).Msg("failed to remove auth token")
		utilities.WriteStatus(w, http.StatusBadRequest)
		return
	}

	utilities.WriteStatus(w, http.StatusOK)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utilities.WriteStatus(w, http.StatusUnauthorized)
		return
	}

	var req payload.ChangePasswordRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		log.Debug().Err(err).Msg("invalid change password request")
		utilities.WriteStatus(w, http.StatusBadRequest)
		return
	}

	err := h.userUsecase.ChangePassword(r.Context(), identity.User, usecase.ChangePasswordParams{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) || errors.Is(err, usecase.ErrInvalidCredentials) {
			log.Debug().Err(err).Msg("rejected password change")
		} else {
			log.Error().Err(err).Msg("failed to change password")
		}
		utilities.WriteStatus(w, http.StatusBadRequest)
		return
	}

	utilities.WriteStatus(w, http.StatusOK)
}

func (h *UserHandler) respondWithToken(w http.ResponseWriter, r *http.Request, user *model.User) {
	token, err := h.userUsecase.GenerateAuthToken(r.Context(), user)
	if err != nil {
		logger.FromContext(r.Context(), h.logger).Error().Err(err).Msg("failed to generate auth token")
		utilities.WriteStatus(w, http.StatusBadRequest)
		return
	}

	w.Header().Set(middleware.AuthHeader, token)
	h.writeJSON(w, r, http.StatusOK, payload.NewUserResponse(user))
}

func (h *UserHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := utilities.WriteJSON(w, status, v); err != nil {
		logger.FromContext(r.Context(), h.logger).Warn().Err(err).Msg("failed to write response")
	}
}
