package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/pkg/account"
	"storefront/pkg/order"
	"storefront/pkg/otel"
)

// loginRequest represents login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileResponse struct {
	account.Profile
	PlacedOrders []order.Order `json:"placedOrders"`
}

// accountStatus maps account errors to the status shown next to the form.
func accountStatus(err error) int {
	switch {
	case errors.Is(err, account.ErrMissingFields),
		errors.Is(err, account.ErrPasswordMismatch),
		errors.Is(err, account.ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, account.ErrUsernameTaken), errors.Is(err, account.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// registerHandler creates an account.
// @Summary Register
// @Accept json
// @Produce json
// @Param account body account.Registration true "Registration"
// @Success 201 {object} account.Profile
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /register [post]
func (s *server) registerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "registerHandler")
	defer span.End()

	var req account.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.accounts.Register(ctx, req)
	if err != nil {
		status := accountStatus(err)
		if status == http.StatusInternalServerError {
			s.log.Error(ctx, "register", "error", err)
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, a.Profile())
}

// loginHandler checks credentials and records the current user.
// @Summary Login
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200 {object} account.Profile
// @Failure 401 {object} errorResponse
// @Router /login [post]
func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	a, err := s.accounts.Login(ctx, req.Username, req.Password)
	if err != nil {
		status := accountStatus(err)
		if status == http.StatusInternalServerError {
			s.log.Error(ctx, "login", "error", err)
		}
		writeError(w, status, err.Error())
		return
	}
	if err := s.sessionFor(ctx).Set(ctx, a.Profile()); err != nil {
		s.log.Error(ctx, "save session", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	writeJSON(w, http.StatusOK, a.Profile())
}

// logoutHandler forgets the current user.
// @Summary Logout
// @Success 204
// @Router /logout [post]
func (s *server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "logoutHandler")
	defer span.End()

	if err := s.sessionFor(ctx).Clear(ctx); err != nil {
		s.log.Error(ctx, "clear session", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// profileHandler returns the signed-in profile and its orders.
// @Summary Profile
// @Produce json
// @Success 200 {object} profileResponse
// @Failure 401 {object} errorResponse
// @Router /profile [get]
func (s *server) profileHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "profileHandler")
	defer span.End()

	p := ctx.Value(profileKey{}).(account.Profile)
	orders, err := s.orders.ListByUser(ctx, p.Username)
	if err != nil {
		s.log.Error(ctx, "list orders", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: p, PlacedOrders: orders})
}
