package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hongminglow/notes-be/internal/http/respond"
	"github.com/hongminglow/notes-be/internal/models/dto"
	"github.com/hongminglow/notes-be/internal/service"
)

// UserHandler owns the register, login and current-user endpoints.
type UserHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(accounts *service.AccountService, logger *slog.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: logger}
}

// Register attaches user routes under prefix. limit wraps the credential
// endpoints; guard wraps the authenticated one.
func (h *UserHandler) Register(mux *http.ServeMux, prefix string, limit, guard func(http.Handler) http.Handler) {
	mux.Handle("POST "+prefix+"/user", limit(http.HandlerFunc(h.handleRegister)))
	mux.Handle("POST "+prefix+"/user/login", limit(http.HandlerFunc(h.handleLogin)))
	mux.Handle("GET "+prefix+"/user/currentuser", guard(http.HandlerFunc(h.handleCurrentUser)))
}

func (h *UserHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.AuthResponse{User: res.User, Token: res.Token})
}

func (h *UserHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := h.accounts.Login(r.Context(), service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.AuthResponse{User: res.User, Token: res.Token})
}

func (h *UserHandler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.CurrentUser(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}
