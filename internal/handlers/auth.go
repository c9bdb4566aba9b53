package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/casadocarlos/matriculas/internal/models"
	"github.com/casadocarlos/matriculas/internal/services"
	pkghttp "github.com/casadocarlos/matriculas/pkg/http"
)

// AuthServiceInterface defines the interface for the login flow
type AuthServiceInterface interface {
	Login(ctx context.Context, clientKey, username, password string) (*services.LoginResult, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginRequest represents the request body for login. Neither field is
// rejected up front: a missing or mistyped password counts as a failed
// attempt, exactly like a wrong one.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		pkghttp.WriteBadRequest(w, "Pedido inválido")
		return
	}

	clientKey := pkghttp.ClientKey(r)

	result, err := h.service.Login(r.Context(), clientKey, req.Username, req.Password)
	if err != nil {
		var lockErr *models.LockoutError
		var credErr *models.CredentialsError
		switch {
		case errors.Is(err, models.ErrAuthNotConfigured):
			pkghttp.WriteInternalError(w, "Autenticação não configurada")
		case errors.As(err, &lockErr):
			message := "Muitas tentativas. Tenta novamente mais tarde."
			if lockErr.Triggered {
				message = "Excedeste o número de tentativas. Aguarda alguns minutos antes de tentar novamente."
			}
			pkghttp.WriteLockedOut(w, message, lockErr.RetryAfter)
		case errors.As(err, &credErr):
			pkghttp.WriteInvalidCredentials(w, "Credenciais inválidas", credErr.AttemptsRemaining)
		default:
			pkghttp.WriteInternalError(w, "Erro no servidor")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}
