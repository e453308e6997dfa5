package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/coursedeck/accounts"
	"github.com/jrsteele09/coursedeck/auth"
	"github.com/jrsteele09/coursedeck/internal/logutil"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries an issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse is the authenticated account's public view.
type ProfileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrorResponse is the uniform failure body. Message is always safe to
// show to the end user.
type ErrorResponse struct {
	Message string `json:"message"`
}

// RegisterHandler creates an account and returns a session token.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sessionToken, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			s.writeAuthError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, TokenResponse{Token: sessionToken})
	}
}

// LoginHandler verifies credentials and returns a session token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sessionToken, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.writeAuthError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, TokenResponse{Token: sessionToken})
	}
}

// MeHandler returns the profile of the authenticated subject. It sits
// behind RequireAuth, which resolves the subject id into the context.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID, ok := SubjectID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authorized")
			return
		}

		account, err := s.auth.Account(r.Context(), subjectID)
		if err != nil {
			if errors.Is(err, accounts.AccountNotFoundErr) {
				// Valid token for an account that no longer exists.
				writeError(w, http.StatusUnauthorized, "not authorized")
				return
			}
			s.writeAuthError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, ProfileResponse{
			ID:    account.ID,
			Name:  account.DisplayName,
			Email: account.Email,
		})
	}
}

// writeAuthError maps service errors onto the HTTP error taxonomy.
// Internal detail never crosses the boundary; it goes to the
// request-scoped logger instead.
func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *auth.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, accounts.DuplicateAccountErr):
		writeError(w, http.StatusBadRequest, "account already exists")
	case errors.Is(err, auth.InvalidCredentialsErr):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, accounts.StoreUnavailableErr):
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Msg("account store unavailable")
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Msg("unhandled auth error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}
