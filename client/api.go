// Package client talks to the coursedeck auth backend on behalf of the
// CLI, mirroring what the mobile app's user service did over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// API is the HTTP client for the auth backend.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// APIError is a failure response from the backend; Message is the
// server's human-readable explanation.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Profile is the authenticated account as returned by the backend.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func New(baseURL string) *API {
	return &API{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and returns the issued session token.
func (a *API) Register(ctx context.Context, name, email, password string) (string, error) {
	var resp tokenResponse
	err := a.postJSON(ctx, "/api/auth/register", registerRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login signs in and returns the issued session token.
func (a *API) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := a.postJSON(ctx, "/api/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Me fetches the profile behind the token-gated endpoint.
func (a *API) Me(ctx context.Context, token string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("[Me] build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	profile := &Profile{}
	if err := a.do(req, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (a *API) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return a.do(req, out)
}

func (a *API) do(req *http.Request, out any) error {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var failure struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil {
			apiErr.Message = failure.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
