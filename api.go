package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// LoginRequest payload
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type loginResponse struct {
	Token string `json:"token"`
}

// HTTPAPI talks to the tournament backend over HTTP. Pass a client built
// with NewHTTPClient so profile calls carry the stored credential; the login
// call is issued before any token exists and goes through as anonymous.
type HTTPAPI struct {
	baseURL string
	client  *http.Client
	logger  Logger
}

// HTTPAPIOption customizes HTTPAPI construction.
type HTTPAPIOption func(*HTTPAPI)

// WithHTTPAPILogger overrides the default logger.
func WithHTTPAPILogger(logger Logger) HTTPAPIOption {
	return func(a *HTTPAPI) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewHTTPAPI returns an API implementation rooted at baseURL.
func NewHTTPAPI(baseURL string, client *http.Client, opts ...HTTPAPIOption) *HTTPAPI {
	if client == nil {
		client = http.DefaultClient
	}

	a := &HTTPAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// Login posts the credentials and returns the issued token. Backend
// rejections surface as ErrAuthentication for the UI to display.
func (a *HTTPAPI) Login(ctx context.Context, identifier, password string) (string, error) {
	payload := LoginRequest{Identifier: identifier, Password: password}
	if err := payload.Validate(); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload")
	}

	res, err := a.do(ctx, http.MethodPost, "/auth/login", payload)
	if err != nil {
		return "", mapTransportError(err, ErrAuthentication)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		a.logger.Info("login rejected", "status", res.StatusCode)
		return "", withMeta(ErrAuthentication, map[string]any{
			"status": res.StatusCode,
		})
	}

	var body loginResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "unable to decode login response")
	}

	return body.Token, nil
}

// FetchProfile reads the authenticated user's profile. Transport rejections
// (invalid or expired token) propagate with their own identity so callers
// can tell them apart from backend failures.
func (a *HTTPAPI) FetchProfile(ctx context.Context) (*UserProfile, error) {
	res, err := a.do(ctx, http.MethodGet, "/users/me", nil)
	if err != nil {
		return nil, mapTransportError(err, ErrProfileFetch)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, withMeta(ErrProfileFetch, map[string]any{
			"status": res.StatusCode,
		})
	}

	profile := new(UserProfile)
	if err := json.NewDecoder(res.Body).Decode(profile); err != nil {
		return nil, goerrors.Wrap(err, ErrProfileFetch.Category, ErrProfileFetch.Message).
			WithTextCode(ErrProfileFetch.TextCode)
	}

	return profile, nil
}

// UpdateProfile submits a partial update and returns the updated record.
func (a *HTTPAPI) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfileUpdate) (*UserProfile, error) {
	res, err := a.do(ctx, http.MethodPut, "/users/"+id.String(), patch)
	if err != nil {
		return nil, mapTransportError(err, ErrProfileUpdate)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, withMeta(ErrProfileUpdate, map[string]any{
			"status": res.StatusCode,
		})
	}

	profile := new(UserProfile)
	if err := json.NewDecoder(res.Body).Decode(profile); err != nil {
		return nil, goerrors.Wrap(err, ErrProfileUpdate.Category, ErrProfileUpdate.Message).
			WithTextCode(ErrProfileUpdate.TextCode)
	}

	return profile, nil
}

func (a *HTTPAPI) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to encode request payload")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("unable to build %s %s", method, path))
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return a.client.Do(req)
}

// mapTransportError keeps token rejections distinguishable: the http.Client
// wraps RoundTripper errors in *url.Error, so unwrap back to the sentinel.
// Anything else is folded into the operation's fallback error.
func mapTransportError(err error, fallback *goerrors.Error) error {
	switch {
	case errors.Is(err, ErrTokenInvalid):
		return ErrTokenInvalid
	case errors.Is(err, ErrTokenExpired):
		return ErrTokenExpired
	default:
		return goerrors.Wrap(err, fallback.Category, fallback.Message).
			WithTextCode(fallback.TextCode)
	}
}

var _ API = (*HTTPAPI)(nil)
