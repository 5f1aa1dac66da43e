package authclient

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeTokenMalformed = "MALFORMED_TOKEN"
	textCodeTokenInvalid   = "INVALID_TOKEN"
	textCodeTokenExpired   = "EXPIRED_TOKEN"
	textCodeBadCredentials = "BAD_CREDENTIALS"
	textCodeProfileFetch   = "PROFILE_FETCH_FAILED"
	textCodeProfileUpdate  = "PROFILE_UPDATE_FAILED"
)

// ErrTokenMalformed is returned by DecodeToken for credentials that are not
// three dot-separated segments with a base64url JSON payload.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryValidation).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeBadRequest)

// ErrTokenInvalid is surfaced by the transport when the stored credential
// fails to decode. The call never reaches the network.
var ErrTokenInvalid = goerrors.New("Token inválido", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenInvalid).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is surfaced by the transport when the stored credential
// carries an elapsed exp claim. The call never reaches the network.
var ErrTokenExpired = goerrors.New("Token expirado", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrAuthentication is the login rejection, propagated unchanged to the UI.
var ErrAuthentication = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(textCodeBadCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrProfileFetch is the backend rejecting a profile read. Session state is
// left untouched; this is not a forced logout.
var ErrProfileFetch = goerrors.New("unable to fetch user profile", goerrors.CategoryOperation).
	WithTextCode(textCodeProfileFetch)

// ErrProfileUpdate is the backend rejecting a profile write.
var ErrProfileUpdate = goerrors.New("unable to update user profile", goerrors.CategoryOperation).
	WithTextCode(textCodeProfileUpdate)

// ErrStorageUnavailable wraps failures of the durable storage collaborator.
var ErrStorageUnavailable = goerrors.New("session storage unavailable", goerrors.CategoryInternal).
	WithCode(goerrors.CodeInternal)

// withMeta attaches per-call metadata to a clone so the package-level
// sentinel is never mutated. The clone keeps the sentinel as its source, so
// errors.Is still matches.
func withMeta(sentinel *goerrors.Error, meta map[string]any) error {
	clone := sentinel.Clone()
	if clone == nil {
		return sentinel
	}
	clone.Source = sentinel
	return clone.WithMetadata(meta)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsTokenInvalidError will check for credentials rejected before decode
func IsTokenInvalidError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenInvalid)
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed")
}
