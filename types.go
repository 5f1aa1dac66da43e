package authclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Storage keys used by the session core. Two keys only: the raw credential
// and the serialized profile mirror.
const (
	TokenStorageKey   = "access_token"
	ProfileStorageKey = "current_user"
)

// RoleGuest is the sentinel role reported when a token carries no role claim.
const RoleGuest = "GUEST"

// Logger takes a message plus alternating key-value pairs, slog style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Storage is the durable key-value collaborator: synchronous get/set/remove,
// survives process restarts.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Navigator is the navigation collaborator: fire and forget.
type Navigator interface {
	Go(route string)
}

// NavigatorFunc adapts a function into a Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Go(route string) {
	if f != nil {
		f(route)
	}
}

// NoopNavigator discards navigation requests.
type NoopNavigator struct{}

func (NoopNavigator) Go(string) {}

// API is the backend collaborator consumed by the Auther. Profile calls are
// expected to go through a client whose transport attaches the credential.
type API interface {
	Login(ctx context.Context, identifier, password string) (string, error)
	FetchProfile(ctx context.Context) (*UserProfile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfileUpdate) (*UserProfile, error)
}

// Config holds client options
type Config interface {
	GetBaseURL() string
	GetLoginRoute() string
	GetUnauthorizedRoute() string
	GetAuthScheme() string
	GetStoragePath() string
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println(logLine("ERR", msg, args))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Println(logLine("WRN", msg, args))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println(logLine("INF", msg, args))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println(logLine("DBG", msg, args))
}

// logLine renders the message plus key-value pairs; a trailing unpaired
// value is appended as-is.
func logLine(level, msg string, args []any) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(level)
	b.WriteString("] AUTHCLIENT ")
	b.WriteString(msg)

	i := 0
	for ; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	if i < len(args) {
		fmt.Fprintf(&b, " %v", args[i])
	}

	return b.String()
}
