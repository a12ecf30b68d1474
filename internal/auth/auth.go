// Package auth turns request credentials into the identity of a gamer.
//
// The identity is resolved once per request by the middleware and handed to
// services as a plain uid.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNoCredentials      = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Identity struct {
	UID string
}

// Resolver extracts the caller identity from a request.
type Resolver interface {
	Resolve(r *http.Request) (Identity, error)
}

type contextKey string

const identityKey = contextKey("identity")

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UID != ""
}

// credential returns the Authorization header value without its scheme.
func credential(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	for _, scheme := range []string{"Bearer ", "Token "} {
		if len(h) >= len(scheme) && strings.EqualFold(h[:len(scheme)], scheme) {
			return strings.TrimSpace(h[len(scheme):])
		}
	}
	return h
}

// HeaderResolver trusts the Authorization value as the gamer uid. It exists
// for clients that predate signed tokens.
type HeaderResolver struct{}

func (HeaderResolver) Resolve(r *http.Request) (Identity, error) {
	uid := credential(r)
	if uid == "" {
		return Identity{}, ErrNoCredentials
	}
	return Identity{UID: uid}, nil
}
