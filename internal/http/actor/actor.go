package actor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/studioflow/internal/document"
)

// HeaderUserID carries the acting user when no JWT secret is configured.
const HeaderUserID = "X-User-ID"

var (
	ErrMissingIdentity = errors.New("missing identity")
	ErrInvalidToken    = errors.New("invalid token")
)

// Actor is the user behind a request plus the session details recorded in
// audit entries.
type Actor struct {
	UserID  string
	Session document.SessionInfo
}

type ctxKey struct{}

// Resolver extracts the actor from a request. With a secret it trusts only
// HS256 bearer tokens and reads the sub claim; without one it trusts the
// X-User-ID header set by the gateway.
type Resolver struct {
	secret []byte
}

func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

func (res *Resolver) Resolve(r *http.Request) (Actor, error) {
	a := Actor{Session: sessionInfo(r)}

	if len(res.secret) == 0 {
		a.UserID = strings.TrimSpace(r.Header.Get(HeaderUserID))
		if a.UserID == "" {
			return Actor{}, ErrMissingIdentity
		}

		return a, nil
	}

	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return Actor{}, ErrMissingIdentity
	}

	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return res.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return Actor{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	a.UserID = sub

	return a, nil
}

// Middleware rejects requests without a resolvable actor with 401.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, err := res.Resolve(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), a)))
	})
}

func NewContext(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor stored by Middleware.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}

func sessionInfo(r *http.Request) document.SessionInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	return document.SessionInfo{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}
