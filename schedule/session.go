/*
session.go - Session identity plumbing

PURPOSE:
  SessionProvider implementations. Authentication itself is external (an
  institutional Google sign-in fronted by a proxy); the engine only ever
  reads an already-established {email, name} pair at the start of each
  operation.

IMPLEMENTATIONS:
  - ContextSession: reads the identity the HTTP middleware stored on the
    request context (one engine serving many users).
  - StaticSession:  a fixed identity (single-user mode, tests).
*/
package schedule

import "context"

type sessionKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, sessionKey{}, u)
}

// UserFromContext extracts the user placed by WithUser, if any.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(sessionKey{}).(User)
	return u, ok && u.Email != ""
}

// ContextSession resolves the current user from the operation context.
type ContextSession struct{}

func (ContextSession) CurrentUser(ctx context.Context) (User, error) {
	if u, ok := UserFromContext(ctx); ok {
		return u, nil
	}
	return User{}, ErrNoSession
}

// StaticSession always returns the same user.
type StaticSession struct {
	User User
}

func (s StaticSession) CurrentUser(context.Context) (User, error) {
	if s.User.Email == "" {
		return User{}, ErrNoSession
	}
	return s.User, nil
}
