package domain

import (
	"context"
	"strings"
	"sync"
)

type Credentials struct {
	Server   string
	Username string
	Password string
}

func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Server) == "" {
		missing = append(missing, "server")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Fields: missing}
	}
	return nil
}

// CredentialsProvider is consulted once per command; see WithCredentialScope.
type CredentialsProvider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

type StaticCredentials Credentials

func (s StaticCredentials) Credentials(_ context.Context) (Credentials, error) {
	c := Credentials(s)
	if err := c.Validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

type credentialScopeKey struct{}

type credentialScope struct {
	once  sync.Once
	creds Credentials
	err   error
}

// WithCredentialScope starts a command: every ResolveCredentials on the
// returned context reads the provider at most once, so the requests of one
// command all use the same server and account. Nested calls reuse the scope.
func WithCredentialScope(ctx context.Context) context.Context {
	if _, ok := ctx.Value(credentialScopeKey{}).(*credentialScope); ok {
		return ctx
	}
	return context.WithValue(ctx, credentialScopeKey{}, &credentialScope{})
}

// ResolveCredentials reads p, memoised for the command when ctx carries a
// scope. Without a scope every call reads p.
func ResolveCredentials(ctx context.Context, p CredentialsProvider) (Credentials, error) {
	scope, ok := ctx.Value(credentialScopeKey{}).(*credentialScope)
	if !ok {
		return p.Credentials(ctx)
	}
	scope.once.Do(func() {
		scope.creds, scope.err = p.Credentials(ctx)
	})
	return scope.creds, scope.err
}
