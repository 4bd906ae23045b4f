package domain_test

import (
	"context"
	"errors"
	"testing"

	"domovoice/internal/domain"
)

type countingProvider struct {
	calls int
	creds domain.Credentials
	err   error
}

func (p *countingProvider) Credentials(_ context.Context) (domain.Credentials, error) {
	p.calls++
	return p.creds, p.err
}

func TestResolveCredentials_ScopeReadsOnce(t *testing.T) {
	p := &countingProvider{creds: domain.Credentials{Server: "http://a", Username: "u", Password: "p"}}
	ctx := domain.WithCredentialScope(context.Background())

	for i := 0; i < 3; i++ {
		creds, err := domain.ResolveCredentials(ctx, p)
		if err != nil {
			t.Fatalf("ResolveCredentials error: %v", err)
		}
		if creds.Server != "http://a" {
			t.Errorf("server: got %q", creds.Server)
		}
	}
	if p.calls != 1 {
		t.Errorf("provider calls: got %d, want 1", p.calls)
	}

	if nested := domain.WithCredentialScope(ctx); nested != ctx {
		t.Error("nested scope should reuse the outer one")
	}
}

func TestResolveCredentials_NoScopeReadsEveryTime(t *testing.T) {
	p := &countingProvider{}

	_, _ = domain.ResolveCredentials(context.Background(), p)
	_, _ = domain.ResolveCredentials(context.Background(), p)

	if p.calls != 2 {
		t.Errorf("provider calls: got %d, want 2", p.calls)
	}
}

func TestResolveCredentials_ScopeKeepsError(t *testing.T) {
	cause := errors.New("unreadable")
	p := &countingProvider{err: &domain.ConfigurationError{Fields: []string{"domoticz"}, Err: cause}}
	ctx := domain.WithCredentialScope(context.Background())

	_, first := domain.ResolveCredentials(ctx, p)
	_, second := domain.ResolveCredentials(ctx, p)

	if !errors.Is(first, cause) || !errors.Is(second, cause) {
		t.Errorf("errors: got %v and %v, want the cause kept", first, second)
	}
	if p.calls != 1 {
		t.Errorf("provider calls: got %d, want 1", p.calls)
	}
}
