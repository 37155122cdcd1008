package tempmail

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDomains(t *testing.T) {
	fp := newFakeProvider(t)
	fp.setDomains("example.test", "other.test")

	domains, err := newTestClient(fp).Domains(context.Background())
	if err != nil {
		t.Fatalf("Domains() error = %v", err)
	}
	if len(domains) != 2 || domains[0] != "example.test" || domains[1] != "other.test" {
		t.Errorf("Domains() = %v", domains)
	}
}

func TestDomains_ProviderFailure(t *testing.T) {
	fp := newFakeProvider(t)
	fp.setFailDomains(true)

	domains, err := newTestClient(fp).Domains(context.Background())
	if err == nil {
		t.Fatal("Domains() expected error")
	}
	if domains == nil || len(domains) != 0 {
		t.Errorf("Domains() = %v, want empty non-nil slice", domains)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not *APIError", err)
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
}

func TestCreateAccount(t *testing.T) {
	fp := newFakeProvider(t)

	session, err := newTestClient(fp).CreateAccount(context.Background())
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	address := session.Address()
	if !strings.HasSuffix(address, "@example.test") {
		t.Errorf("Address() = %q, want @example.test suffix", address)
	}

	local := strings.TrimSuffix(address, "@example.test")
	if len(local) != 10 {
		t.Errorf("local part %q has length %d, want 10", local, len(local))
	}
	for _, r := range local {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			t.Errorf("local part %q contains %q", local, r)
		}
	}

	if len(session.Password()) != 16 {
		t.Errorf("password length = %d, want 16", len(session.Password()))
	}

	// The provider must have seen the registration with these credentials.
	pw, ok := fp.password(address)
	if !ok {
		t.Fatalf("account %q was not registered", address)
	}
	if pw != session.Password() {
		t.Error("registered password does not match session password")
	}

	if session.CreatedAt().IsZero() {
		t.Error("CreatedAt() is zero")
	}
}

func TestCreateAccount_NoDomains(t *testing.T) {
	fp := newFakeProvider(t)
	fp.setDomains()

	session, err := newTestClient(fp).CreateAccount(context.Background())
	if !errors.Is(err, ErrNoDomains) {
		t.Errorf("CreateAccount() error = %v, want ErrNoDomains", err)
	}
	if session != nil {
		t.Error("CreateAccount() returned a session on failure")
	}
}

func TestCreateAccount_ProviderDown(t *testing.T) {
	fp := newFakeProvider(t)
	fp.setFailDomains(true)

	session, err := newTestClient(fp).CreateAccount(context.Background())
	if err == nil {
		t.Fatal("CreateAccount() expected error")
	}
	if session != nil {
		t.Error("CreateAccount() returned a session on failure")
	}
}

func TestLogin(t *testing.T) {
	fp := newFakeProvider(t)
	fp.addAccount("someone@example.test", "hunter22")

	session, err := newTestClient(fp).Login(context.Background(), "someone@example.test", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.Address() != "someone@example.test" {
		t.Errorf("Address() = %q", session.Address())
	}
	if session.Password() != "hunter22" {
		t.Errorf("Password() = %q", session.Password())
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	fp := newFakeProvider(t)
	fp.addAccount("someone@example.test", "hunter22")

	session, err := newTestClient(fp).Login(context.Background(), "someone@example.test", "wrong")
	if !errors.Is(err, ErrLoginFailed) {
		t.Errorf("Login() error = %v, want ErrLoginFailed", err)
	}
	if session != nil {
		t.Error("Login() returned a session on failure")
	}
}

func TestBaseURL(t *testing.T) {
	fp := newFakeProvider(t)

	if got := newTestClient(fp).BaseURL(); got != fp.url() {
		t.Errorf("BaseURL() = %q, want %q", got, fp.url())
	}

	if got := New(WithLogger(quietLogger())).BaseURL(); got != "https://api.mail.tm" {
		t.Errorf("default BaseURL() = %q", got)
	}
}
